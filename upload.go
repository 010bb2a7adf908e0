package graphlink

import (
	"io"

	"github.com/perihelia/graphlink/transport"
)

// Upload marks a variable value as file content. Any Upload found in a
// call's variables makes the transport send a multipart request with the
// file carried as its own part.
type Upload = transport.Upload

// NewUpload returns an Upload reading from r, reported with the given
// filename.
func NewUpload(name string, r io.Reader) *Upload {
	return transport.NewUpload(name, r)
}
