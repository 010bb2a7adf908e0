// Package transport carries GraphQL operations over the wire. It defines the
// request and response envelopes, the Link interface that terminal and
// wrapping stages implement, and an HTTP link that speaks both plain JSON and
// the multipart form convention for file uploads.
package transport

import (
	"context"
	"encoding/json"
)

// Operation kinds carried on a Request.
const (
	KindQuery    = "query"
	KindMutation = "mutation"
)

// Request is a single GraphQL operation on its way to the server.
type Request struct {
	// Kind is KindQuery or KindMutation.
	Kind string
	// Query is the operation source text, sent exactly as given.
	Query string
	// OperationName selects the operation when the document defines several.
	OperationName string
	// Variables are the operation variables. Values anywhere in the tree may
	// be Upload values, which switches the HTTP link to multipart encoding.
	Variables map[string]any
	// Headers are the per-call headers, applied over the link's defaults.
	Headers map[string]string
	// ID correlates logs and the outbound X-Request-Id header.
	ID string
}

// Response is a decoded GraphQL response envelope.
type Response struct {
	Data   json.RawMessage `json:"data"`
	Errors Errors          `json:"errors"`
}

// Link sends one request and returns the decoded response. A nil error with a
// non-empty Errors slice means the server answered with GraphQL-level errors;
// a non-nil error means no usable response was obtained at all.
type Link interface {
	RoundTrip(ctx context.Context, req *Request) (*Response, error)
}

// LinkFunc adapts a function to the Link interface.
type LinkFunc func(ctx context.Context, req *Request) (*Response, error)

// RoundTrip implements Link.
func (f LinkFunc) RoundTrip(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// Middleware wraps a Link with additional behavior.
type Middleware func(Link) Link

// Chain composes middleware around a terminal link. The first middleware ends
// up outermost.
func Chain(terminal Link, mw ...Middleware) Link {
	link := terminal
	for i := len(mw) - 1; i >= 0; i-- {
		link = mw[i](link)
	}
	return link
}
