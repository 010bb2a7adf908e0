package transport

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Error codes attached to transport-produced errors under extensions["code"].
const (
	ErrRequestError = "request_error"
	ErrJsonEncode   = "json_encode_error"
	ErrJsonDecode   = "json_decode_error"
)

// Errors represents the "errors" array in a response from a GraphQL server.
// If returned via the error interface, the slice is expected to contain at
// least 1 element.
//
// Specification: https://spec.graphql.org/October2021/#sec-Errors.
type Errors []Error

// Error is a single GraphQL error. The transport also uses it for its own
// failures, tagged with a code in Extensions.
type Error struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
	Locations  []Location     `json:"locations,omitempty"`
}

// Location points at the part of the document an error refers to.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Error implements the error interface.
func (e Error) Error() string {
	return fmt.Sprintf("Message: %s, Locations: %+v", e.Message, e.Locations)
}

// Error implements the error interface.
func (e Errors) Error() string {
	b := strings.Builder{}
	for _, err := range e {
		b.WriteString(err.Error())
	}
	return b.String()
}

// GetCode returns the error code from the extensions, or an empty string if
// not present.
func (e Error) GetCode() string {
	if e.Extensions == nil {
		return ""
	}
	code, ok := e.Extensions["code"].(string)
	if !ok {
		return ""
	}
	return code
}

// StatusCode returns the HTTP status recorded on the error, or 0 when the
// failure happened before any response arrived.
func (e Error) StatusCode() int {
	if e.Extensions == nil {
		return 0
	}
	status, ok := e.Extensions["status"].(int)
	if !ok {
		return 0
	}
	return status
}

// newError creates an Error with the given code and underlying error.
func newError(code string, err error) Error {
	return Error{
		Message: err.Error(),
		Extensions: map[string]any{
			"code": code,
		},
	}
}

// newSimpleErrors creates an Errors slice with a single error, wrapping the
// given error with the specified code.
func newSimpleErrors(code string, err error) Errors {
	return Errors{newError(code, err)}
}

func (e Error) getInternalExtension() map[string]any {
	if e.Extensions == nil {
		return make(map[string]any)
	}
	if ex, ok := e.Extensions["internal"]; ok {
		return ex.(map[string]any)
	}
	return make(map[string]any)
}

// withDebugInfo adds debug information to the error's internal extensions.
// It reads the body from bodyReader and stores it along with headers under the
// given infoType key ("request" or "response").
func (e Error) withDebugInfo(
	infoType string,
	headers http.Header,
	bodyReader io.Reader,
) Error {
	internal := e.getInternalExtension()
	bodyBytes, err := io.ReadAll(bodyReader)
	if err != nil {
		internal["error"] = err
	} else {
		internal[infoType] = map[string]any{
			"headers": headers,
			"body":    string(bodyBytes),
		}
	}

	if e.Extensions == nil {
		e.Extensions = make(map[string]any)
	}
	e.Extensions["internal"] = internal
	return e
}

func (e Error) withRequest(req *http.Request, bodyReader io.Reader) Error {
	return e.withDebugInfo("request", req.Header, bodyReader)
}

func (e Error) withResponse(res *http.Response, bodyReader io.Reader) Error {
	return e.withDebugInfo("response", res.Header, bodyReader)
}
