package transport

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/perihelia/graphlink/internal/logging"
)

// operationsPayload is the JSON body of a GraphQL HTTP request. The same
// shape serves as the "operations" field of a multipart request.
type operationsPayload struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

// HTTPLink is the terminal Link. It POSTs operations to a single endpoint as
// JSON, switching to a multipart form when the variables carry uploads, and
// decodes the response envelope. Requests only succeed on a 200 response with
// a decodable body; anything else comes back as an error.
type HTTPLink struct {
	endpoint string
	client   *http.Client
	headers  map[string]string
	logger   *slog.Logger
	debug    bool
}

// HTTPOption configures an HTTPLink.
type HTTPOption func(*HTTPLink)

// WithHTTPClient sets the *http.Client requests are sent through.
func WithHTTPClient(hc *http.Client) HTTPOption {
	return func(l *HTTPLink) {
		if hc != nil {
			l.client = hc
		}
	}
}

// WithDefaultHeaders sets headers applied to every request before the
// per-call headers. The map is copied.
func WithDefaultHeaders(h map[string]string) HTTPOption {
	return func(l *HTTPLink) {
		for k, v := range h {
			l.headers[k] = v
		}
	}
}

// WithLogger routes the link's debug logging to logger.
func WithLogger(logger *slog.Logger) HTTPOption {
	return func(l *HTTPLink) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithDebug attaches request and response dumps to returned errors.
func WithDebug(debug bool) HTTPOption {
	return func(l *HTTPLink) {
		l.debug = debug
	}
}

// NewHTTPLink returns a terminal link bound to endpoint. The endpoint must be
// an absolute URI; it is re-serialized before use. If no HTTP client is
// supplied, http.DefaultClient is used.
func NewHTTPLink(endpoint string, opts ...HTTPOption) (*HTTPLink, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("endpoint %q is not an absolute URI", endpoint)
	}
	l := &HTTPLink{
		endpoint: u.String(),
		client:   http.DefaultClient,
		headers:  make(map[string]string),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Endpoint returns the serialized endpoint URI the link targets.
func (l *HTTPLink) Endpoint() string {
	return l.endpoint
}

// RoundTrip implements Link.
func (l *HTTPLink) RoundTrip(ctx context.Context, req *Request) (*Response, error) {
	httpReq, reqBody, err := l.buildRequest(ctx, req)
	if err != nil {
		return nil, newSimpleErrors(
			ErrRequestError,
			fmt.Errorf("problem constructing request: %w", err),
		)
	}

	l.logger.DebugContext(ctx, "sending graphql request",
		"id", req.ID,
		"kind", req.Kind,
		"operation", req.OperationName,
		"body_len", len(reqBody),
	)

	resp, err := l.client.Do(httpReq)
	if err != nil {
		e := newError(ErrRequestError, err)
		if l.debug {
			e = e.withRequest(httpReq, bytes.NewReader(reqBody))
		}
		return nil, Errors{e}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		e := newError(
			ErrRequestError,
			fmt.Errorf("%v; body: %q", resp.Status, body),
		)
		e.Extensions["status"] = resp.StatusCode
		if l.debug {
			e = e.withRequest(httpReq, bytes.NewReader(reqBody))
		}
		return nil, Errors{e}
	}

	r, err := gzipReader(resp)
	if err != nil {
		return nil, newSimpleErrors(ErrJsonDecode, err)
	}
	defer func() { _ = r.Close() }()

	respBody, err := io.ReadAll(r)
	if err != nil {
		return nil, newSimpleErrors(ErrJsonDecode, err)
	}

	var out Response
	if err := json.Unmarshal(respBody, &out); err != nil {
		e := newError(ErrJsonDecode, err)
		if l.debug {
			e = e.withRequest(httpReq, bytes.NewReader(reqBody))
			e = e.withResponse(resp, bytes.NewReader(respBody))
		}
		return nil, Errors{e}
	}

	if l.debug && len(out.Errors) > 0 {
		out.Errors[0] = out.Errors[0].withRequest(httpReq, bytes.NewReader(reqBody))
		out.Errors[0] = out.Errors[0].withResponse(resp, bytes.NewReader(respBody))
	}

	l.logger.DebugContext(ctx, "graphql response",
		"id", req.ID,
		"status", resp.StatusCode,
		"errors", len(out.Errors),
	)
	return &out, nil
}

// buildRequest constructs the HTTP request for req, choosing JSON or
// multipart encoding, and returns the body bytes for error decoration.
func (l *HTTPLink) buildRequest(
	ctx context.Context,
	req *Request,
) (*http.Request, []byte, error) {
	scrubbed, uploads := extractUploads(req.Variables)

	var (
		body        []byte
		contentType string
	)
	if len(uploads) == 0 {
		var buf bytes.Buffer
		err := json.NewEncoder(&buf).Encode(operationsPayload{
			Query:         req.Query,
			Variables:     req.Variables,
			OperationName: req.OperationName,
		})
		if err != nil {
			return nil, nil, err
		}
		body = buf.Bytes()
		contentType = "application/json"
	} else {
		var err error
		body, contentType, err = encodeMultipart(req, scrubbed, uploads)
		if err != nil {
			return nil, nil, err
		}
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		l.endpoint,
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, body, err
	}
	httpReq.Header.Set("Content-Type", contentType)
	if req.ID != "" {
		httpReq.Header.Set("X-Request-Id", req.ID)
	}
	for k, v := range l.headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	return httpReq, body, nil
}

// gzipReader wraps the response body with a gzip decompressor when the
// Content-Encoding header says so.
func gzipReader(resp *http.Response) (io.ReadCloser, error) {
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("problem trying to create gzip reader: %w", err)
		}
		return gr, nil
	}
	return io.NopCloser(resp.Body), nil
}
