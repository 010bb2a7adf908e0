// Package graphlink is a client for GraphQL servers. A Client targets a
// single endpoint, carries a mutable header set injected into every call,
// sends queries and mutations built from pre-parsed documents, uploads files
// through multipart requests, and writes results through a pluggable cache.
//
// Queries always hit the network and never read the cache; both operation
// kinds write their results through. GraphQL-level errors never fail a call:
// they come back inside the Result next to whatever data the server produced,
// and only the absence of a usable response makes a call return an error.
//
//	client, err := graphlink.New("https://api.example.com/graphql",
//		graphlink.WithHeaders(map[string]string{"Authorization": "Bearer ..."}))
//	if err != nil {
//		// ...
//	}
//	doc := graphlink.MustParseDocument(`query { viewer { login } }`)
//	res, err := client.Query(ctx, doc, nil)
package graphlink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/perihelia/graphlink/cache"
	"github.com/perihelia/graphlink/internal/engine"
	"github.com/perihelia/graphlink/internal/logging"
	"github.com/perihelia/graphlink/transport"
)

// Variables bind values to the parameters a document declares. Values
// anywhere in the tree may be Upload values.
type Variables map[string]any

// Client issues queries and mutations against a single GraphQL endpoint.
//
// A Client owns exactly one header set, one cache store, one transport link
// and one engine, all fixed at construction; there is no reconfiguration and
// no teardown. Headers is the only mutable state: every call reads whatever
// is current when it dispatches, and the effective headers of a call are the
// instance headers merged over the defaults captured at construction.
type Client struct {
	// Headers is injected into every call. The owner may mutate it between
	// calls; callers mutating it while calls are in flight must serialize
	// access themselves.
	Headers map[string]string

	endpoint string
	engine   *engine.Engine
	hooks    Hooks
	logger   *slog.Logger
}

// New builds a Client for endpoint, which must be an absolute URI. The three
// owned pieces are built in dependency order (cache, transport link, engine
// binding) and each failure is tagged with the stage that failed. No network
// I/O happens until the first call.
func New(endpoint string, opts ...Option) (*Client, error) {
	cfg := config{headers: make(map[string]string)}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logging.NewNop()
	}

	store := cfg.store
	if !cfg.storeSet {
		store = cache.NewMemory(cfg.capacity)
	}
	if store == nil {
		return nil, fmt.Errorf("%w: %w", ErrCacheInit, errors.New("nil store"))
	}

	httpOpts := []transport.HTTPOption{
		transport.WithDefaultHeaders(cfg.headers),
		transport.WithLogger(cfg.logger),
		transport.WithDebug(cfg.debug),
	}
	if cfg.httpClient != nil {
		httpOpts = append(httpOpts, transport.WithHTTPClient(cfg.httpClient))
	}
	httpLink, err := transport.NewHTTPLink(endpoint, httpOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransportInit, err)
	}

	var mw []transport.Middleware
	if cfg.retries > 0 {
		mw = append(mw, transport.Retry(cfg.retries+1, 0))
	}
	link := transport.Chain(httpLink, mw...)

	eng, err := engine.New(link, store, cfg.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEngineBind, err)
	}

	headers := make(map[string]string, len(cfg.headers))
	for k, v := range cfg.headers {
		headers[k] = v
	}

	return &Client{
		Headers:  headers,
		endpoint: httpLink.Endpoint(),
		engine:   eng,
		hooks:    cfg.hooks,
		logger:   cfg.logger,
	}, nil
}

// Endpoint returns the serialized endpoint URI the client targets.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Query executes a query built from document. The document's canonical form
// is what goes over the wire; the store is never read, but the response is
// written through. GraphQL errors come back inside the Result, and the
// returned error is non-nil only when no usable response was obtained.
func (c *Client) Query(
	ctx context.Context,
	document *Document,
	variables Variables,
) (*Result, error) {
	if document == nil {
		return nil, errors.New("graphlink: nil document")
	}
	return c.do(ctx, engine.Op{
		ID:            uuid.NewString(),
		Kind:          transport.KindQuery,
		Query:         document.Normalized(),
		OperationName: document.Name(),
		Variables:     variables,
		Headers:       c.headerSnapshot(),
		Fetch:         engine.NetworkOnly,
		Errors:        engine.CollectAll,
	})
}

// Mutate executes a mutation built from document. The document text is sent
// exactly as supplied, with no normalization and no fetch-policy override;
// the response is still written through to the store. GraphQL errors come
// back inside the Result, the same as Query.
func (c *Client) Mutate(
	ctx context.Context,
	document *Document,
	variables Variables,
) (*Result, error) {
	if document == nil {
		return nil, errors.New("graphlink: nil document")
	}
	return c.do(ctx, engine.Op{
		ID:            uuid.NewString(),
		Kind:          transport.KindMutation,
		Query:         document.Source(),
		OperationName: document.Name(),
		Variables:     variables,
		Headers:       c.headerSnapshot(),
		Errors:        engine.CollectAll,
	})
}

func (c *Client) do(ctx context.Context, op engine.Op) (*Result, error) {
	if c.hooks.OnRequest != nil {
		c.hooks.OnRequest(ctx, RequestEvent{
			ID:            op.ID,
			Kind:          op.Kind,
			OperationName: op.OperationName,
		})
	}

	start := time.Now()
	out, err := c.engine.Execute(ctx, op)
	if err != nil {
		if c.hooks.OnResponse != nil {
			c.hooks.OnResponse(ctx, ResponseEvent{
				ID:             op.ID,
				Kind:           op.Kind,
				OperationName:  op.OperationName,
				Duration:       time.Since(start),
				TransportError: true,
			})
		}
		return nil, err
	}

	if c.hooks.OnResponse != nil {
		c.hooks.OnResponse(ctx, ResponseEvent{
			ID:            op.ID,
			Kind:          op.Kind,
			OperationName: op.OperationName,
			Duration:      time.Since(start),
			ErrorCount:    len(out.Errors),
			FromCache:     out.FromCache,
			CacheWritten:  out.CacheWritten,
		})
	}
	return &Result{Data: out.Data, Errors: out.Errors}, nil
}

// headerSnapshot copies the current header set so an in-flight call is not
// affected by later mutation.
func (c *Client) headerSnapshot() map[string]string {
	h := make(map[string]string, len(c.Headers))
	for k, v := range c.Headers {
		h[k] = v
	}
	return h
}
