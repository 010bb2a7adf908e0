// Package engine executes GraphQL operations against a transport link and a
// result store, applying the fetch and error policies selected per call.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/perihelia/graphlink/cache"
	"github.com/perihelia/graphlink/internal/logging"
	"github.com/perihelia/graphlink/transport"
)

// FetchPolicy controls how the store participates in a read.
type FetchPolicy int

const (
	// CacheFirst serves a stored result when one exists and falls back to
	// the network, writing the response through. This is the default stance
	// for reads; mutations never read the store regardless.
	CacheFirst FetchPolicy = iota
	// NetworkOnly always hits the network. Responses are still written
	// through to the store.
	NetworkOnly
)

// ErrorPolicy controls how GraphQL-level errors surface.
type ErrorPolicy int

const (
	// FailFast turns a response carrying GraphQL errors into a call failure.
	FailFast ErrorPolicy = iota
	// CollectAll delivers GraphQL errors inside the outcome alongside
	// whatever data arrived.
	CollectAll
)

// Op is one operation ready to execute.
type Op struct {
	// ID correlates logs and transport. Minted when empty.
	ID            string
	Kind          string
	Query         string
	OperationName string
	Variables     map[string]any
	Headers       map[string]string
	Fetch         FetchPolicy
	Errors        ErrorPolicy
}

// Outcome is what an executed operation produced.
type Outcome struct {
	ID           string
	Data         json.RawMessage
	Errors       transport.Errors
	FromCache    bool
	CacheWritten bool
}

// Engine binds a transport link and a result store. It is immutable after
// construction.
type Engine struct {
	link   transport.Link
	store  cache.Store
	logger *slog.Logger
}

// New binds link and store. Both are required; a nil logger falls back to a
// silent one.
func New(link transport.Link, store cache.Store, logger *slog.Logger) (*Engine, error) {
	if link == nil {
		return nil, errors.New("engine: nil transport link")
	}
	if store == nil {
		return nil, errors.New("engine: nil store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{link: link, store: store, logger: logger}, nil
}

// Execute runs op. A nil error with a non-empty Outcome.Errors means the
// server reported GraphQL-level errors under CollectAll; a non-nil error
// means no usable response was obtained, or FailFast promoted the response
// errors.
func (e *Engine) Execute(ctx context.Context, op Op) (*Outcome, error) {
	out := &Outcome{ID: op.ID}
	if out.ID == "" {
		out.ID = uuid.NewString()
	}

	key, err := cache.Key(op.Query, op.Variables)
	cacheable := err == nil
	if !cacheable {
		e.logger.DebugContext(ctx, "operation not cacheable",
			"id", out.ID, "err", err)
	}

	if cacheable && op.Kind == transport.KindQuery && op.Fetch == CacheFirst {
		data, err := e.store.Read(ctx, key)
		switch {
		case err == nil:
			e.logger.DebugContext(ctx, "cache hit", "id", out.ID, "key", key)
			out.Data = data
			out.FromCache = true
			return out, nil
		case !errors.Is(err, cache.ErrMiss):
			// Degraded cache infrastructure never fails a call.
			e.logger.WarnContext(ctx, "cache read failed",
				"id", out.ID, "err", err)
		}
	}

	resp, err := e.link.RoundTrip(ctx, &transport.Request{
		Kind:          op.Kind,
		Query:         op.Query,
		OperationName: op.OperationName,
		Variables:     op.Variables,
		Headers:       op.Headers,
		ID:            out.ID,
	})
	if err != nil {
		return nil, err
	}

	if hasData(resp.Data) {
		out.Data = resp.Data
		if cacheable {
			if err := e.store.Write(ctx, key, resp.Data); err != nil {
				e.logger.WarnContext(ctx, "cache write failed",
					"id", out.ID, "err", err)
			} else {
				out.CacheWritten = true
			}
		}
	}

	if op.Errors == CollectAll {
		out.Errors = resp.Errors
		return out, nil
	}
	if len(resp.Errors) > 0 {
		return nil, resp.Errors
	}
	return out, nil
}

func hasData(d json.RawMessage) bool {
	d = bytes.TrimSpace(d)
	return len(d) > 0 && !bytes.Equal(d, []byte("null"))
}
