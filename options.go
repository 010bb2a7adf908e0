package graphlink

import (
	"log/slog"
	"net/http"

	"github.com/perihelia/graphlink/cache"
)

type config struct {
	headers    map[string]string
	httpClient *http.Client
	store      cache.Store
	storeSet   bool
	capacity   int
	logger     *slog.Logger
	hooks      Hooks
	retries    int
	debug      bool
}

// Option configures a Client under construction.
type Option func(*config)

// WithHeaders seeds the header set. The map is copied; mutate Client.Headers
// afterwards to change headers between calls.
func WithHeaders(headers map[string]string) Option {
	return func(c *config) {
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// WithHTTPClient sets the *http.Client the transport link sends through.
// This is also where timeout policy lives.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) {
		c.httpClient = hc
	}
}

// WithStore injects the cache store instead of the default in-memory one.
func WithStore(store cache.Store) Option {
	return func(c *config) {
		c.store = store
		c.storeSet = true
	}
}

// WithCacheCapacity bounds the default in-memory store to n entries. It has
// no effect when WithStore is used.
func WithCacheCapacity(n int) Option {
	return func(c *config) {
		c.capacity = n
	}
}

// WithLogger routes the client's debug logging to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithHooks registers lifecycle callbacks invoked around every call.
func WithHooks(hooks Hooks) Option {
	return func(c *config) {
		c.hooks = hooks
	}
}

// WithRetries re-attempts a failed query transport up to n extra times.
// Mutations are never retried.
func WithRetries(n int) Option {
	return func(c *config) {
		c.retries = n
	}
}

// WithDebug attaches request and response dumps to returned errors, which is
// useful when troubleshooting a misbehaving server.
func WithDebug(debug bool) Option {
	return func(c *config) {
		c.debug = debug
	}
}
