// Package metrics exposes Prometheus collectors fed by graphlink lifecycle
// hooks.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/perihelia/graphlink"
)

// Collector aggregates request counts, durations, GraphQL error counts and
// cache activity for one or more clients.
type Collector struct {
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	gqlErrors   prometheus.Counter
	transport   prometheus.Counter
	cacheWrites prometheus.Counter
}

// NewCollector builds the collectors and registers them on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "graphlink",
			Name:      "requests_total",
			Help:      "GraphQL operations issued, by kind.",
		}, []string{"kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "graphlink",
			Name:      "request_duration_seconds",
			Help:      "Round-trip duration of operations, by kind.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		gqlErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "graphlink",
			Name:      "graphql_errors_total",
			Help:      "GraphQL errors returned inside results.",
		}),
		transport: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "graphlink",
			Name:      "transport_failures_total",
			Help:      "Calls that failed without a usable response.",
		}),
		cacheWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "graphlink",
			Name:      "cache_writes_total",
			Help:      "Responses written through to the cache store.",
		}),
	}
	reg.MustRegister(
		c.requests,
		c.duration,
		c.gqlErrors,
		c.transport,
		c.cacheWrites,
	)
	return c
}

// Hooks returns lifecycle hooks feeding the collector; hand them to
// graphlink.WithHooks.
func (c *Collector) Hooks() graphlink.Hooks {
	return graphlink.Hooks{
		OnRequest: func(_ context.Context, ev graphlink.RequestEvent) {
			c.requests.WithLabelValues(ev.Kind).Inc()
		},
		OnResponse: func(_ context.Context, ev graphlink.ResponseEvent) {
			c.duration.WithLabelValues(ev.Kind).Observe(ev.Duration.Seconds())
			c.gqlErrors.Add(float64(ev.ErrorCount))
			if ev.TransportError {
				c.transport.Inc()
			}
			if ev.CacheWritten {
				c.cacheWrites.Inc()
			}
		},
	}
}
