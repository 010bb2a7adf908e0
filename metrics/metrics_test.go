package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/perihelia/graphlink"
)

func TestCollector_Hooks(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())
	hooks := c.Hooks()
	ctx := context.Background()

	hooks.OnRequest(ctx, graphlink.RequestEvent{ID: "1", Kind: "query"})
	hooks.OnResponse(ctx, graphlink.ResponseEvent{
		ID:           "1",
		Kind:         "query",
		Duration:     5 * time.Millisecond,
		ErrorCount:   2,
		CacheWritten: true,
	})

	hooks.OnRequest(ctx, graphlink.RequestEvent{ID: "2", Kind: "mutation"})
	hooks.OnResponse(ctx, graphlink.ResponseEvent{
		ID:             "2",
		Kind:           "mutation",
		Duration:       time.Millisecond,
		TransportError: true,
	})

	assert.Equal(t, float64(1), testutil.ToFloat64(c.requests.WithLabelValues("query")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.requests.WithLabelValues("mutation")))
	assert.Equal(t, float64(2), testutil.ToFloat64(c.gqlErrors))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.transport))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.cacheWrites))
	assert.Equal(t, 2, testutil.CollectAndCount(c.duration))
}

func TestCollector_registersEverything(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)

	families, err := testutil.GatherAndCount(reg)
	assert.NoError(t, err)
	// counters without observations still register; only the vectors stay
	// empty until labels are seen
	assert.Equal(t, 3, families)
}
