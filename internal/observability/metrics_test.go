package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsForTesting_Isolated(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.IngestRuns.WithLabelValues("source").Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(a.IngestRuns.WithLabelValues("source")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.IngestRuns.WithLabelValues("source")))
}

func TestRegister_Names(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := newMetrics()
	m.register(reg)

	m.FallbackActive.Set(1)
	m.HTTPRequests.WithLabelValues("/api/cities", "200").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["postcards_demo_fallback_active"])
	assert.True(t, names["postcards_http_requests_total"])
	assert.True(t, names["postcards_ingest_duration_seconds"])
}
