package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for ingestion and the HTTP API.
type Metrics struct {
	IngestRuns        *prometheus.CounterVec // labels: outcome={source,demo,failed}
	IngestRows        prometheus.Counter
	IngestDuration    prometheus.Histogram
	CitiesStored      prometheus.Gauge
	LettersStored     prometheus.Gauge
	SynthesizedCities prometheus.Gauge
	FallbackActive    prometheus.Gauge

	HTTPRequests *prometheus.CounterVec   // labels: route, status
	HTTPDuration *prometheus.HistogramVec // labels: route
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	m.register(prometheus.DefaultRegisterer)
	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	m := newMetrics()
	m.register(prometheus.NewRegistry())
	return m
}

func newMetrics() *Metrics {
	return &Metrics{
		IngestRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "postcards",
			Name:      "ingest_runs_total",
			Help:      "Ingestion runs by outcome.",
		}, []string{"outcome"}),
		IngestRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "postcards",
			Name:      "ingest_rows_total",
			Help:      "Spreadsheet rows read by ingestion.",
		}),
		IngestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "postcards",
			Name:      "ingest_duration_seconds",
			Help:      "Duration of a complete ingestion run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		CitiesStored: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "postcards",
			Name:      "cities_stored",
			Help:      "Cities written by the last ingestion run.",
		}),
		LettersStored: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "postcards",
			Name:      "letters_stored",
			Help:      "Letters written by the last ingestion run.",
		}),
		SynthesizedCities: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "postcards",
			Name:      "synthesized_cities",
			Help:      "Cities whose coordinates were synthesized in the last run.",
		}),
		FallbackActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "postcards",
			Name:      "demo_fallback_active",
			Help:      "1 when the demo dataset is being served, 0 otherwise.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "postcards",
			Name:      "http_requests_total",
			Help:      "API requests by route and status code.",
		}, []string{"route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "postcards",
			Name:      "http_request_duration_seconds",
			Help:      "API request duration in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"route"}),
	}
}

func (m *Metrics) register(r prometheus.Registerer) {
	r.MustRegister(
		m.IngestRuns,
		m.IngestRows,
		m.IngestDuration,
		m.CitiesStored,
		m.LettersStored,
		m.SynthesizedCities,
		m.FallbackActive,
		m.HTTPRequests,
		m.HTTPDuration,
	)
}
