package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for feed fetches and rendering.
type Metrics struct {
	FeedRequests    *prometheus.CounterVec // labels: outcome={success,error,throttled}
	FeedDuration    prometheus.Histogram
	FeaturesDecoded prometheus.Counter
	FeatureWarnings prometheus.Counter
	MarkersRendered prometheus.Counter
	LastRenderCount prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer in production and a fresh
// prometheus.NewRegistry() in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FeedRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake",
			Name:      "feed_requests_total",
			Help:      "Feed fetches by outcome.",
		}, []string{"outcome"}),
		FeedDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake",
			Name:      "feed_request_duration_seconds",
			Help:      "Duration of a feed fetch including decode.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		FeaturesDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake",
			Name:      "features_decoded_total",
			Help:      "Features decoded from the feed.",
		}),
		FeatureWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake",
			Name:      "feature_warnings_total",
			Help:      "Features rendered with missing magnitude, depth or place.",
		}),
		MarkersRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake",
			Name:      "markers_rendered_total",
			Help:      "Markers appended to the earthquake layer.",
		}),
		LastRenderCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake",
			Name:      "last_render_markers",
			Help:      "Markers in the most recently rendered layer.",
		}),
	}

	reg.MustRegister(
		m.FeedRequests,
		m.FeedDuration,
		m.FeaturesDecoded,
		m.FeatureWarnings,
		m.MarkersRendered,
		m.LastRenderCount,
	)
	return m
}
