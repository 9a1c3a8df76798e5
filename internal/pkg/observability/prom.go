package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ServiceName = "sprintsummary"
)

var (
	RefreshDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    prometheus.BuildFQName(ServiceName, "refresh", "duration_seconds"),
		Help:    "Duration of a refresh run, from gathering to persistence, in seconds",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	}, []string{"outcome"})
	RefreshSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "refresh", "skipped_total"),
		Help: "Refresh runs skipped because another run held the scope",
	}, []string{"holder"})
	RefreshConsumeMessagingLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    prometheus.BuildFQName(ServiceName, "refresh", "consume_messaging_latency_seconds"),
		Help:    "Latency between enqueueing and consuming a refresh request in seconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
	}, []string{})
	TrackerRequestFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "tracker", "request_failures_total"),
		Help: "Work tracker requests that failed and were treated as empty results",
	}, []string{"op"})
	GatheredSprints = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: prometheus.BuildFQName(ServiceName, "gather", "sprints"),
		Help: "Number of sprints gathered by the last refresh of a project",
	}, []string{"project"})
	RenderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    prometheus.BuildFQName(ServiceName, "table", "render_duration_seconds"),
		Help:    "Duration of building a pivot table from stored summaries in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
	}, []string{"format"})
)
