package providers

import (
	"panelkeeper/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)

	IncPanelsPlaced()
	AddPanelsCollected(n int)
	IncFixCalls(eligible bool)
	AddPayout(kind string, value int64)
	IncResets(archived bool)
	SetActivePanels(n int)
	IncNotifications(kind string, ok bool)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram

	panelsPlaced    prometheus.Counter
	panelsCollected prometheus.Counter
	fixCalls        *prometheus.CounterVec
	payoutTotal     *prometheus.CounterVec
	resets          *prometheus.CounterVec
	activePanels    prometheus.Gauge
	notifications   *prometheus.CounterVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncPanelsPlaced() {
	m.panelsPlaced.Inc()
}

func (m *MetricsProvider) AddPanelsCollected(n int) {
	m.panelsCollected.Add(float64(n))
}

func (m *MetricsProvider) IncFixCalls(eligible bool) {
	m.fixCalls.WithLabelValues(boolLabel(eligible)).Inc()
}

func (m *MetricsProvider) AddPayout(kind string, value int64) {
	m.payoutTotal.WithLabelValues(kind).Add(float64(value))
}

func (m *MetricsProvider) IncResets(archived bool) {
	m.resets.WithLabelValues(boolLabel(archived)).Inc()
}

func (m *MetricsProvider) SetActivePanels(n int) {
	m.activePanels.Set(float64(n))
}

func (m *MetricsProvider) IncNotifications(kind string, ok bool) {
	m.notifications.WithLabelValues(kind, boolLabel(ok)).Inc()
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "panelkeeper_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "panelkeeper_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "panelkeeper_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "panelkeeper_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "panelkeeper_persistence_duration_seconds",
			Help:    "Duration of persistence operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		panelsPlaced: promauto.NewCounter(prometheus.CounterOpts{
			Name: "panelkeeper_panels_placed_total",
			Help: "Total number of placed panels",
		}),

		panelsCollected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "panelkeeper_panels_collected_total",
			Help: "Total number of collected panels",
		}),

		fixCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "panelkeeper_fix_calls_total",
			Help: "Total number of fix calls by whether any panel was eligible",
		}, []string{"eligible"}),

		payoutTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "panelkeeper_payout_total",
			Help: "Total value credited to users by payout kind",
		}, []string{"kind"}),

		resets: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "panelkeeper_daily_resets_total",
			Help: "Total number of daily resets by whether a day was archived",
		}, []string{"archived"}),

		activePanels: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "panelkeeper_active_panels",
			Help: "Current number of active panels",
		}),

		notifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "panelkeeper_notifications_total",
			Help: "Total number of outgoing notifications by kind and result",
		}, []string{"kind", "ok"}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) IncPanelsPlaced()                                 {}
func (n *noopMetrics) AddPanelsCollected(_ int)                         {}
func (n *noopMetrics) IncFixCalls(_ bool)                               {}
func (n *noopMetrics) AddPayout(_ string, _ int64)                      {}
func (n *noopMetrics) IncResets(_ bool)                                 {}
func (n *noopMetrics) SetActivePanels(_ int)                            {}
func (n *noopMetrics) IncNotifications(_ string, _ bool)                {}

// NewNoopMetrics returns a provider that drops every observation.
func NewNoopMetrics() MetricsProviderInterface {
	return &noopMetrics{}
}
