package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds every metric the engine emits.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Risk analysis
	AnalysisTotal        CounterVec
	AnalysisDuration     HistogramVec
	SweepsTotal          CounterVec
	SweepDuration        HistogramVec
	SweepPropertiesTotal HistogramVec

	// Grouping and routing
	GroupingRequestsTotal CounterVec
	RouteRequestsTotal    CounterVec
	RouteStops            HistogramVec

	// Infrastructure
	StoreQueryDuration     HistogramVec
	CacheHitsTotal         CounterVec
	CacheMissesTotal       CounterVec
	MessageProcessDuration HistogramVec

	// System health
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

var (
	DefaultHTTPDurationBuckets  = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultSweepDurationBuckets = []float64{1, 5, 10, 30, 60, 120, 300, 600}
	DefaultDBDurationBuckets    = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
	DefaultCountBuckets         = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000}
)

// NewAppMetrics registers all engine metrics on the collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method", "path")

	m.AnalysisTotal = collector.RegisterCounter("risk_analysis_total", "Property risk analyses", "outcome")
	m.AnalysisDuration = collector.RegisterHistogram("risk_analysis_duration_seconds", "Property risk analysis duration", DefaultDBDurationBuckets, "outcome")
	m.SweepsTotal = collector.RegisterCounter("portfolio_sweeps_total", "Portfolio sweeps", "trigger", "status")
	m.SweepDuration = collector.RegisterHistogram("portfolio_sweep_duration_seconds", "Portfolio sweep duration", DefaultSweepDurationBuckets, "trigger")
	m.SweepPropertiesTotal = collector.RegisterHistogram("portfolio_sweep_properties", "Properties scored per sweep", DefaultCountBuckets, "trigger")

	m.GroupingRequestsTotal = collector.RegisterCounter("grouping_requests_total", "Grouping requests", "strategy")
	m.RouteRequestsTotal = collector.RegisterCounter("route_requests_total", "Route optimization requests", "status")
	m.RouteStops = collector.RegisterHistogram("route_stops", "Stops per optimized route", DefaultCountBuckets, "status")

	m.StoreQueryDuration = collector.RegisterHistogram("store_query_duration_seconds", "Platform store query duration", DefaultDBDurationBuckets, "operation")
	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.MessageProcessDuration = collector.RegisterHistogram("mq_process_duration_seconds", "Message processing duration", DefaultSweepDurationBuckets, "topic")

	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "error_type")

	return m
}

// RecordHTTPRequest observes one served request.
func RecordHTTPRequest(m *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordAnalysis observes one per-property analysis.
func RecordAnalysis(m *AppMetrics, outcome string, duration time.Duration) {
	m.AnalysisTotal.WithLabelValues(outcome).Inc()
	m.AnalysisDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordSweep observes one portfolio sweep.
func RecordSweep(m *AppMetrics, trigger, status string, scored int, duration time.Duration) {
	m.SweepsTotal.WithLabelValues(trigger, status).Inc()
	m.SweepDuration.WithLabelValues(trigger).Observe(duration.Seconds())
	m.SweepPropertiesTotal.WithLabelValues(trigger).Observe(float64(scored))
}

// RecordStoreQuery observes one platform store query.
func RecordStoreQuery(m *AppMetrics, operation string, duration time.Duration, err error) {
	m.StoreQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.ErrorsTotal.WithLabelValues("store", "query_error").Inc()
	}
}

// RecordCacheAccess observes a cache hit or miss.
func RecordCacheAccess(m *AppMetrics, cache string, hit bool) {
	if hit {
		m.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		m.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}
