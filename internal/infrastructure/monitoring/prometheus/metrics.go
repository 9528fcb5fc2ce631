package prometheus

import (
	"strconv"
	"time"

	"github.com/turtacn/ConsultTrack-Intelligence/internal/domain/deadline"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/intelligence/assistant"
)

// AppMetrics holds all application metrics.
type AppMetrics struct {
	// HTTP Layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Agent Layer
	AgentCallsTotal   CounterVec
	AgentCallDuration HistogramVec

	// Dashboard
	DeadlineBucketSize GaugeVec
	SummaryRefreshes   CounterVec

	// Infrastructure Layer
	CacheHitsTotal         CounterVec
	CacheMissesTotal       CounterVec
	EventsPublishedTotal   CounterVec
	MessageProcessDuration HistogramVec

	// System Health
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

// Default Buckets
var (
	DefaultHTTPDurationBuckets  = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultAgentDurationBuckets = []float64{.5, 1, 2, 5, 10, 30, 60, 120}
)

// NewAppMetrics registers all metrics and returns AppMetrics struct.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method")

	m.AgentCallsTotal = collector.RegisterCounter("agent_calls_total", "Reasoning agent calls", "kind", "outcome")
	m.AgentCallDuration = collector.RegisterHistogram("agent_call_duration_seconds", "Reasoning agent call duration", DefaultAgentDurationBuckets, "kind")

	m.DeadlineBucketSize = collector.RegisterGauge("deadline_bucket_size", "Deadlines per time window at last dashboard build", "bucket")
	m.SummaryRefreshes = collector.RegisterCounter("summary_refreshes_total", "Weekly summary refresh attempts", "result")

	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.EventsPublishedTotal = collector.RegisterCounter("events_published_total", "Change events published", "event_type", "status")
	m.MessageProcessDuration = collector.RegisterHistogram("mq_process_duration_seconds", "Message processing duration", DefaultHTTPDurationBuckets, "topic", "status")

	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "error_type")

	return m
}

// ObserveAgentCall makes AppMetrics an assistant.Observer.
func (m *AppMetrics) ObserveAgentCall(kind string, outcome assistant.Outcome, seconds float64) {
	m.AgentCallsTotal.WithLabelValues(kind, string(outcome)).Inc()
	m.AgentCallDuration.WithLabelValues(kind).Observe(seconds)
}

// Helpers

func RecordHTTPRequest(metrics *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func RecordBuckets(metrics *AppMetrics, c deadline.Counts) {
	metrics.DeadlineBucketSize.WithLabelValues("overdue").Set(float64(c.Overdue))
	metrics.DeadlineBucketSize.WithLabelValues("upcoming").Set(float64(c.Upcoming))
	metrics.DeadlineBucketSize.WithLabelValues("this_week").Set(float64(c.ThisWeek))
}

func RecordCacheAccess(metrics *AppMetrics, cache string, hit bool) {
	if hit {
		metrics.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

func RecordEventPublished(metrics *AppMetrics, eventType string, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.EventsPublishedTotal.WithLabelValues(eventType, status).Inc()
}

func RecordMessageProcessed(metrics *AppMetrics, topic string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.MessageProcessDuration.WithLabelValues(topic, status).Observe(duration.Seconds())
}

func RecordSummaryRefresh(metrics *AppMetrics, result string) {
	metrics.SummaryRefreshes.WithLabelValues(result).Inc()
}

func RecordHealth(metrics *AppMetrics, component string, healthy bool) {
	v := 0.0
	if healthy {
		v = 1
	}
	metrics.HealthCheckStatus.WithLabelValues(component).Set(v)
}

func RecordError(metrics *AppMetrics, component, errorType string) {
	metrics.ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

//Personal.AI order the ending
