package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpRequestsTotal     *prometheus.CounterVec
	httpLatencySeconds    *prometheus.HistogramVec
	httpErrorsTotal       *prometheus.CounterVec
	incidentReviewsTotal  *prometheus.CounterVec
	signOutsTotal         prometheus.Counter
	cctvResolutionsTotal  prometheus.Counter
	documentUploadsTotal  *prometheus.CounterVec
	eventsPublishedTotal  *prometheus.CounterVec
	eventStreamClients    prometheus.Gauge
	dashboardCacheLookups *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nightguard_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nightguard_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nightguard_http_errors_total",
			Help: "Total number of error responses returned by API endpoints.",
		}, []string{"method", "route", "status"})

		incidentReviewsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nightguard_incident_reviews_total",
			Help: "Incident review decisions by outcome.",
		}, []string{"outcome"})

		signOutsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nightguard_security_sign_outs_total",
			Help: "Completed security sign-outs.",
		})

		cctvResolutionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nightguard_cctv_resolutions_total",
			Help: "Resolved CCTV check issues.",
		})

		documentUploadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nightguard_document_uploads_total",
			Help: "Document uploads by result.",
		}, []string{"result"})

		eventsPublishedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nightguard_events_published_total",
			Help: "Operational events published by type.",
		}, []string{"type"})

		eventStreamClients = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nightguard_event_stream_clients",
			Help: "Connected event stream subscribers.",
		})

		dashboardCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nightguard_dashboard_cache_lookups_total",
			Help: "Dashboard cache lookups by result.",
		}, []string{"result"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			incidentReviewsTotal,
			signOutsTotal,
			cctvResolutionsTotal,
			documentUploadsTotal,
			eventsPublishedTotal,
			eventStreamClients,
			dashboardCacheLookups,
		)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for API error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// IncidentReviews counts approve and reject decisions.
func IncidentReviews() *prometheus.CounterVec {
	RegisterMetrics()
	return incidentReviewsTotal
}

// SignOuts counts completed sign-outs.
func SignOuts() prometheus.Counter {
	RegisterMetrics()
	return signOutsTotal
}

// CctvResolutions counts resolved CCTV issues.
func CctvResolutions() prometheus.Counter {
	RegisterMetrics()
	return cctvResolutionsTotal
}

// DocumentUploads counts stored and rejected documents.
func DocumentUploads() *prometheus.CounterVec {
	RegisterMetrics()
	return documentUploadsTotal
}

// EventsPublished counts operational events.
func EventsPublished() *prometheus.CounterVec {
	RegisterMetrics()
	return eventsPublishedTotal
}

// EventStreamClients tracks connected SSE subscribers.
func EventStreamClients() prometheus.Gauge {
	RegisterMetrics()
	return eventStreamClients
}

// DashboardCacheLookups counts cache hits and misses.
func DashboardCacheLookups() *prometheus.CounterVec {
	RegisterMetrics()
	return dashboardCacheLookups
}
