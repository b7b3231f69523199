package metrics

import (
	"regexp"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// APIMetrics exposes counters/histograms for calls made to the hotel API.
type APIMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	compensations   *prometheus.CounterVec
}

func NewAPIMetrics(reg prometheus.Registerer) *APIMetrics {
	m := &APIMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cozyhotel",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total hotel API requests by outcome",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cozyhotel",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Latency of hotel API requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		compensations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cozyhotel",
			Subsystem: "checkout",
			Name:      "compensations_total",
			Help:      "Bookings cancelled after a later checkout step failed",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal, m.requestDuration, m.compensations)
	return m
}

// ObserveRequest records one finished request. status 0 means the request
// never got a response.
func (m *APIMetrics) ObserveRequest(method, path string, status int, seconds float64) {
	if m == nil {
		return
	}
	route := Route(path)
	label := "network_error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.requestsTotal.WithLabelValues(method, route, label).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(seconds)
}

// ObserveCompensation records a compensating booking cancellation.
func (m *APIMetrics) ObserveCompensation(succeeded bool) {
	if m == nil {
		return
	}
	label := "failed"
	if succeeded {
		label = "succeeded"
	}
	m.compensations.WithLabelValues(label).Inc()
}

var idSegment = regexp.MustCompile(`/(\d+|[0-9a-fA-F-]{32,36}|pi_[A-Za-z0-9_]+)(/|$)`)

// Route collapses ids in path to {id} and drops the query string, keeping
// label cardinality bounded.
func Route(path string) string {
	for i := 0; i < len(path); i++ {
		if path[i] == '?' {
			path = path[:i]
			break
		}
	}
	for {
		next := idSegment.ReplaceAllString(path, "/{id}$2")
		if next == path {
			return path
		}
		path = next
	}
}
