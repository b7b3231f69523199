package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIMetricsObserve(t *testing.T) {
	m := NewAPIMetrics(prometheus.NewRegistry())
	m.ObserveRequest("GET", "/Rooms", 200, 0.05)
	m.ObserveRequest("POST", "/Bookings", 0, 0.5)
	m.ObserveCompensation(true)
}

func TestAPIMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAPIMetrics(reg)
	m.ObserveRequest("PUT", "/Bookings/12/cancel", 204, 0.1)
	m.ObserveRequest("PUT", "/Bookings/13/cancel", 204, 0.1)

	metric := &dto.Metric{}
	require.NoError(t, m.requestsTotal.WithLabelValues("PUT", "/Bookings/{id}/cancel", "204").Write(metric))
	assert.Equal(t, 2.0, metric.GetCounter().GetValue())

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 2, "compensation counter has no samples yet")
}

func TestAPIMetricsNilSafe(t *testing.T) {
	var m *APIMetrics
	m.ObserveRequest("GET", "/Rooms", 200, 0.1)
	m.ObserveCompensation(false)
}

func TestRoute(t *testing.T) {
	tests := map[string]string{
		"/Rooms":                                       "/Rooms",
		"/Rooms/15":                                    "/Rooms/{id}",
		"/Rooms/available/3?checkIn=2025-01-01":        "/Rooms/available/{id}",
		"/Admin/bookings/7/approve":                    "/Admin/bookings/{id}/approve",
		"/Payment/check-payment-status/pi_3Nabc_secret": "/Payment/check-payment-status/{id}",
		"/Admin/users/6f1c2a9e-1111-2222-3333-444455556666/roles": "/Admin/users/{id}/roles",
		"/Dashboard/user/recent-bookings?count=5":      "/Dashboard/user/recent-bookings",
	}
	for in, want := range tests {
		assert.Equal(t, want, Route(in), in)
	}
}
