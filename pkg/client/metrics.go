package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "savvycal",
		Subsystem: "client",
		Name:      "requests_total",
		Help:      "Requests sent to the SavvyCal API, by method, templated path and status class.",
	}, []string{"method", "path", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "savvycal",
		Subsystem: "client",
		Name:      "request_duration_seconds",
		Help:      "Round trip latency of SavvyCal API requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	tokenRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "savvycal",
		Subsystem: "client",
		Name:      "token_refreshes_total",
		Help:      "Calls to the access token callback, by outcome.",
	}, []string{"result"})
)

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	case code >= 200:
		return "2xx"
	default:
		return "other"
	}
}
