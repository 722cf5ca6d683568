package query

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	lookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "savvycal_query_lookups_total",
		Help: "Query cache lookups by result (hit, miss, stale).",
	}, []string{"result"})
	fetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "savvycal_query_fetch_errors_total",
		Help: "Query fetches that failed after retries.",
	})
	invalidations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "savvycal_query_invalidations_total",
		Help: "Prefix invalidations issued by mutations or callers.",
	})
)
