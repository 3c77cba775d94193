// Package metrics exposes crawl counters to Prometheus: package-level
// collectors registered in init(), scraped via promhttp.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PagesFetched = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "netwasabi_pages_fetched_total",
		Help: "Number of pages successfully fetched.",
	})
	PagesFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "netwasabi_pages_failed_total",
		Help: "Number of page fetch attempts that failed.",
	})
	PagesDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "netwasabi_pages_dropped_total",
		Help: "Number of candidate URLs dropped by policy (depth, URL validation, cross-domain, blacklist); already-seen URLs are not counted.",
	})
	BytesFetched = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "netwasabi_bytes_fetched_total",
		Help: "Total bytes of response bodies fetched.",
	})
	FrontierDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "netwasabi_frontier_depth",
		Help: "Current crawl depth layer being drained.",
	})
	FetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "netwasabi_fetch_duration_seconds",
		Help:    "Duration of a single page fetch.",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(PagesFetched, PagesFailed, PagesDropped, BytesFetched, FrontierDepth, FetchDuration)
}

// Handler returns the HTTP handler that serves the registered collectors.
func Handler() http.Handler {
	return promhttp.Handler()
}
