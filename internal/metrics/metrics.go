// Package metrics defines the Prometheus collectors exported by the query
// surface.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors for one service instance.
type Metrics struct {
	QueriesTotal  *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec
	ResultsTotal  *prometheus.CounterVec
	FetchMisses   *prometheus.CounterVec
	StoreEntities *prometheus.GaugeVec
}

// New creates the collectors and registers them on reg.
// A nil reg leaves the collectors unregistered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		QueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wilayah_queries_total",
			Help: "Total number of list and fetch calls",
		}, []string{"op"}),
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wilayah_query_duration_seconds",
			Help:    "List and fetch call duration in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{"op"}),
		ResultsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wilayah_results_total",
			Help: "Total number of top-level records returned",
		}, []string{"op"}),
		FetchMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wilayah_fetch_misses_total",
			Help: "Total number of fetches for unknown codes",
		}, []string{"kind"}),
		StoreEntities: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "wilayah_store_entities",
			Help: "Number of records loaded per kind",
		}, []string{"kind"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.QueriesTotal,
			m.QueryDuration,
			m.ResultsTotal,
			m.FetchMisses,
			m.StoreEntities,
		)
	}
	return m
}

// Handler exposes the collectors gathered by g on /metrics.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
