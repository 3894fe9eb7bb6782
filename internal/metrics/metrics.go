package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodgram_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPInflight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "foodgram_http_inflight_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// Shopping list export pipeline
	ShoppingExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_shopping_list_exports_total",
			Help: "Total number of shopping list exports by result",
		},
		[]string{"result"}, // "ok", "error"
	)

	ShoppingListRows = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "foodgram_shopping_list_rows",
			Help:    "Number of aggregated ingredient rows per exported shopping list",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
	)

	ShoppingExportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "foodgram_shopping_list_export_duration_seconds",
			Help:    "Time spent aggregating and rendering a shopping list",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func ObserveHTTP(method, route string, status int, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func ObserveShoppingExport(rows int, d time.Duration, err error) {
	if err != nil {
		ShoppingExportsTotal.WithLabelValues("error").Inc()
		return
	}
	ShoppingExportsTotal.WithLabelValues("ok").Inc()
	ShoppingListRows.Observe(float64(rows))
	ShoppingExportDuration.Observe(d.Seconds())
}
