package http

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_ms",
			Help:    "Duration of HTTP requests in ms",
			Buckets: []float64{5, 10, 25, 50, 100, 200, 400, 800, 1600},
		},
		[]string{"method", "route"},
	)

	cartItems = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cart_items",
			Help:    "Number of items in a cart after a mutation",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
	)
)

// ObserveCartSize is a cart usecase observer feeding the cart_items histogram.
func ObserveCartSize(_ context.Context, _ string, totalCount int64) {
	cartItems.Observe(float64(totalCount))
}
