package mollie

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	dompayment "example.com/gameshop/internal/domain/payment"
)

var (
	providerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_provider_requests_total",
			Help: "Total number of payment provider API calls",
		},
		[]string{"op", "outcome"},
	)

	providerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payment_provider_request_duration_ms",
			Help:    "Duration of payment provider API calls in ms",
			Buckets: []float64{25, 50, 100, 200, 400, 800, 1600, 3200, 6400},
		},
		[]string{"op"},
	)

	breakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "payment_provider_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"breaker"},
	)
)

func observe(op string, start time.Time, err error) {
	providerDuration.WithLabelValues(op).Observe(float64(time.Since(start).Milliseconds()))
	providerRequests.WithLabelValues(op, outcome(err)).Inc()
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var gwErr *dompayment.GatewayError
	if errors.As(err, &gwErr) && gwErr.StatusCode != 0 {
		return strconv.Itoa(gwErr.StatusCode)
	}
	return "error"
}
