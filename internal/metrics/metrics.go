package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlaced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "velora_orders_placed_total",
		Help: "Orders placed, labelled by payment method.",
	}, []string{"method"})

	PaymentCallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "velora_payment_callbacks_total",
		Help: "Gateway callbacks received, labelled by outcome.",
	}, []string{"outcome"})

	StalePendingExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "velora_stale_pending_expired_total",
		Help: "Unpaid gateway orders cancelled by the sweeper.",
	})
)

const (
	OutcomeConfirmed = "confirmed"
	OutcomeFailed    = "failed"
	OutcomeMalformed = "malformed"
)
