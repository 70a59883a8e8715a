package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// PaymentMetrics records payment attempt outcomes and completed sale amounts.
type PaymentMetrics struct {
	attempts *prometheus.CounterVec
	amounts  *prometheus.HistogramVec
}

// NewPaymentMetrics registers the payment metrics on the provided registerer.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	if reg == nil {
		return &PaymentMetrics{}
	}
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_attempts_total",
		Help: "Payment attempts by method and outcome.",
	}, []string{"method", "outcome"})
	amounts := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sale_amount",
		Help:    "Completed sale totals in currency units.",
		Buckets: []float64{10, 25, 50, 100, 250, 500, 1000},
	}, []string{"method"})
	reg.MustRegister(attempts, amounts)
	return &PaymentMetrics{
		attempts: attempts,
		amounts:  amounts,
	}
}

// IncAttempt counts one payment attempt outcome.
func (p *PaymentMetrics) IncAttempt(method, outcome string) {
	if p == nil || p.attempts == nil {
		return
	}
	p.attempts.WithLabelValues(normalizeLabel(method), normalizeLabel(outcome)).Inc()
}

// ObserveSale records the total of a completed sale.
func (p *PaymentMetrics) ObserveSale(method string, amount float64) {
	if p == nil || p.amounts == nil {
		return
	}
	p.amounts.WithLabelValues(normalizeLabel(method)).Observe(amount)
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "unknown"
	}
	return value
}
