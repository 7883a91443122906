package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// QuoteMetrics records pricing-decision calls, batch runs and stock fetches.
type QuoteMetrics struct {
	pricingCalls  *prometheus.CounterVec
	batchDuration *prometheus.HistogramVec
	stockFetches  *prometheus.CounterVec
}

// NewQuoteMetrics registers the quote engine collectors on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewQuoteMetrics(reg prometheus.Registerer) *QuoteMetrics {
	if reg == nil {
		return &QuoteMetrics{}
	}
	pricingCalls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_decision_calls_total",
		Help: "Pricing-decision service calls by operation and outcome.",
	}, []string{"operation", "outcome"})
	batchDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pricing_batch_duration_seconds",
		Help:    "Duration of sequential pricing batches in seconds.",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"operation"})
	stockFetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "warehouse_stock_fetches_total",
		Help: "Per-product warehouse stock fetches by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(pricingCalls, batchDuration, stockFetches)
	return &QuoteMetrics{
		pricingCalls:  pricingCalls,
		batchDuration: batchDuration,
		stockFetches:  stockFetches,
	}
}

// ObservePricingCall counts one pricing-decision call.
func (m *QuoteMetrics) ObservePricingCall(operation string, err error) {
	if m == nil || m.pricingCalls == nil {
		return
	}
	m.pricingCalls.WithLabelValues(normalizeLabel(operation), outcome(err)).Inc()
}

// ObserveBatch records how long a batch took.
func (m *QuoteMetrics) ObserveBatch(operation string, duration time.Duration) {
	if m == nil || m.batchDuration == nil {
		return
	}
	m.batchDuration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// ObserveStockFetch counts one warehouse stock fetch.
func (m *QuoteMetrics) ObserveStockFetch(err error) {
	if m == nil || m.stockFetches == nil {
		return
	}
	m.stockFetches.WithLabelValues(outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
