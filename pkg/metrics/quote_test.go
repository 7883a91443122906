package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestQuoteMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewQuoteMetrics(reg)

	m.ObservePricingCall("calculate", nil)
	m.ObservePricingCall("calculate", nil)
	m.ObservePricingCall("calculate", errors.New("boom"))
	m.ObserveBatch("apply_all", 1500*time.Millisecond)
	m.ObserveStockFetch(nil)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "pricing_decision_calls_total", map[string]string{"operation": "calculate", "outcome": OutcomeSuccess}); err != nil {
		t.Fatalf("fetch success: %v", err)
	} else if got != 2 {
		t.Fatalf("expected success=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "pricing_decision_calls_total", map[string]string{"operation": "calculate", "outcome": OutcomeFailure}); err != nil {
		t.Fatalf("fetch failure: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failure=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "warehouse_stock_fetches_total", map[string]string{"outcome": OutcomeSuccess}); err != nil {
		t.Fatalf("fetch stock: %v", err)
	} else if got != 1 {
		t.Fatalf("expected stock fetch=1, got %f", got)
	}

	mf := findMetricFamily(mfs, "pricing_batch_duration_seconds")
	if mf == nil || len(mf.GetMetric()) != 1 {
		t.Fatalf("expected batch histogram")
	}
	if sum := mf.GetMetric()[0].GetHistogram().GetSampleSum(); sum != 1.5 {
		t.Fatalf("expected duration sum 1.5, got %f", sum)
	}
}

func TestQuoteMetricsNilSafe(t *testing.T) {
	var m *QuoteMetrics
	m.ObservePricingCall("calculate", nil)
	m.ObserveBatch("x", time.Second)
	m.ObserveStockFetch(nil)

	NewQuoteMetrics(nil).ObservePricingCall("calculate", nil)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	matched := 0
	for _, pair := range pairs {
		if v, ok := want[pair.GetName()]; ok && v == pair.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
