package jobmetrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func metricValue(t *testing.T, families []*dto.MetricFamily, name string, labels map[string]string) float64 {
	t.Helper()
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			match := true
			for _, pair := range metric.GetLabel() {
				if want, ok := labels[pair.GetName()]; ok && want != pair.GetValue() {
					match = false
					break
				}
			}
			if !match {
				continue
			}
			if metric.GetCounter() != nil {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestTrackerRecordsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	if err := metrics.Track("rates:warmup").End(nil); err != nil {
		t.Fatalf("unexpected error from successful tracker: %v", err)
	}
	wrapped := errors.New("provider down")
	if err := metrics.Track("rates:warmup").End(wrapped); !errors.Is(err, wrapped) {
		t.Fatalf("tracker should return the handler error, got %v", err)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if got := metricValue(t, families, "tripsplit_jobs_total", map[string]string{"job": "rates:warmup", "status": "success"}); got != 1 {
		t.Fatalf("success count = %v, want 1", got)
	}
	if got := metricValue(t, families, "tripsplit_jobs_total", map[string]string{"job": "rates:warmup", "status": "failure"}); got != 1 {
		t.Fatalf("failure count = %v, want 1", got)
	}
	if got := metricValue(t, families, "tripsplit_jobs_failures_total", map[string]string{"job": "rates:warmup"}); got != 1 {
		t.Fatalf("failures count = %v, want 1", got)
	}
}

func TestWarmedPairsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	metrics.AddWarmedPairs("USD", 2)
	metrics.AddWarmedPairs("USD", 1)
	metrics.AddWarmedPairs("EUR", 0)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if got := metricValue(t, families, "tripsplit_rates_warmed_total", map[string]string{"quote": "USD"}); got != 3 {
		t.Fatalf("USD warmed count = %v, want 3", got)
	}
	if got := metricValue(t, families, "tripsplit_rates_warmed_total", map[string]string{"quote": "EUR"}); got != 0 {
		t.Fatalf("EUR warmed count = %v, want 0", got)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var metrics *Metrics
	if err := metrics.Track("rates:warmup").End(nil); err != nil {
		t.Fatalf("nil metrics tracker returned error: %v", err)
	}
	metrics.AddWarmedPairs("USD", 5)
}
