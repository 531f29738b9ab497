package metrics

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestPlatformMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewPlatformMetrics(reg)

	metrics.IncOrderCreated("cash")
	metrics.IncOrderTransition("pending", "processing")
	metrics.IncStockConflict()
	metrics.IncInvoiceIssued()
	metrics.IncNotificationDelivered("push")
	metrics.IncNotificationFailed("email")
	metrics.IncDocumentRendered("invoice")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "orders_created_total", "payment_method", "cash"); err != nil {
		t.Fatalf("fetch orders: %v", err)
	} else if got != 1 {
		t.Fatalf("expected orders=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "order_transitions_total", "from", "pending"); err != nil {
		t.Fatalf("fetch transitions: %v", err)
	} else if got != 1 {
		t.Fatalf("expected transitions=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "notification_deliveries_total", "channel", "push"); err != nil {
		t.Fatalf("fetch deliveries: %v", err)
	} else if got != 1 {
		t.Fatalf("expected deliveries=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "notification_failures_total", "channel", "email"); err != nil {
		t.Fatalf("fetch failures: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failures=1, got %f", got)
	}
}

func TestPlatformMetricsNilSafe(t *testing.T) {
	var metrics *PlatformMetrics
	metrics.IncOrderCreated("cash")
	metrics.IncStockConflict()

	empty := NewPlatformMetrics(nil)
	empty.IncInvoiceIssued()
	empty.IncNotificationDelivered("push")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
