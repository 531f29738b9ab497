package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PlatformMetrics records counters for the order and notification pipelines.
type PlatformMetrics struct {
	ordersCreated         *prometheus.CounterVec
	orderTransitions      *prometheus.CounterVec
	stockConflicts        prometheus.Counter
	invoicesIssued        prometheus.Counter
	notificationDelivered *prometheus.CounterVec
	notificationFailed    *prometheus.CounterVec
	documentsRendered     *prometheus.CounterVec
}

// NewPlatformMetrics registers the platform metrics on the provided registerer.
func NewPlatformMetrics(reg prometheus.Registerer) *PlatformMetrics {
	if reg == nil {
		return &PlatformMetrics{}
	}
	ordersCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Grocery orders created.",
	}, []string{"payment_method"})
	orderTransitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_transitions_total",
		Help: "Order status transitions applied.",
	}, []string{"from", "to"})
	stockConflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stock_conflicts_total",
		Help: "Order mutations rejected for insufficient stock.",
	})
	invoicesIssued := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "invoices_issued_total",
		Help: "Invoices issued.",
	})
	notificationDelivered := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_deliveries_total",
		Help: "Successful notification deliveries.",
	}, []string{"channel"})
	notificationFailed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_failures_total",
		Help: "Failed notification deliveries.",
	}, []string{"channel"})
	documentsRendered := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "documents_rendered_total",
		Help: "PDF documents rendered.",
	}, []string{"kind"})
	reg.MustRegister(
		ordersCreated,
		orderTransitions,
		stockConflicts,
		invoicesIssued,
		notificationDelivered,
		notificationFailed,
		documentsRendered,
	)
	return &PlatformMetrics{
		ordersCreated:         ordersCreated,
		orderTransitions:      orderTransitions,
		stockConflicts:        stockConflicts,
		invoicesIssued:        invoicesIssued,
		notificationDelivered: notificationDelivered,
		notificationFailed:    notificationFailed,
		documentsRendered:     documentsRendered,
	}
}

// IncOrderCreated increments the order counter for the payment method label.
func (m *PlatformMetrics) IncOrderCreated(paymentMethod string) {
	if m == nil || m.ordersCreated == nil {
		return
	}
	m.ordersCreated.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
}

// IncOrderTransition increments the transition counter for a from/to pair.
func (m *PlatformMetrics) IncOrderTransition(from, to string) {
	if m == nil || m.orderTransitions == nil {
		return
	}
	m.orderTransitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

// IncStockConflict increments the insufficient-stock rejection counter.
func (m *PlatformMetrics) IncStockConflict() {
	if m == nil || m.stockConflicts == nil {
		return
	}
	m.stockConflicts.Inc()
}

// IncInvoiceIssued increments the invoice counter.
func (m *PlatformMetrics) IncInvoiceIssued() {
	if m == nil || m.invoicesIssued == nil {
		return
	}
	m.invoicesIssued.Inc()
}

// IncNotificationDelivered increments the delivery counter for a channel.
func (m *PlatformMetrics) IncNotificationDelivered(channel string) {
	if m == nil || m.notificationDelivered == nil {
		return
	}
	m.notificationDelivered.WithLabelValues(normalizeLabel(channel)).Inc()
}

// IncNotificationFailed increments the failure counter for a channel.
func (m *PlatformMetrics) IncNotificationFailed(channel string) {
	if m == nil || m.notificationFailed == nil {
		return
	}
	m.notificationFailed.WithLabelValues(normalizeLabel(channel)).Inc()
}

// IncDocumentRendered increments the rendered document counter for a kind.
func (m *PlatformMetrics) IncDocumentRendered(kind string) {
	if m == nil || m.documentsRendered == nil {
		return
	}
	m.documentsRendered.WithLabelValues(normalizeLabel(kind)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
