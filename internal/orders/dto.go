package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sakani-app/sakani-backend/pkg/db/models"
	"github.com/sakani-app/sakani-backend/pkg/enums"
)

// LineInput is one requested catalog item in a new order.
type LineInput struct {
	ItemID   uuid.UUID `json:"item_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderRequest captures a resident's grocery order submission.
type CreateOrderRequest struct {
	Lines         []LineInput              `json:"lines" validate:"required,min=1,dive"`
	PaymentMethod enums.OrderPaymentMethod `json:"payment_method" validate:"required"`
	Notes         *string                  `json:"notes"`
}

// TransitionRequest moves an order to a new status.
type TransitionRequest struct {
	Status enums.OrderStatus `json:"status" validate:"required"`
}

// LineSummary is the public shape of an order line.
type LineSummary struct {
	ID        uuid.UUID       `json:"id"`
	ItemID    uuid.UUID       `json:"item_id"`
	ItemName  string          `json:"item_name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// OrderSummary is the public shape returned by order endpoints.
type OrderSummary struct {
	ID            uuid.UUID                `json:"id"`
	OrderNumber   string                   `json:"order_number"`
	UserID        uuid.UUID                `json:"user_id"`
	RoomNumber    string                   `json:"room_number"`
	TotalAmount   decimal.Decimal          `json:"total_amount"`
	Status        enums.OrderStatus        `json:"status"`
	PaymentStatus enums.OrderPaymentStatus `json:"payment_status"`
	PaymentMethod enums.OrderPaymentMethod `json:"payment_method"`
	Notes         *string                  `json:"notes,omitempty"`
	Lines         []LineSummary            `json:"lines"`
	DeliveredAt   *time.Time               `json:"delivered_at,omitempty"`
	CreatedAt     time.Time                `json:"created_at"`
}

// FromModel maps a persisted order into its public summary.
func FromModel(order *models.Order) OrderSummary {
	if order == nil {
		return OrderSummary{}
	}
	lines := make([]LineSummary, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, LineSummary{
			ID:        line.ID,
			ItemID:    line.ItemID,
			ItemName:  line.ItemName,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal(),
		})
	}
	return OrderSummary{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		UserID:        order.UserID,
		RoomNumber:    order.RoomNumber,
		TotalAmount:   order.TotalAmount,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		PaymentMethod: order.PaymentMethod,
		Notes:         order.Notes,
		Lines:         lines,
		DeliveredAt:   order.DeliveredAt,
		CreatedAt:     order.CreatedAt,
	}
}

// ListFilters describe the inputs supported by order listings.
type ListFilters struct {
	UserID   *uuid.UUID
	Status   *enums.OrderStatus
	DateFrom *time.Time
	DateTo   *time.Time
}
