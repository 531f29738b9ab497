package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sakani-app/sakani-backend/pkg/enums"
)

// Order is a grocery order. Total and per-line unit prices are frozen at
// creation time; later catalog price edits never change an existing order.
// Orders are never deleted.
type Order struct {
	ID            uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	UserID        uuid.UUID                `gorm:"column:user_id;type:uuid;not null;index"`
	RoomNumber    string                   `gorm:"column:room_number;not null;index"`
	OrderNumber   string                   `gorm:"column:order_number;not null;uniqueIndex"`
	TotalAmount   decimal.Decimal          `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Status        enums.OrderStatus        `gorm:"column:status;type:text;not null;default:'pending';index"`
	PaymentStatus enums.OrderPaymentStatus `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	PaymentMethod enums.OrderPaymentMethod `gorm:"column:payment_method;type:text;not null"`
	Notes         *string                  `gorm:"column:notes"`
	DeliveredAt   *time.Time               `gorm:"column:delivered_at"`
	Lines         []OrderLine              `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	User          *User                    `gorm:"foreignKey:UserID"`
	CreatedAt     time.Time                `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt     time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderLine is an order position with the catalog state captured at order time.
type OrderLine struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ItemID    uuid.UUID       `gorm:"column:item_id;type:uuid;not null"`
	ItemName  string          `gorm:"column:item_name;not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// LineTotal returns quantity times the captured unit price.
func (l OrderLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
