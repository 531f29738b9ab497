package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sakani-app/sakani-backend/pkg/enums"
)

// Invoice is a billing document issued by an admin against a user. Amount is
// frozen at creation as the sum of its lines.
type Invoice struct {
	ID               uuid.UUID                   `gorm:"column:id;type:uuid;primaryKey"`
	UserID           uuid.UUID                   `gorm:"column:user_id;type:uuid;not null;index"`
	RoomNumber       string                      `gorm:"column:room_number;not null;index"`
	InvoiceNumber    string                      `gorm:"column:invoice_number;not null;uniqueIndex"`
	Amount           decimal.Decimal             `gorm:"column:amount;type:numeric(12,2);not null"`
	DueDate          time.Time                   `gorm:"column:due_date;not null;index"`
	Status           enums.InvoiceStatus         `gorm:"column:status;type:text;not null;default:'pending';index"`
	PaymentMethod    *enums.InvoicePaymentMethod `gorm:"column:payment_method;type:text"`
	PaymentReference *string                     `gorm:"column:payment_reference"`
	PaymentDate      *time.Time                  `gorm:"column:payment_date"`
	PDFUrl           *string                     `gorm:"column:pdf_url"`
	Lines            []InvoiceLine               `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	Notes            []InvoiceNote               `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	User             *User                       `gorm:"foreignKey:UserID"`
	CreatedAt        time.Time                   `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt        time.Time                   `gorm:"column:updated_at;autoUpdateTime"`
}

// IsOverdue reports the read-time overdue classification: a pending invoice
// whose due date has passed. The persisted status is not mutated by reads.
func (i Invoice) IsOverdue(now time.Time) bool {
	return i.Status == enums.InvoiceStatusPending && now.After(i.DueDate)
}

// EffectiveStatus returns the status with the overdue classification applied.
func (i Invoice) EffectiveStatus(now time.Time) enums.InvoiceStatus {
	if i.IsOverdue(now) {
		return enums.InvoiceStatusOverdue
	}
	return i.Status
}

// InvoiceLine is a billed position on an invoice.
type InvoiceLine struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	InvoiceID   uuid.UUID       `gorm:"column:invoice_id;type:uuid;not null;index"`
	Description string          `gorm:"column:description;not null"`
	Amount      decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// LineTotal returns amount times quantity.
func (l InvoiceLine) LineTotal() decimal.Decimal {
	return l.Amount.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// InvoiceNote is an append-only annotation; notes are never edited or removed.
type InvoiceNote struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	InvoiceID uuid.UUID `gorm:"column:invoice_id;type:uuid;not null;index"`
	AuthorID  uuid.UUID `gorm:"column:author_id;type:uuid;not null"`
	Content   string    `gorm:"column:content;not null"`
	Author    *User     `gorm:"foreignKey:AuthorID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
