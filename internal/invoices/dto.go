package invoices

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sakani-app/sakani-backend/pkg/db/models"
	"github.com/sakani-app/sakani-backend/pkg/enums"
)

// LineInput is one billed position on a new invoice.
type LineInput struct {
	Description string          `json:"description" validate:"required,min=2,max=300"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Quantity    int             `json:"quantity" validate:"required,gt=0"`
}

// CreateInvoiceRequest captures the fields an admin submits to issue an invoice.
type CreateInvoiceRequest struct {
	UserID  uuid.UUID   `json:"user_id" validate:"required"`
	DueDate time.Time   `json:"due_date" validate:"required"`
	Lines   []LineInput `json:"lines" validate:"required,min=1,dive"`
}

// MarkPaidRequest records how an invoice was settled. Both the method and
// the reference are mandatory.
type MarkPaidRequest struct {
	PaymentMethod    enums.InvoicePaymentMethod `json:"payment_method" validate:"required"`
	PaymentReference *string                    `json:"payment_reference" validate:"required"`
}

// NoteRequest appends an annotation to an invoice.
type NoteRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

// LineSummary is the public shape of an invoice line.
type LineSummary struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// NoteSummary is the public shape of an invoice note.
type NoteSummary struct {
	ID        uuid.UUID `json:"id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// InvoiceSummary is the public shape returned by invoice endpoints. Status
// carries the read-time overdue classification.
type InvoiceSummary struct {
	ID               uuid.UUID                   `json:"id"`
	InvoiceNumber    string                      `json:"invoice_number"`
	UserID           uuid.UUID                   `json:"user_id"`
	RoomNumber       string                      `json:"room_number"`
	Amount           decimal.Decimal             `json:"amount"`
	DueDate          time.Time                   `json:"due_date"`
	Status           enums.InvoiceStatus         `json:"status"`
	PaymentMethod    *enums.InvoicePaymentMethod `json:"payment_method,omitempty"`
	PaymentReference *string                     `json:"payment_reference,omitempty"`
	PaymentDate      *time.Time                  `json:"payment_date,omitempty"`
	PDFUrl           *string                     `json:"pdf_url,omitempty"`
	Lines            []LineSummary               `json:"lines"`
	Notes            []NoteSummary               `json:"notes"`
	CreatedAt        time.Time                   `json:"created_at"`
}

// FromModel maps a persisted invoice into its public summary, applying the
// overdue classification as of now.
func FromModel(invoice *models.Invoice, now time.Time) InvoiceSummary {
	if invoice == nil {
		return InvoiceSummary{}
	}
	lines := make([]LineSummary, 0, len(invoice.Lines))
	for _, line := range invoice.Lines {
		lines = append(lines, LineSummary{
			ID:          line.ID,
			Description: line.Description,
			Amount:      line.Amount,
			Quantity:    line.Quantity,
			LineTotal:   line.LineTotal(),
		})
	}
	notes := make([]NoteSummary, 0, len(invoice.Notes))
	for _, note := range invoice.Notes {
		notes = append(notes, NoteSummary{
			ID:        note.ID,
			AuthorID:  note.AuthorID,
			Content:   note.Content,
			CreatedAt: note.CreatedAt,
		})
	}
	return InvoiceSummary{
		ID:               invoice.ID,
		InvoiceNumber:    invoice.InvoiceNumber,
		UserID:           invoice.UserID,
		RoomNumber:       invoice.RoomNumber,
		Amount:           invoice.Amount,
		DueDate:          invoice.DueDate,
		Status:           invoice.EffectiveStatus(now),
		PaymentMethod:    invoice.PaymentMethod,
		PaymentReference: invoice.PaymentReference,
		PaymentDate:      invoice.PaymentDate,
		PDFUrl:           invoice.PDFUrl,
		Lines:            lines,
		Notes:            notes,
		CreatedAt:        invoice.CreatedAt,
	}
}

// ListFilters describe the inputs supported by invoice listings. Status is
// matched against the effective status, so overdue selects pending invoices
// past their due date.
type ListFilters struct {
	UserID   *uuid.UUID
	Status   *enums.InvoiceStatus
	DateFrom *time.Time
	DateTo   *time.Time
}
