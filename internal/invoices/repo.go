package invoices

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sakani-app/sakani-backend/pkg/db/models"
	"github.com/sakani-app/sakani-backend/pkg/enums"
)

// Repository defines persistence operations for invoices.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	List(ctx context.Context, filters ListFilters, now time.Time) ([]models.Invoice, error)
	MarkPaidGuarded(ctx context.Context, id uuid.UUID, method enums.InvoicePaymentMethod, reference *string, at time.Time) (bool, error)
	CancelGuarded(ctx context.Context, id uuid.UUID) (bool, error)
	AppendNote(ctx context.Context, note *models.InvoiceNote) (*models.InvoiceNote, error)
	UpdatePDFUrl(ctx context.Context, id uuid.UUID, url string) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an invoices repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error) {
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	for i := range invoice.Lines {
		if invoice.Lines[i].ID == uuid.Nil {
			invoice.Lines[i].ID = uuid.New()
		}
		invoice.Lines[i].InvoiceID = invoice.ID
	}
	for i := range invoice.Notes {
		if invoice.Notes[i].ID == uuid.Nil {
			invoice.Notes[i].ID = uuid.New()
		}
		invoice.Notes[i].InvoiceID = invoice.ID
	}
	if err := r.db.WithContext(ctx).Create(invoice).Error; err != nil {
		return nil, err
	}
	return invoice, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Notes", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&invoice, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *repository) List(ctx context.Context, filters ListFilters, now time.Time) ([]models.Invoice, error) {
	query := r.db.WithContext(ctx).Model(&models.Invoice{}).Preload("Lines")
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.Status != nil {
		// overdue is a read-time classification over pending rows
		switch *filters.Status {
		case enums.InvoiceStatusOverdue:
			query = query.Where("status = ? AND due_date < ?", enums.InvoiceStatusPending, now)
		case enums.InvoiceStatusPending:
			query = query.Where("status = ? AND due_date >= ?", enums.InvoiceStatusPending, now)
		default:
			query = query.Where("status = ?", *filters.Status)
		}
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}

	var invoices []models.Invoice
	if err := query.Order("created_at DESC").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// MarkPaidGuarded settles a pending invoice exactly once. The persisted status
// for overdue invoices is still pending, so paying late works through the same
// guard.
func (r *repository) MarkPaidGuarded(ctx context.Context, id uuid.UUID, method enums.InvoicePaymentMethod, reference *string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("id = ? AND status = ?", id, enums.InvoiceStatusPending).
		Updates(map[string]any{
			"status":            enums.InvoiceStatusPaid,
			"payment_method":    method,
			"payment_reference": reference,
			"payment_date":      at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) CancelGuarded(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("id = ? AND status = ?", id, enums.InvoiceStatusPending).
		UpdateColumn("status", enums.InvoiceStatusCancelled)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) AppendNote(ctx context.Context, note *models.InvoiceNote) (*models.InvoiceNote, error) {
	if note.ID == uuid.Nil {
		note.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(note).Error; err != nil {
		return nil, err
	}
	return note, nil
}

func (r *repository) UpdatePDFUrl(ctx context.Context, id uuid.UUID, url string) error {
	return r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("id = ?", id).
		UpdateColumn("pdf_url", url).Error
}
