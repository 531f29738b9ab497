package invoices

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sakani-app/sakani-backend/internal/sequence"
	"github.com/sakani-app/sakani-backend/pkg/db/models"
	"github.com/sakani-app/sakani-backend/pkg/enums"
	pkgerrors "github.com/sakani-app/sakani-backend/pkg/errors"
	"github.com/sakani-app/sakani-backend/pkg/metrics"
)

// invoiceCreatedNote opens every invoice's note log.
const invoiceCreatedNote = "Invoice created"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type userReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Notifier receives invoice lifecycle events after they commit. Delivery is
// best effort and never fails the operation.
type Notifier interface {
	InvoiceIssued(ctx context.Context, invoice *models.Invoice)
	InvoicePaid(ctx context.Context, invoice *models.Invoice)
}

// Actor identifies who is performing an invoice operation.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// Service defines invoice operations beyond repository reads.
type Service interface {
	Create(ctx context.Context, actor Actor, req CreateInvoiceRequest) (*InvoiceSummary, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*InvoiceSummary, error)
	List(ctx context.Context, actor Actor, filters ListFilters) ([]InvoiceSummary, error)
	MarkPaid(ctx context.Context, actor Actor, id uuid.UUID, req MarkPaidRequest) (*InvoiceSummary, error)
	Cancel(ctx context.Context, actor Actor, id uuid.UUID) (*InvoiceSummary, error)
	AddNote(ctx context.Context, actor Actor, id uuid.UUID, req NoteRequest) (*InvoiceSummary, error)
}

type service struct {
	repo     Repository
	users    userReader
	tx       txRunner
	metrics  *metrics.PlatformMetrics
	notifier Notifier
	now      func() time.Time
}

// ServiceParams bundles the dependencies required to build an invoice service.
type ServiceParams struct {
	Repo     Repository
	Users    userReader
	Tx       txRunner
	Metrics  *metrics.PlatformMetrics
	Notifier Notifier
	Now      func() time.Time
}

// NewService builds an invoice service with the required dependencies.
// Metrics and Notifier are optional.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("invoices repository required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		repo:     params.Repo,
		users:    params.Users,
		tx:       params.Tx,
		metrics:  params.Metrics,
		notifier: params.Notifier,
		now:      params.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, actor Actor, req CreateInvoiceRequest) (*InvoiceSummary, error) {
	if actor.Role != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}
	if req.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if req.DueDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "due date required")
	}
	if len(req.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice must contain at least one line")
	}

	lines := make([]models.InvoiceLine, 0, len(req.Lines))
	total := decimal.Zero
	for _, line := range req.Lines {
		if strings.TrimSpace(line.Description) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line description required")
		}
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive")
		}
		if line.Amount.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line amount cannot be negative")
		}
		lines = append(lines, models.InvoiceLine{
			Description: strings.TrimSpace(line.Description),
			Amount:      line.Amount,
			Quantity:    line.Quantity,
		})
		total = total.Add(line.Amount.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	user, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	var created *models.Invoice
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		number, err := sequence.NextInvoiceNumber(ctx, tx, s.now())
		if err != nil {
			return err
		}

		invoice := &models.Invoice{
			UserID:        user.ID,
			RoomNumber:    user.Room(),
			InvoiceNumber: number,
			Amount:        total,
			DueDate:       req.DueDate,
			Status:        enums.InvoiceStatusPending,
			Lines:         lines,
			// the note log opens with a creation entry by the issuing admin
			Notes: []models.InvoiceNote{{
				AuthorID: actor.UserID,
				Content:  invoiceCreatedNote,
			}},
		}
		created, err = repo.Create(ctx, invoice)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create invoice")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncInvoiceIssued()
	if s.notifier != nil {
		s.notifier.InvoiceIssued(ctx, created)
	}
	summary := FromModel(created, s.now())
	return &summary, nil
}

func (s *service) Get(ctx context.Context, actor Actor, id uuid.UUID) (*InvoiceSummary, error) {
	invoice, err := s.findInvoice(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwnership(actor, invoice); err != nil {
		return nil, err
	}
	summary := FromModel(invoice, s.now())
	return &summary, nil
}

func (s *service) List(ctx context.Context, actor Actor, filters ListFilters) ([]InvoiceSummary, error) {
	// residents only ever see their own invoices
	if actor.Role != enums.UserRoleAdmin {
		filters.UserID = &actor.UserID
	}
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	now := s.now()
	invoices, err := s.repo.List(ctx, filters, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list invoices")
	}
	summaries := make([]InvoiceSummary, 0, len(invoices))
	for i := range invoices {
		summaries = append(summaries, FromModel(&invoices[i], now))
	}
	return summaries, nil
}

func (s *service) MarkPaid(ctx context.Context, actor Actor, id uuid.UUID, req MarkPaidRequest) (*InvoiceSummary, error) {
	if actor.Role != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}
	if !req.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if req.PaymentReference == nil || strings.TrimSpace(*req.PaymentReference) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment reference required")
	}
	reference := strings.TrimSpace(*req.PaymentReference)

	var updated *models.Invoice
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		invoice, err := s.findInvoice(ctx, repo, id)
		if err != nil {
			return err
		}
		if invoice.Status == enums.InvoiceStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cancelled invoices cannot be paid")
		}

		ok, err := repo.MarkPaidGuarded(ctx, invoice.ID, req.PaymentMethod, &reference, s.now().UTC())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark invoice paid")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "invoice is already settled")
		}

		updated, err = repo.FindByID(ctx, invoice.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload invoice")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.InvoicePaid(ctx, updated)
	}
	summary := FromModel(updated, s.now())
	return &summary, nil
}

func (s *service) Cancel(ctx context.Context, actor Actor, id uuid.UUID) (*InvoiceSummary, error) {
	if actor.Role != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}

	var updated *models.Invoice
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := s.findInvoice(ctx, repo, id); err != nil {
			return err
		}

		ok, err := repo.CancelGuarded(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel invoice")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only pending invoices can be cancelled")
		}

		updated, err = repo.FindByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload invoice")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	summary := FromModel(updated, s.now())
	return &summary, nil
}

func (s *service) AddNote(ctx context.Context, actor Actor, id uuid.UUID, req NoteRequest) (*InvoiceSummary, error) {
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "note content required")
	}

	invoice, err := s.findInvoice(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwnership(actor, invoice); err != nil {
		return nil, err
	}

	note := &models.InvoiceNote{
		InvoiceID: invoice.ID,
		AuthorID:  actor.UserID,
		Content:   strings.TrimSpace(req.Content),
	}
	if _, err := s.repo.AppendNote(ctx, note); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append note")
	}

	reloaded, err := s.findInvoice(ctx, s.repo, invoice.ID)
	if err != nil {
		return nil, err
	}
	summary := FromModel(reloaded, s.now())
	return &summary, nil
}

func (s *service) findInvoice(ctx context.Context, repo Repository, id uuid.UUID) (*models.Invoice, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice id required")
	}
	invoice, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invoice")
	}
	return invoice, nil
}

func checkOwnership(actor Actor, invoice *models.Invoice) error {
	if actor.Role == enums.UserRoleAdmin {
		return nil
	}
	if invoice.UserID != actor.UserID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "invoice does not belong to user")
	}
	return nil
}
