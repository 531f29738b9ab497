package documents

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sakani-app/sakani-backend/pkg/config"
	"github.com/sakani-app/sakani-backend/pkg/db/models"
	"github.com/sakani-app/sakani-backend/pkg/enums"
	pkgerrors "github.com/sakani-app/sakani-backend/pkg/errors"
	"github.com/sakani-app/sakani-backend/pkg/metrics"
)

type invoiceSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	UpdatePDFUrl(ctx context.Context, id uuid.UUID, url string) error
}

type orderSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

// Actor identifies who is requesting a document.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// Service renders and serves PDF documents for invoices and orders.
type Service interface {
	RenderInvoice(ctx context.Context, actor Actor, invoiceID uuid.UUID) (*DocumentSummary, error)
	RenderOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*DocumentSummary, error)
}

type service struct {
	repo     Repository
	invoices invoiceSource
	orders   orderSource
	renderer *Renderer
	output   string
	metrics  *metrics.PlatformMetrics
}

// ServiceParams bundles the dependencies required to build a document
// service. Metrics is optional.
type ServiceParams struct {
	Repo     Repository
	Invoices invoiceSource
	Orders   orderSource
	Renderer *Renderer
	Config   config.DocumentsConfig
	Metrics  *metrics.PlatformMetrics
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("document repository required")
	}
	if params.Invoices == nil {
		return nil, fmt.Errorf("invoice source required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order source required")
	}
	if params.Renderer == nil {
		return nil, fmt.Errorf("renderer required")
	}
	if strings.TrimSpace(params.Config.OutputDir) == "" {
		return nil, fmt.Errorf("output directory required")
	}
	return &service{
		repo:     params.Repo,
		invoices: params.Invoices,
		orders:   params.Orders,
		renderer: params.Renderer,
		output:   params.Config.OutputDir,
		metrics:  params.Metrics,
	}, nil
}

func (s *service) RenderInvoice(ctx context.Context, actor Actor, invoiceID uuid.UUID) (*DocumentSummary, error) {
	invoice, err := s.invoices.FindByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invoice")
	}
	if err := checkAccess(actor, invoice.UserID); err != nil {
		return nil, err
	}

	content, err := s.renderer.RenderInvoice(invoice)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render invoice")
	}
	summary, err := s.store(ctx, enums.DocumentKindInvoice, invoice.ID,
		fmt.Sprintf("invoice-%s.pdf", invoice.InvoiceNumber), content)
	if err != nil {
		return nil, err
	}

	if err := s.invoices.UpdatePDFUrl(ctx, invoice.ID, summary.URL); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record invoice pdf url")
	}
	return summary, nil
}

func (s *service) RenderOrder(ctx context.Context, actor Actor, orderID uuid.UUID) (*DocumentSummary, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if err := checkAccess(actor, order.UserID); err != nil {
		return nil, err
	}

	content, err := s.renderer.RenderOrder(order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render order")
	}
	return s.store(ctx, enums.DocumentKindOrder, order.ID,
		fmt.Sprintf("order-%s.pdf", order.OrderNumber), content)
}

// store writes the rendered bytes to disk and records the document file.
// Re-rendering overwrites the file and appends a fresh record.
func (s *service) store(ctx context.Context, kind enums.DocumentKind, referenceID uuid.UUID, filename string, content []byte) (*DocumentSummary, error) {
	if err := os.MkdirAll(s.output, 0o755); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create documents directory")
	}
	path := filepath.Join(s.output, filename)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write document")
	}

	file, err := s.repo.Create(ctx, &models.DocumentFile{
		Kind:        kind,
		ReferenceID: referenceID,
		Path:        path,
		SizeBytes:   int64(len(content)),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record document")
	}

	s.metrics.IncDocumentRendered(kind.String())
	summary := FromModel(file)
	return &summary, nil
}

func checkAccess(actor Actor, ownerID uuid.UUID) error {
	if actor.Role == enums.UserRoleAdmin {
		return nil
	}
	if actor.UserID != ownerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "document belongs to another user")
	}
	return nil
}
