package documents

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sakani-app/sakani-backend/internal/invoices"
	"github.com/sakani-app/sakani-backend/internal/orders"
	"github.com/sakani-app/sakani-backend/pkg/config"
	"github.com/sakani-app/sakani-backend/pkg/db/models"
	"github.com/sakani-app/sakani-backend/pkg/enums"
	pkgerrors "github.com/sakani-app/sakani-backend/pkg/errors"
)

type fixture struct {
	db  *gorm.DB
	svc Service
	dir string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Invoice{},
		&models.InvoiceLine{},
		&models.InvoiceNote{},
		&models.Order{},
		&models.OrderLine{},
		&models.DocumentFile{},
	))

	dir := t.TempDir()
	cfg := config.DocumentsConfig{
		OutputDir: dir,
		OrgName:   "Sakani Worker Housing",
		OrgLine:   "123 Main Street, Riyadh, Saudi Arabia",
		Currency:  "SAR",
	}
	svc, err := NewService(ServiceParams{
		Repo:     NewRepository(db),
		Invoices: invoices.NewRepository(db),
		Orders:   orders.NewRepository(db),
		Renderer: NewRenderer(cfg),
		Config:   cfg,
	})
	require.NoError(t, err)
	return &fixture{db: db, svc: svc, dir: dir}
}

func (f *fixture) seedInvoice(t *testing.T, userID uuid.UUID) *models.Invoice {
	t.Helper()
	invoice := &models.Invoice{
		ID:            uuid.New(),
		UserID:        userID,
		RoomNumber:    "B-204",
		InvoiceNumber: "INV-202506-0001",
		Amount:        decimal.NewFromInt(1250),
		DueDate:       time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		Status:        enums.InvoiceStatusPending,
		Lines: []models.InvoiceLine{
			{ID: uuid.New(), Description: "June rent", Amount: decimal.NewFromInt(1200), Quantity: 1},
			{ID: uuid.New(), Description: "Laundry service", Amount: decimal.NewFromInt(25), Quantity: 2},
		},
	}
	require.NoError(t, f.db.Create(invoice).Error)
	return invoice
}

func (f *fixture) seedOrder(t *testing.T, userID uuid.UUID) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:            uuid.New(),
		UserID:        userID,
		RoomNumber:    "B-204",
		OrderNumber:   "ORD-20250614-001",
		TotalAmount:   decimal.NewFromInt(45),
		Status:        enums.OrderStatusDelivered,
		PaymentStatus: enums.OrderPaymentStatusPending,
		PaymentMethod: enums.OrderPaymentMethodCash,
		Lines: []models.OrderLine{
			{ID: uuid.New(), ItemID: uuid.New(), ItemName: "Rice 5kg", Quantity: 2, UnitPrice: decimal.NewFromInt(20)},
			{ID: uuid.New(), ItemID: uuid.New(), ItemName: "Tea", Quantity: 1, UnitPrice: decimal.NewFromInt(5)},
		},
	}
	require.NoError(t, f.db.Create(order).Error)
	return order
}

func adminActor() Actor {
	return Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin}
}

func TestRenderInvoiceWritesFileAndRecordsURL(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	invoice := f.seedInvoice(t, userID)

	summary, err := f.svc.RenderInvoice(context.Background(), adminActor(), invoice.ID)
	require.NoError(t, err)
	require.Equal(t, enums.DocumentKindInvoice, summary.Kind)
	require.Equal(t, invoice.ID, summary.ReferenceID)
	require.Positive(t, summary.SizeBytes)

	content, err := os.ReadFile(summary.Path)
	require.NoError(t, err)
	require.True(t, len(content) > 4)
	require.Equal(t, "%PDF", string(content[:4]))
	require.EqualValues(t, len(content), summary.SizeBytes)

	var stored models.Invoice
	require.NoError(t, f.db.First(&stored, "id = ?", invoice.ID).Error)
	require.NotNil(t, stored.PDFUrl)
	require.Equal(t, summary.URL, *stored.PDFUrl)

	var files []models.DocumentFile
	require.NoError(t, f.db.Find(&files).Error)
	require.Len(t, files, 1)
}

func TestRenderOrderOwnership(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	order := f.seedOrder(t, owner)
	ctx := context.Background()

	summary, err := f.svc.RenderOrder(ctx, Actor{UserID: owner, Role: enums.UserRoleResident}, order.ID)
	require.NoError(t, err)
	require.Equal(t, enums.DocumentKindOrder, summary.Kind)
	content, err := os.ReadFile(summary.Path)
	require.NoError(t, err)
	require.Equal(t, "%PDF", string(content[:4]))

	_, err = f.svc.RenderOrder(ctx, Actor{UserID: uuid.New(), Role: enums.UserRoleResident}, order.ID)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestRenderInvoiceNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RenderInvoice(context.Background(), adminActor(), uuid.New())
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
