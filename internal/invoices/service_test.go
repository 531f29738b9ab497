package invoices

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sakani-app/sakani-backend/internal/users"
	"github.com/sakani-app/sakani-backend/pkg/db/models"
	"github.com/sakani-app/sakani-backend/pkg/enums"
	pkgerrors "github.com/sakani-app/sakani-backend/pkg/errors"
)

type sqliteTxRunner struct {
	db *gorm.DB
}

func (r *sqliteTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

type recordingNotifier struct {
	issued []*models.Invoice
	paid   []*models.Invoice
}

func (n *recordingNotifier) InvoiceIssued(ctx context.Context, invoice *models.Invoice) {
	n.issued = append(n.issued, invoice)
}

func (n *recordingNotifier) InvoicePaid(ctx context.Context, invoice *models.Invoice) {
	n.paid = append(n.paid, invoice)
}

type fixture struct {
	db       *gorm.DB
	svc      Service
	notifier *recordingNotifier
	now      time.Time
	clock    *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Invoice{},
		&models.InvoiceLine{},
		&models.InvoiceNote{},
		&models.SequenceCounter{},
	))

	now := time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC)
	clock := now
	notifier := &recordingNotifier{}
	svc, err := NewService(ServiceParams{
		Repo:     NewRepository(db),
		Users:    users.NewRepository(db),
		Tx:       &sqliteTxRunner{db: db},
		Notifier: notifier,
		Now:      func() time.Time { return clock },
	})
	require.NoError(t, err)
	return &fixture{db: db, svc: svc, notifier: notifier, now: now, clock: &clock}
}

func (f *fixture) seedResident(t *testing.T) *models.User {
	t.Helper()
	room := "C-310"
	user := &models.User{
		ID:           uuid.New(),
		Username:     "worker-" + uuid.NewString()[:8],
		PasswordHash: "x",
		Name:         "Worker",
		Role:         enums.UserRoleResident,
		RoomNumber:   &room,
		IsActive:     true,
	}
	require.NoError(t, f.db.Create(user).Error)
	return user
}

func adminActor() Actor {
	return Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin}
}

func residentActor(id uuid.UUID) Actor {
	return Actor{UserID: id, Role: enums.UserRoleResident}
}

func (f *fixture) issueInvoice(t *testing.T, userID uuid.UUID, due time.Time) *InvoiceSummary {
	t.Helper()
	invoice, err := f.svc.Create(context.Background(), adminActor(), CreateInvoiceRequest{
		UserID:  userID,
		DueDate: due,
		Lines: []LineInput{
			{Description: "Monthly rent", Amount: decimal.NewFromInt(1200), Quantity: 1},
			{Description: "Laundry", Amount: decimal.NewFromInt(25), Quantity: 2},
		},
	})
	require.NoError(t, err)
	return invoice
}

func TestCreateInvoiceFreezesAmountAndNumber(t *testing.T) {
	f := newFixture(t)
	user := f.seedResident(t)

	invoice := f.issueInvoice(t, user.ID, f.now.AddDate(0, 0, 14))

	require.Equal(t, "INV-202506-0001", invoice.InvoiceNumber)
	require.True(t, invoice.Amount.Equal(decimal.NewFromInt(1250)))
	require.Equal(t, enums.InvoiceStatusPending, invoice.Status)
	require.Equal(t, "C-310", invoice.RoomNumber)
	require.Len(t, f.notifier.issued, 1)

	second := f.issueInvoice(t, user.ID, f.now.AddDate(0, 0, 14))
	require.Equal(t, "INV-202506-0002", second.InvoiceNumber)
}

func TestCreateInvoiceSeedsNoteLog(t *testing.T) {
	f := newFixture(t)
	user := f.seedResident(t)

	invoice := f.issueInvoice(t, user.ID, f.now.AddDate(0, 0, 14))

	require.Len(t, invoice.Notes, 1)
	require.Equal(t, "Invoice created", invoice.Notes[0].Content)
	require.NotEqual(t, uuid.Nil, invoice.Notes[0].AuthorID)
}

func TestCreateInvoiceRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	user := f.seedResident(t)

	_, err := f.svc.Create(context.Background(), residentActor(user.ID), CreateInvoiceRequest{
		UserID:  user.ID,
		DueDate: f.now.AddDate(0, 0, 7),
		Lines:   []LineInput{{Description: "Rent", Amount: decimal.NewFromInt(100), Quantity: 1}},
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestCreateInvoiceRejectsUnknownUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), adminActor(), CreateInvoiceRequest{
		UserID:  uuid.New(),
		DueDate: f.now.AddDate(0, 0, 7),
		Lines:   []LineInput{{Description: "Rent", Amount: decimal.NewFromInt(100), Quantity: 1}},
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestOverdueIsReadTimeClassification(t *testing.T) {
	f := newFixture(t)
	user := f.seedResident(t)
	invoice := f.issueInvoice(t, user.ID, f.now.AddDate(0, 0, 2))
	ctx := context.Background()

	got, err := f.svc.Get(ctx, adminActor(), invoice.ID)
	require.NoError(t, err)
	require.Equal(t, enums.InvoiceStatusPending, got.Status)

	// move the clock past the due date; the stored row is untouched
	*f.clock = f.now.AddDate(0, 0, 3)
	got, err = f.svc.Get(ctx, adminActor(), invoice.ID)
	require.NoError(t, err)
	require.Equal(t, enums.InvoiceStatusOverdue, got.Status)

	var stored models.Invoice
	require.NoError(t, f.db.First(&stored, "id = ?", invoice.ID).Error)
	require.Equal(t, enums.InvoiceStatusPending, stored.Status)
}

func TestListFiltersOverdueAndPending(t *testing.T) {
	f := newFixture(t)
	user := f.seedResident(t)
	ctx := context.Background()

	f.issueInvoice(t, user.ID, f.now.AddDate(0, 0, 1))  // soon overdue
	f.issueInvoice(t, user.ID, f.now.AddDate(0, 0, 30)) // safely pending
	*f.clock = f.now.AddDate(0, 0, 5)

	overdueStatus := enums.InvoiceStatusOverdue
	overdue, err := f.svc.List(ctx, adminActor(), ListFilters{Status: &overdueStatus})
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	require.Equal(t, enums.InvoiceStatusOverdue, overdue[0].Status)

	pendingStatus := enums.InvoiceStatusPending
	pending, err := f.svc.List(ctx, adminActor(), ListFilters{Status: &pendingStatus})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, enums.InvoiceStatusPending, pending[0].Status)
}

func TestMarkPaidSettlesExactlyOnce(t *testing.T) {
	f := newFixture(t)
	user := f.seedResident(t)
	invoice := f.issueInvoice(t, user.ID, f.now.AddDate(0, 0, 14))
	ctx := context.Background()

	ref := "TXN-123"
	paid, err := f.svc.MarkPaid(ctx, adminActor(), invoice.ID, MarkPaidRequest{
		PaymentMethod:    enums.InvoicePaymentMethodBankTransfer,
		PaymentReference: &ref,
	})
	require.NoError(t, err)
	require.Equal(t, enums.InvoiceStatusPaid, paid.Status)
	require.NotNil(t, paid.PaymentDate)
	require.Len(t, f.notifier.paid, 1)

	ref2 := "TXN-456"
	_, err = f.svc.MarkPaid(ctx, adminActor(), invoice.ID, MarkPaidRequest{
		PaymentMethod:    enums.InvoicePaymentMethodCash,
		PaymentReference: &ref2,
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestMarkPaidRequiresReference(t *testing.T) {
	f := newFixture(t)
	user := f.seedResident(t)
	invoice := f.issueInvoice(t, user.ID, f.now.AddDate(0, 0, 14))
	ctx := context.Background()

	_, err := f.svc.MarkPaid(ctx, adminActor(), invoice.ID, MarkPaidRequest{
		PaymentMethod: enums.InvoicePaymentMethodCash,
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	blank := "   "
	_, err = f.svc.MarkPaid(ctx, adminActor(), invoice.ID, MarkPaidRequest{
		PaymentMethod:    enums.InvoicePaymentMethodCash,
		PaymentReference: &blank,
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	got, err := f.svc.Get(ctx, adminActor(), invoice.ID)
	require.NoError(t, err)
	require.Equal(t, enums.InvoiceStatusPending, got.Status)
}

func TestOverdueInvoiceCanStillBePaid(t *testing.T) {
	f := newFixture(t)
	user := f.seedResident(t)
	invoice := f.issueInvoice(t, user.ID, f.now.AddDate(0, 0, 1))
	*f.clock = f.now.AddDate(0, 0, 10)

	ref := "CASH-0042"
	paid, err := f.svc.MarkPaid(context.Background(), adminActor(), invoice.ID, MarkPaidRequest{
		PaymentMethod:    enums.InvoicePaymentMethodCash,
		PaymentReference: &ref,
	})
	require.NoError(t, err)
	require.Equal(t, enums.InvoiceStatusPaid, paid.Status)
}

func TestCancelOnlyPendingInvoices(t *testing.T) {
	f := newFixture(t)
	user := f.seedResident(t)
	invoice := f.issueInvoice(t, user.ID, f.now.AddDate(0, 0, 14))
	ctx := context.Background()

	cancelled, err := f.svc.Cancel(ctx, adminActor(), invoice.ID)
	require.NoError(t, err)
	require.Equal(t, enums.InvoiceStatusCancelled, cancelled.Status)

	ref := "TXN-789"
	_, err = f.svc.MarkPaid(ctx, adminActor(), invoice.ID, MarkPaidRequest{
		PaymentMethod:    enums.InvoicePaymentMethodCash,
		PaymentReference: &ref,
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestNotesAreAppendOnlyAndOrdered(t *testing.T) {
	f := newFixture(t)
	user := f.seedResident(t)
	invoice := f.issueInvoice(t, user.ID, f.now.AddDate(0, 0, 14))
	ctx := context.Background()
	admin := adminActor()

	_, err := f.svc.AddNote(ctx, admin, invoice.ID, NoteRequest{Content: "first reminder sent"})
	require.NoError(t, err)
	got, err := f.svc.AddNote(ctx, admin, invoice.ID, NoteRequest{Content: "resident acknowledged"})
	require.NoError(t, err)

	require.Len(t, got.Notes, 3)
	require.Equal(t, "Invoice created", got.Notes[0].Content)
	require.Equal(t, "first reminder sent", got.Notes[1].Content)
	require.Equal(t, "resident acknowledged", got.Notes[2].Content)
}

func TestResidentsOnlySeeOwnInvoices(t *testing.T) {
	f := newFixture(t)
	alice := f.seedResident(t)
	bob := f.seedResident(t)
	ctx := context.Background()

	aliceInvoice := f.issueInvoice(t, alice.ID, f.now.AddDate(0, 0, 14))
	f.issueInvoice(t, bob.ID, f.now.AddDate(0, 0, 14))

	mine, err := f.svc.List(ctx, residentActor(alice.ID), ListFilters{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, alice.ID, mine[0].UserID)

	_, err = f.svc.Get(ctx, residentActor(bob.ID), aliceInvoice.ID)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}
