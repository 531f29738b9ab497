package notifications

import (
	"context"
	"errors"
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

type stubPushSender struct {
	sent []string
	err  error
}

func (s *stubPushSender) SendPush(_ context.Context, token, _, _ string, _ map[string]string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, token)
	return nil
}

type stubEmailSender struct {
	sent []string
	err  error
}

func (s *stubEmailSender) SendEmail(_ context.Context, toEmail, _, _, _ string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, toEmail)
	return nil
}

type fixture struct {
	db    *gorm.DB
	svc   Service
	push  *stubPushSender
	email *stubEmailSender
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Notification{}))

	push := &stubPushSender{}
	email := &stubEmailSender{}
	svc, err := NewService(ServiceParams{
		Repo:  NewRepository(db),
		Users: users.NewRepository(db),
		Push:  push,
		Email: email,
	})
	require.NoError(t, err)
	return &fixture{db: db, svc: svc, push: push, email: email}
}

func (f *fixture) seedUser(t *testing.T, pushToken, email string) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Username:     "user-" + uuid.NewString()[:8],
		PasswordHash: "x",
		Name:         "Ahmed",
		Role:         enums.UserRoleResident,
		IsActive:     true,
	}
	if pushToken != "" {
		user.PushToken = &pushToken
	}
	if email != "" {
		user.Email = &email
	}
	require.NoError(t, f.db.Create(user).Error)
	return user
}

func (f *fixture) storedNotifications(t *testing.T, userID uuid.UUID) []models.Notification {
	t.Helper()
	var records []models.Notification
	require.NoError(t, f.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&records).Error)
	return records
}

func sampleOrder(userID uuid.UUID, status enums.OrderStatus) *models.Order {
	return &models.Order{
		ID:          uuid.New(),
		UserID:      userID,
		OrderNumber: "ORD-20250614-001",
		TotalAmount: decimal.NewFromInt(45),
		Status:      status,
	}
}

func TestOrderStatusChangedPersistsAndDelivers(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t, "device-token-1", "ahmed@example.com")

	f.svc.OrderStatusChanged(context.Background(), sampleOrder(user.ID, enums.OrderStatusReady))

	records := f.storedNotifications(t, user.ID)
	require.Len(t, records, 1)
	record := records[0]
	require.Equal(t, enums.NotificationTypeGrocery, record.Type)
	require.Contains(t, record.Body, "ORD-20250614-001")
	require.NotNil(t, record.TitleAr)
	require.NotEmpty(t, *record.TitleAr)
	require.True(t, record.SentViaPush)
	require.True(t, record.SentViaEmail)
	require.Nil(t, record.DeliveryError)

	require.Equal(t, []string{"device-token-1"}, f.push.sent)
	require.Equal(t, []string{"ahmed@example.com"}, f.email.sent)
}

func TestDispatchSkipsUnconfiguredChannels(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t, "", "")

	f.svc.OrderStatusChanged(context.Background(), sampleOrder(user.ID, enums.OrderStatusPending))

	records := f.storedNotifications(t, user.ID)
	require.Len(t, records, 1)
	require.False(t, records[0].SentViaPush)
	require.False(t, records[0].SentViaEmail)
	require.Empty(t, f.push.sent)
	require.Empty(t, f.email.sent)
}

func TestDispatchRecordsDeliveryFailure(t *testing.T) {
	f := newFixture(t)
	f.push.err = errors.New("fcm unavailable")
	user := f.seedUser(t, "device-token-2", "ahmed@example.com")

	invoice := &models.Invoice{
		ID:            uuid.New(),
		UserID:        user.ID,
		RoomNumber:    "B-204",
		InvoiceNumber: "INV-202506-0001",
		Amount:        decimal.NewFromInt(1250),
		DueDate:       time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		Status:        enums.InvoiceStatusPending,
	}
	f.svc.InvoiceIssued(context.Background(), invoice)

	records := f.storedNotifications(t, user.ID)
	require.Len(t, records, 1)
	record := records[0]
	require.Equal(t, enums.NotificationTypeInvoice, record.Type)
	require.False(t, record.SentViaPush)
	require.True(t, record.SentViaEmail)
	require.NotNil(t, record.DeliveryError)
	require.Contains(t, *record.DeliveryError, "fcm unavailable")
}

func TestTicketStatusChangedMessage(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t, "", "")

	f.svc.TicketStatusChanged(context.Background(), &models.MaintenanceTicket{
		ID:       uuid.New(),
		UserID:   user.ID,
		Title:    "Leaking sink",
		Status:   enums.TicketStatusCompleted,
		Category: enums.TicketCategoryPlumbing,
	})

	records := f.storedNotifications(t, user.ID)
	require.Len(t, records, 1)
	require.Equal(t, enums.NotificationTypeMaintenance, records[0].Type)
	require.Contains(t, records[0].Body, "Leaking sink")
	require.Equal(t, "Maintenance completed", records[0].Title)
}

func TestInboxReadFlow(t *testing.T) {
	f := newFixture(t)
	alice := f.seedUser(t, "", "")
	bob := f.seedUser(t, "", "")
	ctx := context.Background()

	f.svc.OrderStatusChanged(ctx, sampleOrder(alice.ID, enums.OrderStatusPending))
	f.svc.OrderStatusChanged(ctx, sampleOrder(alice.ID, enums.OrderStatusProcessing))
	f.svc.OrderStatusChanged(ctx, sampleOrder(bob.ID, enums.OrderStatusPending))

	unread, err := f.svc.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, unread)

	inbox, err := f.svc.List(ctx, alice.ID, ListFilters{UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, inbox.Items, 2)
	require.Empty(t, inbox.NextCursor)

	// bob cannot acknowledge alice's notification
	err = f.svc.MarkRead(ctx, bob.ID, inbox.Items[0].ID)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	require.NoError(t, f.svc.MarkRead(ctx, alice.ID, inbox.Items[0].ID))

	unread, err = f.svc.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, unread)

	count, err := f.svc.MarkAllRead(ctx, alice.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	bobUnread, err := f.svc.UnreadCount(ctx, bob.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, bobUnread)
}

func TestInboxPagination(t *testing.T) {
	f := newFixture(t)
	user := f.seedUser(t, "", "")
	ctx := context.Background()

	for _, status := range []enums.OrderStatus{
		enums.OrderStatusPending,
		enums.OrderStatusProcessing,
		enums.OrderStatusReady,
	} {
		f.svc.OrderStatusChanged(ctx, sampleOrder(user.ID, status))
	}

	first, err := f.svc.List(ctx, user.ID, ListFilters{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	require.NotEmpty(t, first.NextCursor)

	second, err := f.svc.List(ctx, user.ID, ListFilters{Limit: 2, Cursor: first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	require.Empty(t, second.NextCursor)

	seen := map[uuid.UUID]bool{}
	for _, item := range append(first.Items, second.Items...) {
		require.False(t, seen[item.ID])
		seen[item.ID] = true
	}

	_, err = f.svc.List(ctx, user.ID, ListFilters{Cursor: "not-base64"})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
