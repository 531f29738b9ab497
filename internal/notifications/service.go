package notifications

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/sakani-app/sakani-backend/pkg/db/models"
	pkgerrors "github.com/sakani-app/sakani-backend/pkg/errors"
	"github.com/sakani-app/sakani-backend/pkg/logger"
	"github.com/sakani-app/sakani-backend/pkg/metrics"
	"github.com/sakani-app/sakani-backend/pkg/pagination"
)

type userLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service records notifications for domain events and exposes the inbox.
// Event methods never fail the triggering operation: delivery problems are
// recorded on the notification row and surfaced through metrics.
type Service interface {
	OrderStatusChanged(ctx context.Context, order *models.Order)
	InvoiceIssued(ctx context.Context, invoice *models.Invoice)
	InvoicePaid(ctx context.Context, invoice *models.Invoice)
	TicketStatusChanged(ctx context.Context, ticket *models.MaintenanceTicket)

	List(ctx context.Context, userID uuid.UUID, filters ListFilters) (*InboxPage, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type service struct {
	repo    Repository
	users   userLookup
	push    PushSender
	email   EmailSender
	log     *logger.Logger
	metrics *metrics.PlatformMetrics
}

// ServiceParams bundles the dependencies required to build a notification
// service. Push, Email, Log and Metrics are optional.
type ServiceParams struct {
	Repo    Repository
	Users   userLookup
	Push    PushSender
	Email   EmailSender
	Log     *logger.Logger
	Metrics *metrics.PlatformMetrics
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("notification repository required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user lookup required")
	}
	return &service{
		repo:    params.Repo,
		users:   params.Users,
		push:    params.Push,
		email:   params.Email,
		log:     params.Log,
		metrics: params.Metrics,
	}, nil
}

func (s *service) OrderStatusChanged(ctx context.Context, order *models.Order) {
	if order == nil {
		return
	}
	s.dispatch(ctx, order.UserID, orderMessage(order))
}

func (s *service) InvoiceIssued(ctx context.Context, invoice *models.Invoice) {
	if invoice == nil {
		return
	}
	s.dispatch(ctx, invoice.UserID, invoiceIssuedMessage(invoice))
}

func (s *service) InvoicePaid(ctx context.Context, invoice *models.Invoice) {
	if invoice == nil {
		return
	}
	s.dispatch(ctx, invoice.UserID, invoicePaidMessage(invoice))
}

func (s *service) TicketStatusChanged(ctx context.Context, ticket *models.MaintenanceTicket) {
	if ticket == nil {
		return
	}
	s.dispatch(ctx, ticket.UserID, ticketMessage(ticket))
}

// dispatch persists the notification and then attempts push and email
// delivery for the channels the user has configured.
func (s *service) dispatch(ctx context.Context, userID uuid.UUID, msg message) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.logError(ctx, "notification recipient lookup failed", err)
		return
	}

	refID := msg.ReferenceID
	record := &models.Notification{
		UserID:      user.ID,
		Type:        msg.Type,
		Title:       msg.Title,
		TitleAr:     &msg.TitleAr,
		Body:        msg.Body,
		BodyAr:      &msg.BodyAr,
		ReferenceID: &refID,
	}
	record, err = s.repo.Create(ctx, record)
	if err != nil {
		s.logError(ctx, "persist notification failed", err)
		return
	}

	updates := map[string]any{}
	var deliveryErrs []string

	if s.push != nil && user.PushToken != nil && *user.PushToken != "" {
		data := map[string]string{
			"type":         msg.Type.String(),
			"reference_id": refID.String(),
		}
		if err := s.push.SendPush(ctx, *user.PushToken, msg.Title, msg.Body, data); err != nil {
			deliveryErrs = append(deliveryErrs, fmt.Sprintf("push: %v", err))
			s.metrics.IncNotificationFailed("push")
		} else {
			updates["sent_via_push"] = true
			s.metrics.IncNotificationDelivered("push")
		}
	}

	if s.email != nil && user.Email != nil && *user.Email != "" {
		if err := s.email.SendEmail(ctx, *user.Email, user.Name, msg.Title, msg.Body); err != nil {
			deliveryErrs = append(deliveryErrs, fmt.Sprintf("email: %v", err))
			s.metrics.IncNotificationFailed("email")
		} else {
			updates["sent_via_email"] = true
			s.metrics.IncNotificationDelivered("email")
		}
	}

	if len(deliveryErrs) > 0 {
		updates["delivery_error"] = strings.Join(deliveryErrs, "; ")
	}
	if len(updates) == 0 {
		return
	}
	if err := s.repo.Update(ctx, record.ID, updates); err != nil {
		s.logError(ctx, "record notification delivery failed", err)
	}
}

func (s *service) List(ctx context.Context, userID uuid.UUID, filters ListFilters) (*InboxPage, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	filters.UserID = userID
	records, err := s.repo.List(ctx, filters)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}

	page := &InboxPage{Items: make([]NotificationSummary, 0, len(records))}
	limit := pagination.NormalizeLimit(filters.Limit)
	if len(records) > limit {
		records = records[:limit]
		last := records[len(records)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	for i := range records {
		page.Items = append(page.Items, FromModel(&records[i]))
	}
	return page, nil
}

func (s *service) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	updated, err := s.repo.MarkRead(ctx, id, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	if !updated {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	count, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notifications read")
	}
	return count, nil
}

func (s *service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unread notifications")
	}
	return count, nil
}

func (s *service) logError(ctx context.Context, msg string, err error) {
	if s.log == nil {
		return
	}
	s.log.Error(ctx, msg, err)
}
