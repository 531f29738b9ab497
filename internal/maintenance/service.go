package maintenance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sakani-app/sakani-backend/pkg/db/models"
	"github.com/sakani-app/sakani-backend/pkg/enums"
	pkgerrors "github.com/sakani-app/sakani-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type adminChecker interface {
	AdminExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Notifier receives ticket lifecycle events after they commit. Delivery is
// best effort and never fails the operation.
type Notifier interface {
	TicketStatusChanged(ctx context.Context, ticket *models.MaintenanceTicket)
}

// Actor identifies who is performing a ticket operation.
type Actor struct {
	UserID     uuid.UUID
	Role       enums.UserRole
	RoomNumber string
}

// Service defines maintenance operations beyond repository reads.
type Service interface {
	Create(ctx context.Context, actor Actor, req CreateTicketRequest) (*TicketSummary, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*TicketSummary, error)
	List(ctx context.Context, actor Actor, filters ListFilters) ([]TicketSummary, error)
	UpdateStatus(ctx context.Context, actor Actor, id uuid.UUID, req StatusRequest) (*TicketSummary, error)
	Assign(ctx context.Context, actor Actor, id uuid.UUID, req AssignRequest) (*TicketSummary, error)
	AddNote(ctx context.Context, actor Actor, id uuid.UUID, req NoteRequest) (*TicketSummary, error)
}

type service struct {
	repo     Repository
	admins   adminChecker
	tx       txRunner
	notifier Notifier
	now      func() time.Time
}

// ServiceParams bundles the dependencies required to build a ticket service.
type ServiceParams struct {
	Repo     Repository
	Admins   adminChecker
	Tx       txRunner
	Notifier Notifier
	Now      func() time.Time
}

// NewService builds a maintenance service with the required dependencies.
// Notifier is optional.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("maintenance repository required")
	}
	if params.Admins == nil {
		return nil, fmt.Errorf("admin checker required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		repo:     params.Repo,
		admins:   params.Admins,
		tx:       params.Tx,
		notifier: params.Notifier,
		now:      params.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, actor Actor, req CreateTicketRequest) (*TicketSummary, error) {
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if actor.RoomNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "room number required")
	}
	if !req.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}
	priority := req.Priority
	if priority == "" {
		priority = enums.TicketPriorityMedium
	}
	if !priority.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid priority")
	}

	ticket := &models.MaintenanceTicket{
		UserID:      actor.UserID,
		RoomNumber:  actor.RoomNumber,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Category:    req.Category,
		Priority:    priority,
		Status:      enums.TicketStatusPending,
		Images:      req.Images,
	}
	created, err := s.repo.Create(ctx, ticket)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create ticket")
	}

	if s.notifier != nil {
		s.notifier.TicketStatusChanged(ctx, created)
	}
	summary := FromModel(created)
	return &summary, nil
}

func (s *service) Get(ctx context.Context, actor Actor, id uuid.UUID) (*TicketSummary, error) {
	ticket, err := s.findTicket(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwnership(actor, ticket); err != nil {
		return nil, err
	}
	summary := FromModel(ticket)
	return &summary, nil
}

func (s *service) List(ctx context.Context, actor Actor, filters ListFilters) ([]TicketSummary, error) {
	// residents only ever see their own tickets
	if actor.Role != enums.UserRoleAdmin {
		filters.UserID = &actor.UserID
	}
	tickets, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tickets")
	}
	summaries := make([]TicketSummary, 0, len(tickets))
	for i := range tickets {
		summaries = append(summaries, FromModel(&tickets[i]))
	}
	return summaries, nil
}

// UpdateStatus sets the ticket status. Unlike orders there is no transition
// table; any status is reachable, and completion stamps completed_at.
func (s *service) UpdateStatus(ctx context.Context, actor Actor, id uuid.UUID, req StatusRequest) (*TicketSummary, error) {
	if actor.Role != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}
	if !req.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}

	var updated *models.MaintenanceTicket
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ticket, err := s.findTicket(ctx, repo, id)
		if err != nil {
			return err
		}

		updates := map[string]any{"status": req.Status}
		switch {
		case req.Status == enums.TicketStatusCompleted && ticket.CompletedAt == nil:
			updates["completed_at"] = s.now().UTC()
		case req.Status != enums.TicketStatusCompleted:
			updates["completed_at"] = nil
		}

		if err := repo.Update(ctx, ticket.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update ticket status")
		}
		updated, err = repo.FindByID(ctx, ticket.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload ticket")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.TicketStatusChanged(ctx, updated)
	}
	summary := FromModel(updated)
	return &summary, nil
}

func (s *service) Assign(ctx context.Context, actor Actor, id uuid.UUID, req AssignRequest) (*TicketSummary, error) {
	if actor.Role != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}
	if req.AssigneeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "assignee id required")
	}

	isAdmin, err := s.admins.AdminExists(ctx, req.AssigneeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verify assignee")
	}
	if !isAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidAssignee, "assignee must be an active admin").
			WithDetails(map[string]any{"assignee_id": req.AssigneeID})
	}

	ticket, err := s.findTicket(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, ticket.ID, map[string]any{"assignee_id": req.AssigneeID}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign ticket")
	}

	reloaded, err := s.findTicket(ctx, s.repo, ticket.ID)
	if err != nil {
		return nil, err
	}
	summary := FromModel(reloaded)
	return &summary, nil
}

func (s *service) AddNote(ctx context.Context, actor Actor, id uuid.UUID, req NoteRequest) (*TicketSummary, error) {
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "note content required")
	}

	ticket, err := s.findTicket(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwnership(actor, ticket); err != nil {
		return nil, err
	}

	note := &models.TicketNote{
		TicketID: ticket.ID,
		AuthorID: actor.UserID,
		Content:  strings.TrimSpace(req.Content),
	}
	if _, err := s.repo.AppendNote(ctx, note); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append note")
	}

	reloaded, err := s.findTicket(ctx, s.repo, ticket.ID)
	if err != nil {
		return nil, err
	}
	summary := FromModel(reloaded)
	return &summary, nil
}

func (s *service) findTicket(ctx context.Context, repo Repository, id uuid.UUID) (*models.MaintenanceTicket, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ticket id required")
	}
	ticket, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ticket")
	}
	return ticket, nil
}

func checkOwnership(actor Actor, ticket *models.MaintenanceTicket) error {
	if actor.Role == enums.UserRoleAdmin {
		return nil
	}
	if ticket.UserID != actor.UserID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "ticket does not belong to user")
	}
	return nil
}
