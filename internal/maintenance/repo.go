package maintenance

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sakani-app/sakani-backend/pkg/db/models"
)

// Repository defines persistence operations for maintenance tickets.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, ticket *models.MaintenanceTicket) (*models.MaintenanceTicket, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.MaintenanceTicket, error)
	List(ctx context.Context, filters ListFilters) ([]models.MaintenanceTicket, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	AppendNote(ctx context.Context, note *models.TicketNote) (*models.TicketNote, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a maintenance repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, ticket *models.MaintenanceTicket) (*models.MaintenanceTicket, error) {
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(ticket).Error; err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.MaintenanceTicket, error) {
	var ticket models.MaintenanceTicket
	err := r.db.WithContext(ctx).
		Preload("Notes", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&ticket, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]models.MaintenanceTicket, error) {
	query := r.db.WithContext(ctx).Model(&models.MaintenanceTicket{})
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Priority != nil {
		query = query.Where("priority = ?", *filters.Priority)
	}
	if filters.AssigneeID != nil {
		query = query.Where("assignee_id = ?", *filters.AssigneeID)
	}

	var tickets []models.MaintenanceTicket
	if err := query.Order("created_at DESC").Find(&tickets).Error; err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.MaintenanceTicket{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) AppendNote(ctx context.Context, note *models.TicketNote) (*models.TicketNote, error) {
	if note.ID == uuid.Nil {
		note.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(note).Error; err != nil {
		return nil, err
	}
	return note, nil
}
