package notifications

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sakani-app/sakani-backend/pkg/db/models"
	pkgerrors "github.com/sakani-app/sakani-backend/pkg/errors"
	"github.com/sakani-app/sakani-backend/pkg/pagination"
)

// Repository persists notification records.
type Repository interface {
	Create(ctx context.Context, notification *models.Notification) (*models.Notification, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	List(ctx context.Context, filters ListFilters) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) (bool, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, notification *models.Notification) (*models.Notification, error) {
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return nil, err
	}
	return notification, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.WithContext(ctx).First(&notification, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
		}
		return nil, err
	}
	return &notification, nil
}

// List returns up to limit+1 rows in reverse chronological order so callers
// can detect whether another page exists.
func (r *repository) List(ctx context.Context, filters ListFilters) ([]models.Notification, error) {
	query := r.db.WithContext(ctx).Model(&models.Notification{})
	if filters.UserID != uuid.Nil {
		query = query.Where("user_id = ?", filters.UserID)
	}
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}

	cursor, err := pagination.ParseCursor(filters.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	if cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var notifications []models.Notification
	err = query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(filters.Limit)).
		Find(&notifications).Error
	return notifications, err
}

// MarkRead flips a single notification to read. The user filter keeps one
// user from acknowledging another's notifications.
func (r *repository) MarkRead(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

func (r *repository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}
