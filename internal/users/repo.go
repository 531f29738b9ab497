package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sakani-app/sakani-backend/pkg/db/models"
	"github.com/sakani-app/sakani-backend/pkg/enums"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByUsername retrieves the user matching the provided username.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns users matching the provided filters, newest first.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]models.User, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})
	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}
	if filters.RoomNumber != "" {
		query = query.Where("room_number = ?", filters.RoomNumber)
	}
	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.Where("name LIKE ? OR username LIKE ?", like, like)
	}
	if filters.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var list []models.User
	if err := query.Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// UpdatePushToken stores the user's device push token.
func (r *Repository) UpdatePushToken(ctx context.Context, id uuid.UUID, token *string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("push_token", token).Error
}

// Deactivate soft-disables a user account.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("is_active", false).Error
}

// AdminExists reports whether the id belongs to an active admin user.
func (r *Repository) AdminExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND role = ? AND is_active = ?", id, enums.UserRoleAdmin, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
