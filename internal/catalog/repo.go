package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sakani-app/sakani-backend/pkg/db/models"
)

// Repository defines persistence operations for catalog items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item *models.CatalogItem) (*models.CatalogItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.CatalogItem, error)
	List(ctx context.Context, filters ListFilters) ([]models.CatalogItem, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error)
	IncrementStock(ctx context.Context, id uuid.UUID, qty int) error
	SetStock(ctx context.Context, id uuid.UUID, qty int) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, item *models.CatalogItem) (*models.CatalogItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CatalogItem, error) {
	var item models.CatalogItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]models.CatalogItem, error) {
	query := r.db.WithContext(ctx).Model(&models.CatalogItem{})
	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}
	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.Where("name LIKE ? OR name_ar LIKE ?", like, like)
	}
	if filters.AvailableOnly {
		query = query.Where("is_available = ?", true)
	}

	var items []models.CatalogItem
	if err := query.Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.CatalogItem{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.CatalogItem{}, "id = ?", id).Error
}

// DecrementStock subtracts qty only when enough stock remains. The guard in
// the WHERE clause makes concurrent reservations safe: the loser sees zero
// rows affected.
func (r *repository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.CatalogItem{}).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) IncrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).
		Model(&models.CatalogItem{}).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty)).Error
}

// SetStock overwrites the stock column with an absolute count.
func (r *repository) SetStock(ctx context.Context, id uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).
		Model(&models.CatalogItem{}).
		Where("id = ?", id).
		UpdateColumn("stock", qty).Error
}
