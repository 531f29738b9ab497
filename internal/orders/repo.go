package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sakani-app/sakani-backend/pkg/db/models"
	"github.com/sakani-app/sakani-backend/pkg/enums"
)

// Repository defines persistence operations for orders and their lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, filters ListFilters) ([]models.Order, error)
	UpdateStatusGuarded(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus, extra map[string]any) (bool, error)
	MarkPaidGuarded(ctx context.Context, id uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	for i := range order.Lines {
		if order.Lines[i].ID == uuid.Nil {
			order.Lines[i].ID = uuid.New()
		}
		order.Lines[i].OrderID = order.ID
	}
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]models.Order, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{}).Preload("Lines")
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}

	var orders []models.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatusGuarded flips status only when the row still holds the expected
// from status. Concurrent writers racing on the same transition see zero rows
// affected and report a state conflict.
func (r *repository) UpdateStatusGuarded(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus, extra map[string]any) (bool, error) {
	updates := map[string]any{"status": to, "updated_at": time.Now().UTC()}
	for k, v := range extra {
		updates[k] = v
	}
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkPaidGuarded flips payment_status from pending to paid exactly once.
func (r *repository) MarkPaidGuarded(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND payment_status = ?", id, enums.OrderPaymentStatusPending).
		UpdateColumn("payment_status", enums.OrderPaymentStatusPaid)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
