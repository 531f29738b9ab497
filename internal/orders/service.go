package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sakani-app/sakani-backend/internal/catalog"
	"github.com/sakani-app/sakani-backend/internal/sequence"
	"github.com/sakani-app/sakani-backend/pkg/db/models"
	"github.com/sakani-app/sakani-backend/pkg/enums"
	pkgerrors "github.com/sakani-app/sakani-backend/pkg/errors"
	"github.com/sakani-app/sakani-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Notifier receives order lifecycle events after they commit. Delivery is
// best effort and never fails the operation.
type Notifier interface {
	OrderStatusChanged(ctx context.Context, order *models.Order)
}

// Actor identifies who is performing an order operation.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// CreateInput carries everything needed to place an order.
type CreateInput struct {
	Actor      Actor
	RoomNumber string
	Request    CreateOrderRequest
}

// TransitionInput carries a status move request.
type TransitionInput struct {
	Actor   Actor
	OrderID uuid.UUID
	Target  enums.OrderStatus
}

// Service defines order operations beyond repository reads.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*OrderSummary, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*OrderSummary, error)
	List(ctx context.Context, actor Actor, filters ListFilters) ([]OrderSummary, error)
	Transition(ctx context.Context, input TransitionInput) (*OrderSummary, error)
	MarkPaid(ctx context.Context, actor Actor, id uuid.UUID) (*OrderSummary, error)
}

type service struct {
	repo     Repository
	catalog  catalog.Repository
	tx       txRunner
	metrics  *metrics.PlatformMetrics
	notifier Notifier
	now      func() time.Time
}

// ServiceParams bundles the dependencies required to build an order service.
type ServiceParams struct {
	Repo     Repository
	Catalog  catalog.Repository
	Tx       txRunner
	Metrics  *metrics.PlatformMetrics
	Notifier Notifier
	Now      func() time.Time
}

// NewService builds an order service with the required dependencies.
// Metrics and Notifier are optional.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		repo:     params.Repo,
		catalog:  params.Catalog,
		tx:       params.Tx,
		metrics:  params.Metrics,
		notifier: params.Notifier,
		now:      params.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*OrderSummary, error) {
	if input.Actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.RoomNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "room number required")
	}
	if len(input.Request.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one line")
	}
	if !input.Request.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	seen := map[uuid.UUID]bool{}
	for _, line := range input.Request.Lines {
		if line.ItemID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line item id required")
		}
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive")
		}
		if seen[line.ItemID] {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate item in order").
				WithDetails(map[string]any{"item_id": line.ItemID})
		}
		seen[line.ItemID] = true
	}

	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		items := s.catalog.WithTx(tx)

		// validate every line up front; stock is only reserved once an admin
		// accepts the order for processing
		lines := make([]models.OrderLine, 0, len(input.Request.Lines))
		total := decimal.Zero
		for _, line := range input.Request.Lines {
			item, err := items.FindByID(ctx, line.ItemID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "catalog item not found").
						WithDetails(map[string]any{"item_id": line.ItemID})
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog item")
			}
			if !item.IsAvailable {
				return pkgerrors.New(pkgerrors.CodeItemUnavailable, "item is not available").
					WithDetails(map[string]any{"item_id": item.ID, "item_name": item.Name})
			}
			if item.Stock < line.Quantity {
				s.metrics.IncStockConflict()
				return pkgerrors.New(pkgerrors.CodeInsufficientStock, "requested quantity exceeds stock").
					WithDetails(map[string]any{
						"item_id":   item.ID,
						"item_name": item.Name,
						"requested": line.Quantity,
						"available": item.Stock,
					})
			}

			lines = append(lines, models.OrderLine{
				ItemID:    item.ID,
				ItemName:  item.Name,
				Quantity:  line.Quantity,
				UnitPrice: item.Price,
			})
			total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		number, err := sequence.NextOrderNumber(ctx, tx, s.now())
		if err != nil {
			return err
		}

		order := &models.Order{
			UserID:        input.Actor.UserID,
			RoomNumber:    input.RoomNumber,
			OrderNumber:   number,
			TotalAmount:   total,
			Status:        enums.OrderStatusPending,
			PaymentStatus: enums.OrderPaymentStatusPending,
			PaymentMethod: input.Request.PaymentMethod,
			Notes:         input.Request.Notes,
			Lines:         lines,
		}
		created, err = repo.Create(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncOrderCreated(string(created.PaymentMethod))
	if s.notifier != nil {
		s.notifier.OrderStatusChanged(ctx, created)
	}
	summary := FromModel(created)
	return &summary, nil
}

func (s *service) Get(ctx context.Context, actor Actor, id uuid.UUID) (*OrderSummary, error) {
	order, err := s.findOrder(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwnership(actor, order); err != nil {
		return nil, err
	}
	summary := FromModel(order)
	return &summary, nil
}

func (s *service) List(ctx context.Context, actor Actor, filters ListFilters) ([]OrderSummary, error) {
	// residents only ever see their own orders
	if actor.Role != enums.UserRoleAdmin {
		filters.UserID = &actor.UserID
	}
	orders, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	summaries := make([]OrderSummary, 0, len(orders))
	for i := range orders {
		summaries = append(summaries, FromModel(&orders[i]))
	}
	return summaries, nil
}

func (s *service) Transition(ctx context.Context, input TransitionInput) (*OrderSummary, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.Actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.Actor.Role != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.findOrder(ctx, repo, input.OrderID)
		if err != nil {
			return err
		}

		if err := CheckTransition(order.Status, input.Target); err != nil {
			return err
		}

		extra := map[string]any{}
		if input.Target == enums.OrderStatusDelivered {
			extra["delivered_at"] = s.now().UTC()
		}

		ok, err := repo.UpdateStatusGuarded(ctx, order.ID, order.Status, input.Target, extra)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order state changed concurrently")
		}

		if reservesStock(order.Status, input.Target) {
			// guarded decrement inside the same tx; a shortfall rolls the
			// status move back and the order stays pending
			items := s.catalog.WithTx(tx)
			for _, line := range order.Lines {
				ok, err := items.DecrementStock(ctx, line.ItemID, line.Quantity)
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve stock")
				}
				if !ok {
					s.metrics.IncStockConflict()
					return pkgerrors.New(pkgerrors.CodeInsufficientStock, "stock no longer covers the order").
						WithDetails(map[string]any{"item_id": line.ItemID, "item_name": line.ItemName})
				}
			}
		}

		if releasesStock(order.Status, input.Target) {
			items := s.catalog.WithTx(tx)
			for _, line := range order.Lines {
				if err := items.IncrementStock(ctx, line.ItemID, line.Quantity); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release stock")
				}
			}
		}

		s.metrics.IncOrderTransition(string(order.Status), string(input.Target))

		updated, err = repo.FindByID(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.OrderStatusChanged(ctx, updated)
	}
	summary := FromModel(updated)
	return &summary, nil
}

func (s *service) MarkPaid(ctx context.Context, actor Actor, id uuid.UUID) (*OrderSummary, error) {
	if actor.Role != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.findOrder(ctx, repo, id)
		if err != nil {
			return err
		}
		if order.Status == enums.OrderStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cancelled orders cannot be paid")
		}

		ok, err := repo.MarkPaidGuarded(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order paid")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is already paid")
		}

		updated, err = repo.FindByID(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	summary := FromModel(updated)
	return &summary, nil
}

func (s *service) findOrder(ctx context.Context, repo Repository, id uuid.UUID) (*models.Order, error) {
	order, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func checkOwnership(actor Actor, order *models.Order) error {
	if actor.Role == enums.UserRoleAdmin {
		return nil
	}
	if order.UserID != actor.UserID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to user")
	}
	return nil
}
