package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sakani-app/sakani-backend/pkg/db/models"
	pkgerrors "github.com/sakani-app/sakani-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines catalog operations beyond repository reads.
type Service interface {
	Create(ctx context.Context, req CreateItemRequest) (*ItemSummary, error)
	Get(ctx context.Context, id uuid.UUID) (*ItemSummary, error)
	List(ctx context.Context, filters ListFilters) ([]ItemSummary, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*ItemSummary, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AdjustStock(ctx context.Context, id uuid.UUID, req AdjustStockRequest) (*ItemSummary, error)
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds a catalog service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, req CreateItemRequest) (*ItemSummary, error) {
	if !req.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}
	if !req.Unit.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid unit")
	}
	if req.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if req.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}

	item := &models.CatalogItem{
		Name:          strings.TrimSpace(req.Name),
		NameAr:        req.NameAr,
		Category:      req.Category,
		Price:         req.Price,
		Unit:          req.Unit,
		Stock:         req.Stock,
		Image:         req.Image,
		Description:   req.Description,
		DescriptionAr: req.DescriptionAr,
		IsAvailable:   true,
	}
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create catalog item")
	}
	summary := FromModel(created)
	return &summary, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ItemSummary, error) {
	item, err := s.findItem(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	summary := FromModel(item)
	return &summary, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) ([]ItemSummary, error) {
	if filters.Category != nil && !filters.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
	}
	items, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list catalog items")
	}
	summaries := make([]ItemSummary, 0, len(items))
	for i := range items {
		summaries = append(summaries, FromModel(&items[i]))
	}
	return summaries, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateItemRequest) (*ItemSummary, error) {
	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.NameAr != nil {
		updates["name_ar"] = *req.NameAr
	}
	if req.Category != nil {
		if !req.Category.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category")
		}
		updates["category"] = *req.Category
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		updates["price"] = *req.Price
	}
	if req.Unit != nil {
		if !req.Unit.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid unit")
		}
		updates["unit"] = *req.Unit
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.DescriptionAr != nil {
		updates["description_ar"] = *req.DescriptionAr
	}
	if req.IsAvailable != nil {
		updates["is_available"] = *req.IsAvailable
	}

	var summary ItemSummary
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := s.findItem(ctx, repo, id); err != nil {
			return err
		}
		if err := repo.Update(ctx, id, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update catalog item")
		}
		item, err := repo.FindByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload catalog item")
		}
		summary = FromModel(item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findItem(ctx, s.repo, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete catalog item")
	}
	return nil
}

// AdjustStock applies a relative delta or an explicit overwrite. Negative
// deltas use the guarded decrement so the stock column can never go below
// zero.
func (s *service) AdjustStock(ctx context.Context, id uuid.UUID, req AdjustStockRequest) (*ItemSummary, error) {
	if req.Stock != nil && req.Delta != 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delta and stock are mutually exclusive")
	}
	if req.Stock == nil && req.Delta == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delta or stock required")
	}

	var summary ItemSummary
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := s.findItem(ctx, repo, id); err != nil {
			return err
		}

		if req.Stock != nil {
			if err := repo.SetStock(ctx, id, *req.Stock); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set stock")
			}
		} else if req.Delta > 0 {
			if err := repo.IncrementStock(ctx, id, req.Delta); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment stock")
			}
		} else {
			ok, err := repo.DecrementStock(ctx, id, -req.Delta)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeInsufficientStock, "stock cannot go negative")
			}
		}

		item, err := repo.FindByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload catalog item")
		}
		summary = FromModel(item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *service) findItem(ctx context.Context, repo Repository, id uuid.UUID) (*models.CatalogItem, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	item, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "catalog item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog item")
	}
	return item, nil
}
