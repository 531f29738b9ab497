package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sakani-app/sakani-backend/pkg/db/models"
	"github.com/sakani-app/sakani-backend/pkg/enums"
)

// ItemSummary is the public shape returned by catalog endpoints.
type ItemSummary struct {
	ID            uuid.UUID          `json:"id"`
	Name          string             `json:"name"`
	NameAr        *string            `json:"name_ar,omitempty"`
	Category      enums.ItemCategory `json:"category"`
	Price         decimal.Decimal    `json:"price"`
	Unit          enums.ItemUnit     `json:"unit"`
	Stock         int                `json:"stock"`
	Image         *string            `json:"image,omitempty"`
	Description   *string            `json:"description,omitempty"`
	DescriptionAr *string            `json:"description_ar,omitempty"`
	IsAvailable   bool               `json:"is_available"`
	CreatedAt     time.Time          `json:"created_at"`
}

// FromModel maps a persisted item into its public summary.
func FromModel(item *models.CatalogItem) ItemSummary {
	if item == nil {
		return ItemSummary{}
	}
	return ItemSummary{
		ID:            item.ID,
		Name:          item.Name,
		NameAr:        item.NameAr,
		Category:      item.Category,
		Price:         item.Price,
		Unit:          item.Unit,
		Stock:         item.Stock,
		Image:         item.Image,
		Description:   item.Description,
		DescriptionAr: item.DescriptionAr,
		IsAvailable:   item.IsAvailable,
		CreatedAt:     item.CreatedAt,
	}
}

// CreateItemRequest captures the fields an admin submits to add an item.
type CreateItemRequest struct {
	Name          string             `json:"name" validate:"required,min=2,max=200"`
	NameAr        *string            `json:"name_ar"`
	Category      enums.ItemCategory `json:"category" validate:"required"`
	Price         decimal.Decimal    `json:"price" validate:"required"`
	Unit          enums.ItemUnit     `json:"unit" validate:"required"`
	Stock         int                `json:"stock" validate:"gte=0"`
	Image         *string            `json:"image"`
	Description   *string            `json:"description"`
	DescriptionAr *string            `json:"description_ar"`
}

// UpdateItemRequest carries optional field updates for an item.
type UpdateItemRequest struct {
	Name          *string             `json:"name" validate:"omitempty,min=2,max=200"`
	NameAr        *string             `json:"name_ar"`
	Category      *enums.ItemCategory `json:"category"`
	Price         *decimal.Decimal    `json:"price"`
	Unit          *enums.ItemUnit     `json:"unit"`
	Image         *string             `json:"image"`
	Description   *string             `json:"description"`
	DescriptionAr *string             `json:"description_ar"`
	IsAvailable   *bool               `json:"is_available"`
}

// AdjustStockRequest changes an item's stock, either by a relative delta or
// to an explicit count. Exactly one of the two fields must be provided.
type AdjustStockRequest struct {
	Delta int  `json:"delta"`
	Stock *int `json:"stock" validate:"omitempty,gte=0"`
}

// ListFilters describe the inputs supported by the catalog list.
type ListFilters struct {
	Category      *enums.ItemCategory
	Query         string
	AvailableOnly bool
}
