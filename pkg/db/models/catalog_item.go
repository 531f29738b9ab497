package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sakani-app/sakani-backend/pkg/enums"
)

// CatalogItem is a grocery storefront item. Stock carries a DB-level
// non-negative guarantee: every mutation goes through a guarded update.
type CatalogItem struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	Name          string             `gorm:"column:name;not null;index"`
	NameAr        *string            `gorm:"column:name_ar"`
	Category      enums.ItemCategory `gorm:"column:category;type:text;not null;index"`
	Price         decimal.Decimal    `gorm:"column:price;type:numeric(12,2);not null"`
	Unit          enums.ItemUnit     `gorm:"column:unit;type:text;not null"`
	Stock         int                `gorm:"column:stock;not null;default:0"`
	Image         *string            `gorm:"column:image"`
	Description   *string            `gorm:"column:description"`
	DescriptionAr *string            `gorm:"column:description_ar"`
	IsAvailable   bool               `gorm:"column:is_available;not null"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
