package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/sakani-app/sakani-backend/pkg/enums"
)

// DocumentFile records a rendered PDF for an order or invoice.
type DocumentFile struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	Kind        enums.DocumentKind `gorm:"column:kind;type:text;not null;index"`
	ReferenceID uuid.UUID          `gorm:"column:reference_id;type:uuid;not null;index"`
	Path        string             `gorm:"column:path;not null"`
	SizeBytes   int64              `gorm:"column:size_bytes;not null"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
}
