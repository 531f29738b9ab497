package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/sakani-app/sakani-backend/pkg/enums"
)

// Notification is a persisted message for a user. Delivery over push or email
// is best effort; the record exists regardless of delivery outcome.
type Notification struct {
	ID            uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	UserID        uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index"`
	Type          enums.NotificationType `gorm:"column:type;type:text;not null;index"`
	Title         string                 `gorm:"column:title;not null"`
	TitleAr       *string                `gorm:"column:title_ar"`
	Body          string                 `gorm:"column:body;not null"`
	BodyAr        *string                `gorm:"column:body_ar"`
	ReferenceID   *uuid.UUID             `gorm:"column:reference_id;type:uuid"`
	IsRead        bool                   `gorm:"column:is_read;not null;default:false;index"`
	SentViaPush   bool                   `gorm:"column:sent_via_push;not null;default:false"`
	SentViaEmail  bool                   `gorm:"column:sent_via_email;not null;default:false"`
	DeliveryError *string                `gorm:"column:delivery_error"`
	CreatedAt     time.Time              `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt     time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
