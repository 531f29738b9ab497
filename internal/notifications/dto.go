package notifications

import (
	"time"

	"github.com/google/uuid"

	"github.com/sakani-app/sakani-backend/pkg/db/models"
	"github.com/sakani-app/sakani-backend/pkg/enums"
)

// NotificationSummary is the public shape returned by notification endpoints.
type NotificationSummary struct {
	ID          uuid.UUID              `json:"id"`
	Type        enums.NotificationType `json:"type"`
	Title       string                 `json:"title"`
	TitleAr     *string                `json:"title_ar,omitempty"`
	Body        string                 `json:"body"`
	BodyAr      *string                `json:"body_ar,omitempty"`
	ReferenceID *uuid.UUID             `json:"reference_id,omitempty"`
	IsRead      bool                   `json:"is_read"`
	CreatedAt   time.Time              `json:"created_at"`
}

// FromModel converts a persisted notification into its public shape.
func FromModel(notification *models.Notification) NotificationSummary {
	return NotificationSummary{
		ID:          notification.ID,
		Type:        notification.Type,
		Title:       notification.Title,
		TitleAr:     notification.TitleAr,
		Body:        notification.Body,
		BodyAr:      notification.BodyAr,
		ReferenceID: notification.ReferenceID,
		IsRead:      notification.IsRead,
		CreatedAt:   notification.CreatedAt,
	}
}

// ListFilters narrows a notification listing.
type ListFilters struct {
	UserID     uuid.UUID
	Type       *enums.NotificationType
	UnreadOnly bool
	Limit      int
	Cursor     string
}

// InboxPage is one page of a user's notifications. NextCursor is empty on
// the last page.
type InboxPage struct {
	Items      []NotificationSummary `json:"items"`
	NextCursor string                `json:"next_cursor,omitempty"`
}
