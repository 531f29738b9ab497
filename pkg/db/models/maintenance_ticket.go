package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/sakani-app/sakani-backend/pkg/enums"
)

// MaintenanceTicket is a repair request raised by a resident for their room.
type MaintenanceTicket struct {
	ID          uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	UserID      uuid.UUID            `gorm:"column:user_id;type:uuid;not null;index"`
	RoomNumber  string               `gorm:"column:room_number;not null;index"`
	Title       string               `gorm:"column:title;not null"`
	Description string               `gorm:"column:description;not null"`
	Category    enums.TicketCategory `gorm:"column:category;type:text;not null"`
	Priority    enums.TicketPriority `gorm:"column:priority;type:text;not null;default:'medium'"`
	Status      enums.TicketStatus   `gorm:"column:status;type:text;not null;default:'pending';index"`
	AssigneeID  *uuid.UUID           `gorm:"column:assignee_id;type:uuid;index"`
	Images      []string             `gorm:"column:images;serializer:json"`
	CompletedAt *time.Time           `gorm:"column:completed_at"`
	Notes       []TicketNote         `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE"`
	User        *User                `gorm:"foreignKey:UserID"`
	Assignee    *User                `gorm:"foreignKey:AssigneeID"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt   time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// TicketNote is an append-only progress note on a ticket.
type TicketNote struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	TicketID  uuid.UUID `gorm:"column:ticket_id;type:uuid;not null;index"`
	AuthorID  uuid.UUID `gorm:"column:author_id;type:uuid;not null"`
	Content   string    `gorm:"column:content;not null"`
	Author    *User     `gorm:"foreignKey:AuthorID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
