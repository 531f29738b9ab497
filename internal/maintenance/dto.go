package maintenance

import (
	"time"

	"github.com/google/uuid"

	"github.com/sakani-app/sakani-backend/pkg/db/models"
	"github.com/sakani-app/sakani-backend/pkg/enums"
)

// CreateTicketRequest captures a resident's repair request.
type CreateTicketRequest struct {
	Title       string               `json:"title" validate:"required,min=3,max=200"`
	Description string               `json:"description" validate:"required,min=3,max=2000"`
	Category    enums.TicketCategory `json:"category" validate:"required"`
	Priority    enums.TicketPriority `json:"priority"`
	Images      []string             `json:"images" validate:"omitempty,max=10,dive,url"`
}

// StatusRequest moves a ticket to a new status.
type StatusRequest struct {
	Status enums.TicketStatus `json:"status" validate:"required"`
}

// AssignRequest sets the admin responsible for a ticket.
type AssignRequest struct {
	AssigneeID uuid.UUID `json:"assignee_id" validate:"required"`
}

// NoteRequest appends a progress note to a ticket.
type NoteRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

// NoteSummary is the public shape of a ticket note.
type NoteSummary struct {
	ID        uuid.UUID `json:"id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// TicketSummary is the public shape returned by maintenance endpoints.
type TicketSummary struct {
	ID          uuid.UUID            `json:"id"`
	UserID      uuid.UUID            `json:"user_id"`
	RoomNumber  string               `json:"room_number"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Category    enums.TicketCategory `json:"category"`
	Priority    enums.TicketPriority `json:"priority"`
	Status      enums.TicketStatus   `json:"status"`
	AssigneeID  *uuid.UUID           `json:"assignee_id,omitempty"`
	Images      []string             `json:"images,omitempty"`
	CompletedAt *time.Time           `json:"completed_at,omitempty"`
	Notes       []NoteSummary        `json:"notes"`
	CreatedAt   time.Time            `json:"created_at"`
}

// FromModel maps a persisted ticket into its public summary.
func FromModel(ticket *models.MaintenanceTicket) TicketSummary {
	if ticket == nil {
		return TicketSummary{}
	}
	notes := make([]NoteSummary, 0, len(ticket.Notes))
	for _, note := range ticket.Notes {
		notes = append(notes, NoteSummary{
			ID:        note.ID,
			AuthorID:  note.AuthorID,
			Content:   note.Content,
			CreatedAt: note.CreatedAt,
		})
	}
	return TicketSummary{
		ID:          ticket.ID,
		UserID:      ticket.UserID,
		RoomNumber:  ticket.RoomNumber,
		Title:       ticket.Title,
		Description: ticket.Description,
		Category:    ticket.Category,
		Priority:    ticket.Priority,
		Status:      ticket.Status,
		AssigneeID:  ticket.AssigneeID,
		Images:      ticket.Images,
		CompletedAt: ticket.CompletedAt,
		Notes:       notes,
		CreatedAt:   ticket.CreatedAt,
	}
}

// ListFilters describe the inputs supported by ticket listings.
type ListFilters struct {
	UserID     *uuid.UUID
	Status     *enums.TicketStatus
	Priority   *enums.TicketPriority
	AssigneeID *uuid.UUID
}
