package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/sakani-app/sakani-backend/pkg/db/models"
	"github.com/sakani-app/sakani-backend/pkg/enums"
)

// UserSummary is the public shape returned by user endpoints.
type UserSummary struct {
	ID            uuid.UUID      `json:"id"`
	Username      string         `json:"username"`
	Name          string         `json:"name"`
	Role          enums.UserRole `json:"role"`
	Email         *string        `json:"email,omitempty"`
	RoomNumber    *string        `json:"room_number,omitempty"`
	ContactNumber *string        `json:"contact_number,omitempty"`
	StayDays      *int           `json:"stay_days,omitempty"`
	StartDate     *time.Time     `json:"start_date,omitempty"`
	IsActive      bool           `json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
}

// FromModel maps a persisted user into its public summary.
func FromModel(user *models.User) UserSummary {
	if user == nil {
		return UserSummary{}
	}
	return UserSummary{
		ID:            user.ID,
		Username:      user.Username,
		Name:          user.Name,
		Role:          user.Role,
		Email:         user.Email,
		RoomNumber:    user.RoomNumber,
		ContactNumber: user.ContactNumber,
		StayDays:      user.StayDays,
		StartDate:     user.StartDate,
		IsActive:      user.IsActive,
		CreatedAt:     user.CreatedAt,
	}
}

// ListFilters describe the inputs supported by the admin user list.
type ListFilters struct {
	Role       *enums.UserRole
	RoomNumber string
	Query      string
	ActiveOnly bool
}
