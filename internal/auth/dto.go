package auth

import (
	"time"

	"github.com/sakani-app/sakani-backend/internal/users"
	"github.com/sakani-app/sakani-backend/pkg/enums"
)

// LoginRequest carries the credentials posted to the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginResponse returns the signed token plus the authenticated user.
type LoginResponse struct {
	AccessToken string            `json:"access_token"`
	User        users.UserSummary `json:"user"`
}

// RegisterRequest captures the fields an admin submits to create an account.
type RegisterRequest struct {
	Username      string         `json:"username" validate:"required,min=3,max=64"`
	Password      string         `json:"password" validate:"omitempty,min=6"`
	Name          string         `json:"name" validate:"required,min=2,max=120"`
	Role          enums.UserRole `json:"role" validate:"required"`
	Email         *string        `json:"email" validate:"omitempty,email"`
	RoomNumber    *string        `json:"room_number"`
	ContactNumber *string        `json:"contact_number"`
	StayDays      *int           `json:"stay_days" validate:"omitempty,gt=0"`
	StartDate     *time.Time     `json:"start_date"`
}

// RegisterResponse returns the created user. TempPassword is only set when
// the admin did not provide a password.
type RegisterResponse struct {
	User         users.UserSummary `json:"user"`
	TempPassword *string           `json:"temp_password,omitempty"`
}

// PushTokenRequest updates the caller's device push token. A null token
// clears the registration.
type PushTokenRequest struct {
	PushToken *string `json:"push_token"`
}
