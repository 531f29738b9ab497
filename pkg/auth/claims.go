package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sakani-app/sakani-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID     uuid.UUID
	Role       enums.UserRole
	RoomNumber *string
	JTI        string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID     uuid.UUID      `json:"user_id"`
	Role       enums.UserRole `json:"role"`
	RoomNumber *string        `json:"room_number,omitempty"`
	jwt.RegisteredClaims
}
