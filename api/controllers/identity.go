package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/sakani-app/sakani-backend/api/middleware"
	"github.com/sakani-app/sakani-backend/pkg/enums"
	pkgerrors "github.com/sakani-app/sakani-backend/pkg/errors"
)

// identity reads the authenticated caller out of the request context.
type identity struct {
	UserID     uuid.UUID
	Role       enums.UserRole
	RoomNumber string
}

func callerIdentity(r *http.Request) (identity, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return identity{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user context")
	}
	role, err := enums.ParseUserRole(middleware.RoleFromContext(r.Context()))
	if err != nil {
		return identity{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid role context")
	}
	return identity{
		UserID:     userID,
		Role:       role,
		RoomNumber: middleware.RoomFromContext(r.Context()),
	}, nil
}
