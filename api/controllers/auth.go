package controllers

import (
	"net/http"
	"strings"

	"github.com/sakani-app/sakani-backend/api/responses"
	"github.com/sakani-app/sakani-backend/api/validators"
	"github.com/sakani-app/sakani-backend/internal/auth"
	"github.com/sakani-app/sakani-backend/internal/users"
	"github.com/sakani-app/sakani-backend/pkg/enums"
	pkgerrors "github.com/sakani-app/sakani-backend/pkg/errors"
	"github.com/sakani-app/sakani-backend/pkg/logger"
)

func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.Login(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// AuthRegister creates an account. The route is admin-gated.
func AuthRegister(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.RegisterRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.Register(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, resp)
	}
}

func AuthMe(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Me(r.Context(), caller.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

func AuthUpdatePushToken(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req auth.PushTokenRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.UpdatePushToken(r.Context(), caller.UserID, req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

// AuthListUsers returns accounts matching the query filters. Admin-gated.
func AuthListUsers(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filters users.ListFilters
		if raw := strings.TrimSpace(r.URL.Query().Get("role")); raw != "" {
			role, err := enums.ParseUserRole(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role"))
				return
			}
			filters.Role = &role
		}
		filters.RoomNumber = strings.TrimSpace(r.URL.Query().Get("room"))
		filters.Query = strings.TrimSpace(r.URL.Query().Get("q"))
		active, err := validators.ParseQueryBool(r, "active_only")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.ActiveOnly = active

		list, err := svc.ListUsers(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AuthDeactivateUser disables an account so it can no longer log in. Admin-gated.
func AuthDeactivateUser(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Deactivate(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}
