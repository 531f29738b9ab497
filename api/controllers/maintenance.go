package controllers

import (
	"net/http"
	"strings"

	"github.com/sakani-app/sakani-backend/api/responses"
	"github.com/sakani-app/sakani-backend/api/validators"
	"github.com/sakani-app/sakani-backend/internal/maintenance"
	"github.com/sakani-app/sakani-backend/pkg/enums"
	pkgerrors "github.com/sakani-app/sakani-backend/pkg/errors"
	"github.com/sakani-app/sakani-backend/pkg/logger"
)

func maintenanceActor(caller identity) maintenance.Actor {
	return maintenance.Actor{
		UserID:     caller.UserID,
		Role:       caller.Role,
		RoomNumber: caller.RoomNumber,
	}
}

func TicketCreate(svc maintenance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req maintenance.CreateTicketRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ticket, err := svc.Create(r.Context(), maintenanceActor(caller), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, ticket)
	}
}

func TicketGet(svc maintenance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.PathUUID(r, "ticketId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ticket, err := svc.Get(r.Context(), maintenanceActor(caller), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ticket)
	}
}

func TicketList(svc maintenance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filters maintenance.ListFilters
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseTicketStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			filters.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("priority")); raw != "" {
			priority, err := enums.ParseTicketPriority(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid priority"))
				return
			}
			filters.Priority = &priority
		}

		result, err := svc.List(r.Context(), maintenanceActor(caller), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func TicketUpdateStatus(svc maintenance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.PathUUID(r, "ticketId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req maintenance.StatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ticket, err := svc.UpdateStatus(r.Context(), maintenanceActor(caller), id, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ticket)
	}
}

func TicketAssign(svc maintenance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.PathUUID(r, "ticketId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req maintenance.AssignRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ticket, err := svc.Assign(r.Context(), maintenanceActor(caller), id, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ticket)
	}
}

func TicketAddNote(svc maintenance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.PathUUID(r, "ticketId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req maintenance.NoteRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ticket, err := svc.AddNote(r.Context(), maintenanceActor(caller), id, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ticket)
	}
}
