package controllers

import (
	"net/http"

	"github.com/sakani-app/sakani-backend/api/responses"
	"github.com/sakani-app/sakani-backend/api/validators"
	"github.com/sakani-app/sakani-backend/internal/documents"
	"github.com/sakani-app/sakani-backend/pkg/logger"
)

// DocumentRenderOrder produces a PDF receipt for an order.
func DocumentRenderOrder(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.PathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		doc, err := svc.RenderOrder(r.Context(), documents.Actor{UserID: caller.UserID, Role: caller.Role}, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, doc)
	}
}
