package controllers

import (
	"net/http"
	"strings"

	"github.com/sakani-app/sakani-backend/api/responses"
	"github.com/sakani-app/sakani-backend/api/validators"
	"github.com/sakani-app/sakani-backend/internal/documents"
	"github.com/sakani-app/sakani-backend/internal/invoices"
	"github.com/sakani-app/sakani-backend/pkg/enums"
	pkgerrors "github.com/sakani-app/sakani-backend/pkg/errors"
	"github.com/sakani-app/sakani-backend/pkg/logger"
)

func InvoiceCreate(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req invoices.CreateInvoiceRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		invoice, err := svc.Create(r.Context(), invoices.Actor{UserID: caller.UserID, Role: caller.Role}, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, invoice)
	}
}

func InvoiceGet(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.PathUUID(r, "invoiceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		invoice, err := svc.Get(r.Context(), invoices.Actor{UserID: caller.UserID, Role: caller.Role}, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, invoice)
	}
}

func InvoiceList(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters, err := invoiceFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), invoices.Actor{UserID: caller.UserID, Role: caller.Role}, *filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// InvoiceListOverdue is a convenience listing preset to the overdue filter.
func InvoiceListOverdue(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		overdue := enums.InvoiceStatusOverdue
		result, err := svc.List(r.Context(),
			invoices.Actor{UserID: caller.UserID, Role: caller.Role},
			invoices.ListFilters{Status: &overdue},
		)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func InvoiceMarkPaid(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.PathUUID(r, "invoiceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req invoices.MarkPaidRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		invoice, err := svc.MarkPaid(r.Context(), invoices.Actor{UserID: caller.UserID, Role: caller.Role}, id, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, invoice)
	}
}

func InvoiceCancel(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.PathUUID(r, "invoiceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		invoice, err := svc.Cancel(r.Context(), invoices.Actor{UserID: caller.UserID, Role: caller.Role}, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, invoice)
	}
}

func InvoiceAddNote(svc invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.PathUUID(r, "invoiceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req invoices.NoteRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		invoice, err := svc.AddNote(r.Context(), invoices.Actor{UserID: caller.UserID, Role: caller.Role}, id, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, invoice)
	}
}

// InvoiceRenderPDF renders the invoice document and returns its URL.
func InvoiceRenderPDF(svc documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.PathUUID(r, "invoiceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		doc, err := svc.RenderInvoice(r.Context(), documents.Actor{UserID: caller.UserID, Role: caller.Role}, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, doc)
	}
}

func invoiceFilters(r *http.Request) (*invoices.ListFilters, error) {
	var filters invoices.ListFilters
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := enums.ParseInvoiceStatus(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		filters.Status = &status
	}
	from, err := validators.ParseQueryDate(r, "from")
	if err != nil {
		return nil, err
	}
	filters.DateFrom = from
	to, err := validators.ParseQueryDate(r, "to")
	if err != nil {
		return nil, err
	}
	filters.DateTo = to
	return &filters, nil
}
