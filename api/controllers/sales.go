package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tiendalopez/pos-backend/api/responses"
	"github.com/tiendalopez/pos-backend/api/validators"
	"github.com/tiendalopez/pos-backend/internal/audit"
	"github.com/tiendalopez/pos-backend/internal/sales"
	"github.com/tiendalopez/pos-backend/internal/users"
	"github.com/tiendalopez/pos-backend/pkg/config"
	"github.com/tiendalopez/pos-backend/pkg/db/models"
	"github.com/tiendalopez/pos-backend/pkg/enums"
	pkgerrors "github.com/tiendalopez/pos-backend/pkg/errors"
	"github.com/tiendalopez/pos-backend/pkg/logger"
)

type saleReasonRequest struct {
	Reason string `json:"reason" validate:"required,min=3"`
}

// SalesList serves sales history with optional branch, method, status and day
// filters.
func SalesList(svc *sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := sales.ListFilter{}

		branchID, err := validators.ParseQueryUUID(r, "branch_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter.BranchID = branchID

		if raw := r.URL.Query().Get("method"); raw != "" {
			method, err := enums.ParsePaymentMethod(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown payment method"))
				return
			}
			filter.Method = &method
		}
		if raw := r.URL.Query().Get("status"); raw != "" {
			status, err := enums.ParseSaleStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown sale status"))
				return
			}
			filter.Status = &status
		}
		if raw := r.URL.Query().Get("date"); raw != "" {
			day, err := validators.ParseQueryDate(r, "date")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			filter.Day = &day
		}

		limit, err := validators.ParseQueryInt(r, "limit", 100, 1, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter.Limit = limit

		items, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"sales": items,
			"count": len(items),
		})
	}
}

// SaleGet serves one recorded sale.
func SaleGet(svc *sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(chi.URLParam(r, "saleID"), "saleID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sale, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sale)
	}
}

// SaleReceipt renders the plain-text ticket for reprinting.
func SaleReceipt(svc *sales.Service, business config.BusinessConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(chi.URLParam(r, "saleID"), "saleID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sale, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{
			"ticket_number": sale.TicketNumber,
			"receipt":       sales.RenderReceipt(sale, business.Name),
		})
	}
}

// SaleCancel voids a completed sale.
func SaleCancel(svc *sales.Service, userRepo *users.Repository, logg *logger.Logger) http.HandlerFunc {
	return saleTransition(svc, userRepo, logg, (*sales.Service).Cancel)
}

// SaleRefund marks a completed sale refunded.
func SaleRefund(svc *sales.Service, userRepo *users.Repository, logg *logger.Logger) http.HandlerFunc {
	return saleTransition(svc, userRepo, logg, (*sales.Service).Refund)
}

func saleTransition(
	svc *sales.Service,
	userRepo *users.Repository,
	logg *logger.Logger,
	apply func(*sales.Service, context.Context, uuid.UUID, string, audit.Actor, enums.Role) (*models.Sale, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(chi.URLParam(r, "saleID"), "saleID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body saleReasonRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		op, err := operatorFromContext(r.Context(), userRepo)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sale, err := apply(svc, r.Context(), id, body.Reason, actorFor(op), op.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sale)
	}
}
