package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/tiendalopez/pos-backend/api/middleware"
	"github.com/tiendalopez/pos-backend/api/responses"
	"github.com/tiendalopez/pos-backend/api/validators"
	"github.com/tiendalopez/pos-backend/internal/checkout"
	"github.com/tiendalopez/pos-backend/internal/users"
	"github.com/tiendalopez/pos-backend/pkg/enums"
	pkgerrors "github.com/tiendalopez/pos-backend/pkg/errors"
	"github.com/tiendalopez/pos-backend/pkg/logger"
)

type payRequest struct {
	Method         string           `json:"method" validate:"required,oneof=cash clip mercadopago"`
	TenderedAmount *decimal.Decimal `json:"tendered_amount,omitempty"`
}

// CheckoutPay runs one payment attempt for the session's cart. Retrying after
// a decline is the same endpoint again.
func CheckoutPay(svc *checkout.Service, userRepo *users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body payRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		method, err := enums.ParsePaymentMethod(body.Method)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown payment method"))
			return
		}

		op, err := operatorFromContext(r.Context(), userRepo)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Pay(r.Context(), op, checkout.PayInput{
			SessionID:      middleware.SessionIDFromContext(r.Context()),
			Method:         method,
			TenderedAmount: body.TenderedAmount,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// CheckoutStatus reports the payment state machine for the session.
func CheckoutStatus(svc *checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.Status(middleware.SessionIDFromContext(r.Context())))
	}
}

// CheckoutCancel abandons a failed attempt and returns to the cart.
func CheckoutCancel(svc *checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Cancel(middleware.SessionIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, svc.Status(middleware.SessionIDFromContext(r.Context())))
	}
}
