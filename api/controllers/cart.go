package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/tiendalopez/pos-backend/api/middleware"
	"github.com/tiendalopez/pos-backend/api/responses"
	"github.com/tiendalopez/pos-backend/api/validators"
	"github.com/tiendalopez/pos-backend/internal/cart"
	"github.com/tiendalopez/pos-backend/internal/users"
	pkgerrors "github.com/tiendalopez/pos-backend/pkg/errors"
	"github.com/tiendalopez/pos-backend/pkg/logger"
)

type addItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
}

type addBarcodeRequest struct {
	Barcode string `json:"barcode" validate:"required"`
}

type addWeighedRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Weight    decimal.Decimal `json:"weight" validate:"required"`
}

// Delta carries no validation on purpose: zero is a harmless no-op at the
// ledger, not a client error.
type changeQuantityRequest struct {
	Delta int64 `json:"delta"`
}

type discountRequest struct {
	Percent decimal.Decimal `json:"percent" validate:"required"`
}

// CartGet returns the session's cart with live pricing.
func CartGet(svc *cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.Get(r.Context(), middleware.SessionIDFromContext(r.Context())))
	}
}

// CartAddItem adds one unit of a discrete product.
func CartAddItem(svc *cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body addItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.ParseURLUUID(body.ProductID, "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.AddItem(r.Context(), middleware.SessionIDFromContext(r.Context()), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CartAddByBarcode is the scan-to-cart flow.
func CartAddByBarcode(svc *cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body addBarcodeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.AddByBarcode(r.Context(), middleware.SessionIDFromContext(r.Context()), body.Barcode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CartAddWeighed records a weigh-in for a by-weight product.
func CartAddWeighed(svc *cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body addWeighedRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.ParseURLUUID(body.ProductID, "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.AddWeighed(r.Context(), middleware.SessionIDFromContext(r.Context()), productID, body.Weight)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CartChangeQuantity shifts a discrete line by a signed delta.
func CartChangeQuantity(svc *cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseURLUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body changeQuantityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ChangeQuantity(r.Context(), middleware.SessionIDFromContext(r.Context()), productID, body.Delta)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CartRemoveItem drops every line for the product.
func CartRemoveItem(svc *cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseURLUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Remove(r.Context(), middleware.SessionIDFromContext(r.Context()), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CartClear empties the cart.
func CartClear(svc *cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.Clear(r.Context(), middleware.SessionIDFromContext(r.Context())))
	}
}

// CartApplyDiscount sets the cart discount, gated on the operator role. The
// authorizing operator lands in the audit trail.
func CartApplyDiscount(svc *cart.Service, userRepo *users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body discountRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		op, err := operatorFromContext(r.Context(), userRepo)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !op.Role.IsValid() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing operator role"))
			return
		}

		snapshot, err := svc.ApplyDiscount(r.Context(), middleware.SessionIDFromContext(r.Context()), body.Percent, actorFor(op), op.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}
