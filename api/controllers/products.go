package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/tiendalopez/pos-backend/api/responses"
	"github.com/tiendalopez/pos-backend/api/validators"
	"github.com/tiendalopez/pos-backend/internal/catalog"
	pkgerrors "github.com/tiendalopez/pos-backend/pkg/errors"
	"github.com/tiendalopez/pos-backend/pkg/logger"
)

type productRequest struct {
	Name         string          `json:"name" validate:"required"`
	SKU          string          `json:"sku"`
	Barcode      string          `json:"barcode"`
	Category     string          `json:"category"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	PricePerKg   decimal.Decimal `json:"price_per_kg"`
	AvailableQty decimal.Decimal `json:"available_qty"`
	IsWeighted   bool            `json:"is_weighted"`
	IsActive     *bool           `json:"is_active"`
}

type productActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// toItem applies the cross-field pricing rules the validator tags cannot
// express: the authoritative price must be positive and stock non-negative.
func (b productRequest) toItem() (catalog.Item, error) {
	item := catalog.Item{
		Name:         strings.TrimSpace(b.Name),
		SKU:          strings.TrimSpace(b.SKU),
		Barcode:      strings.TrimSpace(b.Barcode),
		Category:     strings.TrimSpace(b.Category),
		UnitPrice:    b.UnitPrice,
		PricePerKg:   b.PricePerKg,
		AvailableQty: b.AvailableQty,
		IsWeighted:   b.IsWeighted,
		IsActive:     true,
	}
	if b.IsActive != nil {
		item.IsActive = *b.IsActive
	}
	if !item.Price().IsPositive() {
		field := "unit_price"
		if item.IsWeighted {
			field = "price_per_kg"
		}
		return catalog.Item{}, pkgerrors.New(pkgerrors.CodeValidation, "the item price must be positive").
			WithDetails(map[string]string{"field": field})
	}
	if item.AvailableQty.IsNegative() {
		return catalog.Item{}, pkgerrors.New(pkgerrors.CodeValidation, "available quantity cannot be negative")
	}
	return item, nil
}

// ProductsList serves the register's product grid with optional search and
// category filters.
func ProductsList(repo *catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items := repo.List(r.Context(), catalog.ListFilter{
			Query:    r.URL.Query().Get("q"),
			Category: r.URL.Query().Get("category"),
		})
		responses.WriteSuccess(w, map[string]any{
			"products": items,
			"count":    len(items),
		})
	}
}

// ProductCategories serves the category filter chips.
func ProductCategories(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{"categories": catalog.Categories()})
	}
}

// ProductCreate adds an item to the catalog.
func ProductCreate(repo *catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body productRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := body.toItem()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, repo.Create(r.Context(), item))
	}
}

// ProductUpdate replaces an item. The edit form submits the whole item, so
// this is a full replace rather than a patch.
func ProductUpdate(repo *catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body productRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := body.toItem()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item.ID = id

		updated, ok := repo.Update(r.Context(), item)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// ProductSetActive hides or restores an item without losing its data.
func ProductSetActive(repo *catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body productActiveRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, ok := repo.SetActive(r.Context(), id, *body.Active)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// ProductByBarcode resolves a scanned barcode.
func ProductByBarcode(repo *catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := strings.TrimSpace(chi.URLParam(r, "code"))
		if code == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "barcode is required"))
			return
		}
		item, ok := repo.GetByBarcode(r.Context(), code)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no product with that barcode"))
			return
		}
		responses.WriteSuccess(w, item)
	}
}
