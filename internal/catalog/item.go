package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a sellable catalog entry. Exactly one of UnitPrice/PricePerKg is
// authoritative, selected by IsWeighted. AvailableQty counts discrete units
// for regular items and kilograms for weighted ones.
type Item struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Barcode      string          `json:"barcode"`
	Category     string          `json:"category"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	PricePerKg   decimal.Decimal `json:"price_per_kg"`
	AvailableQty decimal.Decimal `json:"available_qty"`
	IsWeighted   bool            `json:"is_weighted"`
	IsActive     bool            `json:"is_active"`
}

// Price returns the authoritative price for the item's pricing mode.
func (i Item) Price() decimal.Decimal {
	if i.IsWeighted {
		return i.PricePerKg
	}
	return i.UnitPrice
}

// InStock reports whether anything is left to sell.
func (i Item) InStock() bool {
	return i.AvailableQty.IsPositive()
}
