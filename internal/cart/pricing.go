package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tiendalopez/pos-backend/internal/catalog"
	"github.com/tiendalopez/pos-backend/pkg/money"
)

var hundred = decimal.NewFromInt(100)

// ItemSource resolves catalog items at pricing time. Prices are intentionally
// re-read on every computation so a catalog price edit is reflected in open
// carts; the recorded sale freezes prices at checkout.
type ItemSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (catalog.Item, bool)
}

// Totals carries the derived amounts for a cart at full precision.
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
}

// Rounded converts the totals to 2-decimal currency values for display and
// recording. The discount is rounded first so that total = subtotal - discount
// holds exactly on the rounded figures.
func (t Totals) Rounded() Totals {
	subtotal := money.Round2(t.Subtotal)
	discount := money.Round2(t.DiscountAmount)
	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		Total:          subtotal.Sub(discount),
	}
}

// LineTotal prices a single line against the live catalog item.
func LineTotal(line Line, item catalog.Item) decimal.Decimal {
	return item.Price().Mul(line.Quantity)
}

// ComputeTotals derives subtotal, discount amount and total from the lines in
// strict insertion order. Lines whose item has vanished from the catalog
// contribute nothing. An empty cart yields all zeros; a discount on an empty
// cart is permitted but inert.
func ComputeTotals(ctx context.Context, lines []Line, source ItemSource, discountPercent decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		item, ok := source.GetByID(ctx, line.ItemID)
		if !ok {
			continue
		}
		subtotal = subtotal.Add(LineTotal(line, item))
	}

	discount := subtotal.Mul(discountPercent).Div(hundred)
	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		Total:          subtotal.Sub(discount),
	}
}
