package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tiendalopez/pos-backend/internal/catalog"
)

// Line is one entry in the ledger. Discrete items keep at most one line;
// weighted items append a line per weigh-in, since two weighings are separate
// physical measurements. Name and pricing mode are captured for display, but
// prices are always resolved live from the catalog at computation time.
type Line struct {
	LineID     uuid.UUID       `json:"line_id"`
	ItemID     uuid.UUID       `json:"item_id"`
	Name       string          `json:"name"`
	IsWeighted bool            `json:"is_weighted"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// Ledger holds the lines selected for purchase in one register session.
// Invalid mutations are silent no-ops reported through the returned flag; the
// ledger never errors on user input, only on caller contract violations.
// It is not safe for concurrent use; Service serializes access.
type Ledger struct {
	lines           []Line
	discountPercent decimal.Decimal
}

// NewLedger returns an empty ledger with no discount.
func NewLedger() *Ledger {
	return &Ledger{}
}

// AddDiscrete adds one unit of a discrete item. Returns false without
// mutating when the item is weighted (the caller must route to the weigh-in
// flow), inactive, out of stock, or already at the stock ceiling.
func (l *Ledger) AddDiscrete(item catalog.Item) bool {
	if item.IsWeighted {
		return false
	}
	if !item.IsActive || !item.InStock() {
		return false
	}

	for i := range l.lines {
		if l.lines[i].ItemID == item.ID {
			next := l.lines[i].Quantity.Add(decimal.NewFromInt(1))
			if next.GreaterThan(item.AvailableQty) {
				return false
			}
			l.lines[i].Quantity = next
			return true
		}
	}

	l.lines = append(l.lines, Line{
		LineID:   uuid.New(),
		ItemID:   item.ID,
		Name:     item.Name,
		Quantity: decimal.NewFromInt(1),
	})
	return true
}

// AddWeighed appends an independent line for one weigh-in. Calling it with a
// non-weighted item is a caller contract violation and returns ErrNotWeighted;
// a weight outside (0, available] is rejected as a no-op.
func (l *Ledger) AddWeighed(item catalog.Item, weight decimal.Decimal) (bool, error) {
	if !item.IsWeighted {
		return false, ErrNotWeighted
	}
	if !item.IsActive {
		return false, nil
	}
	if !weight.IsPositive() || weight.GreaterThan(item.AvailableQty) {
		return false, nil
	}

	l.lines = append(l.lines, Line{
		LineID:     uuid.New(),
		ItemID:     item.ID,
		Name:       item.Name,
		IsWeighted: true,
		Quantity:   weight,
	})
	return true, nil
}

// ChangeQuantity shifts a discrete line by delta. Reaching zero or below
// removes the line. Exceeding available stock is a hard ceiling: the line is
// left unchanged and false is returned so the caller can tell nothing moved.
func (l *Ledger) ChangeQuantity(item catalog.Item, delta int64) bool {
	if item.IsWeighted {
		return false
	}
	for i := range l.lines {
		if l.lines[i].ItemID != item.ID || l.lines[i].IsWeighted {
			continue
		}
		next := l.lines[i].Quantity.Add(decimal.NewFromInt(delta))
		if !next.IsPositive() {
			l.lines = append(l.lines[:i], l.lines[i+1:]...)
			return true
		}
		if next.GreaterThan(item.AvailableQty) {
			return false
		}
		l.lines[i].Quantity = next
		return true
	}
	return false
}

// RemoveLines drops every line for the item, weighed entries included.
func (l *Ledger) RemoveLines(itemID uuid.UUID) bool {
	kept := l.lines[:0]
	removed := false
	for _, line := range l.lines {
		if line.ItemID == itemID {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	l.lines = kept
	return removed
}

// Clear empties the ledger and resets the discount to zero.
func (l *Ledger) Clear() {
	l.lines = nil
	l.discountPercent = decimal.Zero
}

// SetDiscountPercent stores an authorized discount. Range and role checks
// happen in the service; the ledger just holds the value.
func (l *Ledger) SetDiscountPercent(percent decimal.Decimal) {
	l.discountPercent = percent
}

// DiscountPercent returns the active discount percentage.
func (l *Ledger) DiscountPercent() decimal.Decimal {
	return l.discountPercent
}

// Lines returns a copy of the lines in insertion order.
func (l *Ledger) Lines() []Line {
	out := make([]Line, len(l.lines))
	copy(out, l.lines)
	return out
}

// IsEmpty reports whether anything is in the cart.
func (l *Ledger) IsEmpty() bool {
	return len(l.lines) == 0
}
