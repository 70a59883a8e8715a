package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tiendalopez/pos-backend/internal/audit"
	"github.com/tiendalopez/pos-backend/internal/catalog"
	"github.com/tiendalopez/pos-backend/pkg/enums"
	pkgerrors "github.com/tiendalopez/pos-backend/pkg/errors"
)

type auditTrail interface {
	Record(ctx context.Context, action enums.AuditAction, actor audit.Actor, entityType string, entityID *string, details string)
}

// ErrNotWeighted flags a weigh-in request against a unit-priced item. This is
// a caller contract violation, not operator input, so it surfaces as an error
// rather than a silent no-op.
var ErrNotWeighted = fmt.Errorf("item is not sold by weight")

// Service owns one ledger per register session. Every session has exactly one
// writer (the interactive operator) but requests may interleave, so mutations
// are serialized here.
type Service struct {
	catalog ItemSource
	audits  auditTrail

	mu    sync.Mutex
	carts map[string]*Ledger
}

// NewService builds the session cart service over the catalog.
func NewService(catalog ItemSource, audits auditTrail) (*Service, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog source required")
	}
	return &Service{
		catalog: catalog,
		audits:  audits,
		carts:   make(map[string]*Ledger),
	}, nil
}

// SnapshotLine is a display-ready cart line with live pricing.
type SnapshotLine struct {
	LineID     uuid.UUID       `json:"line_id"`
	ItemID     uuid.UUID       `json:"item_id"`
	Name       string          `json:"name"`
	IsWeighted bool            `json:"is_weighted"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	LineTotal  decimal.Decimal `json:"line_total"`
}

// Snapshot is the cart as the register renders it.
type Snapshot struct {
	Lines           []SnapshotLine  `json:"lines"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Totals          Totals          `json:"totals"`
}

// MutationResult pairs the post-mutation snapshot with whether the mutation
// was applied. Applied=false means the request hit a silent-no-op rule
// (insufficient stock, unknown line) and the cart is unchanged.
type MutationResult struct {
	Applied bool     `json:"applied"`
	Cart    Snapshot `json:"cart"`
}

func (s *Service) ledger(sessionID string) *Ledger {
	if existing, ok := s.carts[sessionID]; ok {
		return existing
	}
	created := NewLedger()
	s.carts[sessionID] = created
	return created
}

func (s *Service) snapshotLocked(ctx context.Context, led *Ledger) Snapshot {
	lines := led.Lines()
	out := Snapshot{
		Lines:           make([]SnapshotLine, 0, len(lines)),
		DiscountPercent: led.DiscountPercent(),
	}
	for _, line := range lines {
		snap := SnapshotLine{
			LineID:     line.LineID,
			ItemID:     line.ItemID,
			Name:       line.Name,
			IsWeighted: line.IsWeighted,
			Quantity:   line.Quantity,
		}
		if item, ok := s.catalog.GetByID(ctx, line.ItemID); ok {
			snap.UnitPrice = item.Price()
			snap.LineTotal = LineTotal(line, item)
		}
		out.Lines = append(out.Lines, snap)
	}
	out.Totals = ComputeTotals(ctx, lines, s.catalog, led.DiscountPercent()).Rounded()
	return out
}

// Get returns the current cart for the session.
func (s *Service) Get(ctx context.Context, sessionID string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(ctx, s.ledger(sessionID))
}

// AddItem adds one unit of a discrete item. Weighted items are rejected with
// a validation error pointing the operator at the weigh-in flow.
func (s *Service) AddItem(ctx context.Context, sessionID string, productID uuid.UUID) (MutationResult, error) {
	item, ok := s.catalog.GetByID(ctx, productID)
	if !ok {
		return MutationResult{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if item.IsWeighted {
		return MutationResult{}, pkgerrors.New(pkgerrors.CodeValidation, "item is sold by weight, enter a weight instead")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	led := s.ledger(sessionID)
	applied := led.AddDiscrete(item)
	return MutationResult{Applied: applied, Cart: s.snapshotLocked(ctx, led)}, nil
}

// AddByBarcode is the scan flow: resolve then add. Weighted items cannot be
// scanned straight into the cart.
func (s *Service) AddByBarcode(ctx context.Context, sessionID, barcode string) (MutationResult, error) {
	item, ok := lookupBarcode(ctx, s.catalog, barcode)
	if !ok {
		return MutationResult{}, pkgerrors.New(pkgerrors.CodeNotFound, "no product with that barcode")
	}
	return s.AddItem(ctx, sessionID, item.ID)
}

// AddWeighed appends a weigh-in line for a weighted item.
func (s *Service) AddWeighed(ctx context.Context, sessionID string, productID uuid.UUID, weight decimal.Decimal) (MutationResult, error) {
	item, ok := s.catalog.GetByID(ctx, productID)
	if !ok {
		return MutationResult{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if !weight.IsPositive() {
		return MutationResult{}, pkgerrors.New(pkgerrors.CodeValidation, "weight must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	led := s.ledger(sessionID)
	applied, err := led.AddWeighed(item, weight)
	if err != nil {
		return MutationResult{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "item is not sold by weight")
	}
	return MutationResult{Applied: applied, Cart: s.snapshotLocked(ctx, led)}, nil
}

// ChangeQuantity shifts a discrete line by delta; see Ledger.ChangeQuantity.
func (s *Service) ChangeQuantity(ctx context.Context, sessionID string, productID uuid.UUID, delta int64) (MutationResult, error) {
	item, ok := s.catalog.GetByID(ctx, productID)
	if !ok {
		return MutationResult{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	led := s.ledger(sessionID)
	applied := led.ChangeQuantity(item, delta)
	return MutationResult{Applied: applied, Cart: s.snapshotLocked(ctx, led)}, nil
}

// Remove drops every line for the product.
func (s *Service) Remove(ctx context.Context, sessionID string, productID uuid.UUID) (MutationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	led := s.ledger(sessionID)
	applied := led.RemoveLines(productID)
	return MutationResult{Applied: applied, Cart: s.snapshotLocked(ctx, led)}, nil
}

// Clear empties the session's cart and resets the discount.
func (s *Service) Clear(ctx context.Context, sessionID string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	led := s.ledger(sessionID)
	led.Clear()
	return s.snapshotLocked(ctx, led)
}

// ApplyDiscount sets the cart discount. Only owners and admins may authorize
// one; this check runs here, server-side, on the authenticated role.
func (s *Service) ApplyDiscount(ctx context.Context, sessionID string, percent decimal.Decimal, actor audit.Actor, role enums.Role) (Snapshot, error) {
	if !CanAuthorizeDiscount(role) {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeForbidden, "role cannot authorize discounts")
	}
	if !percent.IsPositive() || percent.GreaterThan(hundred) {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "discount percent must be in (0, 100]")
	}

	s.mu.Lock()
	led := s.ledger(sessionID)
	led.SetDiscountPercent(percent)
	snap := s.snapshotLocked(ctx, led)
	s.mu.Unlock()

	if s.audits != nil {
		s.audits.Record(ctx, enums.AuditActionDiscountApplied, actor, "cart", nil,
			fmt.Sprintf("%s%% discount applied", percent))
	}
	return snap, nil
}

// Lines exposes the raw ledger lines for checkout freezing.
func (s *Service) Lines(sessionID string) []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger(sessionID).Lines()
}

// DiscountPercent returns the session's active discount.
func (s *Service) DiscountPercent(sessionID string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger(sessionID).DiscountPercent()
}

// Totals recomputes the session's totals at full precision.
func (s *Service) Totals(ctx context.Context, sessionID string) Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	led := s.ledger(sessionID)
	return ComputeTotals(ctx, led.Lines(), s.catalog, led.DiscountPercent())
}

// IsEmpty reports whether the session cart has no lines.
func (s *Service) IsEmpty(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger(sessionID).IsEmpty()
}

// CanAuthorizeDiscount is the discount authorization guard.
func CanAuthorizeDiscount(role enums.Role) bool {
	return role == enums.RoleOwner || role == enums.RoleAdmin
}

type barcodeSource interface {
	GetByBarcode(ctx context.Context, barcode string) (catalog.Item, bool)
}

// lookupBarcode tolerates sources without barcode support.
func lookupBarcode(ctx context.Context, source ItemSource, barcode string) (catalog.Item, bool) {
	if bs, ok := source.(barcodeSource); ok {
		return bs.GetByBarcode(ctx, barcode)
	}
	return catalog.Item{}, false
}
