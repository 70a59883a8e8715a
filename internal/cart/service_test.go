package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tiendalopez/pos-backend/internal/audit"
	"github.com/tiendalopez/pos-backend/internal/catalog"
	"github.com/tiendalopez/pos-backend/pkg/enums"
	pkgerrors "github.com/tiendalopez/pos-backend/pkg/errors"
)

type recordedAudit struct {
	action  enums.AuditAction
	actor   audit.Actor
	details string
}

type fakeAudit struct {
	entries []recordedAudit
}

func (f *fakeAudit) Record(_ context.Context, action enums.AuditAction, actor audit.Actor, _ string, _ *string, details string) {
	f.entries = append(f.entries, recordedAudit{action: action, actor: actor, details: details})
}

func newTestService(t *testing.T, items ...catalog.Item) *Service {
	t.Helper()
	svc, err := NewService(catalog.NewRepository(items), nil)
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}
	return svc
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	apiErr := pkgerrors.As(err)
	if apiErr == nil {
		t.Fatalf("expected coded error, got %v", err)
	}
	if apiErr.Code() != code {
		t.Fatalf("expected code %s, got %s", code, apiErr.Code())
	}
}

func TestServiceSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	soda := discreteItem("Coca Cola 600ml", "18.00", 50)
	svc := newTestService(t, soda)

	if _, err := svc.AddItem(ctx, "reg-1", soda.ID); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if got := svc.Get(ctx, "reg-2"); len(got.Lines) != 0 {
		t.Fatalf("second session must start empty, got %d lines", len(got.Lines))
	}
	if got := svc.Get(ctx, "reg-1"); len(got.Lines) != 1 {
		t.Fatalf("first session lost its line")
	}
}

func TestServiceAddItemRejectsWeighted(t *testing.T) {
	ctx := context.Background()
	apple := weightedItem("Manzana Roja", "38.00", "100")
	svc := newTestService(t, apple)

	_, err := svc.AddItem(ctx, "reg-1", apple.ID)
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestServiceAddItemUnknownProduct(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.AddItem(context.Background(), "reg-1", uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestServiceAddReportsSilentNoOp(t *testing.T) {
	ctx := context.Background()
	empty := discreteItem("Producto sin stock", "10.00", 0)
	svc := newTestService(t, empty)

	res, err := svc.AddItem(ctx, "reg-1", empty.ID)
	if err != nil {
		t.Fatalf("out-of-stock add must not error: %v", err)
	}
	if res.Applied {
		t.Fatalf("out-of-stock add must report not applied")
	}
	if len(res.Cart.Lines) != 0 {
		t.Fatalf("cart must be unchanged")
	}
}

func TestServiceAddByBarcode(t *testing.T) {
	ctx := context.Background()
	soda := catalog.Item{
		ID:           uuid.New(),
		Name:         "Pepsi 600ml",
		Barcode:      "7501055300130",
		UnitPrice:    dec("17.00"),
		AvailableQty: decimal.NewFromInt(10),
		IsActive:     true,
	}
	svc := newTestService(t, soda)

	res, err := svc.AddByBarcode(ctx, "reg-1", "7501055300130")
	if err != nil || !res.Applied {
		t.Fatalf("barcode add failed: applied=%v err=%v", res.Applied, err)
	}

	_, err = svc.AddByBarcode(ctx, "reg-1", "0000000000009")
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestServiceAddWeighedAndSnapshotPricing(t *testing.T) {
	ctx := context.Background()
	apple := weightedItem("Manzana Roja", "38.00", "100")
	svc := newTestService(t, apple)

	res, err := svc.AddWeighed(ctx, "reg-1", apple.ID, dec("1.25"))
	if err != nil || !res.Applied {
		t.Fatalf("weigh-in failed: applied=%v err=%v", res.Applied, err)
	}

	line := res.Cart.Lines[0]
	if !line.UnitPrice.Equal(dec("38.00")) {
		t.Fatalf("expected per-kg price 38.00, got %s", line.UnitPrice)
	}
	if !line.LineTotal.Equal(dec("47.50")) {
		t.Fatalf("expected line total 47.50, got %s", line.LineTotal)
	}
	if !res.Cart.Totals.Total.Equal(dec("47.50")) {
		t.Fatalf("expected total 47.50, got %s", res.Cart.Totals.Total)
	}
}

func TestServiceAddWeighedValidation(t *testing.T) {
	ctx := context.Background()
	soda := discreteItem("Coca Cola 600ml", "18.00", 50)
	apple := weightedItem("Manzana Roja", "38.00", "100")
	svc := newTestService(t, soda, apple)

	_, err := svc.AddWeighed(ctx, "reg-1", soda.ID, dec("0.5"))
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.AddWeighed(ctx, "reg-1", apple.ID, dec("-1"))
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestServiceChangeQuantityToZeroRemoves(t *testing.T) {
	ctx := context.Background()
	soda := discreteItem("Coca Cola 600ml", "18.00", 50)
	svc := newTestService(t, soda)

	svc.AddItem(ctx, "reg-1", soda.ID)
	res, err := svc.ChangeQuantity(ctx, "reg-1", soda.ID, -1)
	if err != nil || !res.Applied {
		t.Fatalf("decrement failed: applied=%v err=%v", res.Applied, err)
	}
	if len(res.Cart.Lines) != 0 {
		t.Fatalf("line at zero must be gone")
	}
}

func TestServiceClearResetsDiscount(t *testing.T) {
	ctx := context.Background()
	soda := discreteItem("Coca Cola 600ml", "18.00", 50)
	svc := newTestService(t, soda)

	svc.AddItem(ctx, "reg-1", soda.ID)
	if _, err := svc.ApplyDiscount(ctx, "reg-1", dec("10"), audit.Actor{}, enums.RoleAdmin); err != nil {
		t.Fatalf("discount failed: %v", err)
	}

	snap := svc.Clear(ctx, "reg-1")
	if len(snap.Lines) != 0 {
		t.Fatalf("clear must empty the cart")
	}
	if !snap.DiscountPercent.IsZero() {
		t.Fatalf("clear must reset the discount")
	}
}

func TestApplyDiscountRoleGate(t *testing.T) {
	ctx := context.Background()
	soda := discreteItem("Coca Cola 600ml", "18.00", 50)
	svc := newTestService(t, soda)
	svc.AddItem(ctx, "reg-1", soda.ID)

	_, err := svc.ApplyDiscount(ctx, "reg-1", dec("10"), audit.Actor{}, enums.RoleCashier)
	assertCode(t, err, pkgerrors.CodeForbidden)

	for _, role := range []enums.Role{enums.RoleOwner, enums.RoleAdmin} {
		snap, err := svc.ApplyDiscount(ctx, "reg-1", dec("10"), audit.Actor{}, role)
		if err != nil {
			t.Fatalf("role %s must be able to discount: %v", role, err)
		}
		if !snap.DiscountPercent.Equal(dec("10")) {
			t.Fatalf("discount not applied for %s", role)
		}
	}
}

func TestApplyDiscountRange(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	for _, percent := range []string{"0", "-5", "100.01"} {
		_, err := svc.ApplyDiscount(ctx, "reg-1", dec(percent), audit.Actor{}, enums.RoleOwner)
		assertCode(t, err, pkgerrors.CodeValidation)
	}

	if _, err := svc.ApplyDiscount(ctx, "reg-1", dec("100"), audit.Actor{}, enums.RoleOwner); err != nil {
		t.Fatalf("100 percent is in range: %v", err)
	}
}

func TestApplyDiscountWritesAuditEntry(t *testing.T) {
	ctx := context.Background()
	soda := discreteItem("Coca Cola 600ml", "18.00", 50)
	audits := &fakeAudit{}
	svc, err := NewService(catalog.NewRepository([]catalog.Item{soda}), audits)
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}
	svc.AddItem(ctx, "reg-1", soda.ID)

	actor := audit.Actor{ID: uuid.New(), Name: "María García"}
	if _, err := svc.ApplyDiscount(ctx, "reg-1", dec("10"), actor, enums.RoleAdmin); err != nil {
		t.Fatalf("discount failed: %v", err)
	}

	if len(audits.entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(audits.entries))
	}
	entry := audits.entries[0]
	if entry.action != enums.AuditActionDiscountApplied {
		t.Fatalf("expected discount action, got %s", entry.action)
	}
	if entry.actor.Name != "María García" {
		t.Fatalf("expected the authorizing operator, got %q", entry.actor.Name)
	}
	if entry.details != "10% discount applied" {
		t.Fatalf("unexpected details %q", entry.details)
	}

	// A rejected discount must not leave a trail.
	if _, err := svc.ApplyDiscount(ctx, "reg-1", dec("10"), actor, enums.RoleCashier); err == nil {
		t.Fatalf("cashier discount must fail")
	}
	if len(audits.entries) != 1 {
		t.Fatalf("rejected discount must not be audited")
	}
}

func TestServiceTotalsFullPrecision(t *testing.T) {
	ctx := context.Background()
	chips := discreteItem("Sabritas Original", "15.50", 30)
	svc := newTestService(t, chips)

	for i := 0; i < 3; i++ {
		svc.AddItem(ctx, "reg-1", chips.ID)
	}
	if _, err := svc.ApplyDiscount(ctx, "reg-1", dec("15"), audit.Actor{}, enums.RoleOwner); err != nil {
		t.Fatalf("discount failed: %v", err)
	}

	totals := svc.Totals(ctx, "reg-1")
	if !totals.DiscountAmount.Equal(dec("6.975")) {
		t.Fatalf("internal totals must keep full precision, got %s", totals.DiscountAmount)
	}
}
