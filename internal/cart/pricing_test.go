package cart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/tiendalopez/pos-backend/internal/catalog"
)

func sourceFor(items ...catalog.Item) *catalog.Repository {
	return catalog.NewRepository(items)
}

func TestComputeTotalsEmptyCart(t *testing.T) {
	totals := ComputeTotals(context.Background(), nil, sourceFor(), dec("10"))
	if !totals.Subtotal.IsZero() || !totals.DiscountAmount.IsZero() || !totals.Total.IsZero() {
		t.Fatalf("empty cart must be all zeros, got %+v", totals)
	}
}

func TestComputeTotalsMixedCart(t *testing.T) {
	soda := discreteItem("Coca Cola 600ml", "18.00", 50)
	apple := weightedItem("Manzana Roja", "38.00", "100")
	source := sourceFor(soda, apple)

	led := NewLedger()
	led.AddDiscrete(soda)
	led.AddDiscrete(soda)
	led.AddWeighed(apple, dec("1.25"))

	totals := ComputeTotals(context.Background(), led.Lines(), source, decimal.Zero)

	// 2 x 18.00 + 1.25kg x 38.00 = 36.00 + 47.50
	if !totals.Subtotal.Equal(dec("83.50")) {
		t.Fatalf("expected subtotal 83.50, got %s", totals.Subtotal)
	}
	if !totals.Total.Equal(totals.Subtotal) {
		t.Fatalf("no discount means total equals subtotal")
	}
}

func TestComputeTotalsTenPercentDiscount(t *testing.T) {
	bread := discreteItem("Pan Bimbo Grande", "50.00", 20)
	source := sourceFor(bread)

	led := NewLedger()
	led.AddDiscrete(bread)
	led.AddDiscrete(bread)

	totals := ComputeTotals(context.Background(), led.Lines(), source, dec("10")).Rounded()
	if !totals.Subtotal.Equal(dec("100.00")) {
		t.Fatalf("expected subtotal 100.00, got %s", totals.Subtotal)
	}
	if !totals.DiscountAmount.Equal(dec("10.00")) {
		t.Fatalf("expected discount 10.00, got %s", totals.DiscountAmount)
	}
	if !totals.Total.Equal(dec("90.00")) {
		t.Fatalf("expected total 90.00, got %s", totals.Total)
	}
}

func TestRoundedArithmeticHolds(t *testing.T) {
	// 3 x 15.50 = 46.50, 15% off = 6.975 which rounds to 6.98.
	chips := discreteItem("Sabritas Original", "15.50", 30)
	source := sourceFor(chips)

	led := NewLedger()
	for i := 0; i < 3; i++ {
		led.AddDiscrete(chips)
	}

	totals := ComputeTotals(context.Background(), led.Lines(), source, dec("15")).Rounded()
	if !totals.DiscountAmount.Equal(dec("6.98")) {
		t.Fatalf("expected half-up discount 6.98, got %s", totals.DiscountAmount)
	}
	if !totals.Total.Equal(totals.Subtotal.Sub(totals.DiscountAmount)) {
		t.Fatalf("rounded totals must satisfy total = subtotal - discount")
	}
	if !totals.Total.Equal(dec("39.52")) {
		t.Fatalf("expected total 39.52, got %s", totals.Total)
	}
}

func TestComputeTotalsUsesLivePrices(t *testing.T) {
	soda := discreteItem("Coca Cola 600ml", "18.00", 50)
	led := NewLedger()
	led.AddDiscrete(soda)

	repriced := soda
	repriced.UnitPrice = dec("20.00")
	source := sourceFor(repriced)

	totals := ComputeTotals(context.Background(), led.Lines(), source, decimal.Zero)
	if !totals.Subtotal.Equal(dec("20.00")) {
		t.Fatalf("expected repriced subtotal 20.00, got %s", totals.Subtotal)
	}
}

func TestComputeTotalsSkipsVanishedItems(t *testing.T) {
	soda := discreteItem("Coca Cola 600ml", "18.00", 50)
	led := NewLedger()
	led.AddDiscrete(soda)

	totals := ComputeTotals(context.Background(), led.Lines(), sourceFor(), decimal.Zero)
	if !totals.Subtotal.IsZero() {
		t.Fatalf("vanished item must contribute nothing, got %s", totals.Subtotal)
	}
}
