package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestListFiltersInactiveItems(t *testing.T) {
	repo := NewRepository([]Item{
		{Name: "Active", Category: "Bebidas", UnitPrice: price("10.00"), AvailableQty: qty(5), IsActive: true},
		{Name: "Hidden", Category: "Bebidas", UnitPrice: price("10.00"), AvailableQty: qty(5), IsActive: false},
	})

	items := repo.List(context.Background(), ListFilter{})
	if len(items) != 1 {
		t.Fatalf("expected 1 active item, got %d", len(items))
	}
	if items[0].Name != "Active" {
		t.Fatalf("unexpected item %q", items[0].Name)
	}
}

func TestListMatchesNameAndBarcode(t *testing.T) {
	repo := NewRepository(SeedItems())

	byName := repo.List(context.Background(), ListFilter{Query: "coca"})
	if len(byName) != 1 || byName[0].SKU != "BEB-001" {
		t.Fatalf("expected Coca Cola by name, got %v", byName)
	}

	byBarcode := repo.List(context.Background(), ListFilter{Query: "7501055300130"})
	if len(byBarcode) != 1 || byBarcode[0].SKU != "BEB-002" {
		t.Fatalf("expected Pepsi by barcode, got %v", byBarcode)
	}
}

func TestListByCategory(t *testing.T) {
	repo := NewRepository(SeedItems())
	items := repo.List(context.Background(), ListFilter{Category: "Enlatados"})
	if len(items) != 2 {
		t.Fatalf("expected 2 canned items, got %d", len(items))
	}
}

func TestGetByBarcode(t *testing.T) {
	repo := NewRepository(SeedItems())

	item, ok := repo.GetByBarcode(context.Background(), "7500000000001")
	if !ok {
		t.Fatalf("expected weighted apple by barcode")
	}
	if !item.IsWeighted {
		t.Fatalf("expected weighted item")
	}
	if !item.Price().Equal(decimal.RequireFromString("38.00")) {
		t.Fatalf("expected price per kg 38.00, got %s", item.Price())
	}

	if _, ok := repo.GetByBarcode(context.Background(), "9999999999999"); ok {
		t.Fatalf("expected unknown barcode to miss")
	}
}

func TestCreateAppendsToCatalog(t *testing.T) {
	repo := NewRepository(SeedItems())
	before := len(repo.List(context.Background(), ListFilter{}))

	created := repo.Create(context.Background(), Item{
		Name:         "Galletas Marías",
		SKU:          "BOT-003",
		Barcode:      "7501055300150",
		Category:     "Botanas",
		UnitPrice:    price("22.00"),
		AvailableQty: qty(15),
		IsActive:     true,
	})
	if created.ID == uuid.Nil {
		t.Fatalf("create must assign an id")
	}

	items := repo.List(context.Background(), ListFilter{})
	if len(items) != before+1 {
		t.Fatalf("expected %d items after create, got %d", before+1, len(items))
	}
	if items[len(items)-1].Name != "Galletas Marías" {
		t.Fatalf("new item must land at the end of the catalog")
	}
	if _, ok := repo.GetByBarcode(context.Background(), "7501055300150"); !ok {
		t.Fatalf("new item must be scannable")
	}
}

func TestUpdateReplacesItemInPlace(t *testing.T) {
	repo := NewRepository(SeedItems())
	items := repo.List(context.Background(), ListFilter{Query: "coca"})
	if len(items) != 1 {
		t.Fatalf("fixture item missing")
	}

	edited := items[0]
	edited.UnitPrice = price("19.50")
	if _, ok := repo.Update(context.Background(), edited); !ok {
		t.Fatalf("update of an existing item must succeed")
	}

	got, ok := repo.GetByID(context.Background(), edited.ID)
	if !ok || !got.Price().Equal(price("19.50")) {
		t.Fatalf("expected updated price 19.50, got %s", got.Price())
	}

	listed := repo.List(context.Background(), ListFilter{})
	if listed[0].ID != edited.ID {
		t.Fatalf("update must keep the catalog position")
	}

	if _, ok := repo.Update(context.Background(), Item{ID: uuid.New(), Name: "ghost"}); ok {
		t.Fatalf("update of an unknown item must miss")
	}
}

func TestSetActiveHidesFromListingAndScan(t *testing.T) {
	repo := NewRepository(SeedItems())
	item, _ := repo.GetByBarcode(context.Background(), "7501055300129")

	if _, ok := repo.SetActive(context.Background(), item.ID, false); !ok {
		t.Fatalf("deactivation must succeed")
	}

	if got := repo.List(context.Background(), ListFilter{Query: "coca"}); len(got) != 0 {
		t.Fatalf("deactivated item must leave the listing")
	}
	if _, ok := repo.GetByBarcode(context.Background(), "7501055300129"); ok {
		t.Fatalf("deactivated item must not scan")
	}

	// Open carts still price their lines by id.
	if _, ok := repo.GetByID(context.Background(), item.ID); !ok {
		t.Fatalf("deactivated item must stay resolvable by id")
	}

	restored, ok := repo.SetActive(context.Background(), item.ID, true)
	if !ok || !restored.IsActive {
		t.Fatalf("reactivation must restore the item")
	}
	if _, ok := repo.SetActive(context.Background(), uuid.New(), true); ok {
		t.Fatalf("unknown item must miss")
	}
}

func TestPriceSelectsAuthoritativeField(t *testing.T) {
	discrete := Item{UnitPrice: price("18.00"), PricePerKg: price("99.99")}
	if !discrete.Price().Equal(price("18.00")) {
		t.Fatalf("discrete item must price by unit")
	}
	weighted := Item{UnitPrice: price("99.99"), PricePerKg: price("38.00"), IsWeighted: true}
	if !weighted.Price().Equal(price("38.00")) {
		t.Fatalf("weighted item must price by kg")
	}
}
