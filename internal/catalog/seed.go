package catalog

import (
	"github.com/shopspring/decimal"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func qty(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

// SeedItems returns the demo catalog. Stock figures are per-boot; the demo
// does not decrement inventory on sale.
func SeedItems() []Item {
	return []Item{
		{Name: "Coca Cola 600ml", SKU: "BEB-001", Barcode: "7501055300129", Category: "Bebidas", UnitPrice: price("18.00"), AvailableQty: qty(50), IsActive: true},
		{Name: "Pepsi 600ml", SKU: "BEB-002", Barcode: "7501055300130", Category: "Bebidas", UnitPrice: price("17.00"), AvailableQty: qty(45), IsActive: true},
		{Name: "Sabritas Original", SKU: "BOT-001", Barcode: "7501055300131", Category: "Botanas", UnitPrice: price("15.50"), AvailableQty: qty(30), IsActive: true},
		{Name: "Doritos Nacho", SKU: "BOT-002", Barcode: "7501055300132", Category: "Botanas", UnitPrice: price("18.00"), AvailableQty: qty(25), IsActive: true},
		{Name: "Pan Bimbo Grande", SKU: "PAN-001", Barcode: "7501055300133", Category: "Panadería", UnitPrice: price("52.00"), AvailableQty: qty(20), IsActive: true},
		{Name: "Leche Lala 1L", SKU: "LAC-001", Barcode: "7501055300134", Category: "Lácteos", UnitPrice: price("28.00"), AvailableQty: qty(35), IsActive: true},
		{Name: "Huevo 12 pzas", SKU: "BAS-001", Barcode: "7501055300135", Category: "Básicos", UnitPrice: price("45.00"), AvailableQty: qty(40), IsActive: true},
		{Name: "Agua Bonafont 1L", SKU: "BEB-003", Barcode: "7501055300136", Category: "Bebidas", UnitPrice: price("14.00"), AvailableQty: qty(60), IsActive: true},
		{Name: "Atún en agua", SKU: "ENL-001", Barcode: "7501055300138", Category: "Enlatados", UnitPrice: price("24.00"), AvailableQty: qty(35), IsActive: true},
		{Name: "Frijoles de lata", SKU: "ENL-002", Barcode: "7501055300139", Category: "Enlatados", UnitPrice: price("18.50"), AvailableQty: qty(40), IsActive: true},
		{Name: "Arroz 1kg", SKU: "BAS-002", Barcode: "7501055300140", Category: "Básicos", UnitPrice: price("32.00"), AvailableQty: qty(25), IsActive: true},
		{Name: "Aceite 1L", SKU: "BAS-003", Barcode: "7501055300141", Category: "Básicos", UnitPrice: price("48.00"), AvailableQty: qty(20), IsActive: true},
		{Name: "Jabón Zote", SKU: "LIM-001", Barcode: "7501055300142", Category: "Limpieza", UnitPrice: price("28.00"), AvailableQty: qty(30), IsActive: true},
		{Name: "Detergente Roma", SKU: "LIM-002", Barcode: "7501055300143", Category: "Limpieza", UnitPrice: price("35.00"), AvailableQty: qty(22), IsActive: true},
		{Name: "Producto sin stock", SKU: "OTR-001", Barcode: "0000000000000", Category: "Otros", UnitPrice: price("10.00"), AvailableQty: qty(0), IsActive: true},
		{Name: "Manzana Roja", SKU: "BAS-004", Barcode: "7500000000001", Category: "Básicos", PricePerKg: price("38.00"), AvailableQty: qty(100), IsWeighted: true, IsActive: true},
	}
}

// Categories lists the filter chips shown at the register.
func Categories() []string {
	return []string{"Bebidas", "Botanas", "Panadería", "Lácteos", "Básicos", "Enlatados", "Limpieza", "Otros"}
}
