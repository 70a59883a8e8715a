package reports

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tiendalopez/pos-backend/internal/sales"
	"github.com/tiendalopez/pos-backend/pkg/db/models"
	"github.com/tiendalopez/pos-backend/pkg/enums"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// fakeSales serves canned sales and records the filter it saw.
type fakeSales struct {
	sales      []models.Sale
	lastFilter sales.ListFilter
}

func (f *fakeSales) List(_ context.Context, filter sales.ListFilter) ([]models.Sale, error) {
	f.lastFilter = filter

	var out []models.Sale
	for _, sale := range f.sales {
		if filter.Status != nil && sale.Status != *filter.Status {
			continue
		}
		if filter.Day != nil {
			start := time.Date(filter.Day.Year(), filter.Day.Month(), filter.Day.Day(), 0, 0, 0, 0, filter.Day.Location())
			if sale.CreatedAt.Before(start) || !sale.CreatedAt.Before(start.Add(24*time.Hour)) {
				continue
			}
		}
		out = append(out, sale)
	}
	return out, nil
}

func saleOn(day time.Time, method enums.PaymentMethod, total string, status enums.SaleStatus) models.Sale {
	return models.Sale{
		ID:        uuid.New(),
		Method:    method,
		Total:     dec(total),
		Status:    status,
		CreatedAt: day.Add(10 * time.Hour),
	}
}

func TestDailySummaryAggregates(t *testing.T) {
	day := time.Date(2026, 8, 29, 0, 0, 0, 0, time.Local)
	source := &fakeSales{sales: []models.Sale{
		saleOn(day, enums.PaymentMethodCash, "100.00", enums.SaleStatusCompleted),
		saleOn(day, enums.PaymentMethodCash, "50.00", enums.SaleStatusCompleted),
		saleOn(day, enums.PaymentMethodCardClip, "75.50", enums.SaleStatusCompleted),
	}}
	svc, _ := NewService(source)

	summary, err := svc.DailySummary(context.Background(), nil, day)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}

	if summary.Transactions != 3 {
		t.Fatalf("expected 3 transactions, got %d", summary.Transactions)
	}
	if !summary.TotalRevenue.Equal(dec("225.50")) {
		t.Fatalf("expected revenue 225.50, got %s", summary.TotalRevenue)
	}
	if !summary.AverageTicket.Equal(dec("75.17")) {
		t.Fatalf("expected average 75.17, got %s", summary.AverageTicket)
	}

	if len(summary.ByMethod) != 2 {
		t.Fatalf("expected 2 method buckets, got %d", len(summary.ByMethod))
	}
	if summary.ByMethod[0].Method != enums.PaymentMethodCash || summary.ByMethod[0].Count != 2 {
		t.Fatalf("cash bucket wrong: %+v", summary.ByMethod[0])
	}
	if !summary.ByMethod[1].Total.Equal(dec("75.50")) {
		t.Fatalf("clip bucket wrong: %+v", summary.ByMethod[1])
	}
}

func TestDailySummaryExcludesNonCompleted(t *testing.T) {
	day := time.Date(2026, 8, 29, 0, 0, 0, 0, time.Local)
	source := &fakeSales{sales: []models.Sale{
		saleOn(day, enums.PaymentMethodCash, "100.00", enums.SaleStatusCompleted),
		saleOn(day, enums.PaymentMethodCash, "40.00", enums.SaleStatusCancelled),
		saleOn(day, enums.PaymentMethodCash, "60.00", enums.SaleStatusRefunded),
	}}
	svc, _ := NewService(source)

	summary, err := svc.DailySummary(context.Background(), nil, day)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if summary.Transactions != 1 || !summary.TotalRevenue.Equal(dec("100.00")) {
		t.Fatalf("cancelled and refunded sales must not count: %+v", summary)
	}
	if source.lastFilter.Status == nil || *source.lastFilter.Status != enums.SaleStatusCompleted {
		t.Fatalf("summary must filter for completed sales")
	}
}

func TestDailySummaryEmptyDay(t *testing.T) {
	svc, _ := NewService(&fakeSales{})
	summary, err := svc.DailySummary(context.Background(), nil, time.Now())
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if summary.Transactions != 0 || !summary.AverageTicket.IsZero() {
		t.Fatalf("empty day must be zeros, got %+v", summary)
	}
}

func TestWeeklySeriesCoversSevenDays(t *testing.T) {
	day := time.Date(2026, 8, 29, 0, 0, 0, 0, time.Local)
	source := &fakeSales{sales: []models.Sale{
		saleOn(day, enums.PaymentMethodCash, "100.00", enums.SaleStatusCompleted),
		saleOn(day.AddDate(0, 0, -3), enums.PaymentMethodCash, "20.00", enums.SaleStatusCompleted),
	}}
	svc, _ := NewService(source)

	series, err := svc.WeeklySeries(context.Background(), nil, day)
	if err != nil {
		t.Fatalf("series failed: %v", err)
	}
	if len(series) != 7 {
		t.Fatalf("expected 7 buckets, got %d", len(series))
	}
	if series[6].Day != "2026-08-29" || !series[6].Total.Equal(dec("100.00")) {
		t.Fatalf("last bucket wrong: %+v", series[6])
	}
	if !series[3].Total.Equal(dec("20.00")) {
		t.Fatalf("mid-week bucket wrong: %+v", series[3])
	}
}
