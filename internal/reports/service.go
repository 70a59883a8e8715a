package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tiendalopez/pos-backend/internal/sales"
	"github.com/tiendalopez/pos-backend/pkg/db/models"
	"github.com/tiendalopez/pos-backend/pkg/enums"
	"github.com/tiendalopez/pos-backend/pkg/money"
)

type saleSource interface {
	List(ctx context.Context, filter sales.ListFilter) ([]models.Sale, error)
}

// Service aggregates recorded sales into register reports. Only completed
// sales count toward revenue; cancelled and refunded ones are excluded.
type Service struct {
	sales saleSource
}

// NewService wires the reporting service.
func NewService(source saleSource) (*Service, error) {
	if source == nil {
		return nil, fmt.Errorf("sale source required")
	}
	return &Service{sales: source}, nil
}

// MethodBreakdown is revenue for one payment method.
type MethodBreakdown struct {
	Method enums.PaymentMethod `json:"method"`
	Count  int                 `json:"count"`
	Total  decimal.Decimal     `json:"total"`
}

// DayBucket is revenue for one calendar day.
type DayBucket struct {
	Day   string          `json:"day"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// Summary is the register report for one day.
type Summary struct {
	Day           string            `json:"day"`
	Transactions  int               `json:"transactions"`
	TotalRevenue  decimal.Decimal   `json:"total_revenue"`
	AverageTicket decimal.Decimal   `json:"average_ticket"`
	ByMethod      []MethodBreakdown `json:"by_method"`
}

// DailySummary aggregates one day's completed sales for a branch. A nil
// branch covers every location.
func (s *Service) DailySummary(ctx context.Context, branchID *uuid.UUID, day time.Time) (Summary, error) {
	completed := enums.SaleStatusCompleted
	items, err := s.sales.List(ctx, sales.ListFilter{
		BranchID: branchID,
		Status:   &completed,
		Day:      &day,
		Limit:    500,
	})
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		Day:           day.Format("2006-01-02"),
		TotalRevenue:  decimal.Zero,
		AverageTicket: decimal.Zero,
	}
	byMethod := make(map[enums.PaymentMethod]*MethodBreakdown)
	for _, sale := range items {
		summary.Transactions++
		summary.TotalRevenue = summary.TotalRevenue.Add(sale.Total)

		bucket, ok := byMethod[sale.Method]
		if !ok {
			bucket = &MethodBreakdown{Method: sale.Method, Total: decimal.Zero}
			byMethod[sale.Method] = bucket
		}
		bucket.Count++
		bucket.Total = bucket.Total.Add(sale.Total)
	}

	if summary.Transactions > 0 {
		summary.AverageTicket = money.Round2(
			summary.TotalRevenue.Div(decimal.NewFromInt(int64(summary.Transactions))))
	}

	// Stable order for the UI: cash, clip, mercadopago.
	for _, method := range []enums.PaymentMethod{
		enums.PaymentMethodCash,
		enums.PaymentMethodCardClip,
		enums.PaymentMethodMercadoPago,
	} {
		if bucket, ok := byMethod[method]; ok {
			summary.ByMethod = append(summary.ByMethod, *bucket)
		}
	}
	return summary, nil
}

// WeeklySeries returns per-day revenue for the seven days ending at day.
func (s *Service) WeeklySeries(ctx context.Context, branchID *uuid.UUID, day time.Time) ([]DayBucket, error) {
	series := make([]DayBucket, 0, 7)
	for offset := 6; offset >= 0; offset-- {
		current := day.AddDate(0, 0, -offset)
		summary, err := s.DailySummary(ctx, branchID, current)
		if err != nil {
			return nil, err
		}
		series = append(series, DayBucket{
			Day:   summary.Day,
			Count: summary.Transactions,
			Total: summary.TotalRevenue,
		})
	}
	return series, nil
}
