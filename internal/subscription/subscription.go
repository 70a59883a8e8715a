package subscription

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tiendalopez/pos-backend/pkg/enums"
	pkgerrors "github.com/tiendalopez/pos-backend/pkg/errors"
)

// Subscription is the billing state of the business account.
type Subscription struct {
	PlanName     string                   `json:"plan_name"`
	MonthlyPrice decimal.Decimal          `json:"monthly_price"`
	Status       enums.SubscriptionStatus `json:"status"`
	Credits      int                      `json:"credits"`
	RenewsAt     time.Time                `json:"renews_at"`
}

// Payment is one entry in the billing history.
type Payment struct {
	ID     uuid.UUID       `json:"id"`
	PaidAt time.Time       `json:"paid_at"`
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
	Status string          `json:"status"`
}

// Service serves the demo's fixed subscription. Sales are gated on the
// subscription being usable so an expired account cannot ring up new sales.
type Service struct {
	mu       sync.RWMutex
	current  Subscription
	payments []Payment
}

// NewService builds the service with the demo subscription.
func NewService(now time.Time) *Service {
	price := decimal.RequireFromString("499.00")
	history := make([]Payment, 0, 3)
	for i := 3; i >= 1; i-- {
		history = append(history, Payment{
			ID:     uuid.New(),
			PaidAt: now.AddDate(0, -i, 0),
			Amount: price,
			Method: "card",
			Status: "paid",
		})
	}
	return &Service{
		current: Subscription{
			PlanName:     "Professional",
			MonthlyPrice: price,
			Status:       enums.SubscriptionStatusActive,
			Credits:      1250,
			RenewsAt:     now.AddDate(0, 1, 0),
		},
		payments: history,
	}
}

// Get returns the current subscription.
func (s *Service) Get(_ context.Context) Subscription {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Payments returns the billing history, newest first.
func (s *Service) Payments(_ context.Context) []Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Payment, len(s.payments))
	copy(out, s.payments)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// SetStatus swaps the subscription status. Exposed for demos and tests.
func (s *Service) SetStatus(status enums.SubscriptionStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.Status = status
}

// RequireUsable fails when the subscription no longer allows selling.
func (s *Service) RequireUsable(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.current.Status.IsUsable() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "subscription is "+s.current.Status.String()+"; renew to continue selling")
	}
	return nil
}
