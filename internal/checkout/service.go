package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tiendalopez/pos-backend/internal/branches"
	"github.com/tiendalopez/pos-backend/internal/cart"
	"github.com/tiendalopez/pos-backend/internal/payment"
	"github.com/tiendalopez/pos-backend/internal/sales"
	"github.com/tiendalopez/pos-backend/internal/subscription"
	"github.com/tiendalopez/pos-backend/pkg/config"
	"github.com/tiendalopez/pos-backend/pkg/db/models"
	"github.com/tiendalopez/pos-backend/pkg/enums"
	pkgerrors "github.com/tiendalopez/pos-backend/pkg/errors"
	"github.com/tiendalopez/pos-backend/pkg/logger"
	"github.com/tiendalopez/pos-backend/pkg/metrics"
	"github.com/tiendalopez/pos-backend/pkg/money"
)

// Operator is the authenticated cashier driving the checkout.
type Operator struct {
	ID       uuid.UUID
	Name     string
	Role     enums.Role
	BranchID uuid.UUID
}

// PayInput is one payment attempt for a session's cart.
type PayInput struct {
	SessionID string
	Method    enums.PaymentMethod
	// TenderedAmount is required for cash and ignored otherwise.
	TenderedAmount *decimal.Decimal
}

// PayResult is a settled checkout.
type PayResult struct {
	Sale      *models.Sale    `json:"sale"`
	Receipt   string          `json:"receipt"`
	ChangeDue decimal.Decimal `json:"change_due"`
}

// Service drives a cart through payment into a recorded sale. Validation
// failures reject before the attempt starts so the session stays out of
// Processing; only a real charge attempt can land in Error.
type Service struct {
	cfg      config.PaymentConfig
	business config.BusinessConfig

	carts    *cart.Service
	gateway  payment.Gateway
	registry *payment.Registry
	sales    *sales.Service
	subs     *subscription.Service
	branches *branches.Service
	metrics  *metrics.PaymentMetrics
	logg     *logger.Logger
}

// NewService wires the checkout orchestrator.
func NewService(
	cfg config.PaymentConfig,
	business config.BusinessConfig,
	carts *cart.Service,
	gateway payment.Gateway,
	registry *payment.Registry,
	salesSvc *sales.Service,
	subs *subscription.Service,
	branchSvc *branches.Service,
	pm *metrics.PaymentMetrics,
	logg *logger.Logger,
) (*Service, error) {
	if carts == nil || gateway == nil || registry == nil || salesSvc == nil || branchSvc == nil {
		return nil, fmt.Errorf("carts, gateway, registry, sales and branches required")
	}
	return &Service{
		cfg:      cfg,
		business: business,
		carts:    carts,
		gateway:  gateway,
		registry: registry,
		sales:    salesSvc,
		subs:     subs,
		branches: branchSvc,
		metrics:  pm,
		logg:     logg,
	}, nil
}

// Status reports the session's payment phase.
type Status struct {
	State      payment.State `json:"state"`
	LastReason string        `json:"last_reason,omitempty"`
}

// Status returns the payment state machine position for the session.
func (s *Service) Status(sessionID string) Status {
	state, reason := s.registry.State(sessionID)
	return Status{State: state, LastReason: reason}
}

// Cancel abandons a failed attempt and returns the session to idle. The cart
// is left intact. An in-flight charge cannot be cancelled.
func (s *Service) Cancel(sessionID string) error {
	return s.registry.Cancel(sessionID)
}

// Pay validates the request, runs the charge and records the sale. Retrying
// after a decline is the same call again; the registry permits it from Error.
func (s *Service) Pay(ctx context.Context, op Operator, input PayInput) (*PayResult, error) {
	if s.subs != nil {
		if err := s.subs.RequireUsable(ctx); err != nil {
			return nil, err
		}
	}
	if !input.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}
	if s.carts.IsEmpty(input.SessionID) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	branch, ok := s.branches.Get(ctx, op.BranchID)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "branch not found")
	}

	snapshot := s.carts.Get(ctx, input.SessionID)
	totals := snapshot.Totals

	var tendered, change *decimal.Decimal
	if input.Method == enums.PaymentMethodCash {
		if input.TenderedAmount == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "tendered amount is required for cash")
		}
		if input.TenderedAmount.LessThan(totals.Total) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "tendered amount is below the total").
				WithDetails(map[string]string{
					"total":    totals.Total.StringFixed(2),
					"tendered": input.TenderedAmount.StringFixed(2),
				})
		}
		t := money.Round2(*input.TenderedAmount)
		c := t.Sub(totals.Total)
		tendered, change = &t, &c
	}

	if err := s.registry.Begin(input.SessionID); err != nil {
		return nil, err
	}

	var reference *string
	if input.Method != enums.PaymentMethodCash {
		chargeCtx, cancel := context.WithTimeout(ctx, s.cfg.GatewayTimeout)
		outcome, err := s.gateway.Charge(chargeCtx, input.Method, totals.Total)
		cancel()
		if err != nil {
			reason := "payment provider did not respond"
			s.registry.Fail(input.SessionID, reason)
			s.metrics.IncAttempt(string(input.Method), "error")
			if s.logg != nil {
				s.logg.Error(ctx, "gateway charge failed", err)
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodePayment, err, reason)
		}
		if !outcome.Success {
			s.registry.Fail(input.SessionID, outcome.Reason)
			s.metrics.IncAttempt(string(input.Method), "declined")
			return nil, pkgerrors.New(pkgerrors.CodePayment, outcome.Reason)
		}
		reference = &outcome.Reference
	}

	record := sales.RecordInput{
		BranchID:         branch.ID,
		BranchName:       branch.Name,
		BranchCode:       branch.Code,
		CashierID:        op.ID,
		CashierName:      op.Name,
		Subtotal:         totals.Subtotal,
		DiscountPercent:  snapshot.DiscountPercent,
		DiscountAmount:   totals.DiscountAmount,
		Total:            totals.Total,
		Method:           input.Method,
		TenderedAmount:   tendered,
		ChangeDue:        change,
		PaymentReference: reference,
	}
	for _, line := range snapshot.Lines {
		record.Lines = append(record.Lines, sales.LineInput{
			ProductID:  line.ItemID,
			Name:       line.Name,
			IsWeighted: line.IsWeighted,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			LineTotal:  money.Round2(line.LineTotal),
		})
	}

	sale, err := s.sales.Record(ctx, record)
	if err != nil {
		s.registry.Fail(input.SessionID, "failed to record the sale")
		s.metrics.IncAttempt(string(input.Method), "error")
		return nil, err
	}

	s.carts.Clear(ctx, input.SessionID)
	s.registry.Settle(input.SessionID)
	s.metrics.IncAttempt(string(input.Method), "approved")

	result := &PayResult{
		Sale:    sale,
		Receipt: sales.RenderReceipt(sale, s.business.Name),
	}
	if change != nil {
		result.ChangeDue = *change
	}
	return result, nil
}
