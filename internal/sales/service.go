package sales

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tiendalopez/pos-backend/internal/audit"
	"github.com/tiendalopez/pos-backend/pkg/db/models"
	"github.com/tiendalopez/pos-backend/pkg/enums"
	pkgerrors "github.com/tiendalopez/pos-backend/pkg/errors"
	"github.com/tiendalopez/pos-backend/pkg/logger"
	"github.com/tiendalopez/pos-backend/pkg/metrics"
)

type auditTrail interface {
	Record(ctx context.Context, action enums.AuditAction, actor audit.Actor, entityType string, entityID *string, details string)
}

// Service records sales and drives their post-sale lifecycle.
type Service struct {
	repo    *Repository
	tickets *TicketSequence
	audits  auditTrail
	metrics *metrics.PaymentMetrics
	logg    *logger.Logger
}

// NewService wires the sales service.
func NewService(repo *Repository, tickets *TicketSequence, audits auditTrail, pm *metrics.PaymentMetrics, logg *logger.Logger) (*Service, error) {
	if repo == nil || tickets == nil {
		return nil, fmt.Errorf("repository and ticket sequence required")
	}
	return &Service{repo: repo, tickets: tickets, audits: audits, metrics: pm, logg: logg}, nil
}

// LineInput is one cart line frozen at checkout.
type LineInput struct {
	ProductID  uuid.UUID
	Name       string
	IsWeighted bool
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	LineTotal  decimal.Decimal
}

// RecordInput carries everything needed to persist a completed sale. Amounts
// arrive already rounded; the record is immutable once written.
type RecordInput struct {
	BranchID   uuid.UUID
	BranchName string
	BranchCode string

	CashierID   uuid.UUID
	CashierName string

	Lines           []LineInput
	Subtotal        decimal.Decimal
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal
	Total           decimal.Decimal

	Method           enums.PaymentMethod
	TenderedAmount   *decimal.Decimal
	ChangeDue        *decimal.Decimal
	PaymentReference *string
}

// Record persists a completed sale with a fresh ticket number.
func (s *Service) Record(ctx context.Context, input RecordInput) (*models.Sale, error) {
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a sale requires at least one line")
	}

	ticket, err := s.tickets.Next(ctx, input.BranchID, input.BranchCode)
	if err != nil {
		return nil, err
	}

	sale := &models.Sale{
		ID:               uuid.New(),
		TicketNumber:     ticket,
		BranchID:         input.BranchID,
		BranchName:       input.BranchName,
		CashierID:        input.CashierID,
		CashierName:      input.CashierName,
		Subtotal:         input.Subtotal,
		DiscountPercent:  input.DiscountPercent,
		DiscountAmount:   input.DiscountAmount,
		Total:            input.Total,
		Method:           input.Method,
		TenderedAmount:   input.TenderedAmount,
		ChangeDue:        input.ChangeDue,
		PaymentReference: input.PaymentReference,
		Status:           enums.SaleStatusCompleted,
	}
	for _, line := range input.Lines {
		sale.Lines = append(sale.Lines, models.SaleLine{
			ID:         uuid.New(),
			SaleID:     sale.ID,
			ProductID:  line.ProductID,
			Name:       line.Name,
			IsWeighted: line.IsWeighted,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			LineTotal:  line.LineTotal,
		})
	}

	if err := s.repo.Create(ctx, sale); err != nil {
		return nil, err
	}

	s.metrics.ObserveSale(string(input.Method), sale.Total.InexactFloat64())
	if s.audits != nil {
		ticketRef := sale.TicketNumber
		s.audits.Record(ctx, enums.AuditActionSaleCompleted,
			audit.Actor{ID: input.CashierID, Name: input.CashierName},
			"sale", &ticketRef,
			fmt.Sprintf("sale %s for %s via %s", sale.TicketNumber, sale.Total.StringFixed(2), sale.Method))
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "ticket", sale.TicketNumber), "sale recorded")
	}
	return sale, nil
}

// List returns recorded sales matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]models.Sale, error) {
	return s.repo.List(ctx, filter)
}

// Get returns one sale by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	return s.repo.GetByID(ctx, id)
}

func canManageSales(role enums.Role) bool {
	return role == enums.RoleOwner || role == enums.RoleAdmin
}

// Cancel voids a completed sale. Owners and admins only; a sale already
// cancelled or refunded stays as it is.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, reason string, actor audit.Actor, role enums.Role) (*models.Sale, error) {
	return s.transition(ctx, id, reason, actor, role,
		enums.SaleStatusCancelled, "cancellation_reason", enums.AuditActionSaleCancelled)
}

// Refund marks a completed sale refunded. Owners and admins only.
func (s *Service) Refund(ctx context.Context, id uuid.UUID, reason string, actor audit.Actor, role enums.Role) (*models.Sale, error) {
	return s.transition(ctx, id, reason, actor, role,
		enums.SaleStatusRefunded, "refund_reason", enums.AuditActionSaleRefunded)
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, reason string, actor audit.Actor, role enums.Role, target enums.SaleStatus, reasonColumn string, action enums.AuditAction) (*models.Sale, error) {
	if !canManageSales(role) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role cannot manage recorded sales")
	}
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a reason is required")
	}

	sale, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale.Status != enums.SaleStatusCompleted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("sale is %s and cannot move to %s", sale.Status, target))
	}

	if err := s.repo.UpdateStatus(ctx, id, target, reasonColumn, reason); err != nil {
		return nil, err
	}

	if s.audits != nil {
		ticketRef := sale.TicketNumber
		s.audits.Record(ctx, action, actor, "sale", &ticketRef,
			fmt.Sprintf("sale %s %s: %s", sale.TicketNumber, target, reason))
	}
	return s.repo.GetByID(ctx, id)
}
