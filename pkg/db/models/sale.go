package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tiendalopez/pos-backend/pkg/enums"
)

// Sale is the immutable record of a completed transaction. Rows are written
// once at checkout; only the status fields move afterwards (cancel/refund).
type Sale struct {
	ID                 uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	TicketNumber       string              `gorm:"column:ticket_number;uniqueIndex;not null"`
	BranchID           uuid.UUID           `gorm:"column:branch_id;type:uuid;not null;index"`
	BranchName         string              `gorm:"column:branch_name;not null"`
	CashierID          uuid.UUID           `gorm:"column:cashier_id;type:uuid;not null"`
	CashierName        string              `gorm:"column:cashier_name;not null"`
	Subtotal           decimal.Decimal     `gorm:"column:subtotal;type:numeric(12,2);not null"`
	DiscountPercent    decimal.Decimal     `gorm:"column:discount_percent;type:numeric(5,2);not null"`
	DiscountAmount     decimal.Decimal     `gorm:"column:discount_amount;type:numeric(12,2);not null"`
	Total              decimal.Decimal     `gorm:"column:total;type:numeric(12,2);not null"`
	Method             enums.PaymentMethod `gorm:"column:method;not null"`
	TenderedAmount     *decimal.Decimal    `gorm:"column:tendered_amount;type:numeric(12,2)"`
	ChangeDue          *decimal.Decimal    `gorm:"column:change_due;type:numeric(12,2)"`
	PaymentReference   *string             `gorm:"column:payment_reference"`
	Status             enums.SaleStatus    `gorm:"column:status;not null;default:'completed'"`
	CancellationReason *string             `gorm:"column:cancellation_reason"`
	RefundReason       *string             `gorm:"column:refund_reason"`
	Lines              []SaleLine          `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// SaleLine freezes one cart line as it was priced at checkout.
type SaleLine struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	SaleID     uuid.UUID       `gorm:"column:sale_id;type:uuid;not null;index"`
	ProductID  uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Name       string          `gorm:"column:name;not null"`
	IsWeighted bool            `gorm:"column:is_weighted;not null;default:false"`
	Quantity   decimal.Decimal `gorm:"column:quantity;type:numeric(10,2);not null"`
	UnitPrice  decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	LineTotal  decimal.Decimal `gorm:"column:line_total;type:numeric(12,2);not null"`
}
