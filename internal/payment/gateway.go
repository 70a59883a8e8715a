package payment

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tiendalopez/pos-backend/pkg/enums"
)

// Outcome is the terminal result of one charge attempt. Success carries the
// processor reference; a decline carries the human-readable reason. A
// transport or context failure is returned as an error instead and leaves the
// outcome undefined.
type Outcome struct {
	Success   bool
	Reference string
	Reason    string
}

// Gateway charges a payment externally. Cash never reaches a gateway; the
// checkout service settles cash in-process. Implementations must respect ctx
// cancellation since checkout runs them under a deadline.
type Gateway interface {
	Charge(ctx context.Context, method enums.PaymentMethod, amount decimal.Decimal) (Outcome, error)
}
