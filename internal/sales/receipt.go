package sales

import (
	"fmt"
	"strings"

	"github.com/tiendalopez/pos-backend/pkg/db/models"
	"github.com/tiendalopez/pos-backend/pkg/enums"
)

const receiptWidth = 40

var methodLabels = map[enums.PaymentMethod]string{
	enums.PaymentMethodCash:        "Efectivo",
	enums.PaymentMethodCardClip:    "Tarjeta (Clip)",
	enums.PaymentMethodMercadoPago: "Mercado Pago",
}

// RenderReceipt formats a plain-text ticket for a recorded sale.
func RenderReceipt(sale *models.Sale, businessName string) string {
	var b strings.Builder
	divider := strings.Repeat("=", receiptWidth)

	center(&b, businessName)
	center(&b, "Ticket: "+sale.TicketNumber)
	center(&b, sale.BranchName)
	b.WriteString(divider + "\n")
	b.WriteString(fmt.Sprintf("Fecha: %s\n", sale.CreatedAt.Format("02/01/2006 15:04")))
	b.WriteString(fmt.Sprintf("Cajero: %s\n", sale.CashierName))
	b.WriteString(strings.Repeat("-", receiptWidth) + "\n")

	for _, line := range sale.Lines {
		qty := line.Quantity.String()
		if line.IsWeighted {
			qty += " kg"
		} else {
			qty += " x"
		}
		b.WriteString(line.Name + "\n")
		b.WriteString(fmt.Sprintf("  %s %s = %s\n", qty, line.UnitPrice.StringFixed(2), line.LineTotal.StringFixed(2)))
	}

	b.WriteString(strings.Repeat("-", receiptWidth) + "\n")
	amount(&b, "Subtotal:", sale.Subtotal.StringFixed(2))
	if sale.DiscountAmount.IsPositive() {
		amount(&b, fmt.Sprintf("Descuento (%s%%):", sale.DiscountPercent.String()), "-"+sale.DiscountAmount.StringFixed(2))
	}
	amount(&b, "TOTAL:", sale.Total.StringFixed(2))

	label := methodLabels[sale.Method]
	if label == "" {
		label = sale.Method.String()
	}
	amount(&b, "Pago:", label)
	if sale.TenderedAmount != nil {
		amount(&b, "Recibido:", sale.TenderedAmount.StringFixed(2))
	}
	if sale.ChangeDue != nil {
		amount(&b, "Cambio:", sale.ChangeDue.StringFixed(2))
	}
	if sale.PaymentReference != nil {
		b.WriteString("Ref: " + *sale.PaymentReference + "\n")
	}

	b.WriteString(divider + "\n")
	center(&b, "¡Gracias por su compra!")
	return b.String()
}

func center(b *strings.Builder, text string) {
	pad := (receiptWidth - len([]rune(text))) / 2
	if pad < 0 {
		pad = 0
	}
	b.WriteString(strings.Repeat(" ", pad) + text + "\n")
}

func amount(b *strings.Builder, label, value string) {
	gap := receiptWidth - len([]rune(label)) - len([]rune(value))
	if gap < 1 {
		gap = 1
	}
	b.WriteString(label + strings.Repeat(" ", gap) + value + "\n")
}
