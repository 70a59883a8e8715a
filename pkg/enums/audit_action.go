package enums

// AuditAction labels an audit log entry.
type AuditAction string

const (
	AuditActionLogin           AuditAction = "auth.login"
	AuditActionLogout          AuditAction = "auth.logout"
	AuditActionDiscountApplied AuditAction = "cart.discount_applied"
	AuditActionSaleCompleted   AuditAction = "sale.completed"
	AuditActionSaleCancelled   AuditAction = "sale.cancelled"
	AuditActionSaleRefunded    AuditAction = "sale.refunded"
	AuditActionBranchToggled   AuditAction = "branch.toggled"
)

// String implements fmt.Stringer.
func (a AuditAction) String() string {
	return string(a)
}
