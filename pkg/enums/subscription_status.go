package enums

// SubscriptionStatus mirrors the billing state of the business account.
type SubscriptionStatus string

const (
	SubscriptionStatusActive  SubscriptionStatus = "active"
	SubscriptionStatusTrial   SubscriptionStatus = "trial"
	SubscriptionStatusExpired SubscriptionStatus = "expired"
	SubscriptionStatusPending SubscriptionStatus = "pending"
)

var validSubscriptionStatuses = []SubscriptionStatus{
	SubscriptionStatusActive,
	SubscriptionStatusTrial,
	SubscriptionStatusExpired,
	SubscriptionStatusPending,
}

// String implements fmt.Stringer.
func (s SubscriptionStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SubscriptionStatus.
func (s SubscriptionStatus) IsValid() bool {
	for _, candidate := range validSubscriptionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsUsable reports whether the subscription allows ringing up sales.
func (s SubscriptionStatus) IsUsable() bool {
	return s == SubscriptionStatusActive || s == SubscriptionStatusTrial
}
