package plans

import "fmt"

// BillingCycle derives the payment billing-cycle label from a plan
// duration.
func BillingCycle(durationDays int) string {
	switch durationDays {
	case 7:
		return "weekly"
	case 30:
		return "monthly"
	case 90:
		return "quarterly"
	case 365:
		return "yearly"
	default:
		return fmt.Sprintf("%d_days", durationDays)
	}
}
