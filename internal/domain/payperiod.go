package domain

import "time"

// PayPeriodDays is the inclusive length of a pay period in days.
const PayPeriodDays = 14

// PayPeriod represents a confirmed, immutable 14-day payroll window.
// Confirmation is one-way: there is no unconfirm path.
type PayPeriod struct {
	ID          string
	StartDate   time.Time
	EndDate     time.Time
	ConfirmedBy string
	ConfirmedAt time.Time
}

// ValidPayPeriodSpan reports whether [start, end] is a well-formed pay
// period: a Sunday start spanning exactly 14 days inclusive.
func ValidPayPeriodSpan(start, end time.Time) bool {
	if !IsSunday(start) {
		return false
	}
	return end.Sub(start) == time.Duration(PayPeriodDays-1)*24*time.Hour
}
