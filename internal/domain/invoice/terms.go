package invoice

import "time"

// termDays maps a payment term to its deadline offset in days.
var termDays = map[PaymentTerm]int{
	TermOnReceipt:  0,
	TermEightDays:  8,
	TermThirtyDays: 30,
	TermSixtyDays:  60,
}

// fallbackTermDays is applied when an invoice carries an unknown or empty
// payment term. A missing term is legacy data, not an error.
const fallbackTermDays = 30

// DueDate computes the payment deadline for an invoice created on the given
// date under the given term. Both input and output are date-only instants:
// the time-of-day component is stripped so that later comparisons against
// "today" cannot be skewed by clock or timezone noise.
func DueDate(creation time.Time, term PaymentTerm) time.Time {
	days, ok := termDays[term]
	if !ok {
		days = fallbackTermDays
	}
	return Midnight(creation).AddDate(0, 0, days)
}

// Midnight truncates an instant to its date in UTC.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
