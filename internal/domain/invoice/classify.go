package invoice

import "time"

// Classification is the payment-urgency bucket an unpaid invoice falls into
// on a given day.
type Classification string

const (
	ClassCurrent Classification = "CURRENT"
	ClassDueSoon Classification = "DUE_SOON"
	ClassOverdue Classification = "OVERDUE"
)

// dueSoonWindowDays is the number of days before the due date (inclusive)
// during which an invoice counts as due-soon.
const dueSoonWindowDays = 3

// Classify buckets an invoice by its due date relative to today. Both
// arguments are taken at date granularity; any time-of-day component is
// stripped before comparison.
//
// Callers must filter paid invoices beforehand: classification is only
// meaningful for invoices still awaiting payment.
func Classify(dueDate, today time.Time) Classification {
	due := Midnight(dueDate)
	now := Midnight(today)

	if now.After(due) {
		return ClassOverdue
	}
	daysLeft := int(due.Sub(now).Hours() / 24)
	if daysLeft <= dueSoonWindowDays {
		return ClassDueSoon
	}
	return ClassCurrent
}
