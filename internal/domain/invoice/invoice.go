package invoice

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status tracks where an invoice sits in its payment lifecycle.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusSent    Status = "SENT"
	StatusPaid    Status = "PAID"
	StatusToChase Status = "TO_CHASE"
)

// PaymentTerm is the payment deadline agreed with the client.
type PaymentTerm string

const (
	TermOnReceipt  PaymentTerm = "ON_RECEIPT"
	TermEightDays  PaymentTerm = "8_DAYS"
	TermThirtyDays PaymentTerm = "30_DAYS"
	TermSixtyDays  PaymentTerm = "60_DAYS"
)

// Invoice represents a billed invoice owned by a user of the application.
// The engine only reads these fields and transitions Status; everything
// else about an invoice belongs to the surrounding application.
type Invoice struct {
	ID           string
	UserID       string
	Number       string // human-facing invoice number, copied into notifications
	ClientName   string
	Amount       decimal.Decimal
	CreationDate time.Time
	PaymentTerm  PaymentTerm
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Chaseable reports whether the invoice is still awaiting payment and may
// therefore be classified and notified. Paid invoices are excluded from
// reconciliation entirely.
func (i *Invoice) Chaseable() bool {
	return i.Status == StatusPending || i.Status == StatusSent || i.Status == StatusToChase
}
