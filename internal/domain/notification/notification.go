package notification

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies which lifecycle event a notification reports.
type Kind string

const (
	KindOverdue Kind = "OVERDUE"
	KindDueSoon Kind = "DUE_SOON"
)

// Notification is a per-invoice reminder record shown to the user. The
// engine is the sole writer of Kind, CreatedAt and of a notification's
// existence; the Read flag belongs to the consuming UI and is never
// touched here.
type Notification struct {
	ID            string
	UserID        string
	InvoiceID     string
	Kind          Kind
	Read          bool
	Amount        decimal.Decimal
	InvoiceNumber string
	ClientName    string
	CreatedAt     time.Time
}

// Key identifies the one notification slot an invoice may occupy per kind.
// After a reconciliation pass at most one notification exists per key.
type Key struct {
	InvoiceID string
	Kind      Kind
}

// KeyOf returns the dedup key for a notification.
func KeyOf(n *Notification) Key {
	return Key{InvoiceID: n.InvoiceID, Kind: n.Kind}
}
