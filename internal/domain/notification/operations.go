package notification

import (
	"context"

	"invoice_notification_engine/internal/domain/invoice"
)

// OpKind discriminates the operations a reconciliation pass can emit.
type OpKind string

const (
	OpCreateNotification OpKind = "CREATE_NOTIFICATION"
	OpDeleteNotification OpKind = "DELETE_NOTIFICATION"
	OpSetInvoiceStatus   OpKind = "SET_INVOICE_STATUS"
)

// Operation is one element of a reconciliation batch. Exactly the fields
// for its kind are set: Create for CREATE_NOTIFICATION, NotificationID for
// DELETE_NOTIFICATION, InvoiceID+Status for SET_INVOICE_STATUS.
type Operation struct {
	Kind OpKind

	Create         *Notification
	NotificationID string
	InvoiceID      string
	Status         invoice.Status
}

// NewCreate builds a CREATE_NOTIFICATION operation.
func NewCreate(n *Notification) Operation {
	return Operation{Kind: OpCreateNotification, Create: n}
}

// NewDelete builds a DELETE_NOTIFICATION operation.
func NewDelete(notificationID string) Operation {
	return Operation{Kind: OpDeleteNotification, NotificationID: notificationID}
}

// NewSetStatus builds a SET_INVOICE_STATUS operation.
func NewSetStatus(invoiceID string, status invoice.Status) Operation {
	return Operation{Kind: OpSetInvoiceStatus, InvoiceID: invoiceID, Status: status}
}

// BatchApplier commits a reconciliation batch against the store.
//
// Atomicity across the whole batch is not required, but operations must be
// applied in the order given: the reconciler orders create-then-status per
// invoice, and a crash mid-batch must not leave a status transition without
// its notification. Applied reports how many operations committed before
// any failure; a partial batch is a valid state the next pass converges.
type BatchApplier interface {
	Apply(ctx context.Context, userID string, ops []Operation) (applied int, err error)
}
