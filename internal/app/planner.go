package app

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"invoice_notification_engine/internal/domain/invoice"
	"invoice_notification_engine/internal/domain/notification"
)

// buildPlan computes the operation batch that moves the observed
// notification set (already deduplicated) to the desired set for the
// user's chaseable invoices. It is pure: no I/O, no clock access beyond
// the now argument, so repeated evaluation over unchanged inputs yields
// the same (possibly empty) batch.
//
// Batch order matters to the applier: stale duplicates go first, then the
// per-invoice operations with each create preceding its status transition,
// then deletions for notifications whose invoice is gone.
func buildPlan(invoices []*invoice.Invoice, existing map[notification.Key]*notification.Notification, stale []*notification.Notification, now time.Time) []notification.Operation {
	today := invoice.Midnight(now)
	var ops []notification.Operation

	for _, n := range stale {
		ops = append(ops, notification.NewDelete(n.ID))
	}

	live := make(map[string]bool, len(invoices))
	for _, inv := range invoices {
		live[inv.ID] = true

		overdueKey := notification.Key{InvoiceID: inv.ID, Kind: notification.KindOverdue}
		dueSoonKey := notification.Key{InvoiceID: inv.ID, Kind: notification.KindDueSoon}

		switch invoice.Classify(invoice.DueDate(inv.CreationDate, inv.PaymentTerm), today) {
		case invoice.ClassOverdue:
			if _, ok := existing[overdueKey]; !ok {
				ops = append(ops, notification.NewCreate(newNotification(inv, notification.KindOverdue, now)))
			}
			// Status is healed independently of the notification so a
			// partially applied earlier batch converges too.
			if inv.Status != invoice.StatusToChase {
				ops = append(ops, notification.NewSetStatus(inv.ID, invoice.StatusToChase))
			}
			if n, ok := existing[dueSoonKey]; ok {
				ops = append(ops, notification.NewDelete(n.ID))
			}
		case invoice.ClassDueSoon:
			if _, ok := existing[dueSoonKey]; !ok {
				ops = append(ops, notification.NewCreate(newNotification(inv, notification.KindDueSoon, now)))
			}
			// Overdue and due-soon are mutually exclusive, so a leftover
			// overdue notification (e.g. after a payment-term edit) is
			// removed rather than kept alongside.
			if n, ok := existing[overdueKey]; ok {
				ops = append(ops, notification.NewDelete(n.ID))
			}
		case invoice.ClassCurrent:
			if n, ok := existing[overdueKey]; ok {
				ops = append(ops, notification.NewDelete(n.ID))
			}
			if n, ok := existing[dueSoonKey]; ok {
				ops = append(ops, notification.NewDelete(n.ID))
			}
		}
	}

	// Notifications pointing at invoices that were deleted or left the
	// chaseable statuses (e.g. got paid) are swept away. Sorted so the
	// batch is deterministic despite map iteration.
	var orphaned []string
	for _, n := range existing {
		if !live[n.InvoiceID] {
			orphaned = append(orphaned, n.ID)
		}
	}
	sort.Strings(orphaned)
	for _, id := range orphaned {
		ops = append(ops, notification.NewDelete(id))
	}

	return ops
}

func newNotification(inv *invoice.Invoice, kind notification.Kind, now time.Time) *notification.Notification {
	return &notification.Notification{
		ID:            uuid.NewString(),
		UserID:        inv.UserID,
		InvoiceID:     inv.ID,
		Kind:          kind,
		Amount:        inv.Amount,
		InvoiceNumber: inv.Number,
		ClientName:    inv.ClientName,
		CreatedAt:     now,
	}
}
