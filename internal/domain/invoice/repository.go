package invoice

import "context"

// Repository defines the read surface the engine needs over invoices.
// The surrounding application owns invoice persistence; the engine only
// lists chaseable invoices and transitions their status through the
// notification batch (see the notification package).
type Repository interface {
	// ListChaseable returns the user's invoices with status in
	// {PENDING, SENT, TO_CHASE}. Paid invoices are never returned.
	ListChaseable(ctx context.Context, userID string) ([]*Invoice, error)
	// ListUserIDs returns the distinct owners of chaseable invoices,
	// i.e. the users a reconciliation sweep must visit.
	ListUserIDs(ctx context.Context) ([]string, error)
	// Create persists a freshly emitted invoice. Used by the recurring
	// emission job, not by reconciliation.
	Create(ctx context.Context, inv *Invoice) error
}
