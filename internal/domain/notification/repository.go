package notification

import "context"

// Repository defines the engine's read surface over the notification
// collection. Writes go exclusively through the BatchApplier so that
// per-invoice ordering is preserved.
type Repository interface {
	ListForUser(ctx context.Context, userID string) ([]*Notification, error)
}
