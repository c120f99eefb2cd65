package database

import (
	"context"
	"database/sql"
	"fmt"

	"invoice_notification_engine/internal/domain/notification"
)

var ErrNotificationNotFound = fmt.Errorf("notification not found")
var ErrUnknownOperation = fmt.Errorf("unknown batch operation kind")

type PostgresNotificationRepository struct {
	db *sql.DB
}

func NewPostgresNotificationRepository(db *sql.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) ListForUser(ctx context.Context, userID string) ([]*notification.Notification, error) {
	query := `SELECT id, user_id, invoice_id, kind, read, amount, invoice_number, client_name, created_at
               FROM notifications
               WHERE user_id = $1
               ORDER BY created_at DESC, id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying notifications for user: %w", err)
	}
	defer rows.Close()

	notifs := make([]*notification.Notification, 0)
	for rows.Next() {
		n := notification.Notification{}
		if err := rows.Scan(
			&n.ID, &n.UserID, &n.InvoiceID, &n.Kind, &n.Read,
			&n.Amount, &n.InvoiceNumber, &n.ClientName, &n.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning notification row: %w", err)
		}
		notifs = append(notifs, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification rows: %w", err)
	}
	return notifs, nil
}

// Apply commits a reconciliation batch one operation at a time, in the
// order given. The batch is deliberately not wrapped in a transaction:
// the reconciler tolerates a partially applied batch (the next pass
// converges), and per-operation commits keep the ordering contract simple.
// Apply returns how many operations succeeded before any failure.
func (r *PostgresNotificationRepository) Apply(ctx context.Context, userID string, ops []notification.Operation) (int, error) {
	for i, op := range ops {
		var err error
		switch op.Kind {
		case notification.OpCreateNotification:
			err = r.createNotification(ctx, op.Create)
		case notification.OpDeleteNotification:
			err = r.deleteNotification(ctx, userID, op.NotificationID)
		case notification.OpSetInvoiceStatus:
			err = r.setInvoiceStatus(ctx, userID, op.InvoiceID, string(op.Status))
		default:
			err = fmt.Errorf("%w: %s", ErrUnknownOperation, op.Kind)
		}
		if err != nil {
			return i, fmt.Errorf("error applying batch operation %d (%s): %w", i, op.Kind, err)
		}
	}
	return len(ops), nil
}

func (r *PostgresNotificationRepository) createNotification(ctx context.Context, n *notification.Notification) error {
	query := `INSERT INTO notifications (id, user_id, invoice_id, kind, read, amount, invoice_number, client_name, created_at)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		n.ID, n.UserID, n.InvoiceID, n.Kind, n.Read, n.Amount, n.InvoiceNumber, n.ClientName, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error creating notification: %w", err)
	}
	return nil
}

func (r *PostgresNotificationRepository) deleteNotification(ctx context.Context, userID, id string) error {
	// Deleting an already-deleted notification is not an error: a
	// concurrent pass may have removed the same duplicate first.
	query := `DELETE FROM notifications WHERE id = $1 AND user_id = $2`
	if _, err := r.db.ExecContext(ctx, query, id, userID); err != nil {
		return fmt.Errorf("error deleting notification: %w", err)
	}
	return nil
}

func (r *PostgresNotificationRepository) setInvoiceStatus(ctx context.Context, userID, invoiceID, status string) error {
	query := `UPDATE invoices SET status = $1, updated_at = NOW() WHERE id = $2 AND user_id = $3`
	res, err := r.db.ExecContext(ctx, query, status, invoiceID, userID)
	if err != nil {
		return fmt.Errorf("error updating invoice status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows for invoice status update: %w", err)
	}
	if affected == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}
