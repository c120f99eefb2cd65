package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"invoice_notification_engine/internal/domain/invoice"
)

var ErrInvoiceNotFound = fmt.Errorf("invoice not found")

// chaseableStatuses are the invoice statuses the engine reconciles. Paid
// invoices never reach the classifier.
var chaseableStatuses = []string{
	string(invoice.StatusPending),
	string(invoice.StatusSent),
	string(invoice.StatusToChase),
}

type PostgresInvoiceRepository struct {
	db *sql.DB
}

func NewPostgresInvoiceRepository(db *sql.DB) *PostgresInvoiceRepository {
	return &PostgresInvoiceRepository{db: db}
}

func (r *PostgresInvoiceRepository) ListChaseable(ctx context.Context, userID string) ([]*invoice.Invoice, error) {
	query := `SELECT id, user_id, number, client_name, amount, creation_date, payment_term, status, created_at, updated_at
               FROM invoices
               WHERE user_id = $1 AND status = ANY($2)
               ORDER BY creation_date, id`
	rows, err := r.db.QueryContext(ctx, query, userID, pq.Array(chaseableStatuses))
	if err != nil {
		return nil, fmt.Errorf("error querying chaseable invoices: %w", err)
	}
	defer rows.Close()
	return scanInvoices(rows)
}

func (r *PostgresInvoiceRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT user_id FROM invoices WHERE status = ANY($1) ORDER BY user_id`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(chaseableStatuses))
	if err != nil {
		return nil, fmt.Errorf("error querying users with chaseable invoices: %w", err)
	}
	defer rows.Close()

	userIDs := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning user id row: %w", err)
		}
		userIDs = append(userIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user id rows: %w", err)
	}
	return userIDs, nil
}

func (r *PostgresInvoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	query := `INSERT INTO invoices (id, user_id, number, client_name, amount, creation_date, payment_term, status)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
               RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		inv.ID, inv.UserID, inv.Number, inv.ClientName, inv.Amount, inv.CreationDate, inv.PaymentTerm, inv.Status,
	).Scan(&inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating invoice: %w", err)
	}
	return nil
}

func scanInvoices(rows *sql.Rows) ([]*invoice.Invoice, error) {
	invoices := make([]*invoice.Invoice, 0)
	for rows.Next() {
		inv := invoice.Invoice{}
		if err := rows.Scan(
			&inv.ID, &inv.UserID, &inv.Number, &inv.ClientName, &inv.Amount,
			&inv.CreationDate, &inv.PaymentTerm, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning invoice row: %w", err)
		}
		invoices = append(invoices, &inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice rows: %w", err)
	}
	return invoices, nil
}
