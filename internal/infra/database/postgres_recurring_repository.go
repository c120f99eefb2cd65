package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"invoice_notification_engine/internal/domain/recurrence"
)

var ErrDefinitionNotFound = fmt.Errorf("recurring invoice definition not found")

type PostgresRecurringRepository struct {
	db *sql.DB
}

func NewPostgresRecurringRepository(db *sql.DB) *PostgresRecurringRepository {
	return &PostgresRecurringRepository{db: db}
}

func (r *PostgresRecurringRepository) Create(ctx context.Context, def *recurrence.Definition) error {
	query := `INSERT INTO recurring_definitions
               (id, user_id, client_name, amount, payment_term, frequency, emission_day, emission_months,
                next_emission, repetitions_planned, repetitions_done, active)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
               RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		def.ID, def.UserID, def.ClientName, def.Amount, def.PaymentTerm,
		def.Frequency, def.EmissionDay, pq.Array(monthsToInts(def.EmissionMonths)),
		def.NextEmission, nullableInt(def.RepetitionsPlanned), def.RepetitionsDone, def.Active,
	).Scan(&def.CreatedAt, &def.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating recurring definition: %w", err)
	}
	return nil
}

func (r *PostgresRecurringRepository) GetByID(ctx context.Context, id string) (*recurrence.Definition, error) {
	query := `SELECT id, user_id, client_name, amount, payment_term, frequency, emission_day, emission_months,
                      next_emission, repetitions_planned, repetitions_done, active, created_at, updated_at
               FROM recurring_definitions WHERE id = $1`
	def, err := scanDefinition(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrDefinitionNotFound
		}
		return nil, fmt.Errorf("error getting recurring definition by ID: %w", err)
	}
	return def, nil
}

func (r *PostgresRecurringRepository) Update(ctx context.Context, def *recurrence.Definition) error {
	query := `UPDATE recurring_definitions
               SET client_name = $1, amount = $2, payment_term = $3, frequency = $4, emission_day = $5,
                   emission_months = $6, next_emission = $7, repetitions_planned = $8, repetitions_done = $9,
                   active = $10, updated_at = NOW()
               WHERE id = $11
               RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query,
		def.ClientName, def.Amount, def.PaymentTerm, def.Frequency, def.EmissionDay,
		pq.Array(monthsToInts(def.EmissionMonths)), def.NextEmission,
		nullableInt(def.RepetitionsPlanned), def.RepetitionsDone, def.Active, def.ID,
	).Scan(&def.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrDefinitionNotFound
		}
		return fmt.Errorf("error updating recurring definition: %w", err)
	}
	return nil
}

func (r *PostgresRecurringRepository) ListDue(ctx context.Context, asOf time.Time) ([]*recurrence.Definition, error) {
	query := `SELECT id, user_id, client_name, amount, payment_term, frequency, emission_day, emission_months,
                      next_emission, repetitions_planned, repetitions_done, active, created_at, updated_at
               FROM recurring_definitions
               WHERE active = TRUE AND next_emission <= $1
               ORDER BY next_emission, id`
	rows, err := r.db.QueryContext(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("error querying due recurring definitions: %w", err)
	}
	defer rows.Close()

	defs := make([]*recurrence.Definition, 0)
	for rows.Next() {
		def, err := scanDefinition(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning recurring definition row: %w", err)
		}
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recurring definition rows: %w", err)
	}
	return defs, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDefinition(row rowScanner) (*recurrence.Definition, error) {
	def := recurrence.Definition{}
	var months pq.Int64Array
	var planned sql.NullInt64
	if err := row.Scan(
		&def.ID, &def.UserID, &def.ClientName, &def.Amount, &def.PaymentTerm,
		&def.Frequency, &def.EmissionDay, &months,
		&def.NextEmission, &planned, &def.RepetitionsDone, &def.Active,
		&def.CreatedAt, &def.UpdatedAt,
	); err != nil {
		return nil, err
	}
	def.EmissionMonths = intsToMonths(months)
	if planned.Valid {
		v := int(planned.Int64)
		def.RepetitionsPlanned = &v
	}
	return &def, nil
}

func monthsToInts(months []time.Month) []int64 {
	out := make([]int64, 0, len(months))
	for _, m := range months {
		out = append(out, int64(m))
	}
	return out
}

func intsToMonths(values pq.Int64Array) []time.Month {
	if len(values) == 0 {
		return nil
	}
	out := make([]time.Month, 0, len(values))
	for _, v := range values {
		out = append(out, time.Month(v))
	}
	return out
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
