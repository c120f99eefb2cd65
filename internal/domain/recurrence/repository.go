package recurrence

import (
	"context"
	"time"
)

// Repository defines persistence for recurring invoice definitions.
type Repository interface {
	Create(ctx context.Context, def *Definition) error
	GetByID(ctx context.Context, id string) (*Definition, error)
	// Update persists schedule edits together with the recomputed
	// NextEmission produced by the calculator.
	Update(ctx context.Context, def *Definition) error
	// ListDue returns active definitions whose NextEmission is on or
	// before the given instant, i.e. the ones the emission job must
	// process now.
	ListDue(ctx context.Context, asOf time.Time) ([]*Definition, error)
}
