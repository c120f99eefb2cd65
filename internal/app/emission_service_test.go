package app

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoice_notification_engine/internal/domain/invoice"
	"invoice_notification_engine/internal/domain/recurrence"
)

func newTestEmitter(t *testing.T) (*EmissionServiceImpl, *fakeRecurringRepo, *fakeInvoiceRepo) {
	t.Helper()
	defs := newFakeRecurringRepo()
	invoices := newFakeInvoiceRepo()
	svc := NewEmissionService(defs, invoices, testLogger())
	svc.now = func() time.Time { return fixedNow }
	return svc, defs, invoices
}

func monthlyDefinition(planned *int) *recurrence.Definition {
	return &recurrence.Definition{
		ID:                 uuid.NewString(),
		UserID:             "user-1",
		ClientName:         "Acme SARL",
		Amount:             decimal.NewFromInt(450),
		PaymentTerm:        string(invoice.TermThirtyDays),
		Frequency:          recurrence.FrequencyMonthly,
		EmissionDay:        1,
		NextEmission:       date(2024, time.March, 1),
		RepetitionsPlanned: planned,
		Active:             true,
	}
}

func TestRunEmissionsCreatesInvoiceAndReschedules(t *testing.T) {
	svc, defs, invoices := newTestEmitter(t)
	def := monthlyDefinition(nil)
	require.NoError(t, defs.Create(context.Background(), def))

	require.NoError(t, svc.RunEmissions(context.Background()))

	emitted, err := invoices.ListChaseable(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, emitted, 1)
	assert.Equal(t, invoice.StatusPending, emitted[0].Status)
	assert.Equal(t, invoice.TermThirtyDays, emitted[0].PaymentTerm)
	assert.Equal(t, date(2024, time.March, 1), emitted[0].CreationDate)
	assert.True(t, decimal.NewFromInt(450).Equal(emitted[0].Amount))

	stored := defs.stored(def.ID)
	assert.Equal(t, 1, stored.RepetitionsDone)
	assert.True(t, stored.Active)
	// Rescheduled past the emission date, not onto it again.
	assert.Equal(t, date(2024, time.April, 1), stored.NextEmission)
}

func TestRunEmissionsSkipsDefinitionsNotYetDue(t *testing.T) {
	svc, defs, invoices := newTestEmitter(t)
	def := monthlyDefinition(nil)
	def.NextEmission = date(2024, time.March, 2)
	require.NoError(t, defs.Create(context.Background(), def))

	require.NoError(t, svc.RunEmissions(context.Background()))

	emitted, err := invoices.ListChaseable(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, emitted)
	assert.Equal(t, 0, defs.stored(def.ID).RepetitionsDone)
}

func TestRunEmissionsDeactivatesAfterLastRepetition(t *testing.T) {
	svc, defs, invoices := newTestEmitter(t)
	planned := 1
	def := monthlyDefinition(&planned)
	require.NoError(t, defs.Create(context.Background(), def))

	require.NoError(t, svc.RunEmissions(context.Background()))

	emitted, err := invoices.ListChaseable(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, emitted, 1)

	stored := defs.stored(def.ID)
	assert.Equal(t, 1, stored.RepetitionsDone)
	assert.False(t, stored.Active)

	// A second run finds nothing due and emits nothing.
	require.NoError(t, svc.RunEmissions(context.Background()))
	emitted, err = invoices.ListChaseable(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, emitted, 1)
}

func TestRunEmissionsDeactivatesAlreadyExhaustedWithoutEmitting(t *testing.T) {
	svc, defs, invoices := newTestEmitter(t)
	planned := 2
	def := monthlyDefinition(&planned)
	// An earlier run bumped the counter but crashed before deactivating.
	def.RepetitionsDone = 2
	require.NoError(t, defs.Create(context.Background(), def))

	require.NoError(t, svc.RunEmissions(context.Background()))

	emitted, err := invoices.ListChaseable(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, emitted)
	assert.False(t, defs.stored(def.ID).Active)
}
