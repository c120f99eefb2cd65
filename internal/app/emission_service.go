package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"invoice_notification_engine/internal/domain/invoice"
	"invoice_notification_engine/internal/domain/recurrence"
)

// EmissionService turns due recurring definitions into concrete invoices.
// After each emission the definition's counters and NextEmission are
// refreshed; definitions that reach their planned repetition count are
// deactivated.
type EmissionService interface {
	RunEmissions(ctx context.Context) error
}

type EmissionServiceImpl struct {
	defRepo     recurrence.Repository
	invoiceRepo invoice.Repository
	logger      *logrus.Logger
	now         func() time.Time
}

func NewEmissionService(dr recurrence.Repository, ir invoice.Repository, logger *logrus.Logger) *EmissionServiceImpl {
	return &EmissionServiceImpl{
		defRepo:     dr,
		invoiceRepo: ir,
		logger:      logger,
		now:         time.Now,
	}
}

// RunEmissions processes every active definition whose NextEmission has
// arrived. Each definition is handled independently: one failure is
// logged and the rest of the batch continues.
func (s *EmissionServiceImpl) RunEmissions(ctx context.Context) error {
	now := s.now()
	due, err := s.defRepo.ListDue(ctx, now)
	if err != nil {
		s.logger.Errorf("Failed to list due recurring definitions: %v", err)
		return fmt.Errorf("failed to list due recurring definitions: %w", err)
	}
	if len(due) == 0 {
		s.logger.Debug("Emission job: no recurring definitions due")
		return nil
	}

	s.logger.Infof("Emission job: %d recurring definitions due", len(due))
	var failures int
	for _, def := range due {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := s.emit(ctx, def, now); err != nil {
			s.logger.Errorf("Failed to emit invoice for definition %s: %v", def.ID, err)
			failures++
		}
	}
	if failures > 0 {
		return fmt.Errorf("emission job finished with %d failures out of %d definitions", failures, len(due))
	}
	return nil
}

func (s *EmissionServiceImpl) emit(ctx context.Context, def *recurrence.Definition, now time.Time) error {
	if def.Exhausted() {
		// Can happen when a previous run updated the counter but failed
		// before persisting the deactivation.
		def.Active = false
		if err := s.defRepo.Update(ctx, def); err != nil {
			return fmt.Errorf("failed to deactivate exhausted definition: %w", err)
		}
		s.logger.Infof("Deactivated exhausted recurring definition %s", def.ID)
		return nil
	}

	inv := &invoice.Invoice{
		ID:           uuid.NewString(),
		UserID:       def.UserID,
		Number:       fmt.Sprintf("REC-%s-%d", shortID(def.ID), def.RepetitionsDone+1),
		ClientName:   def.ClientName,
		Amount:       def.Amount,
		CreationDate: invoice.Midnight(now),
		PaymentTerm:  invoice.PaymentTerm(def.PaymentTerm),
		Status:       invoice.StatusPending,
	}
	if err := s.invoiceRepo.Create(ctx, inv); err != nil {
		return fmt.Errorf("failed to create emitted invoice: %w", err)
	}

	def.RepetitionsDone++
	if def.Exhausted() {
		def.Active = false
		s.logger.Infof("Recurring definition %s completed its %d planned repetitions", def.ID, def.RepetitionsDone)
	} else {
		// Next occurrence is computed from the day after the emission so
		// the same date is not picked twice.
		next, err := recurrence.NextEmission(def.Frequency, def.EmissionDay, def.EmissionMonths, invoice.Midnight(now).AddDate(0, 0, 1))
		if err != nil {
			return fmt.Errorf("failed to compute next emission: %w", err)
		}
		def.NextEmission = next
	}

	if err := s.defRepo.Update(ctx, def); err != nil {
		return fmt.Errorf("failed to update definition after emission: %w", err)
	}
	s.logger.Infof("Emitted invoice %s (amount %s) for definition %s, repetition %d",
		inv.Number, inv.Amount.StringFixed(2), def.ID, def.RepetitionsDone)
	return nil
}

// shortID keeps invoice numbers readable when definition IDs are UUIDs.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
