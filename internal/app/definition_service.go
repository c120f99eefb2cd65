package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"invoice_notification_engine/internal/domain/recurrence"
)

// DefinitionService manages recurring invoice definitions. Every create or
// schedule edit recomputes NextEmission immediately, so the stored value
// never lags the schedule fields.
type DefinitionService interface {
	CreateDefinition(ctx context.Context, input DefinitionInput) (*recurrence.Definition, error)
	UpdateSchedule(ctx context.Context, id string, input ScheduleInput) (*recurrence.Definition, error)
}

// DefinitionInput carries the fields needed to create a definition.
type DefinitionInput struct {
	UserID             string
	ClientName         string
	Amount             decimal.Decimal
	PaymentTerm        string
	Frequency          recurrence.Frequency
	EmissionDay        int
	EmissionMonths     []time.Month
	RepetitionsPlanned *int
}

// ScheduleInput carries the schedule fields whose change triggers a
// NextEmission recompute.
type ScheduleInput struct {
	Frequency      recurrence.Frequency
	EmissionDay    int
	EmissionMonths []time.Month
}

type DefinitionServiceImpl struct {
	defRepo recurrence.Repository
	logger  *logrus.Logger
	now     func() time.Time
}

func NewDefinitionService(dr recurrence.Repository, logger *logrus.Logger) *DefinitionServiceImpl {
	return &DefinitionServiceImpl{
		defRepo: dr,
		logger:  logger,
		now:     time.Now,
	}
}

// CreateDefinition validates the schedule, computes the first emission
// date and persists the definition. An invalid schedule is rejected and
// nothing is stored.
func (s *DefinitionServiceImpl) CreateDefinition(ctx context.Context, input DefinitionInput) (*recurrence.Definition, error) {
	next, err := recurrence.NextEmission(input.Frequency, input.EmissionDay, input.EmissionMonths, s.now())
	if err != nil {
		s.logger.Warnf("Rejected recurring definition for user %s: %v", input.UserID, err)
		return nil, err
	}

	def := &recurrence.Definition{
		ID:                 uuid.NewString(),
		UserID:             input.UserID,
		ClientName:         input.ClientName,
		Amount:             input.Amount,
		PaymentTerm:        input.PaymentTerm,
		Frequency:          input.Frequency,
		EmissionDay:        input.EmissionDay,
		EmissionMonths:     input.EmissionMonths,
		NextEmission:       next,
		RepetitionsPlanned: input.RepetitionsPlanned,
		Active:             true,
	}
	if err := s.defRepo.Create(ctx, def); err != nil {
		s.logger.Errorf("Failed to create recurring definition for user %s: %v", input.UserID, err)
		return nil, fmt.Errorf("failed to create recurring definition: %w", err)
	}
	s.logger.Infof("Created recurring definition %s for user %s, first emission %s",
		def.ID, def.UserID, next.Format("2006-01-02"))
	return def, nil
}

// UpdateSchedule applies new schedule fields to an existing definition.
// The recompute happens before anything is written: if the new schedule is
// invalid the stored definition, including NextEmission, stays as it was.
func (s *DefinitionServiceImpl) UpdateSchedule(ctx context.Context, id string, input ScheduleInput) (*recurrence.Definition, error) {
	def, err := s.defRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load recurring definition %s: %w", id, err)
	}

	next, err := recurrence.NextEmission(input.Frequency, input.EmissionDay, input.EmissionMonths, s.now())
	if err != nil {
		s.logger.Warnf("Rejected schedule update for definition %s: %v", id, err)
		return nil, err
	}

	def.Frequency = input.Frequency
	def.EmissionDay = input.EmissionDay
	def.EmissionMonths = input.EmissionMonths
	def.NextEmission = next

	if err := s.defRepo.Update(ctx, def); err != nil {
		s.logger.Errorf("Failed to update recurring definition %s: %v", id, err)
		return nil, fmt.Errorf("failed to update recurring definition %s: %w", id, err)
	}
	s.logger.Infof("Updated schedule of recurring definition %s, next emission %s", id, next.Format("2006-01-02"))
	return def, nil
}
