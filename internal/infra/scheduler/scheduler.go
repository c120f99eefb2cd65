package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"invoice_notification_engine/internal/app"
)

const (
	sweepTimeout    = 10 * time.Minute
	emissionTimeout = 5 * time.Minute
)

// EngineScheduler hosts the engine's periodic jobs: the reconciliation
// sweep and the recurring-invoice emission job. Both are idempotent, so a
// missed or doubled trigger is harmless.
type EngineScheduler struct {
	cronEngine        *cron.Cron
	reconcileService  app.ReconciliationService
	emissionService   app.EmissionService
	logger            *logrus.Logger
	cronSpecReconcile string
	cronSpecEmission  string
}

func NewEngineScheduler(
	rs app.ReconciliationService,
	es app.EmissionService,
	logger *logrus.Logger,
	cronSpecReconcile string,
	cronSpecEmission string,
) *EngineScheduler {
	return &EngineScheduler{
		cronEngine:        cron.New(cron.WithLocation(time.Local)),
		reconcileService:  rs,
		emissionService:   es,
		logger:            logger,
		cronSpecReconcile: cronSpecReconcile,
		cronSpecEmission:  cronSpecEmission,
	}
}

func (s *EngineScheduler) Start() {
	s.logger.Info("Starting engine scheduler...")

	// Emission runs before the sweep in the default config so freshly
	// emitted invoices are classified on the same day.
	_, err := s.cronEngine.AddFunc(s.cronSpecEmission, func() {
		s.logger.Info("Cron job triggered: recurring invoice emission")
		ctx, cancel := context.WithTimeout(context.Background(), emissionTimeout)
		defer cancel()
		if err := s.emissionService.RunEmissions(ctx); err != nil {
			s.logger.Errorf("Error during recurring invoice emission: %v", err)
		}
	})
	if err != nil {
		s.logger.Fatalf("Could not add emission cron job: %v", err)
	}

	_, err = s.cronEngine.AddFunc(s.cronSpecReconcile, func() {
		s.logger.Info("Cron job triggered: reconciliation sweep")
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()
		if err := s.reconcileService.RunSweep(ctx); err != nil {
			s.logger.Errorf("Error during reconciliation sweep: %v", err)
		}
	})
	if err != nil {
		s.logger.Fatalf("Could not add reconciliation cron job: %v", err)
	}

	s.cronEngine.Start()
	s.logger.Info("Engine scheduler started with jobs.")
}

func (s *EngineScheduler) Stop() {
	s.logger.Info("Stopping engine scheduler...")
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.logger.Info("Engine scheduler gracefully stopped.")
}
