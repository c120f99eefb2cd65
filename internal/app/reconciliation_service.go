package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"invoice_notification_engine/internal/domain/invoice"
	"invoice_notification_engine/internal/domain/notification"
)

// ReconciliationService drives the invoice lifecycle engine: it keeps the
// notification collection and invoice statuses in step with what each
// user's due dates say they should be.
type ReconciliationService interface {
	// RunPass reconciles one user. Safe to invoke repeatedly: with no
	// invoice changes in between, a second pass applies zero operations.
	RunPass(ctx context.Context, userID string) (*PassSummary, error)
	// RunSweep reconciles every user who currently has chaseable
	// invoices. Per-user failures are logged and do not stop the sweep.
	RunSweep(ctx context.Context) error
}

// PassSummary reports what one reconciliation pass did.
type PassSummary struct {
	UserID        string
	Created       int
	Deleted       int
	StatusChanges int
	Applied       int
}

// ReconciliationServiceImpl implements ReconciliationService over the
// domain repositories and the batch applier.
type ReconciliationServiceImpl struct {
	invoiceRepo invoice.Repository
	notifRepo   notification.Repository
	applier     notification.BatchApplier
	logger      *logrus.Logger
	now         func() time.Time

	// userLocks serializes concurrent passes for the same user. Without
	// it two overlapping passes can both observe a missing notification
	// and both create one; the deduplicator would heal that on the next
	// pass, but serializing in-process avoids the window entirely.
	userLocks sync.Map // userID -> *sync.Mutex
}

func NewReconciliationService(
	ir invoice.Repository,
	nr notification.Repository,
	ba notification.BatchApplier,
	logger *logrus.Logger,
) *ReconciliationServiceImpl {
	return &ReconciliationServiceImpl{
		invoiceRepo: ir,
		notifRepo:   nr,
		applier:     ba,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *ReconciliationServiceImpl) lockFor(userID string) *sync.Mutex {
	mu, _ := s.userLocks.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// RunPass executes one reconciliation pass for the given user.
func (s *ReconciliationServiceImpl) RunPass(ctx context.Context, userID string) (*PassSummary, error) {
	mu := s.lockFor(userID)
	mu.Lock()
	defer mu.Unlock()

	s.logger.Infof("Starting reconciliation pass for user %s", userID)

	notifs, err := s.notifRepo.ListForUser(ctx, userID)
	if err != nil {
		s.logger.Errorf("Failed to list notifications for user %s: %v", userID, err)
		return nil, fmt.Errorf("failed to list notifications for user %s: %w", userID, err)
	}

	invoices, err := s.invoiceRepo.ListChaseable(ctx, userID)
	if err != nil {
		s.logger.Errorf("Failed to list chaseable invoices for user %s: %v", userID, err)
		return nil, fmt.Errorf("failed to list chaseable invoices for user %s: %w", userID, err)
	}

	existing, stale := notification.Deduplicate(notifs)
	if len(stale) > 0 {
		s.logger.Warnf("Found %d duplicate notifications for user %s; scheduling deletion", len(stale), userID)
	}

	ops := buildPlan(invoices, existing, stale, s.now())

	summary := &PassSummary{UserID: userID}
	for _, op := range ops {
		switch op.Kind {
		case notification.OpCreateNotification:
			summary.Created++
		case notification.OpDeleteNotification:
			summary.Deleted++
		case notification.OpSetInvoiceStatus:
			summary.StatusChanges++
		}
	}

	if len(ops) == 0 {
		s.logger.Infof("Reconciliation pass for user %s: already converged, nothing to apply", userID)
		return summary, nil
	}

	applied, err := s.applier.Apply(ctx, userID, ops)
	summary.Applied = applied
	if err != nil {
		// A partial batch is a valid intermediate state; the next pass
		// picks up where this one stopped.
		s.logger.Errorf("Batch apply for user %s stopped after %d/%d operations: %v", userID, applied, len(ops), err)
		return summary, fmt.Errorf("batch apply for user %s failed after %d operations: %w", userID, applied, err)
	}

	s.logger.Infof("Reconciliation pass for user %s applied %d operations (%d created, %d deleted, %d status changes)",
		userID, applied, summary.Created, summary.Deleted, summary.StatusChanges)
	return summary, nil
}

// RunSweep reconciles all users with chaseable invoices, one after another.
func (s *ReconciliationServiceImpl) RunSweep(ctx context.Context) error {
	userIDs, err := s.invoiceRepo.ListUserIDs(ctx)
	if err != nil {
		s.logger.Errorf("Failed to list users for reconciliation sweep: %v", err)
		return fmt.Errorf("failed to list users for sweep: %w", err)
	}
	if len(userIDs) == 0 {
		s.logger.Info("Reconciliation sweep: no users with chaseable invoices")
		return nil
	}

	s.logger.Infof("Reconciliation sweep over %d users", len(userIDs))
	var failures int
	for _, userID := range userIDs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := s.RunPass(ctx, userID); err != nil {
			// Logged inside RunPass; keep sweeping the other users.
			failures++
		}
	}
	if failures > 0 {
		return fmt.Errorf("reconciliation sweep finished with %d failed users out of %d", failures, len(userIDs))
	}
	s.logger.Info("Reconciliation sweep completed successfully")
	return nil
}
