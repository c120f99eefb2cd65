package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"invoice_notification_engine/internal/domain/invoice"
	"invoice_notification_engine/internal/domain/notification"
	"invoice_notification_engine/internal/domain/recurrence"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeInvoiceRepo is an in-memory invoice.Repository.
type fakeInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[string]*invoice.Invoice
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[string]*invoice.Invoice)}
}

func (f *fakeInvoiceRepo) add(inv *invoice.Invoice) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invoices[inv.ID] = inv
}

func (f *fakeInvoiceRepo) get(id string) *invoice.Invoice {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.invoices[id]
}

func (f *fakeInvoiceRepo) ListChaseable(_ context.Context, userID string) ([]*invoice.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*invoice.Invoice, 0)
	for _, inv := range f.invoices {
		if inv.UserID == userID && inv.Chaseable() {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeInvoiceRepo) ListUserIDs(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := make(map[string]bool)
	for _, inv := range f.invoices {
		if inv.Chaseable() {
			seen[inv.UserID] = true
		}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeInvoiceRepo) Create(_ context.Context, inv *invoice.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.invoices[inv.ID]; ok {
		return fmt.Errorf("invoice %s already exists", inv.ID)
	}
	f.invoices[inv.ID] = inv
	return nil
}

// fakeNotificationStore is an in-memory notification.Repository and
// notification.BatchApplier. With failAfter >= 0 the applier commits that
// many operations and then fails, simulating a partial batch.
type fakeNotificationStore struct {
	mu        sync.Mutex
	notifs    map[string]*notification.Notification
	invoices  *fakeInvoiceRepo
	failAfter int
}

func newFakeNotificationStore(invoices *fakeInvoiceRepo) *fakeNotificationStore {
	return &fakeNotificationStore{
		notifs:    make(map[string]*notification.Notification),
		invoices:  invoices,
		failAfter: -1,
	}
}

func (f *fakeNotificationStore) add(n *notification.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifs[n.ID] = n
}

func (f *fakeNotificationStore) byKind(invoiceID string, kind notification.Kind) []*notification.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*notification.Notification, 0)
	for _, n := range f.notifs {
		if n.InvoiceID == invoiceID && n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

func (f *fakeNotificationStore) ListForUser(_ context.Context, userID string) ([]*notification.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*notification.Notification, 0)
	for _, n := range f.notifs {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeNotificationStore) Apply(_ context.Context, userID string, ops []notification.Operation) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, op := range ops {
		if f.failAfter >= 0 && i >= f.failAfter {
			return i, errors.New("store unavailable")
		}
		switch op.Kind {
		case notification.OpCreateNotification:
			f.notifs[op.Create.ID] = op.Create
		case notification.OpDeleteNotification:
			delete(f.notifs, op.NotificationID)
		case notification.OpSetInvoiceStatus:
			inv := f.invoices.get(op.InvoiceID)
			if inv == nil || inv.UserID != userID {
				return i, fmt.Errorf("invoice %s not found", op.InvoiceID)
			}
			inv.Status = op.Status
		}
	}
	return len(ops), nil
}

// fakeRecurringRepo is an in-memory recurrence.Repository.
type fakeRecurringRepo struct {
	mu   sync.Mutex
	defs map[string]*recurrence.Definition
}

func newFakeRecurringRepo() *fakeRecurringRepo {
	return &fakeRecurringRepo{defs: make(map[string]*recurrence.Definition)}
}

func (f *fakeRecurringRepo) Create(_ context.Context, def *recurrence.Definition) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.defs[def.ID]; ok {
		return fmt.Errorf("definition %s already exists", def.ID)
	}
	f.defs[def.ID] = cloneDefinition(def)
	return nil
}

func (f *fakeRecurringRepo) GetByID(_ context.Context, id string) (*recurrence.Definition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	def, ok := f.defs[id]
	if !ok {
		return nil, fmt.Errorf("definition %s not found", id)
	}
	return cloneDefinition(def), nil
}

func (f *fakeRecurringRepo) Update(_ context.Context, def *recurrence.Definition) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.defs[def.ID]; !ok {
		return fmt.Errorf("definition %s not found", def.ID)
	}
	f.defs[def.ID] = cloneDefinition(def)
	return nil
}

func (f *fakeRecurringRepo) ListDue(_ context.Context, asOf time.Time) ([]*recurrence.Definition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*recurrence.Definition, 0)
	for _, def := range f.defs {
		if def.Active && !def.NextEmission.After(asOf) {
			out = append(out, cloneDefinition(def))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRecurringRepo) stored(id string) *recurrence.Definition {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneDefinition(f.defs[id])
}

func cloneDefinition(def *recurrence.Definition) *recurrence.Definition {
	if def == nil {
		return nil
	}
	clone := *def
	clone.EmissionMonths = append([]time.Month(nil), def.EmissionMonths...)
	if def.RepetitionsPlanned != nil {
		v := *def.RepetitionsPlanned
		clone.RepetitionsPlanned = &v
	}
	return &clone
}
