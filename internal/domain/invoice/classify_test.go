package invoice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyBoundaries(t *testing.T) {
	today := date(2024, time.March, 10)

	tests := []struct {
		name    string
		dueDate time.Time
		want    Classification
	}{
		{"one day past due is overdue", date(2024, time.March, 9), ClassOverdue},
		{"due today is due-soon", date(2024, time.March, 10), ClassDueSoon},
		{"due in 3 days is due-soon", date(2024, time.March, 13), ClassDueSoon},
		{"due in 4 days is current", date(2024, time.March, 14), ClassCurrent},
		{"due far in the future is current", date(2024, time.June, 1), ClassCurrent},
		{"long overdue is overdue", date(2023, time.November, 2), ClassOverdue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.dueDate, today))
		})
	}
}

func TestClassifyIgnoresTimeOfDay(t *testing.T) {
	// 23:59 on the due date is still due-soon, not overdue.
	due := time.Date(2024, time.March, 10, 1, 0, 0, 0, time.UTC)
	now := time.Date(2024, time.March, 10, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, ClassDueSoon, Classify(due, now))
}
