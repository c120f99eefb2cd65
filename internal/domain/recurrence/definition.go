package recurrence

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is how often a recurring definition emits a new invoice.
type Frequency string

const (
	FrequencyMonthly    Frequency = "MONTHLY"
	FrequencyQuarterly  Frequency = "QUARTERLY"
	FrequencySemiannual Frequency = "SEMIANNUAL"
	FrequencyAnnual     Frequency = "ANNUAL"
)

// Definition is a template describing how often, on which day, and in which
// months a new invoice instance is emitted for a client.
//
// EmissionDay is constrained to 1..28 so every month has the day.
// EmissionMonths is consulted only for non-monthly frequencies and must be
// non-empty there. NextEmission is maintained by the engine: recomputed
// whenever the schedule fields change and after every emission.
type Definition struct {
	ID             string
	UserID         string
	ClientName     string
	Amount         decimal.Decimal
	PaymentTerm    string // mirrors invoice.PaymentTerm; copied onto emitted invoices
	Frequency      Frequency
	EmissionDay    int
	EmissionMonths []time.Month
	NextEmission   time.Time
	// RepetitionsPlanned caps how many invoices the definition emits;
	// nil means unlimited. RepetitionsDone is incremented on each emission.
	RepetitionsPlanned *int
	RepetitionsDone    int
	Active             bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Exhausted reports whether the definition has emitted all planned
// repetitions. Unlimited definitions are never exhausted.
func (d *Definition) Exhausted() bool {
	return d.RepetitionsPlanned != nil && d.RepetitionsDone >= *d.RepetitionsPlanned
}
