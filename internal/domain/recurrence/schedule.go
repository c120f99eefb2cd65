package recurrence

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrInvalidConfiguration rejects a definition whose schedule fields cannot
// produce an emission date: an emission day outside 1..28, or a non-monthly
// frequency with no emission months. The previous NextEmission value is
// left untouched by callers when this is returned.
var ErrInvalidConfiguration = errors.New("invalid recurrence configuration")

// NextEmission computes the first emission date on or after the reference
// instant for the given schedule. The result always falls on emissionDay
// (clamped to the end of a shorter month) and, for non-monthly frequencies,
// in one of the allowed months. The reference's time-of-day is ignored; a
// candidate on the reference date itself has not yet passed.
func NextEmission(freq Frequency, emissionDay int, emissionMonths []time.Month, reference time.Time) (time.Time, error) {
	if emissionDay < 1 || emissionDay > 28 {
		return time.Time{}, fmt.Errorf("%w: emission day %d outside 1..28", ErrInvalidConfiguration, emissionDay)
	}

	today := time.Date(reference.Year(), reference.Month(), reference.Day(), 0, 0, 0, 0, time.UTC)

	if freq == FrequencyMonthly {
		candidate := dateClamped(today.Year(), today.Month(), emissionDay)
		if candidate.Before(today) {
			candidate = dateClamped(today.Year(), today.Month()+1, emissionDay)
		}
		return candidate, nil
	}

	if len(emissionMonths) == 0 {
		return time.Time{}, fmt.Errorf("%w: %s frequency requires emission months", ErrInvalidConfiguration, freq)
	}

	months := append([]time.Month(nil), emissionMonths...)
	sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })

	// Walk the allowed months starting from the reference month, wrapping
	// into the next year once, and take the first candidate not yet passed.
	for yearOffset := 0; yearOffset <= 1; yearOffset++ {
		for _, m := range months {
			candidate := dateClamped(today.Year()+yearOffset, m, emissionDay)
			if !candidate.Before(today) {
				return candidate, nil
			}
		}
	}
	// Unreachable: the wrap year always yields a future date.
	return time.Time{}, fmt.Errorf("%w: no emission month produced a future date", ErrInvalidConfiguration)
}

// dateClamped builds a date clamping the day to the month's length. With
// emissionDay capped at 28 the clamp never fires, but it keeps the function
// total for any input.
func dateClamped(year int, month time.Month, day int) time.Time {
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
