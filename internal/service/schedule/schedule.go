// Package schedule produces the canonical bookable slots for a
// calendar date. Every doctor shares the same template: eight hourly
// slots from 09:00 through 16:00 inclusive.
package schedule

import (
	"time"
)

const (
	OpeningHour  = 9
	SlotsPerDay  = 8
	SlotInterval = time.Hour
)

// SlotsFor returns the slot instants for the given calendar date in
// ascending order. It is a pure function of the date: the same date
// always yields the same eight instants.
func SlotsFor(date time.Time) []time.Time {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	first := day.Add(OpeningHour * time.Hour)

	slots := make([]time.Time, 0, SlotsPerDay)
	for i := 0; i < SlotsPerDay; i++ {
		slots = append(slots, first.Add(time.Duration(i)*SlotInterval))
	}
	return slots
}

// IsCanonical reports whether t is one of the template slots of its
// calendar date. The canonical calendar is UTC: an instant carrying a
// client-supplied offset is judged by the UTC instant it denotes, so
// 09:00+00:30 is the off-template 08:30Z, not a bookable slot.
func IsCanonical(t time.Time) bool {
	t = t.UTC()
	if t.Minute() != 0 || t.Second() != 0 || t.Nanosecond() != 0 {
		return false
	}
	return t.Hour() >= OpeningHour && t.Hour() < OpeningHour+SlotsPerDay
}
