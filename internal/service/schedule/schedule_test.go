package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotsFor(t *testing.T) {
	date := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)

	slots := SlotsFor(date)
	require.Len(t, slots, SlotsPerDay)

	assert.Equal(t, time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC), slots[0])
	assert.Equal(t, time.Date(2026, time.March, 14, 16, 0, 0, 0, time.UTC), slots[len(slots)-1])

	for i := 1; i < len(slots); i++ {
		assert.Equal(t, SlotInterval, slots[i].Sub(slots[i-1]), "slots must be hourly and ascending")
	}
}

func TestSlotsForIsDateIndependent(t *testing.T) {
	// The template is identical for every date, only the day shifts.
	a := SlotsFor(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC))
	b := SlotsFor(time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC))

	require.Len(t, a, SlotsPerDay)
	require.Len(t, b, SlotsPerDay)
	for i := range a {
		assert.Equal(t, a[i].Hour(), b[i].Hour())
		assert.Zero(t, a[i].Minute())
		assert.Zero(t, b[i].Minute())
	}
}

func TestSlotsForIgnoresTimeOfDay(t *testing.T) {
	midnight := time.Date(2026, time.May, 2, 0, 0, 0, 0, time.UTC)
	afternoon := time.Date(2026, time.May, 2, 14, 37, 12, 0, time.UTC)

	assert.Equal(t, SlotsFor(midnight), SlotsFor(afternoon))
}

func TestIsCanonical(t *testing.T) {
	day := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)

	for _, slot := range SlotsFor(day) {
		assert.True(t, IsCanonical(slot), "template slot %s must be canonical", slot)
	}

	offTemplate := []time.Time{
		day.Add(8*time.Hour + 30*time.Minute), // 08:30, before opening
		day.Add(17 * time.Hour),               // 17:00, after last slot
		day.Add(8 * time.Hour),                // 08:00
		day.Add(9*time.Hour + time.Minute),    // 09:01
		day.Add(12*time.Hour + time.Second),   // 12:00:01
	}
	for _, instant := range offTemplate {
		assert.False(t, IsCanonical(instant), "%s must not be bookable", instant)
	}
}

func TestIsCanonicalJudgesTheUTCInstant(t *testing.T) {
	// Wall-clock 09:00 in a +00:30 zone denotes 08:30Z; the offset must
	// not disguise an off-template instant as a slot.
	halfAhead := time.FixedZone("half", 30*60)
	assert.False(t, IsCanonical(time.Date(2026, time.March, 14, 9, 0, 0, 0, halfAhead)))

	// The converse also holds: 11:00+02:00 denotes 09:00Z, a real slot.
	twoAhead := time.FixedZone("two", 2*60*60)
	assert.True(t, IsCanonical(time.Date(2026, time.March, 14, 11, 0, 0, 0, twoAhead)))

	// 13:30+04:30 denotes 09:00Z as well.
	halfPastFour := time.FixedZone("fourandahalf", 4*60*60+30*60)
	assert.True(t, IsCanonical(time.Date(2026, time.March, 14, 13, 30, 0, 0, halfPastFour)))
}
