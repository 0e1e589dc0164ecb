package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func TestCutoff(t *testing.T) {
	cases := []struct {
		r    Range
		want time.Time
	}{
		{Range24h, time.Date(2025, time.June, 14, 12, 0, 0, 0, time.UTC)},
		{Range7Days, time.Date(2025, time.June, 8, 12, 0, 0, 0, time.UTC)},
		{Range14Days, time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)},
		{Range1Month, time.Date(2025, time.May, 15, 12, 0, 0, 0, time.UTC)},
		{Range3Months, time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)},
		{Range6Months, time.Date(2024, time.December, 15, 12, 0, 0, 0, time.UTC)},
		{Range12Months, time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		if got := Cutoff(tc.r, refNow); !got.Equal(tc.want) {
			t.Errorf("Cutoff(%s): got %v, want %v", tc.r, got, tc.want)
		}
	}
}

func TestCutoffUnknownRangeFallsBackTo12Months(t *testing.T) {
	want := Cutoff(Range12Months, refNow)
	for _, key := range []string{"", "2years", "12MONTHS"} {
		r := Range(key)
		assert.True(t, Cutoff(r, refNow).Equal(want), "raw key %q", key)
		assert.Equal(t, Range12Months, ParseRange(key))
	}
}

func TestCutoffMonotone(t *testing.T) {
	ranges := Ranges()
	require.Len(t, ranges, 7)
	prev := refNow
	for _, r := range ranges {
		c := Cutoff(r, refNow)
		assert.True(t, c.Before(prev), "%s cutoff %v should precede %v", r, c, prev)
		prev = c
	}
}

func TestCutoffMonthOverflowNormalizes(t *testing.T) {
	now := time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)
	got := Cutoff(Range1Month, now)
	assert.Equal(t, time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC), got)
}

func TestWindowIdempotent(t *testing.T) {
	cutoff := Cutoff(Range1Month, refNow)
	rows := []Project{
		{ID: "old", Created: StampOf(refNow.AddDate(0, -2, 0))},
		{ID: "edge", Created: StampOf(cutoff)},
		{ID: "new", Created: StampOf(refNow.AddDate(0, 0, -3))},
		{ID: "bad", Created: Stamp{}},
	}
	stamp := func(p Project) Stamp { return p.Created }

	once := Window(rows, cutoff, stamp)
	twice := Window(once, cutoff, stamp)

	require.Len(t, once, 2)
	assert.Equal(t, "edge", once[0].ID)
	assert.Equal(t, "new", once[1].ID)
	assert.Equal(t, once, twice)
	assert.Len(t, rows, 4, "input must not be modified")
}

func TestRangeLabels(t *testing.T) {
	for _, r := range Ranges() {
		assert.NotEmpty(t, r.Label())
		assert.True(t, r.Valid())
	}
	assert.False(t, Range("forever").Valid())
}
