package gameweek

import (
	"testing"
	"time"
)

func mustClock(t *testing.T) *Clock {
	t.Helper()
	return NewClock()
}

// Sweep a full year hour by hour (covering both UK DST transitions) and check
// that every instant maps to exactly one canonical key and that all derived
// quantities agree with each other.
func TestWeekKeyEquivalenceSweep(t *testing.T) {
	c := mustClock(t)
	loc, _ := time.LoadLocation(ReferenceZone)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 365*24; i++ {
		now := start.Add(time.Duration(i) * time.Hour)
		key := c.ThisWeekStart(now)

		if key.Weekday() != time.Monday {
			t.Fatalf("key %v for now=%v is not a Monday", key, now)
		}
		if key.Hour() != 0 || key.Minute() != 0 || key.Second() != 0 || key.Nanosecond() != 0 {
			t.Fatalf("key %v for now=%v has non-zero clock fields", key, now)
		}
		if !c.IsWeekKey(key) {
			t.Fatalf("IsWeekKey(%v) = false for derived key", key)
		}

		// The instant must fall inside the real window its key denotes.
		lo, hi := c.WeekWindowUTC(key)
		if now.Before(lo) || !now.Before(hi) {
			t.Fatalf("now=%v outside window [%v, %v) of key %v", now, lo, hi, key)
		}

		// Re-deriving from any instant inside the window yields the same key.
		for _, probe := range []time.Time{lo, hi.Add(-time.Second), lo.Add(77 * time.Hour)} {
			if got := c.ThisWeekStart(probe); !got.Equal(key) {
				t.Fatalf("ThisWeekStart(%v) = %v, want %v", probe, got, key)
			}
		}

		if next := c.NextWeekStart(now); !next.Equal(key.AddDate(0, 0, 7)) {
			t.Fatalf("NextWeekStart(%v) = %v, want %v", now, next, key.AddDate(0, 0, 7))
		}
		if end := c.WeekEnd(key); !end.Equal(key.AddDate(0, 0, 7)) {
			t.Fatalf("WeekEnd(%v) = %v", key, end)
		}

		// Key wall-clock date matches the London-local Monday.
		local := now.In(loc)
		daysBack := (int(local.Weekday()) + 6) % 7
		monday := local.AddDate(0, 0, -daysBack)
		if key.Year() != monday.Year() || key.Month() != monday.Month() || key.Day() != monday.Day() {
			t.Fatalf("key date %v does not match London Monday %v (now=%v)", key, monday, now)
		}
	}
}

func TestWeekWindowDSTLengths(t *testing.T) {
	c := mustClock(t)
	cases := []struct {
		key   time.Time
		hours float64
	}{
		// Clocks go forward Sunday 2025-03-30: a 167 hour week.
		{time.Date(2025, 3, 24, 0, 0, 0, 0, time.UTC), 167},
		// Clocks go back Sunday 2025-10-26: a 169 hour week.
		{time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC), 169},
		// An ordinary week.
		{time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), 168},
	}
	for _, tc := range cases {
		lo, hi := c.WeekWindowUTC(tc.key)
		if got := hi.Sub(lo).Hours(); got != tc.hours {
			t.Fatalf("window for %v spans %.0f hours, want %.0f", tc.key, got, tc.hours)
		}
	}
}

func TestIsWeekKeyRejectsOffsetRounding(t *testing.T) {
	c := mustClock(t)
	key := c.ThisWeekStart(time.Date(2025, 5, 14, 9, 30, 0, 0, time.UTC))

	bad := []time.Time{
		key.Add(time.Minute),        // legacy Monday 00:01 rounding
		key.Add(time.Hour),          // top-of-hour drift
		key.AddDate(0, 0, 1),        // not a Monday
		key.Add(-time.Second),       // Sunday 23:59:59
	}
	for _, b := range bad {
		if c.IsWeekKey(b) {
			t.Fatalf("IsWeekKey(%v) = true, want false", b)
		}
	}
	if !c.IsWeekKey(key) {
		t.Fatalf("IsWeekKey(%v) = false, want true", key)
	}
}

func TestThisWeekStartAcrossMidnightMonday(t *testing.T) {
	c := mustClock(t)
	loc, _ := time.LoadLocation(ReferenceZone)

	// One second before Monday 00:00 London belongs to the prior week.
	before := time.Date(2025, 6, 8, 23, 59, 59, 0, loc)
	after := time.Date(2025, 6, 9, 0, 0, 0, 0, loc)

	prev := c.ThisWeekStart(before)
	cur := c.ThisWeekStart(after)
	if !cur.Equal(prev.AddDate(0, 0, 7)) {
		t.Fatalf("boundary rollover: prev=%v cur=%v", prev, cur)
	}
	if !cur.Equal(time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("cur = %v, want 2025-06-09 key", cur)
	}
}
