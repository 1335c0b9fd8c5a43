// Package gameweek owns the weekly boundary arithmetic every other
// component keys its rows on. All week keys must come from a Clock;
// recomputing boundaries at a call site is how duplicate rows happen.
package gameweek

import (
	"time"
	_ "time/tzdata" // the reference zone must resolve on zoneless hosts
)

// ReferenceZone is the fixed zone gameweeks roll over in.
const ReferenceZone = "Europe/London"

// A week key is the Monday 00:00 wall-clock instant of the reference zone,
// normalized into a zone-less representation: the same wall-clock fields
// re-expressed in UTC. That keeps stored keys stable across DST shifts and
// lets them be compared byte-for-byte in SQL.
type Clock struct {
	loc *time.Location
}

func NewClock() *Clock {
	loc, err := time.LoadLocation(ReferenceZone)
	if err != nil {
		// Unreachable with the embedded zone database.
		panic("gameweek: " + err.Error())
	}
	return &Clock{loc: loc}
}

// ThisWeekStart returns the week key covering now.
func (c *Clock) ThisWeekStart(now time.Time) time.Time {
	local := now.In(c.loc)
	daysSinceMonday := (int(local.Weekday()) + 6) % 7
	monday := local.AddDate(0, 0, -daysSinceMonday)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC)
}

// NextWeekStart returns the week key immediately after the one covering now.
func (c *Clock) NextWeekStart(now time.Time) time.Time {
	return c.ThisWeekStart(now).AddDate(0, 0, 7)
}

// WeekEnd returns the exclusive end key of the week starting at weekStart.
func (c *Clock) WeekEnd(weekStart time.Time) time.Time {
	return weekStart.AddDate(0, 0, 7)
}

// WeekWindowUTC maps a week key back to the real half-open UTC interval it
// denotes, for filtering match rows stored with absolute timestamps. The key's
// wall-clock fields are re-interpreted in the reference zone, so the window is
// 167 or 169 hours long on DST transition weeks.
func (c *Clock) WeekWindowUTC(weekStart time.Time) (time.Time, time.Time) {
	start := time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, c.loc)
	end := start.AddDate(0, 0, 7)
	return start.UTC(), end.UTC()
}

// IsWeekKey reports whether t is a canonical week key. Useful for validating
// caller-supplied week_start parameters before they reach storage.
func (c *Clock) IsWeekKey(t time.Time) bool {
	t = t.UTC()
	return t.Equal(c.ThisWeekStart(time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, c.loc)))
}
