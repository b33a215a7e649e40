// Package calendar turns instants into ISO day stamps in one configured zone.
// Quotas, streaks and daily topics all roll over on the same boundary.
package calendar

import "time"

const DayLayout = "2006-01-02"

type Clock struct {
	loc *time.Location
	now func() time.Time
}

// New returns a clock for loc. A nil loc means UTC.
func New(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &Clock{loc: loc, now: time.Now}
}

// Fixed returns a clock frozen at t, for tests.
func Fixed(t time.Time, loc *time.Location) *Clock {
	c := New(loc)
	c.now = func() time.Time { return t }
	return c
}

func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

func (c *Clock) Location() *time.Location {
	return c.loc
}

// Today is the day stamp for the current instant.
func (c *Clock) Today() string {
	return c.Day(c.now())
}

func (c *Clock) Day(t time.Time) string {
	return t.In(c.loc).Format(DayLayout)
}

// Parse validates a day stamp.
func (c *Clock) Parse(day string) (time.Time, error) {
	return time.ParseInLocation(DayLayout, day, c.loc)
}

// PreviousDay returns the stamp before day, or "" when day is malformed.
func (c *Clock) PreviousDay(day string) string {
	t, err := c.Parse(day)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(DayLayout)
}
