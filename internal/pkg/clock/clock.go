package clock

import "time"

// Clock is the source of "now" used to stamp punches and bound calculations.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type systemClock struct {
	loc *time.Location
}

// New returns a wall clock reporting local time in loc.
func New(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return systemClock{loc: loc}
}

func (c systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c systemClock) Location() *time.Location {
	return c.loc
}

// FixedClock always reports the same instant. Set moves it.
type FixedClock struct {
	now time.Time
}

func Fixed(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

func (c *FixedClock) Now() time.Time {
	return c.now
}

func (c *FixedClock) Location() *time.Location {
	return c.now.Location()
}

func (c *FixedClock) Set(now time.Time) {
	c.now = now
}
