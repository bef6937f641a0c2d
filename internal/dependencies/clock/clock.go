package clock

import "time"

// Clock is the time source for session and draft expiry
type Clock interface {
	Now() time.Time
}

// System reads the wall clock in UTC
type System struct{}

// New returns the system clock
func New() Clock {
	return System{}
}

func (System) Now() time.Time {
	return time.Now().UTC()
}

// Expired reports whether deadline has passed on c. A deadline equal to now is still live.
func Expired(c Clock, deadline time.Time) bool {
	return c.Now().After(deadline)
}
