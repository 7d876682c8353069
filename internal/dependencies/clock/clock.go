// Package clock abstracts the time source so repositories can stamp
// createdAt, deletedAt, and message timestamps deterministically under
// test.
package clock

import "time"

// Clock is the time source injected into repositories
type Clock interface {
	Now() time.Time
}

// systemClock reads the wall clock
type systemClock struct{}

// New returns the wall-clock time source used outside of tests
func New() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}
