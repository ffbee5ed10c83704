// Package clock provides time utilities for the application
package clock

import "time"

//go:generate mockgen -destination=mock/mock.go -package=mockclock github.com/tableforge/tableforge/internal/pkg/clock Clock

// Clock provides time functionality
type Clock interface {
	Now() time.Time
}

// Real implements Clock using actual system time
type Real struct{}

// Now returns the current time
func (c *Real) Now() time.Time {
	return time.Now()
}

// New returns a new real clock
func New() Clock {
	return &Real{}
}

// Fixed implements Clock with a frozen time for deterministic tests
type Fixed struct {
	T time.Time
}

// Now returns the fixed time
func (c *Fixed) Now() time.Time {
	return c.T
}

// NewFixed returns a clock frozen at t
func NewFixed(t time.Time) Clock {
	return &Fixed{T: t}
}
