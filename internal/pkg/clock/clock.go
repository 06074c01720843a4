// Package clock is the single source of "now" for the catalog split between
// upcoming and archived screenings and for ticket purchase timestamps.
package clock

import (
	"sync"
	"time"
)

// Precision matches the DATETIME columns the store writes, so a timestamp
// read back from the database equals the one that was stored.
const Precision = time.Second

type Clock interface {
	Now() time.Time
}

// RealClock reads the system time in UTC, truncated to Precision.
type RealClock struct{}

func NewRealClock() Clock {
	return RealClock{}
}

func (RealClock) Now() time.Time {
	return time.Now().UTC().Truncate(Precision)
}

// Fixed reports a pinned instant. It is safe for concurrent use, since
// request handlers read it while a test moves it.
type Fixed struct {
	mu      sync.RWMutex
	current time.Time
}

func NewFixed(t time.Time) *Fixed {
	return &Fixed{current: t}
}

func (f *Fixed) Now() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.current
}

// Advance moves the clock forward by d, e.g. past a screening's start so it
// drops out of the upcoming list.
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	f.current = f.current.Add(d)
	f.mu.Unlock()
}
