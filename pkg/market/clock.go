package market

import "time"

// Clock is a monotonic-enough wall-clock source, seconds since the Unix
// epoch. Injectable so tests can simulate expiration without sleeping.
type Clock interface {
	Now() uint64
}

// SystemClock is the production Clock, backed by time.Now().
type SystemClock struct{}

// Now returns the current time in seconds since the Unix epoch.
func (SystemClock) Now() uint64 {
	return uint64(time.Now().Unix())
}

// ManualClock is a Clock whose value is set explicitly, for deterministic
// tests that need to simulate expiration.
type ManualClock struct {
	t uint64
}

// NewManualClock returns a ManualClock initialized to t.
func NewManualClock(t uint64) *ManualClock {
	return &ManualClock{t: t}
}

// Now returns the clock's current value.
func (c *ManualClock) Now() uint64 {
	return c.t
}

// Set advances (or rewinds) the clock to t.
func (c *ManualClock) Set(t uint64) {
	c.t = t
}

// Advance moves the clock forward by delta seconds and returns the new value.
func (c *ManualClock) Advance(delta uint64) uint64 {
	c.t += delta
	return c.t
}
