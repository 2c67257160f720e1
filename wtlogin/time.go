package wtlogin

import "time"

// TimeProvider abstracts time for deterministic testing of key expiry.
type TimeProvider interface {
	Now() time.Time
}

// DefaultTimeProvider uses the standard library clock.
type DefaultTimeProvider struct{}

// Now returns the current time.
func (DefaultTimeProvider) Now() time.Time { return time.Now() }
