package ports

import "time"

// Clock supplies the current time for timestamping and token expiry.
// Injected so tests can drive expiry deterministically.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to the Clock interface.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// UTCClock returns a Clock backed by time.Now in UTC.
func UTCClock() Clock {
	return ClockFunc(func() time.Time { return time.Now().UTC() })
}
