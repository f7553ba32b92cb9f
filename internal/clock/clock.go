package clock

import "time"

// TimeProvider is the source of wall-clock time for envelopes, chat
// messages and inventory records.
type TimeProvider interface {
	Now() time.Time
}

// System reads the real clock in UTC.
type System struct{}

func (System) Now() time.Time {
	return time.Now().UTC()
}

// Fixed always returns the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time {
	return time.Time(f)
}
