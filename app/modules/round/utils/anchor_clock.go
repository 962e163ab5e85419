package roundutil

import "time"

// AnchorClock is a Clock implementation whose Now/NowUTC always return the
// provided anchor time. An import uses one so every relative date in the file
// resolves against the same moment.
type AnchorClock struct {
	anchor time.Time
}

// NewAnchorClock creates a new AnchorClock. If t is the zero value, the current
// real UTC time is used.
func NewAnchorClock(t time.Time) AnchorClock {
	if t.IsZero() {
		return AnchorClock{anchor: time.Now().UTC()}
	}
	return AnchorClock{anchor: t.UTC()}
}

func (c AnchorClock) Now() time.Time    { return c.anchor }
func (c AnchorClock) NowUTC() time.Time { return c.anchor.UTC() }
