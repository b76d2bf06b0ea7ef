package wizard

import "time"

// Clock supplies wall-clock time to the booking rules. Deadline and slot
// buffer checks read it at evaluation time, never at session creation, so a
// session left open across the Saturday cutoff sees the new state.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the real-time clock used outside tests.
func SystemClock() Clock { return systemClock{} }
