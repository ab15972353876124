package logic

import "time"

// Suppressor answers "did event X happen less than d ago?". It is used to
// ignore a toggle echo that arrives right after the controller forced the
// toggle off itself.
type Suppressor struct {
	window time.Duration
	armed  bool
	at     time.Time
}

// NewSuppressor creates a Suppressor with the given window.
func NewSuppressor(window time.Duration) *Suppressor {
	return &Suppressor{window: window}
}

// Trigger records that the event happened at now.
func (s *Suppressor) Trigger(now time.Time) {
	s.armed = true
	s.at = now
}

// Active reports whether now falls inside the window after the most recent event.
func (s *Suppressor) Active(now time.Time) bool {
	if !s.armed {
		return false
	}
	return now.Sub(s.at) < s.window
}

// Last returns the time of the most recent event and whether one was recorded.
func (s *Suppressor) Last() (time.Time, bool) {
	return s.at, s.armed
}
