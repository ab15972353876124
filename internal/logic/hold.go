package logic

import "time"

// Hold tracks how long a condition has been continuously true.
// Any false observation discards the accumulated time; there is no partial credit.
type Hold struct {
	duration time.Duration
	pending  bool
	since    time.Time
}

// NewHold creates a Hold that is satisfied once its condition has been
// observed true continuously for at least d.
func NewHold(d time.Duration) *Hold {
	return &Hold{duration: d}
}

// Observe records one sample of the condition at now and reports whether the
// condition has now held for the full duration. The first true sample after a
// false one (the rising edge) starts the timer and never satisfies the hold by
// itself. A satisfied hold resets, so the caller sees true exactly once per run.
func (h *Hold) Observe(cond bool, now time.Time) bool {
	if !cond {
		h.Reset()
		return false
	}

	if !h.pending {
		h.pending = true
		h.since = now
		return false
	}

	if now.Sub(h.since) >= h.duration {
		h.Reset()
		return true
	}
	return false
}

// Reset discards any tracking in progress.
func (h *Hold) Reset() {
	h.pending = false
	h.since = time.Time{}
}

// Pending reports whether the condition is currently being timed.
func (h *Hold) Pending() bool {
	return h.pending
}

// Elapsed returns how long the condition has been held as of now, or zero
// when nothing is being timed.
func (h *Hold) Elapsed(now time.Time) time.Duration {
	if !h.pending {
		return 0
	}
	return now.Sub(h.since)
}

// Duration returns the configured hold duration.
func (h *Hold) Duration() time.Duration {
	return h.duration
}
