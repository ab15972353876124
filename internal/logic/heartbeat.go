package logic

import "time"

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp   time.Time
	Uptime      time.Duration
	Transitions int
}

// Heartbeat schedules periodic liveness reports and counts state transitions
// between them.
type Heartbeat struct {
	startTime     time.Time
	lastHeartbeat time.Time
	transitions   int
}

// NewHeartbeat creates a scheduler. The startTime is used for calculating
// uptime in heartbeat data.
func NewHeartbeat(startTime time.Time) *Heartbeat {
	return &Heartbeat{
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// CountTransition records one state transition.
func (h *Heartbeat) CountTransition() {
	h.transitions++
}

// Transitions returns the number of transitions counted since startup.
func (h *Heartbeat) Transitions() int {
	return h.transitions
}

// Check returns heartbeat data if the interval has elapsed since the last
// heartbeat (or startup). Returns nil if the interval has not elapsed, or if
// interval is <= 0 (disabled).
func (h *Heartbeat) Check(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}

	if now.Sub(h.lastHeartbeat) < interval {
		return nil
	}

	h.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp:   now,
		Uptime:      now.Sub(h.startTime),
		Transitions: h.transitions,
	}
}
