package logic

import (
	"testing"
	"time"
)

func TestHeartbeatDisabled(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	h := NewHeartbeat(start)

	if hb := h.Check(start.Add(time.Hour), 0); hb != nil {
		t.Error("expected nil heartbeat when interval is 0")
	}
	if hb := h.Check(start.Add(time.Hour), -time.Second); hb != nil {
		t.Error("expected nil heartbeat when interval is negative")
	}
}

func TestHeartbeatInterval(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	h := NewHeartbeat(start)
	interval := 15 * time.Minute

	if hb := h.Check(start.Add(14*time.Minute), interval); hb != nil {
		t.Error("heartbeat before interval elapsed")
	}

	h.CountTransition()
	h.CountTransition()

	hb := h.Check(start.Add(15*time.Minute), interval)
	if hb == nil {
		t.Fatal("expected heartbeat at interval")
	}
	if hb.Uptime != 15*time.Minute {
		t.Errorf("Uptime: got %v, want 15m", hb.Uptime)
	}
	if hb.Transitions != 2 {
		t.Errorf("Transitions: got %d, want 2", hb.Transitions)
	}

	// Next heartbeat is measured from the last one.
	if hb := h.Check(start.Add(20*time.Minute), interval); hb != nil {
		t.Error("heartbeat fired early after previous heartbeat")
	}
	if hb := h.Check(start.Add(30*time.Minute), interval); hb == nil {
		t.Error("expected second heartbeat")
	}
	if h.Transitions() != 2 {
		t.Errorf("Transitions(): got %d, want 2", h.Transitions())
	}
}
