package process

import (
	"time"

	"github.com/sweeney/water-controller/internal/gpio"
)

// StartFilling opens the inlet and resets fill tracking.
func (h *Handler) StartFilling() {
	h.act.Set(gpio.ValveInlet, true)
	h.display.SetErrorBlink(false)
	h.lastFlow = h.sensors.Snapshot().FlowSwitch
	h.fillHold.Reset()
	h.log.Info("filling started", "flow", h.lastFlow)
}

// CheckFilling evaluates one filling tick at now.
//
// The float sensor must read true continuously for FloatDebounce after its
// rising edge to complete. With the inlet open and no flow the check reports
// FillError, requesting the error indicator on the falling edge of flow and
// clearing it when flow returns. A closed inlet skips evaluation and drops
// any debounce in progress.
func (h *Handler) CheckFilling(now time.Time) FillStatus {
	if !h.act.State(gpio.ValveInlet) {
		h.fillHold.Reset()
		return FillContinue
	}

	snap := h.sensors.Snapshot()

	wasPending := h.fillHold.Pending()
	if h.fillHold.Observe(snap.FloatLevel, now) {
		h.log.Info("float level reached", "held", FloatDebounce)
		return FillComplete
	}
	if h.fillHold.Pending() && !wasPending {
		h.log.Debug("float rising edge")
	}

	if !snap.FlowSwitch {
		if h.lastFlow {
			h.display.SetErrorBlink(true)
			h.log.Warn("no flow while filling")
		}
		h.lastFlow = false
		return FillError
	}

	if !h.lastFlow {
		h.display.SetErrorBlink(false)
	}
	h.lastFlow = true
	return FillContinue
}

// StopFilling closes the inlet and discards any debounce in progress.
// The error indicator is left to the caller.
func (h *Handler) StopFilling() {
	h.act.Set(gpio.ValveInlet, false)
	h.fillHold.Reset()
	h.log.Info("filling stopped")
}
