package process

import (
	"time"

	"github.com/sweeney/water-controller/internal/gpio"
)

// StartDraining opens the drain and resets low-flow tracking.
func (h *Handler) StartDraining() {
	h.act.Set(gpio.ValveDrain, true)
	h.drainHold.Reset()
	h.log.Info("draining started")
}

// CheckDraining evaluates one draining tick at now. The tank is empty once
// flow has stayed at or below DrainFlowThreshold for DrainLowFlowPeriod.
func (h *Handler) CheckDraining(now time.Time) DrainStatus {
	if !h.act.State(gpio.ValveDrain) {
		h.drainHold.Reset()
		return DrainContinue
	}

	snap := h.sensors.Snapshot()
	if h.drainHold.Observe(snap.FlowRate <= DrainFlowThreshold, now) {
		h.log.Info("drain flow stopped", "held", DrainLowFlowPeriod)
		return DrainComplete
	}
	return DrainContinue
}

// StopDraining closes the drain and discards low-flow tracking.
func (h *Handler) StopDraining() {
	h.act.Set(gpio.ValveDrain, false)
	h.drainHold.Reset()
	h.log.Info("draining stopped")
}
