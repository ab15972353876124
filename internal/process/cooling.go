package process

import (
	"time"

	"github.com/sweeney/water-controller/internal/gpio"
)

type coolState struct {
	target  int
	start   time.Time
	offAt   time.Time
	active  bool // compressor running
	waiting bool // compressor off, pump running
}

// CoolingStatus describes the cooling cycle for display.
type CoolingStatus struct {
	Target  int
	Start   time.Time
	Active  bool
	Waiting bool
	OffAt   time.Time
}

// Cooling returns the cooling cycle state.
func (h *Handler) Cooling() CoolingStatus {
	return CoolingStatus{
		Target:  h.cool.target,
		Start:   h.cool.start,
		Active:  h.cool.active,
		Waiting: h.cool.waiting,
		OffAt:   h.cool.offAt,
	}
}

// StartCooling runs the compressor and circulation pump toward target °C.
func (h *Handler) StartCooling(target int, now time.Time) {
	h.cool = coolState{
		target: target,
		start:  now,
		active: true,
	}
	h.act.Set(gpio.Compressor, true)
	h.act.Set(gpio.PumpUV, true)
	h.display.UpdateCoolingDuration(0)
	h.log.Info("cooling started", "target", target)
}

// UpdateCooling evaluates one cooling tick at now.
//
// While active, reaching the target stops the compressor and starts the wait.
// After CoolingWait the temperature is rechecked: above target restarts the
// compressor, otherwise the wait starts over. Ticks with an invalid
// temperature leave the sub-state unchanged.
func (h *Handler) UpdateCooling(now time.Time) {
	h.display.UpdateCoolingDuration(int(now.Sub(h.cool.start) / time.Minute))

	snap := h.sensors.Snapshot()
	if !snap.TempValid {
		return
	}
	target := float64(h.cool.target)

	switch {
	case h.cool.active && !h.cool.waiting:
		if snap.Temperature <= target {
			h.act.Set(gpio.Compressor, false)
			h.cool.active = false
			h.cool.waiting = true
			h.cool.offAt = now
			h.log.Info("cooling target reached", "temp", snap.Temperature, "target", h.cool.target)
		}

	case h.cool.waiting:
		if now.Sub(h.cool.offAt) < CoolingWait {
			return
		}
		if snap.Temperature > target {
			h.act.Set(gpio.Compressor, true)
			h.cool.active = true
			h.cool.waiting = false
			h.log.Info("cooling restarted", "temp", snap.Temperature, "target", h.cool.target)
			return
		}
		h.cool.offAt = now
		h.log.Debug("cooling wait extended", "temp", snap.Temperature)
	}
}

// StopCooling turns the compressor and pump off.
func (h *Handler) StopCooling() {
	h.act.Set(gpio.Compressor, false)
	h.act.Set(gpio.PumpUV, false)
	h.cool.active = false
	h.cool.waiting = false
	h.log.Info("cooling stopped")
}
