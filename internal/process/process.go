// Package process runs the completion and error checks for the filling,
// cooling and draining processes and drives their actuators.
//
// Each process owns its timers. Timers are reset on every start and every
// stop, so a cycle never inherits state from the previous one. A Handler is
// not safe for concurrent use; the control tick is its only caller.
package process

import (
	"log/slog"
	"time"

	"github.com/sweeney/water-controller/internal/gpio"
	"github.com/sweeney/water-controller/internal/logging"
	"github.com/sweeney/water-controller/internal/logic"
	"github.com/sweeney/water-controller/internal/sensor"
)

// Timing and threshold constants.
const (
	FloatDebounce      = 2 * time.Second
	CoolingWait        = 10 * time.Minute
	DrainLowFlowPeriod = 5 * time.Second
	DrainFlowThreshold = 0.1 // L/min
)

// Sensors provides the fused sensor readings.
type Sensors interface {
	Snapshot() sensor.Snapshot
}

// Actuators drives and reports the binary outputs.
type Actuators interface {
	Set(a gpio.Actuator, on bool)
	State(a gpio.Actuator) bool
}

// Display receives process indicator updates.
type Display interface {
	SetErrorBlink(on bool)
	UpdateCoolingDuration(minutes int)
}

// FillStatus is the outcome of one filling check.
type FillStatus int

const (
	FillContinue FillStatus = iota
	FillComplete
	FillError
)

func (s FillStatus) String() string {
	switch s {
	case FillContinue:
		return "CONTINUE"
	case FillComplete:
		return "COMPLETE"
	case FillError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// DrainStatus is the outcome of one draining check.
type DrainStatus int

const (
	DrainContinue DrainStatus = iota
	DrainComplete
)

func (s DrainStatus) String() string {
	switch s {
	case DrainContinue:
		return "CONTINUE"
	case DrainComplete:
		return "COMPLETE"
	}
	return "UNKNOWN"
}

// Handler implements the per-process logic.
type Handler struct {
	sensors Sensors
	act     Actuators
	display Display
	log     *slog.Logger

	fillHold *logic.Hold
	lastFlow bool

	cool coolState

	drainHold *logic.Hold
}

// New creates a Handler over the given collaborators.
func New(sensors Sensors, act Actuators, display Display, log *slog.Logger) *Handler {
	return &Handler{
		sensors:   sensors,
		act:       act,
		display:   display,
		log:       logging.Component(log, "process"),
		fillHold:  logic.NewHold(FloatDebounce),
		drainHold: logic.NewHold(DrainLowFlowPeriod),
	}
}

// ErrorCleared reports whether water is flowing again.
func (h *Handler) ErrorCleared() bool {
	return h.sensors.Snapshot().FlowSwitch
}
