// Package controller runs one control tick: it snapshots the operator record,
// commits setpoints, advances the state machine and publishes the result to
// the status tracker.
package controller

import (
	"log/slog"
	"slices"
	"time"

	"github.com/sweeney/water-controller/internal/fsm"
	"github.com/sweeney/water-controller/internal/gpio"
	"github.com/sweeney/water-controller/internal/logging"
	"github.com/sweeney/water-controller/internal/logic"
	"github.com/sweeney/water-controller/internal/nextion"
	"github.com/sweeney/water-controller/internal/sensor"
	"github.com/sweeney/water-controller/internal/setpoint"
	"github.com/sweeney/water-controller/internal/status"
)

// Record supplies the operator status snapshot.
type Record interface {
	Snapshot() nextion.Status
}

// Setpoints commits settings from the status snapshot.
type Setpoints interface {
	Update(st nextion.Status, now time.Time) []setpoint.Field
	Values() setpoint.Values
}

// Machine is the state machine driven by the tick.
type Machine interface {
	Update(st nextion.Status, now time.Time) (fsm.Transition, bool)
	Reset(now time.Time) (fsm.Transition, bool)
	Info() fsm.Info
}

// Clock is the wall clock the operator can set.
type Clock interface {
	SetTime(hhmm string) error
	TimeString() string
}

// Sensors supplies the latest fused readings.
type Sensors interface {
	Snapshot() sensor.Snapshot
}

// Outputs reports the actuator states.
type Outputs interface {
	States() map[gpio.Actuator]bool
	AllOff()
}

// Deps are the collaborators of one tick.
type Deps struct {
	Record    Record
	Setpoints Setpoints
	Machine   Machine
	Clock     Clock
	Sensors   Sensors
	Outputs   Outputs
	Tracker   *status.Tracker
}

// Controller owns the tick. Tick, Heartbeat and Shutdown must be called from
// the same goroutine.
type Controller struct {
	Deps
	heartbeat *logic.Heartbeat
	log       *slog.Logger
}

// New creates a Controller. start is the daemon start time used for uptime.
func New(d Deps, start time.Time, log *slog.Logger) *Controller {
	return &Controller{
		Deps:      d,
		heartbeat: logic.NewHeartbeat(start),
		log:       logging.Component(log, "controller"),
	}
}

// Tick runs one control cycle at now and returns the transition, if any.
func (c *Controller) Tick(now time.Time) (fsm.Transition, bool) {
	st := c.Record.Snapshot()

	changed := c.Setpoints.Update(st, now)
	if slices.Contains(changed, setpoint.FieldSetTime) {
		hhmm := c.Setpoints.Values().SetTime
		if err := c.Clock.SetTime(hhmm); err != nil {
			c.log.Warn("set clock failed", "time", hhmm, "err", err)
		}
	}

	tr, ok := c.Machine.Update(st, now)
	if ok {
		c.heartbeat.CountTransition()
	}
	c.publish(st)
	return tr, ok
}

// Heartbeat returns heartbeat data when interval has elapsed.
func (c *Controller) Heartbeat(now time.Time, interval time.Duration) *logic.HeartbeatData {
	return c.heartbeat.Check(now, interval)
}

// Transitions returns the number of transitions since startup.
func (c *Controller) Transitions() int {
	return c.heartbeat.Transitions()
}

// Shutdown returns the machine to Idle and switches every output off.
func (c *Controller) Shutdown(now time.Time) (fsm.Transition, bool) {
	tr, ok := c.Machine.Reset(now)
	if ok {
		c.heartbeat.CountTransition()
	}
	c.Outputs.AllOff()
	c.publish(c.Record.Snapshot())
	return tr, ok
}

func (c *Controller) publish(st nextion.Status) {
	if c.Tracker == nil {
		return
	}
	c.Tracker.Update(status.Live{
		Machine:     c.Machine.Info(),
		Sensors:     c.Sensors.Snapshot(),
		Operator:    st,
		Setpoints:   c.Setpoints.Values(),
		Actuators:   c.Outputs.States(),
		Clock:       c.Clock.TimeString(),
		Transitions: c.heartbeat.Transitions(),
	})
}
