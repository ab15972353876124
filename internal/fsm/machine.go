package fsm

import (
	"log/slog"
	"sync"
	"time"

	"github.com/sweeney/water-controller/internal/gpio"
	"github.com/sweeney/water-controller/internal/logging"
	"github.com/sweeney/water-controller/internal/logic"
	"github.com/sweeney/water-controller/internal/nextion"
	"github.com/sweeney/water-controller/internal/process"
)

// ForcedOffWindow is how long a process toggle is ignored after the machine
// forced that process off.
const ForcedOffWindow = 500 * time.Millisecond

// Processes runs the per-process logic.
type Processes interface {
	StartFilling()
	CheckFilling(now time.Time) process.FillStatus
	StopFilling()

	StartCooling(target int, now time.Time)
	UpdateCooling(now time.Time)
	StopCooling()

	StartDraining()
	CheckDraining(now time.Time) process.DrainStatus
	StopDraining()

	ErrorCleared() bool
}

// Actuators drives the outputs directly.
type Actuators interface {
	Set(a gpio.Actuator, on bool)
	State(a gpio.Actuator) bool
	AllOff()
}

// Display receives state indicator updates.
type Display interface {
	SetErrorBlink(on bool)
	ForceFillingOff()
	ForceDrainingOff()
}

// Toggles clears operator toggles the machine turned off itself.
type Toggles interface {
	ClearFilling()
	ClearDraining()
}

// Setpoints provides the committed cooling target.
type Setpoints interface {
	CoolingTarget() int
}

// Deps are the machine's collaborators.
type Deps struct {
	Processes Processes
	Actuators Actuators
	Display   Display
	Toggles   Toggles
	Setpoints Setpoints
}

type hooks struct {
	enter func(m *Machine, from State, now time.Time)
	exit  func(m *Machine, now time.Time)
}

// Machine is the system state machine. Update must be called from a single
// goroutine; Info and State may be called from any.
type Machine struct {
	Deps
	log *slog.Logger

	hooks    [numStates]hooks
	fillOff  *logic.Suppressor
	drainOff *logic.Suppressor

	mu          sync.RWMutex
	current     State
	previous    State
	since       time.Time
	errorOrigin State
}

// New creates a machine in Idle, entered at now.
func New(d Deps, now time.Time, log *slog.Logger) *Machine {
	m := &Machine{
		Deps:     d,
		log:      logging.Component(log, "fsm"),
		fillOff:  logic.NewSuppressor(ForcedOffWindow),
		drainOff: logic.NewSuppressor(ForcedOffWindow),
		current:  Idle,
		previous: Idle,
		since:    now,
	}
	m.hooks = actions
	return m
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Info returns current, previous and entry time as one group.
func (m *Machine) Info() Info {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Info{
		Current:     m.current,
		Previous:    m.previous,
		Since:       m.since,
		ErrorOrigin: m.errorOrigin,
	}
}

// InAuto reports whether the machine is in either auto state.
func (m *Machine) InAuto() bool {
	s := m.State()
	return s == Auto || s == AutoCirculation
}

// Update runs one tick against st. The same snapshot drives both the desired
// state and the continuous process checks.
func (m *Machine) Update(st nextion.Status, now time.Time) (Transition, bool) {
	cur := m.State()

	desired, reason := m.desired(st, cur, now)
	if desired != cur {
		return m.transition(cur, desired, reason, now), true
	}
	return m.tick(st, cur, now)
}

// Reset forces the machine to Idle.
func (m *Machine) Reset(now time.Time) (Transition, bool) {
	cur := m.State()
	if cur == Idle {
		return Transition{}, false
	}
	return m.transition(cur, Idle, "reset", now), true
}

// desired applies the priority rules; the first match wins.
func (m *Machine) desired(st nextion.Status, cur State, now time.Time) (State, string) {
	if st.InBypassMenu {
		return BypassMenu, "bypass menu"
	}

	if cur == Error {
		if m.errorOrigin == Filling {
			switch {
			case m.Processes.ErrorCleared():
				return Filling, "flow restored"
			case !st.Filling:
				return Idle, "filling cancelled"
			}
			return Error, ""
		}
		if m.Processes.ErrorCleared() {
			return Idle, "error cleared"
		}
		return Error, ""
	}

	if st.Auto {
		if st.Circulation {
			return AutoCirculation, "auto with circulation"
		}
		return Auto, "auto"
	}

	if st.Filling {
		if m.fillOff.Active(now) {
			m.Toggles.ClearFilling()
			return Idle, "filling echo suppressed"
		}
		return Filling, "filling requested"
	}

	if st.Cooling {
		return Cooling, "cooling requested"
	}

	if st.Draining {
		if m.drainOff.Active(now) {
			m.Toggles.ClearDraining()
			return Idle, "draining echo suppressed"
		}
		return Draining, "draining requested"
	}

	return Idle, "no process requested"
}

// tick runs the per-state work when the state did not change.
func (m *Machine) tick(st nextion.Status, cur State, now time.Time) (Transition, bool) {
	switch cur {
	case Cooling:
		m.Processes.UpdateCooling(now)

	case Filling:
		// A closed inlet reports FillContinue and drops the float debounce.
		switch m.Processes.CheckFilling(now) {
		case process.FillComplete:
			return m.transition(cur, Idle, "fill complete", now), true
		case process.FillError:
			return m.transition(cur, Error, "no flow while filling", now), true
		}

	case Draining:
		if m.Processes.CheckDraining(now) == process.DrainComplete {
			return m.transition(cur, Idle, "drain complete", now), true
		}

	case BypassMenu:
		m.mirrorBypass(st)
	}
	return Transition{}, false
}

// transition runs exit(from), swaps the state triple, then runs enter(to).
// Actions run outside the lock.
func (m *Machine) transition(from, to State, reason string, now time.Time) Transition {
	if h := m.hooks[from].exit; h != nil {
		h(m, now)
	}

	m.mu.Lock()
	entered := m.since
	m.previous = from
	m.current = to
	m.since = now
	if to == Error {
		m.errorOrigin = from
	}
	m.mu.Unlock()

	if h := m.hooks[to].enter; h != nil {
		h(m, from, now)
	}

	tr := Transition{
		From:     from,
		To:       to,
		At:       now,
		Reason:   reason,
		Duration: now.Sub(entered),
	}
	m.log.Info("state transition", "from", from, "to", to, "reason", reason, "after", tr.Duration)
	return tr
}

var bypassOutputs = []gpio.Actuator{
	gpio.ValveInlet,
	gpio.ValveDrain,
	gpio.Compressor,
	gpio.PumpUV,
	gpio.Ozone,
}

// mirrorBypass drives the outputs from the manual bypass flags. The hydro
// flag has no output.
func (m *Machine) mirrorBypass(st nextion.Status) {
	want := [...]bool{
		st.BypassInlet,
		st.BypassDrain,
		st.BypassCompressor,
		st.BypassPumpUV,
		st.BypassOzone,
	}
	for i, a := range bypassOutputs {
		if m.Actuators.State(a) != want[i] {
			m.Actuators.Set(a, want[i])
		}
	}
}
