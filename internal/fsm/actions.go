package fsm

import "time"

// actions is the per-state entry/exit table. Auto and AutoCirculation have no
// actions yet.
var actions = [numStates]hooks{
	Idle: {
		enter: func(m *Machine, from State, now time.Time) {
			switch from {
			case Filling:
				m.Toggles.ClearFilling()
				m.Display.ForceFillingOff()
				m.fillOff.Trigger(now)
			case Draining:
				m.Toggles.ClearDraining()
				m.Display.ForceDrainingOff()
				m.drainOff.Trigger(now)
			}
		},
	},
	Filling: {
		enter: func(m *Machine, _ State, _ time.Time) { m.Processes.StartFilling() },
		exit:  func(m *Machine, _ time.Time) { m.Processes.StopFilling() },
	},
	Cooling: {
		enter: func(m *Machine, _ State, now time.Time) {
			m.Processes.StartCooling(m.Setpoints.CoolingTarget(), now)
		},
		exit: func(m *Machine, _ time.Time) { m.Processes.StopCooling() },
	},
	Draining: {
		enter: func(m *Machine, _ State, _ time.Time) { m.Processes.StartDraining() },
		exit:  func(m *Machine, _ time.Time) { m.Processes.StopDraining() },
	},
	BypassMenu: {
		enter: func(m *Machine, _ State, _ time.Time) { m.Actuators.AllOff() },
		exit:  func(m *Machine, _ time.Time) { m.Actuators.AllOff() },
	},
	Error: {
		enter: func(m *Machine, _ State, _ time.Time) {
			m.Actuators.AllOff()
			m.Display.SetErrorBlink(true)
		},
		exit: func(m *Machine, _ time.Time) { m.Display.SetErrorBlink(false) },
	},
}
