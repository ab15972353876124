// Package fsm is the top-level coordinator. Each tick it derives the desired
// system state from one status snapshot, runs exit and entry actions on a
// change, and otherwise drives the active process.
package fsm

import "time"

// State is the system state.
type State int

const (
	Idle State = iota
	Filling
	Cooling
	Draining
	Auto
	AutoCirculation
	BypassMenu
	Error

	numStates
)

var stateNames = [numStates]string{
	Idle:            "IDLE",
	Filling:         "FILLING",
	Cooling:         "COOLING",
	Draining:        "DRAINING",
	Auto:            "AUTO",
	AutoCirculation: "AUTO_CIRCULATION",
	BypassMenu:      "BYPASS_MENU",
	Error:           "ERROR",
}

func (s State) String() string {
	if s < 0 || s >= numStates {
		return "UNKNOWN"
	}
	return stateNames[s]
}

// States returns every state in declaration order.
func States() []State {
	out := make([]State, numStates)
	for i := range out {
		out[i] = State(i)
	}
	return out
}

// Transition describes one state change.
type Transition struct {
	From     State
	To       State
	At       time.Time
	Reason   string
	Duration time.Duration // time spent in From
}

// Info is a consistent view of the machine.
type Info struct {
	Current     State
	Previous    State
	Since       time.Time
	ErrorOrigin State
}
