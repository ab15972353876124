// Package nextion talks to the HMI touch display over its serial link.
//
// Inbound bytes are framed by idle gap or buffer capacity, decoded into
// operator commands and folded into a shared status Record. Outbound
// commands are text assignments terminated by three 0xFF bytes.
package nextion

import "sync"

// Status is the operator command state. Copied whole.
type Status struct {
	Cooling     bool
	Filling     bool
	Draining    bool
	Auto        bool
	Circulation bool

	BypassInlet      bool
	BypassDrain      bool
	BypassCompressor bool
	BypassPumpUV     bool
	BypassOzone      bool
	BypassHydro      bool
	InBypassMenu     bool

	CoolingValue int // target °C, 1-100
	Count        int
	Days         int
	AutoTemp     int
	SetTime      string // HH:MM, unvalidated
	SetAuto      string // HH:MM, unvalidated
}

// Record is the lock-protected Status shared between the gateway and the
// control tick.
type Record struct {
	mu sync.Mutex
	s  Status
}

// NewRecord returns a Record with every toggle off.
func NewRecord() *Record {
	return &Record{}
}

// Snapshot returns a copy of the current status.
func (r *Record) Snapshot() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.s
}

// ClearFilling turns the filling toggle off.
func (r *Record) ClearFilling() {
	r.mu.Lock()
	r.s.Filling = false
	r.mu.Unlock()
}

// ClearDraining turns the draining toggle off.
func (r *Record) ClearDraining() {
	r.mu.Lock()
	r.s.Draining = false
	r.mu.Unlock()
}

// SetCooling stores a binary cooling setpoint and turns cooling on.
func (r *Record) SetCooling(value int) {
	r.mu.Lock()
	r.s.CoolingValue = value
	r.s.Cooling = true
	r.mu.Unlock()
}

// Apply folds one text message into the record. It reports false when the
// message matches nothing in the vocabulary.
func (r *Record) Apply(msg string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return apply(&r.s, msg)
}
