// Package status provides a thread-safe status tracker for the water controller.
// It is read by the HTTP handlers and by the MQTT system events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/water-controller/internal/fsm"
	"github.com/sweeney/water-controller/internal/gpio"
	"github.com/sweeney/water-controller/internal/nextion"
	"github.com/sweeney/water-controller/internal/sensor"
	"github.com/sweeney/water-controller/internal/setpoint"
)

// NetworkInfo contains network state as reported by the host.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains controller configuration for display.
type Config struct {
	PollMs       int64
	SensorPollMs int64
	HeartbeatMs  int64
	Broker       string
	HTTPAddr     string
	SerialPort   string
}

// Live is the part of the snapshot refreshed on every control tick.
type Live struct {
	Machine     fsm.Info
	Sensors     sensor.Snapshot
	Operator    nextion.Status
	Setpoints   setpoint.Values
	Actuators   map[gpio.Actuator]bool // replaced, never mutated, by Update
	Clock       string
	Transitions int
}

// Snapshot is a point-in-time view of controller state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Live
	Ready         bool // at least one control tick has run
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the controller started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// TimeInState returns how long the machine has been in its current state.
func (s Snapshot) TimeInState() time.Duration {
	if s.Machine.Since.IsZero() {
		return 0
	}
	return s.Now.Sub(s.Machine.Since)
}

// Tracker holds mutable controller state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update replaces the live state. Called from the control tick.
func (t *Tracker) Update(l Live) {
	acts := make(map[gpio.Actuator]bool, len(l.Actuators))
	for a, on := range l.Actuators {
		acts[a] = on
	}
	l.Actuators = acts

	t.mu.Lock()
	t.snap.Live = l
	t.snap.Ready = true
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the controller state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
