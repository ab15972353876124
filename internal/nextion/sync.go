package nextion

import (
	"context"
	"math"
	"time"

	"github.com/sweeney/water-controller/internal/sensor"
)

// Sensor display thresholds.
const (
	TempThreshold = 1   // °C
	TDSThreshold  = 10  // ppm
	FlowThreshold = 0.5 // L/min
	ForceSync     = 5 * time.Second
	StaleAfter    = 10 * time.Second
)

// SensorSource provides the fused sensor readings.
type SensorSource interface {
	Snapshot() sensor.Snapshot
}

// ClockSource provides the wall-clock label.
type ClockSource interface {
	Valid() bool
	TimeString() string
}

// SensorSync pushes sensor readings and the clock to the display when they
// change noticeably, and at least every ForceSync.
type SensorSync struct {
	sensors SensorSource
	clock   ClockSource
	display *Display

	lastTemp  int
	lastTDS   int
	lastFlow  float64
	lastSync  time.Time
	lastClock string
}

// NewSensorSync creates a sync task. clock may be nil.
func NewSensorSync(sensors SensorSource, clock ClockSource, display *Display) *SensorSync {
	return &SensorSync{
		sensors:  sensors,
		clock:    clock,
		display:  display,
		lastTemp: int(sensor.InvalidTemperature),
		lastTDS:  sensor.InvalidTDS,
		lastFlow: -1,
	}
}

// Sync runs one pass at now. It reports whether sensor values were sent.
func (s *SensorSync) Sync(now time.Time) bool {
	s.syncClock()

	snap := s.sensors.Snapshot()
	if !snap.TempValid && !snap.TDSValid && snap.FlowRate < 0 {
		return false
	}
	if now.Sub(snap.UpdatedAt) > StaleAfter {
		return false
	}

	changed := false
	if snap.TempValid && abs(int(math.Round(snap.Temperature))-s.lastTemp) >= TempThreshold {
		changed = true
		s.lastTemp = int(math.Round(snap.Temperature))
	}
	if snap.TDS >= 0 && abs(snap.TDS-s.lastTDS) >= TDSThreshold {
		changed = true
		s.lastTDS = snap.TDS
	}
	if snap.FlowRate >= 0 && math.Abs(snap.FlowRate-s.lastFlow) >= FlowThreshold {
		changed = true
		s.lastFlow = snap.FlowRate
	}
	if now.Sub(s.lastSync) >= ForceSync {
		changed = true
		s.lastTemp = int(math.Round(snap.Temperature))
		s.lastTDS = snap.TDS
		s.lastFlow = snap.FlowRate
		s.lastSync = now
	}

	if changed {
		s.display.ShowSensors(snap.Temperature, snap.TempValid, snap.TDS, snap.TDSValid, snap.FlowRate)
	}
	return changed
}

func (s *SensorSync) syncClock() {
	if s.clock == nil || !s.clock.Valid() {
		return
	}
	t := s.clock.TimeString()
	if t == s.lastClock {
		return
	}
	s.lastClock = t
	s.display.ShowClock(t)
}

// Run calls Sync every interval until ctx is done.
func (s *SensorSync) Run(ctx context.Context, interval time.Duration, clock func() time.Time) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Sync(clock())
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
