package sensor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sweeney/water-controller/internal/logging"
)

// Sampling periods for the slower channels. Digital inputs and the ADC are
// sampled on every Update.
const (
	TempInterval = time.Second
	FlowInterval = 500 * time.Millisecond

	// litres per pulse = 1 / PulsesPerLitre
	PulsesPerLitre = 450.0
	MaxFlowRate    = 30.0 // L/min
)

// Fusion owns the sampling state and publishes a Snapshot per cycle.
type Fusion struct {
	probe  Probe
	adc    ADC
	inputs Inputs
	pulses *PulseCounter
	tds    *TDSFilter
	log    *slog.Logger

	// owned by the Update caller
	work      Snapshot
	lastTemp  time.Time
	lastFlow  time.Time
	tempRead  bool
	flowStart bool

	mu   sync.RWMutex
	snap Snapshot
}

// New creates a Fusion over the given sources. Any source may be nil, in
// which case its fields stay at their initial values.
func New(probe Probe, adc ADC, inputs Inputs, pulses *PulseCounter, log *slog.Logger) *Fusion {
	if pulses == nil {
		pulses = &PulseCounter{}
	}
	return &Fusion{
		probe:  probe,
		adc:    adc,
		inputs: inputs,
		pulses: pulses,
		tds:    NewTDSFilter(),
		log:    logging.Component(log, "sensor"),
		work:   Initial(),
		snap:   Initial(),
	}
}

// Pulses returns the counter whose Incrementer feeds the flow meter.
func (f *Fusion) Pulses() *PulseCounter {
	return f.pulses
}

// Snapshot returns a copy of the most recently published readings.
func (f *Fusion) Snapshot() Snapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.snap
}

// Update runs one fusion cycle at now and publishes the result.
// Must be called from a single goroutine.
func (f *Fusion) Update(now time.Time) {
	f.updateTemperature(now)
	f.updateFlow(now)
	f.updateTDS()
	f.updateInputs()
	f.work.UpdatedAt = now

	f.mu.Lock()
	f.snap = f.work
	f.mu.Unlock()
}

// Run calls Update every interval until ctx is done.
func (f *Fusion) Run(ctx context.Context, interval time.Duration, clock func() time.Time) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			f.Update(clock())
		}
	}
}

func (f *Fusion) updateTemperature(now time.Time) {
	if f.probe == nil {
		return
	}
	if f.tempRead && now.Sub(f.lastTemp) < TempInterval {
		return
	}
	f.tempRead = true
	f.lastTemp = now

	c, err := f.probe.ReadCelsius()
	if err != nil || disconnected(c) {
		if f.work.TempValid {
			f.log.Warn("temperature probe invalid", "value", c, "err", err)
		}
		f.work.Temperature = InvalidTemperature
		f.work.TempValid = false
		return
	}
	f.work.Temperature = c
	f.work.TempValid = true
}

// disconnected reports the DS18B20 error values: -127 (no device) and
// 85 (power-on reset, conversion never ran).
func disconnected(c float64) bool {
	return c == -127 || c == 85
}

func (f *Fusion) updateFlow(now time.Time) {
	if !f.flowStart {
		f.flowStart = true
		f.lastFlow = now
		return
	}
	elapsed := now.Sub(f.lastFlow)
	if elapsed < FlowInterval {
		return
	}

	delta, total := f.pulses.Take()
	f.work.TotalPulses = total
	f.work.FlowRate = FlowRate(delta, elapsed)
	f.lastFlow = now
}

// FlowRate converts pulses counted over elapsed into L/min, capped at MaxFlowRate.
func FlowRate(pulses uint32, elapsed time.Duration) float64 {
	ms := elapsed.Milliseconds()
	if pulses == 0 || ms <= 0 {
		return 0
	}
	litres := float64(pulses) / PulsesPerLitre
	rate := litres * 60000 / float64(ms)
	if rate > MaxFlowRate {
		rate = MaxFlowRate
	}
	return rate
}

func (f *Fusion) updateTDS() {
	if f.adc == nil {
		return
	}
	raw, err := f.adc.ReadRaw()
	if err != nil {
		f.log.Debug("adc read failed", "err", err)
		return
	}
	f.work.TDS, f.work.TDSValid = f.tds.Add(raw, f.work.Temperature, f.work.TempValid)
}

func (f *Fusion) updateInputs() {
	if f.inputs == nil {
		return
	}
	fl, fs, err := f.inputs.Read()
	if err != nil {
		f.log.Debug("input read failed", "err", err)
		return
	}
	f.work.FloatLevel = fl
	f.work.FlowSwitch = fs
}
