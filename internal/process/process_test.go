package process

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweeney/water-controller/internal/gpio"
	"github.com/sweeney/water-controller/internal/sensor"
)

var t0 = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func ms(n int) time.Time { return t0.Add(time.Duration(n) * time.Millisecond) }

type fakeSensors struct{ snap sensor.Snapshot }

func (f *fakeSensors) Snapshot() sensor.Snapshot { return f.snap }

type fakeDisplay struct {
	blinks    []bool
	durations []int
}

func (f *fakeDisplay) SetErrorBlink(on bool)             { f.blinks = append(f.blinks, on) }
func (f *fakeDisplay) UpdateCoolingDuration(minutes int) { f.durations = append(f.durations, minutes) }

type rig struct {
	sensors *fakeSensors
	bank    *gpio.Bank
	display *fakeDisplay
	h       *Handler
}

func newRig() *rig {
	r := &rig{
		sensors: &fakeSensors{snap: sensor.Initial()},
		bank:    gpio.NewBank(gpio.NewFakeWriter(), nil),
		display: &fakeDisplay{},
	}
	r.h = New(r.sensors, r.bank, r.display, nil)
	return r
}

func TestFillingComplete(t *testing.T) {
	r := newRig()
	r.sensors.snap.FlowSwitch = true
	r.h.StartFilling()

	assert.True(t, r.bank.State(gpio.ValveInlet))
	assert.Equal(t, []bool{false}, r.display.blinks)

	assert.Equal(t, FillContinue, r.h.CheckFilling(ms(0)))

	r.sensors.snap.FloatLevel = true
	assert.Equal(t, FillContinue, r.h.CheckFilling(ms(100)), "rising edge")
	assert.Equal(t, FillContinue, r.h.CheckFilling(ms(2000)))
	assert.Equal(t, FillComplete, r.h.CheckFilling(ms(2100)))

	// Tracking was reset: the next true sample is a new edge.
	assert.Equal(t, FillContinue, r.h.CheckFilling(ms(2200)))
}

func TestFillingFloatFlickerResets(t *testing.T) {
	r := newRig()
	r.sensors.snap.FlowSwitch = true
	r.h.StartFilling()

	r.sensors.snap.FloatLevel = true
	r.h.CheckFilling(ms(0))
	r.h.CheckFilling(ms(1000))

	r.sensors.snap.FloatLevel = false
	r.h.CheckFilling(ms(1100))

	r.sensors.snap.FloatLevel = true
	r.h.CheckFilling(ms(1200))
	assert.Equal(t, FillContinue, r.h.CheckFilling(ms(3100)), "no partial credit")
	assert.Equal(t, FillComplete, r.h.CheckFilling(ms(3200)))
}

func TestFillingInletClosedExternally(t *testing.T) {
	r := newRig()
	r.sensors.snap.FlowSwitch = true
	r.h.StartFilling()

	r.sensors.snap.FloatLevel = true
	r.h.CheckFilling(ms(0))

	r.bank.Set(gpio.ValveInlet, false)
	assert.Equal(t, FillContinue, r.h.CheckFilling(ms(1000)))
	assert.Equal(t, FillContinue, r.h.CheckFilling(ms(2500)), "closed inlet never completes")

	r.bank.Set(gpio.ValveInlet, true)
	assert.Equal(t, FillContinue, r.h.CheckFilling(ms(2600)), "new rising edge")
	assert.Equal(t, FillContinue, r.h.CheckFilling(ms(4500)))
	assert.Equal(t, FillComplete, r.h.CheckFilling(ms(4600)))
}

func TestFillingNoFlowError(t *testing.T) {
	r := newRig()
	r.sensors.snap.FlowSwitch = true
	r.h.StartFilling()
	r.display.blinks = nil

	r.sensors.snap.FlowSwitch = false
	assert.Equal(t, FillError, r.h.CheckFilling(ms(100)))
	assert.Equal(t, FillError, r.h.CheckFilling(ms(200)))
	assert.Equal(t, []bool{true}, r.display.blinks, "blink requested once on the falling edge")

	r.sensors.snap.FlowSwitch = true
	assert.Equal(t, FillContinue, r.h.CheckFilling(ms(300)))
	assert.Equal(t, []bool{true, false}, r.display.blinks)
}

func TestFillingStartWithoutFlow(t *testing.T) {
	r := newRig()
	r.h.StartFilling()
	r.display.blinks = nil

	assert.Equal(t, FillError, r.h.CheckFilling(ms(100)))
	assert.Empty(t, r.display.blinks, "no falling edge seen")
}

func TestStopFilling(t *testing.T) {
	r := newRig()
	r.sensors.snap.FlowSwitch = true
	r.h.StartFilling()
	r.sensors.snap.FloatLevel = true
	r.h.CheckFilling(ms(0))

	r.h.StopFilling()
	assert.False(t, r.bank.State(gpio.ValveInlet))

	r.h.StartFilling()
	assert.Equal(t, FillContinue, r.h.CheckFilling(ms(2500)), "stop discarded the old edge")
}

func TestCoolingCycle(t *testing.T) {
	r := newRig()
	r.sensors.snap.TempValid = true
	r.sensors.snap.Temperature = 15

	start := t0
	r.h.StartCooling(10, start)
	assert.True(t, r.bank.State(gpio.Compressor))
	assert.True(t, r.bank.State(gpio.PumpUV))

	r.h.UpdateCooling(start.Add(time.Minute))
	assert.True(t, r.bank.State(gpio.Compressor))

	// Target reached.
	r.sensors.snap.Temperature = 10
	offAt := start.Add(2 * time.Minute)
	r.h.UpdateCooling(offAt)
	assert.False(t, r.bank.State(gpio.Compressor))
	assert.True(t, r.bank.State(gpio.PumpUV), "pump keeps running")
	assert.True(t, r.h.Cooling().Waiting)

	// Warm again, but the wait has not elapsed.
	r.sensors.snap.Temperature = 12
	r.h.UpdateCooling(offAt.Add(9 * time.Minute))
	assert.False(t, r.bank.State(gpio.Compressor))

	// Wait elapsed, still cold: timer restarts.
	r.sensors.snap.Temperature = 9
	recheck := offAt.Add(CoolingWait)
	r.h.UpdateCooling(recheck)
	assert.False(t, r.bank.State(gpio.Compressor))
	assert.True(t, r.h.Cooling().Waiting)
	assert.Equal(t, recheck, r.h.Cooling().OffAt)

	// Warm before the new wait ends.
	r.sensors.snap.Temperature = 12
	r.h.UpdateCooling(recheck.Add(5 * time.Minute))
	assert.False(t, r.bank.State(gpio.Compressor))

	// Wait elapsed and warm: restart.
	r.h.UpdateCooling(recheck.Add(CoolingWait))
	assert.True(t, r.bank.State(gpio.Compressor))
	st := r.h.Cooling()
	assert.True(t, st.Active)
	assert.False(t, st.Waiting)
}

func TestCoolingDurationDisplay(t *testing.T) {
	r := newRig()
	r.h.StartCooling(10, t0)
	r.h.UpdateCooling(t0.Add(30 * time.Second))
	r.h.UpdateCooling(t0.Add(90 * time.Second))
	r.h.UpdateCooling(t0.Add(3 * time.Minute))

	assert.Equal(t, []int{0, 0, 1, 3}, r.display.durations)
}

func TestCoolingInvalidTemperatureHoldsState(t *testing.T) {
	r := newRig()
	r.h.StartCooling(10, t0)

	// Initial snapshot is invalid (-99), which must not count as "cold".
	r.h.UpdateCooling(t0.Add(time.Minute))
	assert.True(t, r.bank.State(gpio.Compressor))
	assert.True(t, r.h.Cooling().Active)
}

func TestStopCooling(t *testing.T) {
	r := newRig()
	r.h.StartCooling(10, t0)
	r.h.StopCooling()

	assert.False(t, r.bank.State(gpio.Compressor))
	assert.False(t, r.bank.State(gpio.PumpUV))
	st := r.h.Cooling()
	assert.False(t, st.Active)
	assert.False(t, st.Waiting)
}

func TestDrainingComplete(t *testing.T) {
	r := newRig()
	r.h.StartDraining()
	require.True(t, r.bank.State(gpio.ValveDrain))

	r.sensors.snap.FlowRate = 2.0
	assert.Equal(t, DrainContinue, r.h.CheckDraining(ms(0)))

	r.sensors.snap.FlowRate = 0.1
	assert.Equal(t, DrainContinue, r.h.CheckDraining(ms(100)))
	assert.Equal(t, DrainContinue, r.h.CheckDraining(ms(5000)))

	// A reading above threshold resets elapsed time.
	r.sensors.snap.FlowRate = 0.5
	assert.Equal(t, DrainContinue, r.h.CheckDraining(ms(5050)))

	r.sensors.snap.FlowRate = 0
	assert.Equal(t, DrainContinue, r.h.CheckDraining(ms(5100)))
	assert.Equal(t, DrainContinue, r.h.CheckDraining(ms(10000)))
	assert.Equal(t, DrainComplete, r.h.CheckDraining(ms(10100)))
}

func TestDrainingClosedExternally(t *testing.T) {
	r := newRig()
	r.h.StartDraining()

	r.sensors.snap.FlowRate = 0
	r.h.CheckDraining(ms(0))

	r.bank.Set(gpio.ValveDrain, false)
	assert.Equal(t, DrainContinue, r.h.CheckDraining(ms(6000)))

	r.bank.Set(gpio.ValveDrain, true)
	assert.Equal(t, DrainContinue, r.h.CheckDraining(ms(6100)), "timer restarted")
	assert.Equal(t, DrainComplete, r.h.CheckDraining(ms(11100)))
}

func TestStopDraining(t *testing.T) {
	r := newRig()
	r.h.StartDraining()
	r.h.CheckDraining(ms(0))
	r.h.StopDraining()
	assert.False(t, r.bank.State(gpio.ValveDrain))

	r.h.StartDraining()
	assert.Equal(t, DrainContinue, r.h.CheckDraining(ms(6000)))
}

func TestErrorCleared(t *testing.T) {
	r := newRig()
	assert.False(t, r.h.ErrorCleared())
	r.sensors.snap.FlowSwitch = true
	assert.True(t, r.h.ErrorCleared())
}

func TestStatusStrings(t *testing.T) {
	assert.Equal(t, "COMPLETE", FillComplete.String())
	assert.Equal(t, "ERROR", FillError.String())
	assert.Equal(t, "CONTINUE", DrainContinue.String())
	assert.Equal(t, "UNKNOWN", FillStatus(9).String())
}
