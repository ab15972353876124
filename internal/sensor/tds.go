package sensor

import (
	"math"
	"slices"
)

const (
	tdsSamples   = 15
	adcMax       = 4095
	adcVref      = 5.0
	tdsMinVolts  = 0.1
	tdsMaxVolts  = 4.9
	tdsMaxPPM    = 9999
	tdsEMAAlpha  = 0.1
	tdsJitterPPM = 7
)

// TDSFilter turns raw ADC samples into a smoothed, temperature-compensated
// dissolved-solids estimate.
//
// Samples go into a circular buffer. Once it is full each cycle takes the
// median, converts to volts, rejects implausible voltages, compensates for
// temperature, applies the probe's calibration cubic and feeds an EMA. The
// published value only moves when the EMA drifts more than tdsJitterPPM from it.
type TDSFilter struct {
	buf  [tdsSamples]int
	idx  int
	full bool

	ema    float64
	seeded bool

	value int
	valid bool
}

// NewTDSFilter returns a filter with no samples and an invalid output.
func NewTDSFilter() *TDSFilter {
	return &TDSFilter{value: InvalidTDS}
}

// Add feeds one raw sample and returns the published value and validity.
func (f *TDSFilter) Add(raw int, tempC float64, tempValid bool) (int, bool) {
	f.buf[f.idx] = raw
	f.idx++
	if f.idx >= tdsSamples {
		f.idx = 0
		f.full = true
	}
	if !f.full {
		f.valid = false
		return f.value, f.valid
	}

	v := Voltage(median(f.buf[:]))
	if !ValidVoltage(v) {
		f.value = InvalidTDS
		f.valid = false
		return f.value, f.valid
	}

	ppm := Estimate(v, tempC, tempValid)
	if !f.seeded {
		f.ema = ppm
		f.seeded = true
	} else {
		f.ema = tdsEMAAlpha*ppm + (1-tdsEMAAlpha)*f.ema
	}

	if !f.valid || math.Abs(f.ema-float64(f.value)) > tdsJitterPPM {
		f.value = int(f.ema)
	}
	f.valid = true
	return f.value, f.valid
}

// Smoothed returns the internal EMA state.
func (f *TDSFilter) Smoothed() float64 {
	return f.ema
}

// Voltage converts a raw 12-bit reading to volts on a 5V reference.
func Voltage(raw int) float64 {
	return float64(raw) * adcVref / adcMax
}

// ValidVoltage reports whether v is inside the probe's plausible output range.
// Both edges are rejected.
func ValidVoltage(v float64) bool {
	return v > tdsMinVolts && v < tdsMaxVolts
}

// Estimate converts a probe voltage to ppm, clamped to [0, 9999].
// Compensation applies only for a valid temperature in (-10, 80) °C.
func Estimate(v, tempC float64, tempValid bool) float64 {
	comp := 1.0
	if tempValid && tempC > -10 && tempC < 80 {
		comp = 1 + 0.02*(tempC-25)
	}
	cv := v / comp

	ppm := (133.42*cv*cv*cv - 255.86*cv*cv + 857.39*cv) * 0.5
	return math.Max(0, math.Min(tdsMaxPPM, ppm))
}

func median(samples []int) int {
	s := slices.Clone(samples)
	slices.Sort(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}
