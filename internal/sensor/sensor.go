// Package sensor fuses the temperature probe, dissolved-solids ADC, flow-meter
// pulse counter and discrete water sensors into one validated snapshot.
package sensor

import "time"

// Sentinel values published when a reading is not valid.
const (
	InvalidTemperature = -99.0
	InvalidTDS         = -1
)

// Snapshot is one fusion cycle's readings. Always copied whole.
type Snapshot struct {
	Temperature float64 // °C, InvalidTemperature when !TempValid
	TempValid   bool
	FlowRate    float64 // L/min
	TotalPulses uint32
	FloatLevel  bool // true = water at fill line
	FlowSwitch  bool // true = water moving
	TDS         int  // ppm, InvalidTDS when !TDSValid
	TDSValid    bool
	UpdatedAt   time.Time
}

// Initial returns the snapshot published before the first cycle.
func Initial() Snapshot {
	return Snapshot{
		Temperature: InvalidTemperature,
		TDS:         InvalidTDS,
	}
}

// Probe reads the water temperature in °C.
type Probe interface {
	ReadCelsius() (float64, error)
}

// ADC reads the raw 12-bit conductivity channel.
type ADC interface {
	ReadRaw() (int, error)
}

// Inputs reads the discrete water sensors in logical form.
type Inputs interface {
	Read() (floatLevel bool, flowSwitch bool, err error)
}
