// Package gpio provides actuator outputs, digital inputs and the flow-meter
// pulse source with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Actuator identifies one binary output.
type Actuator int

const (
	ValveInlet Actuator = iota
	ValveDrain
	Compressor
	PumpUV
	Ozone
	Buzzer

	NumActuators = int(Buzzer) + 1
)

var actuatorNames = [NumActuators]string{
	ValveInlet: "VALVE_INLET",
	ValveDrain: "VALVE_DRAIN",
	Compressor: "COMPRESSOR",
	PumpUV:     "PUMP_UV",
	Ozone:      "OZONE",
	Buzzer:     "BUZZER",
}

func (a Actuator) String() string {
	if a < 0 || int(a) >= NumActuators {
		return "UNKNOWN"
	}
	return actuatorNames[a]
}

// All returns every actuator in declaration order.
func All() []Actuator {
	out := make([]Actuator, NumActuators)
	for i := range out {
		out[i] = Actuator(i)
	}
	return out
}

// Writer drives actuator output lines.
type Writer interface {
	// Write sets the output for a. true = energized.
	Write(a Actuator, on bool) error

	// Close releases GPIO resources.
	Close() error
}

// InputReader reads the discrete water sensors.
type InputReader interface {
	// Read returns the logical states of the float sensor and flow switch.
	// Both inputs are active-low: raw 0 = logical true.
	Read() (floatLevel bool, flowSwitch bool, err error)

	// Close releases GPIO resources.
	Close() error
}

// Pins holds BCM pin numbers for every line the controller uses.
type Pins struct {
	Inlet      int
	Drain      int
	Compressor int
	PumpUV     int
	Ozone      int
	Buzzer     int
	Float      int
	FlowSwitch int
	FlowMeter  int
}

// DefaultPins is the reference wiring.
var DefaultPins = Pins{
	Inlet:      26,
	Drain:      13,
	Compressor: 25,
	PumpUV:     27,
	Ozone:      12,
	Buzzer:     18,
	Float:      5,
	FlowSwitch: 6,
	FlowMeter:  14,
}

// Output returns the pin driving a.
func (p Pins) Output(a Actuator) int {
	switch a {
	case ValveInlet:
		return p.Inlet
	case ValveDrain:
		return p.Drain
	case Compressor:
		return p.Compressor
	case PumpUV:
		return p.PumpUV
	case Ozone:
		return p.Ozone
	case Buzzer:
		return p.Buzzer
	}
	return -1
}
