//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealWriter drives relay outputs using the Linux GPIO character device.
type RealWriter struct {
	chip  *gpiocdev.Chip
	lines [NumActuators]*gpiocdev.Line
}

// NewRealWriter requests every actuator line as an output, initially low.
func NewRealWriter(chipName string, pins Pins) (*RealWriter, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	w := &RealWriter{chip: chip}
	for _, a := range All() {
		pin := pins.Output(a)
		line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", a, pin, err)
		}
		w.lines[a] = line
	}
	return w, nil
}

// Write sets the line for a high (on) or low (off).
func (w *RealWriter) Write(a Actuator, on bool) error {
	if a < 0 || int(a) >= NumActuators || w.lines[a] == nil {
		return fmt.Errorf("write %s: no such line", a)
	}
	v := 0
	if on {
		v = 1
	}
	if err := w.lines[a].SetValue(v); err != nil {
		return fmt.Errorf("write %s: %w", a, err)
	}
	return nil
}

// Close drives every output low and releases the lines.
func (w *RealWriter) Close() error {
	var errs []error
	for i, line := range w.lines {
		if line == nil {
			continue
		}
		if err := line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("reset %s: %w", Actuator(i), err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", Actuator(i), err))
		}
		w.lines[i] = nil
	}
	if w.chip != nil {
		if err := w.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
		w.chip = nil
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealInputs reads the float sensor and flow switch.
type RealInputs struct {
	chip      *gpiocdev.Chip
	floatLine *gpiocdev.Line
	flowLine  *gpiocdev.Line
}

// NewRealInputs requests the two sensor lines as inputs with pull-up, matching
// the open-collector switches that pull the line low when active.
func NewRealInputs(chipName string, pins Pins) (*RealInputs, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	floatLine, err := chip.RequestLine(pins.Float, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request float pin %d: %w", pins.Float, err)
	}

	flowLine, err := chip.RequestLine(pins.FlowSwitch, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		floatLine.Close()
		chip.Close()
		return nil, fmt.Errorf("request flow switch pin %d: %w", pins.FlowSwitch, err)
	}

	return &RealInputs{chip: chip, floatLine: floatLine, flowLine: flowLine}, nil
}

// Read returns the logical sensor states.
// Inverts raw GPIO: raw low (0) = active = true.
func (r *RealInputs) Read() (bool, bool, error) {
	floatRaw, err := r.floatLine.Value()
	if err != nil {
		return false, false, fmt.Errorf("read float pin: %w", err)
	}
	flowRaw, err := r.flowLine.Value()
	if err != nil {
		return false, false, fmt.Errorf("read flow switch pin: %w", err)
	}
	return floatRaw == 0, flowRaw == 0, nil
}

// Close releases GPIO resources.
func (r *RealInputs) Close() error {
	var errs []error
	if r.floatLine != nil {
		if err := r.floatLine.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close float pin: %w", err))
		}
	}
	if r.flowLine != nil {
		if err := r.flowLine.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close flow switch pin: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// FlowMeter delivers a callback for every rising edge on the meter line.
// The callback runs on the gpiocdev event goroutine and must only bump a counter.
type FlowMeter struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// NewFlowMeter watches pin for rising edges and calls onPulse for each.
func NewFlowMeter(chipName string, pin int, onPulse func()) (*FlowMeter, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	line, err := chip.RequestLine(pin,
		gpiocdev.WithPullUp,
		gpiocdev.WithRisingEdge,
		gpiocdev.WithEventHandler(func(gpiocdev.LineEvent) { onPulse() }),
	)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request flow meter pin %d: %w", pin, err)
	}
	return &FlowMeter{chip: chip, line: line}, nil
}

// Close stops edge detection.
func (m *FlowMeter) Close() error {
	var errs []error
	if m.line != nil {
		if err := m.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close flow meter pin: %w", err))
		}
	}
	if m.chip != nil {
		if err := m.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
