//go:build !linux

package gpio

import "errors"

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealWriter is not available on non-Linux platforms.
type RealWriter struct{}

// NewRealWriter returns an error on non-Linux platforms.
func NewRealWriter(chipName string, pins Pins) (*RealWriter, error) {
	return nil, errUnsupported
}

// Write is not implemented on non-Linux platforms.
func (w *RealWriter) Write(a Actuator, on bool) error {
	return errUnsupported
}

// Close is not implemented on non-Linux platforms.
func (w *RealWriter) Close() error {
	return nil
}

// RealInputs is not available on non-Linux platforms.
type RealInputs struct{}

// NewRealInputs returns an error on non-Linux platforms.
func NewRealInputs(chipName string, pins Pins) (*RealInputs, error) {
	return nil, errUnsupported
}

// Read is not implemented on non-Linux platforms.
func (r *RealInputs) Read() (bool, bool, error) {
	return false, false, errUnsupported
}

// Close is not implemented on non-Linux platforms.
func (r *RealInputs) Close() error {
	return nil
}

// FlowMeter is not available on non-Linux platforms.
type FlowMeter struct{}

// NewFlowMeter returns an error on non-Linux platforms.
func NewFlowMeter(chipName string, pin int, onPulse func()) (*FlowMeter, error) {
	return nil, errUnsupported
}

// Close is not implemented on non-Linux platforms.
func (m *FlowMeter) Close() error {
	return nil
}
