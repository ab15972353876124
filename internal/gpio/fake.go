package gpio

import (
	"errors"
	"sync"
)

// FakeInputs is a test double that returns scripted sensor values.
type FakeInputs struct {
	// Samples contains scripted values to return.
	// Each call to Read() consumes the next sample.
	Samples []Sample

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// Sample represents a single input reading (already in logical form).
type Sample struct {
	Float      bool // true = water at fill line
	FlowSwitch bool // true = water moving
}

// NewFakeInputs creates a FakeInputs with the given samples.
func NewFakeInputs(samples []Sample) *FakeInputs {
	return &FakeInputs{Samples: samples}
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeInputs) Read() (bool, bool, error) {
	if f.ReadError != nil {
		return false, false, f.ReadError
	}

	if len(f.Samples) == 0 {
		return false, false, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample.Float, sample.FlowSwitch, nil
}

// Close marks the inputs as closed.
func (f *FakeInputs) Close() error {
	f.Closed = true
	return nil
}

// Reset rewinds to the beginning of samples.
func (f *FakeInputs) Reset() {
	f.index = 0
	f.Closed = false
}

// Write is one recorded output change.
type Write struct {
	Actuator Actuator
	On       bool
}

// FakeWriter records output writes for test assertions.
// Safe for concurrent use (Bank.Beep writes from a timer goroutine).
type FakeWriter struct {
	mu     sync.Mutex
	writes []Write
	levels [NumActuators]bool
	failOn map[Actuator]error
	closed bool
}

// NewFakeWriter creates a FakeWriter with every output low.
func NewFakeWriter() *FakeWriter {
	return &FakeWriter{failOn: make(map[Actuator]error)}
}

// Write records the change, or returns the error configured with FailOn.
func (f *FakeWriter) Write(a Actuator, on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failOn[a]; err != nil {
		return err
	}
	f.writes = append(f.writes, Write{Actuator: a, On: on})
	f.levels[a] = on
	return nil
}

// FailOn makes every later write to a return err. A nil err clears it.
func (f *FakeWriter) FailOn(a Actuator, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.failOn, a)
		return
	}
	f.failOn[a] = err
}

// Level returns the current output level of a.
func (f *FakeWriter) Level(a Actuator) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.levels[a]
}

// Writes returns a copy of every recorded write.
func (f *FakeWriter) Writes() []Write {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Write(nil), f.writes...)
}

// Close marks the writer as closed.
func (f *FakeWriter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Closed reports whether Close was called.
func (f *FakeWriter) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
