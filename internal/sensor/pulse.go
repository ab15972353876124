package sensor

import "sync/atomic"

// PulseCounter counts flow-meter pulses. The edge handler only ever receives
// the function returned by Incrementer; the fusion loop is the sole reader.
type PulseCounter struct {
	total atomic.Uint32
	last  uint32
}

// Incrementer returns the capability handed to the interrupt context.
func (c *PulseCounter) Incrementer() func() {
	return func() { c.total.Add(1) }
}

// Take returns the pulses counted since the previous Take and the running total.
// Not safe for concurrent callers.
func (c *PulseCounter) Take() (delta, total uint32) {
	total = c.total.Load()
	delta = total - c.last
	c.last = total
	return delta, total
}
