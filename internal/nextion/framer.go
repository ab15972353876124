package nextion

import "time"

// Link framing defaults.
const (
	FrameSize = 100
	FrameGap  = 50 * time.Millisecond
)

// Framer splits an unterminated byte stream into frames. A frame ends when
// the buffer reaches capacity or no byte has arrived for the idle gap.
type Framer struct {
	buf  []byte
	size int
	gap  time.Duration
	last time.Time
}

// NewFramer returns a framer with the given capacity and idle gap.
func NewFramer(size int, gap time.Duration) *Framer {
	return &Framer{
		buf:  make([]byte, 0, size),
		size: size,
		gap:  gap,
	}
}

// Feed appends p, received at now, and returns any frames that filled up.
func (f *Framer) Feed(p []byte, now time.Time) [][]byte {
	var out [][]byte
	for _, c := range p {
		f.buf = append(f.buf, c)
		f.last = now
		if len(f.buf) >= f.size {
			out = append(out, f.take())
		}
	}
	return out
}

// Poll returns the buffered frame once the idle gap has elapsed.
func (f *Framer) Poll(now time.Time) ([]byte, bool) {
	if len(f.buf) == 0 || now.Sub(f.last) < f.gap {
		return nil, false
	}
	return f.take(), true
}

// Pending returns the number of buffered bytes.
func (f *Framer) Pending() int {
	return len(f.buf)
}

func (f *Framer) take() []byte {
	frame := make([]byte, len(f.buf))
	copy(frame, f.buf)
	f.buf = f.buf[:0]
	return frame
}
