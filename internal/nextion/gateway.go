package nextion

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sweeney/water-controller/internal/logging"
)

// Sender transmits one display command.
type Sender interface {
	Send(cmd string) error
}

// Stats counts gateway traffic.
type Stats struct {
	Frames  uint64 // frames decoded
	Applied uint64 // messages that changed the record
	Dropped uint64 // messages outside the vocabulary
}

// Gateway owns the serial link: it frames and decodes inbound bytes into the
// Record and serializes outbound commands.
type Gateway struct {
	port   io.ReadWriter
	record *Record
	framer *Framer
	log    *slog.Logger

	wmu sync.Mutex

	frames  atomic.Uint64
	applied atomic.Uint64
	dropped atomic.Uint64
}

// NewGateway creates a gateway over port writing into record.
func NewGateway(port io.ReadWriter, record *Record, gap time.Duration, log *slog.Logger) *Gateway {
	if gap <= 0 {
		gap = FrameGap
	}
	return &Gateway{
		port:   port,
		record: record,
		framer: NewFramer(FrameSize, gap),
		log:    logging.Component(log, "nextion"),
	}
}

// Record returns the status record the gateway writes.
func (g *Gateway) Record() *Record {
	return g.record
}

// Stats returns traffic counters.
func (g *Gateway) Stats() Stats {
	return Stats{
		Frames:  g.frames.Load(),
		Applied: g.applied.Load(),
		Dropped: g.dropped.Load(),
	}
}

// Send writes cmd and its terminator to the link.
func (g *Gateway) Send(cmd string) error {
	g.wmu.Lock()
	defer g.wmu.Unlock()
	if _, err := g.port.Write(Frame(cmd)); err != nil {
		return fmt.Errorf("send %q: %w", cmd, err)
	}
	return nil
}

// Ingest feeds bytes received at now. Ingest and Poll must be called from a
// single goroutine.
func (g *Gateway) Ingest(p []byte, now time.Time) {
	for _, frame := range g.framer.Feed(p, now) {
		g.Process(frame)
	}
}

// Poll flushes a partial frame once the idle gap has elapsed.
func (g *Gateway) Poll(now time.Time) {
	if frame, ok := g.framer.Poll(now); ok {
		g.Process(frame)
	}
}

// Process decodes one complete frame into the record.
func (g *Gateway) Process(frame []byte) {
	g.frames.Add(1)
	d := Decode(frame)
	if d.HasCooling {
		g.record.SetCooling(d.CoolingValue)
		g.applied.Add(1)
		g.log.Info("cooling setpoint", "value", d.CoolingValue)
	}
	if d.Text != "" {
		g.HandleMessage(d.Text)
	}
}

// HandleMessage applies one text command. Unknown commands are dropped.
func (g *Gateway) HandleMessage(msg string) bool {
	if !g.record.Apply(msg) {
		g.dropped.Add(1)
		g.log.Debug("dropped message", "msg", msg)
		return false
	}
	g.applied.Add(1)
	g.log.Info("command", "msg", msg)
	return true
}

// Run reads the link until ctx is done or the port fails. The port must have
// a read timeout so that idle gaps are observed while no bytes arrive.
func (g *Gateway) Run(ctx context.Context, clock func() time.Time) error {
	buf := make([]byte, FrameSize)
	for {
		if ctx.Err() != nil {
			return nil
		}
		n, err := g.port.Read(buf)
		now := clock()
		if n > 0 {
			g.Ingest(buf[:n], now)
		}
		g.Poll(now)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("serial read: %w", err)
		}
	}
}
