package gpio

import (
	"log/slog"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/sweeney/water-controller/internal/logging"
)

// Bank is the actuator boundary used by the control core: binary set/get per
// actuator plus an all-off emergency call. Writes are serialized by the bank
// mutex; State reads come from a concurrent cache and never block on a write
// in progress.
type Bank struct {
	mu     sync.Mutex
	w      Writer
	states *xsync.MapOf[Actuator, bool]
	log    *slog.Logger
}

// NewBank wraps w. All actuators start in the OFF state.
func NewBank(w Writer, log *slog.Logger) *Bank {
	b := &Bank{
		w:      w,
		states: xsync.NewMapOf[Actuator, bool](),
		log:    logging.Component(log, "gpio"),
	}
	for _, a := range All() {
		b.states.Store(a, false)
	}
	return b
}

// Set drives a to on. A failed hardware write is logged and leaves the cached
// state unchanged.
func (b *Bank) Set(a Actuator, on bool) {
	b.mu.Lock()
	err := b.w.Write(a, on)
	if err == nil {
		b.states.Store(a, on)
	}
	b.mu.Unlock()

	if err != nil {
		b.log.Warn("actuator write failed", "actuator", a, "on", on, "err", err)
		return
	}
	b.log.Debug("actuator", "actuator", a, "on", on)
}

// State returns the last successfully written value for a.
func (b *Bank) State(a Actuator) bool {
	on, _ := b.states.Load(a)
	return on
}

// AllOff de-energizes every output.
func (b *Bank) AllOff() {
	b.mu.Lock()
	var failed []Actuator
	for _, a := range All() {
		if err := b.w.Write(a, false); err != nil {
			failed = append(failed, a)
			continue
		}
		b.states.Store(a, false)
	}
	b.mu.Unlock()

	if len(failed) > 0 {
		b.log.Warn("all off: some writes failed", "actuators", failed)
		return
	}
	b.log.Info("all actuators off")
}

// Beep sounds the buzzer for d without blocking the caller.
func (b *Bank) Beep(d time.Duration) {
	b.Set(Buzzer, true)
	time.AfterFunc(d, func() { b.Set(Buzzer, false) })
}

// States returns a copy of every actuator's cached state.
func (b *Bank) States() map[Actuator]bool {
	out := make(map[Actuator]bool, NumActuators)
	b.states.Range(func(a Actuator, on bool) bool {
		out[a] = on
		return true
	})
	return out
}

// Close turns everything off and releases the writer.
func (b *Bank) Close() error {
	b.AllOff()
	return b.w.Close()
}
