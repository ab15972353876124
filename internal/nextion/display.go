package nextion

import (
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/sweeney/water-controller/internal/logging"
)

// Display sends the controller's outbound commands. Send failures are
// logged and otherwise ignored.
type Display struct {
	s   Sender
	log *slog.Logger

	mu          sync.Mutex
	coolMinutes int
}

// NewDisplay wraps s.
func NewDisplay(s Sender, log *slog.Logger) *Display {
	return &Display{
		s:           s,
		log:         logging.Component(log, "nextion"),
		coolMinutes: -1,
	}
}

func (d *Display) send(cmds ...string) {
	for _, cmd := range cmds {
		if err := d.s.Send(cmd); err != nil {
			d.log.Warn("display send failed", "cmd", cmd, "err", err)
			return
		}
	}
}

// SetErrorBlink turns the error indicator animation on or off.
func (d *Display) SetErrorBlink(on bool) {
	v := 0
	if on {
		v = 1
	}
	d.send(
		NumberCommand("blinkingEF", v),
		propertyCommand("tBlinkEF", "en", v),
	)
	d.log.Debug("error blink", "on", on)
}

// UpdateCoolingDuration shows elapsed cooling minutes. Repeated values are
// not re-sent.
func (d *Display) UpdateCoolingDuration(minutes int) {
	d.mu.Lock()
	if minutes == d.coolMinutes {
		d.mu.Unlock()
		return
	}
	d.coolMinutes = minutes
	d.mu.Unlock()

	d.send(NumberCommand("nCoolDurMan", minutes))
}

// ForceFillingOff returns the filling button to its idle look.
func (d *Display) ForceFillingOff() {
	d.send(
		NumberCommand("blinkingFM", 0),
		propertyCommand("tBlinkFM", "en", 0),
		propertyCommand("pFillingMan", "pic", 6),
		NumberCommand("activeProcess", 0),
	)
	d.log.Info("force filling off")
}

// ForceDrainingOff returns the draining button to its idle look.
func (d *Display) ForceDrainingOff() {
	d.send(
		NumberCommand("blinkingDM", 0),
		propertyCommand("tBlinkDM", "en", 0),
		propertyCommand("pDrainingMan", "pic", 10),
		NumberCommand("activeProcess", 0),
	)
	d.log.Info("force draining off")
}

// ShowClock sets the clock label.
func (d *Display) ShowClock(hhmm string) {
	d.send(TextCommand("tClock", hhmm))
}

// ShowSensors pushes the three sensor widgets. Invalid readings show as 0.
func (d *Display) ShowSensors(temp float64, tempValid bool, tds int, tdsValid bool, flow float64) {
	t := 0
	if tempValid {
		t = clamp(int(math.Round(temp)), -50, 100)
	}
	p := 0
	if tdsValid {
		p = clamp(tds, 0, 9999)
	}
	d.send(
		NumberCommand("nTemp", t),
		NumberCommand("nTDS", p),
		TextCommand("tFlow", fmt.Sprintf("%.2f", flow)),
	)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
