package nextion

import (
	"bytes"
	"strconv"
	"strings"
)

// sentinel ends the text part of a frame.
const sentinel = 0xFF

var coolingKeyword = []byte("COOLING_ON")

// Decoded is the result of decoding one frame.
type Decoded struct {
	// CoolingValue is the raw byte following COOLING_ON, when it was 1-100.
	CoolingValue int
	HasCooling   bool

	// Text is the printable content up to the first sentinel, trimmed.
	Text string
}

// Decode runs both decoders over one frame.
func Decode(frame []byte) Decoded {
	var d Decoded
	d.CoolingValue, d.HasCooling = coolingByte(frame)
	d.Text = extractText(frame)
	return d
}

// coolingByte looks for the keyword with at least one byte after it. Only the
// first occurrence is considered.
func coolingByte(frame []byte) (int, bool) {
	n := len(coolingKeyword)
	for i := 0; i+n < len(frame); i++ {
		if !bytes.Equal(frame[i:i+n], coolingKeyword) {
			continue
		}
		v := int(frame[i+n])
		if v >= 1 && v <= 100 {
			return v, true
		}
		return 0, false
	}
	return 0, false
}

func extractText(frame []byte) string {
	var b strings.Builder
	for _, c := range frame {
		if c == sentinel {
			break
		}
		if c >= 32 && c <= 126 {
			b.WriteByte(c)
		}
	}
	return strings.TrimSpace(b.String())
}

// apply matches msg against the command vocabulary.
func apply(s *Status, msg string) bool {
	switch msg {
	case "COOLING_ON":
		s.Cooling = true
	case "COOLING_OFF":
		s.Cooling = false
	case "FILLING_ON":
		s.Filling = true
	case "FILLING_OFF":
		s.Filling = false
	case "DRAINING_ON":
		s.Draining = true
	case "DRAINING_OFF":
		s.Draining = false
	case "AUTO_ON":
		s.Auto = true
	case "AUTO_OFF":
		s.Auto = false
	case "CIRCULATION_ON":
		s.Circulation = true
	case "CIRCULATION_OFF":
		s.Circulation = false
	case "CIRCULATION_OFFAUTO_OFF":
		s.Circulation = false
		s.Auto = false

	case "bypassInlet":
		s.BypassInlet = !s.BypassInlet
	case "bypassDrain":
		s.BypassDrain = !s.BypassDrain
	case "bypassCompre":
		s.BypassCompressor = !s.BypassCompressor
	case "bypassPumpUV":
		s.BypassPumpUV = !s.BypassPumpUV
	case "bypassOzone":
		s.BypassOzone = !s.BypassOzone
	case "bypassHydro":
		s.BypassHydro = !s.BypassHydro

	case "GOTO_BYPASS_MENU":
		s.InBypassMenu = true
	case "EXIT_BYPASS_MENU":
		s.InBypassMenu = false

	default:
		return applyAssignment(s, msg)
	}
	return true
}

func applyAssignment(s *Status, msg string) bool {
	if v, ok := strings.CutPrefix(msg, "settime="); ok {
		s.SetTime = v
		return true
	}
	if v, ok := strings.CutPrefix(msg, "setAuto="); ok {
		s.SetAuto = v
		return true
	}
	if v, ok := strings.CutPrefix(msg, "count"); ok {
		s.Count = atoiOrZero(v)
		return true
	}
	if v, ok := strings.CutPrefix(msg, "days:"); ok {
		s.Days = atoiOrZero(v)
		return true
	}
	if v, ok := strings.CutPrefix(msg, "autotemp"); ok {
		s.AutoTemp = atoiOrZero(v)
		return true
	}
	return false
}

func atoiOrZero(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}
