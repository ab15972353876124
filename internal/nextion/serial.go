package nextion

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// OpenPort opens the display UART as 8N1 at baud. Reads return after
// readTimeout with no data so the gateway can detect idle gaps.
func OpenPort(name string, baud int, readTimeout time.Duration) (serial.Port, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", name, err)
	}
	if err := p.SetReadTimeout(readTimeout); err != nil {
		p.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", name, err)
	}
	return p, nil
}
