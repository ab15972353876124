package sensor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// W1Probe reads a DS18B20 through the kernel w1_therm driver.
type W1Probe struct {
	path string
}

// FindW1Probe returns a probe for the first device matching glob,
// e.g. /sys/bus/w1/devices/28-*/temperature.
func FindW1Probe(glob string) (*W1Probe, error) {
	matches, err := filepath.Glob(glob)
	if err != nil {
		return nil, fmt.Errorf("probe glob: %w", err)
	}
	if len(matches) == 0 {
		return nil, errors.New("no 1-wire temperature probe found")
	}
	return &W1Probe{path: matches[0]}, nil
}

// Path returns the sysfs attribute being read.
func (p *W1Probe) Path() string {
	return p.path
}

// ReadCelsius reads the temperature attribute (millidegrees).
func (p *W1Probe) ReadCelsius() (float64, error) {
	milli, err := readInt(p.path)
	if err != nil {
		return 0, err
	}
	return float64(milli) / 1000, nil
}

// IIOADC reads one channel of an industrial-I/O ADC.
type IIOADC struct {
	path string
}

// NewIIOADC returns an ADC reading path, e.g.
// /sys/bus/iio/devices/iio:device0/in_voltage0_raw.
func NewIIOADC(path string) *IIOADC {
	return &IIOADC{path: path}
}

// ReadRaw returns the raw channel value.
func (a *IIOADC) ReadRaw() (int, error) {
	return readInt(a.path)
}

func readInt(path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	return v, nil
}
