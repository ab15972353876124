// Package rtc wraps the battery-backed real-time clock.
//
// A clock whose device failed to open stays invalid for the life of the
// process; every accessor then returns its documented default.
package rtc

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sweeney/water-controller/internal/logging"
)

// Defaults returned while the clock is invalid.
const (
	NoTime     = "--:--"
	NoTimeFull = "--:--:--"
)

// ErrInvalid is returned by setters on a clock that failed to initialize.
var ErrInvalid = errors.New("rtc: clock not available")

// Device reads and writes the hardware clock. Times are wall-clock values;
// the location is ignored.
type Device interface {
	Read() (time.Time, error)
	Set(t time.Time) error
	Close() error
}

// Clock is the process-wide clock boundary.
type Clock struct {
	mu    sync.Mutex
	dev   Device
	valid bool
	log   *slog.Logger
}

// NewClock wraps dev. A nil dev gives a permanently invalid clock.
func NewClock(dev Device, log *slog.Logger) *Clock {
	return &Clock{
		dev:   dev,
		valid: dev != nil,
		log:   logging.Component(log, "rtc"),
	}
}

// Open opens the device at path. Failure is logged and yields an invalid
// clock rather than an error.
func Open(path string, log *slog.Logger) *Clock {
	dev, err := OpenDevice(path)
	if err != nil {
		logging.Component(log, "rtc").Warn("rtc unavailable", "device", path, "err", err)
		return NewClock(nil, log)
	}
	return NewClock(dev, log)
}

// Valid reports whether the clock initialized.
func (c *Clock) Valid() bool {
	return c.valid
}

// Now reads the clock. ok is false when invalid or the read failed.
func (c *Clock) Now() (t time.Time, ok bool) {
	if !c.valid {
		return time.Time{}, false
	}
	c.mu.Lock()
	t, err := c.dev.Read()
	c.mu.Unlock()
	if err != nil {
		c.log.Debug("rtc read failed", "err", err)
		return time.Time{}, false
	}
	return t, true
}

// TimeString returns HH:MM, or NoTime.
func (c *Clock) TimeString() string {
	t, ok := c.Now()
	if !ok {
		return NoTime
	}
	return t.Format("15:04")
}

// TimeStringFull returns HH:MM:SS, or NoTimeFull.
func (c *Clock) TimeStringFull() string {
	t, ok := c.Now()
	if !ok {
		return NoTimeFull
	}
	return t.Format("15:04:05")
}

// Hour returns the hour, or 0.
func (c *Clock) Hour() int {
	t, _ := c.Now()
	return t.Hour()
}

// Minute returns the minute, or 0.
func (c *Clock) Minute() int {
	t, _ := c.Now()
	return t.Minute()
}

// Second returns the second, or 0.
func (c *Clock) Second() int {
	t, _ := c.Now()
	return t.Second()
}

// SetTime sets hour and minute from an HH:MM string, keeping the date and
// zeroing seconds.
func (c *Clock) SetTime(hhmm string) error {
	var h, m int
	if len(hhmm) != 5 || hhmm[2] != ':' {
		return fmt.Errorf("rtc: bad time %q", hhmm)
	}
	if _, err := fmt.Sscanf(hhmm, "%02d:%02d", &h, &m); err != nil {
		return fmt.Errorf("rtc: bad time %q: %w", hhmm, err)
	}
	return c.SetHourMinute(h, m)
}

// SetHourMinute sets the time of day.
func (c *Clock) SetHourMinute(hour, minute int) error {
	if !c.valid {
		return ErrInvalid
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return fmt.Errorf("rtc: time out of range %02d:%02d", hour, minute)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	cur, err := c.dev.Read()
	if err != nil {
		return fmt.Errorf("rtc read: %w", err)
	}
	next := time.Date(cur.Year(), cur.Month(), cur.Day(), hour, minute, 0, 0, cur.Location())
	if err := c.dev.Set(next); err != nil {
		return fmt.Errorf("rtc set: %w", err)
	}
	c.log.Info("rtc set", "time", next.Format("2006-01-02 15:04:05"))
	return nil
}

// Close releases the device.
func (c *Clock) Close() error {
	if !c.valid {
		return nil
	}
	return c.dev.Close()
}
