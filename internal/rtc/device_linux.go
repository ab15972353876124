//go:build linux

package rtc

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

type ioctlDevice struct {
	fd int
}

// OpenDevice opens a kernel RTC character device such as /dev/rtc0 and
// verifies it can be read.
func OpenDevice(path string) (Device, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	d := &ioctlDevice{fd: fd}
	if _, err := d.Read(); err != nil {
		unix.Close(fd)
		return nil, err
	}
	return d, nil
}

func (d *ioctlDevice) Read() (time.Time, error) {
	rt, err := unix.IoctlGetRTCTime(d.fd)
	if err != nil {
		return time.Time{}, fmt.Errorf("RTC_RD_TIME: %w", err)
	}
	return time.Date(int(rt.Year)+1900, time.Month(rt.Mon+1), int(rt.Mday),
		int(rt.Hour), int(rt.Min), int(rt.Sec), 0, time.UTC), nil
}

func (d *ioctlDevice) Set(t time.Time) error {
	rt := &unix.RTCTime{
		Sec:  int32(t.Second()),
		Min:  int32(t.Minute()),
		Hour: int32(t.Hour()),
		Mday: int32(t.Day()),
		Mon:  int32(t.Month()) - 1,
		Year: int32(t.Year()) - 1900,
		Wday: int32(t.Weekday()),
		Yday: int32(t.YearDay()) - 1,
	}
	if err := unix.IoctlSetRTCTime(d.fd, rt); err != nil {
		return fmt.Errorf("RTC_SET_TIME: %w", err)
	}
	return nil
}

func (d *ioctlDevice) Close() error {
	return unix.Close(d.fd)
}
