//go:build !linux

package rtc

import "errors"

// OpenDevice returns an error on non-Linux platforms.
func OpenDevice(path string) (Device, error) {
	return nil, errors.New("rtc: not supported on this platform (requires Linux)")
}
