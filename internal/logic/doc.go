// Package logic contains pure timing primitives used by the control core.
// This package has NO external dependencies (no GPIO, serial, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic
