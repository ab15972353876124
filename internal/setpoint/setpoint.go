// Package setpoint keeps the operator's committed settings.
//
// Values from the status record are committed only when they differ from
// the stored value; time strings must also pass ValidTime. Each commit
// stamps UpdatedAt.
package setpoint

import (
	"log/slog"
	"sync"
	"time"

	"github.com/sweeney/water-controller/internal/logging"
	"github.com/sweeney/water-controller/internal/nextion"
)

// Field names a committed setting.
type Field string

const (
	FieldSetTime  Field = "settime"
	FieldSetAuto  Field = "setauto"
	FieldDays     Field = "days"
	FieldAutoTemp Field = "autotemp"
	FieldCount    Field = "count"
	FieldCooling  Field = "cooling"
)

// Cooling setpoint bounds in °C. Until a value in range is committed the
// cooling target is DefaultCoolingTarget.
const (
	MinCoolingTarget     = 1
	MaxCoolingTarget     = 100
	DefaultCoolingTarget = 10
)

// Values is the committed settings group. Copied whole.
type Values struct {
	SetTime      string
	SetAuto      string
	Days         int
	AutoTemp     int
	Count        int
	CoolingValue int
	UpdatedAt    time.Time
}

// Store holds Values behind a lock.
type Store struct {
	mu  sync.Mutex
	v   Values
	log *slog.Logger
}

// New returns an empty store.
func New(log *slog.Logger) *Store {
	return &Store{log: logging.Component(log, "setpoint")}
}

// Values returns a copy of the committed settings.
func (s *Store) Values() Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v
}

// CoolingTarget returns the committed cooling setpoint in °C, or
// DefaultCoolingTarget when none has been committed.
func (s *Store) CoolingTarget() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.v.CoolingValue == 0 {
		return DefaultCoolingTarget
	}
	return s.v.CoolingValue
}

// Update commits every field of st that changed and returns their names.
func (s *Store) Update(st nextion.Status, now time.Time) []Field {
	s.mu.Lock()
	var changed []Field
	var rejected []string

	if st.SetTime != "" && st.SetTime != s.v.SetTime {
		if ValidTime(st.SetTime) {
			s.v.SetTime = st.SetTime
			changed = append(changed, FieldSetTime)
		} else {
			rejected = append(rejected, st.SetTime)
		}
	}
	if st.SetAuto != "" && st.SetAuto != s.v.SetAuto {
		if ValidTime(st.SetAuto) {
			s.v.SetAuto = st.SetAuto
			changed = append(changed, FieldSetAuto)
		} else {
			rejected = append(rejected, st.SetAuto)
		}
	}
	if st.Days != s.v.Days {
		s.v.Days = st.Days
		changed = append(changed, FieldDays)
	}
	if st.AutoTemp != s.v.AutoTemp {
		s.v.AutoTemp = st.AutoTemp
		changed = append(changed, FieldAutoTemp)
	}
	if st.Count != s.v.Count {
		s.v.Count = st.Count
		changed = append(changed, FieldCount)
	}
	// Out of range values, including the unset 0, keep the last target.
	if st.CoolingValue != s.v.CoolingValue &&
		st.CoolingValue >= MinCoolingTarget && st.CoolingValue <= MaxCoolingTarget {
		s.v.CoolingValue = st.CoolingValue
		changed = append(changed, FieldCooling)
	}
	if len(changed) > 0 {
		s.v.UpdatedAt = now
	}
	v := s.v
	s.mu.Unlock()

	for _, r := range rejected {
		s.log.Debug("invalid time format", "value", r)
	}
	if len(changed) > 0 {
		s.log.Info("setpoints updated", "fields", changed,
			"settime", v.SetTime, "setauto", v.SetAuto, "days", v.Days,
			"autotemp", v.AutoTemp, "count", v.Count, "cooling", v.CoolingValue)
	}
	return changed
}

// ValidTime reports whether s is HH:MM with hour 00-23 and minute 00-59.
func ValidTime(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	return h <= 23 && m <= 59
}
