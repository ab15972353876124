package setpoint

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sweeney/water-controller/internal/nextion"
)

var t0 = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func TestValidTime(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{"00:00", true},
		{"23:59", true},
		{"12:30", true},
		{"24:00", false},
		{"12:60", false},
		{"1:30", false},
		{"12:300", false},
		{"12-30", false},
		{"ab:cd", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidTime(tt.s), tt.s)
	}
}

func TestStoreCommitsOnlyChanges(t *testing.T) {
	s := New(nil)

	changed := s.Update(nextion.Status{CoolingValue: 18, SetTime: "06:30"}, t0)
	assert.ElementsMatch(t, []Field{FieldCooling, FieldSetTime}, changed)
	assert.Equal(t, 18, s.CoolingTarget())
	assert.Equal(t, t0, s.Values().UpdatedAt)

	changed = s.Update(nextion.Status{CoolingValue: 18, SetTime: "06:30"}, t0.Add(time.Second))
	assert.Empty(t, changed)
	assert.Equal(t, t0, s.Values().UpdatedAt, "no change keeps the stamp")

	changed = s.Update(nextion.Status{CoolingValue: 18, SetTime: "06:30", Days: 2}, t0.Add(2*time.Second))
	assert.Equal(t, []Field{FieldDays}, changed)
	assert.Equal(t, t0.Add(2*time.Second), s.Values().UpdatedAt)
}

func TestStoreRejectsBadTime(t *testing.T) {
	s := New(nil)
	s.Update(nextion.Status{SetTime: "06:30", SetAuto: "07:00"}, t0)

	changed := s.Update(nextion.Status{SetTime: "25:00", SetAuto: "7:00"}, t0.Add(time.Second))
	assert.Empty(t, changed)
	v := s.Values()
	assert.Equal(t, "06:30", v.SetTime)
	assert.Equal(t, "07:00", v.SetAuto)
}

func TestStoreIgnoresEmptyTime(t *testing.T) {
	s := New(nil)
	s.Update(nextion.Status{SetTime: "06:30"}, t0)
	changed := s.Update(nextion.Status{}, t0.Add(time.Second))
	assert.Empty(t, changed)
	assert.Equal(t, "06:30", s.Values().SetTime)
}

func TestStoreCoolingTargetRange(t *testing.T) {
	s := New(nil)
	assert.Equal(t, DefaultCoolingTarget, s.CoolingTarget(), "plain COOLING_ON before any setpoint")

	changed := s.Update(nextion.Status{}, t0)
	assert.Empty(t, changed)
	assert.Equal(t, DefaultCoolingTarget, s.CoolingTarget())

	s.Update(nextion.Status{CoolingValue: 55}, t0)
	assert.Equal(t, 55, s.CoolingTarget())

	for _, v := range []int{0, -3, 101} {
		changed = s.Update(nextion.Status{CoolingValue: v}, t0.Add(time.Second))
		assert.Empty(t, changed, "value %d", v)
		assert.Equal(t, 55, s.CoolingTarget(), "value %d keeps the last target", v)
	}
}

func TestStoreAllFields(t *testing.T) {
	s := New(nil)
	st := nextion.Status{
		SetTime: "01:02", SetAuto: "03:04", Days: 5, AutoTemp: 6, Count: 7, CoolingValue: 8,
	}
	changed := s.Update(st, t0)
	assert.Len(t, changed, 6)

	v := s.Values()
	assert.Equal(t, Values{
		SetTime: "01:02", SetAuto: "03:04", Days: 5, AutoTemp: 6, Count: 7, CoolingValue: 8, UpdatedAt: t0,
	}, v)
}
