package rtc

import (
	"sync"
	"time"
)

// FakeDevice is an in-memory clock. It does not advance on its own.
type FakeDevice struct {
	mu      sync.Mutex
	T       time.Time
	ReadErr error
	SetErr  error
	Sets    []time.Time
	Closed  bool
}

func (f *FakeDevice) Read() (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ReadErr != nil {
		return time.Time{}, f.ReadErr
	}
	return f.T, nil
}

func (f *FakeDevice) Set(t time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SetErr != nil {
		return f.SetErr
	}
	f.T = t
	f.Sets = append(f.Sets, t)
	return nil
}

func (f *FakeDevice) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}
