package mqtt

import "github.com/sweeney/water-controller/internal/fsm"

// FakePublisher records published events for test assertions.
type FakePublisher struct {
	// Transitions contains all state changes that were published.
	Transitions []fsm.Transition

	// Payloads contains the JSON payloads for transitions.
	Payloads [][]byte

	// SystemEvents contains all system events that were published.
	SystemEvents []SystemEvent

	// SystemPayloads contains the JSON payloads for system events.
	SystemPayloads [][]byte

	// PublishError, if set, will be returned by PublishTransition.
	PublishError error

	// PublishSystemError, if set, will be returned by PublishSystem.
	PublishSystemError error

	// SubscribeError, if set, will be returned by SubscribeCommands.
	SubscribeError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool

	handler func(string)
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// PublishTransition records the transition.
func (f *FakePublisher) PublishTransition(t fsm.Transition) error {
	if f.PublishError != nil {
		return f.PublishError
	}

	payload, err := FormatTransition(t)
	if err != nil {
		return err
	}
	f.Transitions = append(f.Transitions, t)
	f.Payloads = append(f.Payloads, payload)
	return nil
}

// PublishSystem records the system event.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemEvents = append(f.SystemEvents, event)
	f.SystemPayloads = append(f.SystemPayloads, payload)
	return nil
}

// SubscribeCommands stores fn so Deliver can invoke it.
func (f *FakePublisher) SubscribeCommands(fn func(cmd string)) error {
	if f.SubscribeError != nil {
		return f.SubscribeError
	}
	f.handler = fn
	return nil
}

// Deliver simulates a command payload arriving on the command topic.
// It reports whether a handler was subscribed.
func (f *FakePublisher) Deliver(payload string) bool {
	if f.handler == nil {
		return false
	}
	cmd := NormalizeCommand([]byte(payload))
	if cmd == "" {
		return true
	}
	f.handler(cmd)
	return true
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake publisher is "connected".
func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// Reset clears recorded events.
func (f *FakePublisher) Reset() {
	f.Transitions = nil
	f.Payloads = nil
	f.SystemEvents = nil
	f.SystemPayloads = nil
	f.Closed = false
	f.PublishError = nil
	f.PublishSystemError = nil
	f.SubscribeError = nil
	f.Connected = false
	f.handler = nil
}
