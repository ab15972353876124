package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/water-controller/internal/fsm"
)

func TestNewTopics(t *testing.T) {
	tests := []struct {
		prefix string
		want   Topics
	}{
		{"water/controller", Topics{"water/controller/events", "water/controller/system", "water/controller/command"}},
		{"site/a/", Topics{"site/a/events", "site/a/system", "site/a/command"}},
		{"", Topics{"water/controller/events", "water/controller/system", "water/controller/command"}},
	}
	for _, tt := range tests {
		if got := NewTopics(tt.prefix); got != tt.want {
			t.Errorf("NewTopics(%q): got %+v, want %+v", tt.prefix, got, tt.want)
		}
	}
}

func TestFormatTransition(t *testing.T) {
	tr := fsm.Transition{
		From:     fsm.Idle,
		To:       fsm.Filling,
		At:       time.Date(2026, 2, 10, 8, 30, 0, 0, time.UTC),
		Reason:   "filling requested",
		Duration: 90*time.Second + 250*time.Millisecond,
	}

	payload, err := FormatTransition(tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"transition":{"timestamp":"2026-02-10T08:30:00Z","from":"IDLE","to":"FILLING","reason":"filling requested","duration_seconds":90.25}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", payload, expected)
	}
}

func TestFormatTransitionOmitsEmptyReason(t *testing.T) {
	payload, err := FormatTransition(fsm.Transition{From: fsm.Error, To: fsm.Idle, At: time.Now()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed map[string]map[string]interface{}
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, exists := parsed["transition"]["reason"]; exists {
		t.Error("reason should be omitted when empty")
	}
	if parsed["transition"]["to"] != "IDLE" {
		t.Errorf("to: got %v, want IDLE", parsed["transition"]["to"])
	}
}

func TestFormatTransitionTimezoneConversion(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	payload, _ := FormatTransition(fsm.Transition{
		From: fsm.Cooling,
		To:   fsm.Idle,
		At:   time.Date(2026, 2, 10, 10, 0, 0, 0, loc),
	})

	var parsed TransitionPayload
	json.Unmarshal(payload, &parsed)
	if parsed.Transition.Timestamp != "2026-02-10T08:00:00Z" {
		t.Errorf("timestamp: got %s, want 2026-02-10T08:00:00Z", parsed.Transition.Timestamp)
	}
}

func TestFormatSystemPayload(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 10, 8, 30, 0, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"system":{"timestamp":"2026-02-10T08:30:00Z","event":"SHUTDOWN","reason":"SIGTERM"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", payload, expected)
	}
}

func TestFormatSystemPayloadRawPassthrough(t *testing.T) {
	raw := []byte(`{"status":{"event":"HEARTBEAT"}}`)
	payload, err := FormatSystemPayload(SystemEvent{Event: "HEARTBEAT", RawPayload: raw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != string(raw) {
		t.Errorf("expected raw payload passthrough, got %s", payload)
	}
}

func TestFormatSystemPayloadReconnected(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 10, 14, 30, 0, 0, time.UTC),
		Event:     "RECONNECTED",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"system":{"timestamp":"2026-02-10T14:30:00Z","event":"RECONNECTED"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", payload, expected)
	}
}

func TestNormalizeCommand(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"FILLING_ON", "FILLING_ON"},
		{"  DRAINING_OFF\n", "DRAINING_OFF"},
		{"settime=07:30\x00\x00", "settime=07:30"},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := NormalizeCommand([]byte(tt.in)); got != tt.want {
			t.Errorf("NormalizeCommand(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFakePublisher(t *testing.T) {
	f := NewFakePublisher()
	tr := fsm.Transition{From: fsm.Idle, To: fsm.Cooling, At: time.Now()}

	if err := f.PublishTransition(tr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Transitions) != 1 {
		t.Fatalf("expected 1 transition, got %d", len(f.Transitions))
	}
	if f.Transitions[0].To != fsm.Cooling {
		t.Errorf("To: got %v, want COOLING", f.Transitions[0].To)
	}
	if len(f.Payloads) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(f.Payloads))
	}
}

func TestFakePublisherError(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("broker down")

	if err := f.PublishTransition(fsm.Transition{}); err == nil {
		t.Error("expected error")
	}
	if len(f.Transitions) != 0 {
		t.Errorf("expected no recorded transitions, got %d", len(f.Transitions))
	}
}

func TestFakePublisherPublishSystem(t *testing.T) {
	f := NewFakePublisher()
	event := SystemEvent{Timestamp: time.Now(), Event: "STARTUP", Retained: true}

	if err := f.PublishSystem(event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.SystemEvents) != 1 || !f.SystemEvents[0].Retained {
		t.Errorf("SystemEvents: got %+v", f.SystemEvents)
	}
	if len(f.SystemPayloads) != 1 {
		t.Errorf("expected 1 system payload, got %d", len(f.SystemPayloads))
	}

	f.PublishSystemError = errors.New("boom")
	if err := f.PublishSystem(event); err == nil {
		t.Error("expected error")
	}
}

func TestFakePublisherDeliver(t *testing.T) {
	f := NewFakePublisher()
	if f.Deliver("FILLING_ON") {
		t.Error("Deliver without subscription should report false")
	}

	var got []string
	if err := f.SubscribeCommands(func(cmd string) { got = append(got, cmd) }); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	f.Deliver(" FILLING_ON\n")
	f.Deliver("")
	f.Deliver("DRAINING_ON")

	if len(got) != 2 || got[0] != "FILLING_ON" || got[1] != "DRAINING_ON" {
		t.Errorf("commands: got %v", got)
	}
}

func TestFakePublisherSubscribeError(t *testing.T) {
	f := NewFakePublisher()
	f.SubscribeError = errors.New("denied")
	if err := f.SubscribeCommands(func(string) {}); err == nil {
		t.Error("expected error")
	}
	if f.Deliver("X") {
		t.Error("failed subscription should not register a handler")
	}
}

func TestFakePublisherReset(t *testing.T) {
	f := NewFakePublisher()
	f.PublishTransition(fsm.Transition{})
	f.PublishSystem(SystemEvent{Event: "STARTUP"})
	f.SubscribeCommands(func(string) {})
	f.Close()
	f.Connected = true

	f.Reset()

	if len(f.Transitions) != 0 || len(f.Payloads) != 0 {
		t.Error("expected transitions cleared")
	}
	if len(f.SystemEvents) != 0 || len(f.SystemPayloads) != 0 {
		t.Error("expected system events cleared")
	}
	if f.Closed || f.Connected {
		t.Error("expected flags cleared")
	}
	if f.Deliver("X") {
		t.Error("expected handler cleared")
	}
}

func TestFakePublisherImplementsInterfaces(t *testing.T) {
	var _ Publisher = (*FakePublisher)(nil)
	var _ Commander = (*FakePublisher)(nil)
	var _ ConnectionStatus = (*FakePublisher)(nil)
	var _ Publisher = (*RealPublisher)(nil)
	var _ Commander = (*RealPublisher)(nil)
	var _ ConnectionStatus = (*RealPublisher)(nil)
}
