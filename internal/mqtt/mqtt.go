// Package mqtt publishes controller telemetry and receives remote operator
// commands, with an abstraction for testing.
package mqtt

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/sweeney/water-controller/internal/fsm"
)

// DefaultPrefix is the topic prefix used when none is configured.
const DefaultPrefix = "water/controller"

// Topics holds the topic names derived from a prefix.
type Topics struct {
	Events  string // state transitions
	System  string // lifecycle and heartbeat events
	Command string // inbound operator commands
}

// NewTopics derives the topic set from prefix.
func NewTopics(prefix string) Topics {
	prefix = strings.TrimRight(prefix, "/")
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Topics{
		Events:  prefix + "/events",
		System:  prefix + "/system",
		Command: prefix + "/command",
	}
}

// Publisher publishes events to MQTT.
type Publisher interface {
	// PublishTransition sends a state change to the broker.
	// Returns error if publishing fails (should not crash the process).
	PublishTransition(t fsm.Transition) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// Commander delivers operator commands received from the broker.
type Commander interface {
	// SubscribeCommands registers fn for every command payload. The
	// subscription survives reconnects.
	SubscribeCommands(fn func(cmd string)) error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// TransitionPayload is the MQTT message payload for a state change.
type TransitionPayload struct {
	Transition TransitionInner `json:"transition"`
}

// TransitionInner contains the transition details.
type TransitionInner struct {
	Timestamp       string  `json:"timestamp"`
	From            string  `json:"from"`
	To              string  `json:"to"`
	Reason          string  `json:"reason,omitempty"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// FormatTransition creates the JSON payload for a state change.
func FormatTransition(t fsm.Transition) ([]byte, error) {
	payload := TransitionPayload{
		Transition: TransitionInner{
			Timestamp:       t.At.UTC().Format(time.RFC3339),
			From:            t.From.String(),
			To:              t.To.String(),
			Reason:          t.Reason,
			DurationSeconds: t.Duration.Truncate(time.Millisecond).Seconds(),
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT, RECONNECTED) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}

// NormalizeCommand trims whitespace and NUL padding from a command payload.
func NormalizeCommand(payload []byte) string {
	return strings.TrimSpace(strings.Trim(string(payload), "\x00"))
}
