package mqtt

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/sweeney/water-controller/internal/fsm"
)

// DefaultBufferSize is the number of publishes queued while disconnected.
const DefaultBufferSize = 100

// Options configures a RealPublisher.
type Options struct {
	Broker     string
	ClientID   string
	Topics     Topics
	BufferSize int
	Log        *slog.Logger
}

// RealPublisher publishes to an actual MQTT broker. Messages published while
// the connection is down are buffered and replayed on reconnect.
type RealPublisher struct {
	client paho.Client
	topics Topics
	log    *slog.Logger

	mu       sync.Mutex
	out      *outbox
	onCmd    func(string)
	everConn bool
}

// NewRealPublisher creates a publisher for the given broker. If the broker is
// not reachable within the connect timeout the publisher is still returned and
// keeps retrying in the background.
func NewRealPublisher(o Options) (*RealPublisher, error) {
	if o.Log == nil {
		o.Log = slog.Default()
	}
	if o.ClientID == "" {
		o.ClientID = "water-controller"
	}
	if o.Topics == (Topics{}) {
		o.Topics = NewTopics(DefaultPrefix)
	}
	if o.BufferSize <= 0 {
		o.BufferSize = DefaultBufferSize
	}

	p := &RealPublisher{
		topics: o.Topics,
		log:    o.Log,
		out:    newOutbox(o.BufferSize),
	}

	will, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Now(),
		Event:     "SHUTDOWN",
		Reason:    "MQTT_DISCONNECT",
	})
	if err != nil {
		return nil, fmt.Errorf("format will payload: %w", err)
	}

	opts := paho.NewClientOptions().
		AddBroker(o.Broker).
		SetClientID(o.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5*time.Second).
		SetBinaryWill(o.Topics.System, will, 1, true).
		SetOnConnectHandler(p.onConnect).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			p.log.Warn("connection lost", "err", err)
		})

	p.client = paho.NewClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		p.log.Warn("broker not reachable yet, buffering", "broker", o.Broker)
		return p, nil
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}
	return p, nil
}

func (p *RealPublisher) onConnect(c paho.Client) {
	p.mu.Lock()
	pending := p.out.flush()
	fn := p.onCmd
	reconnect := p.everConn
	p.everConn = true
	p.mu.Unlock()

	if fn != nil {
		p.subscribe(fn)
	}
	if reconnect {
		payload, _ := FormatSystemPayload(SystemEvent{Timestamp: time.Now(), Event: "RECONNECTED"})
		c.Publish(p.topics.System, 1, false, payload)
	}

	p.log.Info("connected", "replay", len(pending))
	for _, m := range pending {
		c.Publish(m.topic, m.qos, m.retained, m.payload)
	}
}

// IsConnected reports whether the client currently has an open connection.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

func (p *RealPublisher) publish(topic string, qos byte, retained bool, payload []byte) error {
	if !p.client.IsConnectionOpen() {
		p.enqueue(outMsg{topic: topic, payload: payload, qos: qos, retained: retained})
		return nil
	}

	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		p.enqueue(outMsg{topic: topic, payload: payload, qos: qos, retained: retained})
		return fmt.Errorf("publish %s: timeout", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

func (p *RealPublisher) enqueue(m outMsg) {
	p.mu.Lock()
	dropped := p.out.add(m)
	n := p.out.size()
	p.mu.Unlock()
	if dropped {
		p.log.Warn("outbox full, dropping oldest", "queued", n)
	}
}

// PublishTransition sends a state change to the MQTT broker.
func (p *RealPublisher) PublishTransition(t fsm.Transition) error {
	payload, err := FormatTransition(t)
	if err != nil {
		return fmt.Errorf("format transition: %w", err)
	}
	return p.publish(p.topics.Events, 1, false, payload)
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	return p.publish(p.topics.System, 1, event.Retained, payload)
}

// SubscribeCommands registers fn for payloads on the command topic.
func (p *RealPublisher) SubscribeCommands(fn func(cmd string)) error {
	p.mu.Lock()
	p.onCmd = fn
	p.mu.Unlock()

	if !p.client.IsConnectionOpen() {
		// onConnect subscribes once the link is up.
		return nil
	}
	return p.subscribe(fn)
}

func (p *RealPublisher) subscribe(fn func(string)) error {
	token := p.client.Subscribe(p.topics.Command, 1, func(_ paho.Client, m paho.Message) {
		cmd := NormalizeCommand(m.Payload())
		if cmd == "" {
			return
		}
		p.log.Debug("command", "cmd", cmd)
		fn(cmd)
	})
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("subscribe %s: timeout", p.topics.Command)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe %s: %w", p.topics.Command, err)
	}
	return nil
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000)
	return nil
}
