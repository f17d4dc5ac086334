package telemetry

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// bufferCapacity bounds the replay queue for events recorded while the broker
// is unreachable (e.g. across a suspend/resume cycle).
const bufferCapacity = 64

// RealPublisher publishes to an actual MQTT broker. While disconnected it
// queues events in a ring buffer and replays them on reconnect.
type RealPublisher struct {
	client paho.Client

	mu  sync.Mutex
	buf *ring
}

// NewRealPublisher creates a publisher connected to the given broker.
func NewRealPublisher(broker string) (*RealPublisher, error) {
	p := &RealPublisher{buf: newRing(bufferCapacity)}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("watcher-standby").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(p.replayQueued)

	p.client = paho.NewClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return p, nil
}

// Publish sends a lifecycle event, queueing it if the broker is unreachable.
func (p *RealPublisher) Publish(event Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	// QoS 1 for events preceding a terminal action - we want delivery even
	// though the process is about to stop.
	var qos byte
	if event.terminal() {
		qos = 1
	}

	if !p.client.IsConnected() {
		p.mu.Lock()
		p.buf.push(queuedMsg{topic: Topic, payload: payload, qos: qos})
		p.mu.Unlock()
		return nil
	}

	token := p.client.Publish(Topic, qos, false, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	return nil
}

// replayQueued drains the ring buffer after a (re)connect.
func (p *RealPublisher) replayQueued(client paho.Client) {
	p.mu.Lock()
	msgs := p.buf.drainAll()
	p.mu.Unlock()

	for _, msg := range msgs {
		token := client.Publish(msg.topic, msg.qos, false, msg.payload)
		if !token.WaitTimeout(5 * time.Second) {
			log.Printf("telemetry: replay timeout, dropping %d queued messages", len(msgs))
			return
		}
		if err := token.Error(); err != nil {
			log.Printf("telemetry: replay failed: %v", err)
			return
		}
	}
}

// Close disconnects from the broker, allowing in-flight messages to flush.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
