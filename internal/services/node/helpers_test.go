package node

import (
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const testNode = "550e8400-e29b-41d4-a716-446655440000"

type fakeMessage struct {
	topic   string
	payload []byte
	dup     bool
}

var _ mqtt.Message = fakeMessage{}

func (m fakeMessage) Duplicate() bool   { return m.dup }
func (m fakeMessage) Qos() byte         { return 1 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 1 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

type published struct {
	topic   string
	payload string
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []published
	err  error
}

func (p *recordingPublisher) Publish(topic string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, published{topic: topic, payload: string(payload)})
	return nil
}

func (p *recordingPublisher) sent() []published {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]published(nil), p.msgs...)
}

type fakeConn struct{ open bool }

func (c fakeConn) IsConnectionOpen() bool { return c.open }

func newTestDispatcher() (*Dispatcher, *NodeState, Topics) {
	topics := NewTopics("", testNode)
	state := NewNodeState()
	return NewDispatcher(topics, state), state, topics
}
