package rabbitmq

import (
	"context"
	"fmt"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// MessageHandler receives every message delivered on a subscription.
// subscription is the filter the message matched, not the concrete topic.
type MessageHandler func(subscription string, message mqtt.Message) error

// IConsumer subscribes to its topics and blocks until the context is cancelled.
type IConsumer interface {
	ConsumeMessage(ctx context.Context) error
	SetHandler(handler MessageHandler)
}

// MultiConsumer subscribes one handler to several topic filters on a shared client.
type MultiConsumer struct {
	client mqtt.Client
	topics []string
	qos    byte
	log    *zap.Logger

	mu         sync.RWMutex
	handler    MessageHandler
	subscribed bool
}

var _ IConsumer = (*MultiConsumer)(nil)

func NewMultiConsumer(client mqtt.Client, topics []string, qos byte, handler MessageHandler, log *zap.Logger) *MultiConsumer {
	if log == nil {
		log = zap.NewNop()
	}
	return &MultiConsumer{
		client:  client,
		topics:  topics,
		qos:     qos,
		handler: handler,
		log:     log,
	}
}

func (m *MultiConsumer) SetHandler(handler MessageHandler) {
	m.mu.Lock()
	m.handler = handler
	m.mu.Unlock()
}

func (m *MultiConsumer) Topics() []string {
	out := make([]string, len(m.topics))
	copy(out, m.topics)
	return out
}

func (m *MultiConsumer) callback(topic string) mqtt.MessageHandler {
	return func(_ mqtt.Client, msg mqtt.Message) {
		m.mu.RLock()
		h := m.handler
		m.mu.RUnlock()
		if h == nil {
			m.log.Warn("no handler set", zap.String("topic", topic))
			return
		}
		if err := h(topic, msg); err != nil {
			m.log.Error("error handling message", zap.String("topic", msg.Topic()), zap.Error(err))
		}
	}
}

func (m *MultiConsumer) subscribeAll() error {
	for _, topic := range m.topics {
		token := m.client.Subscribe(topic, m.qos, m.callback(topic))
		token.Wait()
		if err := token.Error(); err != nil {
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}
		m.log.Info("subscribed", zap.String("topic", topic), zap.Uint8("qos", m.qos))
	}
	return nil
}

// Resubscribe restores the subscriptions after a reconnection with a clean session.
// It is a no-op until ConsumeMessage has subscribed once.
func (m *MultiConsumer) Resubscribe() {
	m.mu.RLock()
	active := m.subscribed
	m.mu.RUnlock()
	if !active {
		return
	}
	if err := m.subscribeAll(); err != nil {
		m.log.Error("resubscribe failed", zap.Error(err))
	}
}

// ConsumeMessage subscribes to every topic and blocks until ctx is cancelled,
// then unsubscribes.
func (m *MultiConsumer) ConsumeMessage(ctx context.Context) error {
	if err := m.subscribeAll(); err != nil {
		return err
	}
	m.mu.Lock()
	m.subscribed = true
	m.mu.Unlock()

	<-ctx.Done()

	m.mu.Lock()
	m.subscribed = false
	m.mu.Unlock()
	if m.client.IsConnected() {
		m.client.Unsubscribe(m.topics...).Wait()
	}
	return nil
}
