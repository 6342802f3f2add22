package rabbitmq

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// IPublisher publishes a payload on an arbitrary topic.
type IPublisher interface {
	Publish(topic string, payload []byte) error
}

// Publisher publishes through a shared MQTT client. Messages are never retained.
type Publisher struct {
	client  mqtt.Client
	qos     byte
	timeout time.Duration
	log     *zap.Logger
}

var _ IPublisher = (*Publisher)(nil)

func NewPublisher(client mqtt.Client, qos byte, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{
		client:  client,
		qos:     qos,
		timeout: 5 * time.Second,
		log:     log,
	}
}

func (p *Publisher) Publish(topic string, payload []byte) error {
	if !p.client.IsConnected() {
		return fmt.Errorf("publish %s: client not connected", topic)
	}
	token := p.client.Publish(topic, p.qos, false, payload)
	if !token.WaitTimeout(p.timeout) {
		return fmt.Errorf("publish %s: timed out after %s", topic, p.timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	p.log.Debug("message published", zap.String("topic", topic), zap.ByteString("payload", payload))
	return nil
}
