package node

import (
	"context"
	"errors"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/irrigation-node/internal/model/messages"
	"github.com/LeonardoBeccarini/irrigation-node/pkg/dedup"
	"github.com/LeonardoBeccarini/irrigation-node/pkg/rabbitmq"
)

var ErrServiceStopped = errors.New("node service stopped")

type inbound struct {
	topic   string
	payload []byte
}

type Options struct {
	Publisher rabbitmq.IPublisher
	Metrics   *Metrics
	Journal   Journal
	// Deduper drops redeliveries carrying the MQTT DUP flag; nil disables it.
	Deduper *dedup.Deduper
	// RepublishInterval > 0 republishes every known zone status periodically.
	RepublishInterval time.Duration
	QueueSize         int
	Logger            *zap.Logger
}

// Service is the node's single consumer: transport callbacks enqueue messages,
// Run processes them one at a time.
type Service struct {
	dispatcher *Dispatcher
	publisher  rabbitmq.IPublisher
	metrics    *Metrics
	journal    Journal
	deduper    *dedup.Deduper
	republish  time.Duration
	log        *zap.Logger

	inbox chan inbound
	done  chan struct{}
	now   func() time.Time
}

func NewService(d *Dispatcher, opts Options) (*Service, error) {
	if d == nil {
		return nil, errors.New("dispatcher is nil")
	}
	if opts.Publisher == nil {
		return nil, errors.New("publisher is nil")
	}
	if opts.Journal == nil {
		opts.Journal = nopJournal{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	return &Service{
		dispatcher: d,
		publisher:  opts.Publisher,
		metrics:    opts.Metrics,
		journal:    opts.Journal,
		deduper:    opts.Deduper,
		republish:  opts.RepublishInterval,
		log:        opts.Logger.With(zap.String("node_id", d.Topics().NodeID())),
		inbox:      make(chan inbound, opts.QueueSize),
		done:       make(chan struct{}),
		now:        time.Now,
	}, nil
}

func (s *Service) State() *NodeState { return s.dispatcher.State() }

// HandleMessage is the transport callback. It copies the message into the
// inbox and returns; processing happens in Run.
func (s *Service) HandleMessage(_ string, msg mqtt.Message) error {
	if s.deduper != nil {
		key := dedup.Key(msg.Topic(), msg.Payload())
		if msg.Duplicate() {
			if !s.deduper.ShouldProcess(key) {
				s.metrics.duplicate()
				s.log.Debug("duplicate delivery dropped", zap.String("topic", msg.Topic()))
				return nil
			}
		} else {
			s.deduper.Mark(key)
		}
	}

	select {
	case <-s.done:
		return ErrServiceStopped
	default:
	}
	payload := append([]byte(nil), msg.Payload()...)
	select {
	case s.inbox <- inbound{topic: msg.Topic(), payload: payload}:
		return nil
	case <-s.done:
		return ErrServiceStopped
	}
}

// Run processes inbound messages until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	defer close(s.done)

	var tick <-chan time.Time
	if s.republish > 0 {
		t := time.NewTicker(s.republish)
		defer t.Stop()
		tick = t.C
	}

	s.log.Info("waiting for messages", zap.Strings("topics", s.dispatcher.Topics().Subscriptions()))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m := <-s.inbox:
			s.Process(ctx, m.topic, m.payload)
		case <-tick:
			s.RepublishStatuses(ctx)
		}
	}
}

// Process handles one message synchronously: decide, report, publish, journal.
func (s *Service) Process(ctx context.Context, topic string, payload []byte) Effect {
	e := s.dispatcher.Handle(topic, payload)
	logEffect(s.log, e)
	if e.Report != nil {
		s.publish(*e.Report)
	}
	s.metrics.observe(e, s.dispatcher.State())
	s.journal.Record(ctx, e, s.now())
	return e
}

// RepublishStatuses publishes the current status of every known zone.
func (s *Service) RepublishStatuses(_ context.Context) {
	for _, r := range s.dispatcher.ZoneHandler().Reports() {
		s.publish(r)
	}
}

// publish failures are logged and counted; the state change stands.
func (s *Service) publish(r StatusReport) {
	payload, err := messages.NewZoneStatusReport(r.Status).Encode()
	if err == nil {
		err = s.publisher.Publish(r.Topic, payload)
	}
	s.metrics.publishResult(err)
	if err != nil {
		s.log.Error("status publish failed", zap.String("topic", r.Topic), zap.Error(err))
		return
	}
	s.log.Info("status published", zap.String("topic", r.Topic), zap.ByteString("payload", payload))
}
