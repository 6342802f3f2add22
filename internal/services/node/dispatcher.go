package node

import (
	"errors"
	"fmt"

	"github.com/LeonardoBeccarini/irrigation-node/internal/model"
	"github.com/LeonardoBeccarini/irrigation-node/internal/model/messages"
)

var ErrUnknownTopic = errors.New("unknown topic")

// EffectKind discriminates the outcome of handling one inbound message.
type EffectKind int

const (
	EffectScheduleAccepted EffectKind = iota + 1
	EffectScheduleRejected
	EffectCommandApplied
	EffectCommandIgnored
	EffectParseError
	EffectUnknownTopic
)

func (k EffectKind) String() string {
	switch k {
	case EffectScheduleAccepted:
		return "schedule_accepted"
	case EffectScheduleRejected:
		return "schedule_rejected"
	case EffectCommandApplied:
		return "command_applied"
	case EffectCommandIgnored:
		return "command_ignored"
	case EffectParseError:
		return "parse_error"
	case EffectUnknownTopic:
		return "unknown_topic"
	default:
		return fmt.Sprintf("effect(%d)", int(k))
	}
}

// Effect is what handling a message did. Only the fields relevant to Kind are set.
type Effect struct {
	Kind  EffectKind
	Topic string

	// schedule effects
	Schedule *model.Schedule
	Decision Decision

	// command effects
	Zone    model.ZoneID
	Command *model.ZoneCommand
	Report  *StatusReport

	// parse and topic errors
	Err error
}

// Dispatcher classifies a topic and routes the payload to the reconciler or the
// zone handler. It performs no I/O.
type Dispatcher struct {
	topics     Topics
	state      *NodeState
	reconciler *Reconciler
	zones      *ZoneHandler
}

func NewDispatcher(topics Topics, state *NodeState) *Dispatcher {
	return &Dispatcher{
		topics:     topics,
		state:      state,
		reconciler: NewReconciler(state),
		zones:      NewZoneHandler(state, topics),
	}
}

func (d *Dispatcher) Topics() Topics { return d.topics }

func (d *Dispatcher) State() *NodeState { return d.state }

func (d *Dispatcher) ZoneHandler() *ZoneHandler { return d.zones }

// Handle processes one message end to end.
func (d *Dispatcher) Handle(topic string, payload []byte) Effect {
	kind, zone := d.topics.Classify(topic)
	switch kind {
	case TopicScheduleSync:
		return d.handleSchedule(topic, payload)
	case TopicZoneCommand:
		return d.handleCommand(topic, zone, payload)
	default:
		return Effect{Kind: EffectUnknownTopic, Topic: topic, Err: fmt.Errorf("%w: %s", ErrUnknownTopic, topic)}
	}
}

func (d *Dispatcher) handleSchedule(topic string, payload []byte) Effect {
	sc, err := messages.DecodeSchedule(payload)
	if err != nil {
		return Effect{Kind: EffectParseError, Topic: topic, Err: err}
	}
	dec := d.reconciler.Reconcile(sc)
	kind := EffectScheduleRejected
	if dec.Accepted {
		kind = EffectScheduleAccepted
	}
	return Effect{Kind: kind, Topic: topic, Schedule: &sc, Decision: dec}
}

func (d *Dispatcher) handleCommand(topic string, zone model.ZoneID, payload []byte) Effect {
	cmd, err := messages.DecodeZoneCommand(payload)
	if err != nil {
		return Effect{Kind: EffectParseError, Topic: topic, Zone: zone, Err: err}
	}
	report, ok := d.zones.Handle(zone, cmd)
	if !ok {
		return Effect{Kind: EffectCommandIgnored, Topic: topic, Zone: zone, Command: &cmd}
	}
	return Effect{Kind: EffectCommandApplied, Topic: topic, Zone: zone, Command: &cmd, Report: &report}
}
