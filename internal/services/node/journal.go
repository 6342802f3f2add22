package node

import (
	"context"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Journal records handled effects in an external sink. It must not block the
// processing loop for long and never fails the message.
type Journal interface {
	Record(ctx context.Context, e Effect, at time.Time)
}

type nopJournal struct{}

func (nopJournal) Record(context.Context, Effect, time.Time) {}

// PointWriter is the subset of the Influx blocking write API the journal needs.
type PointWriter interface {
	WritePoint(ctx context.Context, point ...*write.Point) error
}

type JournalConfig struct {
	WriteTimeout    time.Duration
	BreakerFailures int
	BreakerOpenFor  time.Duration
}

// InfluxJournal writes one node_event point per effect, guarded by a circuit breaker.
type InfluxJournal struct {
	nodeID  string
	writer  PointWriter
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
	log     *zap.Logger
}

var _ Journal = (*InfluxJournal)(nil)

func NewInfluxJournal(nodeID string, w PointWriter, cfg JournalConfig, log *zap.Logger) *InfluxJournal {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 2 * time.Second
	}
	if cfg.BreakerFailures < 1 {
		cfg.BreakerFailures = 3
	}
	if cfg.BreakerOpenFor <= 0 {
		cfg.BreakerOpenFor = 30 * time.Second
	}
	fails := uint32(cfg.BreakerFailures)
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "influx-journal",
		Timeout: cfg.BreakerOpenFor,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= fails
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("journal breaker state change",
				zap.String("breaker", name), zap.Stringer("from", from), zap.Stringer("to", to))
		},
	})
	return &InfluxJournal{nodeID: nodeID, writer: w, breaker: cb, timeout: cfg.WriteTimeout, log: log}
}

func (j *InfluxJournal) Record(ctx context.Context, e Effect, at time.Time) {
	p := EffectToPoint(j.nodeID, e, at)
	_, err := j.breaker.Execute(func() (interface{}, error) {
		wctx, cancel := context.WithTimeout(ctx, j.timeout)
		defer cancel()
		return nil, j.writer.WritePoint(wctx, p)
	})
	if err != nil {
		j.log.Debug("journal write skipped", zap.String("effect", e.Kind.String()), zap.Error(err))
	}
}

func (j *InfluxJournal) State() gobreaker.State {
	return j.breaker.State()
}

// EffectToPoint maps an effect to a node_event point.
func EffectToPoint(nodeID string, e Effect, at time.Time) *write.Point {
	tags := map[string]string{
		"node_id": nodeID,
		"effect":  e.Kind.String(),
	}
	if e.Zone != "" {
		tags["zone"] = e.Zone.String()
	}

	fields := map[string]interface{}{"count": int64(1)}
	switch e.Kind {
	case EffectScheduleAccepted, EffectScheduleRejected:
		fields["incoming_version"] = e.Decision.Incoming
		fields["previous_version"] = e.Decision.Previous
		if e.Schedule != nil {
			fields["entries"] = int64(len(e.Schedule.Entries))
			fields["active"] = e.Schedule.Active
		}
	case EffectCommandApplied, EffectCommandIgnored:
		if e.Command != nil {
			fields["action"] = e.Command.Action
			fields["duration_s"] = int64(e.Command.Duration)
		}
		if e.Report != nil {
			fields["activa"] = e.Report.Status.Active
			fields["tiempo_restante"] = int64(e.Report.Status.RemainingSeconds)
		}
	case EffectParseError, EffectUnknownTopic:
		if e.Err != nil {
			fields["error"] = e.Err.Error()
		}
	}

	if at.IsZero() {
		at = time.Now()
	}
	return influxdb2.NewPoint("node_event", tags, fields, at)
}
