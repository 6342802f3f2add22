package node

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeonardoBeccarini/irrigation-node/internal/model"
)

type fakeWriter struct {
	mu     sync.Mutex
	calls  int
	points []*write.Point
	err    error
}

func (w *fakeWriter) WritePoint(_ context.Context, p ...*write.Point) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	if w.err != nil {
		return w.err
	}
	w.points = append(w.points, p...)
	return nil
}

func tagMap(p *write.Point) map[string]string {
	out := map[string]string{}
	for _, t := range p.TagList() {
		out[t.Key] = t.Value
	}
	return out
}

func fieldMap(p *write.Point) map[string]interface{} {
	out := map[string]interface{}{}
	for _, f := range p.FieldList() {
		out[f.Key] = f.Value
	}
	return out
}

func TestEffectToPoint_Command(t *testing.T) {
	at := time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)
	e := Effect{
		Kind:    EffectCommandApplied,
		Zone:    "A",
		Command: &model.ZoneCommand{Action: "ON", Duration: 300},
		Report:  &StatusReport{Zone: "A", Status: model.ZoneStatus{Active: true, RemainingSeconds: 300}},
	}
	p := EffectToPoint("n1", e, at)

	assert.Equal(t, "node_event", p.Name())
	assert.Equal(t, at, p.Time())
	assert.Equal(t, map[string]string{"node_id": "n1", "effect": "command_applied", "zone": "A"}, tagMap(p))
	f := fieldMap(p)
	assert.Equal(t, "ON", f["action"])
	assert.Equal(t, true, f["activa"])
	assert.EqualValues(t, 300, f["tiempo_restante"])
}

func TestEffectToPoint_Schedule(t *testing.T) {
	e := Effect{
		Kind:     EffectScheduleRejected,
		Schedule: &model.Schedule{Version: 2, Entries: make([]model.ScheduleEntry, 3)},
		Decision: Decision{Previous: 5, Incoming: 2},
	}
	p := EffectToPoint("n1", e, time.Now())
	tags := tagMap(p)
	assert.Equal(t, "schedule_rejected", tags["effect"])
	_, hasZone := tags["zone"]
	assert.False(t, hasZone)
	f := fieldMap(p)
	assert.EqualValues(t, 2, f["incoming_version"])
	assert.EqualValues(t, 5, f["previous_version"])
	assert.EqualValues(t, 3, f["entries"])
}

func TestInfluxJournal_WritesPoints(t *testing.T) {
	w := &fakeWriter{}
	j := NewInfluxJournal("n1", w, JournalConfig{}, nil)
	j.Record(context.Background(), Effect{Kind: EffectParseError, Err: errors.New("bad")}, time.Now())
	require.Len(t, w.points, 1)
	assert.Equal(t, "bad", fieldMap(w.points[0])["error"])
}

func TestInfluxJournal_BreakerStopsCallingDeadSink(t *testing.T) {
	w := &fakeWriter{err: errors.New("connection refused")}
	j := NewInfluxJournal("n1", w, JournalConfig{BreakerFailures: 2, BreakerOpenFor: time.Hour}, nil)

	for i := 0; i < 5; i++ {
		j.Record(context.Background(), Effect{Kind: EffectUnknownTopic}, time.Now())
	}
	assert.Equal(t, 2, w.calls)
	assert.Equal(t, gobreaker.StateOpen, j.State())
}
