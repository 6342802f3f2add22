package messages

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/LeonardoBeccarini/irrigation-node/internal/model/entities"
)

var (
	ErrNotObject       = errors.New("payload is not a JSON object")
	ErrNegativeVersion = errors.New("schedule version is negative")
)

// ScheduleSync is the payload of irrigation/{node}/schedule/sync.
// version must be a non-negative integer. Every other field falls back to its
// zero value when missing or of the wrong type.
type ScheduleSync struct {
	Version int64
	Name    string
	Active  bool
	Entries []entities.ScheduleEntry
}

type scheduleSyncWire struct {
	Version int64           `json:"version"`
	Name    json.RawMessage `json:"name"`
	Active  json.RawMessage `json:"active"`
	Entries json.RawMessage `json:"entries"`
}

func (s *ScheduleSync) UnmarshalJSON(b []byte) error {
	var w scheduleSyncWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*s = ScheduleSync{
		Version: w.Version,
		Name:    lenient[string](w.Name),
		Active:  lenient[bool](w.Active),
		Entries: lenientEntries(w.Entries),
	}
	return nil
}

// lenient decodes raw into T, or yields the zero T when raw is absent or of another type.
func lenient[T any](raw json.RawMessage) T {
	var v T
	if len(raw) == 0 {
		return v
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		var zero T
		return zero
	}
	return v
}

// lenientEntries keeps one entry per array element; a non-object element
// becomes an empty entry.
func lenientEntries(raw json.RawMessage) []entities.ScheduleEntry {
	items := lenient[[]json.RawMessage](raw)
	out := make([]entities.ScheduleEntry, 0, len(items))
	for _, item := range items {
		f := lenient[map[string]json.RawMessage](item)
		out = append(out, entities.ScheduleEntry{
			Zone:            lenient[entities.ZoneID](f["zone"]),
			TimeOfDay:       lenient[string](f["timeOfDay"]),
			DurationMinutes: lenient[int](f["durationMinutes"]),
			DaysOfWeek:      lenientDays(f["daysOfWeek"]),
		})
	}
	return out
}

// lenientDays drops markers that are not scalars.
func lenientDays(raw json.RawMessage) []entities.Opaque {
	items := lenient[[]json.RawMessage](raw)
	out := make([]entities.Opaque, 0, len(items))
	for _, item := range items {
		var d entities.Opaque
		if err := json.Unmarshal(item, &d); err == nil {
			out = append(out, d)
		}
	}
	return out
}

func decodeObject(payload []byte, out any) error {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ErrNotObject
	}
	return json.Unmarshal(trimmed, out)
}

// DecodeSchedule parses a schedule-sync payload into a Schedule.
func DecodeSchedule(payload []byte) (entities.Schedule, error) {
	var m ScheduleSync
	if err := decodeObject(payload, &m); err != nil {
		return entities.Schedule{}, fmt.Errorf("decode schedule: %w", err)
	}
	if m.Version < 0 {
		return entities.Schedule{}, fmt.Errorf("decode schedule: %w (%d)", ErrNegativeVersion, m.Version)
	}
	return entities.Schedule{
		Version: m.Version,
		Name:    m.Name,
		Active:  m.Active,
		Entries: m.Entries,
	}, nil
}
