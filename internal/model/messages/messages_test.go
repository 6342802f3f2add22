package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeonardoBeccarini/irrigation-node/internal/model/entities"
)

func TestDecodeSchedule_Full(t *testing.T) {
	payload := []byte(`{
		"version": 3,
		"name": "lawn morning",
		"active": true,
		"entries": [
			{"zone": 1, "timeOfDay": "06:30", "durationMinutes": 15, "daysOfWeek": ["MON", "WED"]},
			{"zone": "back", "timeOfDay": "21:00", "durationMinutes": 5, "daysOfWeek": [1, true]}
		]
	}`)

	s, err := DecodeSchedule(payload)
	require.NoError(t, err)
	assert.Equal(t, int64(3), s.Version)
	assert.Equal(t, "lawn morning", s.Name)
	assert.True(t, s.Active)
	require.Len(t, s.Entries, 2)
	assert.Equal(t, entities.ZoneID("1"), s.Entries[0].Zone)
	assert.Equal(t, "06:30", s.Entries[0].TimeOfDay)
	assert.Equal(t, 15, s.Entries[0].DurationMinutes)
	assert.Equal(t, []entities.Opaque{"MON", "WED"}, s.Entries[0].DaysOfWeek)
	assert.Equal(t, entities.ZoneID("back"), s.Entries[1].Zone)
	assert.Equal(t, []entities.Opaque{"1", "true"}, s.Entries[1].DaysOfWeek)
}

func TestDecodeSchedule_MissingFieldsDefault(t *testing.T) {
	s, err := DecodeSchedule([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, int64(0), s.Version)
	assert.Empty(t, s.Name)
	assert.False(t, s.Active)
	assert.NotNil(t, s.Entries)
	assert.Empty(t, s.Entries)
}

func TestDecodeSchedule_Rejects(t *testing.T) {
	cases := map[string]string{
		"not json":         `version=1`,
		"array":            `[1,2]`,
		"null":             `null`,
		"empty":            ``,
		"negative version": `{"version": -1}`,
		"wrong type":       `{"version": "one"}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeSchedule([]byte(payload))
			assert.Error(t, err)
		})
	}
}

func TestDecodeSchedule_WrongTypedOptionalFieldsDefault(t *testing.T) {
	cases := map[string]struct {
		payload string
		want    entities.Schedule
	}{
		"numeric name": {
			payload: `{"version": 2, "name": 5, "entries": []}`,
			want:    entities.Schedule{Version: 2, Entries: []entities.ScheduleEntry{}},
		},
		"string active": {
			payload: `{"version": 2, "active": "yes"}`,
			want:    entities.Schedule{Version: 2, Entries: []entities.ScheduleEntry{}},
		},
		"string entries": {
			payload: `{"version": 2, "entries": "none"}`,
			want:    entities.Schedule{Version: 2, Entries: []entities.ScheduleEntry{}},
		},
		"bad entry fields": {
			payload: `{"version": 2, "name": "n", "entries": [
				{"zone": {"id": 1}, "timeOfDay": 630, "durationMinutes": "ten", "daysOfWeek": "MON"},
				{"zone": "B", "timeOfDay": "07:00", "durationMinutes": 5, "daysOfWeek": ["TUE", {"d": 3}, 4]},
				"not an entry"
			]}`,
			want: entities.Schedule{Version: 2, Name: "n", Entries: []entities.ScheduleEntry{
				{DaysOfWeek: []entities.Opaque{}},
				{Zone: "B", TimeOfDay: "07:00", DurationMinutes: 5, DaysOfWeek: []entities.Opaque{"TUE", "4"}},
				{DaysOfWeek: []entities.Opaque{}},
			}},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			s, err := DecodeSchedule([]byte(tc.payload))
			require.NoError(t, err)
			assert.Equal(t, tc.want, s)
		})
	}
}

func TestDecodeSchedule_NegativeVersionSentinel(t *testing.T) {
	_, err := DecodeSchedule([]byte(`{"version": -4}`))
	assert.ErrorIs(t, err, ErrNegativeVersion)
}

func TestDecodeZoneCommand(t *testing.T) {
	c, err := DecodeZoneCommand([]byte(`{"action":"on","duration":300}`))
	require.NoError(t, err)
	assert.Equal(t, entities.ActionOn, c.ParsedAction())
	assert.Equal(t, 300, c.Duration)

	c, err = DecodeZoneCommand([]byte(`{"action":"OFF"}`))
	require.NoError(t, err)
	assert.Equal(t, entities.ActionOff, c.ParsedAction())
	assert.Equal(t, 0, c.Duration)

	c, err = DecodeZoneCommand([]byte(`{"action":"PAUSE"}`))
	require.NoError(t, err)
	assert.Equal(t, entities.ActionUnknown, c.ParsedAction())

	_, err = DecodeZoneCommand([]byte(`"ON"`))
	assert.ErrorIs(t, err, ErrNotObject)
}

func TestDecodeZoneCommand_NegativeDuration(t *testing.T) {
	_, err := DecodeZoneCommand([]byte(`{"action":"ON","duration":-30}`))
	assert.ErrorIs(t, err, ErrNegativeDuration)

	// duration means nothing to OFF
	c, err := DecodeZoneCommand([]byte(`{"action":"off","duration":-30}`))
	require.NoError(t, err)
	assert.Equal(t, entities.ActionOff, c.ParsedAction())
}

func TestZoneStatusReport_Encode(t *testing.T) {
	b, err := NewZoneStatusReport(entities.ZoneStatus{Active: true, RemainingSeconds: 600}).Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"activa":true,"tiempoRestante":600}`, string(b))

	b, err = NewZoneStatusReport(entities.ZoneStatus{}).Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"activa":false,"tiempoRestante":0}`, string(b))
}
