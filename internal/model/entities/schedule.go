package entities

// ZoneID identifies an irrigation zone. It is treated opaquely.
type ZoneID = Opaque

// ScheduleEntry is one planned watering event.
type ScheduleEntry struct {
	Zone            ZoneID   `json:"zone"`
	TimeOfDay       string   `json:"timeOfDay"` // "HH:MM", not validated
	DurationMinutes int      `json:"durationMinutes"`
	DaysOfWeek      []Opaque `json:"daysOfWeek"`
}

// Schedule is the node's irrigation plan.
type Schedule struct {
	Version int64           `json:"version"`
	Name    string          `json:"name,omitempty"`
	Active  bool            `json:"active"`
	Entries []ScheduleEntry `json:"entries"`
}

// Clone returns a deep copy so callers can't alias node state.
func (s Schedule) Clone() Schedule {
	out := s
	out.Entries = make([]ScheduleEntry, len(s.Entries))
	for i, e := range s.Entries {
		e.DaysOfWeek = append([]Opaque(nil), e.DaysOfWeek...)
		out.Entries[i] = e
	}
	return out
}
