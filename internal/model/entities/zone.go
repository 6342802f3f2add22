package entities

import "strings"

// ZoneState indicates whether a zone's valve is open.
type ZoneState string

const (
	ZoneInactive ZoneState = "INACTIVE"
	ZoneActive   ZoneState = "ACTIVE"
)

// ZoneStatus is the simulated activation state of a zone.
// An inactive zone always has RemainingSeconds == 0.
type ZoneStatus struct {
	Active           bool `json:"activa"`
	RemainingSeconds int  `json:"tiempoRestante"`
}

func (z ZoneStatus) State() ZoneState {
	if z.Active {
		return ZoneActive
	}
	return ZoneInactive
}

// Action is a manual zone command verb.
type Action string

const (
	ActionOn      Action = "ON"
	ActionOff     Action = "OFF"
	ActionUnknown Action = ""
)

// ParseAction compares case-insensitively against ON and OFF.
func ParseAction(s string) Action {
	switch {
	case strings.EqualFold(s, string(ActionOn)):
		return ActionOn
	case strings.EqualFold(s, string(ActionOff)):
		return ActionOff
	default:
		return ActionUnknown
	}
}
