package model

import (
	"github.com/LeonardoBeccarini/irrigation-node/internal/model/entities"
	"github.com/LeonardoBeccarini/irrigation-node/internal/model/messages"
)

// Aliases shared by the services

type (
	Schedule      = entities.Schedule
	ScheduleEntry = entities.ScheduleEntry
	ZoneID        = entities.ZoneID
	ZoneStatus    = entities.ZoneStatus
	ZoneState     = entities.ZoneState
	ZoneCommand   = messages.ZoneCommand
)

const (
	ActionOn     = entities.ActionOn
	ActionOff    = entities.ActionOff
	ZoneActive   = entities.ZoneActive
	ZoneInactive = entities.ZoneInactive
)
