package messages

import (
	"errors"
	"fmt"

	"github.com/LeonardoBeccarini/irrigation-node/internal/model/entities"
)

var ErrNegativeDuration = errors.New("zone command duration is negative")

// ZoneCommand is the payload of irrigation/{node}/cmd/zone/{zone}.
// Duration is in seconds and only meaningful for ON.
type ZoneCommand struct {
	Action   string `json:"action"`
	Duration int    `json:"duration"`
}

func (c ZoneCommand) ParsedAction() entities.Action {
	return entities.ParseAction(c.Action)
}

func DecodeZoneCommand(payload []byte) (ZoneCommand, error) {
	var c ZoneCommand
	if err := decodeObject(payload, &c); err != nil {
		return ZoneCommand{}, fmt.Errorf("decode zone command: %w", err)
	}
	if c.Duration < 0 && c.ParsedAction() == entities.ActionOn {
		return ZoneCommand{}, fmt.Errorf("decode zone command: %w (%d)", ErrNegativeDuration, c.Duration)
	}
	return c, nil
}
