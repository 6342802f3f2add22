package messages

import (
	"encoding/json"

	"github.com/LeonardoBeccarini/irrigation-node/internal/model/entities"
)

// ZoneStatusReport is the payload published on irrigation/{node}/status/zone/{zone}.
type ZoneStatusReport struct {
	Activa         bool `json:"activa"`
	TiempoRestante int  `json:"tiempoRestante"`
}

func NewZoneStatusReport(s entities.ZoneStatus) ZoneStatusReport {
	return ZoneStatusReport{Activa: s.Active, TiempoRestante: s.RemainingSeconds}
}

func (r ZoneStatusReport) Encode() ([]byte, error) {
	return json.Marshal(r)
}
