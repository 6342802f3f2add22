package node

import (
	"github.com/LeonardoBeccarini/irrigation-node/internal/model"
)

// StatusReport is an outbound zone status addressed to its status topic.
type StatusReport struct {
	Zone   model.ZoneID
	Topic  string
	Status model.ZoneStatus
}

// ZoneHandler applies manual zone commands to the node state.
type ZoneHandler struct {
	state  *NodeState
	topics Topics
}

func NewZoneHandler(state *NodeState, topics Topics) *ZoneHandler {
	return &ZoneHandler{state: state, topics: topics}
}

// Handle applies cmd to zone. ON activates with the requested duration as
// remaining time (not enforced), OFF deactivates idempotently. Any other action
// leaves the state untouched and yields no report.
func (h *ZoneHandler) Handle(zone model.ZoneID, cmd model.ZoneCommand) (StatusReport, bool) {
	var next model.ZoneStatus
	switch cmd.ParsedAction() {
	case model.ActionOn:
		next = model.ZoneStatus{Active: true, RemainingSeconds: cmd.Duration}
	case model.ActionOff:
		next = model.ZoneStatus{}
	default:
		return StatusReport{}, false
	}
	h.state.setZone(zone, next)
	return h.report(zone, next), true
}

func (h *ZoneHandler) report(zone model.ZoneID, status model.ZoneStatus) StatusReport {
	return StatusReport{Zone: zone, Topic: h.topics.ZoneStatus(zone), Status: status}
}

// Reports returns the current status of every known zone, sorted by zone id.
func (h *ZoneHandler) Reports() []StatusReport {
	snap := h.state.Snapshot()
	out := make([]StatusReport, 0, len(snap.Zones))
	for _, z := range snap.Zones {
		out = append(out, h.report(z.Zone, z.Status))
	}
	return out
}
