package node

import (
	"sort"
	"sync"

	"github.com/LeonardoBeccarini/irrigation-node/internal/model"
)

// NodeState is the node's in-memory state. It is mutated only by the processing
// loop; the lock exists so HTTP handlers can take snapshots.
type NodeState struct {
	mu       sync.RWMutex
	schedule *model.Schedule
	version  int64
	zones    map[model.ZoneID]model.ZoneStatus
}

func NewNodeState() *NodeState {
	return &NodeState{zones: make(map[model.ZoneID]model.ZoneStatus)}
}

func (s *NodeState) ScheduleVersion() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// CurrentSchedule returns a copy of the accepted schedule, if any.
func (s *NodeState) CurrentSchedule() (model.Schedule, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.schedule == nil {
		return model.Schedule{}, false
	}
	return s.schedule.Clone(), true
}

func (s *NodeState) replaceSchedule(sc model.Schedule) {
	cp := sc.Clone()
	s.mu.Lock()
	s.schedule = &cp
	s.version = cp.Version
	s.mu.Unlock()
}

// Zone returns the status of a zone and whether it has been seen.
func (s *NodeState) Zone(id model.ZoneID) (model.ZoneStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	z, ok := s.zones[id]
	return z, ok
}

// setZone records z for id, creating the zone on first use.
func (s *NodeState) setZone(id model.ZoneID, z model.ZoneStatus) {
	s.mu.Lock()
	s.zones[id] = z
	s.mu.Unlock()
}

func (s *NodeState) ActiveZones() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, z := range s.zones {
		if z.Active {
			n++
		}
	}
	return n
}

// ZoneSnapshot pairs a zone with its status.
type ZoneSnapshot struct {
	Zone   model.ZoneID     `json:"zone"`
	State  model.ZoneState  `json:"state"`
	Status model.ZoneStatus `json:"status"`
}

// Snapshot is a read-only copy of NodeState.
type Snapshot struct {
	ScheduleVersion int64           `json:"scheduleVersion"`
	Schedule        *model.Schedule `json:"schedule,omitempty"`
	Zones           []ZoneSnapshot  `json:"zones"`
}

// Snapshot copies the state; zones are sorted by id.
func (s *NodeState) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := Snapshot{ScheduleVersion: s.version, Zones: make([]ZoneSnapshot, 0, len(s.zones))}
	if s.schedule != nil {
		cp := s.schedule.Clone()
		out.Schedule = &cp
	}
	for id, z := range s.zones {
		out.Zones = append(out.Zones, ZoneSnapshot{Zone: id, State: z.State(), Status: z})
	}
	sort.Slice(out.Zones, func(i, j int) bool { return out.Zones[i].Zone < out.Zones[j].Zone })
	return out
}
