package node

import (
	"strings"

	"github.com/LeonardoBeccarini/irrigation-node/internal/model"
)

const DefaultTopicRoot = "irrigation"

// TopicKind classifies an inbound topic.
type TopicKind int

const (
	TopicUnknown TopicKind = iota
	TopicScheduleSync
	TopicZoneCommand
)

// Topics derives every topic name from the node identity.
type Topics struct {
	root   string
	nodeID string
}

func NewTopics(root, nodeID string) Topics {
	root = strings.Trim(strings.TrimSpace(root), "/")
	if root == "" {
		root = DefaultTopicRoot
	}
	return Topics{root: root, nodeID: nodeID}
}

func (t Topics) NodeID() string { return t.nodeID }

func (t Topics) base() string { return t.root + "/" + t.nodeID }

// ScheduleSync is irrigation/{node}/schedule/sync.
func (t Topics) ScheduleSync() string { return t.base() + "/schedule/sync" }

func (t Topics) zoneCommandPrefix() string { return t.base() + "/cmd/zone/" }

// ZoneCommandFilter is the wildcard subscription over all zones.
func (t Topics) ZoneCommandFilter() string { return t.zoneCommandPrefix() + "+" }

// ZoneStatus is irrigation/{node}/status/zone/{zone}.
func (t Topics) ZoneStatus(zone model.ZoneID) string {
	return t.base() + "/status/zone/" + zone.String()
}

// Subscriptions returns the inbound filters the node listens on.
func (t Topics) Subscriptions() []string {
	return []string{t.ScheduleSync(), t.ZoneCommandFilter()}
}

// Classify maps an inbound topic to its kind; for zone commands the zone is the
// final path segment.
func (t Topics) Classify(topic string) (TopicKind, model.ZoneID) {
	if topic == t.ScheduleSync() {
		return TopicScheduleSync, ""
	}
	if strings.HasPrefix(topic, t.zoneCommandPrefix()) {
		zone := topic[strings.LastIndex(topic, "/")+1:]
		if zone == "" {
			return TopicUnknown, ""
		}
		return TopicZoneCommand, model.ZoneID(zone)
	}
	return TopicUnknown, ""
}
