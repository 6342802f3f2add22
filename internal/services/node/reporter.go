package node

import (
	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/irrigation-node/internal/model"
)

// logEffect writes the human-readable account of a handled message.
func logEffect(log *zap.Logger, e Effect) {
	switch e.Kind {
	case EffectScheduleAccepted, EffectScheduleRejected:
		sc := e.Schedule
		name := sc.Name
		if name == "" {
			name = "(unnamed)"
		}
		log.Info("schedule received",
			zap.Int64("version", sc.Version),
			zap.String("name", name),
			zap.Bool("active", sc.Active),
			zap.Int("entries", len(sc.Entries)))
		if e.Kind == EffectScheduleRejected {
			log.Warn("schedule ignored, already holding this version or a newer one",
				zap.Int64("received", e.Decision.Incoming), zap.Int64("current", e.Decision.Previous))
			return
		}
		log.Info("schedule updated", zap.Int64("version", sc.Version))
		for i, en := range sc.Entries {
			log.Info("schedule entry",
				zap.Int("n", i+1),
				zap.Stringer("zone", en.Zone),
				zap.String("time", en.TimeOfDay),
				zap.Int("duration_min", en.DurationMinutes),
				zap.Any("days", en.DaysOfWeek))
		}

	case EffectCommandApplied:
		c := e.Command
		log.Info("manual command received",
			zap.Stringer("zone", e.Zone), zap.String("action", c.Action))
		switch e.Report.Status.State() {
		case model.ZoneActive:
			log.Info("simulating irrigation, valve OPEN",
				zap.Stringer("zone", e.Zone),
				zap.Int("duration_min", c.Duration/60),
				zap.Int("duration_s", c.Duration))
		case model.ZoneInactive:
			log.Info("stopping irrigation, valve CLOSED", zap.Stringer("zone", e.Zone))
		}

	case EffectCommandIgnored:
		log.Warn("unknown action, expected ON or OFF",
			zap.Stringer("zone", e.Zone), zap.String("action", e.Command.Action))

	case EffectParseError:
		log.Error("invalid payload, message discarded", zap.String("topic", e.Topic), zap.Error(e.Err))

	case EffectUnknownTopic:
		log.Warn("message on unknown topic", zap.String("topic", e.Topic))
	}
}
