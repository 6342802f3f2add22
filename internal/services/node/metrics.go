package node

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "irrigation_node"

// Metrics counts processed messages and status reports. A nil *Metrics is a no-op.
type Metrics struct {
	messages        *prometheus.CounterVec
	published       prometheus.Counter
	publishFailures prometheus.Counter
	duplicates      prometheus.Counter
	scheduleVersion prometheus.Gauge
	activeZones     prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		messages: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "messages_total",
			Help:      "Inbound messages by handling outcome.",
		}, []string{"effect"}),
		published: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "status_reports_published_total",
			Help:      "Zone status reports published.",
		}),
		publishFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "status_publish_failures_total",
			Help:      "Zone status reports that could not be published.",
		}),
		duplicates: f.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "duplicate_deliveries_total",
			Help:      "Redelivered messages dropped before processing.",
		}),
		scheduleVersion: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "schedule_version",
			Help:      "Version of the currently accepted schedule.",
		}),
		activeZones: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "active_zones",
			Help:      "Zones currently reported as active.",
		}),
	}
}

func (m *Metrics) observe(e Effect, state *NodeState) {
	if m == nil {
		return
	}
	m.messages.WithLabelValues(e.Kind.String()).Inc()
	m.scheduleVersion.Set(float64(state.ScheduleVersion()))
	m.activeZones.Set(float64(state.ActiveZones()))
}

func (m *Metrics) publishResult(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.publishFailures.Inc()
		return
	}
	m.published.Inc()
}

func (m *Metrics) duplicate() {
	if m == nil {
		return
	}
	m.duplicates.Inc()
}
