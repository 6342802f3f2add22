package node

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ConnectionChecker reports whether the broker connection is usable.
// mqtt.Client satisfies it.
type ConnectionChecker interface {
	IsConnectionOpen() bool
}

type healthHandler struct {
	conn    ConnectionChecker
	state   *NodeState
	started time.Time
}

func (h *healthHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	type status struct {
		Status          string  `json:"status"`
		MQTTConnected   bool    `json:"mqtt_connected"`
		ScheduleVersion int64   `json:"schedule_version"`
		ActiveZones     int     `json:"active_zones"`
		UptimeS         float64 `json:"uptime_sec"`
	}
	st := status{
		MQTTConnected:   h.conn != nil && h.conn.IsConnectionOpen(),
		ScheduleVersion: h.state.ScheduleVersion(),
		ActiveZones:     h.state.ActiveZones(),
		UptimeS:         time.Since(h.started).Seconds(),
	}
	// the node keeps its state while the broker is away
	if st.MQTTConnected {
		st.Status = "ok"
	} else {
		st.Status = "degraded"
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(st)
}

// readyHandler answers 200 only while the broker connection is open.
type readyHandler struct {
	conn ConnectionChecker
}

func (h *readyHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	ready := h.conn != nil && h.conn.IsConnectionOpen()
	w.Header().Set("Content-Type", "application/json")
	if !ready {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"ready": ready})
}

func stateHandler(state *NodeState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(state.Snapshot())
	}
}

// NewHTTPMux exposes /healthz, /readyz, /state and /metrics.
func NewHTTPMux(conn ConnectionChecker, state *NodeState, gatherer prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/healthz", &healthHandler{conn: conn, state: state, started: time.Now()})
	mux.Handle("/readyz", &readyHandler{conn: conn})
	mux.Handle("/state", stateHandler(state))
	if gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}
