package node

import "github.com/LeonardoBeccarini/irrigation-node/internal/model"

// Decision is the outcome of reconciling an incoming schedule.
type Decision struct {
	Accepted bool
	Previous int64 // version held before the decision
	Incoming int64
}

// Reconciler owns the versioned-schedule acceptance rule.
type Reconciler struct {
	state *NodeState
}

func NewReconciler(state *NodeState) *Reconciler {
	return &Reconciler{state: state}
}

// Reconcile accepts incoming unless a schedule was already accepted (version > 0)
// and incoming.Version does not exceed it. An empty node accepts anything,
// version 0 included. Rejection leaves the state untouched.
func (r *Reconciler) Reconcile(incoming model.Schedule) Decision {
	current := r.state.ScheduleVersion()
	d := Decision{Previous: current, Incoming: incoming.Version}
	if current > 0 && incoming.Version <= current {
		return d
	}
	r.state.replaceSchedule(incoming)
	d.Accepted = true
	return d
}
