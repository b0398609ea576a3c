// Package workflows holds what the editing workflows share: the single
// in-flight save gate and its sentinel error.
package workflows

import (
	"errors"
	"sync/atomic"

	"github.com/PancyStudios/GeoGateGo/pkg/metrics"
)

// ErrSaveInProgress is returned when a workflow already has a write outstanding
var ErrSaveInProgress = errors.New("a save is already in progress")

// Gate allows one outstanding write per workflow
type Gate struct {
	name    string
	metrics *metrics.Metrics
	saving  atomic.Bool
}

// NewGate creates a gate; name labels workflow metrics
func NewGate(name string, m *metrics.Metrics) *Gate {
	return &Gate{name: name, metrics: m}
}

// Saving reports whether a write is outstanding
func (g *Gate) Saving() bool {
	return g.saving.Load()
}

// Run executes fn unless another write is outstanding
func (g *Gate) Run(fn func() error) error {
	if !g.saving.CompareAndSwap(false, true) {
		g.metrics.WorkflowEvent(g.name, "refused")
		return ErrSaveInProgress
	}
	defer g.saving.Store(false)

	if err := fn(); err != nil {
		g.metrics.WorkflowEvent(g.name, "failed")
		return err
	}
	g.metrics.WorkflowEvent(g.name, "saved")
	return nil
}

// Rejected records a draft refused before reaching the store
func (g *Gate) Rejected() {
	g.metrics.WorkflowEvent(g.name, "rejected")
}
