// Package affiliates implements the affiliate exception workflow.
package affiliates

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/PancyStudios/GeoGateGo/internal/workflows"
	"github.com/PancyStudios/GeoGateGo/pkg/metrics"
	"github.com/PancyStudios/GeoGateGo/pkg/models"
)

// Store is the part of the settings store this workflow writes through
type Store interface {
	UpdateAffiliateExceptions(ctx context.Context, list []models.AffiliateException) (*models.GeoBlockingSettings, error)
}

// Manager edits the exception list and writes it back whole
type Manager struct {
	store Store
	gate  *workflows.Gate

	mu         sync.Mutex
	exceptions []models.AffiliateException
}

// New creates a Manager over the loaded exception list
func New(store Store, list []models.AffiliateException, m *metrics.Metrics) *Manager {
	return &Manager{
		store:      store,
		gate:       workflows.NewGate("affiliate_exceptions", m),
		exceptions: models.CloneAffiliateExceptions(list),
	}
}

// Exceptions returns a copy of the current list
func (m *Manager) Exceptions() []models.AffiliateException {
	m.mu.Lock()
	defer m.mu.Unlock()
	return models.CloneAffiliateExceptions(m.exceptions)
}

// Find returns the exception with id
func (m *Manager) Find(id string) (models.AffiliateException, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := indexOf(m.exceptions, id); i >= 0 {
		return m.exceptions[i].Clone(), true
	}
	return models.AffiliateException{}, false
}

// Sync replaces the local list with one committed elsewhere
func (m *Manager) Sync(list []models.AffiliateException) {
	m.mu.Lock()
	m.exceptions = models.CloneAffiliateExceptions(list)
	m.mu.Unlock()
}

// Saving reports whether a write is in flight
func (m *Manager) Saving() bool {
	return m.gate.Saving()
}

// Save writes the draft, replacing the exception with the same id or appending it.
// A draft without identifiers is refused before the store is called.
func (m *Manager) Save(ctx context.Context, d *Draft) (*models.GeoBlockingSettings, error) {
	a := d.Exception()
	if err := models.ValidateAffiliateException(a); err != nil {
		m.gate.Rejected()
		return nil, err
	}
	return m.write(ctx, func(list []models.AffiliateException) ([]models.AffiliateException, error) {
		if i := indexOf(list, a.ID); i >= 0 {
			list[i] = a
			return list, nil
		}
		return append(list, a), nil
	})
}

// Delete removes the exception with id
func (m *Manager) Delete(ctx context.Context, id string) (*models.GeoBlockingSettings, error) {
	return m.write(ctx, func(list []models.AffiliateException) ([]models.AffiliateException, error) {
		i := indexOf(list, id)
		if i < 0 {
			return nil, fmt.Errorf("affiliate exception %q: %w", id, models.ErrNotFound)
		}
		return append(list[:i], list[i+1:]...), nil
	})
}

// ToggleEnabled sets the enabled flag of one exception and nothing else
func (m *Manager) ToggleEnabled(ctx context.Context, id string, enabled bool) (*models.GeoBlockingSettings, error) {
	return m.write(ctx, func(list []models.AffiliateException) ([]models.AffiliateException, error) {
		i := indexOf(list, id)
		if i < 0 {
			return nil, fmt.Errorf("affiliate exception %q: %w", id, models.ErrNotFound)
		}
		list[i].Enabled = enabled
		return list, nil
	})
}

func (m *Manager) write(ctx context.Context, edit func([]models.AffiliateException) ([]models.AffiliateException, error)) (*models.GeoBlockingSettings, error) {
	var saved *models.GeoBlockingSettings
	err := m.gate.Run(func() error {
		next, err := edit(m.Exceptions())
		if err != nil {
			return err
		}
		saved, err = m.store.UpdateAffiliateExceptions(ctx, next)
		if err != nil {
			return err
		}
		m.mu.Lock()
		m.exceptions = models.CloneAffiliateExceptions(saved.AffiliateExceptions)
		m.mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func indexOf(list []models.AffiliateException, id string) int {
	for i, a := range list {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// DescribeScope renders where an exception applies
func DescribeScope(countries []string) string {
	if len(countries) == 0 {
		return "Applies globally"
	}
	n := min(len(countries), 3)
	names := make([]string, n)
	for i := range n {
		names[i] = models.CountryName(countries[i])
	}
	out := strings.Join(names, ", ")
	if extra := len(countries) - n; extra > 0 {
		out += fmt.Sprintf(" +%d more", extra)
	}
	return out
}

// DescribeBypass renders which restriction kinds an exception lifts
func DescribeBypass(b models.BypassRestrictions) string {
	switch {
	case b.GeoBlocking && b.TimeRestrictions:
		return "Bypasses geo-blocking and time restrictions"
	case b.GeoBlocking:
		return "Bypasses geo-blocking"
	case b.TimeRestrictions:
		return "Bypasses time restrictions"
	default:
		return "Bypasses nothing"
	}
}
