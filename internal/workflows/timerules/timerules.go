// Package timerules implements the time restriction workflow: create, edit,
// delete and enable/disable restriction windows.
package timerules

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/PancyStudios/GeoGateGo/internal/workflows"
	"github.com/PancyStudios/GeoGateGo/pkg/metrics"
	"github.com/PancyStudios/GeoGateGo/pkg/models"
	"github.com/google/uuid"
)

// Store is the part of the settings store this workflow writes through
type Store interface {
	UpdateTimeRestrictions(ctx context.Context, list []models.TimeRestriction) (*models.GeoBlockingSettings, error)
}

// Create returns a new restriction with the form defaults and a fresh id
func Create() models.TimeRestriction {
	return models.TimeRestriction{
		ID:        uuid.NewString(),
		Countries: []string{},
		StartTime: "09:00",
		EndTime:   "18:00",
		Days:      append([]models.Weekday(nil), models.Workweek...),
		Timezone:  models.DefaultTimezone,
		Enabled:   true,
	}
}

// Manager edits the restriction list and writes it back whole
type Manager struct {
	store Store
	gate  *workflows.Gate

	mu    sync.Mutex
	rules []models.TimeRestriction
}

// New creates a Manager over the loaded restriction list
func New(store Store, rules []models.TimeRestriction, m *metrics.Metrics) *Manager {
	return &Manager{
		store: store,
		gate:  workflows.NewGate("time_restrictions", m),
		rules: models.CloneTimeRestrictions(rules),
	}
}

// Rules returns a copy of the current list
func (m *Manager) Rules() []models.TimeRestriction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return models.CloneTimeRestrictions(m.rules)
}

// Find returns the restriction with id
func (m *Manager) Find(id string) (models.TimeRestriction, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := indexOf(m.rules, id); i >= 0 {
		return m.rules[i].Clone(), true
	}
	return models.TimeRestriction{}, false
}

// Sync replaces the local list with one committed elsewhere
func (m *Manager) Sync(rules []models.TimeRestriction) {
	m.mu.Lock()
	m.rules = models.CloneTimeRestrictions(rules)
	m.mu.Unlock()
}

// Saving reports whether a write is in flight
func (m *Manager) Saving() bool {
	return m.gate.Saving()
}

// Save replaces the restriction with the same id or appends it.
// The record is validated before the store is called.
func (m *Manager) Save(ctx context.Context, r models.TimeRestriction) (*models.GeoBlockingSettings, error) {
	if r.Countries == nil {
		r.Countries = []string{}
	}
	if err := models.ValidateTimeRestriction(r); err != nil {
		m.gate.Rejected()
		return nil, err
	}
	return m.write(ctx, func(list []models.TimeRestriction) ([]models.TimeRestriction, error) {
		if i := indexOf(list, r.ID); i >= 0 {
			list[i] = r.Clone()
			return list, nil
		}
		return append(list, r.Clone()), nil
	})
}

// Delete removes the restriction with id
func (m *Manager) Delete(ctx context.Context, id string) (*models.GeoBlockingSettings, error) {
	return m.write(ctx, func(list []models.TimeRestriction) ([]models.TimeRestriction, error) {
		i := indexOf(list, id)
		if i < 0 {
			return nil, fmt.Errorf("time restriction %q: %w", id, models.ErrNotFound)
		}
		return append(list[:i], list[i+1:]...), nil
	})
}

// ToggleEnabled sets the enabled flag of one restriction and nothing else
func (m *Manager) ToggleEnabled(ctx context.Context, id string, enabled bool) (*models.GeoBlockingSettings, error) {
	return m.write(ctx, func(list []models.TimeRestriction) ([]models.TimeRestriction, error) {
		i := indexOf(list, id)
		if i < 0 {
			return nil, fmt.Errorf("time restriction %q: %w", id, models.ErrNotFound)
		}
		list[i].Enabled = enabled
		return list, nil
	})
}

// write applies edit to a copy of the list and commits it; the local list
// only changes once the store accepted the write
func (m *Manager) write(ctx context.Context, edit func([]models.TimeRestriction) ([]models.TimeRestriction, error)) (*models.GeoBlockingSettings, error) {
	var saved *models.GeoBlockingSettings
	err := m.gate.Run(func() error {
		next, err := edit(m.Rules())
		if err != nil {
			return err
		}
		saved, err = m.store.UpdateTimeRestrictions(ctx, next)
		if err != nil {
			return err
		}
		m.mu.Lock()
		m.rules = models.CloneTimeRestrictions(saved.TimeRestrictions)
		m.mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func indexOf(list []models.TimeRestriction, id string) int {
	for i, r := range list {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// Describe renders the summary line shown for a restriction
func Describe(r models.TimeRestriction) string {
	return fmt.Sprintf("%s - %s · %s · %s", r.StartTime, r.EndTime, models.FormatDays(r.Days), r.Timezone)
}

// DescribeCountries renders the country scope of a restriction
func DescribeCountries(codes []string) string {
	if len(codes) == 0 {
		return "All countries"
	}
	names := make([]string, len(codes))
	for i, c := range codes {
		names[i] = models.CountryName(c)
	}
	return strings.Join(names, ", ")
}

// SuggestTimezone proposes a zone for the first selected country, keeping current otherwise
func SuggestTimezone(countries []string, current string) string {
	if len(countries) == 0 {
		return current
	}
	return models.SuggestTimezone(countries[0], current)
}
