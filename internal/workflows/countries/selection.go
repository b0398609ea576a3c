// Package countries implements the blocked-country selection workflow.
package countries

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
	UpdateBlockedCountries(ctx context.Context, list []models.Country) (*models.GeoBlockingSettings, error)
}

// Selection holds the pending blocked flags until they are committed together
type Selection struct {
	store Store
	gate  *workflows.Gate

	mu        sync.Mutex
	countries []models.Country
	pending   map[string]bool
	filtered  bool
	visible   []string
}

// New starts a selection from the loaded country list
func New(store Store, list []models.Country, m *metrics.Metrics) *Selection {
	s := &Selection{
		store: store,
		gate:  workflows.NewGate("countries", m),
	}
	s.reset(list)
	return s
}

// reset adopts list as the committed state; s.mu must be held or s unshared
func (s *Selection) reset(list []models.Country) {
	s.countries = models.CloneCountries(list)
	s.pending = make(map[string]bool, len(list))
	for _, c := range list {
		s.pending[c.Code] = c.Blocked
	}
	s.filtered = false
	s.visible = nil
}

// Toggle flips the pending state of one country
func (s *Selection) Toggle(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	code = strings.ToUpper(strings.TrimSpace(code))
	if _, ok := s.pending[code]; !ok {
		return models.NewValidationError("code", fmt.Sprintf("unknown country %q", code))
	}
	s.pending[code] = !s.pending[code]
	return nil
}

// SetBlocked replaces the pending selection with exactly codes
func (s *Selection) SetBlocked(codes []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	want := make(map[string]bool, len(codes))
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if _, ok := s.pending[code]; !ok {
			return models.NewValidationError("codes", fmt.Sprintf("unknown country %q", code))
		}
		want[code] = true
	}
	for code := range s.pending {
		s.pending[code] = want[code]
	}
	return nil
}

// IsBlocked reports the pending state of one country
func (s *Selection) IsBlocked(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending[code]
}

// Filter returns the countries whose name contains term, ignoring case, in
// catalog order, and remembers them as the visible subset. A blank term shows everything.
func (s *Selection) Filter(term string) []models.Country {
	s.mu.Lock()
	defer s.mu.Unlock()

	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]models.Country, 0, len(s.countries))
	s.filtered = term != ""
	s.visible = s.visible[:0]
	for _, c := range s.countries {
		if term != "" && !strings.Contains(strings.ToLower(c.Name), term) {
			continue
		}
		c.Blocked = s.pending[c.Code]
		out = append(out, c)
		s.visible = append(s.visible, c.Code)
	}
	if !s.filtered {
		s.visible = nil
	}
	return out
}

// ToggleAll selects or deselects the visible subset only. A filter that
// matched nothing leaves the selection unchanged.
func (s *Selection) ToggleAll(selectVisible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.filtered {
		for code := range s.pending {
			s.pending[code] = selectVisible
		}
		return
	}
	for _, code := range s.visible {
		s.pending[code] = selectVisible
	}
}

// SelectedCount returns how many countries are pending as blocked
func (s *Selection) SelectedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, blocked := range s.pending {
		if blocked {
			n++
		}
	}
	return n
}

// Pending returns the full list with pending blocked flags
func (s *Selection) Pending() []models.Country {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingLocked()
}

func (s *Selection) pendingLocked() []models.Country {
	out := models.CloneCountries(s.countries)
	for i := range out {
		out[i].Blocked = s.pending[out[i].Code]
	}
	return out
}

// BlockedPreview returns the first limit pending blocked countries and how many more there are
func (s *Selection) BlockedPreview(limit int) ([]models.Country, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var shown []models.Country
	more := 0
	for _, c := range s.pendingLocked() {
		if !c.Blocked {
			continue
		}
		if len(shown) < limit {
			shown = append(shown, c)
		} else {
			more++
		}
	}
	return shown, more
}

// Sync adopts list as the committed state and drops pending edits.
// The visible subset survives.
func (s *Selection) Sync(list []models.Country) {
	s.mu.Lock()
	defer s.mu.Unlock()
	filtered, visible := s.filtered, s.visible
	s.reset(list)
	s.filtered, s.visible = filtered, visible
}

// Saving reports whether a commit is in flight
func (s *Selection) Saving() bool {
	return s.gate.Saving()
}

// Commit writes every pending flag at once. On failure the pending selection is kept.
func (s *Selection) Commit(ctx context.Context) (*models.GeoBlockingSettings, error) {
	var saved *models.GeoBlockingSettings
	err := s.gate.Run(func() error {
		s.mu.Lock()
		list := s.pendingLocked()
		s.mu.Unlock()

		var err error
		saved, err = s.store.UpdateBlockedCountries(ctx, list)
		if err != nil {
			return err
		}

		s.mu.Lock()
		filtered, visible := s.filtered, s.visible
		s.reset(saved.BlockedCountries)
		s.filtered, s.visible = filtered, visible
		s.mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}
