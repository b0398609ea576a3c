// Package messages implements the per-language block message workflow.
package messages

import (
	"context"
	"fmt"
	"sync"

	"github.com/PancyStudios/GeoGateGo/internal/workflows"
	"github.com/PancyStudios/GeoGateGo/pkg/metrics"
	"github.com/PancyStudios/GeoGateGo/pkg/models"
)

// Store is the part of the settings store this workflow writes through
type Store interface {
	UpdateBlockMessages(ctx context.Context, list []models.BlockMessage) (*models.GeoBlockingSettings, error)
}

// Editor keeps a draft of every language's message and commits them together
type Editor struct {
	store Store
	gate  *workflows.Gate

	mu       sync.Mutex
	drafts   []models.BlockMessage
	selected string
}

// New starts an editor from the loaded messages; the first language is selected
func New(store Store, list []models.BlockMessage, m *metrics.Metrics) *Editor {
	e := &Editor{
		store:  store,
		gate:   workflows.NewGate("block_messages", m),
		drafts: models.CloneBlockMessages(list),
	}
	if len(models.Languages) > 0 {
		e.selected = models.Languages[0].Code
	}
	return e
}

// SelectLanguage changes which message is being edited
func (e *Editor) SelectLanguage(code string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.indexLocked(code); err != nil {
		return err
	}
	e.selected = code
	return nil
}

// Language returns the selected language code
func (e *Editor) Language() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selected
}

// Selected returns the draft of the selected language
func (e *Editor) Selected() models.BlockMessage {
	e.mu.Lock()
	defer e.mu.Unlock()
	i, err := e.indexLocked(e.selected)
	if err != nil {
		return models.DefaultBlockMessage(e.selected)
	}
	return e.drafts[i]
}

// Messages returns every draft
func (e *Editor) Messages() []models.BlockMessage {
	e.mu.Lock()
	defer e.mu.Unlock()
	return models.CloneBlockMessages(e.drafts)
}

// SetMessageText replaces the text of one language
func (e *Editor) SetMessageText(code, text string) error {
	return e.edit(code, func(m *models.BlockMessage) { m.Message = text })
}

// SetShowContactButton toggles the contact button of one language
func (e *Editor) SetShowContactButton(code string, show bool) error {
	return e.edit(code, func(m *models.BlockMessage) { m.ShowContactButton = show })
}

// SetShowSocialLinks toggles the social links of one language
func (e *Editor) SetShowSocialLinks(code string, show bool) error {
	return e.edit(code, func(m *models.BlockMessage) { m.ShowSocialLinks = show })
}

// Sync replaces every draft with the committed messages
func (e *Editor) Sync(list []models.BlockMessage) {
	e.mu.Lock()
	e.drafts = models.CloneBlockMessages(list)
	e.mu.Unlock()
}

// Saving reports whether a commit is in flight
func (e *Editor) Saving() bool {
	return e.gate.Saving()
}

// Commit writes every draft at once. Drafts are kept when the write fails.
func (e *Editor) Commit(ctx context.Context) (*models.GeoBlockingSettings, error) {
	var saved *models.GeoBlockingSettings
	err := e.gate.Run(func() error {
		var err error
		saved, err = e.store.UpdateBlockMessages(ctx, e.Messages())
		if err != nil {
			return err
		}
		e.mu.Lock()
		e.drafts = models.CloneBlockMessages(saved.BlockMessages)
		e.mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (e *Editor) edit(code string, fn func(*models.BlockMessage)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	i, err := e.indexLocked(code)
	if err != nil {
		return err
	}
	fn(&e.drafts[i])
	return nil
}

// indexLocked finds the draft of code, creating it from the default when the
// language is supported but missing; e.mu must be held
func (e *Editor) indexLocked(code string) (int, error) {
	if !models.IsSupportedLanguage(code) {
		return -1, models.NewValidationError("language", fmt.Sprintf("unsupported language %q", code))
	}
	for i, m := range e.drafts {
		if m.Language == code {
			return i, nil
		}
	}
	e.drafts = append(e.drafts, models.DefaultBlockMessage(code))
	return len(e.drafts) - 1, nil
}
