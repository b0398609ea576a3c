package messages

import (
	"context"
	"errors"
	"testing"

	"github.com/PancyStudios/GeoGateGo/pkg/models"
	"github.com/PancyStudios/GeoGateGo/pkg/settings"
	"github.com/PancyStudios/GeoGateGo/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) UpdateBlockMessages(context.Context, []models.BlockMessage) (*models.GeoBlockingSettings, error) {
	return nil, errors.New("storage down")
}

func TestSelectLanguageOnlyChangesSelection(t *testing.T) {
	e := New(failingStore{}, models.DefaultBlockMessages(), nil)
	before := e.Messages()

	require.NoError(t, e.SelectLanguage("fr"))
	assert.Equal(t, "fr", e.Language())
	assert.Equal(t, "fr", e.Selected().Language)
	assert.Equal(t, before, e.Messages())

	assert.ErrorIs(t, e.SelectLanguage("tlh"), models.ErrValidation)
	assert.Equal(t, "fr", e.Language())
}

func TestSettersTargetOneLanguage(t *testing.T) {
	e := New(failingStore{}, models.DefaultBlockMessages(), nil)

	require.NoError(t, e.SetMessageText("de", "<p>Gesperrt</p>"))
	require.NoError(t, e.SetShowContactButton("de", false))
	require.NoError(t, e.SetShowSocialLinks("es", false))
	assert.ErrorIs(t, e.SetMessageText("xx", "nope"), models.ErrValidation)

	for _, m := range e.Messages() {
		switch m.Language {
		case "de":
			assert.Equal(t, "<p>Gesperrt</p>", m.Message)
			assert.False(t, m.ShowContactButton)
			assert.True(t, m.ShowSocialLinks)
		case "es":
			assert.False(t, m.ShowSocialLinks)
		default:
			assert.Equal(t, models.DefaultBlockMessage(m.Language), m)
		}
	}
}

func TestCommitPersists(t *testing.T) {
	ctx := context.Background()
	store := settings.New(storage.NewMemory(), settings.WithLatency(0))
	loaded, err := store.Load(ctx)
	require.NoError(t, err)

	e := New(store, loaded.BlockMessages, nil)
	require.NoError(t, e.SetMessageText("it", "Servizio non disponibile"))
	_, err = e.Commit(ctx)
	require.NoError(t, err)

	reloaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, e.Messages(), reloaded.BlockMessages)
}

func TestCommitFailureKeepsDrafts(t *testing.T) {
	e := New(failingStore{}, models.DefaultBlockMessages(), nil)
	require.NoError(t, e.SetMessageText("en", "Closed"))

	_, err := e.Commit(context.Background())
	require.Error(t, err)

	require.NoError(t, e.SelectLanguage("en"))
	assert.Equal(t, "Closed", e.Selected().Message)
	assert.False(t, e.Saving())
}

func TestMissingLanguageIsCreatedOnEdit(t *testing.T) {
	e := New(failingStore{}, models.DefaultBlockMessages()[:1], nil)

	require.NoError(t, e.SetShowContactButton("nl", false))
	assert.Len(t, e.Messages(), 2)
}
