package timerules

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

type countingStore struct {
	Store
	calls int
	err   error
}

func (c *countingStore) UpdateTimeRestrictions(ctx context.Context, list []models.TimeRestriction) (*models.GeoBlockingSettings, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.Store.UpdateTimeRestrictions(ctx, list)
}

func newManager(t *testing.T) (*Manager, *settings.Store, *countingStore) {
	t.Helper()
	store := settings.New(storage.NewMemory(), settings.WithLatency(0))
	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	cs := &countingStore{Store: store}
	return New(cs, loaded.TimeRestrictions, nil), store, cs
}

func TestCreateDefaults(t *testing.T) {
	a, b := Create(), Create()

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "09:00", a.StartTime)
	assert.Equal(t, "18:00", a.EndTime)
	assert.Equal(t, models.Workweek, a.Days)
	assert.Equal(t, "Europe/Amsterdam", a.Timezone)
	assert.Equal(t, []string{}, a.Countries)
	assert.True(t, a.Enabled)
}

func TestCreateSaveReload(t *testing.T) {
	ctx := context.Background()
	m, store, _ := newManager(t)

	r := Create()
	_, err := m.Save(ctx, r)
	require.NoError(t, err)

	reloaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, reloaded.TimeRestrictions, 2)

	got := reloaded.TimeRestrictions[1]
	assert.Equal(t, r, got)
	assert.NotEqual(t, reloaded.TimeRestrictions[0].ID, got.ID)
}

func TestSaveReplacesById(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newManager(t)

	r, ok := m.Find("1")
	require.True(t, ok)
	r.StartTime = "22:00"
	r.EndTime = "06:00"

	saved, err := m.Save(ctx, r)
	require.NoError(t, err)
	require.Len(t, saved.TimeRestrictions, 1)
	assert.Equal(t, "22:00", saved.TimeRestrictions[0].StartTime)
}

func TestSaveValidatesBeforeStore(t *testing.T) {
	m, _, cs := newManager(t)

	tests := []struct {
		name   string
		mutate func(*models.TimeRestriction)
	}{
		{"bad time", func(r *models.TimeRestriction) { r.EndTime = "7pm" }},
		{"unknown day", func(r *models.TimeRestriction) { r.Days = []models.Weekday{"funday"} }},
		{"bad zone", func(r *models.TimeRestriction) { r.Timezone = "Nowhere/Land" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Create()
			tt.mutate(&r)
			_, err := m.Save(context.Background(), r)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
	assert.Zero(t, cs.calls)
}

func TestToggleEnabledOnlyChangesFlag(t *testing.T) {
	ctx := context.Background()
	m, store, _ := newManager(t)

	before := m.Rules()[0]
	_, err := m.ToggleEnabled(ctx, "1", false)
	require.NoError(t, err)

	reloaded, err := store.Load(ctx)
	require.NoError(t, err)
	after := reloaded.TimeRestrictions[0]

	assert.False(t, after.Enabled)
	after.Enabled = true
	assert.Equal(t, before, after)
}

func TestDeleteAndUnknownIds(t *testing.T) {
	ctx := context.Background()
	m, _, cs := newManager(t)

	_, err := m.Delete(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = m.ToggleEnabled(ctx, "missing", true)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Zero(t, cs.calls)

	saved, err := m.Delete(ctx, "1")
	require.NoError(t, err)
	assert.Empty(t, saved.TimeRestrictions)
	assert.Empty(t, m.Rules())
}

func TestFailedWriteKeepsLocalList(t *testing.T) {
	m, _, cs := newManager(t)
	cs.err = errors.New("storage down")

	_, err := m.Delete(context.Background(), "1")
	require.Error(t, err)
	assert.Len(t, m.Rules(), 1)
}

func TestDescribe(t *testing.T) {
	r := Create()
	assert.Equal(t, "09:00 - 18:00 · Weekdays · Europe/Amsterdam", Describe(r))

	r.Days = []models.Weekday{models.Sunday, models.Monday}
	r.Timezone = "UTC"
	assert.Equal(t, "09:00 - 18:00 · Mon, Sun · UTC", Describe(r))
}

func TestDescribeCountries(t *testing.T) {
	assert.Equal(t, "All countries", DescribeCountries(nil))
	assert.Equal(t, "Germany, Russian Federation", DescribeCountries([]string{"DE", "RU"}))
}

func TestSuggestTimezone(t *testing.T) {
	assert.Equal(t, "UTC", SuggestTimezone(nil, "UTC"))
	assert.Equal(t, "Europe/Berlin", SuggestTimezone([]string{"DE", "NL"}, "UTC"))
}
