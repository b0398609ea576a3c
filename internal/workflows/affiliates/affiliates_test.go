package affiliates

import (
	"context"
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
}

func (c *countingStore) UpdateAffiliateExceptions(ctx context.Context, list []models.AffiliateException) (*models.GeoBlockingSettings, error) {
	c.calls++
	return c.Store.UpdateAffiliateExceptions(ctx, list)
}

func newManager(t *testing.T) (*Manager, *settings.Store, *countingStore) {
	t.Helper()
	store := settings.New(storage.NewMemory(), settings.WithLatency(0))
	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	cs := &countingStore{Store: store}
	return New(cs, loaded.AffiliateExceptions, nil), store, cs
}

func TestAddIdentifier(t *testing.T) {
	d := Create()

	id, err := d.AddIdentifier("  partner@example.com ")
	require.NoError(t, err)
	assert.Equal(t, models.AffiliateIdentifier{Value: "partner@example.com", Type: models.IdentifierTypeEmail}, id)

	_, err = d.AddIdentifier("AFF001")
	require.NoError(t, err)

	before := d.Exception()

	_, err = d.AddIdentifier("PARTNER@example.com")
	assert.ErrorIs(t, err, models.ErrDuplicateIdentifier)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = d.AddIdentifier("aff-001")
	assert.ErrorIs(t, err, models.ErrInvalidIdentifier)

	assert.Equal(t, before, d.Exception(), "rejected identifiers must not mutate the draft")
}

func TestRemoveIdentifier(t *testing.T) {
	d := Create()
	for _, raw := range []string{"A1", "B2", "C3"} {
		_, err := d.AddIdentifier(raw)
		require.NoError(t, err)
	}
	require.NoError(t, d.RemoveIdentifier(1))

	got := d.Exception().Identifiers
	require.Len(t, got, 2)
	assert.Equal(t, "A1", got[0].Value)
	assert.Equal(t, "C3", got[1].Value)

	assert.ErrorIs(t, d.RemoveIdentifier(5), models.ErrValidation)
}

func TestToggleCountries(t *testing.T) {
	d := Create()

	require.NoError(t, d.ToggleCountry("nl"))
	require.NoError(t, d.ToggleCountry("BE"))
	require.NoError(t, d.ToggleCountry("NL"))
	assert.Equal(t, []string{"BE"}, d.Exception().Countries)
	assert.ErrorIs(t, d.ToggleCountry("XX"), models.ErrValidation)

	d.ToggleAllCountries()
	assert.Empty(t, d.Exception().Countries)
	d.ToggleAllCountries()
	assert.Len(t, d.Exception().Countries, len(models.Countries))
}

func TestSaveWithoutIdentifiersNeverCallsStore(t *testing.T) {
	m, _, cs := newManager(t)

	_, err := m.Save(context.Background(), Create())
	assert.ErrorIs(t, err, models.ErrNoIdentifiers)
	assert.Zero(t, cs.calls)
}

func TestSaveAppendsThenReplaces(t *testing.T) {
	ctx := context.Background()
	m, store, _ := newManager(t)

	d := Create()
	_, err := d.AddIdentifier("AFF42")
	require.NoError(t, err)
	d.SetBypass(false, true)

	saved, err := m.Save(ctx, d)
	require.NoError(t, err)
	require.Len(t, saved.AffiliateExceptions, 2)

	require.NoError(t, d.ToggleCountry("FR"))
	_, err = m.Save(ctx, d)
	require.NoError(t, err)

	reloaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, reloaded.AffiliateExceptions, 2)
	assert.Equal(t, d.Exception(), reloaded.AffiliateExceptions[1])
}

func TestToggleEnabledPersistsOnlyTheFlag(t *testing.T) {
	ctx := context.Background()
	m, store, _ := newManager(t)

	before, ok := m.Find("1")
	require.True(t, ok)
	require.True(t, before.Enabled)

	_, err := m.ToggleEnabled(ctx, "1", false)
	require.NoError(t, err)

	reloaded, err := store.Load(ctx)
	require.NoError(t, err)
	after := reloaded.AffiliateExceptions[0]
	assert.False(t, after.Enabled)

	after.Enabled = true
	assert.Equal(t, before, after)
}

func TestDeleteUnknown(t *testing.T) {
	m, _, _ := newManager(t)

	_, err := m.Delete(context.Background(), "nope")
	assert.ErrorIs(t, err, models.ErrNotFound)

	saved, err := m.Delete(context.Background(), "1")
	require.NoError(t, err)
	assert.Empty(t, saved.AffiliateExceptions)
}

func TestDescribeScope(t *testing.T) {
	tests := []struct {
		codes []string
		want  string
	}{
		{nil, "Applies globally"},
		{[]string{"DE"}, "Germany"},
		{[]string{"DE", "FR", "NL"}, "Germany, France, Netherlands"},
		{[]string{"DE", "FR", "NL", "BE", "LU"}, "Germany, France, Netherlands +2 more"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, DescribeScope(tt.codes))
		})
	}
}

func TestDescribeBypass(t *testing.T) {
	assert.Equal(t, "Bypasses geo-blocking and time restrictions", DescribeBypass(models.BypassRestrictions{GeoBlocking: true, TimeRestrictions: true}))
	assert.Equal(t, "Bypasses time restrictions", DescribeBypass(models.BypassRestrictions{TimeRestrictions: true}))
}
