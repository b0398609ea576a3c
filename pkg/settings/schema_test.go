package settings

import (
	"testing"

	"github.com/PancyStudios/GeoGateGo/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeOutcomes(t *testing.T) {
	current, err := Encode(models.DefaultSettings())
	require.NoError(t, err)

	tests := []struct {
		name string
		raw  string
		want Outcome
	}{
		{"nothing stored", "", OutcomeEmpty},
		{"whitespace", "  \n", OutcomeEmpty},
		{"current document", string(current), OutcomeCurrent},
		{"truncated", string(current[:len(current)/2]), OutcomeCorrupt},
		{"not an object", `"settings"`, OutcomeCorrupt},
		{"wrong types", `{"timeRestrictions": 5}`, OutcomeCorrupt},
		{"bare object", `{}`, OutcomeMigrated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decode([]byte(tt.raw))
			assert.Equal(t, tt.want, got.Outcome)
			require.NotNil(t, got.Settings)
			if tt.want == OutcomeEmpty || tt.want == OutcomeCorrupt {
				assert.Equal(t, models.DefaultSettings(), got.Settings)
			}
		})
	}
}

func TestDecodeLegacyTimeRestrictions(t *testing.T) {
	got := Decode(legacyDocumentJSON(t))
	require.Equal(t, OutcomeMigrated, got.Outcome)

	require.Len(t, got.Settings.TimeRestrictions, 2)
	assert.Equal(t, []string{"RU"}, got.Settings.TimeRestrictions[0].Countries)
	assert.Equal(t, []string{}, got.Settings.TimeRestrictions[1].Countries)
	assert.Equal(t, "2", got.Settings.TimeRestrictions[1].ID)

	assert.Equal(t, models.DefaultAffiliateExceptions(), got.Settings.AffiliateExceptions)
	assert.NotEmpty(t, got.Notes)
}

func TestDecodeLegacyAffiliates(t *testing.T) {
	raw := `{
		"blockedCountries": [{"code": "FR", "name": "France", "blocked": true}, {"code": "XX", "blocked": true}],
		"timeRestrictions": [],
		"affiliateExceptions": [
			{"id": "a", "identifiers": [{"value": " partner@example.com ", "type": "id"}, {"value": "bad value"}],
			 "bypassRestrictions": {"geoBlocking": true}, "enabled": true},
			{"id": "b", "name": "Spring campaign", "utmSource": "newsletter", "enabled": true}
		],
		"blockMessages": [{"language": "de", "message": "Gesperrt", "showContactButton": false, "showSocialLinks": true}]
	}`

	got := Decode([]byte(raw))
	require.Equal(t, OutcomeMigrated, got.Outcome)
	s := got.Settings

	assert.Equal(t, 1, s.BlockedCount())
	assert.Len(t, s.BlockedCountries, len(models.Countries))

	require.Len(t, s.AffiliateExceptions, 1, "name/UTM record without identifiers is dropped")
	a := s.AffiliateExceptions[0]
	assert.Equal(t, []models.AffiliateIdentifier{{Value: "partner@example.com", Type: models.IdentifierTypeEmail}}, a.Identifiers)
	assert.Equal(t, []string{}, a.Countries)
	assert.True(t, a.BypassRestrictions.GeoBlocking)
	assert.False(t, a.BypassRestrictions.TimeRestrictions)

	require.Len(t, s.BlockMessages, len(models.Languages))
	for _, m := range s.BlockMessages {
		if m.Language == "de" {
			assert.Equal(t, "Gesperrt", m.Message)
			assert.False(t, m.ShowContactButton)
		} else {
			assert.Equal(t, models.DefaultBlockMessage(m.Language), m)
		}
	}
	assert.NoError(t, models.ValidateSettings(s))
}

func TestMigrationIsIdempotent(t *testing.T) {
	first := Decode(legacyDocumentJSON(t))
	require.Equal(t, OutcomeMigrated, first.Outcome)

	raw, err := Encode(first.Settings)
	require.NoError(t, err)
	second := Decode(raw)

	assert.Equal(t, OutcomeCurrent, second.Outcome)
	assert.Equal(t, first.Settings, second.Settings)

	raw2, err := Encode(second.Settings)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(raw2))
}

func TestCurrentDocumentIsLossless(t *testing.T) {
	s := models.DefaultSettings()
	s.AffiliateExceptions = append(s.AffiliateExceptions, models.AffiliateException{
		ID: "2",
		Identifiers: []models.AffiliateIdentifier{
			{Value: "a@b.io", Type: models.IdentifierTypeEmail},
			{Value: "AFF42", Type: models.IdentifierTypeID},
		},
		Enabled:   false,
		Countries: []string{"NL", "BE"},
	})

	raw, err := Encode(s)
	require.NoError(t, err)
	got := Decode(raw)

	assert.Equal(t, OutcomeCurrent, got.Outcome)
	assert.Equal(t, s, got.Settings)
	assert.Empty(t, got.Notes)
}

func TestCurrentDocumentKeepsRestrictionWithoutDays(t *testing.T) {
	s := models.DefaultSettings()
	s.TimeRestrictions = append(s.TimeRestrictions, models.TimeRestriction{
		ID:        "paused",
		Countries: []string{"DE"},
		StartTime: "08:00",
		EndTime:   "12:00",
		Days:      []models.Weekday{},
		Timezone:  "Europe/Berlin",
		Enabled:   true,
	})

	raw, err := Encode(s)
	require.NoError(t, err)
	got := Decode(raw)

	assert.Equal(t, OutcomeCurrent, got.Outcome)
	assert.Empty(t, got.Notes)
	require.Len(t, got.Settings.TimeRestrictions, len(s.TimeRestrictions))
	assert.Equal(t, []models.Weekday{}, got.Settings.TimeRestrictions[len(s.TimeRestrictions)-1].Days)
}

func TestLegacyRestrictionWithoutDaysIsKept(t *testing.T) {
	raw := `{"timeRestrictions": [{"id": "9", "country": "RU", "startTime": "09:00", "endTime": "18:00", "days": [], "timezone": "Europe/Moscow"}]}`

	got := Decode([]byte(raw))
	require.Equal(t, OutcomeMigrated, got.Outcome)
	require.Len(t, got.Settings.TimeRestrictions, 1)
	assert.Equal(t, "9", got.Settings.TimeRestrictions[0].ID)
	assert.Empty(t, got.Settings.TimeRestrictions[0].Days)
}

func TestEncodeNeverEmitsNull(t *testing.T) {
	s := &models.GeoBlockingSettings{
		TimeRestrictions: []models.TimeRestriction{{ID: "1"}},
	}
	raw, err := Encode(s)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "null")
}
