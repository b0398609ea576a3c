package settings

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/PancyStudios/GeoGateGo/pkg/models"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Outcome tells how a stored document was interpreted
type Outcome string

const (
	// OutcomeEmpty means nothing was stored; defaults apply
	OutcomeEmpty Outcome = "empty"
	// OutcomeCurrent means the document already had the current shape
	OutcomeCurrent Outcome = "current"
	// OutcomeMigrated means the legacy decoder had to transform the document
	OutcomeMigrated Outcome = "migrated"
	// OutcomeCorrupt means neither decoder could read it; defaults apply
	OutcomeCorrupt Outcome = "corrupt"
)

var errShape = errors.New("document is not in the current schema")

// Decoded is the result of Decode
type Decoded struct {
	Settings *models.GeoBlockingSettings
	Outcome  Outcome
	// Notes lists what the migration changed or dropped
	Notes []string
}

// Encode serializes the aggregate in the current schema
func Encode(s *models.GeoBlockingSettings) ([]byte, error) {
	return json.Marshal(normalize(s.Clone()))
}

// Decode reads a stored document. It tries the current schema first, then the
// legacy schema, and returns defaults for empty or unreadable input. It never fails.
func Decode(raw []byte) Decoded {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Decoded{Settings: models.DefaultSettings(), Outcome: OutcomeEmpty}
	}

	if s, err := decodeCurrent(raw); err == nil {
		return Decoded{Settings: s, Outcome: OutcomeCurrent}
	}

	s, notes, err := decodeLegacy(raw)
	if err != nil {
		return Decoded{
			Settings: models.DefaultSettings(),
			Outcome:  OutcomeCorrupt,
			Notes:    []string{err.Error()},
		}
	}
	return Decoded{Settings: s, Outcome: OutcomeMigrated, Notes: notes}
}

func decodeCurrent(raw []byte) (*models.GeoBlockingSettings, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var s models.GeoBlockingSettings
	if err := dec.Decode(&s); err != nil {
		return nil, err
	}
	if err := checkCurrentShape(&s); err != nil {
		return nil, err
	}
	if err := models.ValidateSettings(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// checkCurrentShape rejects documents where a field the current schema requires is absent
func checkCurrentShape(s *models.GeoBlockingSettings) error {
	if s.BlockedCountries == nil || s.TimeRestrictions == nil || s.AffiliateExceptions == nil || s.BlockMessages == nil {
		return errShape
	}
	for _, r := range s.TimeRestrictions {
		if r.Countries == nil || r.Days == nil {
			return errShape
		}
	}
	for _, a := range s.AffiliateExceptions {
		if a.Countries == nil || a.Identifiers == nil {
			return errShape
		}
	}
	return nil
}

type legacyDocument struct {
	BlockedCountries    []models.Country            `json:"blockedCountries"`
	TimeRestrictions    []legacyTimeRestriction     `json:"timeRestrictions"`
	AffiliateExceptions *[]legacyAffiliateException `json:"affiliateExceptions"`
	BlockMessages       []models.BlockMessage       `json:"blockMessages"`
}

type legacyTimeRestriction struct {
	ID        string           `json:"id"`
	Country   *string          `json:"country"`
	Countries *[]string        `json:"countries"`
	StartTime string           `json:"startTime"`
	EndTime   string           `json:"endTime"`
	Days      []models.Weekday `json:"days"`
	Timezone  string           `json:"timezone"`
	Enabled   bool             `json:"enabled"`
}

type legacyAffiliateException struct {
	ID                 string                       `json:"id"`
	Name               string                       `json:"name"`
	Identifiers        []models.AffiliateIdentifier `json:"identifiers"`
	BypassRestrictions models.BypassRestrictions    `json:"bypassRestrictions"`
	Enabled            bool                         `json:"enabled"`
	Countries          *[]string                    `json:"countries"`
}

func decodeLegacy(raw []byte) (*models.GeoBlockingSettings, []string, error) {
	var doc legacyDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, nil, fmt.Errorf("unreadable settings document: %w", err)
	}

	var notes []string
	note := func(format string, args ...any) {
		notes = append(notes, fmt.Sprintf(format, args...))
	}

	s := &models.GeoBlockingSettings{
		BlockedCountries: migrateCountries(doc.BlockedCountries, note),
		TimeRestrictions: migrateTimeRestrictions(doc.TimeRestrictions, note),
		BlockMessages:    migrateBlockMessages(doc.BlockMessages, note),
	}

	if doc.AffiliateExceptions == nil {
		note("affiliateExceptions missing, seeded with defaults")
		s.AffiliateExceptions = models.DefaultAffiliateExceptions()
	} else {
		s.AffiliateExceptions = migrateAffiliateExceptions(*doc.AffiliateExceptions, note)
	}

	if err := models.ValidateSettings(s); err != nil {
		return nil, notes, fmt.Errorf("migrated document still invalid: %w", err)
	}
	return s, notes, nil
}

// migrateCountries rebuilds the catalog list, keeping stored blocked flags
func migrateCountries(stored []models.Country, note func(string, ...any)) []models.Country {
	blocked := make(map[string]bool, len(stored))
	for _, c := range stored {
		if !models.IsKnownCountry(c.Code) {
			note("blockedCountries: dropped unknown country %q", c.Code)
			continue
		}
		blocked[c.Code] = blocked[c.Code] || c.Blocked
	}
	list := models.CountryList()
	for i := range list {
		list[i].Blocked = blocked[list[i].Code]
	}
	return list
}

func migrateTimeRestrictions(stored []legacyTimeRestriction, note func(string, ...any)) []models.TimeRestriction {
	out := make([]models.TimeRestriction, 0, len(stored))
	ids := make(map[string]bool, len(stored))

	for _, lr := range stored {
		r := models.TimeRestriction{
			ID:        strings.TrimSpace(lr.ID),
			StartTime: lr.StartTime,
			EndTime:   lr.EndTime,
			Timezone:  lr.Timezone,
			Enabled:   lr.Enabled,
		}

		var codes []string
		switch {
		case lr.Countries != nil:
			codes = *lr.Countries
		case lr.Country != nil && *lr.Country != "":
			codes = []string{*lr.Country}
			note("timeRestrictions[%s]: country %q moved to countries", lr.ID, *lr.Country)
		case lr.Country != nil:
			note("timeRestrictions[%s]: empty country migrated to all countries", lr.ID)
		}
		r.Countries = knownCodes(codes, fmt.Sprintf("timeRestrictions[%s]", lr.ID), note)

		r.Days = make([]models.Weekday, 0, len(lr.Days))
		for _, d := range lr.Days {
			if d.Valid() && !containsDay(r.Days, d) {
				r.Days = append(r.Days, d)
			}
		}

		if r.ID == "" || ids[r.ID] {
			r.ID = uuid.NewString()
			note("timeRestrictions: assigned id %s to a record without a unique id", r.ID)
		}
		if err := models.ValidateTimeRestriction(r); err != nil {
			note("timeRestrictions[%s]: dropped, %v", r.ID, err)
			continue
		}
		ids[r.ID] = true
		out = append(out, r)
	}
	return out
}

func migrateAffiliateExceptions(stored []legacyAffiliateException, note func(string, ...any)) []models.AffiliateException {
	out := make([]models.AffiliateException, 0, len(stored))
	ids := make(map[string]bool, len(stored))

	for _, la := range stored {
		a := models.AffiliateException{
			ID:                 strings.TrimSpace(la.ID),
			BypassRestrictions: la.BypassRestrictions,
			Enabled:            la.Enabled,
			Identifiers:        make([]models.AffiliateIdentifier, 0, len(la.Identifiers)),
		}

		for _, id := range la.Identifiers {
			classified, err := models.ClassifyIdentifier(id.Value)
			if err != nil {
				note("affiliateExceptions[%s]: dropped invalid identifier %q", la.ID, id.Value)
				continue
			}
			if models.HasIdentifier(a.Identifiers, classified.Value) {
				continue
			}
			a.Identifiers = append(a.Identifiers, classified)
		}
		if len(a.Identifiers) == 0 {
			// name/UTM records predate identifiers and cannot be matched any more
			note("affiliateExceptions[%s]: dropped record %q without identifiers", la.ID, la.Name)
			continue
		}

		var codes []string
		if la.Countries != nil {
			codes = *la.Countries
		} else {
			note("affiliateExceptions[%s]: missing countries set to global", la.ID)
		}
		a.Countries = knownCodes(codes, fmt.Sprintf("affiliateExceptions[%s]", la.ID), note)

		if a.ID == "" || ids[a.ID] {
			a.ID = uuid.NewString()
			note("affiliateExceptions: assigned id %s to a record without a unique id", a.ID)
		}
		ids[a.ID] = true
		out = append(out, a)
	}
	return out
}

// migrateBlockMessages keeps one message per supported language in catalog order
func migrateBlockMessages(stored []models.BlockMessage, note func(string, ...any)) []models.BlockMessage {
	byLang := make(map[string]models.BlockMessage, len(stored))
	for _, m := range stored {
		if !models.IsSupportedLanguage(m.Language) {
			note("blockMessages: dropped unsupported language %q", m.Language)
			continue
		}
		if _, dup := byLang[m.Language]; !dup {
			byLang[m.Language] = m
		}
	}

	out := make([]models.BlockMessage, 0, len(models.Languages))
	for _, l := range models.Languages {
		m, ok := byLang[l.Code]
		if !ok {
			note("blockMessages: filled missing language %q with the default message", l.Code)
			m = models.DefaultBlockMessage(l.Code)
		}
		out = append(out, m)
	}
	return out
}

func knownCodes(codes []string, where string, note func(string, ...any)) []string {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if !models.IsKnownCountry(c) {
			note("%s: dropped unknown country %q", where, c)
			continue
		}
		if !containsString(out, c) {
			out = append(out, c)
		}
	}
	return out
}

// normalize replaces nil collections with empty ones so the encoded document
// always carries every field the current schema requires
func normalize(s *models.GeoBlockingSettings) *models.GeoBlockingSettings {
	if s.BlockedCountries == nil {
		s.BlockedCountries = []models.Country{}
	}
	if s.TimeRestrictions == nil {
		s.TimeRestrictions = []models.TimeRestriction{}
	}
	if s.AffiliateExceptions == nil {
		s.AffiliateExceptions = []models.AffiliateException{}
	}
	if s.BlockMessages == nil {
		s.BlockMessages = []models.BlockMessage{}
	}
	for i := range s.TimeRestrictions {
		if s.TimeRestrictions[i].Countries == nil {
			s.TimeRestrictions[i].Countries = []string{}
		}
		if s.TimeRestrictions[i].Days == nil {
			s.TimeRestrictions[i].Days = []models.Weekday{}
		}
	}
	for i := range s.AffiliateExceptions {
		if s.AffiliateExceptions[i].Countries == nil {
			s.AffiliateExceptions[i].Countries = []string{}
		}
		if s.AffiliateExceptions[i].Identifiers == nil {
			s.AffiliateExceptions[i].Identifiers = []models.AffiliateIdentifier{}
		}
	}
	return s
}

func containsDay(days []models.Weekday, d models.Weekday) bool {
	for _, x := range days {
		if x == d {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
