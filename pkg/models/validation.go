package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	_ "time/tzdata" // zone validation must not depend on the host zoneinfo
)

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// IsClockTime reports whether s is a well-formed 24-hour "HH:MM"
func IsClockTime(s string) bool {
	return clockPattern.MatchString(s)
}

// ValidateTimeRestriction checks the structural invariants of one restriction.
// startTime after endTime is accepted: the window then spans midnight. An
// empty day set is stored as is; the restriction then never applies.
func ValidateTimeRestriction(r TimeRestriction) error {
	if strings.TrimSpace(r.ID) == "" {
		return NewValidationError("id", "must not be empty")
	}
	if !IsClockTime(r.StartTime) {
		return NewValidationError("startTime", fmt.Sprintf("%q is not a valid HH:MM time", r.StartTime))
	}
	if !IsClockTime(r.EndTime) {
		return NewValidationError("endTime", fmt.Sprintf("%q is not a valid HH:MM time", r.EndTime))
	}
	seen := make(map[Weekday]bool, len(r.Days))
	for _, d := range r.Days {
		if !d.Valid() {
			return NewValidationError("days", fmt.Sprintf("unknown day %q", d))
		}
		if seen[d] {
			return NewValidationError("days", fmt.Sprintf("day %q listed twice", d))
		}
		seen[d] = true
	}
	if r.Timezone == "" {
		return NewValidationError("timezone", "must not be empty")
	}
	if _, err := time.LoadLocation(r.Timezone); err != nil {
		return NewValidationError("timezone", fmt.Sprintf("unknown timezone %q", r.Timezone))
	}
	return validateCountryCodes("countries", r.Countries)
}

// ValidateAffiliateException checks one exception, including its identifier list
func ValidateAffiliateException(a AffiliateException) error {
	if strings.TrimSpace(a.ID) == "" {
		return NewValidationError("id", "must not be empty")
	}
	if len(a.Identifiers) == 0 {
		return wrapValidation("identifiers", ErrNoIdentifiers)
	}
	for i, id := range a.Identifiers {
		classified, err := ClassifyIdentifier(id.Value)
		if err != nil {
			return err
		}
		if classified.Value != id.Value || classified.Type != id.Type {
			return NewValidationError("identifiers", fmt.Sprintf("%q must be stored trimmed with type %q", id.Value, classified.Type))
		}
		if HasIdentifier(a.Identifiers[:i], id.Value) {
			return wrapValidation("identifiers", ErrDuplicateIdentifier)
		}
	}
	return validateCountryCodes("countries", a.Countries)
}

// ValidateCountries checks a blocked-country list: catalog codes, each at most once
func ValidateCountries(list []Country) error {
	seen := make(map[string]bool, len(list))
	for _, c := range list {
		if !IsKnownCountry(c.Code) {
			return NewValidationError("blockedCountries", fmt.Sprintf("unknown country %q", c.Code))
		}
		if seen[c.Code] {
			return NewValidationError("blockedCountries", fmt.Sprintf("country %q listed twice", c.Code))
		}
		seen[c.Code] = true
	}
	return nil
}

// ValidateBlockMessages requires exactly one message per supported language
func ValidateBlockMessages(list []BlockMessage) error {
	seen := make(map[string]bool, len(list))
	for _, m := range list {
		if !IsSupportedLanguage(m.Language) {
			return NewValidationError("blockMessages", fmt.Sprintf("unsupported language %q", m.Language))
		}
		if seen[m.Language] {
			return NewValidationError("blockMessages", fmt.Sprintf("language %q listed twice", m.Language))
		}
		seen[m.Language] = true
	}
	for _, l := range Languages {
		if !seen[l.Code] {
			return NewValidationError("blockMessages", fmt.Sprintf("missing message for language %q", l.Code))
		}
	}
	return nil
}

// ValidateTimeRestrictions validates every restriction and id uniqueness
func ValidateTimeRestrictions(list []TimeRestriction) error {
	ids := make(map[string]bool, len(list))
	for _, r := range list {
		if err := ValidateTimeRestriction(r); err != nil {
			return err
		}
		if ids[r.ID] {
			return NewValidationError("timeRestrictions", fmt.Sprintf("duplicate id %q", r.ID))
		}
		ids[r.ID] = true
	}
	return nil
}

// ValidateAffiliateExceptions validates every exception and id uniqueness
func ValidateAffiliateExceptions(list []AffiliateException) error {
	ids := make(map[string]bool, len(list))
	for _, a := range list {
		if err := ValidateAffiliateException(a); err != nil {
			return err
		}
		if ids[a.ID] {
			return NewValidationError("affiliateExceptions", fmt.Sprintf("duplicate id %q", a.ID))
		}
		ids[a.ID] = true
	}
	return nil
}

// ValidateSettings validates the whole aggregate
func ValidateSettings(s *GeoBlockingSettings) error {
	if s == nil {
		return NewValidationError("settings", "must not be empty")
	}
	if err := ValidateCountries(s.BlockedCountries); err != nil {
		return err
	}
	if err := ValidateTimeRestrictions(s.TimeRestrictions); err != nil {
		return err
	}
	if err := ValidateAffiliateExceptions(s.AffiliateExceptions); err != nil {
		return err
	}
	return ValidateBlockMessages(s.BlockMessages)
}

func validateCountryCodes(field string, codes []string) error {
	seen := make(map[string]bool, len(codes))
	for _, code := range codes {
		if !IsKnownCountry(code) {
			return NewValidationError(field, fmt.Sprintf("unknown country %q", code))
		}
		if seen[code] {
			return NewValidationError(field, fmt.Sprintf("country %q listed twice", code))
		}
		seen[code] = true
	}
	return nil
}
