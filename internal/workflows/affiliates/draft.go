package affiliates

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/GeoGateGo/pkg/models"
	"github.com/google/uuid"
)

// Draft is an affiliate exception being edited. Failed edits leave it unchanged.
type Draft struct {
	exception models.AffiliateException
}

// Create starts a draft for a new exception
func Create() *Draft {
	return &Draft{exception: models.AffiliateException{
		ID:          uuid.NewString(),
		Identifiers: []models.AffiliateIdentifier{},
		BypassRestrictions: models.BypassRestrictions{
			GeoBlocking:      true,
			TimeRestrictions: true,
		},
		Enabled:   true,
		Countries: []string{},
	}}
}

// Edit starts a draft from an existing exception
func Edit(a models.AffiliateException) *Draft {
	return &Draft{exception: a.Clone()}
}

// Exception returns a copy of the drafted record
func (d *Draft) Exception() models.AffiliateException {
	return d.exception.Clone()
}

// ID returns the id of the drafted record
func (d *Draft) ID() string {
	return d.exception.ID
}

// AddIdentifier classifies raw and appends it
func (d *Draft) AddIdentifier(raw string) (models.AffiliateIdentifier, error) {
	id, err := models.ClassifyIdentifier(raw)
	if err != nil {
		return models.AffiliateIdentifier{}, err
	}
	if models.HasIdentifier(d.exception.Identifiers, id.Value) {
		return models.AffiliateIdentifier{}, &models.ValidationError{
			Field:  "identifier",
			Reason: fmt.Sprintf("%q already exists in this exception", id.Value),
			Err:    models.ErrDuplicateIdentifier,
		}
	}
	d.exception.Identifiers = append(d.exception.Identifiers, id)
	return id, nil
}

// RemoveIdentifier drops the identifier at index
func (d *Draft) RemoveIdentifier(index int) error {
	if index < 0 || index >= len(d.exception.Identifiers) {
		return models.NewValidationError("identifier", fmt.Sprintf("no identifier at position %d", index))
	}
	ids := d.exception.Identifiers
	d.exception.Identifiers = append(ids[:index:index], ids[index+1:]...)
	return nil
}

// ToggleCountry adds or removes one country from the scope
func (d *Draft) ToggleCountry(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !models.IsKnownCountry(code) {
		return models.NewValidationError("countries", fmt.Sprintf("unknown country %q", code))
	}
	for i, c := range d.exception.Countries {
		if c == code {
			d.exception.Countries = append(d.exception.Countries[:i:i], d.exception.Countries[i+1:]...)
			return nil
		}
	}
	d.exception.Countries = append(d.exception.Countries, code)
	return nil
}

// ToggleAllCountries clears a non-empty scope or fills an empty one with every country
func (d *Draft) ToggleAllCountries() {
	if len(d.exception.Countries) > 0 {
		d.exception.Countries = []string{}
		return
	}
	d.exception.Countries = models.CountryCodes()
}

// SetBypass selects which restriction kinds the exception lifts
func (d *Draft) SetBypass(geoBlocking, timeRestrictions bool) {
	d.exception.BypassRestrictions = models.BypassRestrictions{
		GeoBlocking:      geoBlocking,
		TimeRestrictions: timeRestrictions,
	}
}

// SetEnabled sets the enabled flag
func (d *Draft) SetEnabled(enabled bool) {
	d.exception.Enabled = enabled
}
