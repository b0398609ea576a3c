package models

// DefaultBlockMessageText is shown in every language until an operator edits it
const DefaultBlockMessageText = "Access to this service is currently restricted in your region."

// DefaultBlockMessage returns the fallback message record for a language
func DefaultBlockMessage(language string) BlockMessage {
	return BlockMessage{
		Language:          language,
		Message:           DefaultBlockMessageText,
		ShowContactButton: true,
		ShowSocialLinks:   true,
	}
}

// DefaultTimeRestrictions is the seed restriction list
func DefaultTimeRestrictions() []TimeRestriction {
	return []TimeRestriction{
		{
			ID:        "1",
			Countries: []string{"RU"},
			StartTime: "09:00",
			EndTime:   "18:00",
			Days:      append([]Weekday(nil), Workweek...),
			Timezone:  DefaultTimezone,
			Enabled:   true,
		},
	}
}

// DefaultAffiliateExceptions is the seed exception list
func DefaultAffiliateExceptions() []AffiliateException {
	return []AffiliateException{
		{
			ID:          "1",
			Identifiers: []AffiliateIdentifier{{Value: "PREMIUM001", Type: IdentifierTypeID}},
			BypassRestrictions: BypassRestrictions{
				GeoBlocking:      true,
				TimeRestrictions: true,
			},
			Enabled:   true,
			Countries: []string{},
		},
	}
}

// DefaultBlockMessages returns one fallback message per supported language
func DefaultBlockMessages() []BlockMessage {
	msgs := make([]BlockMessage, len(Languages))
	for i, l := range Languages {
		msgs[i] = DefaultBlockMessage(l.Code)
	}
	return msgs
}

// DefaultSettings is the aggregate used when nothing is stored or storage is unreadable
func DefaultSettings() *GeoBlockingSettings {
	return &GeoBlockingSettings{
		BlockedCountries:    CountryList(),
		TimeRestrictions:    DefaultTimeRestrictions(),
		AffiliateExceptions: DefaultAffiliateExceptions(),
		BlockMessages:       DefaultBlockMessages(),
	}
}
