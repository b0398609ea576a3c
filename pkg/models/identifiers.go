package models

import (
	"regexp"
	"strings"
)

var (
	emailPattern       = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	affiliateIDPattern = regexp.MustCompile(`^[A-Z0-9]+$`)
)

// ClassifyIdentifier trims raw and decides its type. Emails win over IDs;
// anything matching neither pattern is rejected with ErrInvalidIdentifier.
func ClassifyIdentifier(raw string) (AffiliateIdentifier, error) {
	value := strings.TrimSpace(raw)
	switch {
	case value == "":
		return AffiliateIdentifier{}, wrapValidation("identifier", ErrInvalidIdentifier)
	case emailPattern.MatchString(value):
		return AffiliateIdentifier{Value: value, Type: IdentifierTypeEmail}, nil
	case affiliateIDPattern.MatchString(value):
		return AffiliateIdentifier{Value: value, Type: IdentifierTypeID}, nil
	default:
		return AffiliateIdentifier{}, wrapValidation("identifier", ErrInvalidIdentifier)
	}
}

// HasIdentifier reports whether value is already present, ignoring case
func HasIdentifier(ids []AffiliateIdentifier, value string) bool {
	for _, id := range ids {
		if strings.EqualFold(id.Value, value) {
			return true
		}
	}
	return false
}
