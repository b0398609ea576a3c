package models

import (
	"fmt"
	"time"
)

// Collection names a sub-collection of the aggregate
type Collection string

const (
	CollectionBlockedCountries    Collection = "blockedCountries"
	CollectionTimeRestrictions    Collection = "timeRestrictions"
	CollectionAffiliateExceptions Collection = "affiliateExceptions"
	CollectionBlockMessages       Collection = "blockMessages"
	// CollectionAll marks a wholesale save of the aggregate
	CollectionAll Collection = "all"
)

// Collections lists the four sub-collections
var Collections = []Collection{
	CollectionBlockedCountries,
	CollectionTimeRestrictions,
	CollectionAffiliateExceptions,
	CollectionBlockMessages,
}

// SettingsChange is emitted after every successful write
type SettingsChange struct {
	Collection Collection           `json:"collection"`
	Settings   *GeoBlockingSettings `json:"settings"`
	At         time.Time            `json:"at"`
}

// StoredValue is one key-value record as kept by document and table backends
type StoredValue struct {
	Key       string    `bson:"_id" json:"key"`
	Value     string    `bson:"value" json:"value"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// CollectionData extracts one collection from the aggregate
func CollectionData(s *GeoBlockingSettings, col Collection) (interface{}, error) {
	switch col {
	case CollectionBlockedCountries:
		return s.BlockedCountries, nil
	case CollectionTimeRestrictions:
		return s.TimeRestrictions, nil
	case CollectionAffiliateExceptions:
		return s.AffiliateExceptions, nil
	case CollectionBlockMessages:
		return s.BlockMessages, nil
	case CollectionAll:
		return s, nil
	default:
		return nil, fmt.Errorf("unknown collection %q", col)
	}
}
