package models

// Country is one entry of the fixed country catalog with its blocked flag
type Country struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Blocked bool   `json:"blocked"`
}

// TimeRestriction denies access during a daily window on the selected weekdays.
// An empty Countries list applies the window to every country.
type TimeRestriction struct {
	ID        string    `json:"id"`
	Countries []string  `json:"countries"`
	StartTime string    `json:"startTime"` // "HH:MM"
	EndTime   string    `json:"endTime"`   // "HH:MM"
	Days      []Weekday `json:"days"`
	Timezone  string    `json:"timezone"`
	Enabled   bool      `json:"enabled"`
}

// IdentifierType discriminates affiliate identifiers
type IdentifierType string

const (
	IdentifierTypeID    IdentifierType = "id"
	IdentifierTypeEmail IdentifierType = "email"
)

// AffiliateIdentifier is an affiliate ID or email matched against incoming traffic
type AffiliateIdentifier struct {
	Value string         `json:"value"`
	Type  IdentifierType `json:"type"`
}

// BypassRestrictions selects which restriction kinds an exception lifts
type BypassRestrictions struct {
	GeoBlocking      bool `json:"geoBlocking"`
	TimeRestrictions bool `json:"timeRestrictions"`
}

// AffiliateException lets matched affiliates bypass geo and/or time blocking.
// An empty Countries list means the exception applies globally.
type AffiliateException struct {
	ID                 string                `json:"id"`
	Identifiers        []AffiliateIdentifier `json:"identifiers"`
	BypassRestrictions BypassRestrictions    `json:"bypassRestrictions"`
	Enabled            bool                  `json:"enabled"`
	Countries          []string              `json:"countries"`
}

// BlockMessage is the page content shown to blocked users for one language
type BlockMessage struct {
	Language          string `json:"language"`
	Message           string `json:"message"`
	ShowContactButton bool   `json:"showContactButton"`
	ShowSocialLinks   bool   `json:"showSocialLinks"`
}

// GeoBlockingSettings is the settings aggregate, loaded and saved wholesale
type GeoBlockingSettings struct {
	BlockedCountries    []Country            `json:"blockedCountries"`
	TimeRestrictions    []TimeRestriction    `json:"timeRestrictions"`
	AffiliateExceptions []AffiliateException `json:"affiliateExceptions"`
	BlockMessages       []BlockMessage       `json:"blockMessages"`
}

// Clone returns a deep copy so working copies never alias the persisted aggregate
func (s *GeoBlockingSettings) Clone() *GeoBlockingSettings {
	if s == nil {
		return nil
	}
	return &GeoBlockingSettings{
		BlockedCountries:    CloneCountries(s.BlockedCountries),
		TimeRestrictions:    CloneTimeRestrictions(s.TimeRestrictions),
		AffiliateExceptions: CloneAffiliateExceptions(s.AffiliateExceptions),
		BlockMessages:       CloneBlockMessages(s.BlockMessages),
	}
}

// BlockedCount returns how many countries are currently blocked
func (s *GeoBlockingSettings) BlockedCount() int {
	n := 0
	for _, c := range s.BlockedCountries {
		if c.Blocked {
			n++
		}
	}
	return n
}

// Summary holds the dashboard counters for one aggregate
type Summary struct {
	BlockedCountries    int `json:"blockedCountries"`
	TotalCountries      int `json:"totalCountries"`
	TimeRestrictions    int `json:"activeTimeRestrictions"`
	AffiliateExceptions int `json:"activeAffiliateExceptions"`
}

// Summarize counts blocked countries against the catalog and the enabled
// time restrictions and affiliate exceptions.
func Summarize(s *GeoBlockingSettings) Summary {
	sum := Summary{
		BlockedCountries: s.BlockedCount(),
		TotalCountries:   len(Countries),
	}
	for _, r := range s.TimeRestrictions {
		if r.Enabled {
			sum.TimeRestrictions++
		}
	}
	for _, a := range s.AffiliateExceptions {
		if a.Enabled {
			sum.AffiliateExceptions++
		}
	}
	return sum
}

func CloneCountries(in []Country) []Country {
	out := make([]Country, len(in))
	copy(out, in)
	return out
}

func CloneTimeRestrictions(in []TimeRestriction) []TimeRestriction {
	out := make([]TimeRestriction, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}

func CloneAffiliateExceptions(in []AffiliateException) []AffiliateException {
	out := make([]AffiliateException, len(in))
	for i, a := range in {
		out[i] = a.Clone()
	}
	return out
}

func CloneBlockMessages(in []BlockMessage) []BlockMessage {
	out := make([]BlockMessage, len(in))
	copy(out, in)
	return out
}

// Clone returns a deep copy of the restriction
func (r TimeRestriction) Clone() TimeRestriction {
	r.Countries = cloneStrings(r.Countries)
	days := make([]Weekday, len(r.Days))
	copy(days, r.Days)
	r.Days = days
	return r
}

// Clone returns a deep copy of the exception
func (a AffiliateException) Clone() AffiliateException {
	ids := make([]AffiliateIdentifier, len(a.Identifiers))
	copy(ids, a.Identifiers)
	a.Identifiers = ids
	a.Countries = cloneStrings(a.Countries)
	return a
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
