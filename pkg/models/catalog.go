package models

import "strings"

// CatalogEntry is a code/name pair of a static catalog
type CatalogEntry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Countries is the fixed country catalog (ISO 3166-1 alpha-2), ordered by name
var Countries = []CatalogEntry{
	{"AF", "Afghanistan"}, {"AX", "Åland Islands"}, {"AL", "Albania"}, {"DZ", "Algeria"},
	{"AS", "American Samoa"}, {"AD", "Andorra"}, {"AO", "Angola"}, {"AI", "Anguilla"},
	{"AQ", "Antarctica"}, {"AG", "Antigua and Barbuda"}, {"AR", "Argentina"}, {"AM", "Armenia"},
	{"AW", "Aruba"}, {"AU", "Australia"}, {"AT", "Austria"}, {"AZ", "Azerbaijan"},
	{"BS", "Bahamas"}, {"BH", "Bahrain"}, {"BD", "Bangladesh"}, {"BB", "Barbados"},
	{"BY", "Belarus"}, {"BE", "Belgium"}, {"BZ", "Belize"}, {"BJ", "Benin"},
	{"BM", "Bermuda"}, {"BT", "Bhutan"}, {"BO", "Bolivia"}, {"BQ", "Bonaire, Sint Eustatius and Saba"},
	{"BA", "Bosnia and Herzegovina"}, {"BW", "Botswana"}, {"BV", "Bouvet Island"}, {"BR", "Brazil"},
	{"IO", "British Indian Ocean Territory"}, {"BN", "Brunei Darussalam"}, {"BG", "Bulgaria"}, {"BF", "Burkina Faso"},
	{"BI", "Burundi"}, {"CV", "Cabo Verde"}, {"KH", "Cambodia"}, {"CM", "Cameroon"},
	{"CA", "Canada"}, {"KY", "Cayman Islands"}, {"CF", "Central African Republic"}, {"TD", "Chad"},
	{"CL", "Chile"}, {"CN", "China"}, {"CX", "Christmas Island"}, {"CC", "Cocos (Keeling) Islands"},
	{"CO", "Colombia"}, {"KM", "Comoros"}, {"CG", "Congo"}, {"CD", "Congo, Democratic Republic of the"},
	{"CK", "Cook Islands"}, {"CR", "Costa Rica"}, {"CI", "Côte d'Ivoire"}, {"HR", "Croatia"},
	{"CU", "Cuba"}, {"CW", "Curaçao"}, {"CY", "Cyprus"}, {"CZ", "Czechia"},
	{"DK", "Denmark"}, {"DJ", "Djibouti"}, {"DM", "Dominica"}, {"DO", "Dominican Republic"},
	{"EC", "Ecuador"}, {"EG", "Egypt"}, {"SV", "El Salvador"}, {"GQ", "Equatorial Guinea"},
	{"ER", "Eritrea"}, {"EE", "Estonia"}, {"SZ", "Eswatini"}, {"ET", "Ethiopia"},
	{"FK", "Falkland Islands (Malvinas)"}, {"FO", "Faroe Islands"}, {"FJ", "Fiji"}, {"FI", "Finland"},
	{"FR", "France"}, {"GF", "French Guiana"}, {"PF", "French Polynesia"}, {"TF", "French Southern Territories"},
	{"GA", "Gabon"}, {"GM", "Gambia"}, {"GE", "Georgia"}, {"DE", "Germany"},
	{"GH", "Ghana"}, {"GI", "Gibraltar"}, {"GR", "Greece"}, {"GL", "Greenland"},
	{"GD", "Grenada"}, {"GP", "Guadeloupe"}, {"GU", "Guam"}, {"GT", "Guatemala"},
	{"GG", "Guernsey"}, {"GN", "Guinea"}, {"GW", "Guinea-Bissau"}, {"GY", "Guyana"},
	{"HT", "Haiti"}, {"HM", "Heard Island and McDonald Islands"}, {"VA", "Holy See"}, {"HN", "Honduras"},
	{"HK", "Hong Kong"}, {"HU", "Hungary"}, {"IS", "Iceland"}, {"IN", "India"},
	{"ID", "Indonesia"}, {"IR", "Iran"}, {"IQ", "Iraq"}, {"IE", "Ireland"},
	{"IM", "Isle of Man"}, {"IL", "Israel"}, {"IT", "Italy"}, {"JM", "Jamaica"},
	{"JP", "Japan"}, {"JE", "Jersey"}, {"JO", "Jordan"}, {"KZ", "Kazakhstan"},
	{"KE", "Kenya"}, {"KI", "Kiribati"}, {"KP", "Korea, Democratic People's Republic of"}, {"KR", "Korea, Republic of"},
	{"KW", "Kuwait"}, {"KG", "Kyrgyzstan"}, {"LA", "Lao People's Democratic Republic"}, {"LV", "Latvia"},
	{"LB", "Lebanon"}, {"LS", "Lesotho"}, {"LR", "Liberia"}, {"LY", "Libya"},
	{"LI", "Liechtenstein"}, {"LT", "Lithuania"}, {"LU", "Luxembourg"}, {"MO", "Macao"},
	{"MG", "Madagascar"}, {"MW", "Malawi"}, {"MY", "Malaysia"}, {"MV", "Maldives"},
	{"ML", "Mali"}, {"MT", "Malta"}, {"MH", "Marshall Islands"}, {"MQ", "Martinique"},
	{"MR", "Mauritania"}, {"MU", "Mauritius"}, {"YT", "Mayotte"}, {"MX", "Mexico"},
	{"FM", "Micronesia"}, {"MD", "Moldova"}, {"MC", "Monaco"}, {"MN", "Mongolia"},
	{"ME", "Montenegro"}, {"MS", "Montserrat"}, {"MA", "Morocco"}, {"MZ", "Mozambique"},
	{"MM", "Myanmar"}, {"NA", "Namibia"}, {"NR", "Nauru"}, {"NP", "Nepal"},
	{"NL", "Netherlands"}, {"NC", "New Caledonia"}, {"NZ", "New Zealand"}, {"NI", "Nicaragua"},
	{"NE", "Niger"}, {"NG", "Nigeria"}, {"NU", "Niue"}, {"NF", "Norfolk Island"},
	{"MK", "North Macedonia"}, {"MP", "Northern Mariana Islands"}, {"NO", "Norway"}, {"OM", "Oman"},
	{"PK", "Pakistan"}, {"PW", "Palau"}, {"PS", "Palestine, State of"}, {"PA", "Panama"},
	{"PG", "Papua New Guinea"}, {"PY", "Paraguay"}, {"PE", "Peru"}, {"PH", "Philippines"},
	{"PN", "Pitcairn"}, {"PL", "Poland"}, {"PT", "Portugal"}, {"PR", "Puerto Rico"},
	{"QA", "Qatar"}, {"RE", "Réunion"}, {"RO", "Romania"}, {"RU", "Russian Federation"},
	{"RW", "Rwanda"}, {"BL", "Saint Barthélemy"}, {"SH", "Saint Helena, Ascension and Tristan da Cunha"}, {"KN", "Saint Kitts and Nevis"},
	{"LC", "Saint Lucia"}, {"MF", "Saint Martin (French part)"}, {"PM", "Saint Pierre and Miquelon"}, {"VC", "Saint Vincent and the Grenadines"},
	{"WS", "Samoa"}, {"SM", "San Marino"}, {"ST", "Sao Tome and Principe"}, {"SA", "Saudi Arabia"},
	{"SN", "Senegal"}, {"RS", "Serbia"}, {"SC", "Seychelles"}, {"SL", "Sierra Leone"},
	{"SG", "Singapore"}, {"SX", "Sint Maarten (Dutch part)"}, {"SK", "Slovakia"}, {"SI", "Slovenia"},
	{"SB", "Solomon Islands"}, {"SO", "Somalia"}, {"ZA", "South Africa"}, {"GS", "South Georgia and the South Sandwich Islands"},
	{"SS", "South Sudan"}, {"ES", "Spain"}, {"LK", "Sri Lanka"}, {"SD", "Sudan"},
	{"SR", "Suriname"}, {"SJ", "Svalbard and Jan Mayen"}, {"SE", "Sweden"}, {"CH", "Switzerland"},
	{"SY", "Syrian Arab Republic"}, {"TW", "Taiwan"}, {"TJ", "Tajikistan"}, {"TZ", "Tanzania"},
	{"TH", "Thailand"}, {"TL", "Timor-Leste"}, {"TG", "Togo"}, {"TK", "Tokelau"},
	{"TO", "Tonga"}, {"TT", "Trinidad and Tobago"}, {"TN", "Tunisia"}, {"TR", "Türkiye"},
	{"TM", "Turkmenistan"}, {"TC", "Turks and Caicos Islands"}, {"TV", "Tuvalu"}, {"UG", "Uganda"},
	{"UA", "Ukraine"}, {"AE", "United Arab Emirates"}, {"GB", "United Kingdom"}, {"US", "United States"},
	{"UM", "United States Minor Outlying Islands"}, {"UY", "Uruguay"}, {"UZ", "Uzbekistan"}, {"VU", "Vanuatu"},
	{"VE", "Venezuela"}, {"VN", "Viet Nam"}, {"VG", "Virgin Islands (British)"}, {"VI", "Virgin Islands (U.S.)"},
	{"WF", "Wallis and Futuna"}, {"EH", "Western Sahara"}, {"YE", "Yemen"}, {"ZM", "Zambia"},
	{"ZW", "Zimbabwe"},
}

// Languages are the languages a block message must exist for
var Languages = []CatalogEntry{
	{"en", "English"},
	{"es", "Español"},
	{"fr", "Français"},
	{"de", "Deutsch"},
	{"it", "Italiano"},
	{"pt", "Português"},
	{"nl", "Nederlands"},
	{"ru", "Русский"},
}

// Timezones are the zones offered when editing a time restriction
var Timezones = []CatalogEntry{
	{"Europe/Amsterdam", "Amsterdam (CET/CEST)"},
	{"Europe/London", "London (GMT/BST)"},
	{"Europe/Lisbon", "Lisbon (WET/WEST)"},
	{"Europe/Madrid", "Madrid (CET/CEST)"},
	{"Europe/Paris", "Paris (CET/CEST)"},
	{"Europe/Berlin", "Berlin (CET/CEST)"},
	{"Europe/Rome", "Rome (CET/CEST)"},
	{"Europe/Athens", "Athens (EET/EEST)"},
	{"Europe/Istanbul", "Istanbul (TRT)"},
	{"Europe/Moscow", "Moscow (MSK)"},
	{"Africa/Cairo", "Cairo (EET)"},
	{"Africa/Johannesburg", "Johannesburg (SAST)"},
	{"Africa/Lagos", "Lagos (WAT)"},
	{"Asia/Dubai", "Dubai (GST)"},
	{"Asia/Kolkata", "Kolkata (IST)"},
	{"Asia/Bangkok", "Bangkok (ICT)"},
	{"Asia/Singapore", "Singapore (SGT)"},
	{"Asia/Shanghai", "Shanghai (CST)"},
	{"Asia/Tokyo", "Tokyo (JST)"},
	{"Australia/Sydney", "Sydney (AEST/AEDT)"},
	{"Pacific/Auckland", "Auckland (NZST/NZDT)"},
	{"America/Sao_Paulo", "São Paulo (BRT)"},
	{"America/Buenos_Aires", "Buenos Aires (ART)"},
	{"America/Mexico_City", "Mexico City (CST)"},
	{"America/New_York", "New York (EST/EDT)"},
	{"America/Chicago", "Chicago (CST/CDT)"},
	{"America/Denver", "Denver (MST/MDT)"},
	{"America/Los_Angeles", "Los Angeles (PST/PDT)"},
	{"UTC", "Coordinated Universal Time (UTC)"},
}

// DefaultTimezone seeds new time restrictions
const DefaultTimezone = "Europe/Amsterdam"

// countryZones holds the primary IANA zone of a country; countries not listed
// fall back to a supported zone of the same region in SuggestTimezone.
var countryZones = map[string]string{
	"AT": "Europe/Vienna", "BE": "Europe/Brussels", "CH": "Europe/Zurich", "CZ": "Europe/Prague",
	"DE": "Europe/Berlin", "DK": "Europe/Copenhagen", "ES": "Europe/Madrid", "FI": "Europe/Helsinki",
	"FR": "Europe/Paris", "GB": "Europe/London", "GR": "Europe/Athens", "HU": "Europe/Budapest",
	"IE": "Europe/Dublin", "IT": "Europe/Rome", "LU": "Europe/Luxembourg", "NL": "Europe/Amsterdam",
	"NO": "Europe/Oslo", "PL": "Europe/Warsaw", "PT": "Europe/Lisbon", "RO": "Europe/Bucharest",
	"RU": "Europe/Moscow", "SE": "Europe/Stockholm", "TR": "Europe/Istanbul", "UA": "Europe/Kyiv",
	"BY": "Europe/Minsk", "RS": "Europe/Belgrade", "BG": "Europe/Sofia", "HR": "Europe/Zagreb",
	"EG": "Africa/Cairo", "ZA": "Africa/Johannesburg", "NG": "Africa/Lagos", "KE": "Africa/Nairobi",
	"MA": "Africa/Casablanca", "AE": "Asia/Dubai", "SA": "Asia/Riyadh", "IL": "Asia/Jerusalem",
	"IN": "Asia/Kolkata", "TH": "Asia/Bangkok", "SG": "Asia/Singapore", "CN": "Asia/Shanghai",
	"HK": "Asia/Hong_Kong", "JP": "Asia/Tokyo", "KR": "Asia/Seoul", "ID": "Asia/Jakarta",
	"PH": "Asia/Manila", "VN": "Asia/Ho_Chi_Minh", "MY": "Asia/Kuala_Lumpur", "PK": "Asia/Karachi",
	"AU": "Australia/Sydney", "NZ": "Pacific/Auckland", "BR": "America/Sao_Paulo", "AR": "America/Buenos_Aires",
	"MX": "America/Mexico_City", "US": "America/New_York", "CA": "America/Toronto", "CL": "America/Santiago",
	"CO": "America/Bogota", "PE": "America/Lima",
}

var (
	countryNames  = indexCatalog(Countries)
	languageNames = indexCatalog(Languages)
	timezoneNames = indexCatalog(Timezones)
)

func indexCatalog(entries []CatalogEntry) map[string]string {
	m := make(map[string]string, len(entries))
	for _, e := range entries {
		m[e.Code] = e.Name
	}
	return m
}

// CountryName returns the display name of a country code, or the code itself when unknown
func CountryName(code string) string {
	if name, ok := countryNames[code]; ok {
		return name
	}
	return code
}

// IsKnownCountry reports whether code belongs to the country catalog
func IsKnownCountry(code string) bool {
	_, ok := countryNames[code]
	return ok
}

// IsSupportedLanguage reports whether code belongs to the language catalog
func IsSupportedLanguage(code string) bool {
	_, ok := languageNames[code]
	return ok
}

// IsSupportedTimezone reports whether code is offered in the timezone catalog
func IsSupportedTimezone(code string) bool {
	_, ok := timezoneNames[code]
	return ok
}

// CountryCodes returns every catalog code in catalog order
func CountryCodes() []string {
	codes := make([]string, len(Countries))
	for i, c := range Countries {
		codes[i] = c.Code
	}
	return codes
}

// CountryList returns the full catalog with every country unblocked
func CountryList() []Country {
	list := make([]Country, len(Countries))
	for i, c := range Countries {
		list[i] = Country{Code: c.Code, Name: c.Name}
	}
	return list
}

// SuggestTimezone picks a supported zone for a country: its primary zone when supported,
// otherwise the first supported zone in the same region, otherwise current.
func SuggestTimezone(countryCode, current string) string {
	zone, ok := countryZones[countryCode]
	if !ok {
		return current
	}
	if IsSupportedTimezone(zone) {
		return zone
	}

	region, _, found := strings.Cut(zone, "/")
	if !found {
		return current
	}
	for _, tz := range Timezones {
		if strings.HasPrefix(tz.Code, region+"/") {
			return tz.Code
		}
	}
	return current
}
