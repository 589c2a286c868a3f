package models

import "strings"

// Region codes are the fixed pricing buckets a creator can declare regional
// fees for. They intentionally stay coarse; per-country pricing is out of
// scope for regional_fee elections.
const (
	RegionNorthAmerica  = "north_america"
	RegionSouthAmerica  = "south_america"
	RegionWesternEurope = "western_europe"
	RegionEasternEurope = "eastern_europe"
	RegionMiddleEast    = "middle_east"
	RegionAfrica        = "africa"
	RegionCentralAsia   = "central_asia"
	RegionSouthAsia     = "south_asia"
	RegionEastAsia      = "east_asia"
	RegionSoutheastAsia = "southeast_asia"
	RegionOceania       = "oceania"
)

// countryRegions maps ISO-3166 alpha-2 country codes to pricing regions.
var countryRegions = map[string]string{
	// North America
	"US": RegionNorthAmerica, "CA": RegionNorthAmerica, "MX": RegionNorthAmerica,
	"GT": RegionNorthAmerica, "BZ": RegionNorthAmerica, "SV": RegionNorthAmerica,
	"HN": RegionNorthAmerica, "NI": RegionNorthAmerica, "CR": RegionNorthAmerica,
	"PA": RegionNorthAmerica, "CU": RegionNorthAmerica, "DO": RegionNorthAmerica,
	"HT": RegionNorthAmerica, "JM": RegionNorthAmerica, "TT": RegionNorthAmerica,
	"BS": RegionNorthAmerica, "BB": RegionNorthAmerica,

	// South America
	"BR": RegionSouthAmerica, "AR": RegionSouthAmerica, "CL": RegionSouthAmerica,
	"CO": RegionSouthAmerica, "PE": RegionSouthAmerica, "VE": RegionSouthAmerica,
	"EC": RegionSouthAmerica, "BO": RegionSouthAmerica, "PY": RegionSouthAmerica,
	"UY": RegionSouthAmerica, "GY": RegionSouthAmerica, "SR": RegionSouthAmerica,

	// Western Europe
	"GB": RegionWesternEurope, "IE": RegionWesternEurope, "FR": RegionWesternEurope,
	"DE": RegionWesternEurope, "NL": RegionWesternEurope, "BE": RegionWesternEurope,
	"LU": RegionWesternEurope, "CH": RegionWesternEurope, "AT": RegionWesternEurope,
	"ES": RegionWesternEurope, "PT": RegionWesternEurope, "IT": RegionWesternEurope,
	"DK": RegionWesternEurope, "NO": RegionWesternEurope, "SE": RegionWesternEurope,
	"FI": RegionWesternEurope, "IS": RegionWesternEurope, "MT": RegionWesternEurope,
	"GR": RegionWesternEurope, "CY": RegionWesternEurope, "MC": RegionWesternEurope,

	// Eastern Europe
	"PL": RegionEasternEurope, "CZ": RegionEasternEurope, "SK": RegionEasternEurope,
	"HU": RegionEasternEurope, "RO": RegionEasternEurope, "BG": RegionEasternEurope,
	"HR": RegionEasternEurope, "SI": RegionEasternEurope, "RS": RegionEasternEurope,
	"BA": RegionEasternEurope, "ME": RegionEasternEurope, "MK": RegionEasternEurope,
	"AL": RegionEasternEurope, "EE": RegionEasternEurope, "LV": RegionEasternEurope,
	"LT": RegionEasternEurope, "BY": RegionEasternEurope, "UA": RegionEasternEurope,
	"MD": RegionEasternEurope, "RU": RegionEasternEurope, "GE": RegionEasternEurope,
	"AM": RegionEasternEurope, "AZ": RegionEasternEurope,

	// Middle East
	"TR": RegionMiddleEast, "SA": RegionMiddleEast, "AE": RegionMiddleEast,
	"QA": RegionMiddleEast, "KW": RegionMiddleEast, "BH": RegionMiddleEast,
	"OM": RegionMiddleEast, "YE": RegionMiddleEast, "IQ": RegionMiddleEast,
	"IR": RegionMiddleEast, "IL": RegionMiddleEast, "JO": RegionMiddleEast,
	"LB": RegionMiddleEast, "SY": RegionMiddleEast, "PS": RegionMiddleEast,

	// Africa
	"EG": RegionAfrica, "LY": RegionAfrica, "TN": RegionAfrica, "DZ": RegionAfrica,
	"MA": RegionAfrica, "SD": RegionAfrica, "SS": RegionAfrica, "ET": RegionAfrica,
	"ER": RegionAfrica, "DJ": RegionAfrica, "SO": RegionAfrica, "KE": RegionAfrica,
	"UG": RegionAfrica, "TZ": RegionAfrica, "RW": RegionAfrica, "BI": RegionAfrica,
	"NG": RegionAfrica, "GH": RegionAfrica, "CI": RegionAfrica, "SN": RegionAfrica,
	"ML": RegionAfrica, "BF": RegionAfrica, "NE": RegionAfrica, "TD": RegionAfrica,
	"CM": RegionAfrica, "GA": RegionAfrica, "CG": RegionAfrica, "CD": RegionAfrica,
	"AO": RegionAfrica, "ZM": RegionAfrica, "ZW": RegionAfrica, "MW": RegionAfrica,
	"MZ": RegionAfrica, "MG": RegionAfrica, "ZA": RegionAfrica, "NA": RegionAfrica,
	"BW": RegionAfrica, "LS": RegionAfrica, "SZ": RegionAfrica, "GM": RegionAfrica,
	"GN": RegionAfrica, "SL": RegionAfrica, "LR": RegionAfrica, "TG": RegionAfrica,
	"BJ": RegionAfrica, "MR": RegionAfrica, "MU": RegionAfrica,

	// Central Asia
	"KZ": RegionCentralAsia, "UZ": RegionCentralAsia, "TM": RegionCentralAsia,
	"KG": RegionCentralAsia, "TJ": RegionCentralAsia, "MN": RegionCentralAsia,
	"AF": RegionCentralAsia,

	// South Asia
	"IN": RegionSouthAsia, "PK": RegionSouthAsia, "BD": RegionSouthAsia,
	"LK": RegionSouthAsia, "NP": RegionSouthAsia, "BT": RegionSouthAsia,
	"MV": RegionSouthAsia,

	// East Asia
	"CN": RegionEastAsia, "JP": RegionEastAsia, "KR": RegionEastAsia,
	"KP": RegionEastAsia, "TW": RegionEastAsia, "HK": RegionEastAsia,
	"MO": RegionEastAsia,

	// Southeast Asia
	"ID": RegionSoutheastAsia, "MY": RegionSoutheastAsia, "SG": RegionSoutheastAsia,
	"TH": RegionSoutheastAsia, "VN": RegionSoutheastAsia, "PH": RegionSoutheastAsia,
	"MM": RegionSoutheastAsia, "KH": RegionSoutheastAsia, "LA": RegionSoutheastAsia,
	"BN": RegionSoutheastAsia, "TL": RegionSoutheastAsia,

	// Oceania
	"AU": RegionOceania, "NZ": RegionOceania, "PG": RegionOceania,
	"FJ": RegionOceania, "SB": RegionOceania, "VU": RegionOceania,
	"WS": RegionOceania, "TO": RegionOceania,
}

// RegionForCountry maps an ISO-3166 alpha-2 country code to its pricing
// region. Lookup is case-insensitive.
func RegionForCountry(country string) (string, bool) {
	region, ok := countryRegions[strings.ToUpper(strings.TrimSpace(country))]
	return region, ok
}
