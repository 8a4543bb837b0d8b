package geo

// africanCountries lists the ISO 3166-1 alpha-2 codes the storefront
// treats as its home region for delivery estimates.
var africanCountries = map[string]struct{}{
	"BJ": {}, "BF": {}, "CI": {}, "CM": {}, "CV": {}, "DZ": {}, "EG": {},
	"ET": {}, "GH": {}, "GM": {}, "GN": {}, "KE": {}, "LR": {}, "MA": {},
	"ML": {}, "MR": {}, "MZ": {}, "NA": {}, "NE": {}, "NG": {}, "RW": {},
	"SL": {}, "SN": {}, "TG": {}, "TN": {}, "TZ": {}, "UG": {}, "ZA": {},
	"ZM": {}, "ZW": {},
}

// IsAfrican reports whether countryCode is in the home delivery region.
func IsAfrican(countryCode string) bool {
	_, ok := africanCountries[countryCode]
	return ok
}

// Region buckets a country into the coarse shipping region the frontend
// shows on product pages.
func Region(countryCode string) string {
	switch {
	case countryCode == "NG":
		return "domestic"
	case IsAfrican(countryCode):
		return "regional"
	default:
		return "international"
	}
}
