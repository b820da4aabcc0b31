package matching

import "strings"

var cityAbbreviations = map[string]string{
	"NEW YORK":      "NY",
	"NEW YORK CITY": "NY",
	"LOS ANGELES":   "LA",
	"CHICAGO":       "CHI",
	"DALLAS":        "DFW",
	"HOUSTON":       "HOU",
	"PHILADELPHIA":  "PHL",
	"PHOENIX":       "PHX",
	"SAN ANTONIO":   "SAT",
	"SAN DIEGO":     "SAN",
}

// similarCity compares the city part of two stop strings, ignoring case and
// the state/zip suffix. Known abbreviations count as the same city.
func similarCity(a, b string) bool {
	ca := cityPart(normalizeCity(a))
	cb := cityPart(normalizeCity(b))
	if ca == "" || cb == "" {
		return false
	}
	return ca == cb || abbreviate(ca) == abbreviate(cb)
}

// abbreviate returns the short code for a known city, or the city itself.
func abbreviate(city string) string {
	if abbr, ok := cityAbbreviations[city]; ok {
		return abbr
	}
	return city
}

func normalizeCity(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func cityPart(s string) string {
	city, _, _ := strings.Cut(s, ",")
	return strings.TrimSpace(city)
}
