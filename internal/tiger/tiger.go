// Package tiger downloads Census TIGER/Line tract shapefiles and narrows them
// to a single county.
package tiger

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultBaseURL is the Census Bureau TIGER/Line root.
const DefaultBaseURL = "https://www2.census.gov/geo/tiger"

// FIPSCodes maps state abbreviation to 2-digit FIPS code for all 50 states + DC.
var FIPSCodes = map[string]string{
	"AL": "01", "AK": "02", "AZ": "04", "AR": "05", "CA": "06",
	"CO": "08", "CT": "09", "DE": "10", "DC": "11", "FL": "12",
	"GA": "13", "HI": "15", "ID": "16", "IL": "17", "IN": "18",
	"IA": "19", "KS": "20", "KY": "21", "LA": "22", "ME": "23",
	"MD": "24", "MA": "25", "MI": "26", "MN": "27", "MS": "28",
	"MO": "29", "MT": "30", "NE": "31", "NV": "32", "NH": "33",
	"NJ": "34", "NM": "35", "NY": "36", "NC": "37", "ND": "38",
	"OH": "39", "OK": "40", "OR": "41", "PA": "42", "RI": "44",
	"SC": "45", "SD": "46", "TN": "47", "TX": "48", "UT": "49",
	"VT": "50", "VA": "51", "WA": "53", "WV": "54", "WI": "55",
	"WY": "56",
}

// StateFIPS resolves a state abbreviation or a 2-digit FIPS code.
func StateFIPS(state string) (string, bool) {
	state = strings.ToUpper(strings.TrimSpace(state))
	if fips, ok := FIPSCodes[state]; ok {
		return fips, true
	}
	for _, fips := range FIPSCodes {
		if fips == state {
			return fips, true
		}
	}
	return "", false
}

// AllStateAbbrs returns a sorted list of state abbreviations (50 states + DC).
func AllStateAbbrs() []string {
	abbrs := make([]string, 0, len(FIPSCodes))
	for abbr := range FIPSCodes {
		abbrs = append(abbrs, abbr)
	}
	sort.Strings(abbrs)
	return abbrs
}

// TractURL builds the download URL for a state's tract shapefile:
// {base}/TIGER{year}/TRACT/tl_{year}_{fips}_tract.zip.
func TractURL(baseURL string, year int, stateFIPS string) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return fmt.Sprintf("%s/TIGER%d/TRACT/tl_%d_%s_tract.zip",
		strings.TrimRight(baseURL, "/"), year, year, stateFIPS)
}

// CountyFIPS left-pads a county code to 3 digits ("101" for Philadelphia).
func CountyFIPS(county string) string {
	county = strings.TrimSpace(county)
	if county == "" || len(county) >= 3 {
		return county
	}
	return strings.Repeat("0", 3-len(county)) + county
}
