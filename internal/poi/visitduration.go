package poi

import "strings"

// visitDurationByType mirrors the upstream data pipeline's lookup
// table; keys are lower-cased POI types.
var visitDurationByType = map[string]int{
	"museum":           90,
	"art_gallery":      90,
	"historical":       120,
	"cultural_center":  90,
	"park":             60,
	"natural_feature":  90,
	"scenic":           75,
	"hiking_area":      120,
	"church":           45,
	"temple":           45,
	"place_of_worship": 45,
	"spiritual":        45,
	"tourist_attraction": 75,
	"point_of_interest":  60,
	"landmark":           60,
	"shopping_mall":      90,
	"market":             60,
	"store":              45,
	"amusement_park":     180,
	"zoo":                120,
	"aquarium":           120,
	"beach":              120,
	"seaside":            120,
	"cafe":               45,
	"coffee_shop":        45,
	"bar":                60,
	"restaurant":         60,
	"food":               60,
}

const defaultVisitDurationMinutes = 120

// EstimatedVisitDuration returns the estimated visit duration in
// minutes, via a priority chain: explicit visit_duration_minutes, then
// estimated_visit_minutes, then a type-keyed lookup, then a category
// heuristic, then a fixed default.
func (p POI) EstimatedVisitDuration() int {
	if p.VisitDurationMin > 0 {
		return p.VisitDurationMin
	}
	if p.EstimatedVisitMin > 0 {
		return p.EstimatedVisitMin
	}

	types := p.TypesLower()
	for _, t := range types {
		if d, ok := visitDurationByType[t]; ok {
			return d
		}
	}

	if containsAny(types, "museum", "art_gallery", "historical", "cultural") {
		return 90
	}
	if containsAny(types, "park", "natural", "scenic", "beach", "seaside") {
		return 75
	}
	if containsAny(types, "church", "temple", "spiritual", "place_of_worship") {
		return 45
	}
	if containsAny(types, "shopping", "market", "store") {
		return 60
	}

	return defaultVisitDurationMinutes
}

// containsAny reports whether any type in haystack contains any of the
// needle substrings (category heuristic matches by substring in the
// original source, e.g. "natural_feature" contains "natural").
func containsAny(haystack []string, needles ...string) bool {
	for _, h := range haystack {
		for _, n := range needles {
			if strings.Contains(h, n) {
				return true
			}
		}
	}
	return false
}
