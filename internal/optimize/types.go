// Package optimize wires the request/response envelope, the filter
// pipeline, and the two allocator-specific entry points (endpoint A and
// endpoint B) behind a single Service, sharing the travel-time
// provider, opening-hours evaluator, mood scorer, and day sequencer.
package optimize

import (
	"encoding/json"
	"strings"
)

// Request is the JSON body shared by both /optimize and /optimize-route.
type Request struct {
	POIList             []RawPOI                       `json:"poi_list"`
	UserMood            json.RawMessage                `json:"user_mood"`
	DurationDays        int                             `json:"duration_days"`
	CurrentLocation     RawLatLng                       `json:"current_location"`
	StartDatetime       string                          `json:"start_datetime"`
	ECSScoreThreshold   *float64                        `json:"ecs_score_threshold"`
	ETAMatrix           map[string]map[string]float64   `json:"eta_matrix"`
	ETAFromCurrent      map[string]float64              `json:"eta_from_current"`
	TravelMode          string                          `json:"travel_mode"`
	PoisPerDay          *int                             `json:"poi_per_day"`
}

// RawLatLng is the {lat, lng} wire shape.
type RawLatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RawOpeningPoint is one endpoint of a Google Places period.
type RawOpeningPoint struct {
	Day    *int `json:"day"`
	Hour   *int `json:"hour"`
	Minute *int `json:"minute"`
}

// RawPeriod is one Google Places opening period.
type RawPeriod struct {
	Open  RawOpeningPoint  `json:"open"`
	Close *RawOpeningPoint `json:"close"`
}

// RawOpeningHours covers every shape the upstream pipeline is known to
// emit for a POI's schedule.
type RawOpeningHours struct {
	Periods                 []RawPeriod `json:"periods"`
	RegularPeriods           []RawPeriod `json:"regularPeriods"`
	WeekdayDescriptions      []string    `json:"weekdayDescriptions"`
	WeekdayDescriptionsText  []string    `json:"weekdayDescriptionsText"`
}

func (h *RawOpeningHours) periods() []RawPeriod {
	if h == nil {
		return nil
	}
	if len(h.Periods) > 0 {
		return h.Periods
	}
	return h.RegularPeriods
}

func (h *RawOpeningHours) descriptions() []string {
	if h == nil {
		return nil
	}
	if len(h.WeekdayDescriptions) > 0 {
		return h.WeekdayDescriptions
	}
	return h.WeekdayDescriptionsText
}

// RawPOI is the wire shape of one candidate, tolerant of the id/type
// field aliases the upstream pipeline has used over time.
type RawPOI struct {
	GooglePlaceID           string           `json:"google_place_id"`
	ID                      string           `json:"id"`
	IDUnderscore            string           `json:"_id"`
	Name                    string           `json:"name"`
	Location                *RawLatLng       `json:"location"`
	EmotionalTags           map[string]float64 `json:"emotional_tags"`
	Function                string           `json:"function"`
	IncludeInDailyRoute     *bool            `json:"includeInDailyRoute"`
	Type                    string           `json:"type"`
	Types                   json.RawMessage  `json:"types"`
	OpeningHours            *RawOpeningHours `json:"opening_hours"`
	RegularOpeningHours     *RawOpeningHours `json:"regularOpeningHours"`
	OpeningHoursCamel       *RawOpeningHours `json:"openingHours"`
	WeekdayDescriptions     []string         `json:"weekdayDescriptions"`
	VisitDurationMinutes    *int             `json:"visit_duration_minutes"`
	EstimatedVisitMinutes   *int             `json:"estimated_visit_minutes"`
}

func (r RawPOI) id() string {
	switch {
	case r.GooglePlaceID != "":
		return r.GooglePlaceID
	case r.ID != "":
		return r.ID
	default:
		return r.IDUnderscore
	}
}

func (r RawPOI) types() []string {
	var out []string
	if r.Type != "" {
		out = append(out, strings.ToLower(r.Type))
	}
	if len(r.Types) > 0 {
		var asString string
		if err := json.Unmarshal(r.Types, &asString); err == nil {
			if asString != "" {
				out = append(out, strings.ToLower(asString))
			}
		} else {
			var asList []string
			if err := json.Unmarshal(r.Types, &asList); err == nil {
				for _, t := range asList {
					if t != "" {
						out = append(out, strings.ToLower(t))
					}
				}
			}
		}
	}
	return dedupe(out)
}

func (r RawPOI) openingHours() *RawOpeningHours {
	if r.OpeningHours != nil {
		return r.OpeningHours
	}
	if r.RegularOpeningHours != nil {
		return r.RegularOpeningHours
	}
	if r.OpeningHoursCamel != nil {
		return r.OpeningHoursCamel
	}
	return nil
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

