package optimize

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/tourflow/optimizer/internal/poi"
)

// ToPOI converts the wire representation into the internal model,
// resolving every field alias and the opening-hours fallback chain
// (opening_hours > regularOpeningHours > openingHours > top-level
// weekdayDescriptions > absent).
func (r RawPOI) ToPOI() poi.POI {
	p := poi.POI{
		ID:                    r.id(),
		Name:                  r.Name,
		EmotionalTags:         r.EmotionalTags,
		Function:              poi.Function(strings.ToUpper(strings.TrimSpace(r.Function))),
		Types:                 r.types(),
		VisitDurationMin:      intOrZero(r.VisitDurationMinutes),
		EstimatedVisitMin:     intOrZero(r.EstimatedVisitMinutes),
	}
	if r.Location != nil {
		p.Location = poi.Location{Lat: r.Location.Lat, Lng: r.Location.Lng}
		p.HasLocation = true
	}
	if r.IncludeInDailyRoute != nil {
		p.HasIncludeFlag = true
		p.IncludeInDailyRoute = *r.IncludeInDailyRoute
	}
	p.Hours = decodeHours(r)
	return p
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// decodeHours implements the resolution order of is_poi_open_at_datetime
// in the original service: a structured opening_hours-shaped object
// (opening_hours, then regularOpeningHours, then openingHours) takes
// priority, using its periods, else its descriptions, else marking the
// hours opaque; a bare top-level weekdayDescriptions list is used only
// when no such object is present; otherwise the POI carries no schedule
// data.
func decodeHours(r RawPOI) poi.OpeningHours {
	if oh := r.openingHours(); oh != nil {
		if periods := oh.periods(); len(periods) > 0 {
			converted := make([]poi.Period, 0, len(periods))
			for _, raw := range periods {
				if p, ok := convertPeriod(raw); ok {
					converted = append(converted, p)
				}
			}
			if len(converted) > 0 {
				return poi.OpeningHours{Kind: poi.HoursPeriods, Periods: converted}
			}
		}
		if desc := oh.descriptions(); len(desc) > 0 {
			return poi.OpeningHours{Kind: poi.HoursDescriptions, Descriptions: desc}
		}
		return poi.OpeningHours{Kind: poi.HoursOpaque}
	}
	if len(r.WeekdayDescriptions) > 0 {
		return poi.OpeningHours{Kind: poi.HoursDescriptions, Descriptions: r.WeekdayDescriptions}
	}
	return poi.OpeningHours{Kind: poi.HoursAbsent}
}

// convertPeriod maps a Google Places period (weekday convention
// 0=Sunday..6=Saturday) to the internal Mon=0..Sun=6 convention. Returns
// ok=false when neither endpoint carries a day, mirroring the original
// service's skip-if-both-days-missing behavior.
func convertPeriod(raw RawPeriod) (poi.Period, bool) {
	haveOpenDay := raw.Open.Day != nil
	haveCloseDay := raw.Close != nil && raw.Close.Day != nil
	if !haveOpenDay && !haveCloseDay {
		return poi.Period{}, false
	}

	var openDay int
	switch {
	case haveOpenDay:
		openDay = convertGoogleDay(*raw.Open.Day)
	case haveCloseDay:
		openDay = convertGoogleDay(*raw.Close.Day)
	}

	p := poi.Period{OpenDay: openDay}
	if raw.Open.Hour != nil {
		p.OpenHour = *raw.Open.Hour
	}
	if raw.Open.Minute != nil {
		p.OpenMinute = *raw.Open.Minute
	}
	if haveCloseDay {
		p.HasClose = true
		p.CloseDay = convertGoogleDay(*raw.Close.Day)
	}
	if raw.Close != nil && raw.Close.Hour != nil {
		p.HasCloseHour = true
		p.CloseHour = *raw.Close.Hour
		if raw.Close.Minute != nil {
			p.CloseMinute = *raw.Close.Minute
		}
	}
	return p, true
}

// convertGoogleDay maps Google Places' 0=Sunday..6=Saturday to the
// internal Mon=0..Sun=6 convention.
func convertGoogleDay(googleDay int) int {
	return (googleDay + 6) % 7
}

// DecodeMoods normalizes user_mood, accepted as either a single string
// or a list of strings. Empty entries are dropped.
func DecodeMoods(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		if single == "" {
			return nil
		}
		return []string{single}
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		out := make([]string, 0, len(list))
		for _, m := range list {
			if m != "" {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

var startDatetimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseStartDatetime parses the caller's local-time string, tolerating a
// trailing "Z" or "+…" timezone suffix by discarding it — the service
// treats the timestamp as already being in the caller's local time.
// Returns ok=false on any unparseable or empty input, in which case the
// caller falls back to the current instant.
func ParseStartDatetime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	s = strings.TrimSuffix(s, "Z")
	if idx := strings.Index(s, "+"); idx > 0 {
		s = s[:idx]
	}

	for _, layout := range startDatetimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
