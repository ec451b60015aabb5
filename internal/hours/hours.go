// Package hours implements the opening-hours evaluator: deciding
// whether a POI is open at a given instant, and finding the next
// instant at which it opens.
package hours

import (
	"strings"
	"time"

	"github.com/tourflow/optimizer/internal/poi"
)

// weekdayNameToIndex maps English weekday names to the internal
// Mon=0..Sun=6 convention.
var weekdayNameToIndex = map[string]int{
	"monday": 0, "tuesday": 1, "wednesday": 2, "thursday": 3,
	"friday": 4, "saturday": 5, "sunday": 6,
}

// vietnameseDayName maps the internal weekday index to its Vietnamese
// name, used to match weekdayDescriptions entries written in Vietnamese.
var vietnameseDayName = []string{
	"thứ hai", "thứ ba", "thứ tư", "thứ năm", "thứ sáu", "thứ bảy", "chủ nhật",
}

// internalWeekday converts Go's time.Weekday (Sun=0..Sat=6) to the
// internal Mon=0..Sun=6 convention.
func internalWeekday(t time.Time) int {
	wd := int(t.Weekday())
	return (wd + 6) % 7
}

// IsOpen decides whether a POI is open at instant t.
func IsOpen(p poi.POI, t time.Time, strict bool) bool {
	switch p.Hours.Kind {
	case poi.HoursPeriods:
		return isOpenByPeriods(p.Hours.Periods, t)
	case poi.HoursDescriptions:
		return isOpenByDescriptions(p.Hours.Descriptions, t)
	case poi.HoursOpaque:
		return reasonableHours(t)
	default: // HoursAbsent
		if strict {
			return reasonableHours(t)
		}
		return true
	}
}

func reasonableHours(t time.Time) bool {
	h := t.Hour()
	return h >= 6 && h < 22
}

// isOpenByPeriods checks a POI's structured opening periods. Periods already carry
// the open/close day converted to the internal Mon=0..Sun=6 convention
// by the decoder (internal/optimize ingestion).
func isOpenByPeriods(periods []poi.Period, t time.Time) bool {
	arrivalDay := internalWeekday(t)
	arrivalMinutes := t.Hour()*60 + t.Minute()

	matchedAny := false
	for _, p := range periods {
		openDay := p.OpenDay
		closeDay := openDay
		if p.HasClose {
			closeDay = p.CloseDay
		}

		openMinutes := p.OpenHour*60 + p.OpenMinute
		closeMinutes := 24 * 60
		if p.HasCloseHour {
			closeMinutes = p.CloseHour*60 + p.CloseMinute
		}

		matchedAny = true

		if closeDay == openDay {
			if arrivalDay == openDay && openMinutes <= arrivalMinutes && arrivalMinutes < closeMinutes {
				return true
			}
			continue
		}

		// Overnight / multi-day span.
		if arrivalDay == openDay && arrivalMinutes >= openMinutes {
			return true
		}
		if arrivalDay == closeDay && arrivalMinutes < closeMinutes {
			return true
		}
		span := ((closeDay - openDay) % 7 + 7) % 7
		diff := ((arrivalDay - openDay) % 7 + 7) % 7
		if span > 1 && diff < span {
			return true
		}
	}

	if matchedAny {
		return false
	}
	return reasonableHours(t)
}

// isOpenByDescriptions checks a POI's free-text weekday descriptions.
func isOpenByDescriptions(descriptions []string, t time.Time) bool {
	arrivalMinutes := t.Hour()*60 + t.Minute()
	dayIdx := internalWeekday(t)
	enName := strings.ToLower(t.Weekday().String())
	viName := vietnameseDayName[dayIdx]

	for _, desc := range descriptions {
		day, rest, ok := splitDescription(desc)
		if !ok {
			continue
		}
		if day != enName && day != viName {
			continue
		}

		if rest == "" || strings.EqualFold(rest, "closed") {
			return false
		}
		lower := strings.ToLower(rest)
		if strings.Contains(lower, "open 24 hours") || strings.Contains(lower, "24 hours") {
			return true
		}

		for _, interval := range splitIntervals(rest) {
			start, end, ok := parseInterval(interval)
			if !ok {
				continue
			}
			if end <= start {
				// overnight
				if arrivalMinutes >= start || arrivalMinutes < end {
					return true
				}
			} else if start <= arrivalMinutes && arrivalMinutes < end {
				return true
			}
		}
		return false
	}
	return reasonableHours(t)
}

func splitDescription(desc string) (day, rest string, ok bool) {
	idx := strings.Index(desc, ":")
	if idx < 0 {
		return "", "", false
	}
	day = strings.ToLower(strings.TrimSpace(desc[:idx]))
	rest = strings.TrimSpace(desc[idx+1:])
	return day, rest, true
}

func splitIntervals(hoursPart string) []string {
	normalized := normalizeDashes(hoursPart)
	segments := strings.Split(normalized, ",")
	out := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func normalizeDashes(s string) string {
	r := strings.NewReplacer("–", "-", "—", "-", "−", "-")
	return r.Replace(s)
}

func parseInterval(interval string) (startMin, endMin int, ok bool) {
	if !strings.Contains(interval, "-") {
		return 0, 0, false
	}
	parts := strings.SplitN(interval, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	start, okStart := parseTimeString(strings.TrimSpace(parts[0]))
	end, okEnd := parseTimeString(strings.TrimSpace(parts[1]))
	if !okStart || !okEnd {
		return 0, 0, false
	}
	return start, end, true
}

// timeFormats mirrors the original service's strptime format list.
var timeFormats = []string{"3:04 PM", "3 PM", "15:04", "15.04"}

// parseTimeString parses a clock-time token, returning minutes since
// midnight. Accepts "%I:%M %p", "%I %p", "%H:%M", "%H.%M" equivalents.
func parseTimeString(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = normalizeDashes(s)
	for _, layout := range timeFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour()*60 + t.Minute(), true
		}
	}
	return 0, false
}

// EarliestOpeningAfter returns the next instant at or after t when the
// POI opens. Falls back to t+1day 06:00 if the POI carries no usable
// schedule data, always reporting ok=true.
func EarliestOpeningAfter(p poi.POI, t time.Time) (time.Time, bool) {
	switch p.Hours.Kind {
	case poi.HoursPeriods:
		if earliest, ok := earliestFromPeriods(p.Hours.Periods, t); ok {
			return earliest, true
		}
	case poi.HoursDescriptions:
		if earliest, ok := earliestFromDescriptions(p.Hours.Descriptions, t); ok {
			return earliest, true
		}
	}
	// Conservative optimistic default: next day at 06:00.
	next := time.Date(t.Year(), t.Month(), t.Day(), 6, 0, 0, 0, t.Location())
	next = next.AddDate(0, 0, 1)
	return next, true
}

func earliestFromPeriods(periods []poi.Period, t time.Time) (time.Time, bool) {
	afterDay := internalWeekday(t)
	var best time.Time
	found := false

	for _, p := range periods {
		daysUntilOpen := ((p.OpenDay-afterDay)%7 + 7) % 7
		candidate := time.Date(t.Year(), t.Month(), t.Day(), p.OpenHour, p.OpenMinute, 0, 0, t.Location())
		if daysUntilOpen == 0 {
			if !candidate.Before(t) {
				// same day, at or after t
			} else {
				candidate = candidate.AddDate(0, 0, 7)
			}
		} else {
			candidate = candidate.AddDate(0, 0, daysUntilOpen)
		}
		if !found || candidate.Before(best) {
			best = candidate
			found = true
		}
	}
	return best, found
}

func earliestFromDescriptions(descriptions []string, t time.Time) (time.Time, bool) {
	for _, desc := range descriptions {
		_, rest, ok := splitDescription(desc)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(rest), "closed") {
			continue
		}
		if !strings.ContainsAny(rest, "-–—") {
			continue
		}
		for _, interval := range splitIntervals(rest) {
			parts := strings.SplitN(interval, "-", 2)
			if len(parts) == 0 {
				continue
			}
			startMin, ok := parseTimeString(strings.TrimSpace(parts[0]))
			if !ok {
				continue
			}
			candidate := time.Date(t.Year(), t.Month(), t.Day(), startMin/60, startMin%60, 0, 0, t.Location())
			if !candidate.Before(t) {
				return candidate, true
			}
		}
	}
	return time.Time{}, false
}
