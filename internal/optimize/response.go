package optimize

import (
	"time"

	"github.com/tourflow/optimizer/internal/schedule"
)

// Activity is one scheduled POI in the response: the POI's essential
// attributes plus the timing the sequencer attached.
type Activity struct {
	ID                   string             `json:"google_place_id"`
	Name                 string             `json:"name"`
	Location             RawLatLng          `json:"location"`
	Function             string             `json:"function"`
	EmotionalTags        map[string]float64 `json:"emotional_tags,omitempty"`
	Types                []string           `json:"types,omitempty"`
	ECSScore             float64            `json:"ecs_score"`
	EstimatedArrival     string             `json:"estimated_arrival"`
	EstimatedDeparture   string             `json:"estimated_departure"`
	VisitDurationMinutes int                `json:"visit_duration_minutes"`
}

// DayPlan is one day of the response.
type DayPlan struct {
	Day          int        `json:"day"`
	DayStartTime string     `json:"day_start_time"`
	Activities   []Activity `json:"activities"`
}

// Response is the shared response shape for both endpoints.
type Response struct {
	OptimizedRoute []DayPlan `json:"optimized_route"`
}

func toActivities(visits []schedule.Visit) []Activity {
	out := make([]Activity, len(visits))
	for i, v := range visits {
		out[i] = Activity{
			ID:                   v.POI.ID,
			Name:                 v.POI.Name,
			Location:             RawLatLng{Lat: v.POI.Location.Lat, Lng: v.POI.Location.Lng},
			Function:             string(v.POI.Function),
			EmotionalTags:        v.POI.EmotionalTags,
			Types:                v.POI.Types,
			ECSScore:             v.POI.ECSScore,
			EstimatedArrival:     formatTimestamp(v.ArrivalTime),
			EstimatedDeparture:   formatTimestamp(v.DepartureTime),
			VisitDurationMinutes: v.VisitDurationMin,
		}
	}
	return out
}

func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02T15:04:05")
}
