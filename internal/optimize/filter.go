package optimize

import (
	"time"

	"github.com/tourflow/optimizer/internal/hours"
	"github.com/tourflow/optimizer/internal/mood"
	"github.com/tourflow/optimizer/internal/poi"
)

const defaultECSThreshold = 0.3

// filterCandidates applies opening-at-departure, ECS scoring,
// threshold, and function gating. defaultIncludeMissing resolves what
// to do when a POI carries no includeInDailyRoute flag at all: endpoint
// A passes false (drop on missing), B passes true (keep on missing).
func filterCandidates(candidates []poi.POI, moods []string, threshold float64, startInstant time.Time, defaultIncludeMissing bool) []poi.POI {
	strict := startInstant.Hour() < 6 || startInstant.Hour() >= 22

	out := make([]poi.POI, 0, len(candidates))
	for _, p := range candidates {
		if !hours.IsOpen(p, startInstant, strict) {
			continue
		}

		p.ECSScore = mood.Score(p.EmotionalTags, moods)
		if p.ECSScore < threshold {
			continue
		}

		if p.Function == "" {
			continue
		}
		if p.Function == poi.Accommodation {
			continue
		}
		if p.Function == poi.Resort && p.IsLodgingType() {
			continue
		}

		included := p.IncludeInDailyRoute
		if !p.HasIncludeFlag {
			included = defaultIncludeMissing
		}
		if !included {
			continue
		}

		out = append(out, p)
	}
	return out
}

func resolveThreshold(requested *float64) float64 {
	if requested == nil {
		return defaultECSThreshold
	}
	return *requested
}
