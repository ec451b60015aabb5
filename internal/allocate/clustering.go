package allocate

import (
	"sort"

	"github.com/tourflow/optimizer/internal/mood"
	"github.com/tourflow/optimizer/internal/poi"
	"github.com/tourflow/optimizer/internal/travel"
)

// startRadiusKm bounds the clustering allocator's candidate pool to
// POIs within this distance of the trip's starting point.
const startRadiusKm = 15.0

// ClusterAllocate is a k-means clustering day allocator used for route
// previews, trading speed for geographic coherence relative to
// FunctionQuotaAllocate. candidates must already be filtered and
// ECS-scored. poisPerDay defaults to 3 when <= 0.
func ClusterAllocate(candidates []poi.POI, moods []string, durationDays, poisPerDay int, current poi.Location, hasCurrent bool) [][]poi.POI {
	if poisPerDay <= 0 {
		poisPerDay = 3
	}
	if len(moods) == 0 {
		moods = []string{""}
	}

	inRadius := withinStartRadius(candidates, current, hasCurrent, startRadiusKm)
	groups := make([][]poi.POI, durationDays)
	if len(inRadius) == 0 {
		return groups
	}

	withCoords := make([]poi.POI, 0, len(inRadius))
	for _, p := range inRadius {
		if p.HasLocation {
			withCoords = append(withCoords, p)
		}
	}
	if len(withCoords) == 0 {
		return groups
	}

	k := minInt(maxInt(durationDays, 1), len(withCoords))
	clusters := KMeans(locationsOf(withCoords), k)
	byCluster := groupByCluster(withCoords, clusters)

	sort.SliceStable(byCluster, func(i, j int) bool { return len(byCluster[i]) > len(byCluster[j]) })

	sequences := make([]clusterSequence, 0, len(byCluster))
	for _, cluster := range byCluster {
		routePois := includedInRoute(cluster)
		if len(routePois) == 0 {
			continue
		}
		sortByECSDesc(routePois)
		seq := clusterSequence{overall: routePois, byMood: map[string][]poi.POI{}}
		for _, m := range moods {
			ranked := append([]poi.POI(nil), routePois...)
			sort.SliceStable(ranked, func(i, j int) bool {
				return mood.ScoreForMood(ranked[i].EmotionalTags, m) > mood.ScoreForMood(ranked[j].EmotionalTags, m)
			})
			seq.byMood[m] = ranked
		}
		sequences = append(sequences, seq)
	}

	basePool := includedInRoute(withCoords)
	globalByMood := map[string][]poi.POI{}
	for _, m := range moods {
		ranked := append([]poi.POI(nil), basePool...)
		sort.SliceStable(ranked, func(i, j int) bool {
			return mood.ScoreForMood(ranked[i].EmotionalTags, m) > mood.ScoreForMood(ranked[j].EmotionalTags, m)
		})
		globalByMood[m] = ranked
	}

	used := make(map[string]bool, len(withCoords))
	cursors := make([]sequenceCursor, len(sequences))
	globalCursor := map[string]int{}

	pickFromGlobal := func(m string) (poi.POI, bool) {
		pool := globalByMood[m]
		ptr := globalCursor[m]
		for ptr < len(pool) {
			p := pool[ptr]
			ptr++
			if !used[p.ID] {
				globalCursor[m] = ptr
				return p, true
			}
		}
		globalCursor[m] = ptr
		return poi.POI{}, false
	}

	for day := 0; day < durationDays; day++ {
		var dayPois []poi.POI
		if len(sequences) > 0 {
			startIdx := day % len(sequences)
			attempts := 0
			maxAttempts := len(sequences) * poisPerDay
			for len(dayPois) < poisPerDay && attempts < maxAttempts {
				idx := (startIdx + attempts) % len(sequences)
				m := moods[len(dayPois)%len(moods)]

				chosen, ok := cursors[idx].takeMood(sequences[idx], m, used)
				if !ok {
					chosen, ok = cursors[idx].takeOverall(sequences[idx], used)
				}
				if ok {
					dayPois = append(dayPois, chosen)
					used[chosen.ID] = true
				}
				attempts++
			}
		}
		for len(dayPois) < poisPerDay {
			m := moods[len(dayPois)%len(moods)]
			p, ok := pickFromGlobal(m)
			if !ok {
				break
			}
			dayPois = append(dayPois, p)
			used[p.ID] = true
		}
		groups[day] = dayPois
	}

	return groups
}

type clusterSequence struct {
	overall []poi.POI
	byMood  map[string][]poi.POI
}

type sequenceCursor struct {
	overallPtr int
	moodPtr    map[string]int
}

func (c *sequenceCursor) takeMood(seq clusterSequence, m string, used map[string]bool) (poi.POI, bool) {
	if c.moodPtr == nil {
		c.moodPtr = map[string]int{}
	}
	ranked := seq.byMood[m]
	ptr := c.moodPtr[m]
	for ptr < len(ranked) {
		p := ranked[ptr]
		ptr++
		if !used[p.ID] {
			c.moodPtr[m] = ptr
			return p, true
		}
	}
	c.moodPtr[m] = ptr
	return poi.POI{}, false
}

func (c *sequenceCursor) takeOverall(seq clusterSequence, used map[string]bool) (poi.POI, bool) {
	for c.overallPtr < len(seq.overall) {
		p := seq.overall[c.overallPtr]
		c.overallPtr++
		if !used[p.ID] {
			return p, true
		}
	}
	return poi.POI{}, false
}

func withinStartRadius(candidates []poi.POI, current poi.Location, hasCurrent bool, radiusKm float64) []poi.POI {
	if !hasCurrent {
		return nil
	}
	origin := travel.Point{Lat: current.Lat, Lng: current.Lng, HasLocation: true}
	out := make([]poi.POI, 0, len(candidates))
	for _, p := range candidates {
		if !p.HasLocation {
			continue
		}
		dest := travel.Point{Lat: p.Location.Lat, Lng: p.Location.Lng, HasLocation: true}
		km := travel.Haversine(origin, dest) / 2.0 // Haversine returns minutes at 2 min/km
		if km <= radiusKm {
			out = append(out, p)
		}
	}
	return out
}

func includedInRoute(pois []poi.POI) []poi.POI {
	out := make([]poi.POI, 0, len(pois))
	for _, p := range pois {
		if !p.HasIncludeFlag || p.IncludeInDailyRoute {
			out = append(out, p)
		}
	}
	return out
}
