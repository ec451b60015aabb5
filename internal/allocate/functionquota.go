package allocate

import (
	"math"
	"sort"
	"time"

	"github.com/tourflow/optimizer/internal/hours"
	"github.com/tourflow/optimizer/internal/mood"
	"github.com/tourflow/optimizer/internal/poi"
	"github.com/tourflow/optimizer/internal/travel"
)

// FunctionQuotaAllocate spreads candidates across durationDays using
// per-function quotas per day. candidates must already be filtered and
// ECS-scored by the filter pipeline. dayStart is day 0's start
// instant; day d begins at dayStart + d days.
func FunctionQuotaAllocate(candidates []poi.POI, moods []string, durationDays int, dayStart time.Time) [][]poi.POI {
	quota := QuotaForDuration(durationDays)
	groups := make([][]poi.POI, durationDays)
	used := make(map[string]bool, len(candidates))

	byFunction := bucketByFunction(candidates)

	addToDay := func(p poi.POI, day int) bool {
		if used[p.ID] {
			return false
		}
		groups[day] = append(groups[day], p)
		used[p.ID] = true
		return true
	}

	// Step 1: geographic clustering of CORE_ATTRACTION, one cluster per
	// day, round-robin mood sort within the cluster.
	core := byFunction[poi.CoreAttraction]
	k := minInt(durationDays, len(core))
	if k == 0 {
		k = 1
	}
	clusters := KMeans(locationsOf(core), k)
	coreClusters := groupByCluster(core, clusters)

	for day := 0; day < durationDays; day++ {
		cluster := append([]poi.POI(nil), coreClusters[day%len(coreClusters)]...)
		dayInstant := dayStart.AddDate(0, 0, day)
		m := moodAt(moods, day)
		sort.SliceStable(cluster, func(i, j int) bool {
			return mood.ScoreForMood(cluster[i].EmotionalTags, m) > mood.ScoreForMood(cluster[j].EmotionalTags, m)
		})

		count := 0
		for _, p := range cluster {
			if count >= quota.CoreMax {
				break
			}
			if likelyOpenInDayWindow(p, dayInstant) && addToDay(p, day) {
				count++
			}
		}
		if count < quota.CoreMin {
			for _, p := range cluster {
				if count >= quota.CoreMax {
					break
				}
				if addToDay(p, day) {
					count++
				}
			}
		}
	}

	// Remaining CORE: assign to the least-loaded-by-CORE-count day,
	// tolerating one over core_max.
	remainingCore := unused(core, used)
	sortByECSDesc(remainingCore)
	coreDays := newDayLoad(durationDays, func(day int) int { return countFunction(groups[day], poi.CoreAttraction) })
	for _, p := range remainingCore {
		day := coreDays.leastLoaded()
		if coreDays.count(day) < quota.CoreMax+1 {
			addToDay(p, day)
		}
		coreDays.refresh(day)
	}

	// Step 2: RESORT, at most one per day, highest ECS first, into the
	// least-loaded day overall.
	resorts := unused(byFunction[poi.Resort], used)
	sortByECSDesc(resorts)
	// A day that already holds a resort is never the least-loaded day.
	totalDays := newDayLoad(durationDays, func(day int) int {
		if countFunction(groups[day], poi.Resort) > 0 {
			return math.MaxInt
		}
		return len(groups[day])
	})
	for i := 0; i < len(resorts) && i < durationDays; i++ {
		day := totalDays.leastLoaded()
		addToDay(resorts[i], day)
		totalDays.refresh(day)
	}

	// Step 3: ACTIVITY, balanced by distance to the day's centroid
	// minus an ECS bonus (0.5 km per 0.1 ECS).
	activities := unused(byFunction[poi.Activity], used)
	for day := 0; day < durationDays; day++ {
		dayInstant := dayStart.AddDate(0, 0, day)
		if center, ok := centroidOf(groups[day]); ok {
			sort.SliceStable(activities, func(i, j int) bool {
				return activityScore(activities[i], center) < activityScore(activities[j], center)
			})
		}

		count := 0
		activities = fillDay(activities, quota.ActivityMax, &count, func(p poi.POI) bool {
			return likelyOpenInDayWindow(p, dayInstant) && addToDay(p, day)
		})
		if count < quota.ActivityMax {
			activities = fillDay(activities, quota.ActivityMax, &count, func(p poi.POI) bool {
				return addToDay(p, day)
			})
		}
	}

	// Step 4: F&B/DINING, nearest-to-centroid, meal-hour preference, at
	// most one per day.
	fb := unused(append(append([]poi.POI{}, byFunction[poi.FoodBeverage]...), byFunction[poi.Dining]...), used)
	for day := 0; day < durationDays && len(fb) > 0; day++ {
		dayInstant := dayStart.AddDate(0, 0, day)
		if center, ok := centroidOf(groups[day]); ok {
			sort.SliceStable(fb, func(i, j int) bool {
				return travel.Haversine(locPoint(fb[i]), centerPoint(center)) <
					travel.Haversine(locPoint(fb[j]), centerPoint(center))
			})
		}

		chosen := 0
		for i, p := range fb {
			if likelyOpenAtMealHour(p, dayInstant) {
				chosen = i
				break
			}
		}
		if addToDay(fb[chosen], day) {
			fb = append(fb[:chosen], fb[chosen+1:]...)
		}
	}

	// Step 5: OTHER, spread toward a dynamic per-day target, refusing
	// insertions that would overflow the soft caps by more than one.
	other := unused(byFunction[poi.Other], used)
	sortByECSDesc(other)
	target := maxInt(3, minInt(6, len(candidates)/maxInt(durationDays, 1)))
	otherDays := newDayLoad(durationDays, func(day int) int { return len(groups[day]) })
	for _, p := range other {
		day := otherDays.leastLoaded()
		if len(groups[day]) < target && !violatesConstraints(groups[day], p, quota) {
			addToDay(p, day)
		}
		otherDays.refresh(day)
	}

	return groups
}

func moodAt(moods []string, day int) string {
	if len(moods) == 0 {
		return ""
	}
	return moods[day%len(moods)]
}

func bucketByFunction(candidates []poi.POI) map[poi.Function][]poi.POI {
	out := map[poi.Function][]poi.POI{}
	for _, p := range candidates {
		f := p.Function
		switch f {
		case poi.CoreAttraction, poi.Activity, poi.Resort, poi.FoodBeverage, poi.Dining:
			out[f] = append(out[f], p)
		default:
			out[poi.Other] = append(out[poi.Other], p)
		}
	}
	return out
}

func locationsOf(pois []poi.POI) []poi.Location {
	locs := make([]poi.Location, len(pois))
	for i, p := range pois {
		locs[i] = p.Location
	}
	return locs
}

func groupByCluster(pois []poi.POI, clusters []Cluster) [][]poi.POI {
	if len(clusters) == 0 {
		return [][]poi.POI{{}}
	}
	out := make([][]poi.POI, len(clusters))
	for i, c := range clusters {
		for _, idx := range c.Indices {
			out[i] = append(out[i], pois[idx])
		}
	}
	return out
}

func unused(pois []poi.POI, used map[string]bool) []poi.POI {
	out := make([]poi.POI, 0, len(pois))
	for _, p := range pois {
		if !used[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

func sortByECSDesc(pois []poi.POI) {
	sort.SliceStable(pois, func(i, j int) bool {
		if pois[i].ECSScore != pois[j].ECSScore {
			return pois[i].ECSScore > pois[j].ECSScore
		}
		return pois[i].ID < pois[j].ID
	})
}

func countFunction(pois []poi.POI, f poi.Function) int {
	n := 0
	for _, p := range pois {
		if p.Function == f {
			n++
		}
	}
	return n
}

func centroidOf(pois []poi.POI) (poi.Location, bool) {
	var sum poi.Location
	n := 0
	for _, p := range pois {
		if p.HasLocation {
			sum.Lat += p.Location.Lat
			sum.Lng += p.Location.Lng
			n++
		}
	}
	if n == 0 {
		return poi.Location{}, false
	}
	return poi.Location{Lat: sum.Lat / float64(n), Lng: sum.Lng / float64(n)}, true
}

// activityScore is the distance in km minus 5x ECS, trading 0.5 km per
// 0.1 ECS.
func activityScore(p poi.POI, center poi.Location) float64 {
	km := travel.Haversine(locPoint(p), centerPoint(center)) / 2.0 // Haversine returns minutes at 2 min/km
	return km - p.ECSScore*5
}

func locPoint(p poi.POI) travel.Point {
	return travel.Point{ID: p.ID, Lat: p.Location.Lat, Lng: p.Location.Lng, HasLocation: p.HasLocation}
}

func centerPoint(loc poi.Location) travel.Point {
	return travel.Point{Lat: loc.Lat, Lng: loc.Lng, HasLocation: true}
}

// fillDay tries each candidate against accept, in order, removing
// accepted items, stopping once max is reached; returns the remaining
// unconsumed candidates.
func fillDay(candidates []poi.POI, max int, count *int, accept func(poi.POI) bool) []poi.POI {
	remaining := make([]poi.POI, 0, len(candidates))
	for _, p := range candidates {
		if *count >= max {
			remaining = append(remaining, p)
			continue
		}
		if accept(p) {
			*count++
			continue
		}
		remaining = append(remaining, p)
	}
	return remaining
}

func violatesConstraints(dayPois []poi.POI, candidate poi.POI, quota Quota) bool {
	fb, resort, activity := 0, 0, 0
	for _, p := range append(dayPois, candidate) {
		switch p.Function {
		case poi.FoodBeverage, poi.Dining:
			fb++
		case poi.Resort:
			resort++
		case poi.Activity:
			activity++
		}
	}
	return fb > quota.FBMax+1 || resort > quota.ResortMax+1 || activity > quota.ActivityMax+1
}

// likelyOpenInDayWindow probes 08:00, 12:00 and 16:00 of dayInstant's
// calendar day; absent schedule data passes.
func likelyOpenInDayWindow(p poi.POI, dayInstant time.Time) bool {
	if p.Hours.Kind == poi.HoursAbsent {
		return true
	}
	for _, hour := range [3]int{8, 12, 16} {
		probe := time.Date(dayInstant.Year(), dayInstant.Month(), dayInstant.Day(), hour, 0, 0, 0, dayInstant.Location())
		if hours.IsOpen(p, probe, false) {
			return true
		}
	}
	return false
}

// likelyOpenAtMealHour probes lunch (11:00) and dinner (17:00) windows.
func likelyOpenAtMealHour(p poi.POI, dayInstant time.Time) bool {
	for _, hour := range [2]int{11, 17} {
		probe := time.Date(dayInstant.Year(), dayInstant.Month(), dayInstant.Day(), hour, 0, 0, 0, dayInstant.Location())
		if hours.IsOpen(p, probe, false) {
			return true
		}
	}
	return false
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
