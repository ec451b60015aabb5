// Package schedule sequences a day's POIs into a timed visit order: a
// nearest-neighbor chain seeded from the current location, a clock
// simulation that checks opening hours at each arrival, a
// deferred-retry pass for POIs that weren't open yet, and a bounded
// time jump to the earliest deferred opening when the retry pass makes
// no further progress.
//
// Both the function-quota and clustering allocators' day groups are
// sequenced by the same SequenceDay; nothing about the retry/time-jump
// passes is specific to either allocator, so one sequencer serves
// both.
package schedule

import (
	"context"
	"time"

	"github.com/tourflow/optimizer/internal/hours"
	"github.com/tourflow/optimizer/internal/poi"
	"github.com/tourflow/optimizer/internal/travel"
)

const (
	maxRetryRounds = 3
	maxTimeJumps   = 2
	maxJumpHours   = 4.0
)

// Visit is one scheduled stop: a POI plus its simulated arrival and
// departure instants.
type Visit struct {
	POI              poi.POI
	ArrivalTime      time.Time
	DepartureTime    time.Time
	VisitDurationMin int
}

// SequenceDay orders dayPois into a timed visit schedule starting from
// current at dayStart, using provider to resolve travel time between
// stops. POIs that can't be fit (closed past the retry/jump budget, or
// unreachable) are silently dropped.
func SequenceDay(ctx context.Context, dayPois []poi.POI, dayStart time.Time, current travel.Point, provider travel.Provider) []Visit {
	if len(dayPois) == 0 {
		return nil
	}

	etaFromCurrent := func(p poi.POI) float64 { return provider.ETA(ctx, current, pointOf(p)) }
	etaBetween := func(a, b poi.POI) float64 { return provider.ETA(ctx, pointOf(a), pointOf(b)) }

	order := nearestNeighborOrder(dayPois, etaFromCurrent, etaBetween)

	var schedule []Visit
	var deferred []poi.POI
	currentTime := dayStart
	havePrev := false
	var prevPOI poi.POI

	tryVisit := func(p poi.POI, travelMinutes float64) bool {
		if travelMinutes >= travel.Unreachable {
			return false
		}
		arrival := currentTime.Add(time.Duration(travelMinutes * float64(time.Minute)))
		strict := arrival.Hour() < 6 || arrival.Hour() >= 22
		if !hours.IsOpen(p, arrival, strict) {
			return false
		}
		visitMin := p.EstimatedVisitDuration()
		departure := arrival.Add(time.Duration(visitMin) * time.Minute)
		schedule = append(schedule, Visit{POI: p, ArrivalTime: arrival, DepartureTime: departure, VisitDurationMin: visitMin})
		currentTime = departure
		return true
	}

	// Pass 1: nearest-neighbor order, deferring closed POIs and dropping
	// unreachable ones outright.
	for _, p := range order {
		var travelMinutes float64
		if !havePrev {
			travelMinutes = etaFromCurrent(p)
		} else {
			travelMinutes = etaBetween(prevPOI, p)
		}
		if travelMinutes >= travel.Unreachable {
			continue
		}
		if tryVisit(p, travelMinutes) {
			prevPOI = p
			havePrev = true
		} else {
			deferred = append(deferred, p)
		}
	}

	// Pass 2: retry deferred POIs against the schedule as it fills in,
	// with a bounded forward time jump when a round makes no progress.
	timeJumpsUsed := 0
	for round := 0; round < maxRetryRounds && len(deferred) > 0; round++ {
		var stillDeferred []poi.POI
		roundStart := currentTime

		for _, p := range deferred {
			var travelMinutes float64
			if len(schedule) > 0 {
				travelMinutes = etaBetween(schedule[len(schedule)-1].POI, p)
			} else {
				travelMinutes = etaFromCurrent(p)
			}
			if !tryVisit(p, travelMinutes) {
				stillDeferred = append(stillDeferred, p)
			}
		}
		deferred = stillDeferred

		if len(deferred) == 0 || !currentTime.Equal(roundStart) || timeJumpsUsed >= maxTimeJumps {
			continue
		}

		earliest, ok := earliestAmong(deferred, currentTime)
		if !ok || !earliest.After(currentTime) {
			break
		}
		if earliest.Sub(currentTime).Hours() > maxJumpHours {
			break
		}
		currentTime = earliest
		timeJumpsUsed++
	}

	return schedule
}

func nearestNeighborOrder(pois []poi.POI, etaFromCurrent func(poi.POI) float64, etaBetween func(a, b poi.POI) float64) []poi.POI {
	remaining := append([]poi.POI(nil), pois...)

	startIdx := 0
	bestETA := etaFromCurrent(remaining[0])
	for i := 1; i < len(remaining); i++ {
		if e := etaFromCurrent(remaining[i]); e < bestETA {
			bestETA = e
			startIdx = i
		}
	}
	order := []poi.POI{remaining[startIdx]}
	remaining = removeAt(remaining, startIdx)

	for len(remaining) > 0 {
		last := order[len(order)-1]
		bestIdx := 0
		bestETA := etaBetween(last, remaining[0])
		for i := 1; i < len(remaining); i++ {
			if e := etaBetween(last, remaining[i]); e < bestETA {
				bestETA = e
				bestIdx = i
			}
		}
		order = append(order, remaining[bestIdx])
		remaining = removeAt(remaining, bestIdx)
	}
	return order
}

func removeAt(pois []poi.POI, idx int) []poi.POI {
	out := make([]poi.POI, 0, len(pois)-1)
	out = append(out, pois[:idx]...)
	return append(out, pois[idx+1:]...)
}

func earliestAmong(pois []poi.POI, after time.Time) (time.Time, bool) {
	var best time.Time
	found := false
	for _, p := range pois {
		t, ok := hours.EarliestOpeningAfter(p, after)
		if !ok {
			continue
		}
		if !found || t.Before(best) {
			best = t
			found = true
		}
	}
	return best, found
}

func pointOf(p poi.POI) travel.Point {
	return travel.Point{ID: p.ID, Lat: p.Location.Lat, Lng: p.Location.Lng, HasLocation: p.HasLocation}
}
