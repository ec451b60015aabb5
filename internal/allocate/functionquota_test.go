package allocate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourflow/optimizer/internal/poi"
)

func corePOI(id string, lat, lng, ecs float64) poi.POI {
	return poi.POI{
		ID: id, Function: poi.CoreAttraction, HasLocation: true,
		Location: poi.Location{Lat: lat, Lng: lng}, ECSScore: ecs,
	}
}

func TestFunctionQuotaAllocate_SpreadsCoreAttractionsAcrossDays(t *testing.T) {
	candidates := []poi.POI{
		corePOI("a", 10.0, 106.0, 0.8),
		corePOI("b", 10.01, 106.01, 0.7),
		corePOI("c", 10.5, 106.5, 0.9),
		corePOI("d", 10.51, 106.51, 0.6),
	}
	dayStart := time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)

	groups := FunctionQuotaAllocate(candidates, []string{"Gia đình & Thoải mái"}, 2, dayStart)

	require.Len(t, groups, 2)
	total := len(groups[0]) + len(groups[1])
	assert.Equal(t, 4, total)
}

func TestFunctionQuotaAllocate_NeverDoubleBooksAPOI(t *testing.T) {
	candidates := []poi.POI{
		corePOI("a", 10.0, 106.0, 0.8),
		corePOI("b", 10.0, 106.0, 0.7),
		{ID: "resort-1", Function: poi.Resort, HasLocation: true, Location: poi.Location{Lat: 10.0, Lng: 106.0}, ECSScore: 0.5},
		{ID: "other-1", Function: poi.Other, HasLocation: true, Location: poi.Location{Lat: 10.0, Lng: 106.0}, ECSScore: 0.3},
	}
	dayStart := time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)

	groups := FunctionQuotaAllocate(candidates, nil, 3, dayStart)

	seen := map[string]int{}
	for _, day := range groups {
		for _, p := range day {
			seen[p.ID]++
		}
	}
	for id, count := range seen {
		assert.Equalf(t, 1, count, "poi %s scheduled %d times", id, count)
	}
}

func TestFunctionQuotaAllocate_ResortCappedAtOnePerDay(t *testing.T) {
	candidates := []poi.POI{
		corePOI("core-1", 10.0, 106.0, 0.9),
		{ID: "resort-1", Function: poi.Resort, HasLocation: true, Location: poi.Location{Lat: 10.0, Lng: 106.0}, ECSScore: 0.9},
		{ID: "resort-2", Function: poi.Resort, HasLocation: true, Location: poi.Location{Lat: 10.0, Lng: 106.0}, ECSScore: 0.8},
	}
	dayStart := time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)

	groups := FunctionQuotaAllocate(candidates, nil, 1, dayStart)

	resortCount := countFunction(groups[0], poi.Resort)
	assert.LessOrEqual(t, resortCount, 1)
}

func TestFunctionQuotaAllocate_EmptyCandidatesYieldsEmptyDays(t *testing.T) {
	dayStart := time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)

	groups := FunctionQuotaAllocate(nil, nil, 2, dayStart)

	require.Len(t, groups, 2)
	assert.Empty(t, groups[0])
	assert.Empty(t, groups[1])
}
