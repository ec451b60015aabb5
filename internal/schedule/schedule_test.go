package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourflow/optimizer/internal/poi"
	"github.com/tourflow/optimizer/internal/travel"
)

func dayStart(t *testing.T) time.Time {
	t.Helper()
	return time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC) // Monday
}

func located(id string, lat, lng float64) poi.POI {
	return poi.POI{ID: id, Location: poi.Location{Lat: lat, Lng: lng}, HasLocation: true}
}

func TestSequenceDay_EmptyInputReturnsNil(t *testing.T) {
	visits := SequenceDay(context.Background(), nil, dayStart(t), travel.Point{HasLocation: true}, travel.Composite{})

	assert.Nil(t, visits)
}

func TestSequenceDay_VisitsNearestPOIFirst(t *testing.T) {
	current := travel.Point{Lat: 10.0, Lng: 106.0, HasLocation: true}
	near := located("near", 10.001, 106.001)
	far := located("far", 10.5, 106.5)

	visits := SequenceDay(context.Background(), []poi.POI{far, near}, dayStart(t), current, travel.Composite{})

	require.Len(t, visits, 2)
	assert.Equal(t, "near", visits[0].POI.ID)
	assert.Equal(t, "far", visits[1].POI.ID)
	assert.True(t, visits[0].DepartureTime.After(visits[0].ArrivalTime) || visits[0].DepartureTime.Equal(visits[0].ArrivalTime))
	assert.True(t, visits[1].ArrivalTime.After(visits[0].DepartureTime) || visits[1].ArrivalTime.Equal(visits[0].DepartureTime))
}

func TestSequenceDay_DropsPOIWithoutLocation(t *testing.T) {
	current := travel.Point{Lat: 10.0, Lng: 106.0, HasLocation: true}
	reachable := located("reachable", 10.001, 106.001)
	noLocation := poi.POI{ID: "ghost"}

	visits := SequenceDay(context.Background(), []poi.POI{reachable, noLocation}, dayStart(t), current, travel.Composite{})

	require.Len(t, visits, 1)
	assert.Equal(t, "reachable", visits[0].POI.ID)
}

func TestSequenceDay_DropsPOIClosedAllDayAndNeverCatchesUp(t *testing.T) {
	current := travel.Point{Lat: 10.0, Lng: 106.0, HasLocation: true}
	open := located("open", 10.001, 106.001)
	closed := located("closed", 10.002, 106.002)
	closed.Hours = poi.OpeningHours{Kind: poi.HoursDescriptions, Descriptions: []string{"Monday: Closed"}}

	visits := SequenceDay(context.Background(), []poi.POI{open, closed}, dayStart(t), current, travel.Composite{})

	require.Len(t, visits, 1)
	assert.Equal(t, "open", visits[0].POI.ID)
}

func TestSequenceDay_RetriesDeferredPOIOnceEarlierStopsOpenIt(t *testing.T) {
	current := travel.Point{Lat: 10.0, Lng: 106.0, HasLocation: true}
	// closedUntilNoon is geographically nearest so it's tried first and
	// deferred; it opens once the nearest-neighbor walk comes back around.
	closedUntilNoon := located("afternoon-only", 10.0005, 106.0005)
	closedUntilNoon.Hours = poi.OpeningHours{
		Kind: poi.HoursPeriods,
		Periods: []poi.Period{
			{OpenDay: 0, OpenHour: 12, HasCloseHour: true, CloseDay: 0, CloseHour: 22},
		},
	}
	morningStop := located("morning", 10.01, 106.01)
	morningStop.EstimatedVisitMin = 180

	visits := SequenceDay(context.Background(), []poi.POI{closedUntilNoon, morningStop}, dayStart(t), current, travel.Composite{})

	require.Len(t, visits, 2)
	ids := []string{visits[0].POI.ID, visits[1].POI.ID}
	assert.Contains(t, ids, "morning")
	assert.Contains(t, ids, "afternoon-only")
}

func TestSequenceDay_EstimatedVisitDurationDrivesDeparture(t *testing.T) {
	current := travel.Point{Lat: 10.0, Lng: 106.0, HasLocation: true}
	p := located("solo", 10.001, 106.001)
	p.VisitDurationMin = 45

	visits := SequenceDay(context.Background(), []poi.POI{p}, dayStart(t), current, travel.Composite{})

	require.Len(t, visits, 1)
	assert.Equal(t, 45, visits[0].VisitDurationMin)
	assert.Equal(t, visits[0].ArrivalTime.Add(45*time.Minute), visits[0].DepartureTime)
}
