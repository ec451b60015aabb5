// Package travel implements the travel-time provider: a caller-supplied
// matrix, a live distance-matrix HTTP client batched per origin, and a
// haversine fallback, composed behind a single Provider interface so
// every consumer sees the same eta(a,b) -> minutes contract.
package travel

import (
	"context"
	"math"
)

// Unreachable is the sentinel ETA the sequencer treats as "cannot
// connect".
const Unreachable = 9999.0

// Point is anything that can serve as an ETA endpoint: either a POI id
// (looked up in the caller-supplied matrix / live client) or a raw
// coordinate (the "current location" origin, or a POI whose coordinates
// are being used directly for the haversine fallback).
type Point struct {
	ID          string
	Lat, Lng    float64
	HasLocation bool
}

// Provider resolves travel time in minutes between two points.
type Provider interface {
	ETA(ctx context.Context, origin, destination Point) float64
}

// Composite tries a caller-supplied matrix first, then a live provider,
// then falls back to haversine.
type Composite struct {
	Matrix Matrix
	Live   Provider // may be nil
}

// Matrix is the caller-supplied partial ETA table: origin id ->
// destination id -> minutes. A zero Matrix (nil maps) always misses.
type Matrix struct {
	ByID         map[string]map[string]float64
	FromCurrent  map[string]float64 // origin is the external "current location"
	CurrentKey   string              // sentinel id used for "current location" as an origin
}

func (m Matrix) lookup(origin, destination Point) (float64, bool) {
	if origin.ID == m.CurrentKey && m.CurrentKey != "" {
		if v, ok := m.FromCurrent[destination.ID]; ok {
			return v, true
		}
	}
	if m.ByID == nil {
		return 0, false
	}
	row, ok := m.ByID[origin.ID]
	if !ok {
		return 0, false
	}
	v, ok := row[destination.ID]
	return v, ok
}

func (c Composite) ETA(ctx context.Context, origin, destination Point) float64 {
	if v, ok := c.Matrix.lookup(origin, destination); ok {
		return v
	}
	if c.Live != nil {
		if v := c.Live.ETA(ctx, origin, destination); v < Unreachable {
			return v
		}
	}
	return Haversine(origin, destination)
}

// Haversine estimates travel time at a fixed 30 km/h (2 min/km).
// Missing coordinates on either end yield the Unreachable sentinel.
func Haversine(origin, destination Point) float64 {
	if !origin.HasLocation || !destination.HasLocation {
		return Unreachable
	}
	const earthRadiusKm = 6371.0
	lat1, lat2 := toRadians(origin.Lat), toRadians(destination.Lat)
	dLat := toRadians(destination.Lat - origin.Lat)
	dLng := toRadians(destination.Lng - origin.Lng)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	km := earthRadiusKm * c

	const minutesPerKm = 2.0 // 30 km/h
	return km * minutesPerKm
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
