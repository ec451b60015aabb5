package allocate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourflow/optimizer/internal/poi"
)

func TestKMeans_KGreaterOrEqualPointsReturnsSingletons(t *testing.T) {
	points := []poi.Location{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}}

	clusters := KMeans(points, 5)

	require.Len(t, clusters, 5)
	assert.Len(t, clusters[0].Indices, 1)
	assert.Len(t, clusters[1].Indices, 1)
	assert.Empty(t, clusters[2].Indices)
}

func TestKMeans_SeparatesTwoTightGroups(t *testing.T) {
	points := []poi.Location{
		{Lat: 0.0, Lng: 0.0}, {Lat: 0.01, Lng: 0.01}, {Lat: 0.02, Lng: 0.0},
		{Lat: 10.0, Lng: 10.0}, {Lat: 10.01, Lng: 10.01}, {Lat: 10.02, Lng: 10.0},
	}

	clusters := KMeans(points, 2)

	require.Len(t, clusters, 2)
	near := map[int]bool{0: true, 1: true, 2: true}
	far := map[int]bool{3: true, 4: true, 5: true}
	// each cluster is purely within one of the two tight neighborhoods,
	// regardless of which cluster index each neighborhood landed in.
	assert.True(t, sameSide(clusters[0].Indices, near) || sameSide(clusters[0].Indices, far))
	assert.True(t, sameSide(clusters[1].Indices, near) || sameSide(clusters[1].Indices, far))
	assert.Len(t, clusters[0].Indices, 3)
	assert.Len(t, clusters[1].Indices, 3)
}

func TestKMeans_IsDeterministicAcrossCalls(t *testing.T) {
	points := []poi.Location{
		{Lat: 0, Lng: 0}, {Lat: 1, Lng: 1}, {Lat: 5, Lng: 5}, {Lat: 6, Lng: 6}, {Lat: 20, Lng: 0},
	}

	first := KMeans(points, 3)
	second := KMeans(points, 3)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Indices, second[i].Indices)
	}
}

func TestKMeans_ZeroOrNegativeKReturnsNil(t *testing.T) {
	assert.Nil(t, KMeans([]poi.Location{{Lat: 1, Lng: 1}}, 0))
	assert.Nil(t, KMeans([]poi.Location{{Lat: 1, Lng: 1}}, -1))
}

func sameSide(indices []int, side map[int]bool) bool {
	for _, i := range indices {
		if !side[i] {
			return false
		}
	}
	return len(indices) > 0
}
