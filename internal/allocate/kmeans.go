// Package allocate implements the two day allocators exposed by the
// service: a function-quota variant and a geographic-clustering
// variant, plus the k-means routine they share for geographic
// clustering.
package allocate

import (
	"math"
	"math/rand"
	"sort"

	"github.com/tourflow/optimizer/internal/poi"
)

// kmeansSeed fixes the clustering seed for determinism across runs.
const kmeansSeed = 42

const kmeansRestarts = 10
const kmeansMaxIterations = 50

// Cluster groups the original indices of points assigned to one
// centroid.
type Cluster struct {
	Centroid poi.Location
	Indices  []int
}

// KMeans clusters points into k groups using Lloyd's iteration with a
// fixed seed and bounded restarts, picking the lowest-inertia result.
// Returns exactly k clusters (some may be empty if k > len(points)).
func KMeans(points []poi.Location, k int) []Cluster {
	n := len(points)
	if k <= 0 {
		return nil
	}
	if k >= n {
		clusters := make([]Cluster, n)
		for i, p := range points {
			clusters[i] = Cluster{Centroid: p, Indices: []int{i}}
		}
		for i := n; i < k; i++ {
			clusters = append(clusters, Cluster{})
		}
		return clusters
	}

	rng := rand.New(rand.NewSource(kmeansSeed))

	var best []Cluster
	bestInertia := math.Inf(1)

	for restart := 0; restart < kmeansRestarts; restart++ {
		centroids := initCentroids(points, k, rng)
		assignments := make([]int, n)

		for iter := 0; iter < kmeansMaxIterations; iter++ {
			changed := false
			for i, p := range points {
				nearest := nearestCentroid(p, centroids)
				if assignments[i] != nearest {
					assignments[i] = nearest
					changed = true
				}
			}
			centroids = recomputeCentroids(points, assignments, k, centroids)
			if !changed && iter > 0 {
				break
			}
		}

		inertia := totalInertia(points, assignments, centroids)
		if inertia < bestInertia {
			bestInertia = inertia
			best = buildClusters(points, assignments, centroids, k)
		}
	}

	return best
}

func initCentroids(points []poi.Location, k int, rng *rand.Rand) []poi.Location {
	n := len(points)
	perm := rng.Perm(n)
	centroids := make([]poi.Location, k)
	for i := 0; i < k; i++ {
		centroids[i] = points[perm[i]]
	}
	return centroids
}

func nearestCentroid(p poi.Location, centroids []poi.Location) int {
	best := 0
	bestDist := math.Inf(1)
	for i, c := range centroids {
		d := sqDist(p, c)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

func sqDist(a, b poi.Location) float64 {
	dLat := a.Lat - b.Lat
	dLng := a.Lng - b.Lng
	return dLat*dLat + dLng*dLng
}

func recomputeCentroids(points []poi.Location, assignments []int, k int, previous []poi.Location) []poi.Location {
	sums := make([]poi.Location, k)
	counts := make([]int, k)
	for i, p := range points {
		c := assignments[i]
		sums[c].Lat += p.Lat
		sums[c].Lng += p.Lng
		counts[c]++
	}
	centroids := make([]poi.Location, k)
	for i := 0; i < k; i++ {
		if counts[i] == 0 {
			centroids[i] = previous[i]
			continue
		}
		centroids[i] = poi.Location{Lat: sums[i].Lat / float64(counts[i]), Lng: sums[i].Lng / float64(counts[i])}
	}
	return centroids
}

func totalInertia(points []poi.Location, assignments []int, centroids []poi.Location) float64 {
	var total float64
	for i, p := range points {
		total += sqDist(p, centroids[assignments[i]])
	}
	return total
}

func buildClusters(points []poi.Location, assignments []int, centroids []poi.Location, k int) []Cluster {
	clusters := make([]Cluster, k)
	for i := range clusters {
		clusters[i].Centroid = centroids[i]
	}
	for i, c := range assignments {
		clusters[c].Indices = append(clusters[c].Indices, i)
	}
	for i := range clusters {
		sort.Ints(clusters[i].Indices)
	}
	return clusters
}
