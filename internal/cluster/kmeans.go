// Package cluster groups embedded text chunks into themes with k-means over
// cosine similarity. Seeding uses k-means++ so co-located initial centroids
// are avoided; the random source is injected so tests can be deterministic.
package cluster

import (
	"math/rand"
	"sort"
	"strconv"

	"github.com/andreicstoica/refract/internal/domain"
)

const maxIterations = 10

// Run clusters chunks (which must carry embeddings) into at most k groups.
// Fewer chunks than k is meaningless to cluster, so that case short-circuits
// to a single all-member cluster with confidence 1.0. Output is sorted so
// larger, tighter clusters come first.
func Run(chunks []domain.TextChunk, k int, rng *rand.Rand) []domain.ClusterResult {
	if len(chunks) == 0 {
		return nil
	}
	if len(chunks) < k {
		return []domain.ClusterResult{singleCluster(chunks)}
	}

	vectors := make([][]float64, len(chunks))
	for i, c := range chunks {
		vectors[i] = c.Embedding
	}

	centroids := seedCentroids(vectors, k, rng)
	assignments := make([]int, len(vectors))
	for i := range assignments {
		assignments[i] = -1
	}

	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, v := range vectors {
			best := nearestCentroid(v, centroids)
			if best != assignments[i] {
				assignments[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}
		for c := range centroids {
			var members [][]float64
			for i, a := range assignments {
				if a == c {
					members = append(members, vectors[i])
				}
			}
			if len(members) > 0 {
				centroids[c] = meanVector(members)
			}
		}
	}

	return collect(chunks, assignments, centroids)
}

func singleCluster(chunks []domain.TextChunk) domain.ClusterResult {
	vectors := make([][]float64, len(chunks))
	for i, c := range chunks {
		vectors[i] = c.Embedding
	}
	return domain.ClusterResult{
		ID:         "cluster-0",
		Label:      "Main Theme",
		Chunks:     chunks,
		Centroid:   meanVector(vectors),
		Confidence: 1.0,
	}
}

// seedCentroids implements k-means++ seeding: the first centroid is uniform,
// each subsequent one is drawn with probability proportional to
// 1 - maxSimilarity to the centroids chosen so far, preferring dissimilar
// points.
func seedCentroids(vectors [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	first := vectors[rng.Intn(len(vectors))]
	centroids = append(centroids, cloneVector(first))

	for len(centroids) < k {
		weights := make([]float64, len(vectors))
		var total float64
		for i, v := range vectors {
			maxSim := -1.0
			for _, c := range centroids {
				if sim := CosineSimilarity(v, c); sim > maxSim {
					maxSim = sim
				}
			}
			w := 1 - maxSim
			if w < 0 {
				w = 0
			}
			weights[i] = w
			total += w
		}

		var pick int
		if total == 0 {
			// every point coincides with a centroid
			pick = rng.Intn(len(vectors))
		} else {
			target := rng.Float64() * total
			for i, w := range weights {
				target -= w
				if target <= 0 {
					pick = i
					break
				}
			}
		}
		centroids = append(centroids, cloneVector(vectors[pick]))
	}
	return centroids
}

func nearestCentroid(v []float64, centroids [][]float64) int {
	best, bestSim := 0, -2.0
	for i, c := range centroids {
		if sim := CosineSimilarity(v, c); sim > bestSim {
			best, bestSim = i, sim
		}
	}
	return best
}

// collect drops empty clusters, computes per-cluster confidence (mean member
// similarity to the centroid) and sorts by size*confidence descending.
func collect(chunks []domain.TextChunk, assignments []int, centroids [][]float64) []domain.ClusterResult {
	var results []domain.ClusterResult
	for c, centroid := range centroids {
		var members []domain.TextChunk
		var simSum float64
		for i, a := range assignments {
			if a != c {
				continue
			}
			members = append(members, chunks[i])
			simSum += CosineSimilarity(chunks[i].Embedding, centroid)
		}
		if len(members) == 0 {
			continue
		}
		results = append(results, domain.ClusterResult{
			Chunks:     members,
			Centroid:   centroid,
			Confidence: simSum / float64(len(members)),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		wi := float64(len(results[i].Chunks)) * results[i].Confidence
		wj := float64(len(results[j].Chunks)) * results[j].Confidence
		return wi > wj
	})
	for i := range results {
		results[i].ID = "cluster-" + strconv.Itoa(i)
		results[i].Label = "Theme " + strconv.Itoa(i+1)
	}
	return results
}

func cloneVector(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
