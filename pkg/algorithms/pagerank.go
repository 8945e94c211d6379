package algorithms

import (
	"container/heap"
	"math"

	"github.com/dd0wney/semgraph/pkg/graph"
)

// Rank tier labels.
const (
	TierHigh   = "High"
	TierMedium = "Medium"
	TierLow    = "Low"
)

// PageRankOptions configures the PageRank computation.
type PageRankOptions struct {
	DampingFactor float64 // usually 0.85
	Iterations    int     // fixed iteration count, no convergence early-exit
}

// DefaultPageRankOptions returns the default PageRank configuration.
func DefaultPageRankOptions() PageRankOptions {
	return PageRankOptions{
		DampingFactor: 0.85,
		Iterations:    20,
	}
}

// RankTable holds PageRank scores for every node, indexed by node index,
// plus the mean and population standard deviation of the scores. A table is
// valid only for the topology generation it was computed against.
type RankTable struct {
	Scores  []float64
	Mean    float64
	StdDev  float64
	Version uint64
}

// RankedNode pairs a node index with its score.
type RankedNode struct {
	Index int
	Score float64
}

// PageRank runs the iterative PageRank computation over the graph's
// undirected adjacency sets. Every iteration each node restarts at (1 - d)
// and receives d * rank/degree from each neighbor. Isolated nodes keep the
// base term only. An empty graph yields an empty table.
func PageRank(g *graph.Graph, opts PageRankOptions) *RankTable {
	n := g.NodeCount()
	table := &RankTable{Version: g.Version()}
	if n == 0 {
		return table
	}

	ranks := make([]float64, n)
	next := make([]float64, n)
	initial := 1.0 / float64(n)
	for i := range ranks {
		ranks[i] = initial
	}

	for iter := 0; iter < opts.Iterations; iter++ {
		for i := range next {
			next[i] = 1.0 - opts.DampingFactor
		}
		for i := 0; i < n; i++ {
			degree := g.Degree(i)
			if degree == 0 {
				continue
			}
			share := opts.DampingFactor * ranks[i] / float64(degree)
			for j := range g.Neighbors(i) {
				next[j] += share
			}
		}
		ranks, next = next, ranks
	}

	sum := 0.0
	for _, score := range ranks {
		sum += score
	}
	table.Mean = sum / float64(n)

	varianceSum := 0.0
	for _, score := range ranks {
		d := score - table.Mean
		varianceSum += d * d
	}
	// Population variance: divide by N, not N-1.
	table.StdDev = math.Sqrt(varianceSum / float64(n))

	table.Scores = ranks
	return table
}

// Score returns the rank for a node, 0 when out of range.
func (rt *RankTable) Score(i int) float64 {
	if i < 0 || i >= len(rt.Scores) {
		return 0
	}
	return rt.Scores[i]
}

// Tier classifies a score against the table's distribution: more than one
// standard deviation above the mean is High, more than one below is Low.
// When the deviation is exactly zero every node is Medium.
func (rt *RankTable) Tier(score float64) string {
	if rt.StdDev == 0 {
		return TierMedium
	}
	if score > rt.Mean+rt.StdDev {
		return TierHigh
	}
	if score < rt.Mean-rt.StdDev {
		return TierLow
	}
	return TierMedium
}

// rankedNodeHeap is a min-heap of RankedNode by score, used to keep the top
// N elements in O(n log k).
type rankedNodeHeap []RankedNode

func (h rankedNodeHeap) Len() int           { return len(h) }
func (h rankedNodeHeap) Less(i, j int) bool { return h[i].Score < h[j].Score }
func (h rankedNodeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *rankedNodeHeap) Push(x any) {
	*h = append(*h, x.(RankedNode))
}

func (h *rankedNodeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// Top returns the n highest-ranked nodes in descending score order.
func (rt *RankTable) Top(n int) []RankedNode {
	if n <= 0 {
		return nil
	}

	h := make(rankedNodeHeap, 0, n)
	heap.Init(&h)

	for i, score := range rt.Scores {
		rn := RankedNode{Index: i, Score: score}
		if h.Len() < n {
			heap.Push(&h, rn)
		} else if score > h[0].Score {
			heap.Pop(&h)
			heap.Push(&h, rn)
		}
	}

	result := make([]RankedNode, h.Len())
	for i := h.Len() - 1; i >= 0; i-- {
		result[i] = heap.Pop(&h).(RankedNode)
	}
	return result
}
