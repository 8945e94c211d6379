package algorithms

import (
	"math"
	"sort"

	"github.com/dd0wney/semgraph/pkg/graph"
)

// Prediction tier labels.
const (
	TierStrong   = "Strong"
	TierModerate = "Moderate"
	TierWeak     = "Weak"
)

// Prediction holds one link-prediction candidate with its normalized score.
type Prediction struct {
	Index int
	Score float64 // in [0, 1], relative to the best candidate
}

// PredictionSet holds predictions for a single query node, sorted descending
// by score with ascending node index as the tie-break. Sets are recomputed
// fresh on every query and never cached.
type PredictionSet struct {
	Source      int
	Predictions []Prediction
}

// PredictLinks scores potential new links for the query node with an
// Adamic-Adar style heuristic: walk the neighbors of each neighbor and
// credit candidates that are not already directly connected, weighting each
// contribution inversely by the log of the intermediate neighbor's degree.
// A degree of 1 contributes a flat 1.0 to avoid log(1) = 0. Raw scores are
// normalized by the maximum observed; if that maximum is 0 the set is empty.
//
// An out-of-range query node or an empty graph yields an empty set rather
// than an error.
func PredictLinks(g *graph.Graph, source int) *PredictionSet {
	result := &PredictionSet{Source: source}
	if source < 0 || source >= g.NodeCount() {
		return result
	}

	neighbors := g.Neighbors(source)
	scores := make(map[int]float64)

	for n := range neighbors {
		degree := g.Degree(n)
		for m := range g.Neighbors(n) {
			if m == source || neighbors[m] {
				continue
			}
			if degree > 1 {
				scores[m] += 1.0 / math.Log(float64(degree))
			} else {
				scores[m] += 1.0
			}
		}
	}

	maxScore := 0.0
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}
	if maxScore == 0 {
		return result
	}

	result.Predictions = make([]Prediction, 0, len(scores))
	for idx, s := range scores {
		result.Predictions = append(result.Predictions, Prediction{
			Index: idx,
			Score: s / maxScore,
		})
	}

	sort.Slice(result.Predictions, func(i, j int) bool {
		a, b := result.Predictions[i], result.Predictions[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Index < b.Index
	})

	return result
}

// PredictionTier classifies a normalized prediction score. Normalized scores
// are never negative, so the empty-string branch is unreachable in practice
// but kept as defined behavior.
func PredictionTier(score float64) string {
	if score >= 0.8 {
		return TierStrong
	}
	if score >= 0.5 {
		return TierModerate
	}
	if score >= 0.0 {
		return TierWeak
	}
	return ""
}
