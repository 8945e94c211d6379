package session

import (
	"github.com/dd0wney/semgraph/pkg/algorithms"
)

// NodeView is the read-only node shape handed to presentation layers.
type NodeView struct {
	Index       int     `json:"index"`
	Label       string  `json:"label"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Radius      float64 `json:"radius"`
	Connections int     `json:"connections"`
	Rank        float64 `json:"rank"`
	RankTier    string  `json:"rank_tier"`
}

// EdgeView is the read-only edge shape handed to presentation layers.
type EdgeView struct {
	From      int    `json:"from"`
	To        int    `json:"to"`
	FromLabel string `json:"from_label"`
	ToLabel   string `json:"to_label"`
	Predicate string `json:"predicate"`
}

// PredictionView is one link-prediction candidate with its tier label.
type PredictionView struct {
	Index int     `json:"index"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
	Tier  string  `json:"tier"`
}

// Summary describes the loaded graph as a whole.
type Summary struct {
	DatasetID  string  `json:"dataset_id"`
	Source     string  `json:"source"`
	Nodes      int     `json:"nodes"`
	Edges      int     `json:"edges"`
	RankMean   float64 `json:"rank_mean"`
	RankStdDev float64 `json:"rank_stddev"`
	Version    uint64  `json:"version"`
}

// Snapshot is a self-contained copy of everything a presentation layer
// draws: positions, radii, ranks with tier labels, and the edge list. It
// shares no memory with the session.
type Snapshot struct {
	Summary Summary    `json:"summary"`
	Nodes   []NodeView `json:"nodes"`
	Edges   []EdgeView `json:"edges"`
}

// Snapshot captures the current model state.
func (s *Session) Snapshot() Snapshot {
	g := s.graph
	snap := Snapshot{
		Summary: Summary{
			DatasetID:  s.datasetID,
			Source:     s.source,
			Nodes:      g.NodeCount(),
			Edges:      g.EdgeCount(),
			RankMean:   s.ranks.Mean,
			RankStdDev: s.ranks.StdDev,
			Version:    g.Version(),
		},
		Nodes: make([]NodeView, 0, g.NodeCount()),
		Edges: make([]EdgeView, 0, g.EdgeCount()),
	}

	for i := range g.Nodes {
		n := &g.Nodes[i]
		score := s.ranks.Score(i)
		snap.Nodes = append(snap.Nodes, NodeView{
			Index:       n.Index,
			Label:       n.Label,
			X:           n.Position.X,
			Y:           n.Position.Y,
			Radius:      n.Radius,
			Connections: n.Connections,
			Rank:        score,
			RankTier:    s.ranks.Tier(score),
		})
	}

	for _, e := range g.Edges {
		snap.Edges = append(snap.Edges, EdgeView{
			From:      e.From,
			To:        e.To,
			FromLabel: g.Nodes[e.From].Label,
			ToLabel:   g.Nodes[e.To].Label,
			Predicate: e.Predicate,
		})
	}

	return snap
}

// PredictViews runs link prediction for a node and resolves labels and tier
// names for display.
func (s *Session) PredictViews(node int) []PredictionView {
	set := s.Predict(node)
	views := make([]PredictionView, 0, len(set.Predictions))
	for _, p := range set.Predictions {
		views = append(views, PredictionView{
			Index: p.Index,
			Label: s.graph.Nodes[p.Index].Label,
			Score: p.Score,
			Tier:  algorithms.PredictionTier(p.Score),
		})
	}
	return views
}
