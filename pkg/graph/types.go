package graph

// Triple is one parsed relationship record: subject --predicate--> object,
// tagged with a severity label that maps to an edge weight.
type Triple struct {
	Subject   string
	Predicate string
	Object    string
	Severity  string
}

// Position represents a 2D world coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is addressed by its index into Graph.Nodes. Indexes are stable within
// one loaded graph and reassigned on every Rebuild.
type Node struct {
	Index       int      `json:"index"`
	Label       string   `json:"label"`
	Position    Position `json:"position"`
	Connections int      `json:"connections"`
	Radius      float64  `json:"radius"`
}

// Edge preserves the triple's direction and predicate for display.
// Analytics treat every edge as undirected.
type Edge struct {
	From      int    `json:"from"`
	To        int    `json:"to"`
	Predicate string `json:"predicate"`
}

// Severity labels recognized by SeverityWeight.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// SeverityWeight maps a severity label to an edge weight. Unrecognized
// labels, including the empty string, map to 0 — a zero-weight edge still
// creates adjacency membership.
func SeverityWeight(severity string) float64 {
	switch severity {
	case SeverityHigh:
		return 0.8
	case SeverityMedium:
		return 0.4
	case SeverityLow:
		return 0.1
	default:
		return 0.0
	}
}
