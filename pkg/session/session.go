package session

import (
	"math/rand"
	"time"

	"github.com/dd0wney/semgraph/pkg/algorithms"
	"github.com/dd0wney/semgraph/pkg/graph"
	"github.com/dd0wney/semgraph/pkg/ingest"
	"github.com/dd0wney/semgraph/pkg/logging"
	"github.com/dd0wney/semgraph/pkg/metrics"
	"github.com/dd0wney/semgraph/pkg/pubsub"
	"github.com/dd0wney/semgraph/pkg/simulation"
)

// GraphLoadedEvent is published on pubsub.TopicGraphLoaded after a rebuild.
type GraphLoadedEvent struct {
	DatasetID string
	Nodes     int
	Edges     int
	Version   uint64
}

// RankComputedEvent is published on pubsub.TopicRankComputed.
type RankComputedEvent struct {
	Version uint64
	Mean    float64
	StdDev  float64
}

// LayoutResetEvent is published on pubsub.TopicLayoutReset.
type LayoutResetEvent struct {
	Version uint64
}

// Session orchestrates the explorer core: graph model, rank table, link
// prediction, and layout simulation. It is single-owner state — exactly one
// goroutine may drive it; hosts that serve concurrent readers synchronize
// outside or read published snapshots.
type Session struct {
	cfg Config
	log logging.Logger
	reg *metrics.Registry
	bus *pubsub.PubSub
	rng *rand.Rand

	graph *graph.Graph
	sim   *simulation.Simulator
	ranks *algorithms.RankTable

	datasetID string
	source    string
	pin       *simulation.Pin
}

// New creates a session. log, reg, and bus may be nil; rng may be nil, in
// which case a time-seeded source is used (tests inject a fixed seed).
func New(cfg Config, log logging.Logger, reg *metrics.Registry, bus *pubsub.PubSub, rng *rand.Rand) *Session {
	if log == nil {
		log = logging.NewNopLogger()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Session{
		cfg:   cfg,
		log:   log.With(logging.Component("session")),
		reg:   reg,
		bus:   bus,
		rng:   rng,
		graph: graph.New(),
		sim:   simulation.New(cfg.Physics),
		ranks: &algorithms.RankTable{},
	}
}

// Load replaces the entire topology from a dataset and recomputes ranks.
// Any previous rank table, velocity state, and pin are dead afterwards.
func (s *Session) Load(ds *ingest.Dataset) {
	timer := logging.StartTimer(s.log, "dataset loaded",
		logging.Dataset(ds.ID), logging.Triples(len(ds.Triples)))
	start := time.Now()

	s.datasetID = ds.ID
	s.source = ds.Source
	s.pin = nil

	s.graph.Rebuild(ds.Triples, s.rng)
	s.sim.Reset(s.graph)

	if s.reg != nil {
		s.reg.RecordLoad(s.graph.NodeCount(), s.graph.EdgeCount(), time.Since(start))
	}
	timer.End()

	if s.bus != nil {
		s.bus.Publish(pubsub.TopicGraphLoaded, GraphLoadedEvent{
			DatasetID: ds.ID,
			Nodes:     s.graph.NodeCount(),
			Edges:     s.graph.EdgeCount(),
			Version:   s.graph.Version(),
		})
	}

	s.ComputeRanks()
}

// ComputeRanks refreshes the rank table for the current topology. Load calls
// it once per dataset; hosts may call it again at will.
func (s *Session) ComputeRanks() {
	start := time.Now()
	s.ranks = algorithms.PageRank(s.graph, algorithms.PageRankOptions{
		DampingFactor: s.cfg.PageRank.Damping,
		Iterations:    s.cfg.PageRank.Iterations,
	})
	elapsed := time.Since(start)

	if s.reg != nil {
		s.reg.RecordRankCompute(elapsed)
	}
	s.log.Info("ranks computed",
		logging.Nodes(s.graph.NodeCount()),
		logging.Float64("mean", s.ranks.Mean),
		logging.Float64("stddev", s.ranks.StdDev),
		logging.Latency(elapsed))

	if s.bus != nil {
		s.bus.Publish(pubsub.TopicRankComputed, RankComputedEvent{
			Version: s.ranks.Version,
			Mean:    s.ranks.Mean,
			StdDev:  s.ranks.StdDev,
		})
	}
}

// Tick advances the layout simulation by one step, honoring the current pin.
func (s *Session) Tick() {
	start := time.Now()
	s.sim.Step(s.graph, s.pin)
	if s.reg != nil {
		s.reg.RecordTick(time.Since(start))
	}
}

// Predict runs link prediction for a node. Out-of-range indexes yield an
// empty set, not an error. Results are computed fresh on every call.
func (s *Session) Predict(node int) *algorithms.PredictionSet {
	set := algorithms.PredictLinks(s.graph, node)

	if s.reg != nil {
		status := "ok"
		if len(set.Predictions) == 0 {
			status = "empty"
		}
		s.reg.RecordPrediction(status, len(set.Predictions))
	}
	s.log.Debug("link prediction",
		logging.NodeIndex(node), logging.Int("candidates", len(set.Predictions)))
	return set
}

// Pin marks a node as externally positioned until Unpin or the next Load.
// While pinned the node is excluded from force integration; the host updates
// the position by calling Pin again each tick.
func (s *Session) Pin(node int, pos graph.Position) {
	if node < 0 || node >= s.graph.NodeCount() {
		return
	}
	s.pin = &simulation.Pin{Index: node, Position: pos}
}

// Unpin releases the pinned node back to the simulation.
func (s *Session) Unpin() {
	s.pin = nil
}

// ResetLayout re-scatters positions and zeroes velocities without touching
// topology or ranks.
func (s *Session) ResetLayout() {
	s.graph.Scatter(s.rng)
	s.sim.Reset(s.graph)
	s.pin = nil

	s.log.Info("layout reset", logging.Version(s.graph.Version()))
	if s.bus != nil {
		s.bus.Publish(pubsub.TopicLayoutReset, LayoutResetEvent{Version: s.graph.Version()})
	}
}

// Graph exposes the model for the presentation layer. Read-only by contract.
func (s *Session) Graph() *graph.Graph { return s.graph }

// Ranks returns the current rank table.
func (s *Session) Ranks() *algorithms.RankTable { return s.ranks }

// DatasetID returns the ID of the most recently loaded dataset.
func (s *Session) DatasetID() string { return s.datasetID }
