package simulation

import (
	"math"

	"github.com/dd0wney/semgraph/pkg/graph"
)

// Config holds the force model tunables.
type Config struct {
	Repulsion  float64 `yaml:"repulsion"`   // inverse-square pair repulsion strength
	RestLength float64 `yaml:"rest_length"` // spring rest length per edge
	Stiffness  float64 `yaml:"stiffness"`   // spring constant
	TimeStep   float64 `yaml:"time_step"`   // position integration step
	Damping    float64 `yaml:"damping"`     // velocity retained per tick
}

// DefaultConfig returns the standard force model parameters.
func DefaultConfig() Config {
	return Config{
		Repulsion:  2000.0,
		RestLength: 100.0,
		Stiffness:  0.02,
		TimeStep:   0.5,
		Damping:    0.9,
	}
}

// Pin marks one node as externally controlled for a tick. The host supplies
// the node's position directly; the simulator neither accumulates forces on
// it nor integrates it, but its edges still pull neighbors toward it.
type Pin struct {
	Index    int
	Position graph.Position
}

// Simulator relaxes node positions one tick at a time. It owns per-node
// velocity state keyed to the graph's topology generation; a rebuild
// invalidates and re-zeroes that state automatically on the next step.
// There is no termination condition — the host drives the tick cadence and
// calls Step for as long as it wants the layout to settle.
type Simulator struct {
	cfg        Config
	velocities []graph.Position
	version    uint64
}

// New creates a simulator with the given force configuration.
func New(cfg Config) *Simulator {
	return &Simulator{cfg: cfg}
}

// Reset zeroes all velocity state and binds it to the graph's current
// topology generation. Called automatically when Step sees a new generation;
// hosts call it directly after re-scattering positions.
func (s *Simulator) Reset(g *graph.Graph) {
	s.velocities = make([]graph.Position, g.NodeCount())
	s.version = g.Version()
}

// Velocity returns a node's current velocity, zero when out of range.
func (s *Simulator) Velocity(i int) graph.Position {
	if i < 0 || i >= len(s.velocities) {
		return graph.Position{}
	}
	return s.velocities[i]
}

// Step advances the layout by one tick: pairwise repulsion between unpinned
// nodes, spring attraction along every edge, then damped Euler integration.
// Empty and single-node graphs are no-ops. pin may be nil.
func (s *Simulator) Step(g *graph.Graph, pin *Pin) {
	if s.version != g.Version() || len(s.velocities) != g.NodeCount() {
		s.Reset(g)
	}

	pinned := -1
	if pin != nil && pin.Index >= 0 && pin.Index < g.NodeCount() {
		pinned = pin.Index
		// Interaction state applies before forces so the pinned node acts
		// as a stationary target this tick.
		g.Nodes[pinned].Position = pin.Position
		s.velocities[pinned] = graph.Position{}
	}

	n := g.NodeCount()

	for i := 0; i < n; i++ {
		if i == pinned {
			continue
		}
		for j := i + 1; j < n; j++ {
			if j == pinned {
				continue
			}
			dx := g.Nodes[i].Position.X - g.Nodes[j].Position.X
			dy := g.Nodes[i].Position.Y - g.Nodes[j].Position.Y
			distSq := dx*dx + dy*dy
			if distSq < 1.0 {
				distSq = 1.0
			}
			force := s.cfg.Repulsion / distSq

			dist := math.Sqrt(distSq)
			fx := dx / dist * force
			fy := dy / dist * force

			s.velocities[i].X += fx
			s.velocities[i].Y += fy
			s.velocities[j].X -= fx
			s.velocities[j].Y -= fy
		}
	}

	for _, e := range g.Edges {
		dx := g.Nodes[e.To].Position.X - g.Nodes[e.From].Position.X
		dy := g.Nodes[e.To].Position.Y - g.Nodes[e.From].Position.Y
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist < 1.0 {
			dist = 1.0
		}
		// Zero at rest length, pulling together beyond it, pushing apart
		// inside it.
		force := (dist - s.cfg.RestLength) * s.cfg.Stiffness

		fx := dx / dist * force
		fy := dy / dist * force

		if e.From != pinned {
			s.velocities[e.From].X += fx
			s.velocities[e.From].Y += fy
		}
		if e.To != pinned {
			s.velocities[e.To].X -= fx
			s.velocities[e.To].Y -= fy
		}
	}

	for i := 0; i < n; i++ {
		if i == pinned {
			continue
		}
		g.Nodes[i].Position.X += s.velocities[i].X * s.cfg.TimeStep
		g.Nodes[i].Position.Y += s.velocities[i].Y * s.cfg.TimeStep
		s.velocities[i].X *= s.cfg.Damping
		s.velocities[i].Y *= s.cfg.Damping
	}
}
