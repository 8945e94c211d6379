package session

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/semgraph/pkg/graph"
	"github.com/dd0wney/semgraph/pkg/ingest"
	"github.com/dd0wney/semgraph/pkg/pubsub"
)

func testDataset() *ingest.Dataset {
	return &ingest.Dataset{
		ID:     "ds-test",
		Source: "test.csv",
		Triples: []graph.Triple{
			{Subject: "firewall", Predicate: "protects", Object: "database", Severity: "high"},
			{Subject: "database", Predicate: "feeds", Object: "dashboard", Severity: "medium"},
			{Subject: "firewall", Predicate: "monitors", Object: "dashboard", Severity: "low"},
		},
	}
}

func newTestSession(t *testing.T, bus *pubsub.PubSub) *Session {
	t.Helper()
	return New(DefaultConfig(), nil, nil, bus, rand.New(rand.NewSource(42)))
}

func TestLoad_BuildsGraphAndRanks(t *testing.T) {
	s := newTestSession(t, nil)
	s.Load(testDataset())

	assert.Equal(t, "ds-test", s.DatasetID())
	assert.Equal(t, 3, s.Graph().NodeCount())
	assert.Equal(t, 3, s.Graph().EdgeCount())

	ranks := s.Ranks()
	require.Len(t, ranks.Scores, 3)
	assert.Equal(t, s.Graph().Version(), ranks.Version)
}

func TestLoad_PublishesEvents(t *testing.T) {
	bus := pubsub.NewPubSub()
	defer bus.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loaded := bus.Subscribe(ctx, pubsub.TopicGraphLoaded)
	ranked := bus.Subscribe(ctx, pubsub.TopicRankComputed)
	require.NotNil(t, loaded)
	require.NotNil(t, ranked)

	s := newTestSession(t, bus)
	s.Load(testDataset())

	select {
	case msg := <-loaded.Channel():
		ev, ok := msg.(GraphLoadedEvent)
		require.True(t, ok)
		assert.Equal(t, "ds-test", ev.DatasetID)
		assert.Equal(t, 3, ev.Nodes)
		assert.Equal(t, 3, ev.Edges)
	case <-time.After(time.Second):
		t.Fatal("no GraphLoadedEvent received")
	}

	select {
	case msg := <-ranked.Channel():
		ev, ok := msg.(RankComputedEvent)
		require.True(t, ok)
		assert.Equal(t, s.Graph().Version(), ev.Version)
	case <-time.After(time.Second):
		t.Fatal("no RankComputedEvent received")
	}
}

func TestLoad_ReplacesPreviousState(t *testing.T) {
	s := newTestSession(t, nil)
	s.Load(testDataset())
	v1 := s.Graph().Version()
	s.Pin(0, graph.Position{X: 1, Y: 1})

	s.Load(&ingest.Dataset{
		ID:     "ds-second",
		Source: "second.csv",
		Triples: []graph.Triple{
			{Subject: "a", Predicate: "x", Object: "b", Severity: "low"},
		},
	})

	assert.Equal(t, "ds-second", s.DatasetID())
	assert.Equal(t, 2, s.Graph().NodeCount())
	assert.Greater(t, s.Graph().Version(), v1)
	assert.Nil(t, s.pin, "pin must not survive a load")
	assert.Len(t, s.Ranks().Scores, 2)
}

func TestSnapshot(t *testing.T) {
	s := newTestSession(t, nil)
	s.Load(testDataset())

	snap := s.Snapshot()
	assert.Equal(t, "ds-test", snap.Summary.DatasetID)
	assert.Equal(t, "test.csv", snap.Summary.Source)
	assert.Equal(t, 3, snap.Summary.Nodes)
	assert.Equal(t, 3, snap.Summary.Edges)
	require.Len(t, snap.Nodes, 3)
	require.Len(t, snap.Edges, 3)

	assert.Equal(t, "firewall", snap.Nodes[0].Label)
	assert.Equal(t, 2, snap.Nodes[0].Connections)
	assert.NotEmpty(t, snap.Nodes[0].RankTier)

	e := snap.Edges[0]
	assert.Equal(t, "firewall", e.FromLabel)
	assert.Equal(t, "database", e.ToLabel)
	assert.Equal(t, "protects", e.Predicate)

	// The snapshot owns its slices; mutating it must not touch the model.
	snap.Nodes[0].Label = "mutated"
	assert.Equal(t, "firewall", s.Graph().Nodes[0].Label)
}

func TestPredictViews(t *testing.T) {
	s := newTestSession(t, nil)
	s.Load(&ingest.Dataset{
		ID: "bridge",
		Triples: []graph.Triple{
			{Subject: "a", Predicate: "x", Object: "b", Severity: "low"},
			{Subject: "b", Predicate: "x", Object: "c", Severity: "low"},
		},
	})

	views := s.PredictViews(0)
	require.Len(t, views, 1)
	assert.Equal(t, "c", views[0].Label)
	assert.Equal(t, 1.0, views[0].Score)
	assert.Equal(t, "Strong", views[0].Tier)

	assert.Empty(t, s.PredictViews(99))
	assert.Empty(t, s.PredictViews(-1))
}

func TestTick_MovesNodes(t *testing.T) {
	s := newTestSession(t, nil)
	s.Load(testDataset())

	before := make([]graph.Position, s.Graph().NodeCount())
	for i, n := range s.Graph().Nodes {
		before[i] = n.Position
	}

	s.Tick()

	moved := false
	for i, n := range s.Graph().Nodes {
		if n.Position != before[i] {
			moved = true
			break
		}
	}
	assert.True(t, moved, "a tick on a scattered graph should move at least one node")
}

func TestPin_HoldsNodeThroughTicks(t *testing.T) {
	s := newTestSession(t, nil)
	s.Load(testDataset())

	held := graph.Position{X: 300, Y: 300}
	s.Pin(0, held)
	s.Tick()
	s.Tick()
	assert.Equal(t, held, s.Graph().Nodes[0].Position)

	s.Unpin()
	s.Tick()
	assert.NotEqual(t, held, s.Graph().Nodes[0].Position,
		"released node should rejoin the simulation")
}

func TestPin_OutOfRangeIgnored(t *testing.T) {
	s := newTestSession(t, nil)
	s.Load(testDataset())

	s.Pin(99, graph.Position{X: 1, Y: 1})
	assert.Nil(t, s.pin)
	s.Pin(-1, graph.Position{X: 1, Y: 1})
	assert.Nil(t, s.pin)
}

func TestResetLayout(t *testing.T) {
	bus := pubsub.NewPubSub()
	defer bus.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub := bus.Subscribe(ctx, pubsub.TopicLayoutReset)
	require.NotNil(t, sub)

	s := newTestSession(t, bus)
	s.Load(testDataset())
	s.Pin(0, graph.Position{X: 1, Y: 1})

	ranksBefore := s.Ranks()
	version := s.Graph().Version()

	s.ResetLayout()

	assert.Nil(t, s.pin, "reset releases the pin")
	assert.Same(t, ranksBefore, s.Ranks(), "reset must not recompute ranks")
	assert.Equal(t, version, s.Graph().Version(), "reset must not change topology")

	for _, n := range s.Graph().Nodes {
		assert.GreaterOrEqual(t, n.Position.X, 100.0)
		assert.Less(t, n.Position.X, 700.0)
		assert.GreaterOrEqual(t, n.Position.Y, 100.0)
		assert.Less(t, n.Position.Y, 500.0)
	}

	select {
	case msg := <-sub.Channel():
		_, ok := msg.(LayoutResetEvent)
		assert.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("no LayoutResetEvent received")
	}
}

func TestLoad_EmptyDataset(t *testing.T) {
	s := newTestSession(t, nil)
	s.Load(&ingest.Dataset{ID: "empty"})

	assert.Equal(t, 0, s.Graph().NodeCount())
	assert.Empty(t, s.Ranks().Scores)

	snap := s.Snapshot()
	assert.Empty(t, snap.Nodes)
	assert.Empty(t, snap.Edges)

	s.Tick() // must not panic
}
