package pubsub

import (
	"context"
	"sync"
)

// Topics published by the explorer session.
const (
	TopicGraphLoaded  = "graph.loaded"
	TopicRankComputed = "rank.computed"
	TopicLayoutReset  = "layout.reset"
)

// PubSub provides in-process publish/subscribe for explorer events. The
// session publishes dataset-load and rank-compute notifications; the
// presentation layer subscribes.
type PubSub struct {
	subscribers map[string]map[*Subscription]bool
	mu          sync.RWMutex
	shutdown    chan struct{}
	shutdownMu  sync.Mutex
	isShutdown  bool
}

// Subscription represents a subscription to a topic
type Subscription struct {
	topic     string
	channel   chan any
	ps        *PubSub
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewPubSub creates a new PubSub instance
func NewPubSub() *PubSub {
	return &PubSub{
		subscribers: make(map[string]map[*Subscription]bool),
		shutdown:    make(chan struct{}),
	}
}

// Subscribe creates a new subscription to a topic. The subscription is torn
// down when ctx is cancelled, Unsubscribe is called, or the bus shuts down.
// Returns nil after shutdown.
func (ps *PubSub) Subscribe(ctx context.Context, topic string) *Subscription {
	ps.shutdownMu.Lock()
	if ps.isShutdown {
		ps.shutdownMu.Unlock()
		return nil
	}
	ps.shutdownMu.Unlock()

	subCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		topic:   topic,
		channel: make(chan any, 16),
		ps:      ps,
		cancel:  cancel,
	}

	ps.mu.Lock()
	if ps.subscribers[topic] == nil {
		ps.subscribers[topic] = make(map[*Subscription]bool)
	}
	ps.subscribers[topic][sub] = true
	ps.mu.Unlock()

	go func() {
		select {
		case <-subCtx.Done():
			sub.Unsubscribe()
		case <-ps.shutdown:
			sub.close()
		}
	}()

	return sub
}

// Publish sends a message to all current subscribers of a topic. Slow
// subscribers drop messages rather than blocking the publisher; the lock is
// released before any channel send.
func (ps *PubSub) Publish(topic string, message any) {
	ps.shutdownMu.Lock()
	if ps.isShutdown {
		ps.shutdownMu.Unlock()
		return
	}
	ps.shutdownMu.Unlock()

	ps.mu.RLock()
	subs := make([]*Subscription, 0, len(ps.subscribers[topic]))
	for sub := range ps.subscribers[topic] {
		subs = append(subs, sub)
	}
	ps.mu.RUnlock()

	for _, sub := range subs {
		select {
		case sub.channel <- message:
		default:
		}
	}
}

// Shutdown closes every subscription and rejects further publishes.
func (ps *PubSub) Shutdown() {
	ps.shutdownMu.Lock()
	if ps.isShutdown {
		ps.shutdownMu.Unlock()
		return
	}
	ps.isShutdown = true
	close(ps.shutdown)
	ps.shutdownMu.Unlock()

	ps.mu.Lock()
	for _, subs := range ps.subscribers {
		for sub := range subs {
			sub.close()
		}
	}
	ps.subscribers = make(map[string]map[*Subscription]bool)
	ps.mu.Unlock()
}

// Channel returns the receive channel for the subscription.
func (s *Subscription) Channel() <-chan any {
	return s.channel
}

// Unsubscribe removes the subscription from its topic and closes the channel.
func (s *Subscription) Unsubscribe() {
	s.ps.mu.Lock()
	if subs := s.ps.subscribers[s.topic]; subs != nil {
		delete(subs, s)
		if len(subs) == 0 {
			delete(s.ps.subscribers, s.topic)
		}
	}
	s.ps.mu.Unlock()
	s.close()
}

func (s *Subscription) close() {
	s.closeOnce.Do(func() {
		s.cancel()
		close(s.channel)
	})
}
