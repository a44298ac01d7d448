// Package events carries the tracker's lifecycle notifications. Consumers
// must wait for the corresponding topic rather than assuming data is ready
// when a triggering call returns; stage ordering itself is enforced by the
// coordinator, not by subscriber registration order.
package events

import (
	"context"
	"sync"
	"time"
)

// Topic names one lifecycle signal.
type Topic string

const (
	// Raw spreadsheet rows have arrived.
	TopicBaseDataFetched Topic = "fetched:base-data"
	// Categories and bills are materialized and associated.
	TopicBaseDataLoaded Topic = "loaded:base-data"
	// The bulk lookup response has arrived.
	TopicBillDataFetched Topic = "fetched:basic-bill-data"
	// Every bulk record is normalized and written to the store.
	TopicBillDataLoaded Topic = "loaded:basic-bill-data"
	// A per-category detail fetch has settled (global and scoped forms).
	TopicExternalBillsFetched Topic = "fetched:external-bills"
)

// Event is one published lifecycle signal. CategoryID is set only on the
// category-scoped form of TopicExternalBillsFetched.
type Event struct {
	Topic      Topic
	CategoryID string
	Count      int
	At         time.Time
}

// Key returns the routing form of the event, with the category suffix on
// scoped events.
func (e Event) Key() string {
	if e.CategoryID != "" {
		return string(e.Topic) + ":category:" + e.CategoryID
	}
	return string(e.Topic)
}

type Handler func(ctx context.Context, e Event)

// Bus is a small synchronous observer registry.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Topic][]Handler
	all      []Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[Topic][]Handler)}
}

// Subscribe registers a handler for one topic.
func (b *Bus) Subscribe(topic Topic, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], h)
}

// SubscribeAll registers a handler for every topic, used by relays.
func (b *Bus) SubscribeAll(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, h)
}

// SubscribeCategory registers a handler for the category-scoped form of a
// topic.
func (b *Bus) SubscribeCategory(topic Topic, categoryID string, h Handler) {
	b.Subscribe(topic, func(ctx context.Context, e Event) {
		if e.CategoryID == categoryID {
			h(ctx, e)
		}
	})
}

// Publish delivers the event synchronously to topic and wildcard handlers.
func (b *Bus) Publish(ctx context.Context, e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	b.mu.RLock()
	topicHandlers := append([]Handler(nil), b.handlers[e.Topic]...)
	allHandlers := append([]Handler(nil), b.all...)
	b.mu.RUnlock()

	for _, h := range topicHandlers {
		h(ctx, e)
	}
	for _, h := range allHandlers {
		h(ctx, e)
	}
}
