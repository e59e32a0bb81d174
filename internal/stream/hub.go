// Package stream fans out stock changes to subscribed producer dashboards.
package stream

import (
	"context"
	"sync"
	"time"
)

// ChangeType marks what happened to a producer's stock.
type ChangeType string

const (
	ChangeRegistered ChangeType = "registered"
	ChangeDeleted    ChangeType = "deleted"
)

// Change is one stock mutation delivered to subscribers.
type Change struct {
	Type        ChangeType `json:"type"`
	ProductCode string     `json:"productCode"`
	ProducerID  string     `json:"producerId"`
	OccurredAt  time.Time  `json:"occurredAt"`
}

// Hub delivers stock changes to subscribers of a producer. Delivery is
// best-effort: a slow subscriber misses changes rather than blocking the
// publisher.
type Hub interface {
	Publish(ctx context.Context, change Change) error
	// Subscribe returns a channel of changes for one producer and a cancel
	// function that releases the subscription and closes the channel.
	Subscribe(ctx context.Context, producerID string) (<-chan Change, func(), error)
}

const subscriberBuffer = 16

// MemoryHub is a single-process hub.
type MemoryHub struct {
	mu   sync.Mutex
	subs map[string]map[chan Change]struct{}
}

// NewMemoryHub creates an in-process hub.
func NewMemoryHub() *MemoryHub {
	return &MemoryHub{
		subs: make(map[string]map[chan Change]struct{}),
	}
}

// Publish delivers the change to every subscriber of its producer.
func (h *MemoryHub) Publish(ctx context.Context, change Change) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs[change.ProducerID] {
		select {
		case ch <- change:
		default:
			// Subscriber buffer full; drop rather than block.
		}
	}
	return nil
}

// Subscribe registers a subscriber for one producer's changes.
func (h *MemoryHub) Subscribe(ctx context.Context, producerID string) (<-chan Change, func(), error) {
	ch := make(chan Change, subscriberBuffer)

	h.mu.Lock()
	if h.subs[producerID] == nil {
		h.subs[producerID] = make(map[chan Change]struct{})
	}
	h.subs[producerID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[producerID], ch)
			if len(h.subs[producerID]) == 0 {
				delete(h.subs, producerID)
			}
			h.mu.Unlock()
			close(ch)
		})
	}

	return ch, cancel, nil
}
