package stream

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryHub_PublishToSubscriber(t *testing.T) {
	hub := NewMemoryHub()
	ctx := context.Background()

	ch, cancel, err := hub.Subscribe(ctx, "producer-1")
	require.NoError(t, err)
	defer cancel()

	change := Change{
		Type:        ChangeRegistered,
		ProductCode: "TRCAAA",
		ProducerID:  "producer-1",
		OccurredAt:  time.Now(),
	}
	require.NoError(t, hub.Publish(ctx, change))

	select {
	case got := <-ch:
		assert.Equal(t, ChangeRegistered, got.Type)
		assert.Equal(t, "TRCAAA", got.ProductCode)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for change")
	}
}

func TestMemoryHub_IsolatesProducers(t *testing.T) {
	hub := NewMemoryHub()
	ctx := context.Background()

	ch, cancel, err := hub.Subscribe(ctx, "producer-1")
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, hub.Publish(ctx, Change{
		Type:        ChangeDeleted,
		ProductCode: "TRCBBB",
		ProducerID:  "producer-2",
	}))

	select {
	case got := <-ch:
		t.Fatalf("received change for another producer: %+v", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMemoryHub_CancelClosesChannel(t *testing.T) {
	hub := NewMemoryHub()

	ch, cancel, err := hub.Subscribe(context.Background(), "producer-1")
	require.NoError(t, err)

	cancel()
	// Cancel must be safe to call twice.
	cancel()

	_, open := <-ch
	assert.False(t, open)

	// Publishing after cancel must not panic or block.
	assert.NoError(t, hub.Publish(context.Background(), Change{ProducerID: "producer-1"}))
}

func TestMemoryHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewMemoryHub()
	ctx := context.Background()

	_, cancel, err := hub.Subscribe(ctx, "producer-1")
	require.NoError(t, err)
	defer cancel()

	donech := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*3; i++ {
			_ = hub.Publish(ctx, Change{ProducerID: "producer-1", ProductCode: "TRCAAA"})
		}
		close(donech)
	}()

	select {
	case <-donech:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
