package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

// channelPrefix namespaces the pub/sub channels used by the hub.
const channelPrefix = "agrotrace.stock."

// RedisHub fans out changes across service instances via Redis pub/sub.
type RedisHub struct {
	client *redis.Client
	log    *slog.Logger
}

// NewRedisHub creates a Redis-backed hub.
func NewRedisHub(client *redis.Client, log *slog.Logger) *RedisHub {
	return &RedisHub{client: client, log: log}
}

// Publish sends the change to the producer's channel.
func (h *RedisHub) Publish(ctx context.Context, change Change) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("marshal stock change: %w", err)
	}

	if err := h.client.Publish(ctx, channelPrefix+change.ProducerID, payload).Err(); err != nil {
		return fmt.Errorf("publish stock change: %w", err)
	}
	return nil
}

// Subscribe listens on the producer's channel until cancelled.
func (h *RedisHub) Subscribe(ctx context.Context, producerID string) (<-chan Change, func(), error) {
	pubsub := h.client.Subscribe(ctx, channelPrefix+producerID)

	// Force the subscription to be established before returning so a change
	// published right after Subscribe is not lost.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("subscribe stock channel: %w", err)
	}

	out := make(chan Change, subscriberBuffer)
	done := make(chan struct{})

	go func() {
		defer close(out)
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case msg, ok := <-pubsub.Channel():
				if !ok {
					return
				}
				var change Change
				if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
					h.log.Warn("dropping malformed stock change", "error", err)
					continue
				}
				select {
				case out <- change:
				default:
				}
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			_ = pubsub.Close()
		})
	}

	return out, cancel, nil
}
