// Package event publishes domain events to Kafka.
package event

import (
	"context"
	"time"

	"github.com/AdrielVSG/ProjetoAgroTrace/internal/domain"
	"github.com/AdrielVSG/ProjetoAgroTrace/pkg/kafka"
)

// Topics carrying this service's domain events.
const (
	TopicUserRegistered    = "agrotrace.user.registered"
	TopicProductRegistered = "agrotrace.product.registered"
	TopicProductDeleted    = "agrotrace.product.deleted"
	TopicRatingSubmitted   = "agrotrace.rating.submitted"
)

// source identifies this service in event envelopes.
const source = "agrotrace-backend"

// Publisher emits domain events. Implementations must not block business
// operations; callers log failures and move on.
type Publisher interface {
	UserRegistered(ctx context.Context, user *domain.User) error
	ProductRegistered(ctx context.Context, product *domain.Product) error
	ProductDeleted(ctx context.Context, productCode, producerID string) error
	RatingSubmitted(ctx context.Context, rating *domain.Rating) error
}

// UserRegisteredPayload is the user.registered event body. The email is
// omitted on purpose; downstream consumers address users by ID.
type UserRegisteredPayload struct {
	UserID       string    `json:"user_id"`
	Role         string    `json:"role"`
	RegisteredAt time.Time `json:"registered_at"`
}

// ProductRegisteredPayload is the product.registered event body.
type ProductRegisteredPayload struct {
	ProductCode  string    `json:"product_code"`
	Name         string    `json:"name"`
	Origin       string    `json:"origin"`
	ProducerID   string    `json:"producer_id"`
	RegisteredAt time.Time `json:"registered_at"`
}

// ProductDeletedPayload is the product.deleted event body.
type ProductDeletedPayload struct {
	ProductCode string    `json:"product_code"`
	ProducerID  string    `json:"producer_id"`
	DeletedAt   time.Time `json:"deleted_at"`
}

// RatingSubmittedPayload is the rating.submitted event body.
type RatingSubmittedPayload struct {
	RatingID    string    `json:"rating_id"`
	ProductCode string    `json:"product_code"`
	UserID      string    `json:"user_id"`
	Score       int       `json:"score"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// KafkaPublisher publishes domain events through the shared Kafka producer.
type KafkaPublisher struct {
	producer *kafka.Producer
}

// NewKafkaPublisher creates a Kafka-backed publisher.
func NewKafkaPublisher(producer *kafka.Producer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

func (p *KafkaPublisher) publish(ctx context.Context, topic, eventType, aggregateID, aggregateType string, payload any) error {
	ev, err := kafka.NewEvent(eventType, aggregateID, aggregateType, source, payload)
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, topic, ev)
}

// UserRegistered emits a user.registered event.
func (p *KafkaPublisher) UserRegistered(ctx context.Context, user *domain.User) error {
	return p.publish(ctx, TopicUserRegistered, "user.registered", user.ID, "user",
		UserRegisteredPayload{
			UserID:       user.ID,
			Role:         user.Role,
			RegisteredAt: user.CreatedAt,
		})
}

// ProductRegistered emits a product.registered event.
func (p *KafkaPublisher) ProductRegistered(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductRegistered, "product.registered", product.Code, "product",
		ProductRegisteredPayload{
			ProductCode:  product.Code,
			Name:         product.Name,
			Origin:       product.Origin,
			ProducerID:   product.ProducerID,
			RegisteredAt: product.CreatedAt,
		})
}

// ProductDeleted emits a product.deleted event.
func (p *KafkaPublisher) ProductDeleted(ctx context.Context, productCode, producerID string) error {
	return p.publish(ctx, TopicProductDeleted, "product.deleted", productCode, "product",
		ProductDeletedPayload{
			ProductCode: productCode,
			ProducerID:  producerID,
			DeletedAt:   time.Now().UTC(),
		})
}

// RatingSubmitted emits a rating.submitted event.
func (p *KafkaPublisher) RatingSubmitted(ctx context.Context, rating *domain.Rating) error {
	return p.publish(ctx, TopicRatingSubmitted, "rating.submitted", rating.ProductCode, "rating",
		RatingSubmittedPayload{
			RatingID:    rating.ID,
			ProductCode: rating.ProductCode,
			UserID:      rating.UserID,
			Score:       rating.Score,
			SubmittedAt: rating.CreatedAt,
		})
}

// NoopPublisher drops every event. Used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) UserRegistered(context.Context, *domain.User) error       { return nil }
func (NoopPublisher) ProductRegistered(context.Context, *domain.Product) error { return nil }
func (NoopPublisher) ProductDeleted(context.Context, string, string) error     { return nil }
func (NoopPublisher) RatingSubmitted(context.Context, *domain.Rating) error    { return nil }
