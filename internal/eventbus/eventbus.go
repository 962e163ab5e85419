// Package eventbus provides the watermill publisher/subscriber pair the modules
// exchange domain events over. Without a NATS URL events stay in process.
package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmnats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	nc "github.com/nats-io/nats.go"

	"github.com/Black-And-White-Club/golf-handicap/config"
)

// EventBus publishes and subscribes to domain events.
type EventBus interface {
	message.Publisher
	message.Subscriber
}

type eventBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	broadcast  message.Subscriber
	logger     *slog.Logger
}

var _ EventBus = (*eventBus)(nil)

// NewEventBus creates an event bus backed by NATS core subjects when cfg.URL is
// set, and by an in-memory go channel otherwise.
func NewEventBus(ctx context.Context, cfg config.NATSConfig, logger *slog.Logger) (EventBus, error) {
	wmLogger := watermill.NewSlogLogger(logger)

	if cfg.URL == "" {
		logger.InfoContext(ctx, "NATS URL not configured, using in-memory event bus")
		return NewInMemory(logger), nil
	}

	options := []nc.Option{
		nc.RetryOnFailedConnect(true),
		nc.Timeout(30 * time.Second),
		nc.ReconnectWait(1 * time.Second),
		nc.ErrorHandler(func(_ *nc.Conn, s *nc.Subscription, err error) {
			if s != nil {
				logger.Error("NATS subscription error",
					slog.String("subject", s.Subject),
					slog.String("queue", s.Queue),
					slog.Any("error", err),
				)
				return
			}
			logger.Error("NATS connection error", slog.Any("error", err))
		}),
	}

	marshaler := &wmnats.NATSMarshaler{}
	jetStream := wmnats.JetStreamConfig{Disabled: true}

	publisher, err := wmnats.NewPublisher(wmnats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: options,
		Marshaler:   marshaler,
		JetStream:   jetStream,
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
	}

	subscriber, err := wmnats.NewSubscriber(wmnats.SubscriberConfig{
		URL:              cfg.URL,
		QueueGroupPrefix: "golf-handicap",
		SubscribersCount: 1,
		CloseTimeout:     30 * time.Second,
		AckWaitTimeout:   30 * time.Second,
		NatsOptions:      options,
		Unmarshaler:      marshaler,
		JetStream:        jetStream,
	}, wmLogger)
	if err != nil {
		_ = publisher.Close()
		return nil, fmt.Errorf("failed to create NATS subscriber: %w", err)
	}

	// no queue group: every instance receives every message
	broadcast, err := wmnats.NewSubscriber(wmnats.SubscriberConfig{
		URL:              cfg.URL,
		SubscribersCount: 1,
		CloseTimeout:     30 * time.Second,
		AckWaitTimeout:   30 * time.Second,
		NatsOptions:      options,
		Unmarshaler:      marshaler,
		JetStream:        jetStream,
	}, wmLogger)
	if err != nil {
		_ = subscriber.Close()
		_ = publisher.Close()
		return nil, fmt.Errorf("failed to create NATS broadcast subscriber: %w", err)
	}

	logger.InfoContext(ctx, "Connected event bus to NATS", slog.String("url", cfg.URL))

	return &eventBus{publisher: publisher, subscriber: subscriber, broadcast: broadcast, logger: logger}, nil
}

// NewInMemory creates an event bus that delivers messages within the process.
func NewInMemory(logger *slog.Logger) EventBus {
	ch := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, watermill.NewSlogLogger(logger))
	return &eventBus{publisher: ch, subscriber: ch, broadcast: ch, logger: logger}
}

// Broadcaster is implemented by buses that can deliver every message to every
// instance, bypassing the queue group load balancing of Subscribe.
type Broadcaster interface {
	Broadcast() message.Subscriber
}

// Broadcast returns a subscriber outside any queue group.
func (b *eventBus) Broadcast() message.Subscriber {
	return b.broadcast
}

// BroadcastSubscriber returns bus's broadcast subscriber, or bus itself when it
// has none.
func BroadcastSubscriber(bus EventBus) message.Subscriber {
	if b, ok := bus.(Broadcaster); ok && b.Broadcast() != nil {
		return b.Broadcast()
	}
	return bus
}

// Publish publishes messages to topic.
func (b *eventBus) Publish(topic string, messages ...*message.Message) error {
	return b.publisher.Publish(topic, messages...)
}

// Subscribe subscribes to topic.
func (b *eventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.subscriber.Subscribe(ctx, topic)
}

// Close closes the subscribers and the publisher.
func (b *eventBus) Close() error {
	var errs []error
	if err := b.subscriber.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close subscriber: %w", err))
	}
	if b.broadcast != nil && any(b.broadcast) != any(b.subscriber) {
		if err := b.broadcast.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close broadcast subscriber: %w", err))
		}
	}
	// gochannel shares one value for both sides
	if any(b.publisher) != any(b.subscriber) {
		if err := b.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close publisher: %w", err))
		}
	}
	return errors.Join(errs...)
}

// NewMessage marshals payload into a watermill message carrying the correlation
// ID from ctx, or a fresh one.
func NewMessage(ctx context.Context, payload any) (*message.Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	correlationID := CorrelationIDFromContext(ctx)
	if correlationID == "" {
		correlationID = watermill.NewUUID()
	}
	middleware.SetCorrelationID(correlationID, msg)
	msg.SetContext(ctx)
	return msg, nil
}

// PublishEvent marshals payload and publishes it to topic.
func PublishEvent(ctx context.Context, publisher message.Publisher, topic string, payload any) error {
	msg, err := NewMessage(ctx, payload)
	if err != nil {
		return err
	}
	if err := publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", topic, err)
	}
	return nil
}

type correlationIDKey struct{}

// WithCorrelationID stores a correlation ID on ctx.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// CorrelationIDFromContext returns the correlation ID stored on ctx, if any.
func CorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}
