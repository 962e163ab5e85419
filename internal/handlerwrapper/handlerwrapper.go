// Package handlerwrapper adapts typed event handlers to watermill. A handler
// receives the decoded payload and returns the events to publish next.
package handlerwrapper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Black-And-White-Club/golf-handicap/internal/eventbus"
)

// Result is an event produced by a handler.
type Result struct {
	Topic    string
	Payload  any
	Metadata map[string]string
}

// WrapTransformingTyped decodes the message payload into T, runs handler inside
// a span and publishes each returned Result to its own topic. The correlation ID
// of the incoming message is carried onto the outgoing ones.
func WrapTransformingTyped[T any](
	handlerName string,
	logger *slog.Logger,
	tracer trace.Tracer,
	publisher message.Publisher,
	handler func(context.Context, *T) ([]Result, error),
) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		correlationID := middleware.MessageCorrelationID(msg)
		ctx := eventbus.WithCorrelationID(msg.Context(), correlationID)

		ctx, span := tracer.Start(ctx, handlerName, trace.WithAttributes(
			attribute.String("message.uuid", msg.UUID),
			attribute.String("correlation_id", correlationID),
		))
		defer span.End()

		payload := new(T)
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			// A payload that cannot be decoded will never succeed; drop it.
			logger.ErrorContext(ctx, "Failed to unmarshal event payload",
				slog.String("handler", handlerName),
				slog.String("message_id", msg.UUID),
				slog.Any("error", err),
			)
			span.RecordError(err)
			return nil
		}

		results, err := handler(ctx, payload)
		if err != nil {
			logger.ErrorContext(ctx, "Event handler failed",
				slog.String("handler", handlerName),
				slog.String("correlation_id", correlationID),
				slog.Any("error", err),
			)
			span.RecordError(err)
			return fmt.Errorf("%s: %w", handlerName, err)
		}

		for _, r := range results {
			out, err := eventbus.NewMessage(ctx, r.Payload)
			if err != nil {
				return fmt.Errorf("%s: %w", handlerName, err)
			}
			for k, v := range r.Metadata {
				out.Metadata.Set(k, v)
			}
			if err := publisher.Publish(r.Topic, out); err != nil {
				return fmt.Errorf("%s: failed to publish %s: %w", handlerName, r.Topic, err)
			}
		}

		logger.DebugContext(ctx, "Event handled",
			slog.String("handler", handlerName),
			slog.Int("results", len(results)),
		)
		return nil
	}
}
