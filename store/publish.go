package store

import (
	"LiquorStore/events"
	"context"

	"go.uber.org/zap"
)

// publish hands an event to the publisher after the write committed. Delivery
// problems are logged and never fail the request.
func publish(ctx context.Context, pub events.Publisher, topic, key string, payload any) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, topic, key, payload); err != nil {
		zap.L().Warn("publish event", zap.String("topic", topic), zap.String("key", key), zap.Error(err))
	}
}
