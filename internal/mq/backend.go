package mq

import (
	"context"
	"fmt"

	"github.com/stridetrack/apiserver/config"
)

// OpenFeed builds the activity feed for the configured backend. Returns
// (nil, nil) when no backend is configured; the feed is optional.
func OpenFeed(ctx context.Context, cfg config.EventsConfig) (*MQ, error) {
	switch cfg.Backend {
	case "":
		return nil, nil
	case "rabbitmq":
		client, err := NewRabbitMQClient(cfg.RabbitMQ)
		if err != nil {
			return nil, fmt.Errorf("open rabbitmq feed: %w", err)
		}
		return New(client), nil
	case "pubsub":
		client, err := NewPubSubClient(ctx, cfg.PubSub)
		if err != nil {
			return nil, fmt.Errorf("open pubsub feed: %w", err)
		}
		return New(client), nil
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}
}
