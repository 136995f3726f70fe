package redisclient

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// EventPublisher pushes booking events onto a Redis pub/sub channel for the
// notification and chat systems. Subscribers may be absent; PUBLISH with no
// listeners is not an error.
type EventPublisher struct {
	client  *redis.Client
	channel string
}

func NewEventPublisher(client *redis.Client, channel string) *EventPublisher {
	if channel == "" {
		channel = "booking.events"
	}
	return &EventPublisher{client: client, channel: channel}
}

func (p *EventPublisher) PublishBookingEvent(ctx context.Context, payload []byte) error {
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish booking event: %w", err)
	}
	return nil
}
