package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"inventory.GO/config"
	inventoryEntity "inventory.GO/model/entity/inventory"
)

// Sink receives low-stock events after a successful persist. Delivery
// guarantees beyond at-least-once are the consumer's concern.
type Sink interface {
	Publish(ctx context.Context, ev inventoryEntity.StockLowEvent) error
}

// RedisSink publishes events as JSON to a Redis pub/sub channel.
type RedisSink struct {
	client  *redis.Client
	channel string
}

// NewRedisSink builds a sink over the given client. Returns nil when the
// client is nil (Redis not configured) so callers can fall back.
func NewRedisSink(client *redis.Client, channel string) *RedisSink {
	if client == nil {
		return nil
	}
	if channel == "" {
		channel = "stock.low"
	}
	return &RedisSink{client: client, channel: channel}
}

func (s *RedisSink) Publish(ctx context.Context, ev inventoryEntity.StockLowEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := s.client.Publish(ctx, s.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", s.channel, err)
	}
	return nil
}

// LogSink writes events to the process log. Used when Redis is absent.
type LogSink struct{}

func (LogSink) Publish(_ context.Context, ev inventoryEntity.StockLowEvent) error {
	log.Printf("stock low: record=%d name=%q on_hand=%d", ev.RecordID, ev.Name, ev.QuantityOnHand)
	return nil
}

// DefaultSink picks the Redis sink when configured, the log sink otherwise.
func DefaultSink() Sink {
	channel := "stock.low"
	if config.AppConfig != nil {
		channel = config.AppConfig.EventChannel
	}
	if s := NewRedisSink(config.RedisClient, channel); s != nil {
		return s
	}
	return LogSink{}
}
