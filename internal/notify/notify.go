// Package notify publishes checkpoint progress to downstream consumers.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/goran-ethernal/LogIndexor/internal/common"
	"github.com/goran-ethernal/LogIndexor/internal/logger"
	"github.com/goran-ethernal/LogIndexor/pkg/config"
	"github.com/redis/go-redis/v9"
)

// EventCheckpointAdvanced is published after a batch and its checkpoint were committed.
const EventCheckpointAdvanced = "checkpoint_advanced"

const pingTimeout = 5 * time.Second

// Event describes one committed tick.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	ChainID   uint64    `json:"chain_id"`
	FilterID  string    `json:"filter_id"`
	FromBlock uint64    `json:"from_block"`
	ToBlock   uint64    `json:"to_block"`
	Logs      int       `json:"logs"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier delivers events. Delivery is best effort, the checkpoint is already durable.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
	Close() error
}

// NopNotifier drops every event.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Event) error { return nil }
func (NopNotifier) Close() error                        { return nil }

type publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
	Close() error
}

// RedisNotifier publishes events as JSON on a Redis pub/sub channel.
type RedisNotifier struct {
	client  publisher
	channel string
	log     *logger.Logger
}

// NewRedisNotifier connects to the configured Redis server.
func NewRedisNotifier(ctx context.Context, cfg config.NotifyConfig, log *logger.Logger) (*RedisNotifier, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return newRedisNotifier(client, cfg.Channel, log), nil
}

func newRedisNotifier(client publisher, channel string, log *logger.Logger) *RedisNotifier {
	return &RedisNotifier{
		client:  client,
		channel: channel,
		log:     log.WithComponent(common.ComponentNotifier),
	}
}

// Notify publishes event, filling in the id, type and timestamp when unset.
func (n *RedisNotifier) Notify(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Type == "" {
		event.Type = EventCheckpointAdvanced
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	receivers, err := n.client.Publish(ctx, n.channel, payload).Result()
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", n.channel, err)
	}

	n.log.Debugw("event published",
		"id", event.ID,
		"channel", n.channel,
		"to_block", event.ToBlock,
		"receivers", receivers,
	)

	return nil
}

// Close closes the Redis client.
func (n *RedisNotifier) Close() error {
	return n.client.Close()
}
