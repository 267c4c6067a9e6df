package mq

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"recreo/logging"
	"recreo/metrics"
)

const (
	CommentCreated = "comment.created"
	CommentUpdated = "comment.updated"
	CommentDeleted = "comment.deleted"
	EventCreated   = "event.created"
	EventUpdated   = "event.updated"
	EventDeleted   = "event.deleted"
	UserJoined     = "event.user_joined"
	UserLeft       = "event.user_left"
	SportCreated   = "sport.created"
)

// Index describes one domain change.
type Index struct {
	Name       string    `json:"event"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	ItemID     string    `json:"item_id,omitempty"`
	Actor      string    `json:"actor,omitempty"`
	At         time.Time `json:"at"`
}

// Emitter publishes domain events. Emit never fails the caller.
type Emitter interface {
	Emit(ctx context.Context, ev Index)
}

// Publisher is the subset of *redis.Client the emitter needs.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

type RedisEmitter struct {
	pub     Publisher
	channel string
}

func NewRedisEmitter(pub Publisher, channel string) *RedisEmitter {
	return &RedisEmitter{pub: pub, channel: channel}
}

// Emit publishes ev as JSON to the configured channel.
func (e *RedisEmitter) Emit(ctx context.Context, ev Index) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	data, err := json.Marshal(ev)
	if err == nil {
		err = e.pub.Publish(context.WithoutCancel(ctx), e.channel, data).Err()
	}
	metrics.RecordDomainEvent(ev.Name, err)
	if err != nil {
		logging.Warn().Err(err).Str("event", ev.Name).Str("channel", e.channel).Msg("publish domain event")
		return
	}
	logging.Debug().Str("event", ev.Name).Str("entity_id", ev.EntityID).Msg("domain event published")
}

// LogEmitter only logs; used when Redis is not configured.
type LogEmitter struct{}

func (LogEmitter) Emit(_ context.Context, ev Index) {
	metrics.RecordDomainEvent(ev.Name, nil)
	logging.Debug().Str("event", ev.Name).Str("entity_type", ev.EntityType).Str("entity_id", ev.EntityID).Msg("domain event")
}
