package mq

import (
	"context"
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

type fakePublisher struct {
	channel string
	payload []byte
	err     error
}

func (f *fakePublisher) Publish(_ context.Context, channel string, message any) *redis.IntCmd {
	f.channel = channel
	f.payload, _ = message.([]byte)
	return redis.NewIntResult(1, f.err)
}

func TestRedisEmitterPublishesJSON(t *testing.T) {
	pub := &fakePublisher{}
	NewRedisEmitter(pub, "recreo-events").Emit(context.Background(), Index{
		Name:       CommentCreated,
		EntityType: "Locations",
		EntityID:   "650f",
		ItemID:     "651a",
		Actor:      "ana@example.com",
	})

	if pub.channel != "recreo-events" {
		t.Errorf("channel = %q", pub.channel)
	}
	var got Index
	if err := json.Unmarshal(pub.payload, &got); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if got.Name != CommentCreated || got.EntityID != "650f" || got.At.IsZero() {
		t.Errorf("payload = %+v", got)
	}
}

func TestRedisEmitterSwallowsPublishErrors(t *testing.T) {
	pub := &fakePublisher{err: errors.New("connection refused")}
	// must return normally
	NewRedisEmitter(pub, "c").Emit(context.Background(), Index{Name: EventDeleted})
	if pub.channel != "c" {
		t.Error("publish was not attempted")
	}
}

func TestLogEmitter(t *testing.T) {
	var e Emitter = LogEmitter{}
	e.Emit(context.Background(), Index{Name: UserJoined})
}
