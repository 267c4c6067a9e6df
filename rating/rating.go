// Package rating keeps an entity's denormalized rating in step with its
// embedded comments.
package rating

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"recreo/logging"
	"recreo/metrics"
)

// Average is the truncated mean of ratings, or 0 when there are none.
func Average(ratings []int) int {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return sum / len(ratings)
}

// Store reads the persisted comment ratings of an entity and writes its
// rating field.
type Store interface {
	CommentRatings(ctx context.Context, id primitive.ObjectID) ([]int, error)
	SetRating(ctx context.Context, id primitive.ObjectID, rating int) error
}

type Aggregator struct {
	store      Store
	collection string
	timeout    time.Duration
}

func NewAggregator(store Store, collection string) *Aggregator {
	return &Aggregator{store: store, collection: collection, timeout: 5 * time.Second}
}

// Recompute re-reads the entity's comments and stores their average.
// Failures are logged and never returned; rating freshness is best effort.
// It is not serialized against concurrent comment writes.
func (a *Aggregator) Recompute(ctx context.Context, id primitive.ObjectID) {
	// the triggering request may already be finishing
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
	defer cancel()

	err := a.recompute(ctx, id)
	metrics.RecordRatingRecompute(a.collection, err)
	if err != nil {
		logging.Warn().Err(err).
			Str("collection", a.collection).
			Str("id", id.Hex()).
			Msg("rating recompute failed")
	}
}

func (a *Aggregator) recompute(ctx context.Context, id primitive.ObjectID) error {
	ratings, err := a.store.CommentRatings(ctx, id)
	if err != nil {
		return err
	}
	avg := Average(ratings)
	if err := a.store.SetRating(ctx, id, avg); err != nil {
		return err
	}
	logging.Debug().Str("collection", a.collection).Str("id", id.Hex()).Int("rating", avg).Msg("average rating updated")
	return nil
}
