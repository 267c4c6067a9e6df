package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"recreo/errs"
	"recreo/metrics"
)

// read runs a read-style call, retrying once without backoff on a
// transient failure. Missing documents and caller cancellation are final.
func read[T any](ctx context.Context, collection, op string, fn func(context.Context) (T, error)) (T, error) {
	defer metrics.ObserveStore(collection, op, time.Now())

	v, err := fn(ctx)
	if err != nil && retryable(ctx, err) {
		metrics.RecordReadRetry(collection, op)
		v, err = fn(ctx)
	}
	return v, translate(err)
}

// write runs a write-style call once.
func write(ctx context.Context, collection, op string, fn func(context.Context) error) error {
	defer metrics.ObserveStore(collection, op, time.Now())
	return translate(fn(ctx))
}

func retryable(ctx context.Context, err error) bool {
	switch {
	case ctx.Err() != nil:
		return false
	case errors.Is(err, mongo.ErrNoDocuments), errors.Is(err, errs.ErrNoDocument):
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errs.KindOf(err) != errs.KindUnknown:
		return false
	}
	return true
}

func translate(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return errs.ErrNoDocument
	}
	return err
}

// duplicate maps a unique index violation onto a conflict with msg.
// duplicateOn reports whether err is a duplicate key error raised by the
// named index.
func duplicateOn(err error, index string) bool {
	var se mongo.ServerError
	if !errors.As(err, &se) {
		return false
	}
	return se.HasErrorCodeWithMessage(11000, "index: "+index+" ")
}

func duplicate(err error, msg string) error {
	if mongo.IsDuplicateKeyError(err) {
		return errs.Conflict(msg)
	}
	return err
}
