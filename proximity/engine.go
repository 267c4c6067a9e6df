// Package proximity builds and runs "nearest within radius" and attribute
// filter queries over locations and events.
package proximity

import (
	"context"
	"math"
	"net/url"
	"strconv"

	"recreo/errs"
	"recreo/geo"
	"recreo/utils"
)

// Source executes list queries against one collection. Implementations
// must return results ordered by ascending distance when q.Point is set
// and must apply the list projection.
type Source[T any] interface {
	Query(ctx context.Context, q Query) ([]T, error)
	Count(ctx context.Context) (int64, error)
}

// Messages are the not-found texts for an empty result set.
type Messages struct {
	Empty       string
	EmptySearch string
}

type Engine[T any] struct {
	src  Source[T]
	msgs Messages
}

func NewEngine[T any](src Source[T], msgs Messages) *Engine[T] {
	return &Engine[T]{src: src, msgs: msgs}
}

// FindNear returns at most q.Limit entities within q.MaxDistance of
// q.Point, nearest first.
func (e *Engine[T]) FindNear(ctx context.Context, q Query) ([]T, error) {
	if q.Point == nil {
		return nil, errs.Validation(geo.MissingPointMsg)
	}
	return e.run(ctx, "proximity.near", q, e.msgs.Empty)
}

// Search applies attribute filters without a geo stage.
func (e *Engine[T]) Search(ctx context.Context, f Filters, limit int) ([]T, error) {
	return e.run(ctx, "proximity.search", Query{Filters: f, Limit: limit}, e.msgs.EmptySearch)
}

func (e *Engine[T]) ListAll(ctx context.Context, limit int) ([]T, error) {
	return e.run(ctx, "proximity.all", Query{Limit: limit}, e.msgs.Empty)
}

func (e *Engine[T]) run(ctx context.Context, op string, q Query, emptyMsg string) ([]T, error) {
	items, err := e.src.Query(ctx, q)
	if err != nil {
		return nil, errs.Wrap(op, err)
	}
	if len(items) == 0 {
		return nil, errs.NotFound(emptyMsg)
	}
	return items, nil
}

// ParseNear reads lng, lat, distance (or maxDistance) in kilometres,
// nResults and the allowed attribute filters from a query string.
func ParseNear(q url.Values, allow AllowList) (Query, error) {
	p, err := geo.ParsePoint(q.Get("lng"), q.Get("lat"))
	if err != nil {
		return Query{}, err
	}
	dist, err := ParseDistance(q)
	if err != nil {
		return Query{}, err
	}
	f, err := BuildFilters(q, allow)
	if err != nil {
		return Query{}, err
	}
	return Query{Point: &p, MaxDistance: dist, Filters: f, Limit: ParseLimit(q.Get("nResults"))}, nil
}

// ParseDistance returns the search radius in metres, 5 km when absent.
func ParseDistance(q url.Values) (float64, error) {
	raw := q.Get("distance")
	if raw == "" {
		raw = q.Get("maxDistance")
	}
	if raw == "" {
		return geo.KilometersToMeters(DefaultMaxDistanceKm), nil
	}
	km, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(km) || math.IsInf(km, 0) {
		return geo.KilometersToMeters(DefaultMaxDistanceKm), nil
	}
	if km < 0 {
		return 0, errs.Validation("Query parameter 'distance' must not be negative.")
	}
	return geo.KilometersToMeters(km), nil
}

// ParseLimit reads nResults; missing, unparsable or non-positive values
// fall back to the default.
func ParseLimit(raw string) int {
	return utils.PositiveInt(raw, DefaultLimit)
}
