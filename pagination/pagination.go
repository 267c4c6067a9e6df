// Package pagination pages list results. Totals are computed over the whole
// collection, not the geo-filtered subset, so totalCount and totalPages can
// exceed what the radius actually yields.
package pagination

import (
	"context"
	"net/url"

	"recreo/errs"
	"recreo/geo"
	"recreo/proximity"
	"recreo/utils"
)

const DefaultPageSize = 10

// Request is a parsed page request. Point is nil when the caller did not
// ask for a proximity ordering.
type Request struct {
	Page        int
	Size        int
	Point       *geo.Point
	MaxDistance float64
}

// Page is one page of results with whole-collection totals.
type Page[T any] struct {
	Items       []T
	TotalPages  int
	CurrentPage int
	TotalCount  int64
}

type Controller[T any] struct {
	src proximity.Source[T]
}

func NewController[T any](src proximity.Source[T]) *Controller[T] {
	return &Controller[T]{src: src}
}

// Page fetches the requested page. A page past the end yields no items
// and no error.
func (c *Controller[T]) Page(ctx context.Context, req Request) (Page[T], error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Size < 1 {
		req.Size = DefaultPageSize
	}

	items, err := c.src.Query(ctx, proximity.Query{
		Point:       req.Point,
		MaxDistance: req.MaxDistance,
		Skip:        Skip(req.Page, req.Size),
		Limit:       req.Size,
	})
	if err != nil {
		return Page[T]{}, errs.Wrap("pagination.items", err)
	}
	total, err := c.src.Count(ctx)
	if err != nil {
		return Page[T]{}, errs.Wrap("pagination.count", err)
	}
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:       items,
		TotalPages:  TotalPages(total, req.Size),
		CurrentPage: req.Page,
		TotalCount:  total,
	}, nil
}

func Skip(page, size int) int {
	return (page - 1) * size
}

// TotalPages is ceil(total / size).
func TotalPages(total int64, size int) int {
	if size < 1 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// ParseRequest reads page, limit, lng, lat and maxDistance (km). lng/lat
// are optional, but when either is present both must be valid.
func ParseRequest(q url.Values) (Request, error) {
	req := Request{
		Page: utils.PositiveInt(q.Get("page"), 1),
		Size: utils.PositiveInt(q.Get("limit"), DefaultPageSize),
	}
	if q.Get("lng") == "" && q.Get("lat") == "" {
		return req, nil
	}
	p, err := geo.ParsePoint(q.Get("lng"), q.Get("lat"))
	if err != nil {
		return Request{}, err
	}
	dist, err := proximity.ParseDistance(q)
	if err != nil {
		return Request{}, err
	}
	req.Point = &p
	req.MaxDistance = dist
	return req, nil
}
