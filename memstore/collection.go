// Package memstore is an in-process document store with the same contracts
// as the Mongo repositories. It backs the memory driver and the tests.
package memstore

import (
	"context"
	"slices"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"recreo/errs"
	"recreo/geo"
	"recreo/models"
	"recreo/proximity"
)

// Collection holds documents of type T addressed through the Entity
// methods of *T.
type Collection[T any, P interface {
	*T
	models.Entity
}] struct {
	mu   sync.RWMutex
	docs []T
}

func NewCollection[T any, P interface {
	*T
	models.Entity
}]() *Collection[T, P] {
	return &Collection[T, P]{}
}

func (c *Collection[T, P]) index(id primitive.ObjectID) int {
	for i := range c.docs {
		if P(&c.docs[i]).GetID() == id {
			return i
		}
	}
	return -1
}

func clone[T any, P interface {
	*T
	models.Entity
}](doc *T) P {
	cp := *doc
	p := P(&cp)
	p.SetComments(slices.Clone(p.GetComments()))
	return p
}

// Insert stores doc, assigning an id when it has none.
func (c *Collection[T, P]) Insert(ctx context.Context, doc P) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if doc.GetID().IsZero() {
		doc.SetID(primitive.NewObjectID())
	}
	if c.index(doc.GetID()) >= 0 {
		return errs.Conflict("Document with id '" + doc.GetID().Hex() + "' already exists.")
	}
	c.docs = append(c.docs, *clone[T, P](doc))
	return nil
}

// Get returns a copy of the full document.
func (c *Collection[T, P]) Get(ctx context.Context, id primitive.ObjectID) (P, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := c.index(id)
	if i < 0 {
		return nil, errs.ErrNoDocument
	}
	return clone[T, P](&c.docs[i]), nil
}

func (c *Collection[T, P]) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.index(id)
	if i < 0 {
		return errs.ErrNoDocument
	}
	c.docs = slices.Delete(c.docs, i, i+1)
	return nil
}

// update applies fn to the stored document under the write lock.
func (c *Collection[T, P]) update(ctx context.Context, id primitive.ObjectID, fn func(P) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.index(id)
	if i < 0 {
		return errs.ErrNoDocument
	}
	return fn(P(&c.docs[i]))
}

type hit[P any] struct {
	doc  P
	dist float64
}

// Query filters, orders by distance when a point is given, then applies
// skip and limit. Results carry the list projection.
func (c *Collection[T, P]) Query(ctx context.Context, q proximity.Query) ([]P, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	var hits []hit[P]
	for i := range c.docs {
		doc := P(&c.docs[i])
		if !q.Filters.Matches(doc) {
			continue
		}
		h := hit[P]{doc: clone[T, P](&c.docs[i])}
		if q.Point != nil {
			pt, ok := geo.FromCoordinates(doc.GetCoordinates())
			if !ok {
				continue
			}
			h.dist = geo.Distance(*q.Point, pt)
			if h.dist > q.MaxDistance {
				continue
			}
		}
		hits = append(hits, h)
	}
	c.mu.RUnlock()

	if q.Point != nil {
		sort.SliceStable(hits, func(a, b int) bool { return hits[a].dist < hits[b].dist })
	}
	if q.Skip > 0 {
		if q.Skip >= len(hits) {
			hits = nil
		} else {
			hits = hits[q.Skip:]
		}
	}
	if q.Limit > 0 && len(hits) > q.Limit {
		hits = hits[:q.Limit]
	}

	out := make([]P, 0, len(hits))
	for _, h := range hits {
		h.doc.ListView()
		if q.Point != nil {
			h.doc.SetDistance(h.dist)
		}
		out = append(out, h.doc)
	}
	return out, nil
}

func (c *Collection[T, P]) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return int64(len(c.docs)), nil
}

// Distinct returns the sorted set of values of field.
func (c *Collection[T, P]) Distinct(ctx context.Context, field string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := map[string]struct{}{}
	for i := range c.docs {
		for _, v := range P(&c.docs[i]).Attr(field) {
			if v != "" {
				seen[v] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

func (c *Collection[T, P]) Thread(ctx context.Context, id primitive.ObjectID) (*models.Thread, error) {
	doc, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.Thread{ID: doc.GetID(), Name: doc.GetName(), Comments: doc.GetComments()}, nil
}

// PushComment inserts cm at the front of the comment list.
func (c *Collection[T, P]) PushComment(ctx context.Context, id primitive.ObjectID, cm models.Comment) error {
	return c.update(ctx, id, func(doc P) error {
		doc.SetComments(append([]models.Comment{cm}, doc.GetComments()...))
		return nil
	})
}

// SetComment replaces the comment with cm.ID in place.
func (c *Collection[T, P]) SetComment(ctx context.Context, id primitive.ObjectID, cm models.Comment) error {
	return c.update(ctx, id, func(doc P) error {
		comments := doc.GetComments()
		i := models.FindComment(comments, cm.ID)
		if i < 0 {
			return errs.ErrNoDocument
		}
		comments[i] = cm
		return nil
	})
}

func (c *Collection[T, P]) PullComment(ctx context.Context, id, commentID primitive.ObjectID) error {
	return c.update(ctx, id, func(doc P) error {
		comments := doc.GetComments()
		i := models.FindComment(comments, commentID)
		if i < 0 {
			return errs.ErrNoDocument
		}
		doc.SetComments(slices.Delete(comments, i, i+1))
		return nil
	})
}

func (c *Collection[T, P]) CommentRatings(ctx context.Context, id primitive.ObjectID) ([]int, error) {
	doc, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return models.Ratings(doc.GetComments()), nil
}

func (c *Collection[T, P]) SetRating(ctx context.Context, id primitive.ObjectID, rating int) error {
	return c.update(ctx, id, func(doc P) error {
		doc.SetRating(rating)
		return nil
	})
}
