// Package codelist serves the distinct values of categorical fields,
// cached for a short TTL.
package codelist

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	go_cache "github.com/eko/gocache/store/go_cache/v4"
	gocache "github.com/patrickmn/go-cache"

	"recreo/errs"
	"recreo/logging"
	"recreo/metrics"
)

// Source returns the distinct values of a field.
type Source interface {
	Distinct(ctx context.Context, field string) ([]string, error)
}

// List is one collection's codelists.
type List struct {
	Collection string
	Allowed    []string
	Source     Source
}

type Cache struct {
	cache *cache.Cache[[]string]
	ttl   time.Duration
}

func NewCache(ttl time.Duration) *Cache {
	client := gocache.New(ttl, 2*ttl)
	return &Cache{
		cache: cache.New[[]string](go_cache.NewGoCache(client)),
		ttl:   ttl,
	}
}

// Values returns the codelist named field. Only allowed names are
// served; an empty codelist is reported as not found.
func (c *Cache) Values(ctx context.Context, l List, field string) ([]string, error) {
	if !slices.Contains(l.Allowed, field) {
		return nil, errs.Validation("Parameter 'codelist' must be one of: " + strings.Join(l.Allowed, ", "))
	}

	key := l.Collection + ":" + field
	// any cache error counts as a miss
	if vals, err := c.cache.Get(ctx, key); err == nil {
		metrics.RecordCodelistLookup(true)
		return vals, nil
	}
	metrics.RecordCodelistLookup(false)

	vals, err := l.Source.Distinct(ctx, field)
	if err != nil {
		return nil, errs.Wrap("codelist.distinct", err)
	}
	if len(vals) == 0 {
		return nil, errs.NotFound(fmt.Sprintf("No codelist found for '%s.'", field))
	}
	if err := c.cache.Set(ctx, key, vals, store.WithExpiration(c.ttl)); err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("codelist cache set")
	}
	return vals, nil
}

// Invalidate drops every cached codelist of a collection.
func (c *Cache) Invalidate(ctx context.Context, l List) {
	for _, field := range l.Allowed {
		_ = c.cache.Delete(ctx, l.Collection+":"+field)
	}
}
