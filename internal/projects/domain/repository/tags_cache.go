package repository

import (
	"context"

	"trackserver/internal/projects/domain/model"
)

// TagsCache caches the per-company tag sets served by the tag endpoints.
// Cache misses fall through to the entity repositories; entries expire on TTL
// and are invalidated when projects of the company change.
type TagsCache interface {
	// Get returns the cached tag sets, or ok=false on a miss.
	Get(ctx context.Context, company string, entity model.TaggedEntity) (sets *model.TagSets, ok bool, err error)

	Set(ctx context.Context, company string, entity model.TaggedEntity, sets *model.TagSets) error

	// Invalidate drops all cached tag sets for the company.
	Invalidate(ctx context.Context, company string) error
}
