package usecase

import (
	"context"

	"trackserver/internal/projects/domain/model"
	"trackserver/internal/shared/errors"
)

// Tag set lookups for tasks and models. Company-wide lookups go through the
// Redis cache; project-scoped lookups always hit the repositories.

// GetTaskTags returns the tag sets found on tasks in the projects.
func (uc *ProjectUsecase) GetTaskTags(ctx context.Context, req EntityTagsRequest) (*EntityTagsResponse, error) {
	return uc.entityTags(ctx, model.TaggedEntityTask, req)
}

// GetModelTags returns the tag sets found on models in the projects.
func (uc *ProjectUsecase) GetModelTags(ctx context.Context, req EntityTagsRequest) (*EntityTagsResponse, error) {
	return uc.entityTags(ctx, model.TaggedEntityModel, req)
}

func (uc *ProjectUsecase) entityTags(ctx context.Context, entity model.TaggedEntity, req EntityTagsRequest) (*EntityTagsResponse, error) {
	company, err := uc.company(ctx)
	if err != nil {
		return nil, err
	}

	if err := uc.validateProjectIDs(ctx, company, req.Projects); err != nil {
		return nil, err
	}

	sets, err := uc.loadTagSets(ctx, company, entity, req.Projects)
	if err != nil {
		return nil, err
	}

	resp := &EntityTagsResponse{Tags: sets.Tags}
	if req.IncludeSystem {
		resp.SystemTags = sets.SystemTags
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}

	if req.Filter != nil {
		resp.Tags = intersectTags(resp.Tags, req.Filter.Tags)
		if req.IncludeSystem {
			resp.SystemTags = intersectTags(resp.SystemTags, req.Filter.SystemTags)
		}
	}

	return resp, nil
}

// loadTagSets reads through the cache for company-wide lookups and falls back
// to the entity repositories.
func (uc *ProjectUsecase) loadTagSets(ctx context.Context, company string, entity model.TaggedEntity, projectIDs []string) (*model.TagSets, error) {
	cacheable := len(projectIDs) == 0 && uc.tagsCache != nil

	if cacheable {
		sets, ok, err := uc.tagsCache.Get(ctx, company, entity)
		if err != nil {
			uc.logger.WithContext(ctx).Warnf("Tag cache read failed: %v", err)
		} else if ok {
			return sets, nil
		}
	}

	var (
		sets *model.TagSets
		err  error
	)
	switch entity {
	case model.TaggedEntityModel:
		sets, err = uc.modelRepo.TagSets(ctx, company, projectIDs)
	default:
		sets, err = uc.taskRepo.TagSets(ctx, company, projectIDs)
	}
	if err != nil {
		return nil, errors.NewInternalError("failed to query tags").WithCause(err)
	}

	if cacheable {
		if err := uc.tagsCache.Set(ctx, company, entity, sets); err != nil {
			uc.logger.WithContext(ctx).Warnf("Tag cache write failed: %v", err)
		}
	}

	return sets, nil
}

// intersectTags keeps the tags named by filter, preserving order. An empty
// filter keeps everything.
func intersectTags(tags, filter []string) []string {
	if len(filter) == 0 {
		return tags
	}
	wanted := make(map[string]struct{}, len(filter))
	for _, t := range filter {
		wanted[t] = struct{}{}
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if _, ok := wanted[t]; ok {
			out = append(out, t)
		}
	}
	return out
}
