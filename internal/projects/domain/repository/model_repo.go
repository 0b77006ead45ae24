package repository

import (
	"context"

	"trackserver/internal/projects/domain/model"
)

// ModelRepository is the read/cleanup port over model documents.
type ModelRepository interface {
	// HasNonArchived reports whether any non-archived model references the project.
	HasNonArchived(ctx context.Context, projectID string) (bool, error)

	// DisassociateFromProject clears the project reference on all models of the
	// project and returns the number of models updated.
	DisassociateFromProject(ctx context.Context, projectID string) (int64, error)

	// TagSets returns the distinct tags and system tags on models in the
	// projects (company-wide when projectIDs is empty).
	TagSets(ctx context.Context, company string, projectIDs []string) (*model.TagSets, error)
}
