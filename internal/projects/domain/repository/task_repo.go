package repository

import (
	"context"

	"trackserver/internal/projects/domain/model"
)

// TaskRepository is the read/cleanup port over task documents. The heavy
// lifting (metric variants, hyperparameter rollups, parent lookups) runs as
// Mongo aggregation pipelines behind this interface.
type TaskRepository interface {
	// HasNonArchived reports whether any non-archived task references the project.
	HasNonArchived(ctx context.Context, projectID string) (bool, error)

	// DisassociateFromProject clears the project reference on all tasks of the
	// project and returns the number of tasks updated.
	DisassociateFromProject(ctx context.Context, projectID string) (int64, error)

	// ProjectsWithActiveUsers returns the subset of projectIDs (or all company
	// projects when projectIDs is empty) that own tasks created by the users.
	ProjectsWithActiveUsers(ctx context.Context, company string, users, projectIDs []string, allowPublic bool) ([]string, error)

	// UniqueMetricVariants returns the distinct (metric, variant) pairs
	// reported by tasks in the projects, grouped by metric.
	UniqueMetricVariants(ctx context.Context, company string, projectIDs []string) ([]model.MetricVariants, error)

	// AggregatedParameters returns the distinct hyperparameter (section, name)
	// pairs across tasks in the projects, ordered and paginated.
	AggregatedParameters(ctx context.Context, company string, projectIDs []string, page, pageSize int) (total int64, params []model.ParameterKey, err error)

	// HyperParamValues returns the distinct values recorded for one
	// hyperparameter across tasks in the projects.
	HyperParamValues(ctx context.Context, company string, projectIDs []string, section, name string, allowPublic bool) (int64, []string, error)

	// ParentTasks returns the distinct parents of tasks in the projects,
	// filtered by task state.
	ParentTasks(ctx context.Context, company string, projectIDs []string, state model.EntityState) ([]model.TaskParent, error)

	// StatsByProject aggregates per-status task counts and runtime for each
	// project, bucketed by visibility state.
	StatsByProject(ctx context.Context, company string, projectIDs []string, state model.EntityState) (map[string]*model.ProjectStats, error)

	// TagSets returns the distinct tags and system tags on tasks in the
	// projects (company-wide when projectIDs is empty).
	TagSets(ctx context.Context, company string, projectIDs []string) (*model.TagSets, error)
}
