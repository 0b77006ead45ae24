package usecase

import (
	"trackserver/internal/projects/domain/model"
)

// Request/Response DTOs - Centralized type definitions

// Project CRUD operations

type CreateProjectRequest struct {
	Name                     string   `json:"name" validate:"required"`
	Description              string   `json:"description"`
	Tags                     []string `json:"tags,omitempty"`
	SystemTags               []string `json:"system_tags,omitempty"`
	DefaultOutputDestination string   `json:"default_output_dest,omitempty"`
}

type CreateProjectResponse struct {
	ID string `json:"id"`
}

type GetProjectsRequest struct {
	IDs         []string `json:"id,omitempty"`
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	SystemTags  []string `json:"system_tags,omitempty"`
	OrderBy     []string `json:"order_by,omitempty"`
	Page        int      `json:"page,omitempty"`
	PageSize    int      `json:"page_size,omitempty"`
}

// GetProjectsExRequest extends the plain query with visibility, active-user
// and statistics options.
type GetProjectsExRequest struct {
	GetProjectsRequest
	NonPublic     bool              `json:"non_public,omitempty"`
	ActiveUsers   []string          `json:"active_users,omitempty"`
	IncludeStats  bool              `json:"include_stats,omitempty"`
	StatsForState model.EntityState `json:"stats_for_state,omitempty"`
}

// ProjectWithStats is a project optionally decorated with task statistics.
type ProjectWithStats struct {
	*model.Project
	Stats *model.ProjectStats `json:"stats,omitempty"`
}

type GetProjectsExResponse struct {
	Projects []*ProjectWithStats `json:"projects"`
}

type UpdateProjectRequest struct {
	Name                     *string  `json:"name,omitempty"`
	Description              *string  `json:"description,omitempty"`
	Tags                     []string `json:"tags,omitempty"`
	SystemTags               []string `json:"system_tags,omitempty"`
	DefaultOutputDestination *string  `json:"default_output_dest,omitempty"`
}

type UpdateProjectResponse struct {
	Updated int64                  `json:"updated"`
	Fields  map[string]interface{} `json:"fields,omitempty"`
}

type DeleteProjectResponse struct {
	Deleted             int64 `json:"deleted"`
	DisassociatedTasks  int64 `json:"disassociated_tasks"`
	DisassociatedModels int64 `json:"disassociated_models"`
}

// Aggregation operations

type MetricVariantsRequest struct {
	Projects []string `json:"projects,omitempty"`
}

type MetricVariantsResponse struct {
	Metrics []model.MetricVariants `json:"metrics"`
}

type HyperParamsRequest struct {
	Projects []string `json:"projects,omitempty"`
	Page     int      `json:"page,omitempty"`
	PageSize int      `json:"page_size,omitempty"`
}

type HyperParamsResponse struct {
	Total      int64                `json:"total"`
	Remaining  int64                `json:"remaining"`
	Parameters []model.ParameterKey `json:"parameters"`
}

type HyperParamValuesRequest struct {
	Projects    []string `json:"projects,omitempty"`
	Section     string   `json:"section" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	AllowPublic *bool    `json:"allow_public,omitempty"`
}

type HyperParamValuesResponse struct {
	Total  int64    `json:"total"`
	Values []string `json:"values"`
}

type TaskParentsRequest struct {
	Projects   []string          `json:"projects,omitempty"`
	TasksState model.EntityState `json:"tasks_state,omitempty"`
}

type TaskParentsResponse struct {
	Parents []model.TaskParent `json:"parents"`
}

// Tag operations

// TagsFilter narrows the returned tag sets to the named values.
type TagsFilter struct {
	Tags       []string `json:"tags,omitempty"`
	SystemTags []string `json:"system_tags,omitempty"`
}

type EntityTagsRequest struct {
	Projects      []string    `json:"projects,omitempty"`
	IncludeSystem bool        `json:"include_system,omitempty"`
	Filter        *TagsFilter `json:"filter,omitempty"`
}

type EntityTagsResponse struct {
	Tags       []string `json:"tags"`
	SystemTags []string `json:"system_tags,omitempty"`
}

// Visibility operations

type VisibilityRequest struct {
	IDs []string `json:"ids" validate:"required"`
}

type VisibilityResponse struct {
	Updated int64 `json:"updated"`
}
