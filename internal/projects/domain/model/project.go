package model

import (
	"errors"
	"time"
)

// Project is the top-level grouping entity for experiments. Tasks and models
// reference a project by id; visibility is controlled through the company
// field: an empty company marks the project as public, with the owning
// company preserved in CompanyOrigin so it can be made private again.
type Project struct {
	ID                       string    `json:"id" bson:"_id"`
	Name                     string    `json:"name" bson:"name"`
	Description              string    `json:"description" bson:"description"`
	Company                  string    `json:"company" bson:"company"`
	CompanyOrigin            string    `json:"company_origin,omitempty" bson:"company_origin,omitempty"`
	User                     string    `json:"user" bson:"user"`
	Tags                     []string  `json:"tags,omitempty" bson:"tags,omitempty"`
	SystemTags               []string  `json:"system_tags,omitempty" bson:"system_tags,omitempty"`
	DefaultOutputDestination string    `json:"default_output_destination,omitempty" bson:"default_output_destination,omitempty"`
	Created                  time.Time `json:"created" bson:"created"`
	LastUpdate               time.Time `json:"last_update" bson:"last_update"`
}

// IsPublic reports whether the project is visible outside its owning company.
func (p *Project) IsPublic() bool {
	return p.Company == ""
}

// IsArchived reports whether the project carries the archived system tag.
func (p *Project) IsArchived() bool {
	for _, tag := range p.SystemTags {
		if tag == ArchivedSystemTag {
			return true
		}
	}
	return false
}

// ValidateName checks the project name constraint on create.
func ValidateName(name string) error {
	if name == "" {
		return ErrEmptyProjectName
	}
	if len(name) > maxNameLength {
		return ErrProjectNameTooLong
	}
	return nil
}

const maxNameLength = 256

// ProjectStats aggregates task information for a single project, bucketed by
// entity visibility state (active / archived).
type ProjectStats struct {
	Active   *StateStats `json:"active,omitempty" bson:"active,omitempty"`
	Archived *StateStats `json:"archived,omitempty" bson:"archived,omitempty"`
}

// StateStats holds the per-status task counts and accumulated runtime for one
// visibility state.
type StateStats struct {
	StatusCount  map[string]int64 `json:"status_count" bson:"status_count"`
	TotalRuntime int64            `json:"total_runtime" bson:"total_runtime"`
	TotalTasks   int64            `json:"total_tasks" bson:"total_tasks"`
}

// Common project-related errors
var (
	ErrEmptyProjectName   = errors.New("project name cannot be empty")
	ErrProjectNameTooLong = errors.New("project name exceeds maximum length")
)
