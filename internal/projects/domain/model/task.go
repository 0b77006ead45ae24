package model

import "time"

// TaskStatus enumerates the lifecycle states of a task.
type TaskStatus string

const (
	TaskStatusCreated    TaskStatus = "created"
	TaskStatusQueued     TaskStatus = "queued"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusStopped    TaskStatus = "stopped"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
	TaskStatusPublished  TaskStatus = "published"
	TaskStatusClosed     TaskStatus = "closed"
)

// Task is an experiment execution owned by a project. Only the fields this
// service reads or clears are modeled; the full task document is managed by
// the tasks service.
type Task struct {
	ID             string                       `json:"id" bson:"_id"`
	Name           string                       `json:"name" bson:"name"`
	Company        string                       `json:"company" bson:"company"`
	Project        string                       `json:"project,omitempty" bson:"project,omitempty"`
	User           string                       `json:"user" bson:"user"`
	Status         TaskStatus                   `json:"status" bson:"status"`
	Parent         string                       `json:"parent,omitempty" bson:"parent,omitempty"`
	Tags           []string                     `json:"tags,omitempty" bson:"tags,omitempty"`
	SystemTags     []string                     `json:"system_tags,omitempty" bson:"system_tags,omitempty"`
	HyperParams    map[string]map[string]string `json:"hyperparams,omitempty" bson:"hyperparams,omitempty"`
	LastMetrics    map[string]TaskMetric        `json:"last_metrics,omitempty" bson:"last_metrics,omitempty"`
	ActiveDuration int64                        `json:"active_duration,omitempty" bson:"active_duration,omitempty"`
	Created        time.Time                    `json:"created" bson:"created"`
	LastUpdate     time.Time                    `json:"last_update" bson:"last_update"`
}

// TaskMetric is the last reported value for one (metric, variant) series.
type TaskMetric struct {
	Metric  string  `json:"metric" bson:"metric"`
	Variant string  `json:"variant" bson:"variant"`
	Value   float64 `json:"value" bson:"value"`
}

// MetricVariants groups the variant names reported under a single metric.
type MetricVariants struct {
	Metric   string   `json:"metric" bson:"metric"`
	Variants []string `json:"variants" bson:"variants"`
}

// ParameterKey identifies one hyperparameter as (section, name).
type ParameterKey struct {
	Section string `json:"section" bson:"section"`
	Name    string `json:"name" bson:"name"`
}

// TaskParent is the summary of a parent task returned by parent lookups.
type TaskParent struct {
	ID      string `json:"id" bson:"_id"`
	Name    string `json:"name" bson:"name"`
	Project string `json:"project,omitempty" bson:"project,omitempty"`
}

// EntityState selects active or archived entities in stats and lookups.
type EntityState string

const (
	EntityStateAll      EntityState = "all"
	EntityStateActive   EntityState = "active"
	EntityStateArchived EntityState = "archived"
)

// ValidEntityState reports whether s is an accepted entity state value.
func ValidEntityState(s EntityState) bool {
	switch s {
	case EntityStateAll, EntityStateActive, EntityStateArchived:
		return true
	}
	return false
}
