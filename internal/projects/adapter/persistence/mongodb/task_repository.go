package mongodb

import (
	"context"
	"fmt"
	"sort"

	"trackserver/internal/projects/domain/model"
	"trackserver/internal/projects/domain/repository"
	"trackserver/internal/shared/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TaskMongoRepository implements repository.TaskRepository over the tasks
// collection. The rollup queries run as aggregation pipelines.
type TaskMongoRepository struct {
	collection CollectionInterface
	logger     logger.Logger
}

var _ repository.TaskRepository = (*TaskMongoRepository)(nil)

// NewTaskMongoRepository creates a task repository bound to db.
func NewTaskMongoRepository(db *mongo.Database, log logger.Logger) *TaskMongoRepository {
	return &TaskMongoRepository{
		collection: NewMongoCollectionAdapter(db.Collection("tasks")),
		logger:     log,
	}
}

// notArchivedFilter matches documents whose system_tags do not carry the
// archived tag.
func notArchivedFilter() bson.M {
	return bson.M{"$nin": bson.A{model.ArchivedSystemTag}}
}

// entityStateFilter adds the archived/active constraint for the given state.
func entityStateFilter(filter bson.M, state model.EntityState) bson.M {
	switch state {
	case model.EntityStateActive:
		filter["system_tags"] = notArchivedFilter()
	case model.EntityStateArchived:
		filter["system_tags"] = model.ArchivedSystemTag
	}
	return filter
}

// projectScope constrains a filter to the given projects when any are named.
func projectScope(filter bson.M, projectIDs []string) bson.M {
	if len(projectIDs) > 0 {
		filter["project"] = bson.M{"$in": projectIDs}
	}
	return filter
}

// HasNonArchived reports whether the project still owns any non-archived task.
func (r *TaskMongoRepository) HasNonArchived(ctx context.Context, projectID string) (bool, error) {
	filter := bson.M{
		"project":     projectID,
		"system_tags": notArchivedFilter(),
	}

	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count > 0, nil
}

// DisassociateFromProject clears the project reference on all tasks of the
// project.
func (r *TaskMongoRepository) DisassociateFromProject(ctx context.Context, projectID string) (int64, error) {
	result, err := r.collection.UpdateMany(ctx,
		bson.M{"project": projectID},
		bson.M{"$unset": bson.M{"project": ""}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to disassociate tasks: %w", err)
	}

	r.logger.WithFields(map[string]interface{}{
		"project_id": projectID,
		"tasks":      result.Modified(),
	}).Info("Disassociated tasks from project")

	return result.Modified(), nil
}

// ProjectsWithActiveUsers returns the projects that own tasks created by the
// given users.
func (r *TaskMongoRepository) ProjectsWithActiveUsers(ctx context.Context, company string, users, projectIDs []string, allowPublic bool) ([]string, error) {
	filter := companyConstraint(company, allowPublic)
	filter["user"] = bson.M{"$in": users}
	projectScope(filter, projectIDs)

	values, err := r.collection.Distinct(ctx, "project", filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query active user projects: %w", err)
	}

	return toStrings(values), nil
}

// UniqueMetricVariants groups the distinct (metric, variant) pairs reported by
// tasks in the projects.
func (r *TaskMongoRepository) UniqueMetricVariants(ctx context.Context, company string, projectIDs []string) ([]model.MetricVariants, error) {
	match := companyConstraint(company, true)
	match["last_metrics"] = bson.M{"$exists": true, "$ne": bson.M{}}
	projectScope(match, projectIDs)

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$project", Value: bson.M{
			"metrics": bson.M{"$objectToArray": "$last_metrics"},
		}}},
		bson.D{{Key: "$unwind", Value: "$metrics"}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":      "$metrics.v.metric",
			"variants": bson.M{"$addToSet": "$metrics.v.variant"},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate metric variants: %w", err)
	}
	defer cursor.Close(ctx)

	var results []model.MetricVariants
	for cursor.Next(ctx) {
		var row struct {
			Metric   string   `bson:"_id"`
			Variants []string `bson:"variants"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode metric variants: %w", err)
		}
		sort.Strings(row.Variants)
		results = append(results, model.MetricVariants{Metric: row.Metric, Variants: row.Variants})
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return results, nil
}

// AggregatedParameters returns the distinct hyperparameter keys across tasks
// in the projects, ordered by section and name and paginated.
func (r *TaskMongoRepository) AggregatedParameters(ctx context.Context, company string, projectIDs []string, page, pageSize int) (int64, []model.ParameterKey, error) {
	match := companyConstraint(company, true)
	match["hyperparams"] = bson.M{"$exists": true, "$ne": bson.M{}}
	projectScope(match, projectIDs)

	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	skip := 0
	if page > 0 {
		skip = page * pageSize
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$project", Value: bson.M{
			"sections": bson.M{"$objectToArray": "$hyperparams"},
		}}},
		bson.D{{Key: "$unwind", Value: "$sections"}},
		bson.D{{Key: "$project", Value: bson.M{
			"section": "$sections.k",
			"names":   bson.M{"$objectToArray": "$sections.v"},
		}}},
		bson.D{{Key: "$unwind", Value: "$names"}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id": bson.M{"section": "$section", "name": "$names.k"},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "_id.section", Value: 1},
			{Key: "_id.name", Value: 1},
		}}},
		bson.D{{Key: "$facet", Value: bson.M{
			"total": bson.A{bson.M{"$count": "count"}},
			"params": bson.A{
				bson.M{"$skip": skip},
				bson.M{"$limit": pageSize},
			},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to aggregate hyperparameters: %w", err)
	}
	defer cursor.Close(ctx)

	var result struct {
		Total []struct {
			Count int64 `bson:"count"`
		} `bson:"total"`
		Params []struct {
			ID model.ParameterKey `bson:"_id"`
		} `bson:"params"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, nil, fmt.Errorf("failed to decode hyperparameters: %w", err)
		}
	}
	if err := cursor.Err(); err != nil {
		return 0, nil, fmt.Errorf("cursor error: %w", err)
	}

	var total int64
	if len(result.Total) > 0 {
		total = result.Total[0].Count
	}
	params := make([]model.ParameterKey, 0, len(result.Params))
	for _, p := range result.Params {
		params = append(params, p.ID)
	}

	return total, params, nil
}

// HyperParamValues returns the distinct values recorded for one hyperparameter
// across tasks in the projects.
func (r *TaskMongoRepository) HyperParamValues(ctx context.Context, company string, projectIDs []string, section, name string, allowPublic bool) (int64, []string, error) {
	field := fmt.Sprintf("hyperparams.%s.%s", section, name)

	filter := companyConstraint(company, allowPublic)
	filter[field] = bson.M{"$exists": true}
	projectScope(filter, projectIDs)

	values, err := r.collection.Distinct(ctx, field, filter)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to query hyperparameter values: %w", err)
	}

	strs := toStrings(values)
	sort.Strings(strs)
	return int64(len(strs)), strs, nil
}

// ParentTasks returns the distinct parents of tasks in the projects. The state
// filter applies to the child tasks, not the parents.
func (r *TaskMongoRepository) ParentTasks(ctx context.Context, company string, projectIDs []string, state model.EntityState) ([]model.TaskParent, error) {
	filter := companyConstraint(company, true)
	filter["parent"] = bson.M{"$exists": true, "$ne": ""}
	projectScope(filter, projectIDs)
	entityStateFilter(filter, state)

	values, err := r.collection.Distinct(ctx, "parent", filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query task parents: %w", err)
	}

	parentIDs := toStrings(values)
	if len(parentIDs) == 0 {
		return nil, nil
	}

	opts := options.Find().
		SetProjection(bson.M{"_id": 1, "name": 1, "project": 1}).
		SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": parentIDs}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load parent tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var parents []model.TaskParent
	for cursor.Next(ctx) {
		var parent model.TaskParent
		if err := cursor.Decode(&parent); err != nil {
			return nil, fmt.Errorf("failed to decode parent task: %w", err)
		}
		parents = append(parents, parent)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return parents, nil
}

// StatsByProject aggregates per-status task counts and runtime for each
// project, split into active and archived buckets.
func (r *TaskMongoRepository) StatsByProject(ctx context.Context, company string, projectIDs []string, state model.EntityState) (map[string]*model.ProjectStats, error) {
	match := companyConstraint(company, true)
	projectScope(match, projectIDs)
	entityStateFilter(match, state)

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"project": "$project",
				"archived": bson.M{"$in": bson.A{
					model.ArchivedSystemTag,
					bson.M{"$ifNull": bson.A{"$system_tags", bson.A{}}},
				}},
				"status": "$status",
			},
			"count":   bson.M{"$sum": 1},
			"runtime": bson.M{"$sum": bson.M{"$ifNull": bson.A{"$active_duration", 0}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate task stats: %w", err)
	}
	defer cursor.Close(ctx)

	stats := make(map[string]*model.ProjectStats)
	for cursor.Next(ctx) {
		var row struct {
			ID struct {
				Project  string `bson:"project"`
				Archived bool   `bson:"archived"`
				Status   string `bson:"status"`
			} `bson:"_id"`
			Count   int64 `bson:"count"`
			Runtime int64 `bson:"runtime"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode task stats: %w", err)
		}

		projectStats, ok := stats[row.ID.Project]
		if !ok {
			projectStats = &model.ProjectStats{}
			stats[row.ID.Project] = projectStats
		}

		var bucket *model.StateStats
		if row.ID.Archived {
			if projectStats.Archived == nil {
				projectStats.Archived = &model.StateStats{StatusCount: make(map[string]int64)}
			}
			bucket = projectStats.Archived
		} else {
			if projectStats.Active == nil {
				projectStats.Active = &model.StateStats{StatusCount: make(map[string]int64)}
			}
			bucket = projectStats.Active
		}

		bucket.StatusCount[row.ID.Status] += row.Count
		bucket.TotalRuntime += row.Runtime
		bucket.TotalTasks += row.Count
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return stats, nil
}

// TagSets returns the distinct tags and system tags on tasks in the projects.
func (r *TaskMongoRepository) TagSets(ctx context.Context, company string, projectIDs []string) (*model.TagSets, error) {
	return distinctTagSets(ctx, r.collection, company, projectIDs)
}

// distinctTagSets collects the distinct tags and system_tags values for a
// company, optionally scoped to a set of projects. Shared by the task and
// model repositories.
func distinctTagSets(ctx context.Context, col CollectionInterface, company string, projectIDs []string) (*model.TagSets, error) {
	filter := companyConstraint(company, true)
	projectScope(filter, projectIDs)

	tags, err := col.Distinct(ctx, "tags", filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	systemTags, err := col.Distinct(ctx, "system_tags", filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query system tags: %w", err)
	}

	sets := &model.TagSets{
		Tags:       toStrings(tags),
		SystemTags: toStrings(systemTags),
	}
	sort.Strings(sets.Tags)
	sort.Strings(sets.SystemTags)
	return sets, nil
}

// toStrings filters a Distinct result down to its string values.
func toStrings(values []interface{}) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
