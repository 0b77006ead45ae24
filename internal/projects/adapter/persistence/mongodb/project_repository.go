package mongodb

import (
	"context"
	"fmt"
	"time"

	"trackserver/internal/projects/domain/model"
	"trackserver/internal/projects/domain/repository"
	"trackserver/internal/shared/errors"
	"trackserver/internal/shared/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProjectMongoRepository implements repository.ProjectRepository over the
// projects collection.
type ProjectMongoRepository struct {
	collection CollectionInterface
	logger     logger.Logger
}

var _ repository.ProjectRepository = (*ProjectMongoRepository)(nil)

// NewProjectMongoRepository creates a project repository bound to db.
func NewProjectMongoRepository(db *mongo.Database, log logger.Logger) *ProjectMongoRepository {
	return &ProjectMongoRepository{
		collection: NewMongoCollectionAdapter(db.Collection("projects")),
		logger:     log,
	}
}

// Create inserts a new project document.
func (r *ProjectMongoRepository) Create(ctx context.Context, project *model.Project) error {
	if _, err := r.collection.InsertOne(ctx, project); err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}

	r.logger.WithFields(map[string]interface{}{
		"project_id": project.ID,
		"company_id": project.Company,
	}).Info("Created project")

	return nil
}

// GetByID returns a project owned by the company or public.
func (r *ProjectMongoRepository) GetByID(ctx context.Context, company, projectID string) (*model.Project, error) {
	filter := companyConstraint(company, true)
	filter["_id"] = projectID

	var project model.Project
	if err := r.collection.FindOne(ctx, filter).Decode(&project); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &project, nil
}

// GetForWriting returns a project only when the company owns it. Public
// projects are not writable through tenant requests.
func (r *ProjectMongoRepository) GetForWriting(ctx context.Context, company, projectID string) (*model.Project, error) {
	filter := bson.M{"_id": projectID, "company": company}

	var project model.Project
	if err := r.collection.FindOne(ctx, filter).Decode(&project); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project for writing: %w", err)
	}

	return &project, nil
}

// GetMany runs a filtered, ordered, paginated query over the company's
// projects.
func (r *ProjectMongoRepository) GetMany(ctx context.Context, company string, query repository.ProjectQuery) ([]*model.Project, error) {
	filter := buildProjectFilter(company, query)
	opts := buildFindOptions(query)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer cursor.Close(ctx)

	var projects []*model.Project
	for cursor.Next(ctx) {
		var project model.Project
		if err := cursor.Decode(&project); err != nil {
			return nil, fmt.Errorf("failed to decode project: %w", err)
		}
		projects = append(projects, &project)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return projects, nil
}

// Update applies a partial update and stamps last_update. The returned count
// is the number of matched documents.
func (r *ProjectMongoRepository) Update(ctx context.Context, company, projectID string, update repository.ProjectUpdate) (int64, error) {
	set := bson.M{"last_update": time.Now().UTC()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Tags != nil {
		set["tags"] = update.Tags
	}
	if update.SystemTags != nil {
		set["system_tags"] = update.SystemTags
	}
	if update.DefaultOutputDestination != nil {
		set["default_output_destination"] = *update.DefaultOutputDestination
	}

	filter := bson.M{"_id": projectID, "company": company}
	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return 0, fmt.Errorf("failed to update project: %w", err)
	}

	r.logger.WithFields(map[string]interface{}{
		"project_id": projectID,
		"company_id": company,
		"matched":    result.Matched(),
	}).Info("Updated project")

	return result.Matched(), nil
}

// Delete removes the project document by id. Tenant ownership is expected to
// be validated by the caller via GetForWriting.
func (r *ProjectMongoRepository) Delete(ctx context.Context, projectID string) (int64, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": projectID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete project: %w", err)
	}

	r.logger.WithFields(map[string]interface{}{
		"project_id": projectID,
		"deleted":    result.Deleted(),
	}).Info("Deleted project")

	return result.Deleted(), nil
}

// ExistingIDs filters ids down to those visible to the company.
func (r *ProjectMongoRepository) ExistingIDs(ctx context.Context, company string, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	filter := companyConstraint(company, true)
	filter["_id"] = bson.M{"$in": ids}

	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query project ids: %w", err)
	}
	defer cursor.Close(ctx)

	var existing []string
	for cursor.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode project id: %w", err)
		}
		existing = append(existing, doc.ID)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return existing, nil
}

// SetPublic clears the company on the given projects, recording the owner in
// company_origin so the change can be reversed.
func (r *ProjectMongoRepository) SetPublic(ctx context.Context, company string, ids []string) (int64, error) {
	filter := bson.M{"_id": bson.M{"$in": ids}, "company": company}
	update := bson.M{"$set": bson.M{"company": "", "company_origin": company}}

	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to make projects public: %w", err)
	}

	r.logger.WithFields(map[string]interface{}{
		"company_id": company,
		"updated":    result.Modified(),
	}).Info("Made projects public")

	return result.Modified(), nil
}

// SetPrivate restores company ownership on projects previously made public by
// the same company.
func (r *ProjectMongoRepository) SetPrivate(ctx context.Context, company string, ids []string) (int64, error) {
	filter := bson.M{"_id": bson.M{"$in": ids}, "company": "", "company_origin": company}
	update := bson.M{
		"$set":   bson.M{"company": company},
		"$unset": bson.M{"company_origin": ""},
	}

	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to make projects private: %w", err)
	}

	r.logger.WithFields(map[string]interface{}{
		"company_id": company,
		"updated":    result.Modified(),
	}).Info("Made projects private")

	return result.Modified(), nil
}

// CreateIndexes creates the indexes used by the tenant-scoped queries.
func (r *ProjectMongoRepository) CreateIndexes(ctx context.Context) error {
	adapter, ok := r.collection.(*MongoCollectionAdapter)
	if !ok {
		return fmt.Errorf("collection does not support index creation")
	}

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "company", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "company", Value: 1}, {Key: "last_update", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "tags", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "system_tags", Value: 1}},
		},
	}

	if _, err := adapter.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}
