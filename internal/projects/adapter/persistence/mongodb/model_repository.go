package mongodb

import (
	"context"
	"fmt"

	"trackserver/internal/projects/domain/model"
	"trackserver/internal/projects/domain/repository"
	"trackserver/internal/shared/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ModelMongoRepository implements repository.ModelRepository over the models
// collection.
type ModelMongoRepository struct {
	collection CollectionInterface
	logger     logger.Logger
}

var _ repository.ModelRepository = (*ModelMongoRepository)(nil)

// NewModelMongoRepository creates a model repository bound to db.
func NewModelMongoRepository(db *mongo.Database, log logger.Logger) *ModelMongoRepository {
	return &ModelMongoRepository{
		collection: NewMongoCollectionAdapter(db.Collection("models")),
		logger:     log,
	}
}

// HasNonArchived reports whether the project still owns any non-archived model.
func (r *ModelMongoRepository) HasNonArchived(ctx context.Context, projectID string) (bool, error) {
	filter := bson.M{
		"project":     projectID,
		"system_tags": notArchivedFilter(),
	}

	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to count models: %w", err)
	}
	return count > 0, nil
}

// DisassociateFromProject clears the project reference on all models of the
// project.
func (r *ModelMongoRepository) DisassociateFromProject(ctx context.Context, projectID string) (int64, error) {
	result, err := r.collection.UpdateMany(ctx,
		bson.M{"project": projectID},
		bson.M{"$unset": bson.M{"project": ""}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to disassociate models: %w", err)
	}

	r.logger.WithFields(map[string]interface{}{
		"project_id": projectID,
		"models":     result.Modified(),
	}).Info("Disassociated models from project")

	return result.Modified(), nil
}

// TagSets returns the distinct tags and system tags on models in the projects.
func (r *ModelMongoRepository) TagSets(ctx context.Context, company string, projectIDs []string) (*model.TagSets, error) {
	return distinctTagSets(ctx, r.collection, company, projectIDs)
}
