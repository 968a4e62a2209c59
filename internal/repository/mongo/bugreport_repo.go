package mongo

import (
	"context"
	"errors"
	"time"

	"superstrong/workout-api/internal/domain"
	"superstrong/workout-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const bugReportCollectionName = "bug_reports"

// mongoBugReportRepository implements repository.BugReportRepository
type mongoBugReportRepository struct {
	collection *mongo.Collection
}

// NewMongoBugReportRepository creates a new BugReport repository.
func NewMongoBugReportRepository(db *mongo.Database) repository.BugReportRepository {
	return &mongoBugReportRepository{
		collection: db.Collection(bugReportCollectionName),
	}
}

// Create inserts a new bug report.
func (r *mongoBugReportRepository) Create(ctx context.Context, report *domain.BugReport) (primitive.ObjectID, error) {
	if report.Message == "" {
		return primitive.NilObjectID, errors.New("bug report message is required")
	}
	report.ID = primitive.NewObjectID()
	report.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, report)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted report ID")
	}
	return insertedID, nil
}
