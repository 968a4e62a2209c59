package repository

import (
	"context"
	"time"

	"superstrong/workout-api/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicateKey = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors from driver errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
// Lookups by telegram id and by username are independent indexed queries.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// WorkoutRepository defines the interface for interacting with workout data.
// All read methods filter out soft-deleted rows.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID, limit, offset int64) ([]domain.Workout, error)
	GetByUserAndDateRange(ctx context.Context, userID primitive.ObjectID, start, end time.Time) ([]domain.Workout, error)
	Update(ctx context.Context, workout *domain.Workout) error
	SoftDelete(ctx context.Context, id primitive.ObjectID) error
}

// ExerciseRepository defines the interface for interacting with exercise
// entries nested under workouts.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	GetByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) ([]domain.Exercise, error)
	GetByCatalogID(ctx context.Context, catalogID string) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	SoftDelete(ctx context.Context, id primitive.ObjectID) error
	// SoftDeleteByWorkoutID flags every exercise of a workout in one pass,
	// including ones already flagged.
	SoftDeleteByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) error
}

// BugReportRepository stores free-standing bug reports.
type BugReportRepository interface {
	Create(ctx context.Context, report *domain.BugReport) (primitive.ObjectID, error)
}
