package service

import (
	"context"
	"errors"

	"superstrong/workout-api/internal/domain"
	"superstrong/workout-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrWorkoutNotFound is returned both when a workout does not exist and when
// it belongs to someone else. Ownership failures are deliberately
// indistinguishable from absence so ids cannot be enumerated.
var ErrWorkoutNotFound = errors.New("workout not found")

// authorizeWorkout is the single ownership gate used by every workout and
// exercise mutation path. It loads the workout and checks the owner.
func authorizeWorkout(ctx context.Context, repo repository.WorkoutRepository, userID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	workout, err := repo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	if workout.UserID != userID {
		return nil, ErrWorkoutNotFound
	}
	return workout, nil
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(id)
}
