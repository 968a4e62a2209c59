package service

import (
	"context"
	"errors"

	"superstrong/workout-api/internal/domain"
	"superstrong/workout-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrExerciseNotFound mirrors ErrWorkoutNotFound: absence and a mismatched
// parent workout look identical to the caller.
var ErrExerciseNotFound = errors.New("exercise not found")

// ExerciseUpdate carries a partial exercise update; nil fields are left
// unchanged.
type ExerciseUpdate struct {
	Weight *float64
	Sets   *int
	Reps   *int
	Notes  *string
	Order  *int
}

// ReorderItem pairs an exercise with the display position it should take.
type ReorderItem struct {
	ExerciseID primitive.ObjectID
	Order      int
}

// ExerciseService manages exercise entries nested under a workout. Every
// operation goes through the parent workout's ownership check first.
type ExerciseService interface {
	AddExercise(ctx context.Context, userID, workoutID primitive.ObjectID, catalogID string, weight *float64, sets, reps *int, notes string, order int) (*domain.Exercise, error)
	GetExercises(ctx context.Context, userID, workoutID primitive.ObjectID) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, userID, workoutID, exerciseID primitive.ObjectID, update ExerciseUpdate) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, userID, workoutID, exerciseID primitive.ObjectID) error
	ReorderExercises(ctx context.Context, userID, workoutID primitive.ObjectID, items []ReorderItem) ([]domain.Exercise, error)
}

type exerciseService struct {
	workoutRepo  repository.WorkoutRepository
	exerciseRepo repository.ExerciseRepository
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(workoutRepo repository.WorkoutRepository, exerciseRepo repository.ExerciseRepository) ExerciseService {
	return &exerciseService{
		workoutRepo:  workoutRepo,
		exerciseRepo: exerciseRepo,
	}
}

// AddExercise appends an exercise entry to the user's workout.
func (s *exerciseService) AddExercise(ctx context.Context, userID, workoutID primitive.ObjectID, catalogID string, weight *float64, sets, reps *int, notes string, order int) (*domain.Exercise, error) {
	if _, err := authorizeWorkout(ctx, s.workoutRepo, userID, workoutID); err != nil {
		return nil, err
	}

	exercise := &domain.Exercise{
		WorkoutID: workoutID,
		CatalogID: catalogID,
		Weight:    weight,
		Sets:      sets,
		Reps:      reps,
		Notes:     notes,
		Order:     order,
	}

	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	exercise.ID = exerciseID
	return exercise, nil
}

// GetExercises lists the workout's exercises in display order.
func (s *exerciseService) GetExercises(ctx context.Context, userID, workoutID primitive.ObjectID) ([]domain.Exercise, error) {
	if _, err := authorizeWorkout(ctx, s.workoutRepo, userID, workoutID); err != nil {
		return nil, err
	}
	return s.exerciseRepo.GetByWorkoutID(ctx, workoutID)
}

// getOwnedExercise loads an exercise and checks it belongs to the already
// authorized workout.
func (s *exerciseService) getOwnedExercise(ctx context.Context, workoutID, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	if exercise.WorkoutID != workoutID {
		return nil, ErrExerciseNotFound
	}
	return exercise, nil
}

// UpdateExercise applies a partial update to a single exercise entry.
func (s *exerciseService) UpdateExercise(ctx context.Context, userID, workoutID, exerciseID primitive.ObjectID, update ExerciseUpdate) (*domain.Exercise, error) {
	if _, err := authorizeWorkout(ctx, s.workoutRepo, userID, workoutID); err != nil {
		return nil, err
	}
	exercise, err := s.getOwnedExercise(ctx, workoutID, exerciseID)
	if err != nil {
		return nil, err
	}

	if update.Weight != nil {
		exercise.Weight = update.Weight
	}
	if update.Sets != nil {
		exercise.Sets = update.Sets
	}
	if update.Reps != nil {
		exercise.Reps = update.Reps
	}
	if update.Notes != nil {
		exercise.Notes = *update.Notes
	}
	if update.Order != nil {
		exercise.Order = *update.Order
	}

	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

// DeleteExercise soft-deletes a single exercise entry.
func (s *exerciseService) DeleteExercise(ctx context.Context, userID, workoutID, exerciseID primitive.ObjectID) error {
	if _, err := authorizeWorkout(ctx, s.workoutRepo, userID, workoutID); err != nil {
		return err
	}
	if _, err := s.getOwnedExercise(ctx, workoutID, exerciseID); err != nil {
		return err
	}

	if err := s.exerciseRepo.SoftDelete(ctx, exerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}
	return nil
}

// ReorderExercises applies each explicit position. Items whose id does not
// resolve to an exercise of this workout are skipped without error, so a
// stale client list degrades gracefully. Returns the final ordering.
func (s *exerciseService) ReorderExercises(ctx context.Context, userID, workoutID primitive.ObjectID, items []ReorderItem) ([]domain.Exercise, error) {
	if _, err := authorizeWorkout(ctx, s.workoutRepo, userID, workoutID); err != nil {
		return nil, err
	}

	for _, item := range items {
		exercise, err := s.getOwnedExercise(ctx, workoutID, item.ExerciseID)
		if err != nil {
			if errors.Is(err, ErrExerciseNotFound) {
				continue
			}
			return nil, err
		}
		if exercise.Order == item.Order {
			continue
		}
		exercise.Order = item.Order
		if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
			return nil, err
		}
	}

	return s.exerciseRepo.GetByWorkoutID(ctx, workoutID)
}
