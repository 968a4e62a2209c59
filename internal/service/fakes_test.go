package service

import (
	"context"
	"sort"
	"time"

	"superstrong/workout-api/internal/domain"
	"superstrong/workout-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repositories mirroring the Mongo implementations' visible
// behavior: soft-deleted rows are invisible to reads, lists come back in the
// same sort order, and the duplicate-key rule on telegram id holds.

type memUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	if user.TelegramID != nil {
		for _, existing := range r.users {
			if existing.TelegramID != nil && *existing.TelegramID == *user.TelegramID {
				return primitive.NilObjectID, repository.ErrDuplicateKey
			}
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	return user.ID, nil
}

func (r *memUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *memUserRepo) GetByTelegramID(_ context.Context, telegramID int64) (*domain.User, error) {
	for _, user := range r.users {
		if user.TelegramID != nil && *user.TelegramID == telegramID {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	clone := *user
	clone.UpdatedAt = time.Now().UTC()
	r.users[user.ID] = &clone
	return nil
}

type memWorkoutRepo struct {
	workouts map[primitive.ObjectID]*domain.Workout
}

func newMemWorkoutRepo() *memWorkoutRepo {
	return &memWorkoutRepo{workouts: make(map[primitive.ObjectID]*domain.Workout)}
}

func (r *memWorkoutRepo) Create(_ context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	workout.ID = primitive.NewObjectID()
	workout.CreatedAt = time.Now().UTC()
	workout.UpdatedAt = workout.CreatedAt
	clone := *workout
	r.workouts[workout.ID] = &clone
	return workout.ID, nil
}

func (r *memWorkoutRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	workout, ok := r.workouts[id]
	if !ok || workout.IsDeleted {
		return nil, repository.ErrNotFound
	}
	clone := *workout
	return &clone, nil
}

func (r *memWorkoutRepo) GetByUserID(_ context.Context, userID primitive.ObjectID, limit, offset int64) ([]domain.Workout, error) {
	matched := []domain.Workout{}
	for _, workout := range r.workouts {
		if workout.UserID == userID && !workout.IsDeleted {
			matched = append(matched, *workout)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Date.After(matched[j].Date)
	})
	if offset >= int64(len(matched)) {
		return []domain.Workout{}, nil
	}
	matched = matched[offset:]
	if int64(len(matched)) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *memWorkoutRepo) GetByUserAndDateRange(_ context.Context, userID primitive.ObjectID, start, end time.Time) ([]domain.Workout, error) {
	matched := []domain.Workout{}
	for _, workout := range r.workouts {
		if workout.UserID != userID || workout.IsDeleted {
			continue
		}
		if workout.Date.Before(start) || workout.Date.After(end) {
			continue
		}
		matched = append(matched, *workout)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Date.Before(matched[j].Date)
	})
	return matched, nil
}

func (r *memWorkoutRepo) Update(_ context.Context, workout *domain.Workout) error {
	if _, ok := r.workouts[workout.ID]; !ok {
		return repository.ErrNotFound
	}
	clone := *workout
	clone.UpdatedAt = time.Now().UTC()
	r.workouts[workout.ID] = &clone
	return nil
}

func (r *memWorkoutRepo) SoftDelete(_ context.Context, id primitive.ObjectID) error {
	workout, ok := r.workouts[id]
	if !ok {
		return repository.ErrNotFound
	}
	workout.IsDeleted = true
	return nil
}

type memExerciseRepo struct {
	exercises map[primitive.ObjectID]*domain.Exercise
}

func newMemExerciseRepo() *memExerciseRepo {
	return &memExerciseRepo{exercises: make(map[primitive.ObjectID]*domain.Exercise)}
}

func (r *memExerciseRepo) Create(_ context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	exercise.ID = primitive.NewObjectID()
	exercise.CreatedAt = time.Now().UTC()
	exercise.UpdatedAt = exercise.CreatedAt
	clone := *exercise
	r.exercises[exercise.ID] = &clone
	return exercise.ID, nil
}

func (r *memExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	exercise, ok := r.exercises[id]
	if !ok || exercise.IsDeleted {
		return nil, repository.ErrNotFound
	}
	clone := *exercise
	return &clone, nil
}

func (r *memExerciseRepo) GetByWorkoutID(_ context.Context, workoutID primitive.ObjectID) ([]domain.Exercise, error) {
	matched := []domain.Exercise{}
	for _, exercise := range r.exercises {
		if exercise.WorkoutID == workoutID && !exercise.IsDeleted {
			matched = append(matched, *exercise)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Order < matched[j].Order
	})
	return matched, nil
}

func (r *memExerciseRepo) GetByCatalogID(_ context.Context, catalogID string) ([]domain.Exercise, error) {
	matched := []domain.Exercise{}
	for _, exercise := range r.exercises {
		if exercise.CatalogID == catalogID && !exercise.IsDeleted {
			matched = append(matched, *exercise)
		}
	}
	return matched, nil
}

func (r *memExerciseRepo) Update(_ context.Context, exercise *domain.Exercise) error {
	if _, ok := r.exercises[exercise.ID]; !ok {
		return repository.ErrNotFound
	}
	clone := *exercise
	clone.UpdatedAt = time.Now().UTC()
	r.exercises[exercise.ID] = &clone
	return nil
}

func (r *memExerciseRepo) SoftDelete(_ context.Context, id primitive.ObjectID) error {
	exercise, ok := r.exercises[id]
	if !ok {
		return repository.ErrNotFound
	}
	exercise.IsDeleted = true
	return nil
}

func (r *memExerciseRepo) SoftDeleteByWorkoutID(_ context.Context, workoutID primitive.ObjectID) error {
	for _, exercise := range r.exercises {
		if exercise.WorkoutID == workoutID {
			exercise.IsDeleted = true
		}
	}
	return nil
}

type memBugReportRepo struct {
	reports []*domain.BugReport
}

func (r *memBugReportRepo) Create(_ context.Context, report *domain.BugReport) (primitive.ObjectID, error) {
	report.ID = primitive.NewObjectID()
	report.CreatedAt = time.Now().UTC()
	clone := *report
	r.reports = append(r.reports, &clone)
	return report.ID, nil
}
