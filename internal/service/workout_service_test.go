package service

import (
	"context"
	"testing"
	"time"

	"superstrong/workout-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func float64Ptr(v float64) *float64 { return &v }
func intPtr(v int) *int             { return &v }

func seedWorkout(t *testing.T, repo *memWorkoutRepo, userID primitive.ObjectID, date time.Time, weight float64, sets int) *domain.Workout {
	t.Helper()
	workout := &domain.Workout{
		UserID:      userID,
		Date:        date,
		TotalWeight: float64Ptr(weight),
		TotalSets:   intPtr(sets),
	}
	_, err := repo.Create(context.Background(), workout)
	require.NoError(t, err)
	return workout
}

func seedExercise(t *testing.T, repo *memExerciseRepo, workoutID primitive.ObjectID, catalogID string, reps, order int) *domain.Exercise {
	t.Helper()
	exercise := &domain.Exercise{
		WorkoutID: workoutID,
		CatalogID: catalogID,
		Reps:      intPtr(reps),
		Order:     order,
	}
	_, err := repo.Create(context.Background(), exercise)
	require.NoError(t, err)
	return exercise
}

func TestGetWorkoutHidesOtherUsers(t *testing.T) {
	workoutRepo := newMemWorkoutRepo()
	svc := NewWorkoutService(workoutRepo, newMemExerciseRepo())

	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()
	workout := seedWorkout(t, workoutRepo, owner, time.Now().UTC(), 100, 10)

	got, err := svc.GetWorkout(context.Background(), owner, workout.ID)
	require.NoError(t, err)
	assert.Equal(t, workout.ID, got.ID)

	// Someone else's workout is indistinguishable from a missing one.
	_, err = svc.GetWorkout(context.Background(), stranger, workout.ID)
	assert.ErrorIs(t, err, ErrWorkoutNotFound)

	_, err = svc.GetWorkout(context.Background(), owner, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
}

func TestListWorkoutsNewestFirst(t *testing.T) {
	workoutRepo := newMemWorkoutRepo()
	svc := NewWorkoutService(workoutRepo, newMemExerciseRepo())

	userID := primitive.NewObjectID()
	day := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	seedWorkout(t, workoutRepo, userID, day, 50, 5)
	seedWorkout(t, workoutRepo, userID, day.AddDate(0, 0, 2), 60, 6)
	seedWorkout(t, workoutRepo, userID, day.AddDate(0, 0, 1), 70, 7)

	workouts, err := svc.ListWorkouts(context.Background(), userID, 10, 0)
	require.NoError(t, err)
	require.Len(t, workouts, 3)
	assert.True(t, workouts[0].Date.After(workouts[1].Date))
	assert.True(t, workouts[1].Date.After(workouts[2].Date))
}

func TestUpdateWorkoutPartial(t *testing.T) {
	workoutRepo := newMemWorkoutRepo()
	svc := NewWorkoutService(workoutRepo, newMemExerciseRepo())

	userID := primitive.NewObjectID()
	workout := seedWorkout(t, workoutRepo, userID, time.Now().UTC(), 100, 10)

	notes := "felt strong"
	updated, err := svc.UpdateWorkout(context.Background(), userID, workout.ID, WorkoutUpdate{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "felt strong", updated.Notes)
	require.NotNil(t, updated.TotalWeight)
	assert.Equal(t, 100.0, *updated.TotalWeight, "untouched fields survive a partial update")
}

func TestDeleteWorkoutCascadesToExercises(t *testing.T) {
	workoutRepo := newMemWorkoutRepo()
	exerciseRepo := newMemExerciseRepo()
	svc := NewWorkoutService(workoutRepo, exerciseRepo)

	userID := primitive.NewObjectID()
	workout := seedWorkout(t, workoutRepo, userID, time.Now().UTC(), 100, 10)
	seedExercise(t, exerciseRepo, workout.ID, "bench-press", 8, 0)
	seedExercise(t, exerciseRepo, workout.ID, "squat", 5, 1)

	require.NoError(t, svc.DeleteWorkout(context.Background(), userID, workout.ID))

	_, err := svc.GetWorkout(context.Background(), userID, workout.ID)
	assert.ErrorIs(t, err, ErrWorkoutNotFound)

	remaining, err := exerciseRepo.GetByWorkoutID(context.Background(), workout.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining, "cascade must flag every exercise")
}

func TestDeleteWorkoutOwnershipEnforced(t *testing.T) {
	workoutRepo := newMemWorkoutRepo()
	svc := NewWorkoutService(workoutRepo, newMemExerciseRepo())

	workout := seedWorkout(t, workoutRepo, primitive.NewObjectID(), time.Now().UTC(), 100, 10)
	err := svc.DeleteWorkout(context.Background(), primitive.NewObjectID(), workout.ID)
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
}

func TestGetMonthlySummary(t *testing.T) {
	workoutRepo := newMemWorkoutRepo()
	svc := NewWorkoutService(workoutRepo, newMemExerciseRepo())

	userID := primitive.NewObjectID()
	seedWorkout(t, workoutRepo, userID, time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC), 100, 10)
	seedWorkout(t, workoutRepo, userID, time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC), 50, 5)
	// Next year, must not leak into December.
	seedWorkout(t, workoutRepo, userID, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 999, 99)

	summary, err := svc.GetMonthlySummary(context.Background(), userID, 2024, 12)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalWorkouts)
	assert.Equal(t, 150.0, summary.TotalWeight)
	assert.Equal(t, 15, summary.TotalSets)
	assert.Equal(t, 75.0, summary.AverageWeight)

	_, err = svc.GetMonthlySummary(context.Background(), userID, 2024, 13)
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestGetMonthlySummaryEmpty(t *testing.T) {
	svc := NewWorkoutService(newMemWorkoutRepo(), newMemExerciseRepo())

	summary, err := svc.GetMonthlySummary(context.Background(), primitive.NewObjectID(), 2024, 6)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalWorkouts)
	assert.Equal(t, 0.0, summary.AverageWeight)
}
