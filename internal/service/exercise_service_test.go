package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAddExerciseRequiresOwnedWorkout(t *testing.T) {
	workoutRepo := newMemWorkoutRepo()
	exerciseRepo := newMemExerciseRepo()
	svc := NewExerciseService(workoutRepo, exerciseRepo)

	owner := primitive.NewObjectID()
	workout := seedWorkout(t, workoutRepo, owner, time.Now().UTC(), 100, 10)

	exercise, err := svc.AddExercise(context.Background(), owner, workout.ID, "deadlift", float64Ptr(120), intPtr(3), intPtr(5), "", 0)
	require.NoError(t, err)
	assert.Equal(t, "deadlift", exercise.CatalogID)

	_, err = svc.AddExercise(context.Background(), primitive.NewObjectID(), workout.ID, "deadlift", nil, nil, nil, "", 0)
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
}

func TestGetExercisesInDisplayOrder(t *testing.T) {
	workoutRepo := newMemWorkoutRepo()
	exerciseRepo := newMemExerciseRepo()
	svc := NewExerciseService(workoutRepo, exerciseRepo)

	owner := primitive.NewObjectID()
	workout := seedWorkout(t, workoutRepo, owner, time.Now().UTC(), 100, 10)
	seedExercise(t, exerciseRepo, workout.ID, "c", 5, 2)
	seedExercise(t, exerciseRepo, workout.ID, "a", 5, 0)
	seedExercise(t, exerciseRepo, workout.ID, "b", 5, 1)

	exercises, err := svc.GetExercises(context.Background(), owner, workout.ID)
	require.NoError(t, err)
	require.Len(t, exercises, 3)
	assert.Equal(t, "a", exercises[0].CatalogID)
	assert.Equal(t, "b", exercises[1].CatalogID)
	assert.Equal(t, "c", exercises[2].CatalogID)
}

func TestUpdateExerciseRejectsForeignWorkout(t *testing.T) {
	workoutRepo := newMemWorkoutRepo()
	exerciseRepo := newMemExerciseRepo()
	svc := NewExerciseService(workoutRepo, exerciseRepo)

	owner := primitive.NewObjectID()
	workoutA := seedWorkout(t, workoutRepo, owner, time.Now().UTC(), 100, 10)
	workoutB := seedWorkout(t, workoutRepo, owner, time.Now().UTC(), 50, 5)
	exercise := seedExercise(t, exerciseRepo, workoutA.ID, "row", 8, 0)

	// Right exercise, wrong parent workout.
	_, err := svc.UpdateExercise(context.Background(), owner, workoutB.ID, exercise.ID, ExerciseUpdate{Reps: intPtr(12)})
	assert.ErrorIs(t, err, ErrExerciseNotFound)

	updated, err := svc.UpdateExercise(context.Background(), owner, workoutA.ID, exercise.ID, ExerciseUpdate{Reps: intPtr(12)})
	require.NoError(t, err)
	require.NotNil(t, updated.Reps)
	assert.Equal(t, 12, *updated.Reps)
}

func TestDeleteExercise(t *testing.T) {
	workoutRepo := newMemWorkoutRepo()
	exerciseRepo := newMemExerciseRepo()
	svc := NewExerciseService(workoutRepo, exerciseRepo)

	owner := primitive.NewObjectID()
	workout := seedWorkout(t, workoutRepo, owner, time.Now().UTC(), 100, 10)
	exercise := seedExercise(t, exerciseRepo, workout.ID, "curl", 10, 0)

	require.NoError(t, svc.DeleteExercise(context.Background(), owner, workout.ID, exercise.ID))

	exercises, err := svc.GetExercises(context.Background(), owner, workout.ID)
	require.NoError(t, err)
	assert.Empty(t, exercises)

	err = svc.DeleteExercise(context.Background(), owner, workout.ID, exercise.ID)
	assert.ErrorIs(t, err, ErrExerciseNotFound, "soft-deleted exercise reads as absent")
}

func TestReorderExercisesSkipsUnknownIDs(t *testing.T) {
	workoutRepo := newMemWorkoutRepo()
	exerciseRepo := newMemExerciseRepo()
	svc := NewExerciseService(workoutRepo, exerciseRepo)

	owner := primitive.NewObjectID()
	workout := seedWorkout(t, workoutRepo, owner, time.Now().UTC(), 100, 10)
	first := seedExercise(t, exerciseRepo, workout.ID, "a", 5, 0)
	second := seedExercise(t, exerciseRepo, workout.ID, "b", 5, 1)

	// Unknown id in the middle is skipped; the known items still get their
	// explicit positions.
	ordered, err := svc.ReorderExercises(context.Background(), owner, workout.ID, []ReorderItem{
		{ExerciseID: second.ID, Order: 0},
		{ExerciseID: primitive.NewObjectID(), Order: 1},
		{ExerciseID: first.ID, Order: 2},
	})
	require.NoError(t, err)
	require.Len(t, ordered, 2)
	assert.Equal(t, "b", ordered[0].CatalogID)
	assert.Equal(t, 0, ordered[0].Order)
	assert.Equal(t, "a", ordered[1].CatalogID)
	assert.Equal(t, 2, ordered[1].Order)
}

func TestReorderExercisesAppliesExplicitPositions(t *testing.T) {
	workoutRepo := newMemWorkoutRepo()
	exerciseRepo := newMemExerciseRepo()
	svc := NewExerciseService(workoutRepo, exerciseRepo)

	owner := primitive.NewObjectID()
	workout := seedWorkout(t, workoutRepo, owner, time.Now().UTC(), 100, 10)
	first := seedExercise(t, exerciseRepo, workout.ID, "a", 5, 0)
	second := seedExercise(t, exerciseRepo, workout.ID, "b", 5, 1)

	// Arbitrary, non-contiguous positions are applied as given.
	ordered, err := svc.ReorderExercises(context.Background(), owner, workout.ID, []ReorderItem{
		{ExerciseID: first.ID, Order: 10},
		{ExerciseID: second.ID, Order: 3},
	})
	require.NoError(t, err)
	require.Len(t, ordered, 2)
	assert.Equal(t, "b", ordered[0].CatalogID)
	assert.Equal(t, 3, ordered[0].Order)
	assert.Equal(t, "a", ordered[1].CatalogID)
	assert.Equal(t, 10, ordered[1].Order)
}

func TestReorderExercisesOwnership(t *testing.T) {
	workoutRepo := newMemWorkoutRepo()
	exerciseRepo := newMemExerciseRepo()
	svc := NewExerciseService(workoutRepo, exerciseRepo)

	workout := seedWorkout(t, workoutRepo, primitive.NewObjectID(), time.Now().UTC(), 100, 10)
	_, err := svc.ReorderExercises(context.Background(), primitive.NewObjectID(), workout.ID, nil)
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
}
