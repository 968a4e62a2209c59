package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"superstrong/workout-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGetDailyStatsEmptyDayIsNil(t *testing.T) {
	svc := NewStatisticsService(newMemWorkoutRepo(), newMemExerciseRepo())

	stats, err := svc.GetDailyStats(context.Background(), primitive.NewObjectID(), time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, stats, "a day without workouts yields no record")
}

func TestGetDailyStatsMixesSnapshotAndRecount(t *testing.T) {
	workoutRepo := newMemWorkoutRepo()
	exerciseRepo := newMemExerciseRepo()
	svc := NewStatisticsService(workoutRepo, exerciseRepo)

	userID := primitive.NewObjectID()
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	workout := seedWorkout(t, workoutRepo, userID, day.Add(18*time.Hour), 100, 10)
	seedExercise(t, exerciseRepo, workout.ID, "bench-press", 8, 0)
	seedExercise(t, exerciseRepo, workout.ID, "squat", 5, 1)

	stats, err := svc.GetDailyStats(context.Background(), userID, day)
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, "2024-03-04", stats.Date)
	assert.Equal(t, 1, stats.TotalWorkouts)
	// Weight and sets come from the workout snapshot as recorded.
	assert.Equal(t, 100.0, stats.TotalWeight)
	assert.Equal(t, 10, stats.TotalSets)
	// Exercise and rep counts are recomputed from the entries.
	assert.Equal(t, 2, stats.TotalExercises)
	assert.Equal(t, 13, stats.TotalReps)
}

func TestGetDailyStatsClosedInterval(t *testing.T) {
	workoutRepo := newMemWorkoutRepo()
	svc := NewStatisticsService(workoutRepo, newMemExerciseRepo())

	userID := primitive.NewObjectID()
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	seedWorkout(t, workoutRepo, userID, day, 10, 1)
	seedWorkout(t, workoutRepo, userID, day.Add(24*time.Hour-time.Second), 20, 2)
	// Midnight of the next day is outside.
	seedWorkout(t, workoutRepo, userID, day.Add(24*time.Hour), 40, 4)

	stats, err := svc.GetDailyStats(context.Background(), userID, day)
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 2, stats.TotalWorkouts)
	assert.Equal(t, 30.0, stats.TotalWeight)
}

func TestGetWeeklyStatsMondayStart(t *testing.T) {
	workoutRepo := newMemWorkoutRepo()
	exerciseRepo := newMemExerciseRepo()
	svc := NewStatisticsService(workoutRepo, exerciseRepo)

	userID := primitive.NewObjectID()
	monday := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	workout := seedWorkout(t, workoutRepo, userID, monday.Add(9*time.Hour), 100, 10)
	seedExercise(t, exerciseRepo, workout.ID, "bench-press", 8, 0)
	seedExercise(t, exerciseRepo, workout.ID, "squat", 5, 1)

	// Thursday of the same week resolves to the same Monday start.
	stats, err := svc.GetWeeklyStats(context.Background(), userID, monday.AddDate(0, 0, 3))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", stats.WeekStart)
	assert.Equal(t, "2024-03-10", stats.WeekEnd)
	require.Len(t, stats.Days, 7)

	assert.Equal(t, 1, stats.Days[0].TotalWorkouts)
	assert.Equal(t, 2, stats.Days[0].TotalExercises)
	for i := 1; i < 7; i++ {
		assert.Equal(t, 0, stats.Days[i].TotalWorkouts)
	}

	assert.Equal(t, 1, stats.TotalWorkouts)
	assert.Equal(t, 2, stats.TotalExercises)
	assert.Equal(t, 100.0, stats.TotalWeight)
	assert.Equal(t, 10, stats.TotalSets)
	assert.Equal(t, 13, stats.TotalReps)
	assert.Equal(t, 100.0, stats.AverageWeight)
}

func TestGetWeeklyStatsEmptyWeekAverageZero(t *testing.T) {
	svc := NewStatisticsService(newMemWorkoutRepo(), newMemExerciseRepo())

	stats, err := svc.GetWeeklyStats(context.Background(), primitive.NewObjectID(), time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalWorkouts)
	assert.Equal(t, 0.0, stats.AverageWeight)
	require.Len(t, stats.Days, 7)
}

func TestGetMonthlyStatsDecemberRollover(t *testing.T) {
	workoutRepo := newMemWorkoutRepo()
	svc := NewStatisticsService(workoutRepo, newMemExerciseRepo())

	userID := primitive.NewObjectID()
	seedWorkout(t, workoutRepo, userID, time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC), 80, 8)
	seedWorkout(t, workoutRepo, userID, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 999, 99)

	stats, err := svc.GetMonthlyStats(context.Background(), userID, 2024, 12)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalWorkouts)
	assert.Equal(t, 80.0, stats.TotalWeight)
	assert.Equal(t, 1, stats.ActiveDays)
}

func TestGetExerciseStats(t *testing.T) {
	workoutRepo := newMemWorkoutRepo()
	exerciseRepo := newMemExerciseRepo()
	svc := NewStatisticsService(workoutRepo, exerciseRepo)

	userID := primitive.NewObjectID()
	older := seedWorkout(t, workoutRepo, userID, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), 100, 10)
	newer := seedWorkout(t, workoutRepo, userID, time.Date(2024, 5, 8, 10, 0, 0, 0, time.UTC), 110, 11)

	first := &domain.Exercise{WorkoutID: older.ID, CatalogID: "bench-press", Weight: float64Ptr(80), Sets: intPtr(3), Reps: intPtr(8)}
	_, err := exerciseRepo.Create(context.Background(), first)
	require.NoError(t, err)
	second := &domain.Exercise{WorkoutID: newer.ID, CatalogID: "bench-press", Weight: float64Ptr(85), Sets: intPtr(3), Reps: intPtr(6)}
	_, err = exerciseRepo.Create(context.Background(), second)
	require.NoError(t, err)

	// Same catalog exercise in someone else's workout must not count.
	foreign := seedWorkout(t, workoutRepo, primitive.NewObjectID(), time.Date(2024, 5, 9, 10, 0, 0, 0, time.UTC), 1, 1)
	_, err = exerciseRepo.Create(context.Background(), &domain.Exercise{WorkoutID: foreign.ID, CatalogID: "bench-press", Weight: float64Ptr(200)})
	require.NoError(t, err)

	stats, err := svc.GetExerciseStats(context.Background(), userID, "bench-press", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalSessions)
	assert.Equal(t, 6, stats.TotalSets)
	assert.Equal(t, 14, stats.TotalReps)
	assert.Equal(t, 165.0, stats.TotalWeight)
	assert.Equal(t, 82.5, stats.AverageWeight)
	require.NotNil(t, stats.MaxWeight)
	assert.Equal(t, 85.0, *stats.MaxWeight)
	require.NotNil(t, stats.LastPerformed)
	assert.Equal(t, "2024-05-08", *stats.LastPerformed)
}

func TestGetExerciseStatsDaysWindow(t *testing.T) {
	workoutRepo := newMemWorkoutRepo()
	exerciseRepo := newMemExerciseRepo()
	svc := NewStatisticsService(workoutRepo, exerciseRepo)

	userID := primitive.NewObjectID()
	recent := seedWorkout(t, workoutRepo, userID, time.Now().UTC().AddDate(0, 0, -10), 100, 10)
	old := seedWorkout(t, workoutRepo, userID, time.Now().UTC().AddDate(0, 0, -60), 100, 10)
	seedExercise(t, exerciseRepo, recent.ID, "deadlift", 5, 0)
	seedExercise(t, exerciseRepo, old.ID, "deadlift", 5, 0)

	windowed, err := svc.GetExerciseStats(context.Background(), userID, "deadlift", 30)
	require.NoError(t, err)
	assert.Equal(t, 1, windowed.TotalSessions)

	full, err := svc.GetExerciseStats(context.Background(), userID, "deadlift", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, full.TotalSessions)
}

func TestGetExerciseStatsZeroMaxWeightIsAbsent(t *testing.T) {
	workoutRepo := newMemWorkoutRepo()
	exerciseRepo := newMemExerciseRepo()
	svc := NewStatisticsService(workoutRepo, exerciseRepo)

	userID := primitive.NewObjectID()
	workout := seedWorkout(t, workoutRepo, userID, time.Now().UTC(), 0, 0)
	_, err := exerciseRepo.Create(context.Background(), &domain.Exercise{WorkoutID: workout.ID, CatalogID: "plank", Weight: float64Ptr(0), Sets: intPtr(3)})
	require.NoError(t, err)

	stats, err := svc.GetExerciseStats(context.Background(), userID, "plank", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalSessions)
	assert.Nil(t, stats.MaxWeight, "bodyweight-only history reports no max weight")
	assert.Equal(t, 0.0, stats.AverageWeight)
}

func TestStatisticsRecordKeys(t *testing.T) {
	payload, err := json.Marshal(DailyStats{})
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"workout_count"`)

	payload, err = json.Marshal(WeeklyStats{})
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"workout_count"`)
	assert.Contains(t, string(payload), `"total_exercises"`)
	assert.Contains(t, string(payload), `"average_weight_per_workout"`)

	payload, err = json.Marshal(MonthlyStats{})
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"workout_count"`)
	assert.Contains(t, string(payload), `"average_exercises_per_workout"`)

	payload, err = json.Marshal(ExerciseStats{})
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"total_weight"`)
	assert.Contains(t, string(payload), `"average_weight"`)
}

func TestGetTrendingExercises(t *testing.T) {
	workoutRepo := newMemWorkoutRepo()
	exerciseRepo := newMemExerciseRepo()
	svc := NewStatisticsService(workoutRepo, exerciseRepo)

	userID := primitive.NewObjectID()
	for i := 0; i < 3; i++ {
		workout := seedWorkout(t, workoutRepo, userID, time.Now().UTC().AddDate(0, 0, -i), 10, 1)
		seedExercise(t, exerciseRepo, workout.ID, "squat", 5, 0)
		seedExercise(t, exerciseRepo, workout.ID, "bench-press", 5, 1)
		if i == 0 {
			seedExercise(t, exerciseRepo, workout.ID, "curl", 5, 2)
		}
	}

	trending, err := svc.GetTrendingExercises(context.Background(), userID, 2)
	require.NoError(t, err)
	require.Len(t, trending, 2)
	// squat and bench-press tie at 3; both outrank curl at 1.
	top := map[string]bool{trending[0].CatalogID: true, trending[1].CatalogID: true}
	assert.True(t, top["squat"])
	assert.True(t, top["bench-press"])
	assert.Equal(t, 3, trending[0].Count)
	assert.Equal(t, 3, trending[1].Count)
}
