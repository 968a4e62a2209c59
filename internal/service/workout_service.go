package service

import (
	"context"
	"errors"
	"time"

	"superstrong/workout-api/internal/domain"
	"superstrong/workout-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidMonth is returned for month values outside 1..12.
var ErrInvalidMonth = errors.New("month must be between 1 and 12")

// WorkoutUpdate carries a partial workout update; nil fields are left
// unchanged.
type WorkoutUpdate struct {
	Date        *time.Time
	TotalWeight *float64
	TotalSets   *int
	Notes       *string
}

// MonthlySummary is the reduced per-month aggregate exposed on the workout
// surface, distinct from the full monthly statistics.
type MonthlySummary struct {
	Year          int     `json:"year"`
	Month         int     `json:"month"`
	TotalWorkouts int     `json:"total_workouts"`
	TotalWeight   float64 `json:"total_weight"`
	TotalSets     int     `json:"total_sets"`
	AverageWeight float64 `json:"average_weight"`
}

// WorkoutService owns workout sessions and their lifecycle. Deleting a
// workout cascades a soft delete to its exercises.
type WorkoutService interface {
	CreateWorkout(ctx context.Context, userID primitive.ObjectID, date time.Time, totalWeight *float64, totalSets *int, notes string) (*domain.Workout, error)
	GetWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) (*domain.Workout, error)
	ListWorkouts(ctx context.Context, userID primitive.ObjectID, limit, offset int64) ([]domain.Workout, error)
	UpdateWorkout(ctx context.Context, userID, workoutID primitive.ObjectID, update WorkoutUpdate) (*domain.Workout, error)
	DeleteWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) error
	GetMonthlySummary(ctx context.Context, userID primitive.ObjectID, year, month int) (*MonthlySummary, error)
}

type workoutService struct {
	workoutRepo  repository.WorkoutRepository
	exerciseRepo repository.ExerciseRepository
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(workoutRepo repository.WorkoutRepository, exerciseRepo repository.ExerciseRepository) WorkoutService {
	return &workoutService{
		workoutRepo:  workoutRepo,
		exerciseRepo: exerciseRepo,
	}
}

// CreateWorkout stores a new workout session for the user.
func (s *workoutService) CreateWorkout(ctx context.Context, userID primitive.ObjectID, date time.Time, totalWeight *float64, totalSets *int, notes string) (*domain.Workout, error) {
	workout := &domain.Workout{
		UserID:      userID,
		Date:        date,
		TotalWeight: totalWeight,
		TotalSets:   totalSets,
		Notes:       notes,
	}

	workoutID, err := s.workoutRepo.Create(ctx, workout)
	if err != nil {
		return nil, err
	}
	workout.ID = workoutID
	return workout, nil
}

// GetWorkout returns a single workout after the ownership check.
func (s *workoutService) GetWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	return authorizeWorkout(ctx, s.workoutRepo, userID, workoutID)
}

// ListWorkouts returns the user's workouts, most recent date first.
func (s *workoutService) ListWorkouts(ctx context.Context, userID primitive.ObjectID, limit, offset int64) ([]domain.Workout, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.workoutRepo.GetByUserID(ctx, userID, limit, offset)
}

// UpdateWorkout applies a partial update after the ownership check.
func (s *workoutService) UpdateWorkout(ctx context.Context, userID, workoutID primitive.ObjectID, update WorkoutUpdate) (*domain.Workout, error) {
	workout, err := authorizeWorkout(ctx, s.workoutRepo, userID, workoutID)
	if err != nil {
		return nil, err
	}

	if update.Date != nil {
		workout.Date = *update.Date
	}
	if update.TotalWeight != nil {
		workout.TotalWeight = update.TotalWeight
	}
	if update.TotalSets != nil {
		workout.TotalSets = update.TotalSets
	}
	if update.Notes != nil {
		workout.Notes = *update.Notes
	}

	if err := s.workoutRepo.Update(ctx, workout); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return workout, nil
}

// DeleteWorkout soft-deletes a workout and cascades the flag to all of its
// exercises in one pass. The cascade is application logic, not a database
// constraint.
func (s *workoutService) DeleteWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) error {
	if _, err := authorizeWorkout(ctx, s.workoutRepo, userID, workoutID); err != nil {
		return err
	}

	if err := s.workoutRepo.SoftDelete(ctx, workoutID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return err
	}
	return s.exerciseRepo.SoftDeleteByWorkoutID(ctx, workoutID)
}

// GetMonthlySummary computes the reduced monthly aggregate from the trusted
// workout-level snapshots only.
func (s *workoutService) GetMonthlySummary(ctx context.Context, userID primitive.ObjectID, year, month int) (*MonthlySummary, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}

	start, end := monthBounds(year, month)
	workouts, err := s.workoutRepo.GetByUserAndDateRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	summary := &MonthlySummary{
		Year:          year,
		Month:         month,
		TotalWorkouts: len(workouts),
	}
	for _, w := range workouts {
		if w.TotalWeight != nil {
			summary.TotalWeight += *w.TotalWeight
		}
		if w.TotalSets != nil {
			summary.TotalSets += *w.TotalSets
		}
	}
	if summary.TotalWorkouts > 0 {
		summary.AverageWeight = summary.TotalWeight / float64(summary.TotalWorkouts)
	}
	return summary, nil
}

// monthBounds returns the closed calendar-month interval. December rolls
// over to next-year January minus one second.
func monthBounds(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	var next time.Time
	if month == 12 {
		next = time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	} else {
		next = time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
	}
	return start, next.Add(-time.Second)
}
