package service

import (
	"context"
	"sort"
	"time"

	"superstrong/workout-api/internal/domain"
	"superstrong/workout-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// workoutScanPage bounds the page size when statistics walk the full workout
// history.
const workoutScanPage = int64(500)

// DailyStats aggregates one calendar day. Weight and set totals come from the
// workout-level snapshots; exercise and rep counts are recomputed from the
// exercise entries.
type DailyStats struct {
	Date           string  `json:"date"`
	TotalWorkouts  int     `json:"workout_count"`
	TotalExercises int     `json:"total_exercises"`
	TotalWeight    float64 `json:"total_weight"`
	TotalSets      int     `json:"total_sets"`
	TotalReps      int     `json:"total_reps"`
}

// WeeklyStats covers a Monday-to-Sunday week with one record per day.
type WeeklyStats struct {
	WeekStart      string       `json:"week_start"`
	WeekEnd        string       `json:"week_end"`
	Days           []DailyStats `json:"days"`
	TotalWorkouts  int          `json:"workout_count"`
	TotalExercises int          `json:"total_exercises"`
	TotalWeight    float64      `json:"total_weight"`
	TotalSets      int          `json:"total_sets"`
	TotalReps      int          `json:"total_reps"`
	AverageWeight  float64      `json:"average_weight_per_workout"`
}

// MonthlyStats covers one calendar month.
type MonthlyStats struct {
	Year             int     `json:"year"`
	Month            int     `json:"month"`
	TotalWorkouts    int     `json:"workout_count"`
	TotalExercises   int     `json:"total_exercises"`
	TotalWeight      float64 `json:"total_weight"`
	TotalSets        int     `json:"total_sets"`
	TotalReps        int     `json:"total_reps"`
	ActiveDays       int     `json:"active_days"`
	AverageWeight    float64 `json:"average_weight_per_workout"`
	AverageExercises float64 `json:"average_exercises_per_workout"`
}

// ExerciseStats summarizes a single catalog exercise across the user's
// history. MaxWeight is nil when no entry recorded a weight above zero;
// AverageWeight is weight per session and zero when there are none.
type ExerciseStats struct {
	CatalogID     string   `json:"catalog_id"`
	TotalSessions int      `json:"total_sessions"`
	TotalWeight   float64  `json:"total_weight"`
	TotalSets     int      `json:"total_sets"`
	TotalReps     int      `json:"total_reps"`
	MaxWeight     *float64 `json:"max_weight"`
	AverageWeight float64  `json:"average_weight"`
	LastPerformed *string  `json:"last_performed"`
}

// TrendingExercise is one row of the most-logged ranking.
type TrendingExercise struct {
	CatalogID string `json:"catalog_id"`
	Count     int    `json:"count"`
}

// StatisticsService computes read-only aggregates over workouts and
// exercises. Daily returns nil when the day has no workouts; the transport
// layer substitutes a zero-valued record.
type StatisticsService interface {
	GetDailyStats(ctx context.Context, userID primitive.ObjectID, day time.Time) (*DailyStats, error)
	GetWeeklyStats(ctx context.Context, userID primitive.ObjectID, anyDay time.Time) (*WeeklyStats, error)
	GetMonthlyStats(ctx context.Context, userID primitive.ObjectID, year, month int) (*MonthlyStats, error)
	GetExerciseStats(ctx context.Context, userID primitive.ObjectID, catalogID string, days int) (*ExerciseStats, error)
	GetTrendingExercises(ctx context.Context, userID primitive.ObjectID, limit int) ([]TrendingExercise, error)
}

type statisticsService struct {
	workoutRepo  repository.WorkoutRepository
	exerciseRepo repository.ExerciseRepository
}

// NewStatisticsService creates a new instance of statisticsService.
func NewStatisticsService(workoutRepo repository.WorkoutRepository, exerciseRepo repository.ExerciseRepository) StatisticsService {
	return &statisticsService{
		workoutRepo:  workoutRepo,
		exerciseRepo: exerciseRepo,
	}
}

// dayBounds returns the closed interval [00:00, 00:00+24h-1s] in UTC.
func dayBounds(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24*time.Hour - time.Second)
}

// GetDailyStats aggregates one day. Returns (nil, nil) when no workouts fall
// in the interval.
func (s *statisticsService) GetDailyStats(ctx context.Context, userID primitive.ObjectID, day time.Time) (*DailyStats, error) {
	start, end := dayBounds(day)
	workouts, err := s.workoutRepo.GetByUserAndDateRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	if len(workouts) == 0 {
		return nil, nil
	}
	return s.aggregateDay(ctx, start, workouts)
}

// aggregateDay folds a day's workouts into a single record. Weight and set
// totals are taken from the workout snapshots as recorded; exercise and rep
// counts come from re-reading each workout's exercise list.
func (s *statisticsService) aggregateDay(ctx context.Context, day time.Time, workouts []domain.Workout) (*DailyStats, error) {
	stats := &DailyStats{
		Date:          day.Format("2006-01-02"),
		TotalWorkouts: len(workouts),
	}
	for _, w := range workouts {
		if w.TotalWeight != nil {
			stats.TotalWeight += *w.TotalWeight
		}
		if w.TotalSets != nil {
			stats.TotalSets += *w.TotalSets
		}
		exercises, err := s.exerciseRepo.GetByWorkoutID(ctx, w.ID)
		if err != nil {
			return nil, err
		}
		stats.TotalExercises += len(exercises)
		for _, e := range exercises {
			if e.Reps != nil {
				stats.TotalReps += *e.Reps
			}
		}
	}
	return stats, nil
}

// weekStart returns the Monday 00:00 UTC of the week containing the day.
func weekStart(day time.Time) time.Time {
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// GetWeeklyStats aggregates the Monday-start week containing anyDay. Every
// day appears in the result, zero-valued when empty. The average is weight
// per workout and stays zero for an empty week.
func (s *statisticsService) GetWeeklyStats(ctx context.Context, userID primitive.ObjectID, anyDay time.Time) (*WeeklyStats, error) {
	start := weekStart(anyDay)
	stats := &WeeklyStats{
		WeekStart: start.Format("2006-01-02"),
		WeekEnd:   start.AddDate(0, 0, 6).Format("2006-01-02"),
		Days:      make([]DailyStats, 0, 7),
	}

	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		dayStart, dayEnd := dayBounds(day)
		workouts, err := s.workoutRepo.GetByUserAndDateRange(ctx, userID, dayStart, dayEnd)
		if err != nil {
			return nil, err
		}
		if len(workouts) == 0 {
			stats.Days = append(stats.Days, DailyStats{Date: day.Format("2006-01-02")})
			continue
		}
		daily, err := s.aggregateDay(ctx, dayStart, workouts)
		if err != nil {
			return nil, err
		}
		stats.Days = append(stats.Days, *daily)
		stats.TotalWorkouts += daily.TotalWorkouts
		stats.TotalExercises += daily.TotalExercises
		stats.TotalWeight += daily.TotalWeight
		stats.TotalSets += daily.TotalSets
		stats.TotalReps += daily.TotalReps
	}

	if stats.TotalWorkouts > 0 {
		stats.AverageWeight = stats.TotalWeight / float64(stats.TotalWorkouts)
	}
	return stats, nil
}

// GetMonthlyStats aggregates one calendar month.
func (s *statisticsService) GetMonthlyStats(ctx context.Context, userID primitive.ObjectID, year, month int) (*MonthlyStats, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}

	start, end := monthBounds(year, month)
	workouts, err := s.workoutRepo.GetByUserAndDateRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	stats := &MonthlyStats{
		Year:          year,
		Month:         month,
		TotalWorkouts: len(workouts),
	}
	activeDays := make(map[string]struct{})
	for _, w := range workouts {
		activeDays[w.Date.UTC().Format("2006-01-02")] = struct{}{}
		if w.TotalWeight != nil {
			stats.TotalWeight += *w.TotalWeight
		}
		if w.TotalSets != nil {
			stats.TotalSets += *w.TotalSets
		}
		exercises, err := s.exerciseRepo.GetByWorkoutID(ctx, w.ID)
		if err != nil {
			return nil, err
		}
		stats.TotalExercises += len(exercises)
		for _, e := range exercises {
			if e.Reps != nil {
				stats.TotalReps += *e.Reps
			}
		}
	}
	stats.ActiveDays = len(activeDays)
	if stats.TotalWorkouts > 0 {
		stats.AverageWeight = stats.TotalWeight / float64(stats.TotalWorkouts)
		stats.AverageExercises = float64(stats.TotalExercises) / float64(stats.TotalWorkouts)
	}
	return stats, nil
}

// userWorkoutIndex pages through the user's full workout history and returns
// the workouts keyed by id.
func (s *statisticsService) userWorkoutIndex(ctx context.Context, userID primitive.ObjectID) (map[primitive.ObjectID]domain.Workout, error) {
	index := make(map[primitive.ObjectID]domain.Workout)
	var offset int64
	for {
		page, err := s.workoutRepo.GetByUserID(ctx, userID, workoutScanPage, offset)
		if err != nil {
			return nil, err
		}
		for _, w := range page {
			index[w.ID] = w
		}
		if int64(len(page)) < workoutScanPage {
			return index, nil
		}
		offset += workoutScanPage
	}
}

// GetExerciseStats summarizes one catalog exercise across the user's history,
// limited to the trailing days window when days is positive. Entries whose
// parent workout belongs to another user are ignored. A max weight of zero is
// reported as absent.
func (s *statisticsService) GetExerciseStats(ctx context.Context, userID primitive.ObjectID, catalogID string, days int) (*ExerciseStats, error) {
	entries, err := s.exerciseRepo.GetByCatalogID(ctx, catalogID)
	if err != nil {
		return nil, err
	}

	workouts, err := s.userWorkoutIndex(ctx, userID)
	if err != nil {
		return nil, err
	}

	var cutoff time.Time
	if days > 0 {
		cutoff = time.Now().UTC().AddDate(0, 0, -days)
	}

	stats := &ExerciseStats{CatalogID: catalogID}
	var maxWeight float64
	var lastPerformed time.Time
	for _, e := range entries {
		workout, owned := workouts[e.WorkoutID]
		if !owned {
			continue
		}
		if days > 0 && workout.Date.Before(cutoff) {
			continue
		}
		stats.TotalSessions++
		if e.Sets != nil {
			stats.TotalSets += *e.Sets
		}
		if e.Reps != nil {
			stats.TotalReps += *e.Reps
		}
		if e.Weight != nil {
			stats.TotalWeight += *e.Weight
			if *e.Weight > maxWeight {
				maxWeight = *e.Weight
			}
		}
		if workout.Date.After(lastPerformed) {
			lastPerformed = workout.Date
		}
	}

	if maxWeight > 0 {
		stats.MaxWeight = &maxWeight
	}
	if stats.TotalSessions > 0 {
		stats.AverageWeight = stats.TotalWeight / float64(stats.TotalSessions)
	}
	if !lastPerformed.IsZero() {
		formatted := lastPerformed.UTC().Format("2006-01-02")
		stats.LastPerformed = &formatted
	}
	return stats, nil
}

// GetTrendingExercises ranks the user's catalog exercises by how many entries
// reference them, most logged first, truncated to limit. Ties break
// arbitrarily.
func (s *statisticsService) GetTrendingExercises(ctx context.Context, userID primitive.ObjectID, limit int) ([]TrendingExercise, error) {
	if limit <= 0 {
		limit = 10
	}

	workouts, err := s.userWorkoutIndex(ctx, userID)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for id := range workouts {
		exercises, err := s.exerciseRepo.GetByWorkoutID(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, e := range exercises {
			counts[e.CatalogID]++
		}
	}

	trending := make([]TrendingExercise, 0, len(counts))
	for catalogID, count := range counts {
		trending = append(trending, TrendingExercise{CatalogID: catalogID, Count: count})
	}
	sort.SliceStable(trending, func(i, j int) bool {
		return trending[i].Count > trending[j].Count
	})

	if len(trending) > limit {
		trending = trending[:limit]
	}
	return trending, nil
}
