package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"superstrong/workout-api/internal/domain"
	"superstrong/workout-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutHandler holds the workout service dependency.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- Request/Response Structs ---

type CreateWorkoutRequest struct {
	Date        string   `json:"date" binding:"required"`
	TotalWeight *float64 `json:"total_weight"`
	TotalSets   *int     `json:"total_sets"`
	Notes       string   `json:"notes"`
}

type UpdateWorkoutRequest struct {
	Date        *string  `json:"date"`
	TotalWeight *float64 `json:"total_weight"`
	TotalSets   *int     `json:"total_sets"`
	Notes       *string  `json:"notes"`
}

type WorkoutResponse struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	TotalWeight *float64  `json:"total_weight,omitempty"`
	TotalSets   *int      `json:"total_sets,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func mapWorkoutToResponse(w *domain.Workout) WorkoutResponse {
	return WorkoutResponse{
		ID:          w.ID.Hex(),
		Date:        w.Date,
		TotalWeight: w.TotalWeight,
		TotalSets:   w.TotalSets,
		Notes:       w.Notes,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

// parseDate accepts RFC 3339 timestamps and bare dates.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// workoutIDFromPath parses the :workoutId path parameter.
func workoutIDFromPath(c *gin.Context) (primitive.ObjectID, bool) {
	workoutID, err := primitive.ObjectIDFromHex(c.Param("workoutId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format")
		return primitive.NilObjectID, false
	}
	return workoutID, true
}

// --- Handler Methods ---

// CreateWorkout records a new workout session for the authenticated user.
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req CreateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid date format, expected RFC 3339 or YYYY-MM-DD")
		return
	}

	workout, err := h.workoutService.CreateWorkout(c.Request.Context(), userID, date, req.TotalWeight, req.TotalSets, req.Notes)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create workout")
		return
	}
	c.JSON(http.StatusCreated, mapWorkoutToResponse(workout))
}

// ListWorkouts returns the user's workouts, newest first.
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "100"), 10, 64)
	offset, _ := strconv.ParseInt(c.DefaultQuery("offset", "0"), 10, 64)

	workouts, err := h.workoutService.ListWorkouts(c.Request.Context(), userID, limit, offset)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list workouts")
		return
	}

	responses := make([]WorkoutResponse, 0, len(workouts))
	for i := range workouts {
		responses = append(responses, mapWorkoutToResponse(&workouts[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// GetWorkout returns a single workout.
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	workoutID, ok := workoutIDFromPath(c)
	if !ok {
		return
	}

	workout, err := h.workoutService.GetWorkout(c.Request.Context(), userID, workoutID)
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, "Workout not found")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to load workout")
		}
		return
	}
	c.JSON(http.StatusOK, mapWorkoutToResponse(workout))
}

// UpdateWorkout applies a partial update to a workout.
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	workoutID, ok := workoutIDFromPath(c)
	if !ok {
		return
	}

	var req UpdateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	update := service.WorkoutUpdate{
		TotalWeight: req.TotalWeight,
		TotalSets:   req.TotalSets,
		Notes:       req.Notes,
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid date format, expected RFC 3339 or YYYY-MM-DD")
			return
		}
		update.Date = &date
	}

	workout, err := h.workoutService.UpdateWorkout(c.Request.Context(), userID, workoutID, update)
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, "Workout not found")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update workout")
		}
		return
	}
	c.JSON(http.StatusOK, mapWorkoutToResponse(workout))
}

// DeleteWorkout soft-deletes a workout and its exercises.
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	workoutID, ok := workoutIDFromPath(c)
	if !ok {
		return
	}

	if err := h.workoutService.DeleteWorkout(c.Request.Context(), userID, workoutID); err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, "Workout not found")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete workout")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// GetMonthlySummary returns the reduced per-month aggregate.
func (h *WorkoutHandler) GetMonthlySummary(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	now := time.Now().UTC()
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid year")
		return
	}
	month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid month")
		return
	}

	summary, err := h.workoutService.GetMonthlySummary(c.Request.Context(), userID, year, month)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMonth) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to compute monthly summary")
		}
		return
	}
	c.JSON(http.StatusOK, summary)
}
