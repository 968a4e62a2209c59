package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"superstrong/workout-api/internal/domain"
	"superstrong/workout-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- Request/Response Structs ---

type AddExerciseRequest struct {
	CatalogID string   `json:"catalog_id" binding:"required"`
	Weight    *float64 `json:"weight"`
	Sets      *int     `json:"sets"`
	Reps      *int     `json:"reps"`
	Notes     string   `json:"notes"`
	Order     int      `json:"order"`
}

type UpdateExerciseRequest struct {
	Weight *float64 `json:"weight"`
	Sets   *int     `json:"sets"`
	Reps   *int     `json:"reps"`
	Notes  *string  `json:"notes"`
	Order  *int     `json:"order"`
}

type ReorderItemRequest struct {
	ExerciseID string `json:"exercise_id" binding:"required"`
	Order      int    `json:"order"`
}

type ExerciseResponse struct {
	ID        string    `json:"id"`
	WorkoutID string    `json:"workout_id"`
	CatalogID string    `json:"catalog_id"`
	Weight    *float64  `json:"weight,omitempty"`
	Sets      *int      `json:"sets,omitempty"`
	Reps      *int      `json:"reps,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func mapExerciseToResponse(e *domain.Exercise) ExerciseResponse {
	return ExerciseResponse{
		ID:        e.ID.Hex(),
		WorkoutID: e.WorkoutID.Hex(),
		CatalogID: e.CatalogID,
		Weight:    e.Weight,
		Sets:      e.Sets,
		Reps:      e.Reps,
		Notes:     e.Notes,
		Order:     e.Order,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func mapExercisesToResponse(exercises []domain.Exercise) []ExerciseResponse {
	responses := make([]ExerciseResponse, 0, len(exercises))
	for i := range exercises {
		responses = append(responses, mapExerciseToResponse(&exercises[i]))
	}
	return responses
}

// --- Handler Methods ---

// AddExercise appends an exercise entry to a workout.
func (h *ExerciseHandler) AddExercise(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	workoutID, ok := workoutIDFromPath(c)
	if !ok {
		return
	}

	var req AddExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exercise, err := h.exerciseService.AddExercise(c.Request.Context(), userID, workoutID, req.CatalogID, req.Weight, req.Sets, req.Reps, req.Notes, req.Order)
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, "Workout not found")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to add exercise")
		}
		return
	}
	c.JSON(http.StatusCreated, mapExerciseToResponse(exercise))
}

// GetExercises lists a workout's exercises in display order.
func (h *ExerciseHandler) GetExercises(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	workoutID, ok := workoutIDFromPath(c)
	if !ok {
		return
	}

	exercises, err := h.exerciseService.GetExercises(c.Request.Context(), userID, workoutID)
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, "Workout not found")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to list exercises")
		}
		return
	}
	c.JSON(http.StatusOK, mapExercisesToResponse(exercises))
}

// UpdateExercise applies a partial update to a single exercise.
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	workoutID, ok := workoutIDFromPath(c)
	if !ok {
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("exerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	var req UpdateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exercise, err := h.exerciseService.UpdateExercise(c.Request.Context(), userID, workoutID, exerciseID, service.ExerciseUpdate{
		Weight: req.Weight,
		Sets:   req.Sets,
		Reps:   req.Reps,
		Notes:  req.Notes,
		Order:  req.Order,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWorkoutNotFound):
			abortWithError(c, http.StatusNotFound, "Workout not found")
		case errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusNotFound, "Exercise not found")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update exercise")
		}
		return
	}
	c.JSON(http.StatusOK, mapExerciseToResponse(exercise))
}

// DeleteExercise soft-deletes a single exercise.
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	workoutID, ok := workoutIDFromPath(c)
	if !ok {
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("exerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	if err := h.exerciseService.DeleteExercise(c.Request.Context(), userID, workoutID, exerciseID); err != nil {
		switch {
		case errors.Is(err, service.ErrWorkoutNotFound):
			abortWithError(c, http.StatusNotFound, "Workout not found")
		case errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusNotFound, "Exercise not found")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to delete exercise")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// ReorderExercises applies the submitted {exercise_id, order} pairs.
// Unknown ids are skipped; malformed ids are rejected up front.
func (h *ExerciseHandler) ReorderExercises(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	workoutID, ok := workoutIDFromPath(c)
	if !ok {
		return
	}

	var req []ReorderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	items := make([]service.ReorderItem, 0, len(req))
	for _, item := range req {
		id, err := primitive.ObjectIDFromHex(item.ExerciseID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid exercise ID: %s", item.ExerciseID))
			return
		}
		items = append(items, service.ReorderItem{ExerciseID: id, Order: item.Order})
	}

	exercises, err := h.exerciseService.ReorderExercises(c.Request.Context(), userID, workoutID, items)
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, "Workout not found")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to reorder exercises")
		}
		return
	}
	c.JSON(http.StatusOK, mapExercisesToResponse(exercises))
}
