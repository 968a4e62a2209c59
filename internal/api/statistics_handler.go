package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"superstrong/workout-api/internal/service"

	"github.com/gin-gonic/gin"
)

// StatisticsHandler holds the statistics service dependency.
type StatisticsHandler struct {
	statisticsService service.StatisticsService
}

// NewStatisticsHandler creates a new StatisticsHandler.
func NewStatisticsHandler(statisticsService service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService}
}

// dateQuery parses the date query parameter, defaulting to today.
func dateQuery(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return time.Now().UTC(), true
	}
	day, err := parseDate(raw)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return day, true
}

// GetDaily returns one day's aggregate. A day with no workouts yields a
// zero-valued record, not an error.
func (h *StatisticsHandler) GetDaily(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	day, ok := dateQuery(c)
	if !ok {
		return
	}

	stats, err := h.statisticsService.GetDailyStats(c.Request.Context(), userID, day)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to compute daily statistics")
		return
	}
	if stats == nil {
		stats = &service.DailyStats{Date: day.UTC().Format("2006-01-02")}
	}
	c.JSON(http.StatusOK, stats)
}

// GetWeekly returns the Monday-start week containing the given date.
func (h *StatisticsHandler) GetWeekly(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	day, ok := dateQuery(c)
	if !ok {
		return
	}

	stats, err := h.statisticsService.GetWeeklyStats(c.Request.Context(), userID, day)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to compute weekly statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetMonthly returns the full calendar-month aggregate.
func (h *StatisticsHandler) GetMonthly(c *gin.Context) {
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

	stats, err := h.statisticsService.GetMonthlyStats(c.Request.Context(), userID, year, month)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMonth) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to compute monthly statistics")
		}
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetExercise returns the per-exercise summary for one catalog id.
func (h *StatisticsHandler) GetExercise(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	catalogID := c.Param("catalogId")
	if catalogID == "" {
		abortWithError(c, http.StatusBadRequest, "Catalog ID is required")
		return
	}
	// days=0 means full history.
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days < 0 {
		abortWithError(c, http.StatusBadRequest, "Invalid days")
		return
	}

	stats, err := h.statisticsService.GetExerciseStats(c.Request.Context(), userID, catalogID, days)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to compute exercise statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetTrending ranks the user's most-logged catalog exercises.
func (h *StatisticsHandler) GetTrending(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		abortWithError(c, http.StatusBadRequest, "Invalid limit")
		return
	}

	trending, err := h.statisticsService.GetTrendingExercises(c.Request.Context(), userID, limit)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to compute trending exercises")
		return
	}
	c.JSON(http.StatusOK, trending)
}
