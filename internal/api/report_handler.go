package api

import (
	"errors"
	"fmt"
	"net/http"

	"superstrong/workout-api/internal/domain"
	"superstrong/workout-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ReportHandler holds the report service dependency.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

type BugReportRequest struct {
	Message          string `json:"message" binding:"required"`
	TelegramUsername string `json:"telegram_username"`
	BrowserInfo      string `json:"browser_info"`
	Page             string `json:"page"`
}

// SubmitBugReport accepts a user-submitted bug report. No authentication:
// broken login flows are exactly what gets reported here.
func (h *ReportHandler) SubmitBugReport(c *gin.Context) {
	var req BugReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	report, err := h.reportService.SubmitBugReport(c.Request.Context(), &domain.BugReport{
		Message:          req.Message,
		TelegramUsername: req.TelegramUsername,
		BrowserInfo:      req.BrowserInfo,
		Page:             req.Page,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmptyReport) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to submit bug report")
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": report.ID.Hex(), "message": "Bug report received"})
}
