package service

import (
	"context"
	"testing"

	"superstrong/workout-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitBugReport(t *testing.T) {
	repo := &memBugReportRepo{}
	svc := NewReportService(repo)

	report, err := svc.SubmitBugReport(context.Background(), &domain.BugReport{
		Message:          "reorder button does nothing",
		TelegramUsername: "ada",
		Page:             "/workout/123",
	})
	require.NoError(t, err)
	assert.False(t, report.ID.IsZero())
	require.Len(t, repo.reports, 1)
	assert.Equal(t, "reorder button does nothing", repo.reports[0].Message)
}

func TestSubmitBugReportRejectsEmptyMessage(t *testing.T) {
	svc := NewReportService(&memBugReportRepo{})

	_, err := svc.SubmitBugReport(context.Background(), &domain.BugReport{Message: "   "})
	assert.ErrorIs(t, err, ErrEmptyReport)
}
