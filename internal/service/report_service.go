package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"superstrong/workout-api/internal/domain"
	"superstrong/workout-api/internal/repository"
)

// ErrEmptyReport is returned when a bug report has no message body.
var ErrEmptyReport = errors.New("bug report message is required")

// ReportService accepts user-submitted bug reports.
type ReportService interface {
	SubmitBugReport(ctx context.Context, report *domain.BugReport) (*domain.BugReport, error)
}

type reportService struct {
	reportRepo repository.BugReportRepository
}

// NewReportService creates a new instance of reportService.
func NewReportService(reportRepo repository.BugReportRepository) ReportService {
	return &reportService{reportRepo: reportRepo}
}

// SubmitBugReport validates and stores a report, logging it so reports show
// up in the server output even without a dashboard.
func (s *reportService) SubmitBugReport(ctx context.Context, report *domain.BugReport) (*domain.BugReport, error) {
	if strings.TrimSpace(report.Message) == "" {
		return nil, ErrEmptyReport
	}

	reportID, err := s.reportRepo.Create(ctx, report)
	if err != nil {
		return nil, err
	}
	report.ID = reportID

	log.Printf("INFO: bug report %s from @%s on page %q", reportID.Hex(), report.TelegramUsername, report.Page)
	return report, nil
}
