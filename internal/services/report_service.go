package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hivesocial/moderation-backend/internal/dto"
	"github.com/hivesocial/moderation-backend/internal/models"
	"github.com/hivesocial/moderation-backend/internal/moderation"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrReportNotFound = errors.New("report not found")

// ReportService handles user-submitted complaints. Reported content is re-run
// through the moderation engine against its author, so a report can trigger
// the same strike path as a direct submission.
type ReportService struct {
	db     *gorm.DB
	engine *moderation.Engine
}

func NewReportService(db *gorm.DB, engine *moderation.Engine) *ReportService {
	return &ReportService{db: db, engine: engine}
}

func (s *ReportService) CreateReport(ctx context.Context, reporterID uuid.UUID, req *dto.CreateReportRequest) (*models.Report, error) {
	validTypes := map[string]bool{"message": true, "post": true, "comment": true, "profile": true}
	if !validTypes[req.ContentType] {
		return nil, errors.New("invalid content_type: must be message, post, comment, or profile")
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, errors.New("reason is required")
	}
	if req.ReportedUserID == "" {
		return nil, errors.New("reported_user_id is required")
	}
	if reporterID.String() == req.ReportedUserID {
		return nil, errors.New("cannot report yourself")
	}

	report := models.Report{
		ID:             uuid.New(),
		ReporterID:     reporterID,
		ReportedUserID: req.ReportedUserID,
		ContentType:    req.ContentType,
		Content:        req.Content,
		Reason:         req.Reason,
		Status:         "pending",
	}

	// Re-scan the reported content against its author. A scan failure leaves
	// the report pending for manual review rather than rejecting it.
	if req.Content != "" {
		result, err := s.engine.ScanContent(ctx, req.ReportedUserID, req.Content)
		if err != nil {
			slog.Error("report rescan failed",
				"user_id", req.ReportedUserID, "action", "report_rescan", "error", err.Error())
		}
		if result != nil {
			report.ScanLevel = result.WarningLevel.String()
			if result.StrikeAdded {
				report.Status = "auto_actioned"
			}
		}
	}

	if err := s.db.Create(&report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return &report, nil
}

func (s *ReportService) ListReports(status string, limit, offset int) ([]models.Report, int64, error) {
	var reports []models.Report
	var total int64

	query := s.db.Model(&models.Report{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	query.Count(&total)

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&reports).Error; err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (s *ReportService) ActionReport(reportID uuid.UUID, req *dto.ActionReportRequest) error {
	validStatuses := map[string]bool{"reviewed": true, "actioned": true, "dismissed": true}
	if !validStatuses[req.Status] {
		return errors.New("invalid status: must be reviewed, actioned, or dismissed")
	}

	result := s.db.Model(&models.Report{}).
		Where("id = ?", reportID).
		Updates(map[string]interface{}{
			"status":     req.Status,
			"admin_note": req.AdminNote,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReportNotFound
	}
	return nil
}
