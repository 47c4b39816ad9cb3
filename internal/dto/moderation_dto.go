package dto

import (
	"github.com/hivesocial/moderation-backend/internal/models"
	"github.com/hivesocial/moderation-backend/internal/moderation"
)

type ScanRequest struct {
	Content string `json:"content"`
}

// RecordResponse is a moderation record together with its histories.
type RecordResponse struct {
	Record   *models.ModerationRecord `json:"record"`
	Strikes  []models.StrikeEntry     `json:"strike_history"`
	Warnings []models.WarningEntry    `json:"warning_history"`
}

// GuidelinesResponse exposes the policy document and the numeric thresholds
// the engine enforces.
type GuidelinesResponse struct {
	Document   string                       `json:"document"`
	Thresholds ThresholdsResponse           `json:"thresholds"`
	Categories []moderation.CategorySummary `json:"categories"`
}

type ThresholdsResponse struct {
	Warning          float64 `json:"warning"`
	Restriction      float64 `json:"restriction"`
	Suspension       float64 `json:"suspension"`
	StrikeCapPerScan float64 `json:"strike_cap_per_scan"`
	RestrictionDays  int     `json:"restriction_days"`
	SuspensionDays   int     `json:"suspension_days"`
}

type SweepResponse struct {
	Changed int `json:"changed"`
}

type CreateReportRequest struct {
	ReportedUserID string `json:"reported_user_id"`
	ContentType    string `json:"content_type"`
	Content        string `json:"content"`
	Reason         string `json:"reason"`
}

type ActionReportRequest struct {
	Status    string `json:"status"`
	AdminNote string `json:"admin_note"`
}
