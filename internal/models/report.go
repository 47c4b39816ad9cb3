package models

import (
	"time"

	"github.com/google/uuid"
)

// Report is a user-submitted complaint about another user's content. The
// reported content is re-run through the moderation engine against its author
// when the report is created; ScanLevel records what the engine saw.
type Report struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReporterID     uuid.UUID `gorm:"type:uuid;not null;index" json:"reporter_id"`
	ReportedUserID string    `gorm:"size:64;not null;index" json:"reported_user_id"`
	ContentType    string    `gorm:"not null;size:50" json:"content_type"`
	Content        string    `gorm:"type:text" json:"content"`
	Reason         string    `gorm:"not null;size:500" json:"reason"`
	ScanLevel      string    `gorm:"size:10" json:"scan_level"`
	Status         string    `gorm:"not null;default:'pending';size:50" json:"status"`
	AdminNote      string    `gorm:"size:1000" json:"admin_note,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Reporter       User      `gorm:"foreignKey:ReporterID" json:"-"`
}
