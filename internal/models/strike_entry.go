package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// StrikeEntry is one append-only strike history row. The cumulative total on
// ModerationRecord is the sum of all Count values ever inserted for the user;
// appends are plain inserts so concurrent scans cannot lose each other's rows.
type StrikeEntry struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     string         `gorm:"size:64;not null;index" json:"user_id"`
	Count      float64        `gorm:"not null" json:"count"`
	Violations datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"violations"`
	Content    string         `gorm:"type:text" json:"content"`
	CreatedAt  time.Time      `gorm:"not null;index" json:"created_at"`
}

func (StrikeEntry) TableName() string {
	return "strike_entries"
}

// WarningEntry is one append-only warning history row. Every scan that reaches
// at least level low appends one of these, including strike-level scans.
type WarningEntry struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     string         `gorm:"size:64;not null;index" json:"user_id"`
	Level      string         `gorm:"size:10;not null" json:"level"`
	Violations datatypes.JSON `gorm:"type:jsonb;default:'[]'" json:"violations"`
	Content    string         `gorm:"type:text" json:"content"`
	CreatedAt  time.Time      `gorm:"not null;index" json:"created_at"`
}

func (WarningEntry) TableName() string {
	return "warning_entries"
}
