package models

import (
	"time"
)

// ModerationRecord holds the cumulative moderation state for one user.
// It is created implicitly on the first scan that needs to persist anything
// and is never deleted. Strikes only grow; the suspended/restricted gates are
// cleared exclusively by the expiry sweep.
type ModerationRecord struct {
	UserID          string     `gorm:"primaryKey;size:64" json:"user_id"`
	Strikes         float64    `gorm:"not null;default:0" json:"strikes"`
	Suspended       bool       `gorm:"not null;default:false" json:"suspended"`
	Restricted      bool       `gorm:"not null;default:false" json:"restricted"`
	LastActionTaken string     `gorm:"size:20;default:'none'" json:"last_action_taken"`
	LastActionDate  *time.Time `json:"last_action_date,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (ModerationRecord) TableName() string {
	return "moderation_records"
}
