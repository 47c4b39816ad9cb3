package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/hivesocial/moderation-backend/internal/models"
	"github.com/hivesocial/moderation-backend/internal/moderation"
	"gorm.io/gorm"
)

// Service implements moderation.RecordStore on PostgreSQL.
//
// The append/increment contract maps onto relational primitives: history
// appends are row inserts, so concurrent scans can never lose each other's
// entries; the cumulative strike counter is bumped with a SQL-side increment
// rather than a read-modify-write; the whole strike outcome goes through one
// transaction so a reader never sees history without the matching flags.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Get returns the user's moderation record, or a zero-valued record if none
// exists yet. Records are created lazily on first write, so an unknown user
// is a fresh user, not an error.
func (s *Service) Get(ctx context.Context, userID string) (*models.ModerationRecord, error) {
	var record models.ModerationRecord
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.ModerationRecord{
			UserID:          userID,
			LastActionTaken: string(moderation.ActionNone),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading moderation record: %w", err)
	}
	return &record, nil
}

func (s *Service) WarningCount(ctx context.Context, userID string) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.WarningEntry{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting warnings: %w", err)
	}
	return int(count), nil
}

// AppendWarning inserts one warning-history row, creating the record row if
// this is the user's first persisted outcome.
func (s *Service) AppendWarning(ctx context.Context, userID string, entry *models.WarningEntry) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureRecord(tx, userID); err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
}

// ApplyStrike persists a full strike outcome atomically: both history rows,
// the counter increment and the flag/action fields land in one transaction.
// The suspended/restricted flags are only ever set here, never cleared.
func (s *Service) ApplyStrike(ctx context.Context, userID string, strike *models.StrikeEntry, warning *models.WarningEntry, update moderation.RecordUpdate) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureRecord(tx, userID); err != nil {
			return err
		}
		if err := tx.Create(strike).Error; err != nil {
			return fmt.Errorf("appending strike entry: %w", err)
		}
		if err := tx.Create(warning).Error; err != nil {
			return fmt.Errorf("appending warning entry: %w", err)
		}

		fields := map[string]interface{}{
			"strikes":           gorm.Expr("strikes + ?", update.StrikeDelta),
			"last_action_taken": string(update.ActionTaken),
			"last_action_date":  update.ActionDate,
		}
		if update.Suspend {
			fields["suspended"] = true
		}
		if update.Restrict {
			fields["restricted"] = true
		}
		return tx.Model(&models.ModerationRecord{}).
			Where("user_id = ?", userID).
			Updates(fields).Error
	})
}

func (s *Service) ClearRestriction(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).
		Model(&models.ModerationRecord{}).
		Where("user_id = ?", userID).
		Update("restricted", false).Error
}

func (s *Service) ClearSuspension(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).
		Model(&models.ModerationRecord{}).
		Where("user_id = ?", userID).
		Update("suspended", false).Error
}

// ListFlagged returns every record with an active restriction or suspension.
func (s *Service) ListFlagged(ctx context.Context) ([]models.ModerationRecord, error) {
	var records []models.ModerationRecord
	err := s.db.WithContext(ctx).
		Where("restricted = ? OR suspended = ?", true, true).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("listing flagged records: %w", err)
	}
	return records, nil
}

// StrikeHistory returns the user's strike entries, oldest first.
func (s *Service) StrikeHistory(ctx context.Context, userID string, limit int) ([]models.StrikeEntry, error) {
	var entries []models.StrikeEntry
	q := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("loading strike history: %w", err)
	}
	return entries, nil
}

// WarningHistory returns the user's warning entries, oldest first.
func (s *Service) WarningHistory(ctx context.Context, userID string, limit int) ([]models.WarningEntry, error) {
	var entries []models.WarningEntry
	q := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("loading warning history: %w", err)
	}
	return entries, nil
}

// ListRecords pages over all moderation records for the admin panel, most
// recently updated first.
func (s *Service) ListRecords(ctx context.Context, limit, offset int) ([]models.ModerationRecord, int64, error) {
	var records []models.ModerationRecord
	var total int64

	q := s.db.WithContext(ctx).Model(&models.ModerationRecord{})
	q.Count(&total)
	err := q.Order("updated_at DESC").Limit(limit).Offset(offset).Find(&records).Error
	if err != nil {
		return nil, 0, fmt.Errorf("listing moderation records: %w", err)
	}
	return records, total, nil
}

func ensureRecord(tx *gorm.DB, userID string) error {
	record := models.ModerationRecord{
		UserID:          userID,
		LastActionTaken: string(moderation.ActionNone),
	}
	if err := tx.FirstOrCreate(&record, models.ModerationRecord{UserID: userID}).Error; err != nil {
		return fmt.Errorf("ensuring moderation record: %w", err)
	}
	return nil
}
