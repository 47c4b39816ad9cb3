package moderation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hivesocial/moderation-backend/internal/models"
	"gorm.io/datatypes"
)

var (
	// ErrContentTooLarge rejects content above the policy ceiling before any
	// pattern runs.
	ErrContentTooLarge = errors.New("content exceeds maximum length")
)

// Result is the fully populated outcome of one scan. ActionTaken is
// ActionNone and TotalStrikes carries the unchanged prior total whenever no
// strike occurred.
type Result struct {
	Violations   []Violation `json:"violations"`
	WarningLevel Level       `json:"warning_level"`
	StrikeAdded  bool        `json:"strike_added"`
	StrikeWeight float64     `json:"strike_weight"`
	TotalStrikes float64     `json:"total_strikes"`
	ActionTaken  Action      `json:"action_taken"`
}

// RecordUpdate carries the account-state mutation of a strike outcome.
// Suspend and Restrict only ever set their flag; clearing is the expiry
// sweep's job.
type RecordUpdate struct {
	StrikeDelta float64
	Suspend     bool
	Restrict    bool
	ActionTaken Action
	ActionDate  time.Time
}

// RecordStore is the user-record store the engine persists through. Get must
// return a zero-valued record for unknown users rather than an error; history
// appends must merge under concurrent writers; ApplyStrike must apply the
// whole outcome atomically.
type RecordStore interface {
	Get(ctx context.Context, userID string) (*models.ModerationRecord, error)
	WarningCount(ctx context.Context, userID string) (int, error)
	AppendWarning(ctx context.Context, userID string, entry *models.WarningEntry) error
	ApplyStrike(ctx context.Context, userID string, strike *models.StrikeEntry, warning *models.WarningEntry, update RecordUpdate) error
	ClearRestriction(ctx context.Context, userID string) error
	ClearSuspension(ctx context.Context, userID string) error
	ListFlagged(ctx context.Context) ([]models.ModerationRecord, error)
}

// SuspensionGate mirrors the suspended flag into a fast lookup (Redis in
// production) so the submission pipeline can gate without a record read. The
// record store stays authoritative.
type SuspensionGate interface {
	MarkSuspended(ctx context.Context, userID string, ttl time.Duration) error
	Clear(ctx context.Context, userID string) error
	IsSuspended(ctx context.Context, userID string) (bool, error)
}

// Engine is the moderation core: scan, weigh, escalate, persist. It is
// stateless per invocation; the only blocking work is the store round-trip.
type Engine struct {
	store   RecordStore
	scanner *Scanner
	catalog *Catalog
	policy  Policy
	gate    SuspensionGate

	now func() time.Time
}

func NewEngine(store RecordStore, catalog *Catalog, policy Policy) *Engine {
	return &Engine{
		store:   store,
		scanner: NewScanner(catalog),
		catalog: catalog,
		policy:  policy,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// SetGate attaches an optional suspension gate mirror.
func (e *Engine) SetGate(gate SuspensionGate) {
	e.gate = gate
}

// Policy returns the thresholds the engine was built with.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Catalog returns the rule catalog the engine scans with.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// ScanContent moderates one unit of user-generated content and persists the
// outcome. A strike is added iff the scan reaches level high; the action tier
// is derived from the post-increment cumulative total.
//
// If persisting a strike fails the error is returned with a nil result: the
// decision is not considered applied and callers must fail closed. If only
// the warning append fails, the computed result is returned alongside the
// error so callers may choose to fail open on that path.
func (e *Engine) ScanContent(ctx context.Context, userID, content string) (*Result, error) {
	if len(content) > e.policy.MaxContentLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrContentTooLarge, len(content))
	}

	record, err := e.store.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reading moderation record: %w", err)
	}
	priorWarnings, err := e.store.WarningCount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("counting prior warnings: %w", err)
	}

	outcome := e.scanner.Scan(content, priorWarnings)
	result := &Result{
		Violations:   outcome.Violations,
		WarningLevel: outcome.Level,
		TotalStrikes: record.Strikes,
		ActionTaken:  ActionNone,
	}

	switch {
	case outcome.Level == LevelHigh:
		if err := e.applyStrike(ctx, userID, content, record, result); err != nil {
			return nil, err
		}
	case outcome.Level != LevelNone:
		entry := e.warningEntry(userID, outcome, content)
		if err := e.store.AppendWarning(ctx, userID, entry); err != nil {
			return result, fmt.Errorf("appending warning: %w", err)
		}
	}

	return result, nil
}

func (e *Engine) applyStrike(ctx context.Context, userID, content string, record *models.ModerationRecord, result *Result) error {
	now := e.now()
	weight := StrikeWeight(e.catalog, result.Violations, e.policy.StrikeCap)
	newTotal := record.Strikes + weight
	tier := e.policy.Tier(newTotal)

	violationsJSON := marshalViolations(result.Violations)
	strike := &models.StrikeEntry{
		UserID:     userID,
		Count:      weight,
		Violations: violationsJSON,
		Content:    content,
		CreatedAt:  now,
	}
	warning := &models.WarningEntry{
		UserID:     userID,
		Level:      LevelHigh.String(),
		Violations: violationsJSON,
		Content:    content,
		CreatedAt:  now,
	}
	update := RecordUpdate{
		StrikeDelta: weight,
		Suspend:     tier == ActionSuspension,
		Restrict:    tier == ActionRestriction,
		ActionTaken: tier,
		ActionDate:  now,
	}

	if err := e.store.ApplyStrike(ctx, userID, strike, warning, update); err != nil {
		return fmt.Errorf("applying strike: %w", err)
	}

	result.StrikeAdded = true
	result.StrikeWeight = weight
	result.TotalStrikes = newTotal
	result.ActionTaken = tier

	if tier == ActionSuspension && e.gate != nil {
		ttl := time.Duration(e.policy.SuspensionDays) * 24 * time.Hour
		if err := e.gate.MarkSuspended(ctx, userID, ttl); err != nil {
			slog.Error("failed to mirror suspension to gate", "user_id", userID, "error", err)
		}
	}

	slog.Info("strike applied",
		"user_id", userID,
		"weight", weight,
		"total", newTotal,
		"action", string(tier),
		"violations", len(result.Violations),
	)
	return nil
}

func (e *Engine) warningEntry(userID string, outcome ScanOutcome, content string) *models.WarningEntry {
	return &models.WarningEntry{
		UserID:     userID,
		Level:      outcome.Level.String(),
		Violations: marshalViolations(outcome.Violations),
		Content:    content,
		CreatedAt:  e.now(),
	}
}

func marshalViolations(violations []Violation) datatypes.JSON {
	b, err := json.Marshal(Descriptions(violations))
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(b)
}
