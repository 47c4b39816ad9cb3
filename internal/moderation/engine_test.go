package moderation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hivesocial/moderation-backend/internal/models"
)

// memStore is an in-memory RecordStore for engine tests. Error fields let
// individual tests force failures on specific persistence paths.
type memStore struct {
	mu       sync.Mutex
	records  map[string]*models.ModerationRecord
	strikes  map[string][]*models.StrikeEntry
	warnings map[string][]*models.WarningEntry

	applyStrikeErr   error
	appendWarningErr error
}

func newMemStore() *memStore {
	return &memStore{
		records:  make(map[string]*models.ModerationRecord),
		strikes:  make(map[string][]*models.StrikeEntry),
		warnings: make(map[string][]*models.WarningEntry),
	}
}

func (m *memStore) Get(_ context.Context, userID string) (*models.ModerationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.records[userID]; ok {
		copied := *r
		return &copied, nil
	}
	return &models.ModerationRecord{UserID: userID, LastActionTaken: string(ActionNone)}, nil
}

func (m *memStore) WarningCount(_ context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.warnings[userID]), nil
}

func (m *memStore) AppendWarning(_ context.Context, userID string, entry *models.WarningEntry) error {
	if m.appendWarningErr != nil {
		return m.appendWarningErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureRecord(userID)
	m.warnings[userID] = append(m.warnings[userID], entry)
	return nil
}

func (m *memStore) ApplyStrike(_ context.Context, userID string, strike *models.StrikeEntry, warning *models.WarningEntry, update RecordUpdate) error {
	if m.applyStrikeErr != nil {
		return m.applyStrikeErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.ensureRecord(userID)
	m.strikes[userID] = append(m.strikes[userID], strike)
	m.warnings[userID] = append(m.warnings[userID], warning)
	r.Strikes += update.StrikeDelta
	r.LastActionTaken = string(update.ActionTaken)
	date := update.ActionDate
	r.LastActionDate = &date
	if update.Suspend {
		r.Suspended = true
	}
	if update.Restrict {
		r.Restricted = true
	}
	return nil
}

func (m *memStore) ClearRestriction(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.records[userID]; ok {
		r.Restricted = false
	}
	return nil
}

func (m *memStore) ClearSuspension(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.records[userID]; ok {
		r.Suspended = false
	}
	return nil
}

func (m *memStore) ListFlagged(_ context.Context) ([]models.ModerationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ModerationRecord
	for _, r := range m.records {
		if r.Suspended || r.Restricted {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memStore) ensureRecord(userID string) *models.ModerationRecord {
	r, ok := m.records[userID]
	if !ok {
		r = &models.ModerationRecord{UserID: userID, LastActionTaken: string(ActionNone)}
		m.records[userID] = r
	}
	return r
}

// seed installs a record with a given prior state.
func (m *memStore) seed(record *models.ModerationRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.UserID] = record
}

// memGate records suspension-gate calls.
type memGate struct {
	mu        sync.Mutex
	suspended map[string]bool
	markErr   error
}

func newMemGate() *memGate {
	return &memGate{suspended: make(map[string]bool)}
}

func (g *memGate) MarkSuspended(_ context.Context, userID string, _ time.Duration) error {
	if g.markErr != nil {
		return g.markErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.suspended[userID] = true
	return nil
}

func (g *memGate) Clear(_ context.Context, userID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.suspended, userID)
	return nil
}

func (g *memGate) IsSuspended(_ context.Context, userID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.suspended[userID], nil
}

func newTestEngine(store RecordStore) *Engine {
	e := NewEngine(store, DefaultCatalog(), DefaultPolicy())
	e.now = func() time.Time {
		return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	}
	return e
}

func TestScanContentCleanIsNoOp(t *testing.T) {
	store := newMemStore()
	e := newTestEngine(store)

	result, err := e.ScanContent(context.Background(), "u1", "see you at the park later")
	require.NoError(t, err)

	assert.Empty(t, result.Violations)
	assert.Equal(t, LevelNone, result.WarningLevel)
	assert.False(t, result.StrikeAdded)
	assert.Equal(t, ActionNone, result.ActionTaken)
	assert.Equal(t, 0.0, result.TotalStrikes)

	// Nothing persisted, not even an implicit record.
	assert.Empty(t, store.records)
	assert.Empty(t, store.warnings["u1"])
}

func TestScanContentHarmfulFirstStrike(t *testing.T) {
	// "stupid" matches both the harmful rules (2.0) and the warning-word
	// lexicon (1.0): weight 3.0, first strike, total 3.0 lands on warning.
	store := newMemStore()
	e := newTestEngine(store)

	result, err := e.ScanContent(context.Background(), "u1", "you're stupid")
	require.NoError(t, err)

	assert.Equal(t, LevelHigh, result.WarningLevel)
	assert.True(t, result.StrikeAdded)
	assert.Equal(t, 3.0, result.StrikeWeight)
	assert.Equal(t, 3.0, result.TotalStrikes)
	assert.Equal(t, ActionWarning, result.ActionTaken)

	record := store.records["u1"]
	require.NotNil(t, record)
	assert.Equal(t, 3.0, record.Strikes)
	assert.False(t, record.Suspended)
	assert.False(t, record.Restricted)
	assert.Equal(t, string(ActionWarning), record.LastActionTaken)
	require.NotNil(t, record.LastActionDate)

	// A strike-level scan appends to both histories.
	require.Len(t, store.strikes["u1"], 1)
	require.Len(t, store.warnings["u1"], 1)
	assert.Equal(t, 3.0, store.strikes["u1"][0].Count)
	assert.Equal(t, LevelHigh.String(), store.warnings["u1"][0].Level)
}

func TestScanContentMediumAppendsWarningOnly(t *testing.T) {
	store := newMemStore()
	e := newTestEngine(store)

	result, err := e.ScanContent(context.Background(), "u1", "the moon landing was a hoax")
	require.NoError(t, err)

	assert.Equal(t, LevelMedium, result.WarningLevel)
	assert.False(t, result.StrikeAdded)
	assert.Equal(t, 0.0, result.StrikeWeight)
	assert.Equal(t, ActionNone, result.ActionTaken)

	assert.Empty(t, store.strikes["u1"])
	require.Len(t, store.warnings["u1"], 1)
	assert.Equal(t, LevelMedium.String(), store.warnings["u1"][0].Level)
	assert.Equal(t, 0.0, store.records["u1"].Strikes)
}

func TestScanContentRestrictionAtSix(t *testing.T) {
	// 5.5 prior strikes plus a single fraud violation (1.5) crosses the
	// restriction threshold at 7.0.
	store := newMemStore()
	store.seed(&models.ModerationRecord{
		UserID:          "u1",
		Strikes:         5.5,
		LastActionTaken: string(ActionWarning),
	})
	e := newTestEngine(store)

	result, err := e.ScanContent(context.Background(), "u1", "click here for free money")
	require.NoError(t, err)

	assert.True(t, result.StrikeAdded)
	assert.Equal(t, 1.5, result.StrikeWeight)
	assert.Equal(t, 7.0, result.TotalStrikes)
	assert.Equal(t, ActionRestriction, result.ActionTaken)

	record := store.records["u1"]
	assert.True(t, record.Restricted)
	assert.False(t, record.Suspended)
	assert.Equal(t, string(ActionRestriction), record.LastActionTaken)
}

func TestScanContentSuspensionMarksGate(t *testing.T) {
	store := newMemStore()
	store.seed(&models.ModerationRecord{
		UserID:          "u1",
		Strikes:         7.5,
		Restricted:      true,
		LastActionTaken: string(ActionRestriction),
	})
	gate := newMemGate()
	e := newTestEngine(store)
	e.SetGate(gate)

	result, err := e.ScanContent(context.Background(), "u1", "free money")
	require.NoError(t, err)

	assert.Equal(t, 9.0, result.TotalStrikes)
	assert.Equal(t, ActionSuspension, result.ActionTaken)
	assert.True(t, store.records["u1"].Suspended)

	mirrored, err := gate.IsSuspended(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, mirrored)
}

func TestScanContentGateFailureDoesNotFailStrike(t *testing.T) {
	store := newMemStore()
	store.seed(&models.ModerationRecord{UserID: "u1", Strikes: 8})
	gate := newMemGate()
	gate.markErr = errors.New("redis down")
	e := newTestEngine(store)
	e.SetGate(gate)

	result, err := e.ScanContent(context.Background(), "u1", "free money")
	require.NoError(t, err)

	// The store is authoritative; the mirror is best effort.
	assert.Equal(t, ActionSuspension, result.ActionTaken)
	assert.True(t, store.records["u1"].Suspended)
}

func TestScanContentRecidivismStrike(t *testing.T) {
	// Three prior warnings force a strike even on otherwise clean content,
	// weighted at the standard 1.0.
	store := newMemStore()
	e := newTestEngine(store)

	for range 3 {
		_, err := e.ScanContent(context.Background(), "u1", "that movie was lame")
		require.NoError(t, err)
	}
	require.Len(t, store.warnings["u1"], 3)

	result, err := e.ScanContent(context.Background(), "u1", "have a nice day")
	require.NoError(t, err)

	assert.Equal(t, LevelHigh, result.WarningLevel)
	assert.True(t, result.StrikeAdded)
	assert.Equal(t, 1.0, result.StrikeWeight)
	assert.Equal(t, 1.0, result.TotalStrikes)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, CategoryRecidivism, result.Violations[0].Category)
}

func TestScanContentTwoWarningsNoRecidivism(t *testing.T) {
	store := newMemStore()
	e := newTestEngine(store)

	for range 2 {
		_, err := e.ScanContent(context.Background(), "u1", "that movie was lame")
		require.NoError(t, err)
	}

	result, err := e.ScanContent(context.Background(), "u1", "have a nice day")
	require.NoError(t, err)

	assert.Equal(t, LevelNone, result.WarningLevel)
	assert.False(t, result.StrikeAdded)
}

func TestScanContentStrikePersistFailureFailsClosed(t *testing.T) {
	store := newMemStore()
	store.applyStrikeErr = errors.New("db unavailable")
	e := newTestEngine(store)

	result, err := e.ScanContent(context.Background(), "u1", "you're stupid")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Empty(t, store.strikes["u1"])
	assert.Empty(t, store.records)
}

func TestScanContentWarningPersistFailureReturnsResult(t *testing.T) {
	store := newMemStore()
	store.appendWarningErr = errors.New("db unavailable")
	e := newTestEngine(store)

	result, err := e.ScanContent(context.Background(), "u1", "the earth is flat")

	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, LevelMedium, result.WarningLevel)
	assert.False(t, result.StrikeAdded)
}

func TestScanContentTooLarge(t *testing.T) {
	store := newMemStore()
	e := newTestEngine(store)

	content := strings.Repeat("a", e.policy.MaxContentLength+1)
	result, err := e.ScanContent(context.Background(), "u1", content)

	require.ErrorIs(t, err, ErrContentTooLarge)
	assert.Nil(t, result)
}

func TestScanContentStrikesOnlyGrow(t *testing.T) {
	store := newMemStore()
	e := newTestEngine(store)

	// Each strike also appends a warning row, so the fourth scan sees three
	// prior warnings and picks up the recidivism violation on top of fraud:
	// 1.5 + 1.5 + 1.5 + 2.5 = 7.0.
	var last float64
	for range 4 {
		result, err := e.ScanContent(context.Background(), "u1", "double your money fast")
		require.NoError(t, err)
		assert.Greater(t, result.TotalStrikes, last)
		last = result.TotalStrikes
	}
	assert.Equal(t, 7.0, last)
	assert.True(t, store.records["u1"].Restricted)
}
