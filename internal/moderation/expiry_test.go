package moderation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hivesocial/moderation-backend/internal/models"
)

func daysAgo(e *Engine, days int) *time.Time {
	t := e.now().Add(-time.Duration(days) * 24 * time.Hour)
	return &t
}

func TestSweepExpiredClearsRestrictionAfterThreeDays(t *testing.T) {
	store := newMemStore()
	e := newTestEngine(store)
	store.seed(&models.ModerationRecord{
		UserID:          "u1",
		Strikes:         6,
		Restricted:      true,
		LastActionTaken: string(ActionRestriction),
		LastActionDate:  daysAgo(e, 4),
	})

	changed, err := e.SweepExpired(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, changed)

	record := store.records["u1"]
	assert.False(t, record.Restricted)
	// Strikes and the action audit trail survive the sweep.
	assert.Equal(t, 6.0, record.Strikes)
	assert.Equal(t, string(ActionRestriction), record.LastActionTaken)
	assert.NotNil(t, record.LastActionDate)
}

func TestSweepExpiredIsIdempotent(t *testing.T) {
	store := newMemStore()
	e := newTestEngine(store)
	store.seed(&models.ModerationRecord{
		UserID:          "u1",
		Strikes:         6,
		Restricted:      true,
		LastActionTaken: string(ActionRestriction),
		LastActionDate:  daysAgo(e, 4),
	})

	changed, err := e.SweepExpired(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = e.SweepExpired(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestSweepExpiredRestrictionNotYetDue(t *testing.T) {
	// Exactly three days is not "more than three days".
	store := newMemStore()
	e := newTestEngine(store)
	store.seed(&models.ModerationRecord{
		UserID:          "u1",
		Restricted:      true,
		LastActionTaken: string(ActionRestriction),
		LastActionDate:  daysAgo(e, 3),
	})

	changed, err := e.SweepExpired(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.True(t, store.records["u1"].Restricted)
}

func TestSweepExpiredSuspensionWindow(t *testing.T) {
	tests := []struct {
		name     string
		days     int
		expected bool
	}{
		{"six days stays suspended", 6, false},
		{"seven days stays suspended", 7, false},
		{"eight days lifts suspension", 8, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			e := newTestEngine(store)
			store.seed(&models.ModerationRecord{
				UserID:          "u1",
				Strikes:         9,
				Suspended:       true,
				LastActionTaken: string(ActionSuspension),
				LastActionDate:  daysAgo(e, tt.days),
			})

			changed, err := e.SweepExpired(context.Background(), "u1")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, changed)
			assert.Equal(t, !tt.expected, store.records["u1"].Suspended)
		})
	}
}

func TestSweepExpiredClearsGateWithSuspension(t *testing.T) {
	store := newMemStore()
	gate := newMemGate()
	e := newTestEngine(store)
	e.SetGate(gate)
	require.NoError(t, gate.MarkSuspended(context.Background(), "u1", time.Hour))
	store.seed(&models.ModerationRecord{
		UserID:          "u1",
		Suspended:       true,
		LastActionTaken: string(ActionSuspension),
		LastActionDate:  daysAgo(e, 8),
	})

	changed, err := e.SweepExpired(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, changed)

	mirrored, err := gate.IsSuspended(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, mirrored)
}

func TestSweepExpiredNoActionDate(t *testing.T) {
	store := newMemStore()
	e := newTestEngine(store)
	store.seed(&models.ModerationRecord{UserID: "u1", Restricted: true})

	changed, err := e.SweepExpired(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestSweepExpiredUnflaggedRecord(t *testing.T) {
	store := newMemStore()
	e := newTestEngine(store)
	store.seed(&models.ModerationRecord{
		UserID:          "u1",
		Strikes:         3,
		LastActionTaken: string(ActionWarning),
		LastActionDate:  daysAgo(e, 30),
	})

	changed, err := e.SweepExpired(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestSweepAllCountsChangedRecords(t *testing.T) {
	store := newMemStore()
	e := newTestEngine(store)

	// Two due, one not yet due, one unflagged.
	store.seed(&models.ModerationRecord{
		UserID: "due-restriction", Restricted: true,
		LastActionTaken: string(ActionRestriction), LastActionDate: daysAgo(e, 5),
	})
	store.seed(&models.ModerationRecord{
		UserID: "due-suspension", Suspended: true,
		LastActionTaken: string(ActionSuspension), LastActionDate: daysAgo(e, 10),
	})
	store.seed(&models.ModerationRecord{
		UserID: "fresh", Restricted: true,
		LastActionTaken: string(ActionRestriction), LastActionDate: daysAgo(e, 1),
	})
	store.seed(&models.ModerationRecord{
		UserID: "clean", LastActionTaken: string(ActionWarning), LastActionDate: daysAgo(e, 20),
	})

	changed, err := e.SweepAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	assert.False(t, store.records["due-restriction"].Restricted)
	assert.False(t, store.records["due-suspension"].Suspended)
	assert.True(t, store.records["fresh"].Restricted)

	// Second pass finds nothing left to lift.
	changed, err = e.SweepAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, changed)
}
