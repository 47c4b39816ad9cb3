package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// sweepConcurrency bounds the bulk sweep fan-out.
const sweepConcurrency = 8

// SweepExpired lifts expired restriction/suspension gates for one user. The
// restriction gate opens after more than RestrictionDays whole days since the
// last action, the suspension gate after more than SuspensionDays. Strikes
// and history are never touched. The call is idempotent: re-running it
// produces no further change.
func (e *Engine) SweepExpired(ctx context.Context, userID string) (bool, error) {
	record, err := e.store.Get(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("reading moderation record: %w", err)
	}
	if record.LastActionDate == nil {
		return false, nil
	}
	if !record.Restricted && !record.Suspended {
		return false, nil
	}

	elapsedDays := int(e.now().Sub(*record.LastActionDate).Hours() / 24)
	changed := false

	if record.Restricted && elapsedDays > e.policy.RestrictionDays {
		if err := e.store.ClearRestriction(ctx, userID); err != nil {
			return changed, fmt.Errorf("clearing restriction: %w", err)
		}
		slog.Info("restriction expired", "user_id", userID, "elapsed_days", elapsedDays)
		changed = true
	}

	if record.Suspended && elapsedDays > e.policy.SuspensionDays {
		if err := e.store.ClearSuspension(ctx, userID); err != nil {
			return changed, fmt.Errorf("clearing suspension: %w", err)
		}
		if e.gate != nil {
			if err := e.gate.Clear(ctx, userID); err != nil {
				slog.Error("failed to clear suspension gate", "user_id", userID, "error", err)
			}
		}
		slog.Info("suspension expired", "user_id", userID, "elapsed_days", elapsedDays)
		changed = true
	}

	return changed, nil
}

// SweepAll runs the expiry sweep over every record with an active gate and
// returns how many records changed. Used by the admin bulk-sweep endpoint;
// individual records are still swept opportunistically on profile load.
func (e *Engine) SweepAll(ctx context.Context) (int, error) {
	records, err := e.store.ListFlagged(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing flagged records: %w", err)
	}

	var changed atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(sweepConcurrency)
	for _, record := range records {
		g.Go(func() error {
			didChange, err := e.SweepExpired(ctx, record.UserID)
			if err != nil {
				return err
			}
			if didChange {
				changed.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(changed.Load()), err
	}
	return int(changed.Load()), nil
}
