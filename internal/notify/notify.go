// Package notify fans account-action events out to operators and affected
// users. Delivery is best effort: a failed notification is logged by the
// caller and never fails the moderation decision that triggered it.
package notify

import (
	"context"
	"errors"
	"time"
)

// Event describes an account action the engine just applied.
type Event struct {
	UserID       string
	Email        string // empty when the affected user's email is unknown
	Action       string // "restriction" or "suspension"
	TotalStrikes float64
	Violations   []string
	OccurredAt   time.Time
}

type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// Multi fans one event out to every notifier and joins the failures.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, ev Event) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
