package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	err    error
	events []Event
}

func (f *fakeNotifier) Notify(_ context.Context, ev Event) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

func TestMultiDeliversToAll(t *testing.T) {
	a := &fakeNotifier{}
	b := &fakeNotifier{}
	m := Multi{a, b}

	ev := Event{
		UserID:       "u1",
		Action:       "suspension",
		TotalStrikes: 9.5,
		Violations:   []string{"Potential fraud or scam detected"},
		OccurredAt:   time.Now().UTC(),
	}
	require.NoError(t, m.Notify(context.Background(), ev))

	require.Len(t, a.events, 1)
	require.Len(t, b.events, 1)
	assert.Equal(t, ev, a.events[0])
}

func TestMultiOneFailureStillDeliversRest(t *testing.T) {
	failing := &fakeNotifier{err: errors.New("telegram timeout")}
	working := &fakeNotifier{}
	m := Multi{failing, working}

	err := m.Notify(context.Background(), Event{UserID: "u1", Action: "restriction"})

	require.Error(t, err)
	assert.Len(t, working.events, 1)
}

func TestMultiEmptyIsNoOp(t *testing.T) {
	var m Multi
	assert.NoError(t, m.Notify(context.Background(), Event{UserID: "u1"}))
}
