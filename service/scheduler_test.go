package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"raffler/models"
	"raffler/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func scheduledStore(t *testing.T, deadlineUnix int64) (*state.Store, *models.Giveaway) {
	t.Helper()

	store := state.NewStore(nil, nil)
	g, err := store.Create(models.Draft{
		Title:        "Nitro",
		ChannelID:    "chan-1",
		GuildID:      "guild-1",
		Symbol:       "🎉",
		WinnerCount:  2,
		DeadlineUnix: &deadlineUnix,
	})
	require.NoError(t, err)
	require.NoError(t, store.AttachAnnouncement(g.ID, "msg-1"))
	return store, g
}

func TestSchedulerSweepResolvesExpiredOnce(t *testing.T) {
	t.Parallel()

	created := time.Now().UTC().Truncate(time.Minute).Add(time.Hour)
	store, _ := scheduledStore(t, created.Add(5*time.Minute).Unix())

	tracker := NewTracker(store)
	tracker.HandleJoin("msg-1", "🎉", "u1")
	tracker.HandleJoin("msg-1", "🎉", "u2")
	tracker.HandleJoin("msg-1", "🎉", "u3")

	messenger := new(MockMessenger)
	messenger.On("DeleteMessage", mock.Anything, "chan-1", "msg-1").Return(nil).Once()
	messenger.On("PostMessage", mock.Anything, "chan-1", mock.AnythingOfType("string")).Return("msg-2", nil).Once()

	sched := NewScheduler(store, NewResolver(messenger))
	sched.now = func() time.Time { return created.Add(4 * time.Minute) }

	// Before the deadline nothing happens.
	sched.Sweep(context.Background())
	assert.Len(t, store.Snapshot(), 1)

	// At the next minute boundary past the deadline the giveaway resolves.
	sched.now = func() time.Time { return created.Add(5 * time.Minute) }
	sched.Sweep(context.Background())
	assert.Empty(t, store.Snapshot())

	// A second sweep finds nothing; the mocks would fail on a double post.
	sched.Sweep(context.Background())
	messenger.AssertExpectations(t)
}

func TestSchedulerSweepIgnoresManualOnlyGiveaways(t *testing.T) {
	t.Parallel()

	store := state.NewStore(nil, nil)
	_, err := store.Create(models.Draft{
		Title:       "Manual",
		ChannelID:   "chan-1",
		GuildID:     "guild-1",
		Symbol:      "🎉",
		WinnerCount: 1,
	})
	require.NoError(t, err)

	messenger := new(MockMessenger)
	sched := NewScheduler(store, NewResolver(messenger))

	sched.Sweep(context.Background())
	assert.Len(t, store.Snapshot(), 1)
	messenger.AssertExpectations(t)
}

func TestSchedulerSweepRestoresOnResolutionFailure(t *testing.T) {
	t.Parallel()

	created := time.Now().UTC().Truncate(time.Minute).Add(time.Hour)
	store, g := scheduledStore(t, created.Unix())

	messenger := new(MockMessenger)
	messenger.On("DeleteMessage", mock.Anything, "chan-1", "msg-1").Return(nil)
	messenger.On("PostMessage", mock.Anything, "chan-1", mock.AnythingOfType("string")).
		Return("", errors.New("discord is down")).Once()
	messenger.On("PostMessage", mock.Anything, "chan-1", mock.AnythingOfType("string")).
		Return("msg-2", nil).Once()

	sched := NewScheduler(store, NewResolver(messenger))
	sched.now = func() time.Time { return created.Add(time.Minute) }

	// First sweep fails to post the result; the giveaway must survive.
	sched.Sweep(context.Background())
	snap := store.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, g.ID, snap[0].ID)

	// The retry on the next sweep succeeds.
	sched.Sweep(context.Background())
	assert.Empty(t, store.Snapshot())
	messenger.AssertExpectations(t)
}

func TestSchedulerSweepContinuesPastFailures(t *testing.T) {
	t.Parallel()

	created := time.Now().UTC().Truncate(time.Minute).Add(time.Hour)
	deadline := created.Unix()

	store := state.NewStore(nil, nil)
	for _, ch := range []string{"chan-bad", "chan-good"} {
		g, err := store.Create(models.Draft{
			Title:        "Nitro " + ch,
			ChannelID:    ch,
			GuildID:      "guild-1",
			Symbol:       "🎉",
			WinnerCount:  1,
			DeadlineUnix: &deadline,
		})
		require.NoError(t, err)
		require.NoError(t, store.AttachAnnouncement(g.ID, "msg-"+ch))
	}

	messenger := new(MockMessenger)
	messenger.On("DeleteMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	messenger.On("PostMessage", mock.Anything, "chan-bad", mock.AnythingOfType("string")).
		Return("", errors.New("channel gone"))
	messenger.On("PostMessage", mock.Anything, "chan-good", mock.AnythingOfType("string")).
		Return("msg-2", nil).Once()

	sched := NewScheduler(store, NewResolver(messenger))
	sched.now = func() time.Time { return created.Add(time.Minute) }

	sched.Sweep(context.Background())

	// Only the failed giveaway remains for the next sweep.
	snap := store.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "chan-bad", snap[0].ChannelID)
	messenger.AssertExpectations(t)
}

func TestSchedulerStartStops(t *testing.T) {
	t.Parallel()

	store := state.NewStore(nil, nil)
	sched := NewScheduler(store, NewResolver(new(MockMessenger)))

	ctx, cancel := context.WithCancel(context.Background())
	stop := sched.Start(ctx)
	stop()
	cancel()
}

func TestUntilNextMinute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		now  time.Time
		want time.Duration
	}{
		{"mid minute", time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC), 34 * time.Second},
		{"on the boundary", time.Date(2026, 3, 14, 15, 9, 0, 0, time.UTC), time.Minute},
		{"just before boundary", time.Date(2026, 3, 14, 15, 9, 59, int(900*time.Millisecond), time.UTC), 100 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, untilNextMinute(tt.now))
		})
	}
}
