package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"raffler/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testGiveaway(participants ...string) *models.Giveaway {
	return &models.Giveaway{
		ID:           42,
		Title:        "Nitro",
		MessageID:    "msg-1",
		ChannelID:    "chan-1",
		GuildID:      "guild-1",
		Symbol:       "🎉",
		WinnerCount:  3,
		Participants: participants,
	}
}

func TestResolverResolveDrawsDistinctWinners(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	g := testGiveaway("u1", "u2", "u3", "u4", "u5")

	messenger := new(MockMessenger)
	messenger.On("DeleteMessage", ctx, "chan-1", "msg-1").Return(nil)
	messenger.On("PostMessage", ctx, "chan-1", mock.AnythingOfType("string")).Return("msg-2", nil)

	outcome, err := NewResolver(messenger).Resolve(ctx, g)
	require.NoError(t, err)
	require.Len(t, outcome.Winners, 3)

	seen := make(map[string]bool)
	for _, w := range outcome.Winners {
		assert.Contains(t, g.Participants, w)
		assert.False(t, seen[w], "winner %s drawn twice", w)
		seen[w] = true
	}
	assert.Equal(t, "msg-2", outcome.MessageID)
	assert.False(t, outcome.Cancelled)
	messenger.AssertExpectations(t)
}

func TestResolverResolveWithFewerParticipantsThanWinners(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	g := testGiveaway("u1", "u2")
	g.WinnerCount = 5

	messenger := new(MockMessenger)
	messenger.On("DeleteMessage", ctx, "chan-1", "msg-1").Return(nil)
	messenger.On("PostMessage", ctx, "chan-1", mock.AnythingOfType("string")).Return("msg-2", nil)

	outcome, err := NewResolver(messenger).Resolve(ctx, g)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u1", "u2"}, outcome.Winners)
}

func TestResolverResolveWithNoParticipants(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	g := testGiveaway()

	messenger := new(MockMessenger)
	messenger.On("DeleteMessage", ctx, "chan-1", "msg-1").Return(nil)
	messenger.On("PostMessage", ctx, "chan-1", mock.MatchedBy(func(content string) bool {
		return strings.Contains(content, "nobody entered")
	})).Return("msg-2", nil)

	outcome, err := NewResolver(messenger).Resolve(ctx, g)
	require.NoError(t, err)
	assert.Empty(t, outcome.Winners)
	messenger.AssertExpectations(t)
}

func TestResolverResolveNumbersWinnersInDrawnOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	g := testGiveaway("u1", "u2", "u3")
	g.WinnerCount = 3

	var posted string
	messenger := new(MockMessenger)
	messenger.On("DeleteMessage", ctx, "chan-1", "msg-1").Return(nil)
	messenger.On("PostMessage", ctx, "chan-1", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { posted = args.String(2) }).
		Return("msg-2", nil)

	outcome, err := NewResolver(messenger).Resolve(ctx, g)
	require.NoError(t, err)
	require.Len(t, outcome.Winners, 3)

	for i, winner := range outcome.Winners {
		assert.Contains(t, posted, fmt.Sprintf("%d. <@%s>", i+1, winner))
	}
	assert.Contains(t, posted, "||42||", "result must embed the giveaway id")
}

func TestResolverResolveSurvivesAnnouncementDeleteFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	g := testGiveaway("u1")

	messenger := new(MockMessenger)
	messenger.On("DeleteMessage", ctx, "chan-1", "msg-1").Return(errors.New("message already gone"))
	messenger.On("PostMessage", ctx, "chan-1", mock.AnythingOfType("string")).Return("msg-2", nil)

	outcome, err := NewResolver(messenger).Resolve(ctx, g)
	require.NoError(t, err, "delete failure must not block resolution")
	assert.Len(t, outcome.Winners, 1)
	messenger.AssertExpectations(t)
}

func TestResolverResolvePostFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	g := testGiveaway("u1")

	messenger := new(MockMessenger)
	messenger.On("DeleteMessage", ctx, "chan-1", "msg-1").Return(nil)
	messenger.On("PostMessage", ctx, "chan-1", mock.AnythingOfType("string")).Return("", errors.New("discord is down"))

	_, err := NewResolver(messenger).Resolve(ctx, g)
	assert.Error(t, err)
}

func TestResolverCancel(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	g := testGiveaway("u1", "u2")

	var posted string
	messenger := new(MockMessenger)
	messenger.On("DeleteMessage", ctx, "chan-1", "msg-1").Return(nil)
	messenger.On("PostMessage", ctx, "chan-1", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { posted = args.String(2) }).
		Return("msg-2", nil)

	outcome, err := NewResolver(messenger).Cancel(ctx, g, "actor-9")
	require.NoError(t, err)
	assert.True(t, outcome.Cancelled)
	assert.Empty(t, outcome.Winners)
	assert.Contains(t, posted, "<@actor-9>", "cancellation must name the actor")
	assert.Contains(t, posted, "||42||")
	messenger.AssertExpectations(t)
}

func TestPickWinners(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		participants []string
		count        int
		wantLen      int
	}{
		{"more participants than winners", []string{"a", "b", "c", "d", "e"}, 3, 3},
		{"fewer participants than winners", []string{"a", "b"}, 5, 2},
		{"no participants", nil, 2, 0},
		{"exact", []string{"a", "b", "c"}, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			winners := pickWinners(tt.participants, tt.count)
			assert.Len(t, winners, tt.wantLen)
			seen := make(map[string]bool)
			for _, w := range winners {
				assert.Contains(t, tt.participants, w)
				assert.False(t, seen[w])
				seen[w] = true
			}
		})
	}
}
