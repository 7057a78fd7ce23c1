package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"raffler/models"

	log "github.com/sirupsen/logrus"
)

// Outcome is the terminal result of a giveaway.
type Outcome struct {
	GiveawayID models.GiveawayID
	Winners    []string
	Cancelled  bool
	MessageID  string
}

// Resolver performs the terminal operations on a giveaway. Both take
// ownership of a giveaway the caller already detached from the store, so
// neither re-checks the active set.
type Resolver struct {
	messenger Messenger
}

// NewResolver creates a resolution engine posting through the given messenger.
func NewResolver(messenger Messenger) *Resolver {
	return &Resolver{messenger: messenger}
}

// Resolve draws winners and announces them. The original announcement is
// deleted best-effort; only a failure to post the result message is an error,
// so the caller can put the giveaway back and retry later.
func (r *Resolver) Resolve(ctx context.Context, g *models.Giveaway) (*Outcome, error) {
	winners := pickWinners(g.Participants, g.WinnerCount)

	r.deleteAnnouncement(ctx, g)

	messageID, err := r.messenger.PostMessage(ctx, g.ChannelID, resultMessage(g, winners))
	if err != nil {
		return nil, fmt.Errorf("failed to post result for giveaway %s: %w", g.ID, err)
	}

	log.WithFields(log.Fields{
		"giveaway_id":  g.ID,
		"title":        g.Title,
		"participants": len(g.Participants),
		"winners":      winners,
	}).Info("Finished giveaway")

	return &Outcome{GiveawayID: g.ID, Winners: winners, MessageID: messageID}, nil
}

// Cancel announces the cancellation, naming the actor. No winners are drawn.
func (r *Resolver) Cancel(ctx context.Context, g *models.Giveaway, actorID string) (*Outcome, error) {
	r.deleteAnnouncement(ctx, g)

	messageID, err := r.messenger.PostMessage(ctx, g.ChannelID, cancelMessage(g, actorID))
	if err != nil {
		return nil, fmt.Errorf("failed to post cancellation for giveaway %s: %w", g.ID, err)
	}

	log.WithFields(log.Fields{
		"giveaway_id": g.ID,
		"title":       g.Title,
		"actor_id":    actorID,
	}).Info("Cancelled giveaway")

	return &Outcome{GiveawayID: g.ID, Cancelled: true, MessageID: messageID}, nil
}

func (r *Resolver) deleteAnnouncement(ctx context.Context, g *models.Giveaway) {
	if g.MessageID == "" {
		return
	}
	if err := r.messenger.DeleteMessage(ctx, g.ChannelID, g.MessageID); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"giveaway_id": g.ID,
			"message_id":  g.MessageID,
		}).Warn("Failed to delete giveaway announcement")
	}
}

// pickWinners draws min(count, len(participants)) distinct entries uniformly
// at random, without replacement, via a partial Fisher-Yates shuffle. The
// returned order is the drawn order.
func pickWinners(participants []string, count int) []string {
	pool := make([]string, len(participants))
	copy(pool, participants)

	if count > len(pool) {
		count = len(pool)
	}
	for i := 0; i < count; i++ {
		j := i + rand.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:count]
}

func resultMessage(g *models.Giveaway, winners []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", g.Title)
	if len(winners) == 0 {
		b.WriteString("Winner: nobody entered this giveaway.")
	} else {
		b.WriteString("Winners:")
		for i, winner := range winners {
			fmt.Fprintf(&b, "\n%d. <@%s>", i+1, winner)
		}
		b.WriteString("\n\nOpen a ticket to claim your prize!")
	}
	fmt.Fprintf(&b, "\n||%s||", g.ID)
	return b.String()
}

func cancelMessage(g *models.Giveaway, actorID string) string {
	return fmt.Sprintf("# %s\n\nThis giveaway was cancelled by <@%s>.\n||%s||", g.Title, actorID, g.ID)
}
