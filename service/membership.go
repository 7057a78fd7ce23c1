package service

import (
	"raffler/models"
	"raffler/state"

	log "github.com/sirupsen/logrus"
)

// Tracker applies reaction events from the gateway to giveaway participant
// sets. Events for unknown messages, mismatched symbols or already resolved
// giveaways are silent no-ops; reactions arrive unordered relative to
// creation and resolution and that is fine.
type Tracker struct {
	store *state.Store
}

// NewTracker creates a membership tracker over the given store.
func NewTracker(store *state.Store) *Tracker {
	return &Tracker{store: store}
}

// HandleJoin records an opt-in when the reacted symbol matches the giveaway's.
func (t *Tracker) HandleJoin(messageID, symbol, userID string) {
	t.store.MutateParticipants(messageID, func(g *models.Giveaway) bool {
		if g.Symbol != symbol {
			return false
		}
		if !g.AddParticipant(userID) {
			return false
		}
		log.WithFields(log.Fields{
			"giveaway_id":  g.ID,
			"user_id":      userID,
			"participants": len(g.Participants),
		}).Debug("User joined giveaway")
		return true
	})
}

// HandleLeave removes an opt-in when the removed symbol matches.
func (t *Tracker) HandleLeave(messageID, symbol, userID string) {
	t.store.MutateParticipants(messageID, func(g *models.Giveaway) bool {
		if g.Symbol != symbol {
			return false
		}
		if !g.RemoveParticipant(userID) {
			return false
		}
		log.WithFields(log.Fields{
			"giveaway_id":  g.ID,
			"user_id":      userID,
			"participants": len(g.Participants),
		}).Debug("User left giveaway")
		return true
	})
}
