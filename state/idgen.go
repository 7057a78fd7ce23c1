package state

import (
	"errors"
	"math/rand"

	"raffler/models"
)

// ErrIDSpaceExhausted means the generator hit its retry cap without finding a
// free id. With random 32-bit ids and a handful of active giveaways this does
// not happen; the cap only guards against looping forever.
var ErrIDSpaceExhausted = errors.New("could not allocate a free giveaway id")

const maxIDAttempts = 1000

// idSource yields candidate 32-bit ids. Production uses math/rand; tests
// substitute a deterministic source to force collisions.
type idSource func() uint32

func nextID(gen idSource, used map[models.GiveawayID]bool) (models.GiveawayID, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := models.GiveawayID(gen())
		if id == 0 || used[id] {
			continue
		}
		return id, nil
	}
	return 0, ErrIDSpaceExhausted
}

func randomID() uint32 {
	return rand.Uint32()
}
