package state

import (
	"slices"
	"sync"
	"time"

	"raffler/models"

	log "github.com/sirupsen/logrus"
)

// Saver persists a point-in-time copy of the active set. Implemented by
// FileStore; mocked in tests.
type Saver interface {
	Save(giveaways []*models.Giveaway) error
}

// Store owns the set of active giveaways. Every operation takes the single
// mutex for the in-memory mutation only; persistence and all Discord calls
// happen with the lock released.
type Store struct {
	mu        sync.Mutex
	giveaways []*models.Giveaway
	saver     Saver
	newID     idSource
	now       func() time.Time
}

// NewStore builds a store seeded with previously persisted giveaways.
func NewStore(giveaways []*models.Giveaway, saver Saver) *Store {
	return &Store{
		giveaways: giveaways,
		saver:     saver,
		newID:     randomID,
		now:       time.Now,
	}
}

// Create validates the draft, allocates a collision-free id and inserts the
// giveaway without an announcement message. The caller posts the announcement
// and then calls AttachAnnouncement, which triggers the first persistence of
// the new entry; until then the giveaway cannot match any reaction event.
func (s *Store) Create(draft models.Draft) (*models.Giveaway, error) {
	deadline, err := draft.Validate(s.now())
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	used := make(map[models.GiveawayID]bool, len(s.giveaways))
	for _, g := range s.giveaways {
		used[g.ID] = true
	}
	id, err := nextID(s.newID, used)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	g := &models.Giveaway{
		ID:          id,
		Title:       draft.Title,
		ChannelID:   draft.ChannelID,
		GuildID:     draft.GuildID,
		Symbol:      draft.Symbol,
		Deadline:    deadline,
		WinnerCount: draft.WinnerCount,
	}
	s.giveaways = append(s.giveaways, g)
	out := g.Clone()
	s.mu.Unlock()

	return out, nil
}

// AttachAnnouncement records the posted announcement message for a freshly
// created giveaway and persists the active set.
func (s *Store) AttachAnnouncement(id models.GiveawayID, messageID string) error {
	s.mu.Lock()
	g := s.findLocked(id)
	if g == nil {
		s.mu.Unlock()
		return models.ErrNotFound
	}
	g.MessageID = messageID
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(snap)
	return nil
}

// RemoveByID atomically detaches and returns the giveaway with the given id,
// so each giveaway can be resolved at most once.
func (s *Store) RemoveByID(id models.GiveawayID) (*models.Giveaway, error) {
	return s.remove(id, false, "")
}

// RemoveByIDScoped is RemoveByID restricted to the caller's guild; it fails
// with models.ErrWrongGuild when the id exists elsewhere. An empty guildID
// matches no stored guild.
func (s *Store) RemoveByIDScoped(id models.GiveawayID, guildID string) (*models.Giveaway, error) {
	return s.remove(id, true, guildID)
}

func (s *Store) remove(id models.GiveawayID, scoped bool, guildID string) (*models.Giveaway, error) {
	s.mu.Lock()
	i := slices.IndexFunc(s.giveaways, func(g *models.Giveaway) bool { return g.ID == id })
	if i < 0 {
		s.mu.Unlock()
		return nil, models.ErrNotFound
	}
	if scoped && s.giveaways[i].GuildID != guildID {
		s.mu.Unlock()
		return nil, models.ErrWrongGuild
	}
	g := s.giveaways[i]
	s.giveaways = slices.Delete(s.giveaways, i, i+1)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(snap)
	return g, nil
}

// Restore puts a detached giveaway back, keeping its id. The scheduler uses
// this when a resolution fails so the next sweep retries instead of silently
// dropping the giveaway.
func (s *Store) Restore(g *models.Giveaway) {
	s.mu.Lock()
	s.giveaways = append(s.giveaways, g)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(snap)
}

// Snapshot returns a consistent deep copy of the active set.
func (s *Store) Snapshot() []*models.Giveaway {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// MutateParticipants applies fn to the giveaway announced by messageID, if
// any. fn reports whether it changed anything; changes are persisted. Events
// for unknown or already resolved messages are silent no-ops.
func (s *Store) MutateParticipants(messageID string, fn func(*models.Giveaway) bool) {
	if messageID == "" {
		return
	}
	s.mu.Lock()
	i := slices.IndexFunc(s.giveaways, func(g *models.Giveaway) bool { return g.MessageID == messageID })
	if i < 0 {
		s.mu.Unlock()
		return
	}
	changed := fn(s.giveaways[i])
	var snap []*models.Giveaway
	if changed {
		snap = s.snapshotLocked()
	}
	s.mu.Unlock()

	if changed {
		s.persist(snap)
	}
}

// Flush writes the current active set, for the final snapshot at shutdown.
func (s *Store) Flush() error {
	if s.saver == nil {
		return nil
	}
	return s.saver.Save(s.Snapshot())
}

func (s *Store) findLocked(id models.GiveawayID) *models.Giveaway {
	for _, g := range s.giveaways {
		if g.ID == id {
			return g
		}
	}
	return nil
}

func (s *Store) snapshotLocked() []*models.Giveaway {
	snap := make([]*models.Giveaway, len(s.giveaways))
	for i, g := range s.giveaways {
		snap[i] = g.Clone()
	}
	return snap
}

// persist writes a snapshot outside the lock. The in-memory set stays
// authoritative, so a failed write degrades to a logged error until the next
// successful snapshot.
func (s *Store) persist(snap []*models.Giveaway) {
	if s.saver == nil {
		return
	}
	if err := s.saver.Save(snap); err != nil {
		log.WithError(err).Error("Failed to persist giveaway snapshot")
	}
}
