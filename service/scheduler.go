package service

import (
	"context"
	"errors"
	"time"

	"raffler/models"
	"raffler/state"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Scheduler is the background worker that resolves expired giveaways. It
// alternates between sleeping until the next whole-minute boundary and
// sweeping the store for giveaways whose deadline has passed.
type Scheduler struct {
	store    *state.Store
	resolver *Resolver
	now      func() time.Time
}

// NewScheduler creates a scheduler over the given store and resolver.
func NewScheduler(store *state.Store, resolver *Resolver) *Scheduler {
	return &Scheduler{
		store:    store,
		resolver: resolver,
		now:      time.Now,
	}
}

// Start launches the sweep loop and returns a cleanup function to stop the
// worker gracefully.
func (s *Scheduler) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})

	go func() {
		log.Info("Giveaway expiration worker started")

		for {
			wait := untilNextMinute(s.now())

			select {
			case <-ctx.Done():
				log.Info("Giveaway expiration worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Giveaway expiration worker shutting down (stop requested)...")
				return
			case <-time.After(wait):
				s.Sweep(ctx)
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}

// Sweep detaches every expired giveaway from the store and resolves it
// outside the lock. A single failed resolution is logged and the giveaway is
// restored so the next sweep retries it; the rest of the sweep continues.
func (s *Scheduler) Sweep(ctx context.Context) {
	now := s.now().UTC()
	sweepID := uuid.NewString()

	var expired []*models.Giveaway
	for _, g := range s.store.Snapshot() {
		if !g.Expired(now) {
			continue
		}
		detached, err := s.store.RemoveByID(g.ID)
		if errors.Is(err, models.ErrNotFound) {
			// Finished or cancelled manually between snapshot and removal.
			continue
		}
		if err != nil {
			log.WithError(err).WithField("giveaway_id", g.ID).Error("Failed to detach expired giveaway")
			continue
		}
		expired = append(expired, detached)
	}

	if len(expired) == 0 {
		return
	}
	log.WithFields(log.Fields{
		"sweep_id": sweepID,
		"expired":  len(expired),
	}).Info("Sweeping expired giveaways")

	for _, g := range expired {
		if _, err := s.resolver.Resolve(ctx, g); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"sweep_id":    sweepID,
				"giveaway_id": g.ID,
			}).Error("Failed to resolve expired giveaway, restoring for retry")
			s.store.Restore(g)
		}
	}
}

// untilNextMinute returns the delay from now to the next whole-minute
// boundary, matching the minute-truncated deadlines giveaways carry.
func untilNextMinute(now time.Time) time.Duration {
	return now.Truncate(time.Minute).Add(time.Minute).Sub(now)
}
