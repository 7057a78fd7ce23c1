package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	// ErrInvalidDraft is wrapped by all draft validation failures.
	ErrInvalidDraft = errors.New("invalid giveaway draft")

	// ErrNotFound indicates no active giveaway matches the given id.
	ErrNotFound = errors.New("giveaway not found")

	// ErrWrongGuild indicates the giveaway belongs to a different guild
	// than the caller's.
	ErrWrongGuild = errors.New("giveaway belongs to a different guild")
)

// GiveawayID is a random non-zero 32-bit token, unique among active giveaways.
type GiveawayID uint32

func (id GiveawayID) String() string {
	return fmt.Sprintf("%d", uint32(id))
}

// DefaultSymbol is the entry reaction used when the creator picks none.
const DefaultSymbol = "👍"

// Giveaway is one active giveaway from creation until it is resolved or
// cancelled, at which point it is removed from the store for good.
type Giveaway struct {
	ID           GiveawayID `yaml:"id"`
	Title        string     `yaml:"title"`
	MessageID    string     `yaml:"message_id"`
	ChannelID    string     `yaml:"channel_id"`
	GuildID      string     `yaml:"guild_id"`
	Symbol       string     `yaml:"symbol"`
	Deadline     *time.Time `yaml:"deadline,omitempty"`
	WinnerCount  int        `yaml:"winner_count"`
	Participants []string   `yaml:"participants"`
}

// Draft is the validated input for a new giveaway. DeadlineUnix is the raw
// unix timestamp from the command option; Validate converts it.
type Draft struct {
	Title        string
	ChannelID    string
	GuildID      string
	Symbol       string
	WinnerCount  int
	DeadlineUnix *int64
}

// Validate checks the draft and returns the normalized deadline (UTC,
// truncated to the whole minute), or nil for a manual-only giveaway. The
// deadline must land after now, otherwise the giveaway could be drawn before
// its announcement exists.
func (d *Draft) Validate(now time.Time) (*time.Time, error) {
	if strings.TrimSpace(d.Title) == "" {
		return nil, fmt.Errorf("%w: title must not be empty", ErrInvalidDraft)
	}
	if d.Symbol == "" {
		d.Symbol = DefaultSymbol
	}
	if utf8.RuneCountInString(d.Symbol) != 1 {
		return nil, fmt.Errorf("%w: symbol must be a single character, got %q", ErrInvalidDraft, d.Symbol)
	}
	if d.WinnerCount < 1 {
		return nil, fmt.Errorf("%w: winner count must be at least 1, got %d", ErrInvalidDraft, d.WinnerCount)
	}
	if d.ChannelID == "" {
		return nil, fmt.Errorf("%w: channel is required", ErrInvalidDraft)
	}
	if d.DeadlineUnix == nil {
		return nil, nil
	}
	if *d.DeadlineUnix <= 0 {
		return nil, fmt.Errorf("%w: deadline timestamp %d is not a valid unix time", ErrInvalidDraft, *d.DeadlineUnix)
	}
	deadline := time.Unix(*d.DeadlineUnix, 0).UTC().Truncate(time.Minute)
	if !deadline.After(now) {
		return nil, fmt.Errorf("%w: deadline %s is not in the future", ErrInvalidDraft, deadline.Format(time.RFC3339))
	}
	return &deadline, nil
}

// Expired reports whether the giveaway has a deadline at or before now.
func (g *Giveaway) Expired(now time.Time) bool {
	return g.Deadline != nil && !g.Deadline.After(now)
}

// HasParticipant reports whether the user already opted in.
func (g *Giveaway) HasParticipant(userID string) bool {
	return slices.Contains(g.Participants, userID)
}

// AddParticipant records an opt-in. Repeated opt-ins by the same user are
// ignored so a double toggle cannot inflate winning odds.
func (g *Giveaway) AddParticipant(userID string) bool {
	if g.HasParticipant(userID) {
		return false
	}
	g.Participants = append(g.Participants, userID)
	return true
}

// RemoveParticipant records an opt-out. Removing an absent user is a no-op.
func (g *Giveaway) RemoveParticipant(userID string) bool {
	i := slices.Index(g.Participants, userID)
	if i < 0 {
		return false
	}
	g.Participants = slices.Delete(g.Participants, i, i+1)
	return true
}

// Clone returns a deep copy so snapshots never alias live participant slices.
func (g *Giveaway) Clone() *Giveaway {
	c := *g
	c.Participants = slices.Clone(g.Participants)
	return &c
}
