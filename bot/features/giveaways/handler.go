package giveaways

import (
	"context"
	"errors"
	"fmt"
	"math"

	"raffler/bot/common"
	"raffler/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleCreate(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	draft := models.Draft{
		GuildID:     i.GuildID,
		WinnerCount: 1,
	}
	var description string
	for _, opt := range options {
		switch opt.Name {
		case "title":
			draft.Title = opt.StringValue()
		case "description":
			description = opt.StringValue()
		case "channel":
			draft.ChannelID = opt.ChannelValue(s).ID
		case "winners":
			draft.WinnerCount = int(opt.IntValue())
		case "emoji":
			draft.Symbol = opt.StringValue()
		case "ends":
			ends := opt.IntValue()
			draft.DeadlineUnix = &ends
		}
	}

	g, err := f.store.Create(draft)
	if err != nil {
		if errors.Is(err, models.ErrInvalidDraft) {
			common.RespondWithError(s, i, err.Error())
			return
		}
		log.WithError(err).Error("Error creating giveaway")
		common.RespondWithError(s, i, "Unable to create the giveaway. Please try again.")
		return
	}

	msg, err := s.ChannelMessageSend(g.ChannelID, announcementMessage(g, description))
	if err != nil {
		// Discard the entry that never got announced.
		if _, removeErr := f.store.RemoveByID(g.ID); removeErr != nil {
			log.WithError(removeErr).WithField("giveaway_id", g.ID).Error("Error discarding unannounced giveaway")
		}
		log.WithError(err).WithField("channel_id", g.ChannelID).Error("Error posting giveaway announcement")
		common.RespondWithError(s, i, "Could not post the announcement in that channel.")
		return
	}

	// Seed the entry reaction so participants only need to click it.
	if err := s.MessageReactionAdd(g.ChannelID, msg.ID, g.Symbol); err != nil {
		log.WithError(err).WithField("giveaway_id", g.ID).Warn("Failed to seed entry reaction")
	}

	// Persist before acknowledging, so a crash after the reply cannot lose
	// the giveaway.
	if err := f.store.AttachAnnouncement(g.ID, msg.ID); err != nil {
		log.WithError(err).WithField("giveaway_id", g.ID).Error("Error attaching announcement")
		common.RespondWithError(s, i, "Unable to create the giveaway. Please try again.")
		return
	}

	log.WithFields(log.Fields{
		"giveaway_id": g.ID,
		"title":       g.Title,
		"channel_id":  g.ChannelID,
		"guild_id":    g.GuildID,
	}).Info("Created giveaway")
	common.RespondEphemeral(s, i, fmt.Sprintf("Giveaway **%s** created! Id: ||%s||", g.Title, g.ID))
}

func (f *Feature) handleFinish(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	g, ok := f.detachScoped(s, i, options)
	if !ok {
		return
	}

	outcome, err := f.resolver.Resolve(context.Background(), g)
	if err != nil {
		f.store.Restore(g)
		log.WithError(err).WithField("giveaway_id", g.ID).Error("Error finishing giveaway")
		common.RespondWithError(s, i, "Could not announce the winners. The giveaway is still active.")
		return
	}
	common.RespondEphemeral(s, i, fmt.Sprintf("Giveaway finished, %d winner(s) drawn!", len(outcome.Winners)))
}

func (f *Feature) handleCancel(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	g, ok := f.detachScoped(s, i, options)
	if !ok {
		return
	}

	if _, err := f.resolver.Cancel(context.Background(), g, i.Member.User.ID); err != nil {
		f.store.Restore(g)
		log.WithError(err).WithField("giveaway_id", g.ID).Error("Error cancelling giveaway")
		common.RespondWithError(s, i, "Could not announce the cancellation. The giveaway is still active.")
		return
	}
	common.RespondEphemeral(s, i, "Giveaway cancelled!")
}

// detachScoped parses the id option and removes the giveaway, ensuring it
// belongs to the caller's guild. On failure it responds to the caller itself.
func (f *Feature) detachScoped(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) (*models.Giveaway, bool) {
	var raw int64
	for _, opt := range options {
		if opt.Name == "id" {
			raw = opt.IntValue()
		}
	}
	if raw <= 0 || raw > math.MaxUint32 {
		common.RespondWithError(s, i, "That is not a valid giveaway id.")
		return nil, false
	}

	g, err := f.store.RemoveByIDScoped(models.GiveawayID(raw), i.GuildID)
	switch {
	case errors.Is(err, models.ErrNotFound):
		common.RespondWithError(s, i, "No giveaway with that id exists.")
		return nil, false
	case errors.Is(err, models.ErrWrongGuild):
		common.RespondWithError(s, i, "This command must be used on the server the giveaway runs on.")
		return nil, false
	case err != nil:
		log.WithError(err).WithField("giveaway_id", raw).Error("Error detaching giveaway")
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return nil, false
	}
	return g, true
}

func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var lines []string
	for _, g := range f.store.Snapshot() {
		if g.GuildID != i.GuildID {
			continue
		}
		lines = append(lines, listLine(g))
	}
	if len(lines) == 0 {
		common.RespondEphemeral(s, i, "No active giveaways on this server.")
		return
	}
	common.RespondEphemeral(s, i, listMessage(lines))
}
