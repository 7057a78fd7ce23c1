package purge

import (
	"fmt"

	"raffler/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleChannel empties the current channel by cloning it in place and
// deleting the original. Invites into the old channel die with it.
func (f *Feature) handleChannel(s *discordgo.Session, i *discordgo.InteractionCreate) {
	channel, err := s.Channel(i.ChannelID)
	if err != nil {
		log.WithError(err).WithField("channel_id", i.ChannelID).Error("Error fetching channel")
		common.RespondWithError(s, i, "Could not look up this channel.")
		return
	}
	if channel.GuildID == "" {
		common.RespondWithError(s, i, "This only works in a server channel.")
		return
	}

	// Respond before the channel (and with it the interaction's home)
	// disappears.
	common.RespondEphemeral(s, i, "Recreating channel...")

	clone := discordgo.GuildChannelCreateData{
		Name:                 channel.Name,
		Type:                 channel.Type,
		Topic:                channel.Topic,
		NSFW:                 channel.NSFW,
		Position:             channel.Position,
		RateLimitPerUser:     channel.RateLimitPerUser,
		PermissionOverwrites: channel.PermissionOverwrites,
		ParentID:             channel.ParentID,
	}

	if _, err := s.ChannelDelete(channel.ID); err != nil {
		log.WithError(err).WithField("channel_id", channel.ID).Error("Error deleting channel")
		return
	}
	created, err := s.GuildChannelCreateComplex(channel.GuildID, clone)
	if err != nil {
		log.WithError(err).WithField("guild_id", channel.GuildID).Error("Error recreating channel")
		return
	}
	if _, err := s.ChannelMessageSend(created.ID, "Channel emptied!\nAll invites into this channel are now invalid..."); err != nil {
		log.WithError(err).WithField("channel_id", created.ID).Warn("Failed to post recreation notice")
	}

	log.WithFields(log.Fields{
		"guild_id":    channel.GuildID,
		"old_channel": channel.ID,
		"new_channel": created.ID,
	}).Info("Recreated channel")
}

// handleUser deletes a user's messages from the most recent page of each
// targeted channel.
func (f *Feature) handleUser(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	var target *discordgo.User
	var everywhere bool
	for _, opt := range options {
		switch opt.Name {
		case "user":
			target = opt.UserValue(s)
		case "everywhere":
			everywhere = opt.BoolValue()
		}
	}
	if target == nil {
		common.RespondWithError(s, i, "Invalid user.")
		return
	}

	// Walking channels takes longer than the initial response window.
	if err := common.DeferEphemeral(s, i); err != nil {
		log.WithError(err).Error("Error deferring purge response")
		return
	}

	channelIDs := []string{i.ChannelID}
	if everywhere {
		channels, err := s.GuildChannels(i.GuildID)
		if err != nil {
			log.WithError(err).WithField("guild_id", i.GuildID).Error("Error listing guild channels")
			common.FollowUpEphemeral(s, i, "❌ Could not list the server's channels.")
			return
		}
		channelIDs = channelIDs[:0]
		for _, c := range channels {
			if c.Type == discordgo.ChannelTypeGuildText || c.Type == discordgo.ChannelTypeGuildNews {
				channelIDs = append(channelIDs, c.ID)
			}
		}
	}

	var removed int
	for _, channelID := range channelIDs {
		messages, err := s.ChannelMessages(channelID, 100, "", "", "")
		if err != nil {
			log.WithError(err).WithField("channel_id", channelID).Warn("Failed to fetch messages for purge")
			continue
		}
		for _, msg := range messages {
			if msg.Author == nil || msg.Author.ID != target.ID {
				continue
			}
			if err := s.ChannelMessageDelete(channelID, msg.ID); err != nil {
				log.WithError(err).WithFields(log.Fields{
					"channel_id": channelID,
					"message_id": msg.ID,
				}).Warn("Failed to delete message during purge")
				continue
			}
			removed++
		}
	}

	log.WithFields(log.Fields{
		"guild_id":   i.GuildID,
		"user_id":    target.ID,
		"everywhere": everywhere,
		"removed":    removed,
	}).Info("Purged user messages")

	scope := "in this channel"
	if everywhere {
		scope = "across the server"
	}
	common.FollowUpEphemeral(s, i, fmt.Sprintf("Removed %d message(s) %s.", removed, scope))
}
