package purge

import (
	"raffler/bot/common"

	"github.com/bwmarrin/discordgo"
)

var (
	manageMessages int64 = discordgo.PermissionManageMessages
	guildOnly            = []discordgo.InteractionContextType{discordgo.InteractionContextGuild}
)

// Feature holds the channel administration commands. These are plain
// passthroughs to the Discord API with no state of their own.
type Feature struct {
	session *discordgo.Session
}

// NewFeature creates a new purge feature instance
func NewFeature(session *discordgo.Session) *Feature {
	return &Feature{session: session}
}

// Commands returns the slash command definitions owned by this feature
func (f *Feature) Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:                     "purge",
			Description:              "Bulk clean-up utilities",
			DefaultMemberPermissions: &manageMessages,
			Contexts:                 &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "channel",
					Description: "Empty the current channel by recreating it in place",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "user",
					Description: "Remove a user's recent messages",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "user",
							Description: "The user whose messages are removed",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "everywhere",
							Description: "Remove across the whole server instead of only this channel",
						},
					},
				},
			},
		},
	}
}

// HandleCommand routes the purge subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" {
		common.RespondWithError(s, i, "Purging only works inside a server")
		return
	}

	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Missing subcommand")
		return
	}

	switch options[0].Name {
	case "channel":
		f.handleChannel(s, i)
	case "user":
		f.handleUser(s, i, options[0].Options)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
	}
}
