package giveaways

import (
	"raffler/bot/common"
	"raffler/service"
	"raffler/state"

	"github.com/bwmarrin/discordgo"
)

var (
	manageMessages int64 = discordgo.PermissionManageMessages
	guildOnly            = []discordgo.InteractionContextType{discordgo.InteractionContextGuild}
)

// Feature is the giveaway command surface. All real logic lives in the store
// and the resolver; this layer parses options, checks the caller's guild and
// formats replies.
type Feature struct {
	session  *discordgo.Session
	store    *state.Store
	resolver *service.Resolver
}

// NewFeature creates a new giveaways feature instance
func NewFeature(session *discordgo.Session, store *state.Store, resolver *service.Resolver) *Feature {
	return &Feature{
		session:  session,
		store:    store,
		resolver: resolver,
	}
}

// Commands returns the slash command definitions owned by this feature
func (f *Feature) Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:                     "giveaway",
			Description:              "Create and manage giveaways",
			DefaultMemberPermissions: &manageMessages,
			Contexts:                 &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "create",
					Description: "Start a new giveaway",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "title",
							Description: "The title (should include the prize)",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "description",
							Description: "The description",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionChannel,
							Name:        "channel",
							Description: "The channel the giveaway takes place in",
							Required:    true,
							ChannelTypes: []discordgo.ChannelType{
								discordgo.ChannelTypeGuildText,
								discordgo.ChannelTypeGuildNews,
							},
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "winners",
							Description: "Number of winners (default: 1)",
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "emoji",
							Description: "The reaction emoji to enter with (default: 👍)",
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "ends",
							Description: "Unix timestamp of when the giveaway ends (omit for manual finish)",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "finish",
					Description: "Finish a giveaway and draw its winners",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "id",
							Description: "The giveaway id",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "cancel",
					Description: "Cancel a giveaway without drawing winners",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "id",
							Description: "The giveaway id",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List active giveaways on this server",
				},
			},
		},
	}
}

// HandleCommand routes the giveaway subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	// Member is nil outside a guild; every subcommand needs the guild scope
	// and cancel names the caller.
	if i.Member == nil || i.GuildID == "" {
		common.RespondWithError(s, i, "Giveaways can only be managed from a server")
		return
	}

	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Missing subcommand")
		return
	}

	switch options[0].Name {
	case "create":
		f.handleCreate(s, i, options[0].Options)
	case "finish":
		f.handleFinish(s, i, options[0].Options)
	case "cancel":
		f.handleCancel(s, i, options[0].Options)
	case "list":
		f.handleList(s, i)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
	}
}
