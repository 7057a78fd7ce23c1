package bot

import (
	"fmt"

	"raffler/bot/features/giveaways"
	"raffler/bot/features/purge"
	"raffler/service"
	"raffler/state"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token   string
	GuildID string
}

// Bot manages the Discord session and all feature modules
type Bot struct {
	config   Config
	session  *discordgo.Session
	tracker  *service.Tracker
	resolver *service.Resolver

	// Feature modules
	giveaways *giveaways.Feature
	purge     *purge.Feature
}

// New creates a bot instance, opens the gateway connection and registers the
// slash commands.
func New(config Config, store *state.Store, tracker *service.Tracker) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions

	resolver := service.NewResolver(&sessionMessenger{session: dg})

	bot := &Bot{
		config:   config,
		session:  dg,
		tracker:  tracker,
		resolver: resolver,
	}

	bot.giveaways = giveaways.NewFeature(dg, store, resolver)
	bot.purge = purge.NewFeature(dg)

	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleReactionAdd)
	dg.AddHandler(bot.handleReactionRemove)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	log.WithField("user", dg.State.User.Username).Info("Discord bot connected")
	return bot, nil
}

// Resolver exposes the resolution engine for the expiration scheduler.
func (b *Bot) Resolver() *service.Resolver {
	return b.resolver
}

// Close shuts down the gateway connection.
func (b *Bot) Close() error {
	return b.session.Close()
}

// registerCommands registers all slash commands with Discord. A configured
// guild id scopes them to that guild, which updates instantly during
// development; empty means global registration.
func (b *Bot) registerCommands() error {
	commands := append(b.giveaways.Commands(), b.purge.Commands()...)
	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}
	return nil
}

// handleCommands routes slash commands to the owning feature
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "giveaway":
		b.giveaways.HandleCommand(s, i)
	case "purge":
		b.purge.HandleCommand(s, i)
	}
}
