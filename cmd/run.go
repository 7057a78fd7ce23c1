package cmd

import (
	"context"
	"fmt"
	"time"

	"raffler/bot"
	"raffler/config"
	"raffler/service"
	"raffler/state"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting raffler bot...")

	// Load configuration
	cfg := config.Get()

	// Restore the active giveaways. A broken snapshot is fatal: running with
	// partially loaded state would resolve giveaways against the wrong
	// participant sets.
	fileStore := state.NewFileStore(cfg.StateFile)
	giveaways, err := fileStore.Load()
	if err != nil {
		return fmt.Errorf("failed to load giveaway snapshot: %w", err)
	}
	log.WithFields(log.Fields{
		"state_file": cfg.StateFile,
		"giveaways":  len(giveaways),
	}).Info("Restored giveaway state")

	store := state.NewStore(giveaways, fileStore)
	tracker := service.NewTracker(store)

	// Initialize Discord bot
	log.Info("Initializing Discord bot...")
	discordBot, err := bot.New(bot.Config{
		Token:   cfg.DiscordToken,
		GuildID: cfg.GuildID,
	}, store, tracker)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}

	// Start the expiration scheduler
	scheduler := service.NewScheduler(store, discordBot.Resolver())
	stopScheduler := scheduler.Start(ctx)

	// Wait for context cancellation
	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Info("Shutting down bot...")
	stopScheduler()

	if err := discordBot.Close(); err != nil {
		log.WithError(err).Error("Error closing Discord bot")
	}

	// One final snapshot so nothing mutated since the last write is lost.
	if err := store.Flush(); err != nil {
		log.WithError(err).Error("Error writing final giveaway snapshot")
	} else {
		log.Info("Final giveaway snapshot written")
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	select {
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Info("Shutdown completed")
	}

	return nil
}
