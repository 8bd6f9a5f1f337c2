package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"meritum/bot"
	"meritum/config"
	"meritum/database"
	"meritum/events"
	"meritum/models"
	"meritum/repository"
	"meritum/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting meritum bot...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	log.Println("Initializing services...")
	ledgerService := service.NewLedgerService(uowFactory)
	jankenService := service.NewJankenService(uowFactory, service.JankenConfig{
		BotDiscordID: cfg.BotDiscordID,
		BotProfile: models.Profile{
			Name:        "meritum",
			RealName:    "meritum",
			DisplayName: "meritum",
		},
		BotInitialBalance: cfg.BotInitialBalance,
		MinBet:            cfg.MinJankenBet,
		MaxBet:            cfg.MaxJankenBet,
	})
	gachaService := service.NewGachaService(uowFactory, cfg.GachaCost)
	rankingService := service.NewRankingService(uowFactory)
	log.Println("Services initialized successfully")

	// Initialize Discord bot
	log.Println("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:            cfg.DiscordToken,
		GuildID:          cfg.DiscordGuildID,
		LoginBonusAmount: cfg.LoginBonusAmount,
		MinJankenBet:     cfg.MinJankenBet,
		MaxJankenBet:     cfg.MaxJankenBet,
	}
	discordBot, err := bot.New(botConfig, ledgerService, jankenService, gachaService, rankingService, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Println("Discord bot initialized successfully")

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")

	// Close Discord bot connection
	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Close database connection
	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
