package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken   string
	DiscordGuildID string

	// Database configuration
	DatabaseURL string

	// Ledger configuration
	LoginBonusAmount  int64  // Points granted once per game day
	BotDiscordID      string // Ledger key of the house account
	BotInitialBalance int64  // House funds the bot account is seeded with

	// Janken configuration
	MinJankenBet int64
	MaxJankenBet int64

	// Gacha configuration
	GachaCost int64

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Discord
		DiscordToken:   os.Getenv("DISCORD_TOKEN"),
		DiscordGuildID: os.Getenv("DISCORD_GUILD_ID"),

		// Database
		DatabaseURL: os.Getenv("DATABASE_URL"),

		// Ledger settings with defaults
		LoginBonusAmount:  100,
		BotDiscordID:      "meritum-bot",
		BotInitialBalance: 20000,
		MinJankenBet:      1,
		MaxJankenBet:      10,
		GachaCost:         80,

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if bonus := os.Getenv("LOGIN_BONUS_AMOUNT"); bonus != "" {
		if parsed, err := strconv.ParseInt(bonus, 10, 64); err == nil {
			config.LoginBonusAmount = parsed
		}
	}
	if botID := os.Getenv("BOT_DISCORD_ID"); botID != "" {
		config.BotDiscordID = botID
	}
	if balance := os.Getenv("BOT_INITIAL_BALANCE"); balance != "" {
		if parsed, err := strconv.ParseInt(balance, 10, 64); err == nil {
			config.BotInitialBalance = parsed
		}
	}
	if bet := os.Getenv("MIN_JANKEN_BET"); bet != "" {
		if parsed, err := strconv.ParseInt(bet, 10, 64); err == nil {
			config.MinJankenBet = parsed
		}
	}
	if bet := os.Getenv("MAX_JANKEN_BET"); bet != "" {
		if parsed, err := strconv.ParseInt(bet, 10, 64); err == nil {
			config.MaxJankenBet = parsed
		}
	}
	if cost := os.Getenv("GACHA_COST"); cost != "" {
		if parsed, err := strconv.ParseInt(cost, 10, 64); err == nil {
			config.GachaCost = parsed
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
