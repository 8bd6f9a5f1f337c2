package bot

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"meritum/events"
	"meritum/service"

	"github.com/bwmarrin/discordgo"
)

// Config holds bot configuration
type Config struct {
	Token            string
	GuildID          string
	LoginBonusAmount int64
	MinJankenBet     int64
	MaxJankenBet     int64
}

type Bot struct {
	config         Config
	session        *discordgo.Session
	ledgerService  service.LedgerService
	jankenService  service.JankenService
	gachaService   service.GachaService
	rankingService service.RankingService
	eventBus       *events.Bus
}

func New(config Config, ledgerService service.LedgerService, jankenService service.JankenService, gachaService service.GachaService, rankingService service.RankingService, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	bot := &Bot{
		config:         config,
		session:        dg,
		ledgerService:  ledgerService,
		jankenService:  jankenService,
		gachaService:   gachaService,
		rankingService: rankingService,
		eventBus:       eventBus,
	}

	// Register slash command handlers
	dg.AddHandler(bot.handleCommands)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	// Log settled balance changes for operational visibility
	eventBus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.BalanceChangeEvent); ok {
			log.WithFields(log.Fields{
				"discordID":  e.DiscordID,
				"oldBalance": e.OldBalance,
				"newBalance": e.NewBalance,
				"reason":     e.Reason,
			}).Info("Balance changed")
		}
	})

	return bot, nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

// handleCommands routes slash commands to their handlers
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "login":
		b.handleLogin(s, i)
	case "janken":
		b.handleJanken(s, i)
	case "send":
		b.handleSend(s, i)
	case "gacha":
		b.handleGacha(s, i)
	case "profile":
		b.handleProfile(s, i)
	case "ranking":
		b.handleRanking(s, i)
	}
}
