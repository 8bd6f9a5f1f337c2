package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"meritum/events"
	"meritum/models"
)

// JankenConfig holds the house-side parameters of the janken game
type JankenConfig struct {
	BotDiscordID      string
	BotProfile        models.Profile
	BotInitialBalance int64
	MinBet            int64
	MaxBet            int64
}

// HandDrawer draws the bot's hand. Injectable so tests can fix the outcome.
type HandDrawer func() models.Hand

type jankenService struct {
	uowFactory UnitOfWorkFactory
	config     JankenConfig
	drawHand   HandDrawer
}

// NewJankenService creates a new janken service with a uniform random hand draw
func NewJankenService(uowFactory UnitOfWorkFactory, config JankenConfig) JankenService {
	return &jankenService{
		uowFactory: uowFactory,
		config:     config,
		drawHand: func() models.Hand {
			return models.Hands[rand.Intn(len(models.Hands))]
		},
	}
}

// NewJankenServiceWithDrawer creates a janken service with a custom hand drawer
func NewJankenServiceWithDrawer(uowFactory UnitOfWorkFactory, config JankenConfig, drawHand HandDrawer) JankenService {
	return &jankenService{
		uowFactory: uowFactory,
		config:     config,
		drawHand:   drawHand,
	}
}

func (s *jankenService) Play(ctx context.Context, discordID string, profile models.Profile, hand models.Hand, bet int64) (*models.JankenResult, error) {
	switch hand {
	case models.HandRock, models.HandScissors, models.HandPaper:
	default:
		return nil, fmt.Errorf("invalid hand %q", hand)
	}
	if discordID == s.config.BotDiscordID {
		return nil, fmt.Errorf("the bot cannot play against itself")
	}

	// Bet bound checks are terminal and touch no state
	if bet > s.config.MaxBet {
		return &models.JankenResult{Verdict: models.VerdictBetTooHigh, PlayerHand: hand, Bet: bet}, nil
	}
	if bet < s.config.MinBet {
		return &models.JankenResult{Verdict: models.VerdictBetTooLow, PlayerHand: hand, Bet: bet}, nil
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	// The bot row is always locked first; every janken game serializes on it
	bot, err := s.lockOrCreateBot(ctx, uow)
	if err != nil {
		return nil, err
	}
	if bot.Balance < bet {
		return s.finish(uow, &models.JankenResult{
			Verdict:    models.VerdictBotCannotCover,
			PlayerHand: hand,
			Bet:        bet,
		})
	}

	player, err := uow.AccountRepository().GetForUpdate(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock player account: %w", err)
	}
	if player == nil {
		// A never-seen player gets an account seeded at zero but still
		// cannot cover the bet. The creation is kept, not rolled back, so
		// a later login bonus finds the row.
		player, err = s.createPlayer(ctx, uow, discordID, profile)
		if err != nil {
			return nil, err
		}
	}
	if player.Balance < bet {
		return s.finish(uow, &models.JankenResult{
			Verdict:       models.VerdictPlayerCannotCover,
			PlayerHand:    hand,
			Bet:           bet,
			PlayerBalance: player.Balance,
		})
	}

	botHand := s.drawHand()

	if botHand == hand {
		// Draws mutate nothing
		return s.finish(uow, &models.JankenResult{
			Verdict:       models.VerdictDraw,
			PlayerHand:    hand,
			BotHand:       botHand,
			Bet:           bet,
			PlayerBalance: player.Balance,
		})
	}

	result := &models.JankenResult{
		PlayerHand: hand,
		BotHand:    botHand,
		Bet:        bet,
	}

	if botHand.Beats(hand) {
		result.Verdict = models.VerdictPlayerLost
		result.PlayerBalance = player.Balance - bet
		err = s.settle(ctx, uow, player, bot, bet)
	} else {
		result.Verdict = models.VerdictPlayerWon
		result.PlayerBalance = player.Balance + bet
		err = s.settle(ctx, uow, bot, player, bet)
	}
	if err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.JankenPlayedEvent{
		DiscordID:  discordID,
		PlayerHand: hand,
		BotHand:    botHand,
		Verdict:    result.Verdict,
		Bet:        bet,
	})

	return s.finish(uow, result)
}

// lockOrCreateBot locks the bot account row, creating it with the configured
// house funds on first touch.
func (s *jankenService) lockOrCreateBot(ctx context.Context, uow UnitOfWork) (*models.Account, error) {
	bot, err := uow.AccountRepository().GetForUpdate(ctx, s.config.BotDiscordID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock bot account: %w", err)
	}
	if bot != nil {
		return bot, nil
	}

	bot, err = uow.AccountRepository().Create(ctx, s.config.BotDiscordID, s.config.BotProfile, s.config.BotInitialBalance)
	if err != nil {
		if errors.Is(err, ErrDuplicateAccount) {
			bot, err = uow.AccountRepository().GetForUpdate(ctx, s.config.BotDiscordID)
			if err != nil {
				return nil, fmt.Errorf("failed to lock bot account: %w", err)
			}
			if bot == nil {
				return nil, fmt.Errorf("bot account vanished after duplicate create")
			}
			return bot, nil
		}
		return nil, fmt.Errorf("failed to create bot account: %w", err)
	}

	uow.EventBus().Publish(events.AccountCreatedEvent{
		DiscordID:      s.config.BotDiscordID,
		Name:           s.config.BotProfile.Name,
		InitialBalance: s.config.BotInitialBalance,
	})

	return bot, nil
}

// createPlayer seeds an account at zero balance for a player first seen
// through a wager.
func (s *jankenService) createPlayer(ctx context.Context, uow UnitOfWork, discordID string, profile models.Profile) (*models.Account, error) {
	player, err := uow.AccountRepository().Create(ctx, discordID, profile, 0)
	if err != nil {
		if errors.Is(err, ErrDuplicateAccount) {
			player, err = uow.AccountRepository().GetForUpdate(ctx, discordID)
			if err != nil {
				return nil, fmt.Errorf("failed to lock player account: %w", err)
			}
			if player == nil {
				return nil, fmt.Errorf("player account vanished after duplicate create")
			}
			return player, nil
		}
		return nil, fmt.Errorf("failed to create player account: %w", err)
	}

	uow.EventBus().Publish(events.AccountCreatedEvent{
		DiscordID:      discordID,
		Name:           profile.Name,
		InitialBalance: 0,
	})

	return player, nil
}

// settle moves bet points from loser to winner. Both rows are already locked.
func (s *jankenService) settle(ctx context.Context, uow UnitOfWork, loser, winner *models.Account, bet int64) error {
	if err := uow.AccountRepository().SetBalance(ctx, loser.DiscordID, loser.Balance-bet); err != nil {
		return fmt.Errorf("failed to set loser balance: %w", err)
	}
	if err := uow.AccountRepository().SetBalance(ctx, winner.DiscordID, winner.Balance+bet); err != nil {
		return fmt.Errorf("failed to set winner balance: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		DiscordID:    loser.DiscordID,
		OldBalance:   loser.Balance,
		NewBalance:   loser.Balance - bet,
		Reason:       events.ReasonJankenLoss,
		ChangeAmount: -bet,
	})
	uow.EventBus().Publish(events.BalanceChangeEvent{
		DiscordID:    winner.DiscordID,
		OldBalance:   winner.Balance,
		NewBalance:   winner.Balance + bet,
		Reason:       events.ReasonJankenWin,
		ChangeAmount: bet,
	})

	return nil
}

// finish commits the transaction and returns the result
func (s *jankenService) finish(uow UnitOfWork, result *models.JankenResult) (*models.JankenResult, error) {
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return result, nil
}
