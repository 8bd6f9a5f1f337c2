package service

import (
	"context"
	"fmt"
	"math/rand"

	"meritum/events"
	"meritum/models"
)

// titlePool is the fixed set of titles the gacha can award. Duplicates are
// allowed; collecting is the point.
var titlePool = []string{
	"Apprentice",
	"Collector",
	"Daily Devotee",
	"Gambler",
	"High Roller",
	"Janken Master",
	"Lucky Star",
	"Meritum Baron",
	"Point Hoarder",
	"Rock Crusher",
	"Paper Tiger",
	"Scissor Hands",
	"The Persistent",
	"Fortune's Friend",
	"Legend",
}

// TitleDrawer draws a gacha title. Injectable so tests can fix the outcome.
type TitleDrawer func() string

type gachaService struct {
	uowFactory UnitOfWorkFactory
	cost       int64
	drawTitle  TitleDrawer
}

// NewGachaService creates a new gacha service drawing uniformly from the
// title pool
func NewGachaService(uowFactory UnitOfWorkFactory, cost int64) GachaService {
	return &gachaService{
		uowFactory: uowFactory,
		cost:       cost,
		drawTitle: func() string {
			return titlePool[rand.Intn(len(titlePool))]
		},
	}
}

// NewGachaServiceWithDrawer creates a gacha service with a custom title drawer
func NewGachaServiceWithDrawer(uowFactory UnitOfWorkFactory, cost int64, drawTitle TitleDrawer) GachaService {
	return &gachaService{
		uowFactory: uowFactory,
		cost:       cost,
		drawTitle:  drawTitle,
	}
}

func (s *gachaService) Draw(ctx context.Context, discordID string, profile models.Profile) (*models.GachaResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	player, err := uow.AccountRepository().GetForUpdate(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}
	if player == nil {
		// Seed the account like a failed wager does, then report the miss
		player, err = ensureAccount(ctx, uow, discordID, profile, 0)
		if err != nil {
			return nil, err
		}
	}

	if player.Balance < s.cost {
		if err := uow.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return &models.GachaResult{Drawn: false, Cost: s.cost, NewBalance: player.Balance}, nil
	}

	newBalance := player.Balance - s.cost
	if err := uow.AccountRepository().SetBalance(ctx, discordID, newBalance); err != nil {
		return nil, fmt.Errorf("failed to set balance: %w", err)
	}

	title := s.drawTitle()
	if err := uow.AccountRepository().AppendTitle(ctx, discordID, title); err != nil {
		return nil, fmt.Errorf("failed to append title: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		DiscordID:    discordID,
		OldBalance:   player.Balance,
		NewBalance:   newBalance,
		Reason:       events.ReasonGacha,
		ChangeAmount: -s.cost,
	})
	uow.EventBus().Publish(events.TitleAwardedEvent{
		DiscordID: discordID,
		Title:     title,
		Cost:      s.cost,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.GachaResult{
		Drawn:      true,
		Title:      title,
		Cost:       s.cost,
		NewBalance: newBalance,
	}, nil
}
