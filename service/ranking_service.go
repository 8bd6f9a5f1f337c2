package service

import (
	"context"
	"fmt"

	"meritum/models"
)

type rankingService struct {
	uowFactory UnitOfWorkFactory
}

// NewRankingService creates a new ranking service
func NewRankingService(uowFactory UnitOfWorkFactory) RankingService {
	return &rankingService{
		uowFactory: uowFactory,
	}
}

func (s *rankingService) Profile(ctx context.Context, discordID string) (*models.RankedAccount, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	account, err := uow.AccountRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		if err := uow.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil, nil
	}

	above, err := uow.AccountRepository().CountRankedAbove(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to rank account: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.RankedAccount{Account: *account, Rank: above + 1}, nil
}

func (s *rankingService) Ranking(ctx context.Context, limit int) ([]*models.RankedAccount, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	accounts, err := uow.AccountRepository().ListByRank(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	ranked := make([]*models.RankedAccount, len(accounts))
	for i, account := range accounts {
		ranked[i] = &models.RankedAccount{Account: *account, Rank: i + 1}
	}

	return ranked, nil
}
