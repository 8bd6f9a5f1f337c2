package service

import (
	"context"
	"time"

	"meritum/events"
	"meritum/models"
)

// AccountRepository defines the interface for account data access.
// Repositories never do balance arithmetic; callers supply final values.
type AccountRepository interface {
	// GetByDiscordID retrieves an account by its Discord ID, or nil if absent
	GetByDiscordID(ctx context.Context, discordID string) (*models.Account, error)

	// GetForUpdate retrieves an account holding a row lock for the duration
	// of the surrounding transaction, or nil if absent
	GetForUpdate(ctx context.Context, discordID string) (*models.Account, error)

	// Create creates a new account; returns ErrDuplicateAccount on ID collision
	Create(ctx context.Context, discordID string, profile models.Profile, initialBalance int64) (*models.Account, error)

	// SetBalance writes the account's final balance
	SetBalance(ctx context.Context, discordID string, newBalance int64) error

	// AppendTitle appends a gacha title and increments the title count
	AppendTitle(ctx context.Context, discordID string, title string) error

	// ListByRank returns accounts ordered by title count then balance, descending
	ListByRank(ctx context.Context, limit int) ([]*models.Account, error)

	// CountRankedAbove returns how many accounts outrank the given one
	CountRankedAbove(ctx context.Context, account *models.Account) (int, error)
}

// LoginBonusRepository defines the interface for bonus receipt tracking
type LoginBonusRepository interface {
	// Exists reports whether a receipt exists for the user on the game day
	Exists(ctx context.Context, discordID string, receiptDay time.Time) (bool, error)

	// Create inserts a receipt; returns ErrDuplicateReceipt if one exists
	Create(ctx context.Context, discordID string, receiptDay time.Time) error
}

// EventPublisher publishes events that are flushed after the surrounding
// transaction commits, or discarded on rollback
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork bundles repositories bound to a single database transaction
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error
	AccountRepository() AccountRepository
	LoginBonusRepository() LoginBonusRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// LedgerService applies atomic balance mutations
type LedgerService interface {
	// GrantLoginBonus grants the daily bonus once per game day. Repeated
	// calls within one game day return Granted=false and leave the balance
	// unchanged.
	GrantLoginBonus(ctx context.Context, discordID string, profile models.Profile, amount int64) (*models.BonusResult, error)

	// Transfer atomically moves amount from one account to the other.
	// The sum of the two balances is invariant.
	Transfer(ctx context.Context, fromID, toID string, amount int64) (*models.TransferResult, error)

	// EnsureAccount returns the existing account or creates one with the
	// given profile and initial balance, tolerating the create race.
	EnsureAccount(ctx context.Context, discordID string, profile models.Profile, initialBalance int64) (*models.Account, error)
}

// JankenService resolves janken wagers against the bot account
type JankenService interface {
	// Play validates the bet, draws the bot's hand and settles the wager
	// inside a single transaction
	Play(ctx context.Context, discordID string, profile models.Profile, hand models.Hand, bet int64) (*models.JankenResult, error)
}

// GachaService sells title draws
type GachaService interface {
	// Draw deducts the gacha cost and awards a random title
	Draw(ctx context.Context, discordID string, profile models.Profile) (*models.GachaResult, error)
}

// RankingService serves profile and ranking reads
type RankingService interface {
	// Profile returns the account with its rank, or nil if absent
	Profile(ctx context.Context, discordID string) (*models.RankedAccount, error)

	// Ranking returns the top accounts in rank order
	Ranking(ctx context.Context, limit int) ([]*models.RankedAccount, error)
}
