package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"meritum/events"
	"meritum/models"
)

type ledgerService struct {
	uowFactory UnitOfWorkFactory
}

// NewLedgerService creates a new ledger service
func NewLedgerService(uowFactory UnitOfWorkFactory) LedgerService {
	return &ledgerService{
		uowFactory: uowFactory,
	}
}

func (s *ledgerService) GrantLoginBonus(ctx context.Context, discordID string, profile models.Profile, amount int64) (*models.BonusResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("bonus amount must be positive")
	}

	receiptDay := ReceiptDay(time.Now())

	result, err := s.grantLoginBonus(ctx, discordID, profile, amount, receiptDay)
	if errors.Is(err, ErrDuplicateReceipt) {
		// A concurrent grant won the receipt insert. The whole transaction
		// including our balance write was rolled back; report the balance
		// the winner left behind.
		return s.bonusAlreadyGranted(ctx, discordID, amount)
	}
	return result, err
}

// grantLoginBonus runs one grant attempt inside a single transaction:
// check receipt, read or create the account, write the balance, and insert
// the receipt as the final constraint-enforced gate.
func (s *ledgerService) grantLoginBonus(ctx context.Context, discordID string, profile models.Profile, amount int64, receiptDay time.Time) (*models.BonusResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	granted, err := uow.LoginBonusRepository().Exists(ctx, discordID, receiptDay)
	if err != nil {
		return nil, fmt.Errorf("failed to check login bonus: %w", err)
	}
	if granted {
		account, err := uow.AccountRepository().GetByDiscordID(ctx, discordID)
		if err != nil {
			return nil, fmt.Errorf("failed to get account: %w", err)
		}
		var balance int64
		if account != nil {
			balance = account.Balance
		}
		if err := uow.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return &models.BonusResult{Granted: false, Amount: amount, NewBalance: balance}, nil
	}

	account, err := uow.AccountRepository().GetForUpdate(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}

	var newBalance int64
	if account == nil {
		created, err := uow.AccountRepository().Create(ctx, discordID, profile, amount)
		if err != nil {
			// The create race loses here only if another grant is committing
			// concurrently; it also owns today's receipt, so the receipt
			// insert below settles the outcome. Any other duplicate means a
			// different operation seeded the account; re-read and continue.
			if !errors.Is(err, ErrDuplicateAccount) {
				return nil, fmt.Errorf("failed to create account: %w", err)
			}
			account, err = uow.AccountRepository().GetForUpdate(ctx, discordID)
			if err != nil {
				return nil, fmt.Errorf("failed to lock account: %w", err)
			}
			if account == nil {
				return nil, fmt.Errorf("account %s vanished after duplicate create", discordID)
			}
			newBalance = account.Balance + amount
			if err := uow.AccountRepository().SetBalance(ctx, discordID, newBalance); err != nil {
				return nil, fmt.Errorf("failed to set balance: %w", err)
			}
		} else {
			newBalance = created.Balance
			uow.EventBus().Publish(events.AccountCreatedEvent{
				DiscordID:      discordID,
				Name:           profile.Name,
				InitialBalance: amount,
			})
		}
	} else {
		newBalance = account.Balance + amount
		if err := uow.AccountRepository().SetBalance(ctx, discordID, newBalance); err != nil {
			return nil, fmt.Errorf("failed to set balance: %w", err)
		}
	}

	if err := uow.LoginBonusRepository().Create(ctx, discordID, receiptDay); err != nil {
		if errors.Is(err, ErrDuplicateReceipt) {
			return nil, ErrDuplicateReceipt
		}
		return nil, fmt.Errorf("failed to create login bonus receipt: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		DiscordID:    discordID,
		OldBalance:   newBalance - amount,
		NewBalance:   newBalance,
		Reason:       events.ReasonLoginBonus,
		ChangeAmount: amount,
	})
	uow.EventBus().Publish(events.LoginBonusEvent{
		DiscordID:  discordID,
		Amount:     amount,
		NewBalance: newBalance,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.BonusResult{Granted: true, Amount: amount, NewBalance: newBalance}, nil
}

// bonusAlreadyGranted reads the post-grant balance after losing the receipt
// race to a concurrent grant.
func (s *ledgerService) bonusAlreadyGranted(ctx context.Context, discordID string, amount int64) (*models.BonusResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	var balance int64
	if account != nil {
		balance = account.Balance
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.BonusResult{Granted: false, Amount: amount, NewBalance: balance}, nil
}

func (s *ledgerService) Transfer(ctx context.Context, fromID, toID string, amount int64) (*models.TransferResult, error) {
	// Validate inputs
	if amount <= 0 {
		return nil, fmt.Errorf("transfer amount must be positive")
	}
	if fromID == toID {
		return nil, fmt.Errorf("cannot transfer to the same account")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	from, to, err := lockPair(ctx, uow.AccountRepository(), fromID, toID)
	if err != nil {
		return nil, err
	}
	if from == nil || to == nil {
		return nil, ErrAccountNotFound
	}

	if from.Balance < amount {
		return nil, ErrInsufficientFunds
	}

	newFromBalance := from.Balance - amount
	newToBalance := to.Balance + amount

	if err := uow.AccountRepository().SetBalance(ctx, fromID, newFromBalance); err != nil {
		return nil, fmt.Errorf("failed to set sender balance: %w", err)
	}
	if err := uow.AccountRepository().SetBalance(ctx, toID, newToBalance); err != nil {
		return nil, fmt.Errorf("failed to set recipient balance: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		DiscordID:    fromID,
		OldBalance:   from.Balance,
		NewBalance:   newFromBalance,
		Reason:       events.ReasonTransferOut,
		ChangeAmount: -amount,
	})
	uow.EventBus().Publish(events.BalanceChangeEvent{
		DiscordID:    toID,
		OldBalance:   to.Balance,
		NewBalance:   newToBalance,
		Reason:       events.ReasonTransferIn,
		ChangeAmount: amount,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.TransferResult{
		Amount:      amount,
		FromBalance: newFromBalance,
		ToBalance:   newToBalance,
	}, nil
}

// lockPair locks two account rows in ascending ID order so opposing
// concurrent transfers cannot deadlock.
func lockPair(ctx context.Context, repo AccountRepository, fromID, toID string) (from, to *models.Account, err error) {
	firstID, secondID := fromID, toID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}

	first, err := repo.GetForUpdate(ctx, firstID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to lock account %s: %w", firstID, err)
	}
	second, err := repo.GetForUpdate(ctx, secondID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to lock account %s: %w", secondID, err)
	}

	if firstID == fromID {
		return first, second, nil
	}
	return second, first, nil
}

func (s *ledgerService) EnsureAccount(ctx context.Context, discordID string, profile models.Profile, initialBalance int64) (*models.Account, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	account, err := ensureAccount(ctx, uow, discordID, profile, initialBalance)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return account, nil
}

// ensureAccount is the find-or-create primitive shared by the services that
// need it inside an already-open transaction. A lost create race is treated
// as success: the existing row is re-read and returned.
func ensureAccount(ctx context.Context, uow UnitOfWork, discordID string, profile models.Profile, initialBalance int64) (*models.Account, error) {
	account, err := uow.AccountRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account != nil {
		return account, nil
	}

	account, err = uow.AccountRepository().Create(ctx, discordID, profile, initialBalance)
	if err != nil {
		if errors.Is(err, ErrDuplicateAccount) {
			account, err = uow.AccountRepository().GetByDiscordID(ctx, discordID)
			if err != nil {
				return nil, fmt.Errorf("failed to get account: %w", err)
			}
			if account == nil {
				return nil, fmt.Errorf("account %s vanished after duplicate create", discordID)
			}
			return account, nil
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	uow.EventBus().Publish(events.AccountCreatedEvent{
		DiscordID:      discordID,
		Name:           profile.Name,
		InitialBalance: initialBalance,
	})

	return account, nil
}
