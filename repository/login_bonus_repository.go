package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"meritum/database"
	"meritum/service"

	"github.com/jackc/pgx/v5/pgconn"
)

// LoginBonusRepository implements the LoginBonusRepository interface
type LoginBonusRepository struct {
	q queryable
}

// NewLoginBonusRepository creates a new login bonus repository
func NewLoginBonusRepository(db *database.DB) *LoginBonusRepository {
	return &LoginBonusRepository{q: db.Pool}
}

// newLoginBonusRepositoryWithTx creates a new login bonus repository with a transaction
func newLoginBonusRepositoryWithTx(tx queryable) *LoginBonusRepository {
	return &LoginBonusRepository{q: tx}
}

// Exists reports whether a bonus receipt exists for the user on the given game day
func (r *LoginBonusRepository) Exists(ctx context.Context, discordID string, receiptDay time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM login_bonuses
			WHERE discord_id = $1 AND receipt_day = $2
		)
	`

	var exists bool
	err := r.q.QueryRow(ctx, query, discordID, receiptDay).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check login bonus for %s on %s: %w",
			discordID, receiptDay.Format("2006-01-02"), err)
	}

	return exists, nil
}

// Create records a bonus receipt for the user on the given game day.
// Returns service.ErrDuplicateReceipt if one already exists; the composite
// primary key is the gate that keeps grants idempotent under races.
func (r *LoginBonusRepository) Create(ctx context.Context, discordID string, receiptDay time.Time) error {
	query := `
		INSERT INTO login_bonuses (discord_id, receipt_day)
		VALUES ($1, $2)
	`

	_, err := r.q.Exec(ctx, query, discordID, receiptDay)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return service.ErrDuplicateReceipt
		}
		return fmt.Errorf("failed to create login bonus for %s on %s: %w",
			discordID, receiptDay.Format("2006-01-02"), err)
	}

	return nil
}
