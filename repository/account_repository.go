package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"meritum/database"
	"meritum/models"
	"meritum/service"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation is the postgres error code for unique_violation
const pgUniqueViolation = "23505"

// queryable abstracts over a pgx pool and a pgx transaction
type queryable interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const accountColumns = `discord_id, name, real_name, display_name, balance, titles, num_of_titles, created_at, updated_at`

// AccountRepository implements the AccountRepository interface
type AccountRepository struct {
	q queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepositoryWithTx creates a new account repository with a transaction
func newAccountRepositoryWithTx(tx queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

func scanAccount(row pgx.Row) (*models.Account, error) {
	var account models.Account
	var titles string
	err := row.Scan(
		&account.DiscordID,
		&account.Name,
		&account.RealName,
		&account.DisplayName,
		&account.Balance,
		&titles,
		&account.NumOfTitles,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	account.Titles = splitTitles(titles)
	return &account, nil
}

func splitTitles(titles string) []string {
	if titles == "" {
		return nil
	}
	return strings.Split(titles, ",")
}

// GetByDiscordID retrieves an account by its Discord ID, or nil if absent
func (r *AccountRepository) GetByDiscordID(ctx context.Context, discordID string) (*models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE discord_id = $1
	`

	account, err := scanAccount(r.q.QueryRow(ctx, query, discordID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", discordID, err)
	}

	return account, nil
}

// GetForUpdate retrieves an account and takes a row lock on it for the
// duration of the surrounding transaction. Returns nil if absent.
func (r *AccountRepository) GetForUpdate(ctx context.Context, discordID string) (*models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE discord_id = $1
		FOR UPDATE
	`

	account, err := scanAccount(r.q.QueryRow(ctx, query, discordID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock account %s: %w", discordID, err)
	}

	return account, nil
}

// Create creates a new account with the given profile and initial balance.
// Returns service.ErrDuplicateAccount if the Discord ID is already taken.
// ON CONFLICT DO NOTHING keeps the surrounding transaction usable after a
// lost create race, so callers can re-read the existing row.
func (r *AccountRepository) Create(ctx context.Context, discordID string, profile models.Profile, initialBalance int64) (*models.Account, error) {
	query := `
		INSERT INTO accounts (discord_id, name, real_name, display_name, balance)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (discord_id) DO NOTHING
		RETURNING ` + accountColumns + `
	`

	account, err := scanAccount(r.q.QueryRow(ctx, query,
		discordID, profile.Name, profile.RealName, profile.DisplayName, initialBalance))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, service.ErrDuplicateAccount
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create account %s: %w", discordID, err)
	}

	return account, nil
}

// SetBalance writes an account's balance. The caller supplies the final
// value; no arithmetic happens here.
func (r *AccountRepository) SetBalance(ctx context.Context, discordID string, newBalance int64) error {
	query := `
		UPDATE accounts
		SET balance = $1, updated_at = NOW()
		WHERE discord_id = $2
	`

	result, err := r.q.Exec(ctx, query, newBalance, discordID)
	if err != nil {
		return fmt.Errorf("failed to set balance for account %s: %w", discordID, err)
	}

	if result.RowsAffected() == 0 {
		return service.ErrAccountNotFound
	}

	return nil
}

// AppendTitle appends a title to an account's title list and bumps the count
func (r *AccountRepository) AppendTitle(ctx context.Context, discordID string, title string) error {
	query := `
		UPDATE accounts
		SET titles = CASE WHEN titles = '' THEN $1 ELSE titles || ',' || $1 END,
		    num_of_titles = num_of_titles + 1,
		    updated_at = NOW()
		WHERE discord_id = $2
	`

	result, err := r.q.Exec(ctx, query, title, discordID)
	if err != nil {
		return fmt.Errorf("failed to append title for account %s: %w", discordID, err)
	}

	if result.RowsAffected() == 0 {
		return service.ErrAccountNotFound
	}

	return nil
}

// ListByRank returns up to limit accounts ordered by title count then balance,
// both descending. Discord ID breaks ties so the order is stable.
func (r *AccountRepository) ListByRank(ctx context.Context, limit int) ([]*models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		ORDER BY num_of_titles DESC, balance DESC, discord_id
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts by rank: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return accounts, nil
}

// CountRankedAbove returns how many accounts rank strictly above the given
// account in (num_of_titles, balance) order.
func (r *AccountRepository) CountRankedAbove(ctx context.Context, account *models.Account) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM accounts
		WHERE (num_of_titles, balance) > ($1, $2)
	`

	var count int
	err := r.q.QueryRow(ctx, query, account.NumOfTitles, account.Balance).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count accounts ranked above %s: %w", account.DiscordID, err)
	}

	return count, nil
}
