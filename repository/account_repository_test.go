package repository

import (
	"context"
	"testing"

	"meritum/repository/testutil"
	"meritum/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_GetByDiscordID(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	t.Run("account not found", func(t *testing.T) {
		account, err := repo.GetByDiscordID(ctx, "U404")
		require.NoError(t, err)
		assert.Nil(t, account)
	})

	t.Run("account found", func(t *testing.T) {
		created, err := repo.Create(ctx, "U100", testutil.TestProfile("alice"), 100)
		require.NoError(t, err)
		require.NotNil(t, created)

		account, err := repo.GetByDiscordID(ctx, "U100")
		require.NoError(t, err)
		require.NotNil(t, account)

		assert.Equal(t, "U100", account.DiscordID)
		assert.Equal(t, "alice", account.Name)
		assert.Equal(t, int64(100), account.Balance)
		assert.Empty(t, account.Titles)
		assert.Zero(t, account.NumOfTitles)
	})
}

func TestAccountRepository_Create_Duplicate(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, "U100", testutil.TestProfile("alice"), 100)
	require.NoError(t, err)

	_, err = repo.Create(ctx, "U100", testutil.TestProfile("alice"), 100)
	assert.ErrorIs(t, err, service.ErrDuplicateAccount)

	// The original row is untouched
	account, err := repo.GetByDiscordID(ctx, "U100")
	require.NoError(t, err)
	assert.Equal(t, int64(100), account.Balance)
}

func TestAccountRepository_SetBalance(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, "U100", testutil.TestProfile("alice"), 100)
	require.NoError(t, err)

	err = repo.SetBalance(ctx, "U100", 250)
	require.NoError(t, err)

	account, err := repo.GetByDiscordID(ctx, "U100")
	require.NoError(t, err)
	assert.Equal(t, int64(250), account.Balance)

	t.Run("unknown account", func(t *testing.T) {
		err := repo.SetBalance(ctx, "U404", 10)
		assert.ErrorIs(t, err, service.ErrAccountNotFound)
	})
}

func TestAccountRepository_GetForUpdate_SerializesWriters(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := NewAccountRepository(testDB.DB)
	_, err := repo.Create(ctx, "U100", testutil.TestProfile("alice"), 0)
	require.NoError(t, err)

	// Many concurrent read-modify-write transactions must not lose updates
	const writers = 20
	errCh := make(chan error, writers)
	for i := 0; i < writers; i++ {
		go func() {
			tx, err := testDB.DB.Begin(ctx)
			if err != nil {
				errCh <- err
				return
			}
			defer tx.Rollback(ctx)

			txRepo := newAccountRepositoryWithTx(tx)
			account, err := txRepo.GetForUpdate(ctx, "U100")
			if err != nil {
				errCh <- err
				return
			}
			if err := txRepo.SetBalance(ctx, "U100", account.Balance+1); err != nil {
				errCh <- err
				return
			}
			errCh <- tx.Commit(ctx)
		}()
	}
	for i := 0; i < writers; i++ {
		require.NoError(t, <-errCh)
	}

	account, err := repo.GetByDiscordID(ctx, "U100")
	require.NoError(t, err)
	assert.Equal(t, int64(writers), account.Balance)
}

func TestAccountRepository_AppendTitle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, "U100", testutil.TestProfile("alice"), 100)
	require.NoError(t, err)

	require.NoError(t, repo.AppendTitle(ctx, "U100", "Lucky Star"))
	require.NoError(t, repo.AppendTitle(ctx, "U100", "Janken Master"))

	account, err := repo.GetByDiscordID(ctx, "U100")
	require.NoError(t, err)
	assert.Equal(t, []string{"Lucky Star", "Janken Master"}, account.Titles)
	assert.Equal(t, 2, account.NumOfTitles)
}

func TestAccountRepository_ListByRank(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, "U100", testutil.TestProfile("alice"), 900)
	require.NoError(t, err)
	_, err = repo.Create(ctx, "U200", testutil.TestProfile("bob"), 50)
	require.NoError(t, err)
	_, err = repo.Create(ctx, "U300", testutil.TestProfile("carol"), 100)
	require.NoError(t, err)

	// Titles dominate balance in the ranking order
	require.NoError(t, repo.AppendTitle(ctx, "U200", "Collector"))

	accounts, err := repo.ListByRank(ctx, 10)
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	assert.Equal(t, "U200", accounts[0].DiscordID)
	assert.Equal(t, "U100", accounts[1].DiscordID)
	assert.Equal(t, "U300", accounts[2].DiscordID)

	above, err := repo.CountRankedAbove(ctx, accounts[2])
	require.NoError(t, err)
	assert.Equal(t, 2, above)
}
