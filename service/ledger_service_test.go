package service

import (
	"context"
	"testing"

	"meritum/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newLedgerTestFixture() (*MockUnitOfWorkFactory, *MockUnitOfWork, *MockAccountRepository, *MockLoginBonusRepository) {
	mockFactory := new(MockUnitOfWorkFactory)
	mockUoW := new(MockUnitOfWork)
	mockAccountRepo := new(MockAccountRepository)
	mockLoginBonusRepo := new(MockLoginBonusRepository)
	mockUoW.SetRepositories(mockAccountRepo, mockLoginBonusRepo)
	mockFactory.On("Create").Return(mockUoW)
	return mockFactory, mockUoW, mockAccountRepo, mockLoginBonusRepo
}

func TestLedgerService_GrantLoginBonus_NewAccount(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockAccountRepo, mockLoginBonusRepo := newLedgerTestFixture()

	service := NewLedgerService(mockFactory)

	profile := models.Profile{Name: "alice", DisplayName: "Alice"}
	created := &models.Account{DiscordID: "U100", Name: "alice", Balance: 100}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockLoginBonusRepo.On("Exists", ctx, "U100", mock.AnythingOfType("time.Time")).Return(false, nil)
	mockAccountRepo.On("GetForUpdate", ctx, "U100").Return(nil, nil)
	mockAccountRepo.On("Create", ctx, "U100", profile, int64(100)).Return(created, nil)
	mockLoginBonusRepo.On("Create", ctx, "U100", mock.AnythingOfType("time.Time")).Return(nil)

	result, err := service.GrantLoginBonus(ctx, "U100", profile, 100)

	assert.NoError(t, err)
	assert.True(t, result.Granted)
	assert.Equal(t, int64(100), result.NewBalance)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockAccountRepo.AssertExpectations(t)
	mockLoginBonusRepo.AssertExpectations(t)
}

func TestLedgerService_GrantLoginBonus_ExistingAccount(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockAccountRepo, mockLoginBonusRepo := newLedgerTestFixture()

	service := NewLedgerService(mockFactory)

	existing := &models.Account{DiscordID: "U100", Name: "alice", Balance: 250}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockLoginBonusRepo.On("Exists", ctx, "U100", mock.AnythingOfType("time.Time")).Return(false, nil)
	mockAccountRepo.On("GetForUpdate", ctx, "U100").Return(existing, nil)
	mockAccountRepo.On("SetBalance", ctx, "U100", int64(350)).Return(nil)
	mockLoginBonusRepo.On("Create", ctx, "U100", mock.AnythingOfType("time.Time")).Return(nil)

	result, err := service.GrantLoginBonus(ctx, "U100", models.Profile{Name: "alice"}, 100)

	assert.NoError(t, err)
	assert.True(t, result.Granted)
	assert.Equal(t, int64(350), result.NewBalance)

	mockAccountRepo.AssertExpectations(t)
	mockLoginBonusRepo.AssertExpectations(t)
}

func TestLedgerService_GrantLoginBonus_AlreadyGrantedToday(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockAccountRepo, mockLoginBonusRepo := newLedgerTestFixture()

	service := NewLedgerService(mockFactory)

	existing := &models.Account{DiscordID: "U100", Name: "alice", Balance: 350}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockLoginBonusRepo.On("Exists", ctx, "U100", mock.AnythingOfType("time.Time")).Return(true, nil)
	mockAccountRepo.On("GetByDiscordID", ctx, "U100").Return(existing, nil)

	result, err := service.GrantLoginBonus(ctx, "U100", models.Profile{Name: "alice"}, 100)

	assert.NoError(t, err)
	assert.False(t, result.Granted)
	assert.Equal(t, int64(350), result.NewBalance)

	// The balance must not have been touched
	mockAccountRepo.AssertNotCalled(t, "SetBalance", mock.Anything, mock.Anything, mock.Anything)
	mockLoginBonusRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestLedgerService_GrantLoginBonus_LosesReceiptRace(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockAccountRepo, mockLoginBonusRepo := newLedgerTestFixture()

	service := NewLedgerService(mockFactory)

	existing := &models.Account{DiscordID: "U100", Name: "alice", Balance: 250}
	postGrant := &models.Account{DiscordID: "U100", Name: "alice", Balance: 350}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	// The receipt did not exist at check time but a concurrent grant wins
	// the insert; the whole attempt rolls back and the balance is re-read.
	mockLoginBonusRepo.On("Exists", ctx, "U100", mock.AnythingOfType("time.Time")).Return(false, nil)
	mockAccountRepo.On("GetForUpdate", ctx, "U100").Return(existing, nil)
	mockAccountRepo.On("SetBalance", ctx, "U100", int64(350)).Return(nil)
	mockLoginBonusRepo.On("Create", ctx, "U100", mock.AnythingOfType("time.Time")).Return(ErrDuplicateReceipt)
	mockAccountRepo.On("GetByDiscordID", ctx, "U100").Return(postGrant, nil)

	result, err := service.GrantLoginBonus(ctx, "U100", models.Profile{Name: "alice"}, 100)

	assert.NoError(t, err)
	assert.False(t, result.Granted)
	assert.Equal(t, int64(350), result.NewBalance)

	mockUoW.AssertExpectations(t)
	mockAccountRepo.AssertExpectations(t)
	mockLoginBonusRepo.AssertExpectations(t)
}

func TestLedgerService_GrantLoginBonus_RejectsNonPositiveAmount(t *testing.T) {
	ctx := context.Background()
	mockFactory, _, _, _ := newLedgerTestFixture()

	service := NewLedgerService(mockFactory)

	result, err := service.GrantLoginBonus(ctx, "U100", models.Profile{}, 0)

	assert.Error(t, err)
	assert.Nil(t, result)
	mockFactory.AssertNotCalled(t, "Create")
}

func TestLedgerService_Transfer_ZeroSum(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockAccountRepo, _ := newLedgerTestFixture()

	service := NewLedgerService(mockFactory)

	alice := &models.Account{DiscordID: "U100", Balance: 50}
	bot := &models.Account{DiscordID: "B001", Balance: 500}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	// Rows lock in ascending ID order: B001 before U100
	mockAccountRepo.On("GetForUpdate", ctx, "B001").Return(bot, nil)
	mockAccountRepo.On("GetForUpdate", ctx, "U100").Return(alice, nil)
	mockAccountRepo.On("SetBalance", ctx, "B001", int64(490)).Return(nil)
	mockAccountRepo.On("SetBalance", ctx, "U100", int64(60)).Return(nil)

	result, err := service.Transfer(ctx, "B001", "U100", 10)

	assert.NoError(t, err)
	assert.Equal(t, int64(490), result.FromBalance)
	assert.Equal(t, int64(60), result.ToBalance)
	// Sum is preserved
	assert.Equal(t, alice.Balance+bot.Balance, result.FromBalance+result.ToBalance)

	mockAccountRepo.AssertExpectations(t)
}

func TestLedgerService_Transfer_InsufficientFunds(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockAccountRepo, _ := newLedgerTestFixture()

	service := NewLedgerService(mockFactory)

	alice := &models.Account{DiscordID: "U100", Balance: 5}
	bob := &models.Account{DiscordID: "U200", Balance: 100}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("GetForUpdate", ctx, "U100").Return(alice, nil)
	mockAccountRepo.On("GetForUpdate", ctx, "U200").Return(bob, nil)

	result, err := service.Transfer(ctx, "U100", "U200", 10)

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Nil(t, result)
	mockAccountRepo.AssertNotCalled(t, "SetBalance", mock.Anything, mock.Anything, mock.Anything)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestLedgerService_Transfer_AccountNotFound(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockAccountRepo, _ := newLedgerTestFixture()

	service := NewLedgerService(mockFactory)

	alice := &models.Account{DiscordID: "U100", Balance: 50}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("GetForUpdate", ctx, "U100").Return(alice, nil)
	mockAccountRepo.On("GetForUpdate", ctx, "U200").Return(nil, nil)

	result, err := service.Transfer(ctx, "U100", "U200", 10)

	assert.ErrorIs(t, err, ErrAccountNotFound)
	assert.Nil(t, result)
}

func TestLedgerService_Transfer_RejectsInvalidArguments(t *testing.T) {
	ctx := context.Background()
	mockFactory, _, _, _ := newLedgerTestFixture()

	service := NewLedgerService(mockFactory)

	_, err := service.Transfer(ctx, "U100", "U200", 0)
	assert.Error(t, err)

	_, err = service.Transfer(ctx, "U100", "U200", -5)
	assert.Error(t, err)

	_, err = service.Transfer(ctx, "U100", "U100", 10)
	assert.Error(t, err)

	mockFactory.AssertNotCalled(t, "Create")
}

func TestLedgerService_EnsureAccount_Existing(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockAccountRepo, _ := newLedgerTestFixture()

	service := NewLedgerService(mockFactory)

	existing := &models.Account{DiscordID: "U100", Name: "alice", Balance: 42}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("GetByDiscordID", ctx, "U100").Return(existing, nil)

	account, err := service.EnsureAccount(ctx, "U100", models.Profile{Name: "alice"}, 100)

	assert.NoError(t, err)
	assert.Equal(t, existing, account)
	mockAccountRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLedgerService_EnsureAccount_CreatesWhenAbsent(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockAccountRepo, _ := newLedgerTestFixture()

	service := NewLedgerService(mockFactory)

	profile := models.Profile{Name: "bot"}
	created := &models.Account{DiscordID: "B001", Name: "bot", Balance: 20000}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("GetByDiscordID", ctx, "B001").Return(nil, nil)
	mockAccountRepo.On("Create", ctx, "B001", profile, int64(20000)).Return(created, nil)

	account, err := service.EnsureAccount(ctx, "B001", profile, 20000)

	assert.NoError(t, err)
	assert.Equal(t, created, account)
	mockAccountRepo.AssertExpectations(t)
}

func TestLedgerService_EnsureAccount_ToleratesCreateRace(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockAccountRepo, _ := newLedgerTestFixture()

	service := NewLedgerService(mockFactory)

	profile := models.Profile{Name: "alice"}
	existing := &models.Account{DiscordID: "U100", Name: "alice", Balance: 100}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	// Absent at first read, but a concurrent create wins; the duplicate is
	// treated as success and the existing row returned.
	mockAccountRepo.On("GetByDiscordID", ctx, "U100").Return(nil, nil).Once()
	mockAccountRepo.On("Create", ctx, "U100", profile, int64(0)).Return(nil, ErrDuplicateAccount)
	mockAccountRepo.On("GetByDiscordID", ctx, "U100").Return(existing, nil).Once()

	account, err := service.EnsureAccount(ctx, "U100", profile, 0)

	assert.NoError(t, err)
	assert.Equal(t, existing, account)
	mockAccountRepo.AssertExpectations(t)
}
