package service

import (
	"context"
	"testing"

	"meritum/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestGachaService_Draw_AwardsTitle(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockAccountRepo, _ := newLedgerTestFixture()

	service := NewGachaServiceWithDrawer(mockFactory, 80, func() string { return "Lucky Star" })

	player := &models.Account{DiscordID: "U100", Balance: 100}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("GetForUpdate", ctx, "U100").Return(player, nil)
	mockAccountRepo.On("SetBalance", ctx, "U100", int64(20)).Return(nil)
	mockAccountRepo.On("AppendTitle", ctx, "U100", "Lucky Star").Return(nil)

	result, err := service.Draw(ctx, "U100", models.Profile{Name: "alice"})

	assert.NoError(t, err)
	assert.True(t, result.Drawn)
	assert.Equal(t, "Lucky Star", result.Title)
	assert.Equal(t, int64(20), result.NewBalance)

	mockAccountRepo.AssertExpectations(t)
}

func TestGachaService_Draw_InsufficientFunds(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockAccountRepo, _ := newLedgerTestFixture()

	service := NewGachaService(mockFactory, 80)

	player := &models.Account{DiscordID: "U100", Balance: 79}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("GetForUpdate", ctx, "U100").Return(player, nil)

	result, err := service.Draw(ctx, "U100", models.Profile{Name: "alice"})

	assert.NoError(t, err)
	assert.False(t, result.Drawn)
	assert.Equal(t, int64(79), result.NewBalance)
	mockAccountRepo.AssertNotCalled(t, "SetBalance", mock.Anything, mock.Anything, mock.Anything)
	mockAccountRepo.AssertNotCalled(t, "AppendTitle", mock.Anything, mock.Anything, mock.Anything)
}

func TestGachaService_Draw_SeedsUnknownPlayer(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockAccountRepo, _ := newLedgerTestFixture()

	service := NewGachaService(mockFactory, 80)

	profile := models.Profile{Name: "newbie"}
	created := &models.Account{DiscordID: "U999", Name: "newbie", Balance: 0}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAccountRepo.On("GetForUpdate", ctx, "U999").Return(nil, nil)
	mockAccountRepo.On("GetByDiscordID", ctx, "U999").Return(nil, nil)
	mockAccountRepo.On("Create", ctx, "U999", profile, int64(0)).Return(created, nil)

	result, err := service.Draw(ctx, "U999", profile)

	assert.NoError(t, err)
	assert.False(t, result.Drawn)
	assert.Equal(t, int64(0), result.NewBalance)
	mockAccountRepo.AssertExpectations(t)
}
