package service

import (
	"context"
	"time"

	"meritum/events"
	"meritum/models"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByDiscordID(ctx context.Context, discordID string) (*models.Account, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) GetForUpdate(ctx context.Context, discordID string) (*models.Account, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, discordID string, profile models.Profile, initialBalance int64) (*models.Account, error) {
	args := m.Called(ctx, discordID, profile, initialBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) SetBalance(ctx context.Context, discordID string, newBalance int64) error {
	args := m.Called(ctx, discordID, newBalance)
	return args.Error(0)
}

func (m *MockAccountRepository) AppendTitle(ctx context.Context, discordID string, title string) error {
	args := m.Called(ctx, discordID, title)
	return args.Error(0)
}

func (m *MockAccountRepository) ListByRank(ctx context.Context, limit int) ([]*models.Account, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Account), args.Error(1)
}

func (m *MockAccountRepository) CountRankedAbove(ctx context.Context, account *models.Account) (int, error) {
	args := m.Called(ctx, account)
	return args.Int(0), args.Error(1)
}

// MockLoginBonusRepository is a mock implementation of LoginBonusRepository
type MockLoginBonusRepository struct {
	mock.Mock
}

func (m *MockLoginBonusRepository) Exists(ctx context.Context, discordID string, receiptDay time.Time) (bool, error) {
	args := m.Called(ctx, discordID, receiptDay)
	return args.Bool(0), args.Error(1)
}

func (m *MockLoginBonusRepository) Create(ctx context.Context, discordID string, receiptDay time.Time) error {
	args := m.Called(ctx, discordID, receiptDay)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// recordingPublisher collects published events without expectations; handy
// when a test only cares about repository interactions
type recordingPublisher struct {
	published []events.Event
}

func (p *recordingPublisher) Publish(event events.Event) {
	p.published = append(p.published, event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repositories are
// plain fields so tests can wire mocks once with SetRepositories.
type MockUnitOfWork struct {
	mock.Mock
	accountRepo    AccountRepository
	loginBonusRepo LoginBonusRepository
	eventBus       EventPublisher
}

// SetRepositories wires the mock repositories this unit of work exposes
func (m *MockUnitOfWork) SetRepositories(accountRepo AccountRepository, loginBonusRepo LoginBonusRepository) {
	m.accountRepo = accountRepo
	m.loginBonusRepo = loginBonusRepo
	m.eventBus = &recordingPublisher{}
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) AccountRepository() AccountRepository {
	return m.accountRepo
}

func (m *MockUnitOfWork) LoginBonusRepository() LoginBonusRepository {
	return m.loginBonusRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (f *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := f.Called()
	return args.Get(0).(UnitOfWork)
}
