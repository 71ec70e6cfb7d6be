package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/learnearn/internal/models"
)

// MockAccountRepository is a mock implementation of repository.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) LoadAll(ctx context.Context) map[string]models.Account {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return map[string]models.Account{}
	}
	return args.Get(0).(map[string]models.Account)
}

func (m *MockAccountRepository) SaveAll(ctx context.Context, accounts map[string]models.Account) {
	m.Called(ctx, accounts)
}
