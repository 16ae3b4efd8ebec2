package mocks

import (
	"context"

	"cubebridge/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Write(ctx context.Context, message string) (*model.MemoryThreadEntry, error) {
	args := m.Called(ctx, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MemoryThreadEntry), args.Error(1)
}
