package mocks

import (
	"context"

	"cubebridge/internal/model"
	"cubebridge/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockBridgeService struct {
	mock.Mock
}

func (m *MockBridgeService) Execute(ctx context.Context, command string) (*model.Invocation, error) {
	args := m.Called(ctx, command)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Invocation), args.Error(1)
}

func (m *MockBridgeService) LogMemoryThread(ctx context.Context, message string) (*model.MemoryThreadEntry, error) {
	args := m.Called(ctx, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MemoryThreadEntry), args.Error(1)
}

func (m *MockBridgeService) History(ctx context.Context, limit, offset int) (*service.InvocationListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InvocationListResult), args.Error(1)
}

func (m *MockBridgeService) Invocation(ctx context.Context, id string) (*model.Invocation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Invocation), args.Error(1)
}

func (m *MockBridgeService) ArchiveURL(ctx context.Context, filename string) (string, error) {
	args := m.Called(ctx, filename)
	return args.String(0), args.Error(1)
}
