package cyclecloud

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockAPI is a testify mock of the API interface for use in unit tests.
type MockAPI struct {
	mock.Mock
}

var _ API = (*MockAPI)(nil)

// Status mocks the status query.
func (m *MockAPI) Status(ctx context.Context, includeNodes bool) (*ClusterStatus, error) {
	args := m.Called(ctx, includeNodes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ClusterStatus), args.Error(1)
}

// StartNodes mocks the start-nodes call.
func (m *MockAPI) StartNodes(ctx context.Context, names []string) (*StartResponse, error) {
	args := m.Called(ctx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*StartResponse), args.Error(1)
}

// ShutdownNodes mocks the shutdown-nodes call.
func (m *MockAPI) ShutdownNodes(ctx context.Context, names []string) error {
	args := m.Called(ctx, names)
	return args.Error(0)
}

// Nodes mocks the node query.
func (m *MockAPI) Nodes(ctx context.Context, operationID string) ([]NodeRecord, error) {
	args := m.Called(ctx, operationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]NodeRecord), args.Error(1)
}

// CreateNodes mocks the batch creation request.
func (m *MockAPI) CreateNodes(ctx context.Context, req *NodeCreationRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
