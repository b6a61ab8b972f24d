package mocks

import (
	"context"

	"github.com/you/checkoutsvc/domain"
)

// MockFeeService implements domain.FeeService for testing
type MockFeeService struct {
	RateFunc func(ctx context.Context, ticketID uint) (float64, error)
}

// NewMockFeeService creates a new MockFeeService returning the platform
// default rate
func NewMockFeeService() *MockFeeService {
	return &MockFeeService{}
}

// Rate delegates to RateFunc when set
func (m *MockFeeService) Rate(ctx context.Context, ticketID uint) (float64, error) {
	if m.RateFunc != nil {
		return m.RateFunc(ctx, ticketID)
	}
	return 0.16, nil
}

// Compile-time interface compliance verification
var _ domain.FeeService = (*MockFeeService)(nil)
