package mocks

import (
	"context"

	"github.com/you/checkoutsvc/domain"
)

// MockProfileService implements domain.ProfileService for testing
type MockProfileService struct {
	SubmitFunc     func(ctx context.Context, customerID uint, input domain.ProfileInput) (*domain.ProfileRecord, error)
	IsCompleteFunc func(ctx context.Context, customerID uint) (bool, error)

	SubmitCalls []uint
}

// NewMockProfileService creates a new MockProfileService
func NewMockProfileService() *MockProfileService {
	return &MockProfileService{}
}

// Submit delegates to SubmitFunc when set, recording the call either way
func (m *MockProfileService) Submit(ctx context.Context, customerID uint, input domain.ProfileInput) (*domain.ProfileRecord, error) {
	m.SubmitCalls = append(m.SubmitCalls, customerID)
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, customerID, input)
	}
	return &domain.ProfileRecord{
		CustomerID:     customerID,
		Name:           input.Name,
		LastName:       input.LastName,
		DocumentTypeID: input.DocumentTypeID,
		DocumentID:     input.DocumentID,
		Phone:          input.PhonePrefix + input.Phone,
	}, nil
}

// IsComplete delegates to IsCompleteFunc when set
func (m *MockProfileService) IsComplete(ctx context.Context, customerID uint) (bool, error) {
	if m.IsCompleteFunc != nil {
		return m.IsCompleteFunc(ctx, customerID)
	}
	return false, nil
}

// Compile-time interface compliance verification
var _ domain.ProfileService = (*MockProfileService)(nil)
