package mocks

import (
	"context"
	"sync"

	"github.com/you/checkoutsvc/domain"
)

// MockProfileRepository implements domain.ProfileRepository for testing
type MockProfileRepository struct {
	UpsertFunc           func(ctx context.Context, profile *domain.ProfileRecord) error
	FindByCustomerIDFunc func(ctx context.Context, customerID uint) (*domain.ProfileRecord, error)

	mu       sync.Mutex
	profiles map[uint]*domain.ProfileRecord
}

// NewMockProfileRepository creates a new MockProfileRepository with an
// in-memory backing store
func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{
		profiles: make(map[uint]*domain.ProfileRecord),
	}
}

// Upsert delegates to UpsertFunc when set
func (m *MockProfileRepository) Upsert(ctx context.Context, profile *domain.ProfileRecord) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, profile)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *profile
	m.profiles[profile.CustomerID] = &cp
	return nil
}

// FindByCustomerID delegates to FindByCustomerIDFunc when set
func (m *MockProfileRepository) FindByCustomerID(ctx context.Context, customerID uint) (*domain.ProfileRecord, error) {
	if m.FindByCustomerIDFunc != nil {
		return m.FindByCustomerIDFunc(ctx, customerID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	profile, ok := m.profiles[customerID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	cp := *profile
	return &cp, nil
}

// Compile-time interface compliance verification
var _ domain.ProfileRepository = (*MockProfileRepository)(nil)
