package mocks

import (
	"context"
	"sync"

	"github.com/you/checkoutsvc/domain"
)

// MockCartSessionRepository implements domain.CartSessionRepository for testing
type MockCartSessionRepository struct {
	CreateFunc   func(ctx context.Context, cart *domain.CartSession) error
	FindByIDFunc func(ctx context.Context, cartID string) (*domain.CartSession, error)
	SaveFunc     func(ctx context.Context, cart *domain.CartSession) error
	DeleteFunc   func(ctx context.Context, cartID string) error

	mu    sync.Mutex
	carts map[string]*domain.CartSession
}

// NewMockCartSessionRepository creates a new MockCartSessionRepository with
// an in-memory backing store
func NewMockCartSessionRepository() *MockCartSessionRepository {
	return &MockCartSessionRepository{
		carts: make(map[string]*domain.CartSession),
	}
}

// Create delegates to CreateFunc when set
func (m *MockCartSessionRepository) Create(ctx context.Context, cart *domain.CartSession) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, cart)
	}
	return m.store(cart)
}

// FindByID delegates to FindByIDFunc when set
func (m *MockCartSessionRepository) FindByID(ctx context.Context, cartID string) (*domain.CartSession, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, cartID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	cart, ok := m.carts[cartID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	cp := *cart
	return &cp, nil
}

// Save delegates to SaveFunc when set
func (m *MockCartSessionRepository) Save(ctx context.Context, cart *domain.CartSession) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, cart)
	}
	return m.store(cart)
}

// Delete delegates to DeleteFunc when set
func (m *MockCartSessionRepository) Delete(ctx context.Context, cartID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, cartID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, cartID)
	return nil
}

func (m *MockCartSessionRepository) store(cart *domain.CartSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *cart
	m.carts[cart.ID] = &cp
	return nil
}

// Compile-time interface compliance verification
var _ domain.CartSessionRepository = (*MockCartSessionRepository)(nil)
