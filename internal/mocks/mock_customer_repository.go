package mocks

import (
	"context"
	"sync"

	"github.com/you/checkoutsvc/domain"
)

// MockCustomerRepository implements domain.CustomerRepository for testing.
// With no overrides it behaves like a tiny in-memory store.
type MockCustomerRepository struct {
	CreateFunc           func(ctx context.Context, customer *domain.Customer) error
	FindByIdentifierFunc func(ctx context.Context, identifier string) (*domain.Customer, error)
	FindByIDFunc         func(ctx context.Context, id uint) (*domain.Customer, error)
	UpdateFunc           func(ctx context.Context, customer *domain.Customer) error

	mu        sync.Mutex
	customers map[uint]*domain.Customer
	nextID    uint
}

// NewMockCustomerRepository creates a new MockCustomerRepository
func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{
		customers: make(map[uint]*domain.Customer),
		nextID:    1,
	}
}

// Create stores the customer, assigning an id
func (m *MockCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, customer)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	customer.ID = m.nextID
	m.nextID++
	copied := *customer
	m.customers[customer.ID] = &copied
	return nil
}

// FindByIdentifier looks a customer up by email or phone
func (m *MockCustomerRepository) FindByIdentifier(ctx context.Context, identifier string) (*domain.Customer, error) {
	if m.FindByIdentifierFunc != nil {
		return m.FindByIdentifierFunc(ctx, identifier)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.customers {
		if c.Email == identifier || c.Phone == identifier {
			copied := *c
			return &copied, nil
		}
	}
	return nil, domain.ErrCustomerNotFound
}

// FindByID looks a customer up by id
func (m *MockCustomerRepository) FindByID(ctx context.Context, id uint) (*domain.Customer, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.customers[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, domain.ErrCustomerNotFound
}

// Update replaces the stored customer
func (m *MockCustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, customer)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[customer.ID]; !ok {
		return domain.ErrCustomerNotFound
	}
	copied := *customer
	m.customers[customer.ID] = &copied
	return nil
}

// Compile-time interface compliance verification
var _ domain.CustomerRepository = (*MockCustomerRepository)(nil)
