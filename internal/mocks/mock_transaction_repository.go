package mocks

import (
	"context"
	"sync"

	"github.com/you/checkoutsvc/domain"
)

// MockTransactionRepository implements domain.TransactionRepository for testing
type MockTransactionRepository struct {
	CreateFunc        func(ctx context.Context, tx *domain.Transaction) error
	FindByOrderIDFunc func(ctx context.Context, orderID string) (*domain.Transaction, error)
	UpdateStatusFunc  func(ctx context.Context, orderID string, status domain.TransactionStatus) error
	ListFunc          func(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error)

	mu      sync.Mutex
	Created []*domain.Transaction
	byOrder map[string]*domain.Transaction
}

// NewMockTransactionRepository creates a new MockTransactionRepository with
// an in-memory backing store
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		byOrder: make(map[string]*domain.Transaction),
	}
}

// Create delegates to CreateFunc when set, recording the request either way
func (m *MockTransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byOrder[tx.OrderID]; exists {
		return domain.ErrDuplicateOrder
	}
	cp := *tx
	m.Created = append(m.Created, &cp)
	m.byOrder[tx.OrderID] = &cp
	return nil
}

// FindByOrderID delegates to FindByOrderIDFunc when set
func (m *MockTransactionRepository) FindByOrderID(ctx context.Context, orderID string) (*domain.Transaction, error) {
	if m.FindByOrderIDFunc != nil {
		return m.FindByOrderIDFunc(ctx, orderID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.byOrder[orderID]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	cp := *tx
	return &cp, nil
}

// UpdateStatus delegates to UpdateStatusFunc when set
func (m *MockTransactionRepository) UpdateStatus(ctx context.Context, orderID string, status domain.TransactionStatus) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, orderID, status)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.byOrder[orderID]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	tx.Status = status
	return nil
}

// List delegates to ListFunc when set
func (m *MockTransactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Transaction
	for _, tx := range m.Created {
		if filter.TicketID != 0 && tx.TicketID != filter.TicketID {
			continue
		}
		if filter.Status != "" && tx.Status != filter.Status {
			continue
		}
		cp := *tx
		out = append(out, &cp)
	}
	return out, nil
}

// Compile-time interface compliance verification
var _ domain.TransactionRepository = (*MockTransactionRepository)(nil)
