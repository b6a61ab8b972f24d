package mocks

import (
	"context"

	"github.com/you/checkoutsvc/domain"
)

// MockTicketRepository implements domain.TicketRepository for testing
type MockTicketRepository struct {
	FindByIDFunc func(ctx context.Context, id uint) (*domain.TicketType, error)

	Tickets map[uint]*domain.TicketType
}

// NewMockTicketRepository creates a new MockTicketRepository seeded with
// a single general-admission ticket
func NewMockTicketRepository() *MockTicketRepository {
	return &MockTicketRepository{
		Tickets: map[uint]*domain.TicketType{
			1: {ID: 1, EventID: 1, Name: "General", Price: 100000, Capacity: 500},
		},
	}
}

// FindByID delegates to FindByIDFunc when set
func (m *MockTicketRepository) FindByID(ctx context.Context, id uint) (*domain.TicketType, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}

	ticket, ok := m.Tickets[id]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	cp := *ticket
	return &cp, nil
}

// Compile-time interface compliance verification
var _ domain.TicketRepository = (*MockTicketRepository)(nil)
