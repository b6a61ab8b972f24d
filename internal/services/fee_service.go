package services

import (
	"context"
	"fmt"

	"github.com/you/checkoutsvc/domain"
)

// FeeServiceImpl resolves per-event service-fee rates from the ticket
// catalog. A ticket without an override uses the platform default.
type FeeServiceImpl struct {
	ticketRepo  domain.TicketRepository
	defaultRate float64
}

// NewFeeService creates a fee service
func NewFeeService(ticketRepo domain.TicketRepository, defaultRate float64) domain.FeeService {
	return &FeeServiceImpl{ticketRepo: ticketRepo, defaultRate: defaultRate}
}

// Rate implements domain.FeeService. An error means the rate could not be
// resolved; callers decide whether to fall back (quotes) or abort (payment).
func (s *FeeServiceImpl) Rate(ctx context.Context, ticketID uint) (float64, error) {
	ticket, err := s.ticketRepo.FindByID(ctx, ticketID)
	if err != nil {
		return 0, fmt.Errorf("fee lookup: %w", err)
	}
	if ticket.FeeRate != nil {
		return *ticket.FeeRate, nil
	}
	return s.defaultRate, nil
}
