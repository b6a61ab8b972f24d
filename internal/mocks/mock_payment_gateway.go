package mocks

import (
	"context"

	"github.com/you/checkoutsvc/domain"
)

// MockPaymentGateway implements domain.PaymentGateway for testing
type MockPaymentGateway struct {
	OpenCheckoutFunc func(ctx context.Context, req domain.PaymentRequest) (*domain.PaymentHandoff, error)

	// OpenCheckoutCalls records every request handed to the gateway so
	// tests can assert it was (or was not) invoked
	OpenCheckoutCalls []domain.PaymentRequest
}

// NewMockPaymentGateway creates a new MockPaymentGateway
func NewMockPaymentGateway() *MockPaymentGateway {
	return &MockPaymentGateway{}
}

// OpenCheckout delegates to OpenCheckoutFunc when set, recording the call
// either way
func (m *MockPaymentGateway) OpenCheckout(ctx context.Context, req domain.PaymentRequest) (*domain.PaymentHandoff, error) {
	m.OpenCheckoutCalls = append(m.OpenCheckoutCalls, req)
	if m.OpenCheckoutFunc != nil {
		return m.OpenCheckoutFunc(ctx, req)
	}
	return &domain.PaymentHandoff{
		PreferenceID: "pref-" + req.OrderID,
		CheckoutURL:  "https://checkout.example/" + req.OrderID,
	}, nil
}

// Compile-time interface compliance verification
var _ domain.PaymentGateway = (*MockPaymentGateway)(nil)
