package mocks

import (
	"context"

	"github.com/you/checkoutsvc/domain"
)

// MockCheckoutService implements domain.CheckoutService for testing
type MockCheckoutService struct {
	StartFunc         func(ctx context.Context, ticketID uint, customerID uint, sellerID *uint) (*domain.CartSession, error)
	ContinueFunc      func(ctx context.Context, cartID string) (*domain.CartSession, error)
	SubmitContactFunc func(ctx context.Context, cartID, identifier string) (*domain.CartSession, error)
	SubmitCodeFunc    func(ctx context.Context, cartID, code string) (*domain.CartSession, *domain.AuthResult, error)
	ResendFunc        func(ctx context.Context, cartID string) (*domain.CartSession, error)
	BackFunc          func(ctx context.Context, cartID string) (*domain.CartSession, error)
	ApplyCouponFunc   func(ctx context.Context, cartID, code string) (*domain.CartSession, error)
	RemoveCouponFunc  func(ctx context.Context, cartID string) (*domain.CartSession, error)
	SubmitProfileFunc func(ctx context.Context, cartID string, input domain.ProfileInput) (*domain.CartSession, error)
	AcceptTermsFunc   func(ctx context.Context, cartID string, accepted bool) (*domain.CartSession, error)
	QuoteFunc         func(ctx context.Context, cartID string) (*domain.PriceBreakdown, error)
	ConfirmFunc       func(ctx context.Context, cartID string) (*domain.PaymentHandoff, error)

	StartCalls []uint
}

// NewMockCheckoutService creates a new MockCheckoutService
func NewMockCheckoutService() *MockCheckoutService {
	return &MockCheckoutService{}
}

func defaultCart(cartID string, state domain.CartState) *domain.CartSession {
	return &domain.CartSession{ID: cartID, State: state, TicketID: 1}
}

// Start records the call and delegates to StartFunc when set
func (m *MockCheckoutService) Start(ctx context.Context, ticketID uint, customerID uint, sellerID *uint) (*domain.CartSession, error) {
	m.StartCalls = append(m.StartCalls, ticketID)
	if m.StartFunc != nil {
		return m.StartFunc(ctx, ticketID, customerID, sellerID)
	}
	cart := defaultCart("cart-1", domain.CartStateInitial)
	cart.TicketID = ticketID
	cart.CustomerID = customerID
	cart.SellerID = sellerID
	return cart, nil
}

// Continue delegates to ContinueFunc when set
func (m *MockCheckoutService) Continue(ctx context.Context, cartID string) (*domain.CartSession, error) {
	if m.ContinueFunc != nil {
		return m.ContinueFunc(ctx, cartID)
	}
	return defaultCart(cartID, domain.CartStateEmail), nil
}

// SubmitContact delegates to SubmitContactFunc when set
func (m *MockCheckoutService) SubmitContact(ctx context.Context, cartID, identifier string) (*domain.CartSession, error) {
	if m.SubmitContactFunc != nil {
		return m.SubmitContactFunc(ctx, cartID, identifier)
	}
	cart := defaultCart(cartID, domain.CartStateOTP)
	cart.Identifier = identifier
	return cart, nil
}

// SubmitCode delegates to SubmitCodeFunc when set
func (m *MockCheckoutService) SubmitCode(ctx context.Context, cartID, code string) (*domain.CartSession, *domain.AuthResult, error) {
	if m.SubmitCodeFunc != nil {
		return m.SubmitCodeFunc(ctx, cartID, code)
	}
	cart := defaultCart(cartID, domain.CartStateProfile)
	cart.CustomerID = 1
	return cart, &domain.AuthResult{
		Customer:     &domain.Customer{ID: 1, Role: "customer", IsActive: true},
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		SessionID:    "session-1",
		ExpiresIn:    900,
	}, nil
}

// Resend delegates to ResendFunc when set
func (m *MockCheckoutService) Resend(ctx context.Context, cartID string) (*domain.CartSession, error) {
	if m.ResendFunc != nil {
		return m.ResendFunc(ctx, cartID)
	}
	return defaultCart(cartID, domain.CartStateOTP), nil
}

// Back delegates to BackFunc when set
func (m *MockCheckoutService) Back(ctx context.Context, cartID string) (*domain.CartSession, error) {
	if m.BackFunc != nil {
		return m.BackFunc(ctx, cartID)
	}
	return defaultCart(cartID, domain.CartStateInitial), nil
}

// ApplyCoupon delegates to ApplyCouponFunc when set
func (m *MockCheckoutService) ApplyCoupon(ctx context.Context, cartID, code string) (*domain.CartSession, error) {
	if m.ApplyCouponFunc != nil {
		return m.ApplyCouponFunc(ctx, cartID, code)
	}
	cart := defaultCart(cartID, domain.CartStateSummary)
	cart.Coupon = &domain.Coupon{Code: code, Discount: 10}
	return cart, nil
}

// RemoveCoupon delegates to RemoveCouponFunc when set
func (m *MockCheckoutService) RemoveCoupon(ctx context.Context, cartID string) (*domain.CartSession, error) {
	if m.RemoveCouponFunc != nil {
		return m.RemoveCouponFunc(ctx, cartID)
	}
	return defaultCart(cartID, domain.CartStateSummary), nil
}

// SubmitProfile delegates to SubmitProfileFunc when set
func (m *MockCheckoutService) SubmitProfile(ctx context.Context, cartID string, input domain.ProfileInput) (*domain.CartSession, error) {
	if m.SubmitProfileFunc != nil {
		return m.SubmitProfileFunc(ctx, cartID, input)
	}
	cart := defaultCart(cartID, domain.CartStateSummary)
	cart.CustomerID = 1
	return cart, nil
}

// AcceptTerms delegates to AcceptTermsFunc when set
func (m *MockCheckoutService) AcceptTerms(ctx context.Context, cartID string, accepted bool) (*domain.CartSession, error) {
	if m.AcceptTermsFunc != nil {
		return m.AcceptTermsFunc(ctx, cartID, accepted)
	}
	cart := defaultCart(cartID, domain.CartStateSummary)
	cart.TermsAccepted = accepted
	return cart, nil
}

// Quote delegates to QuoteFunc when set
func (m *MockCheckoutService) Quote(ctx context.Context, cartID string) (*domain.PriceBreakdown, error) {
	if m.QuoteFunc != nil {
		return m.QuoteFunc(ctx, cartID)
	}
	return &domain.PriceBreakdown{
		BasePrice:          100000,
		PriceAfterDiscount: 100000,
		ServiceFee:         16000,
		IVA:                3040,
		FinalTotal:         119040,
	}, nil
}

// Confirm delegates to ConfirmFunc when set
func (m *MockCheckoutService) Confirm(ctx context.Context, cartID string) (*domain.PaymentHandoff, error) {
	if m.ConfirmFunc != nil {
		return m.ConfirmFunc(ctx, cartID)
	}
	return &domain.PaymentHandoff{PreferenceID: "pref-1", CheckoutURL: "https://checkout.example/pref-1"}, nil
}

// Compile-time interface compliance verification
var _ domain.CheckoutService = (*MockCheckoutService)(nil)
