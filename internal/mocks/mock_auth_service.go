package mocks

import (
	"context"

	"github.com/you/checkoutsvc/domain"
)

// MockAuthService implements domain.AuthService for testing
type MockAuthService struct {
	RequestCodeFunc func(ctx context.Context, identifier string) error
	VerifyCodeFunc  func(ctx context.Context, identifier, code string) (*domain.AuthResult, error)
	LogoutFunc      func(ctx context.Context, sessionID string) error
	GetCustomerFunc func(ctx context.Context, customerID uint) (*domain.Customer, error)

	RequestCodeCalls []string
}

// NewMockAuthService creates a new MockAuthService
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

// RequestCode records the call and delegates to RequestCodeFunc when set
func (m *MockAuthService) RequestCode(ctx context.Context, identifier string) error {
	m.RequestCodeCalls = append(m.RequestCodeCalls, identifier)
	if m.RequestCodeFunc != nil {
		return m.RequestCodeFunc(ctx, identifier)
	}
	return nil
}

// VerifyCode accepts "123456" by default, yielding customer 1
func (m *MockAuthService) VerifyCode(ctx context.Context, identifier, code string) (*domain.AuthResult, error) {
	if m.VerifyCodeFunc != nil {
		return m.VerifyCodeFunc(ctx, identifier, code)
	}
	if code != "123456" {
		return nil, domain.ErrOTPInvalid
	}
	return &domain.AuthResult{
		Customer:     &domain.Customer{ID: 1, Email: identifier, Role: "customer", IsActive: true},
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		SessionID:    "session-1",
		ExpiresIn:    900,
	}, nil
}

// Logout delegates to LogoutFunc when set
func (m *MockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, sessionID)
	}
	return nil
}

// GetCustomer delegates to GetCustomerFunc when set
func (m *MockAuthService) GetCustomer(ctx context.Context, customerID uint) (*domain.Customer, error) {
	if m.GetCustomerFunc != nil {
		return m.GetCustomerFunc(ctx, customerID)
	}
	return &domain.Customer{ID: customerID, Email: "ana@example.com", Role: "customer", IsActive: true}, nil
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)
