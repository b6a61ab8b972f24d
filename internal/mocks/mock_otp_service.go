package mocks

import (
	"context"
	"time"

	"github.com/you/checkoutsvc/domain"
)

// MockOTPService implements domain.OTPService interface for testing
type MockOTPService struct {
	GenerateFunc  func(ctx context.Context, identifier string) (*domain.OTPRequest, error)
	VerifyFunc    func(ctx context.Context, identifier, code string) (bool, error)
	CanResendFunc func(ctx context.Context, identifier string) (bool, int64, error)
}

// NewMockOTPService creates a new MockOTPService with default behaviors
func NewMockOTPService() *MockOTPService {
	return &MockOTPService{}
}

// Generate generates a new OTP for the given identifier
func (m *MockOTPService) Generate(ctx context.Context, identifier string) (*domain.OTPRequest, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, identifier)
	}
	// Default behavior: return a mock OTP request
	return &domain.OTPRequest{
		Identifier: identifier,
		Code:       "123456",
		ExpiresAt:  time.Now().Add(5 * time.Minute),
		Attempts:   0,
	}, nil
}

// Verify verifies an OTP code for the given identifier
func (m *MockOTPService) Verify(ctx context.Context, identifier, code string) (bool, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, identifier, code)
	}
	// Default behavior: accept "123456" as valid OTP
	return code == "123456", nil
}

// CanResend checks if an OTP can be resent for the given identifier
func (m *MockOTPService) CanResend(ctx context.Context, identifier string) (bool, int64, error) {
	if m.CanResendFunc != nil {
		return m.CanResendFunc(ctx, identifier)
	}
	// Default behavior: allow resend with no wait time
	return true, 0, nil
}

// Compile-time interface compliance verification
var _ domain.OTPService = (*MockOTPService)(nil)
