package mocks

import (
	"fmt"
	"time"

	"github.com/you/checkoutsvc/domain"
)

// MockTokenService implements domain.TokenService for testing
type MockTokenService struct {
	GenerateAccessTokenFunc  func(customerID uint, role string, sessionID string) (string, error)
	GenerateRefreshTokenFunc func(customerID uint, role string, sessionID string) (string, error)
	ValidateAccessTokenFunc  func(token string) (*domain.TokenClaims, error)
	ValidateRefreshTokenFunc func(token string) (*domain.TokenClaims, error)
}

// NewMockTokenService creates a new MockTokenService
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

// GenerateAccessToken returns a deterministic fake token
func (m *MockTokenService) GenerateAccessToken(customerID uint, role string, sessionID string) (string, error) {
	if m.GenerateAccessTokenFunc != nil {
		return m.GenerateAccessTokenFunc(customerID, role, sessionID)
	}
	return fmt.Sprintf("access-%d-%s", customerID, sessionID), nil
}

// GenerateRefreshToken returns a deterministic fake token
func (m *MockTokenService) GenerateRefreshToken(customerID uint, role string, sessionID string) (string, error) {
	if m.GenerateRefreshTokenFunc != nil {
		return m.GenerateRefreshTokenFunc(customerID, role, sessionID)
	}
	return fmt.Sprintf("refresh-%d-%s", customerID, sessionID), nil
}

// ValidateAccessToken returns default claims unless overridden
func (m *MockTokenService) ValidateAccessToken(token string) (*domain.TokenClaims, error) {
	if m.ValidateAccessTokenFunc != nil {
		return m.ValidateAccessTokenFunc(token)
	}
	return defaultClaims(), nil
}

// ValidateRefreshToken returns default claims unless overridden
func (m *MockTokenService) ValidateRefreshToken(token string) (*domain.TokenClaims, error) {
	if m.ValidateRefreshTokenFunc != nil {
		return m.ValidateRefreshTokenFunc(token)
	}
	return defaultClaims(), nil
}

func defaultClaims() *domain.TokenClaims {
	now := time.Now()
	return &domain.TokenClaims{
		CustomerID: 1,
		Role:       "customer",
		SessionID:  "session-1",
		IssuedAt:   now.Unix(),
		ExpiresAt:  now.Add(15 * time.Minute).Unix(),
	}
}

// Compile-time interface compliance verification
var _ domain.TokenService = (*MockTokenService)(nil)
