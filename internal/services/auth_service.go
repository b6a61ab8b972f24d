package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/you/checkoutsvc/domain"
)

// AuthServiceImpl implements domain.AuthService as a passwordless flow:
// a customer identity is established exclusively through OTP verification.
type AuthServiceImpl struct {
	customerRepo domain.CustomerRepository
	sessionRepo  domain.SessionRepository
	tokenSvc     domain.TokenService
	otpSvc       domain.OTPService
	sessionTTL   time.Duration
	accessTTL    time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(
	customerRepo domain.CustomerRepository,
	sessionRepo domain.SessionRepository,
	tokenSvc domain.TokenService,
	otpSvc domain.OTPService,
	sessionTTL time.Duration,
	accessTTL time.Duration,
) domain.AuthService {
	return &AuthServiceImpl{
		customerRepo: customerRepo,
		sessionRepo:  sessionRepo,
		tokenSvc:     tokenSvc,
		otpSvc:       otpSvc,
		sessionTTL:   sessionTTL,
		accessTTL:    accessTTL,
	}
}

// RequestCode implements domain.AuthService
func (s *AuthServiceImpl) RequestCode(ctx context.Context, identifier string) error {
	_, err := s.otpSvc.Generate(ctx, identifier)
	return err
}

// VerifyCode implements domain.AuthService. On a valid code the customer is
// found or created, a session is opened and tokens are issued.
func (s *AuthServiceImpl) VerifyCode(ctx context.Context, identifier, code string) (*domain.AuthResult, error) {
	valid, err := s.otpSvc.Verify(ctx, identifier, code)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, domain.ErrOTPInvalid
	}

	customer, err := s.findOrCreateCustomer(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive {
		return nil, domain.ErrCustomerInactive
	}

	session := &domain.Session{
		ID:         uuid.NewString(),
		CustomerID: customer.ID,
		ExpiresAt:  time.Now().Add(s.sessionTTL),
		CreatedAt:  time.Now(),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	accessToken, err := s.tokenSvc.GenerateAccessToken(customer.ID, customer.Role, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.tokenSvc.GenerateRefreshToken(customer.ID, customer.Role, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &domain.AuthResult{
		Customer:     customer,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SessionID:    session.ID,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

// Logout implements domain.AuthService
func (s *AuthServiceImpl) Logout(ctx context.Context, sessionID string) error {
	return s.sessionRepo.Delete(ctx, sessionID)
}

// GetCustomer implements domain.AuthService
func (s *AuthServiceImpl) GetCustomer(ctx context.Context, customerID uint) (*domain.Customer, error) {
	return s.customerRepo.FindByID(ctx, customerID)
}

func (s *AuthServiceImpl) findOrCreateCustomer(ctx context.Context, identifier string) (*domain.Customer, error) {
	identifier = strings.TrimSpace(identifier)

	customer, err := s.customerRepo.FindByIdentifier(ctx, identifier)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, domain.ErrCustomerNotFound) {
		return nil, fmt.Errorf("failed to look up customer: %w", err)
	}

	customer = &domain.Customer{
		Role:      "customer",
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if strings.HasPrefix(identifier, "+") {
		customer.Phone = identifier
	} else {
		customer.Email = strings.ToLower(identifier)
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer, nil
}
