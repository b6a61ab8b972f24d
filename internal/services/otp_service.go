package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/you/checkoutsvc/domain"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	codePattern  = regexp.MustCompile(`^[0-9]{6}$`)
)

const maxIdentifierLength = 100

// ValidateIdentifier checks a contact identifier before any code is sent.
// Phone identifiers start with "+"; anything else must look like an email.
func ValidateIdentifier(identifier string) error {
	id := strings.TrimSpace(identifier)
	if id == "" || len(id) > maxIdentifierLength {
		return domain.ErrIdentifierInvalid
	}
	if strings.HasPrefix(id, "+") {
		return nil
	}
	if !emailPattern.MatchString(id) {
		return domain.ErrIdentifierInvalid
	}
	return nil
}

// ValidateCode checks the submitted code is exactly six digits. Callers must
// reject malformed codes locally instead of spending a verify attempt.
func ValidateCode(code string) error {
	if !codePattern.MatchString(code) {
		return domain.ErrOTPCodeMalformed
	}
	return nil
}

// OTPServiceImpl implements domain.OTPService using Redis persistence
type OTPServiceImpl struct {
	notificationSvc domain.NotificationService
	redisClient     *redis.Client
	config          OTPConfig
}

type OTPConfig struct {
	Length       int
	TTL          time.Duration
	MaxAttempts  int
	ResendWindow time.Duration
}

// NewOTPService creates a new Redis-based OTP service
func NewOTPService(notificationSvc domain.NotificationService, redisClient *redis.Client, config OTPConfig) domain.OTPService {
	return &OTPServiceImpl{
		notificationSvc: notificationSvc,
		redisClient:     redisClient,
		config:          config,
	}
}

// Generate implements domain.OTPService. The identifier is an email address
// or a phone number in international format.
func (s *OTPServiceImpl) Generate(ctx context.Context, identifier string) (*domain.OTPRequest, error) {
	if err := ValidateIdentifier(identifier); err != nil {
		return nil, err
	}
	identifier = strings.TrimSpace(identifier)

	otpKey := fmt.Sprintf("otp:%s", identifier)
	resendKey := fmt.Sprintf("otp:res:%s", identifier)
	attemptsKey := fmt.Sprintf("otp:att:%s", identifier)

	if canResend, _, err := s.CanResend(ctx, identifier); err != nil {
		return nil, err
	} else if !canResend {
		return nil, domain.ErrOTPResendThrottled
	}

	code, err := s.generateSecureCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP code: %w", err)
	}

	if err := s.redisClient.Set(ctx, otpKey, code, s.config.TTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to store OTP in Redis: %w", err)
	}

	if err := s.redisClient.Set(ctx, attemptsKey, 0, s.config.TTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to initialize attempts counter: %w", err)
	}

	if err := s.redisClient.Set(ctx, resendKey, 1, s.config.ResendWindow).Err(); err != nil {
		return nil, fmt.Errorf("failed to set resend throttle: %w", err)
	}

	otpReq := &domain.OTPRequest{
		Identifier: identifier,
		Code:       code,
		ExpiresAt:  time.Now().Add(s.config.TTL),
		Attempts:   0,
	}

	if err := s.deliver(identifier, code); err != nil {
		// Clean up Redis entries if delivery fails
		s.redisClient.Del(ctx, otpKey, attemptsKey, resendKey)
		return nil, fmt.Errorf("failed to deliver OTP: %w", err)
	}

	return otpReq, nil
}

// Verify implements domain.OTPService. On success the stored code and
// attempt counter are cleared; on mismatch the code stays so the customer
// can correct a typo without requesting a new one.
func (s *OTPServiceImpl) Verify(ctx context.Context, identifier, code string) (bool, error) {
	if err := ValidateCode(code); err != nil {
		return false, err
	}
	identifier = strings.TrimSpace(identifier)

	otpKey := fmt.Sprintf("otp:%s", identifier)
	attemptsKey := fmt.Sprintf("otp:att:%s", identifier)

	attempts, err := s.redisClient.Incr(ctx, attemptsKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment attempts: %w", err)
	}

	if attempts > int64(s.config.MaxAttempts) {
		s.redisClient.Del(ctx, otpKey, attemptsKey)
		return false, domain.ErrOTPMaxAttempts
	}

	storedCode, err := s.redisClient.Get(ctx, otpKey).Result()
	if err == redis.Nil {
		return false, domain.ErrOTPNotFound
	}
	if err != nil {
		return false, fmt.Errorf("failed to get OTP from Redis: %w", err)
	}

	if storedCode != code {
		return false, domain.ErrOTPInvalid
	}

	s.redisClient.Del(ctx, otpKey, attemptsKey)

	return true, nil
}

// CanResend implements domain.OTPService with Redis-based throttling
func (s *OTPServiceImpl) CanResend(ctx context.Context, identifier string) (bool, int64, error) {
	resendKey := fmt.Sprintf("otp:res:%s", strings.TrimSpace(identifier))

	ttl, err := s.redisClient.TTL(ctx, resendKey).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to check resend TTL: %w", err)
	}

	// If TTL <= 0, key doesn't exist or has expired - can resend
	if ttl <= 0 {
		return true, 0, nil
	}

	return false, int64(ttl.Seconds()), nil
}

func (s *OTPServiceImpl) deliver(identifier, code string) error {
	message := fmt.Sprintf("Your verification code is: %s. Valid for %d minutes.", code, int(s.config.TTL.Minutes()))
	if strings.HasPrefix(identifier, "+") {
		return s.notificationSvc.SendSMS(identifier, message)
	}
	return s.notificationSvc.SendEmail(identifier, "Your verification code", message)
}

// generateSecureCode generates a cryptographically secure OTP code
func (s *OTPServiceImpl) generateSecureCode() (string, error) {
	digits := make([]byte, s.config.Length)

	for i := 0; i < s.config.Length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + num.Int64())
	}

	return string(digits), nil
}
