package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/you/checkoutsvc/domain"
)

var (
	alphanumericPattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	digitsPattern       = regexp.MustCompile(`^[0-9]+$`)
)

// documentLengthBounds maps document types to allowed id lengths.
// Unknown types only require the minimum.
var documentLengthBounds = map[uint]struct{ min, max int }{
	domain.DocumentTypeCedula:      {6, 10},
	domain.DocumentTypeExtranjeria: {6, 12},
	domain.DocumentTypePassport:    {6, 15},
}

const (
	minNameLength       = 2
	minPhoneDigits      = 7
	maxPhoneDigits      = 15
	domesticPhoneDigits = 10
	minAge              = 12
	maxAge              = 120
	birthdateLayout     = "2006-01-02"
)

// ProfileServiceImpl implements domain.ProfileService
type ProfileServiceImpl struct {
	profileRepo    domain.ProfileRepository
	domesticPrefix string
	now            func() time.Time
}

// NewProfileService creates a profile service. domesticPrefix is the country
// prefix whose numbers must be exactly ten digits.
func NewProfileService(profileRepo domain.ProfileRepository, domesticPrefix string) *ProfileServiceImpl {
	return &ProfileServiceImpl{
		profileRepo:    profileRepo,
		domesticPrefix: domesticPrefix,
		now:            time.Now,
	}
}

// Submit implements domain.ProfileService. Rules run in order and the first
// failure wins; nothing is persisted unless every rule passes.
func (s *ProfileServiceImpl) Submit(ctx context.Context, customerID uint, input domain.ProfileInput) (*domain.ProfileRecord, error) {
	name := strings.TrimSpace(input.Name)
	if len(name) < minNameLength {
		return nil, domain.NewFieldError("name", "must be at least 2 characters")
	}

	lastName := strings.TrimSpace(input.LastName)
	if len(lastName) < minNameLength {
		return nil, domain.NewFieldError("last_name", "must be at least 2 characters")
	}

	documentID := strings.TrimSpace(input.DocumentID)
	if documentID == "" {
		return nil, domain.NewFieldError("document_id", "is required")
	}
	if !alphanumericPattern.MatchString(documentID) {
		return nil, domain.NewFieldError("document_id", "must be alphanumeric")
	}
	min, max := documentBounds(input.DocumentTypeID)
	if len(documentID) < min || (max > 0 && len(documentID) > max) {
		return nil, domain.NewFieldError("document_id", documentLengthMessage(input.DocumentTypeID))
	}

	phone := strings.TrimSpace(input.Phone)
	if phone == "" {
		return nil, domain.NewFieldError("phone", "is required")
	}
	if !digitsPattern.MatchString(phone) {
		return nil, domain.NewFieldError("phone", "must contain digits only")
	}
	if len(phone) < minPhoneDigits || len(phone) > maxPhoneDigits {
		return nil, domain.NewFieldError("phone", "must be 7 to 15 digits")
	}
	if input.PhonePrefix == s.domesticPrefix && len(phone) != domesticPhoneDigits {
		return nil, domain.NewFieldError("phone", "domestic numbers must be exactly 10 digits")
	}

	birthdate, err := time.Parse(birthdateLayout, strings.TrimSpace(input.Birthdate))
	if err != nil {
		return nil, domain.NewFieldError("birthdate", "must be a valid date (YYYY-MM-DD)")
	}
	age := ageAt(birthdate, s.now())
	if age < minAge {
		return nil, domain.NewFieldError("birthdate", "you must be at least 12 years old")
	}
	if age > maxAge {
		return nil, domain.NewFieldError("birthdate", "age exceeds the accepted range")
	}

	profile := &domain.ProfileRecord{
		CustomerID:     customerID,
		Name:           name,
		LastName:       lastName,
		DocumentTypeID: input.DocumentTypeID,
		DocumentID:     documentID,
		Phone:          input.PhonePrefix + phone,
		Birthdate:      birthdate,
	}

	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		// Keep the typed kinds visible to handlers
		if errors.Is(err, domain.ErrProfileDuplicateDocument) || errors.Is(err, domain.ErrProfileStoreUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	return profile, nil
}

// IsComplete implements domain.ProfileService. A missing profile is simply
// incomplete, not an error.
func (s *ProfileServiceImpl) IsComplete(ctx context.Context, customerID uint) (bool, error) {
	profile, err := s.profileRepo.FindByCustomerID(ctx, customerID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return false, nil
		}
		return false, err
	}
	return profile.IsComplete(), nil
}

func documentBounds(documentTypeID uint) (int, int) {
	if bounds, ok := documentLengthBounds[documentTypeID]; ok {
		return bounds.min, bounds.max
	}
	return 6, 0
}

func documentLengthMessage(documentTypeID uint) string {
	min, max := documentBounds(documentTypeID)
	if max == 0 {
		return fmt.Sprintf("must be at least %d characters", min)
	}
	return fmt.Sprintf("must be %d to %d characters", min, max)
}

// ageAt computes full years elapsed, accounting for month and day
func ageAt(birthdate, now time.Time) int {
	age := now.Year() - birthdate.Year()
	if now.Month() < birthdate.Month() ||
		(now.Month() == birthdate.Month() && now.Day() < birthdate.Day()) {
		age--
	}
	return age
}
