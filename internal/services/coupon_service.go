package services

import (
	"strings"

	"github.com/you/checkoutsvc/domain"
)

// CouponServiceImpl resolves discount codes against a fixed table loaded
// from configuration. Codes are matched case-insensitively.
type CouponServiceImpl struct {
	codes map[string]int
}

// NewCouponService creates a coupon service over the given code table.
// Table keys are expected upper-cased (config normalizes them).
func NewCouponService(codes map[string]int) domain.CouponService {
	return &CouponServiceImpl{codes: codes}
}

// Resolve implements domain.CouponService
func (s *CouponServiceImpl) Resolve(code string) (*domain.Coupon, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return nil, domain.ErrCouponInvalid
	}

	discount, ok := s.codes[normalized]
	if !ok {
		return nil, domain.ErrCouponInvalid
	}
	if discount < 0 || discount > 100 {
		return nil, domain.ErrCouponInvalid
	}

	return &domain.Coupon{Code: normalized, Discount: discount}, nil
}
