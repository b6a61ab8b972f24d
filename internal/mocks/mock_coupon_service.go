package mocks

import (
	"strings"

	"github.com/you/checkoutsvc/domain"
)

// MockCouponService implements domain.CouponService for testing
type MockCouponService struct {
	ResolveFunc func(code string) (*domain.Coupon, error)

	Coupons map[string]int
}

// NewMockCouponService creates a new MockCouponService with one known code
func NewMockCouponService() *MockCouponService {
	return &MockCouponService{
		Coupons: map[string]int{"DESCUENTO10": 10},
	}
}

// Resolve delegates to ResolveFunc when set
func (m *MockCouponService) Resolve(code string) (*domain.Coupon, error) {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(code)
	}

	normalized := strings.ToUpper(strings.TrimSpace(code))
	discount, ok := m.Coupons[normalized]
	if !ok {
		return nil, domain.ErrCouponInvalid
	}
	return &domain.Coupon{Code: normalized, Discount: discount}, nil
}

// Compile-time interface compliance verification
var _ domain.CouponService = (*MockCouponService)(nil)
