package services

import (
	"math"

	"github.com/you/checkoutsvc/domain"
)

// Platform-wide pricing constants. The fee rate is only a fallback for
// display quotes; Confirm requires a resolved per-event rate.
const (
	DefaultFeeRate = 0.16
	IVARate        = 0.19
)

// CalculatePrice computes the full price breakdown for a cart. It is pure:
// same inputs always yield the same breakdown. A nil feeRate falls back to
// DefaultFeeRate so quoting is never blocked on a slow fee lookup. The
// final total is rounded with ceiling so a fractional peso is never
// under-charged.
func CalculatePrice(basePrice float64, coupon *domain.Coupon, feeRate *float64) domain.PriceBreakdown {
	if basePrice <= 0 {
		return domain.PriceBreakdown{}
	}

	rate := DefaultFeeRate
	if feeRate != nil {
		rate = *feeRate
	}

	var discountAmount float64
	if coupon != nil {
		discountAmount = basePrice * float64(coupon.Discount) / 100
	}

	afterDiscount := basePrice - discountAmount
	serviceFee := afterDiscount * rate
	iva := serviceFee * IVARate
	total := int64(math.Ceil(afterDiscount + serviceFee + iva))
	if total < 0 {
		total = 0
	}

	return domain.PriceBreakdown{
		BasePrice:          basePrice,
		DiscountAmount:     discountAmount,
		PriceAfterDiscount: afterDiscount,
		ServiceFee:         serviceFee,
		IVA:                iva,
		FinalTotal:         total,
	}
}
