package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestFieldError(t *testing.T) {
	fe := NewFieldError("document_id", "must be alphanumeric")
	if fe.Error() != "document_id: must be alphanumeric" {
		t.Errorf("unexpected message: %q", fe.Error())
	}

	wrapped := fmt.Errorf("submit profile: %w", fe)
	got, ok := AsFieldError(wrapped)
	if !ok {
		t.Fatal("expected wrapped FieldError to unwrap")
	}
	if got.Field != "document_id" {
		t.Errorf("unexpected field: %q", got.Field)
	}

	if _, ok := AsFieldError(errors.New("plain")); ok {
		t.Error("plain error must not unwrap to FieldError")
	}
}

func TestSentinelErrorsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrCartNotFound,
		ErrInvalidCartTransition,
		ErrTermsNotAccepted,
		ErrNotAuthenticated,
		ErrFeeRateUnavailable,
		ErrOTPInvalid,
		ErrOTPMaxAttempts,
		ErrOTPResendThrottled,
		ErrCouponInvalid,
		ErrProfileDuplicateDocument,
		ErrTransactionRejected,
	}
	seen := map[string]bool{}
	for _, err := range sentinels {
		if seen[err.Error()] {
			t.Errorf("duplicate sentinel message: %q", err.Error())
		}
		seen[err.Error()] = true
	}
}
