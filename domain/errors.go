package domain

import "errors"

// Cart errors
var (
	ErrCartNotFound          = errors.New("cart session not found")
	ErrInvalidCartTransition = errors.New("invalid cart transition")
	ErrTermsNotAccepted      = errors.New("terms must be accepted")
	ErrNotAuthenticated      = errors.New("authenticated identity required")
	ErrFeeRateUnavailable    = errors.New("fee rate not available")
)

// Customer errors
var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrCustomerInactive = errors.New("customer account is inactive")
)

// OTP errors
var (
	ErrOTPExpired         = errors.New("otp has expired")
	ErrOTPInvalid         = errors.New("invalid otp code")
	ErrOTPMaxAttempts     = errors.New("maximum otp attempts exceeded")
	ErrOTPNotFound        = errors.New("otp not found")
	ErrOTPResendThrottled = errors.New("otp resend cooldown active")
	ErrIdentifierInvalid  = errors.New("invalid contact identifier")
	ErrOTPCodeMalformed   = errors.New("otp code must be six digits")
)

// Coupon errors
var (
	ErrCouponInvalid = errors.New("coupon code not recognized")
)

// Profile errors. Save failures are typed so the HTTP layer can choose a
// user-facing message without sniffing error text.
var (
	ErrProfileNotFound          = errors.New("profile not found")
	ErrProfileDuplicateDocument = errors.New("document already registered")
	ErrProfileStoreUnavailable  = errors.New("profile store unavailable")
)

// Ticket errors
var (
	ErrTicketNotFound = errors.New("ticket type not found")
)

// Transaction errors
var (
	ErrTransactionRejected  = errors.New("transaction creation rejected")
	ErrDuplicateOrder       = errors.New("order id already recorded")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrPaymentNotConfigured = errors.New("payment gateway not configured")
)

// Token errors
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed token")
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")
)

// FieldError is a profile validation failure tied to a single input field.
// Validation runs in order and the first failure wins.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// NewFieldError builds a validation failure for a field
func NewFieldError(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}

// AsFieldError unwraps err to a *FieldError when possible
func AsFieldError(err error) (*FieldError, bool) {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
