package domain

import "context"

// CustomerRepository defines customer data access operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *Customer) error
	FindByIdentifier(ctx context.Context, identifier string) (*Customer, error)
	FindByID(ctx context.Context, id uint) (*Customer, error)
	Update(ctx context.Context, customer *Customer) error
}

// ProfileRepository defines profile persistence operations
type ProfileRepository interface {
	Upsert(ctx context.Context, profile *ProfileRecord) error
	FindByCustomerID(ctx context.Context, customerID uint) (*ProfileRecord, error)
}

// TicketRepository defines ticket catalog access
type TicketRepository interface {
	FindByID(ctx context.Context, id uint) (*TicketType, error)
}

// TransactionRepository defines transaction persistence operations
type TransactionRepository interface {
	Create(ctx context.Context, tx *Transaction) error
	FindByOrderID(ctx context.Context, orderID string) (*Transaction, error)
	UpdateStatus(ctx context.Context, orderID string, status TransactionStatus) error
	List(ctx context.Context, filter TransactionFilter) ([]*Transaction, error)
}

// CartSessionRepository defines cart session persistence operations
type CartSessionRepository interface {
	Create(ctx context.Context, cart *CartSession) error
	FindByID(ctx context.Context, cartID string) (*CartSession, error)
	Save(ctx context.Context, cart *CartSession) error
	Delete(ctx context.Context, cartID string) error
}

// SessionRepository defines auth session data access operations
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	FindByID(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}

// OTPService defines one-time code operations keyed by contact identifier
type OTPService interface {
	Generate(ctx context.Context, identifier string) (*OTPRequest, error)
	Verify(ctx context.Context, identifier, code string) (bool, error)
	CanResend(ctx context.Context, identifier string) (bool, int64, error)
}

// AuthService defines the passwordless authentication flow
type AuthService interface {
	RequestCode(ctx context.Context, identifier string) error
	VerifyCode(ctx context.Context, identifier, code string) (*AuthResult, error)
	Logout(ctx context.Context, sessionID string) error
	GetCustomer(ctx context.Context, customerID uint) (*Customer, error)
}

// ProfileService defines profile validation and persistence
type ProfileService interface {
	Submit(ctx context.Context, customerID uint, input ProfileInput) (*ProfileRecord, error)
	IsComplete(ctx context.Context, customerID uint) (bool, error)
}

// ProfileInput carries raw profile fields prior to validation
type ProfileInput struct {
	Name           string
	LastName       string
	DocumentTypeID uint
	DocumentID     string
	PhonePrefix    string
	Phone          string
	Birthdate      string
}

// CouponService resolves discount codes
type CouponService interface {
	Resolve(code string) (*Coupon, error)
}

// FeeService yields the applicable service-fee rate for a ticket
type FeeService interface {
	Rate(ctx context.Context, ticketID uint) (float64, error)
}

// TokenService defines token operations
type TokenService interface {
	GenerateAccessToken(customerID uint, role string, sessionID string) (string, error)
	GenerateRefreshToken(customerID uint, role string, sessionID string) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
	ValidateRefreshToken(token string) (*TokenClaims, error)
}

// NotificationService defines code delivery operations
type NotificationService interface {
	SendSMS(to, message string) error
	SendEmail(to, subject, body string) error
}

// PaymentGateway opens a hosted checkout for a confirmed transaction.
// Implementations must only be called after the transaction record exists.
type PaymentGateway interface {
	OpenCheckout(ctx context.Context, req PaymentRequest) (*PaymentHandoff, error)
}

// PolicyService defines authorization policy operations
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() [][]string
}

// CasbinEnforcer is the subset of the Casbin enforcer the service uses
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}

// CheckoutService orchestrates the cart state machine
type CheckoutService interface {
	Start(ctx context.Context, ticketID uint, customerID uint, sellerID *uint) (*CartSession, error)
	Continue(ctx context.Context, cartID string) (*CartSession, error)
	SubmitContact(ctx context.Context, cartID, identifier string) (*CartSession, error)
	SubmitCode(ctx context.Context, cartID, code string) (*CartSession, *AuthResult, error)
	Resend(ctx context.Context, cartID string) (*CartSession, error)
	Back(ctx context.Context, cartID string) (*CartSession, error)
	ApplyCoupon(ctx context.Context, cartID, code string) (*CartSession, error)
	RemoveCoupon(ctx context.Context, cartID string) (*CartSession, error)
	SubmitProfile(ctx context.Context, cartID string, input ProfileInput) (*CartSession, error)
	AcceptTerms(ctx context.Context, cartID string, accepted bool) (*CartSession, error)
	Quote(ctx context.Context, cartID string) (*PriceBreakdown, error)
	Confirm(ctx context.Context, cartID string) (*PaymentHandoff, error)
}
