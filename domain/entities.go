package domain

import (
	"strings"
	"time"
)

// Customer represents an authenticated buyer identity
type Customer struct {
	ID        uint
	Email     string
	Phone     string
	Role      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Document type identifiers used by profile validation
const (
	DocumentTypeCedula      uint = 1
	DocumentTypeExtranjeria uint = 2
	DocumentTypePassport    uint = 3
)

// ProfileRecord holds the identity fields a customer must complete before checkout
type ProfileRecord struct {
	CustomerID     uint
	Name           string
	LastName       string
	DocumentTypeID uint
	DocumentID     string
	Phone          string
	Birthdate      time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsComplete reports whether all required profile fields are present.
// A cart only skips the profile step when this returns true.
func (p *ProfileRecord) IsComplete() bool {
	if p == nil {
		return false
	}
	return strings.TrimSpace(p.Name) != "" &&
		strings.TrimSpace(p.LastName) != "" &&
		strings.TrimSpace(p.Phone) != "" &&
		p.DocumentTypeID != 0 &&
		strings.TrimSpace(p.DocumentID) != "" &&
		!p.Birthdate.IsZero()
}

// TicketType represents a purchasable ticket tier for an event
type TicketType struct {
	ID           uint
	EventID      uint
	Name         string
	Price        float64
	Capacity     int
	Description  string
	SectionColor string
	// FeeRate is the per-event service-fee rate, nil when the event
	// has no override and the platform default applies.
	FeeRate   *float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Coupon is a resolved discount code
type Coupon struct {
	Code     string `json:"code"`
	Discount int    `json:"discount"`
}

// PriceBreakdown is the derived pricing for a cart, recomputed from its
// inputs and never stored
type PriceBreakdown struct {
	BasePrice          float64 `json:"base_price"`
	DiscountAmount     float64 `json:"discount_amount"`
	PriceAfterDiscount float64 `json:"price_after_discount"`
	ServiceFee         float64 `json:"service_fee"`
	IVA                float64 `json:"iva"`
	FinalTotal         int64   `json:"final_total"`
}

// OTPRequest represents a generated one-time code pending verification
type OTPRequest struct {
	Identifier string
	Code       string
	ExpiresAt  time.Time
	Attempts   int
}

// AuthResult represents the outcome of a successful OTP verification
type AuthResult struct {
	Customer     *Customer
	AccessToken  string
	RefreshToken string
	SessionID    string
	ExpiresIn    int64
}

// Session represents an authenticated customer session
type Session struct {
	ID         string
	CustomerID uint
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// TokenClaims represents JWT token claims
type TokenClaims struct {
	CustomerID uint   `json:"customer_id"`
	Role       string `json:"role"`
	SessionID  string `json:"session_id,omitempty"`
	IssuedAt   int64  `json:"iat"`
	ExpiresAt  int64  `json:"exp"`
}

// TransactionStatus tracks a transaction through the payment handoff
type TransactionStatus string

const (
	TransactionPending  TransactionStatus = "pending"
	TransactionApproved TransactionStatus = "approved"
	TransactionFailed   TransactionStatus = "failed"
)

// TransactionRequest carries everything needed to record a pending
// transaction before the payment gateway is invoked
type TransactionRequest struct {
	OrderID    string
	CustomerID uint
	SellerID   *uint
	TicketID   uint
	UnitPrice  float64
	Fee        float64
	Tax        float64
	Quantity   int
	Total      int64
}

// Transaction is a recorded purchase attempt
type Transaction struct {
	ID         string
	OrderID    string
	CustomerID uint
	SellerID   *uint
	TicketID   uint
	UnitPrice  float64
	Fee        float64
	Tax        float64
	Quantity   int
	Total      int64
	Status     TransactionStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TransactionFilter narrows admin transaction listings
type TransactionFilter struct {
	TicketID uint
	Status   TransactionStatus
	Limit    int
	Offset   int
}

// PaymentRequest is handed to the payment gateway after a transaction
// record is confirmed created
type PaymentRequest struct {
	OrderID     string
	Amount      int64
	Description string
	Email       string
	Name        string
	LastName    string
}

// PaymentHandoff is the gateway's checkout handle returned to the client
type PaymentHandoff struct {
	PreferenceID string `json:"preference_id"`
	CheckoutURL  string `json:"checkout_url"`
}
