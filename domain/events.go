package domain

import (
	"context"
	"time"
)

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// Checkout flow events
	CartStateChangedEvent AuditEventType = "CART_STATE_CHANGED"
	CouponAppliedEvent    AuditEventType = "COUPON_APPLIED"
	CouponRemovedEvent    AuditEventType = "COUPON_REMOVED"

	// OTP events
	OTPRequestEvent       AuditEventType = "OTP_REQUESTED"
	OTPVerifyEvent        AuditEventType = "OTP_VERIFIED"
	OTPVerifyFailureEvent AuditEventType = "OTP_VERIFICATION_FAILED"

	// Payment events
	TransactionCreatedEvent AuditEventType = "TRANSACTION_CREATED"
	TransactionFailedEvent  AuditEventType = "TRANSACTION_FAILED"
	PaymentInitiatedEvent   AuditEventType = "PAYMENT_INITIATED"
)

// AuditEvent represents a business event that occurred in the checkout flow
type AuditEvent struct {
	EventType  AuditEventType         `json:"event_type"`
	CartID     string                 `json:"cart_id,omitempty"`
	CustomerID uint                   `json:"customer_id,omitempty"`
	OrderID    string                 `json:"order_id,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	ErrorMsg   string                 `json:"error_msg,omitempty"`
	Success    bool                   `json:"success"`
}

// AuditLogger defines operations for audit logging
type AuditLogger interface {
	LogEvent(ctx context.Context, event *AuditEvent)
}

// NewAuditEvent creates a new audit event with common fields populated
func NewAuditEvent(eventType AuditEventType, cartID string) *AuditEvent {
	return &AuditEvent{
		EventType: eventType,
		CartID:    cartID,
		Timestamp: time.Now().UTC(),
		Metadata:  make(map[string]interface{}),
		Success:   true,
	}
}

// WithError sets error information on the audit event
func (e *AuditEvent) WithError(err error) *AuditEvent {
	e.Success = false
	if err != nil {
		e.ErrorMsg = err.Error()
	}
	return e
}

// WithCustomer sets the customer field
func (e *AuditEvent) WithCustomer(customerID uint) *AuditEvent {
	e.CustomerID = customerID
	return e
}

// WithOrder sets the order field
func (e *AuditEvent) WithOrder(orderID string) *AuditEvent {
	e.OrderID = orderID
	return e
}

// WithMetadata adds metadata to the event
func (e *AuditEvent) WithMetadata(key string, value interface{}) *AuditEvent {
	e.Metadata[key] = value
	return e
}
