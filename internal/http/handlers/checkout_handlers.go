package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/you/checkoutsvc/domain"
)

// CheckoutHandlers exposes the cart state machine over HTTP. Every response
// carries the cart state so clients can render the current step without
// tracking transitions themselves.
type CheckoutHandlers struct {
	checkoutSvc domain.CheckoutService
}

// NewCheckoutHandlers creates new checkout handlers
func NewCheckoutHandlers(checkoutSvc domain.CheckoutService) *CheckoutHandlers {
	return &CheckoutHandlers{checkoutSvc: checkoutSvc}
}

// StartRequest opens a new cart for a ticket
type StartRequest struct {
	TicketID uint  `json:"ticket_id" binding:"required"`
	SellerID *uint `json:"seller_id,omitempty"`
}

// ContactRequest submits the buyer's contact identifier
type ContactRequest struct {
	Identifier string `json:"identifier" binding:"required"`
}

// CodeRequest submits the one-time code
type CodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// CouponRequest applies a discount code
type CouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// ProfileRequest submits the buyer's identity fields
type ProfileRequest struct {
	Name           string `json:"name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	DocumentTypeID uint   `json:"document_type_id" binding:"required"`
	DocumentID     string `json:"document_id" binding:"required"`
	PhonePrefix    string `json:"phone_prefix" binding:"required"`
	Phone          string `json:"phone" binding:"required"`
	Birthdate      string `json:"birthdate" binding:"required"`
}

// TermsRequest records terms acceptance
type TermsRequest struct {
	Accepted bool `json:"accepted"`
}

// Start opens a cart. An authenticated buyer is attached immediately so the
// flow can skip steps they already completed.
func (h *CheckoutHandlers) Start(c *gin.Context) {
	var req StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cart, err := h.checkoutSvc.Start(c.Request.Context(), req.TicketID, customerIDFromContext(c), req.SellerID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": cartResponse(cart)})
}

// Continue advances a cart from the initial step
func (h *CheckoutHandlers) Continue(c *gin.Context) {
	cart, err := h.checkoutSvc.Continue(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cartResponse(cart)})
}

// SubmitContact stores the contact identifier and sends a code
func (h *CheckoutHandlers) SubmitContact(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cart, err := h.checkoutSvc.SubmitContact(c.Request.Context(), c.Param("id"), req.Identifier)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cartResponse(cart)})
}

// SubmitCode verifies the one-time code and attaches the resulting identity
func (h *CheckoutHandlers) SubmitCode(c *gin.Context) {
	var req CodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cart, auth, err := h.checkoutSvc.SubmitCode(c.Request.Context(), c.Param("id"), req.Code)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"cart":          cartResponse(cart),
			"access_token":  auth.AccessToken,
			"refresh_token": auth.RefreshToken,
			"token_type":    "Bearer",
			"expires_in":    auth.ExpiresIn,
		},
	})
}

// Resend issues a fresh code once the cooldown has elapsed
func (h *CheckoutHandlers) Resend(c *gin.Context) {
	cart, err := h.checkoutSvc.Resend(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cartResponse(cart)})
}

// Back steps the cart backwards
func (h *CheckoutHandlers) Back(c *gin.Context) {
	cart, err := h.checkoutSvc.Back(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cartResponse(cart)})
}

// ApplyCoupon attaches a discount code to the cart
func (h *CheckoutHandlers) ApplyCoupon(c *gin.Context) {
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cart, err := h.checkoutSvc.ApplyCoupon(c.Request.Context(), c.Param("id"), req.Code)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cartResponse(cart)})
}

// RemoveCoupon clears the active discount code
func (h *CheckoutHandlers) RemoveCoupon(c *gin.Context) {
	cart, err := h.checkoutSvc.RemoveCoupon(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cartResponse(cart)})
}

// SubmitProfile validates and stores the buyer's identity fields
func (h *CheckoutHandlers) SubmitProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cart, err := h.checkoutSvc.SubmitProfile(c.Request.Context(), c.Param("id"), domain.ProfileInput{
		Name:           req.Name,
		LastName:       req.LastName,
		DocumentTypeID: req.DocumentTypeID,
		DocumentID:     req.DocumentID,
		PhonePrefix:    req.PhonePrefix,
		Phone:          req.Phone,
		Birthdate:      req.Birthdate,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cartResponse(cart)})
}

// AcceptTerms records terms acceptance
func (h *CheckoutHandlers) AcceptTerms(c *gin.Context) {
	var req TermsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cart, err := h.checkoutSvc.AcceptTerms(c.Request.Context(), c.Param("id"), req.Accepted)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cartResponse(cart)})
}

// Quote returns the current price breakdown
func (h *CheckoutHandlers) Quote(c *gin.Context) {
	breakdown, err := h.checkoutSvc.Quote(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": breakdown})
}

// Confirm records the transaction and hands the buyer to the payment gateway
func (h *CheckoutHandlers) Confirm(c *gin.Context) {
	handoff, err := h.checkoutSvc.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": handoff})
}

// renderError maps domain errors to HTTP responses
func (h *CheckoutHandlers) renderError(c *gin.Context, err error) {
	var fieldErr *domain.FieldError
	if errors.As(err, &fieldErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fieldErr.Message, "field": fieldErr.Field})
		return
	}

	switch {
	case errors.Is(err, domain.ErrCartNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
	case errors.Is(err, domain.ErrTicketNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
	case errors.Is(err, domain.ErrInvalidCartTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "Action not available in the current step"})
	case errors.Is(err, domain.ErrIdentifierInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contact identifier"})
	case errors.Is(err, domain.ErrOTPCodeMalformed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code must be six digits"})
	case errors.Is(err, domain.ErrOTPInvalid), errors.Is(err, domain.ErrOTPNotFound), errors.Is(err, domain.ErrOTPExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired code"})
	case errors.Is(err, domain.ErrOTPMaxAttempts):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Maximum attempts exceeded"})
	case errors.Is(err, domain.ErrOTPResendThrottled):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Please wait before requesting another code"})
	case errors.Is(err, domain.ErrCouponInvalid):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Coupon code not recognized"})
	case errors.Is(err, domain.ErrProfileDuplicateDocument):
		c.JSON(http.StatusConflict, gin.H{"error": "Document already registered"})
	case errors.Is(err, domain.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	case errors.Is(err, domain.ErrTermsNotAccepted):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Terms must be accepted"})
	case errors.Is(err, domain.ErrFeeRateUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Pricing unavailable, please retry"})
	case errors.Is(err, domain.ErrTransactionRejected):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not record the purchase, payment not started"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout operation failed"})
	}
}

// cartResponse shapes a cart for API responses
func cartResponse(cart *domain.CartSession) gin.H {
	resp := gin.H{
		"id":             cart.ID,
		"state":          string(cart.State),
		"ticket_id":      cart.TicketID,
		"terms_accepted": cart.TermsAccepted,
		"authenticated":  cart.Authenticated(),
	}
	if cart.Identifier != "" {
		resp["identifier"] = cart.Identifier
	}
	if cart.Coupon != nil {
		resp["coupon"] = cart.Coupon
	}
	return resp
}

// customerIDFromContext reads the authenticated customer set by the auth
// middleware; zero means anonymous.
func customerIDFromContext(c *gin.Context) uint {
	raw, exists := c.Get("customer_id")
	if !exists {
		return 0
	}
	s, ok := raw.(string)
	if !ok {
		return 0
	}
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}
