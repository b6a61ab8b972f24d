package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/you/checkoutsvc/domain"
)

// CheckoutServiceImpl drives a cart through the five-state checkout flow.
// All state lives in the cart session repository; the service itself is
// stateless and safe for concurrent carts.
type CheckoutServiceImpl struct {
	cartRepo   domain.CartSessionRepository
	ticketRepo domain.TicketRepository
	txRepo     domain.TransactionRepository
	authSvc    domain.AuthService
	otpSvc     domain.OTPService
	profileSvc domain.ProfileService
	couponSvc  domain.CouponService
	feeSvc     domain.FeeService
	gateway    domain.PaymentGateway
	audit      domain.AuditLogger
	now        func() time.Time
}

// NewCheckoutService creates the checkout orchestrator
func NewCheckoutService(
	cartRepo domain.CartSessionRepository,
	ticketRepo domain.TicketRepository,
	txRepo domain.TransactionRepository,
	authSvc domain.AuthService,
	otpSvc domain.OTPService,
	profileSvc domain.ProfileService,
	couponSvc domain.CouponService,
	feeSvc domain.FeeService,
	gateway domain.PaymentGateway,
	audit domain.AuditLogger,
) domain.CheckoutService {
	return &CheckoutServiceImpl{
		cartRepo:   cartRepo,
		ticketRepo: ticketRepo,
		txRepo:     txRepo,
		authSvc:    authSvc,
		otpSvc:     otpSvc,
		profileSvc: profileSvc,
		couponSvc:  couponSvc,
		feeSvc:     feeSvc,
		gateway:    gateway,
		audit:      audit,
		now:        time.Now,
	}
}

// Start implements domain.CheckoutService. customerID is zero for anonymous
// buyers. A cart opened by an authenticated customer with an incomplete
// profile moves straight to the profile step, matching the passive
// session-detected transition.
func (s *CheckoutServiceImpl) Start(ctx context.Context, ticketID uint, customerID uint, sellerID *uint) (*domain.CartSession, error) {
	if _, err := s.ticketRepo.FindByID(ctx, ticketID); err != nil {
		return nil, err
	}

	cart := &domain.CartSession{
		ID:                   uuid.NewString(),
		State:                domain.CartStateInitial,
		TicketID:             ticketID,
		CustomerID:           customerID,
		EnteredAuthenticated: customerID != 0,
		SellerID:             sellerID,
		CreatedAt:            s.now(),
		UpdatedAt:            s.now(),
	}

	sessionDetected := false
	if customerID != 0 {
		tc, err := s.transitionContext(ctx, cart)
		if err != nil {
			return nil, err
		}
		next, err := domain.NextState(cart.State, domain.CartEventSessionDetected, tc)
		if err == nil && next != cart.State {
			cart.State = next
			sessionDetected = true
		}
	}

	if err := s.cartRepo.Create(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to create cart session: %w", err)
	}
	if sessionDetected {
		s.logStateChange(ctx, cart, domain.CartEventSessionDetected)
	}
	return cart, nil
}

// Continue implements domain.CheckoutService
func (s *CheckoutServiceImpl) Continue(ctx context.Context, cartID string) (*domain.CartSession, error) {
	return s.applyEvent(ctx, cartID, domain.CartEventContinue)
}

// SubmitContact implements domain.CheckoutService. The cart state and the
// identifier are validated before any collaborator call; the cart only
// advances to the otp state once the send-code collaborator succeeds.
func (s *CheckoutServiceImpl) SubmitContact(ctx context.Context, cartID, identifier string) (*domain.CartSession, error) {
	cart, err := s.cartRepo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart.State != domain.CartStateEmail {
		return nil, domain.ErrInvalidCartTransition
	}

	if err := ValidateIdentifier(identifier); err != nil {
		return nil, err
	}

	if err := s.authSvc.RequestCode(ctx, identifier); err != nil {
		s.logEvent(ctx, domain.NewAuditEvent(domain.OTPRequestEvent, cart.ID).WithError(err))
		return nil, err
	}
	s.logEvent(ctx, domain.NewAuditEvent(domain.OTPRequestEvent, cart.ID))

	tc, err := s.transitionContext(ctx, cart)
	if err != nil {
		return nil, err
	}
	next, err := domain.NextState(cart.State, domain.CartEventCodeSent, tc)
	if err != nil {
		return nil, err
	}

	cart.State = next
	cart.Identifier = identifier
	return s.save(ctx, cart, domain.CartEventCodeSent)
}

// SubmitCode implements domain.CheckoutService. On verification success the
// resulting identity is attached to the cart and the profile completeness
// re-check decides between the profile and summary states.
func (s *CheckoutServiceImpl) SubmitCode(ctx context.Context, cartID, code string) (*domain.CartSession, *domain.AuthResult, error) {
	cart, err := s.cartRepo.FindByID(ctx, cartID)
	if err != nil {
		return nil, nil, err
	}
	if cart.State != domain.CartStateOTP {
		return nil, nil, domain.ErrInvalidCartTransition
	}

	if err := ValidateCode(code); err != nil {
		return nil, nil, err
	}

	result, err := s.authSvc.VerifyCode(ctx, cart.Identifier, code)
	if err != nil {
		s.logEvent(ctx, domain.NewAuditEvent(domain.OTPVerifyFailureEvent, cart.ID).WithError(err))
		return nil, nil, err
	}
	s.logEvent(ctx, domain.NewAuditEvent(domain.OTPVerifyEvent, cart.ID).WithCustomer(result.Customer.ID))

	cart.CustomerID = result.Customer.ID

	tc, err := s.transitionContext(ctx, cart)
	if err != nil {
		return nil, nil, err
	}
	next, err := domain.NextState(cart.State, domain.CartEventVerified, tc)
	if err != nil {
		return nil, nil, err
	}

	cart.State = next
	saved, err := s.save(ctx, cart, domain.CartEventVerified)
	if err != nil {
		return nil, nil, err
	}
	return saved, result, nil
}

// Resend implements domain.CheckoutService. It is rejected while the
// cooldown is running and otherwise issues a fresh code, restarting the
// 60-second window.
func (s *CheckoutServiceImpl) Resend(ctx context.Context, cartID string) (*domain.CartSession, error) {
	cart, err := s.cartRepo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart.State != domain.CartStateOTP || cart.Identifier == "" {
		return nil, domain.ErrInvalidCartTransition
	}

	canResend, _, err := s.otpSvc.CanResend(ctx, cart.Identifier)
	if err != nil {
		return nil, err
	}
	if !canResend {
		return nil, domain.ErrOTPResendThrottled
	}

	if err := s.authSvc.RequestCode(ctx, cart.Identifier); err != nil {
		return nil, err
	}
	s.logEvent(ctx, domain.NewAuditEvent(domain.OTPRequestEvent, cart.ID).WithMetadata("resend", true))

	return cart, nil
}

// Back implements domain.CheckoutService
func (s *CheckoutServiceImpl) Back(ctx context.Context, cartID string) (*domain.CartSession, error) {
	return s.applyEvent(ctx, cartID, domain.CartEventBack)
}

// ApplyCoupon implements domain.CheckoutService. A newly resolved coupon
// replaces any active one.
func (s *CheckoutServiceImpl) ApplyCoupon(ctx context.Context, cartID, code string) (*domain.CartSession, error) {
	cart, err := s.cartRepo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}

	coupon, err := s.couponSvc.Resolve(code)
	if err != nil {
		return nil, err
	}

	cart.Coupon = coupon
	saved, err := s.save(ctx, cart, "")
	if err != nil {
		return nil, err
	}
	s.logEvent(ctx, domain.NewAuditEvent(domain.CouponAppliedEvent, cart.ID).WithMetadata("code", coupon.Code))
	return saved, nil
}

// RemoveCoupon implements domain.CheckoutService
func (s *CheckoutServiceImpl) RemoveCoupon(ctx context.Context, cartID string) (*domain.CartSession, error) {
	cart, err := s.cartRepo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}

	cart.Coupon = nil
	saved, err := s.save(ctx, cart, "")
	if err != nil {
		return nil, err
	}
	s.logEvent(ctx, domain.NewAuditEvent(domain.CouponRemovedEvent, cart.ID))
	return saved, nil
}

// SubmitProfile implements domain.CheckoutService
func (s *CheckoutServiceImpl) SubmitProfile(ctx context.Context, cartID string, input domain.ProfileInput) (*domain.CartSession, error) {
	cart, err := s.cartRepo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart.State != domain.CartStateProfile {
		return nil, domain.ErrInvalidCartTransition
	}
	if !cart.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}

	if _, err := s.profileSvc.Submit(ctx, cart.CustomerID, input); err != nil {
		return nil, err
	}

	tc, err := s.transitionContext(ctx, cart)
	if err != nil {
		return nil, err
	}
	next, err := domain.NextState(cart.State, domain.CartEventProfileSaved, tc)
	if err != nil {
		return nil, err
	}

	cart.State = next
	return s.save(ctx, cart, domain.CartEventProfileSaved)
}

// AcceptTerms implements domain.CheckoutService
func (s *CheckoutServiceImpl) AcceptTerms(ctx context.Context, cartID string, accepted bool) (*domain.CartSession, error) {
	cart, err := s.cartRepo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}

	cart.TermsAccepted = accepted
	return s.save(ctx, cart, "")
}

// Quote implements domain.CheckoutService. A failed fee lookup falls back
// to the platform default so quoting is never blocked.
func (s *CheckoutServiceImpl) Quote(ctx context.Context, cartID string) (*domain.PriceBreakdown, error) {
	cart, err := s.cartRepo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}

	ticket, err := s.ticketRepo.FindByID(ctx, cart.TicketID)
	if err != nil {
		return nil, err
	}

	var feeRate *float64
	if rate, err := s.feeSvc.Rate(ctx, cart.TicketID); err == nil {
		feeRate = &rate
	}

	breakdown := CalculatePrice(ticket.Price, cart.Coupon, feeRate)
	return &breakdown, nil
}

// Confirm implements domain.CheckoutService. The payment gateway is only
// invoked after the transaction record is confirmed created; any failure
// before that point aborts the handoff entirely.
func (s *CheckoutServiceImpl) Confirm(ctx context.Context, cartID string) (*domain.PaymentHandoff, error) {
	cart, err := s.cartRepo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart.State != domain.CartStateSummary {
		return nil, domain.ErrInvalidCartTransition
	}
	if !cart.TermsAccepted {
		return nil, domain.ErrTermsNotAccepted
	}
	if !cart.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}

	ticket, err := s.ticketRepo.FindByID(ctx, cart.TicketID)
	if err != nil {
		return nil, err
	}

	rate, err := s.feeSvc.Rate(ctx, cart.TicketID)
	if err != nil {
		// Unlike quoting, payment never falls back to a default rate
		return nil, domain.ErrFeeRateUnavailable
	}

	breakdown := CalculatePrice(ticket.Price, cart.Coupon, &rate)

	tx := &domain.Transaction{
		ID:         uuid.NewString(),
		OrderID:    fmt.Sprintf("ORDER-%d-%d", cart.CustomerID, s.now().UnixMilli()),
		CustomerID: cart.CustomerID,
		SellerID:   cart.SellerID,
		TicketID:   cart.TicketID,
		UnitPrice:  ticket.Price,
		Fee:        breakdown.ServiceFee,
		Tax:        breakdown.IVA,
		Quantity:   1,
		Total:      breakdown.FinalTotal,
		Status:     domain.TransactionPending,
		CreatedAt:  s.now(),
	}

	if err := s.txRepo.Create(ctx, tx); err != nil {
		s.logEvent(ctx, domain.NewAuditEvent(domain.TransactionFailedEvent, cart.ID).
			WithCustomer(cart.CustomerID).WithOrder(tx.OrderID).WithError(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrTransactionRejected, err)
	}
	s.logEvent(ctx, domain.NewAuditEvent(domain.TransactionCreatedEvent, cart.ID).
		WithCustomer(cart.CustomerID).WithOrder(tx.OrderID).WithMetadata("total", tx.Total))

	customer, err := s.authSvc.GetCustomer(ctx, cart.CustomerID)
	if err != nil {
		return nil, err
	}

	handoff, err := s.gateway.OpenCheckout(ctx, domain.PaymentRequest{
		OrderID:     tx.OrderID,
		Amount:      tx.Total,
		Description: ticket.Name,
		Email:       customer.Email,
	})
	if err != nil {
		// The pending row would otherwise be orphaned; a retry mints a
		// fresh order id.
		if uerr := s.txRepo.UpdateStatus(ctx, tx.OrderID, domain.TransactionFailed); uerr != nil {
			s.logEvent(ctx, domain.NewAuditEvent(domain.TransactionFailedEvent, cart.ID).
				WithCustomer(cart.CustomerID).WithOrder(tx.OrderID).WithError(uerr))
		}
		return nil, err
	}
	s.logEvent(ctx, domain.NewAuditEvent(domain.PaymentInitiatedEvent, cart.ID).
		WithCustomer(cart.CustomerID).WithOrder(tx.OrderID))

	// The cart is done once the buyer is handed to the gateway
	if err := s.cartRepo.Delete(ctx, cart.ID); err != nil {
		return nil, fmt.Errorf("failed to close cart session: %w", err)
	}

	return handoff, nil
}

func (s *CheckoutServiceImpl) applyEvent(ctx context.Context, cartID string, event domain.CartEvent) (*domain.CartSession, error) {
	cart, err := s.cartRepo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}

	tc, err := s.transitionContext(ctx, cart)
	if err != nil {
		return nil, err
	}
	next, err := domain.NextState(cart.State, event, tc)
	if err != nil {
		return nil, err
	}

	cart.State = next
	return s.save(ctx, cart, event)
}

func (s *CheckoutServiceImpl) transitionContext(ctx context.Context, cart *domain.CartSession) (domain.TransitionContext, error) {
	tc := domain.TransitionContext{
		Authenticated:        cart.Authenticated(),
		EnteredAuthenticated: cart.EnteredAuthenticated,
	}
	if tc.Authenticated {
		complete, err := s.profileSvc.IsComplete(ctx, cart.CustomerID)
		if err != nil {
			return tc, err
		}
		tc.ProfileComplete = complete
	}
	return tc, nil
}

func (s *CheckoutServiceImpl) save(ctx context.Context, cart *domain.CartSession, event domain.CartEvent) (*domain.CartSession, error) {
	cart.UpdatedAt = s.now()
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to save cart session: %w", err)
	}
	if event != "" {
		s.logStateChange(ctx, cart, event)
	}
	return cart, nil
}

func (s *CheckoutServiceImpl) logStateChange(ctx context.Context, cart *domain.CartSession, event domain.CartEvent) {
	s.logEvent(ctx, domain.NewAuditEvent(domain.CartStateChangedEvent, cart.ID).
		WithCustomer(cart.CustomerID).
		WithMetadata("state", string(cart.State)).
		WithMetadata("event", string(event)))
}

func (s *CheckoutServiceImpl) logEvent(ctx context.Context, event *domain.AuditEvent) {
	if s.audit != nil {
		s.audit.LogEvent(ctx, event)
	}
}
