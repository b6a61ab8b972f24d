package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/you/checkoutsvc/domain"
	"github.com/you/checkoutsvc/internal/mocks"
)

type checkoutFixture struct {
	cartRepo   *mocks.MockCartSessionRepository
	ticketRepo *mocks.MockTicketRepository
	txRepo     *mocks.MockTransactionRepository
	authSvc    *mocks.MockAuthService
	otpSvc     *mocks.MockOTPService
	profileSvc *mocks.MockProfileService
	couponSvc  *mocks.MockCouponService
	feeSvc     *mocks.MockFeeService
	gateway    *mocks.MockPaymentGateway
	audit      *mocks.MockAuditLogger
	svc        domain.CheckoutService
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		cartRepo:   mocks.NewMockCartSessionRepository(),
		ticketRepo: mocks.NewMockTicketRepository(),
		txRepo:     mocks.NewMockTransactionRepository(),
		authSvc:    mocks.NewMockAuthService(),
		otpSvc:     mocks.NewMockOTPService(),
		profileSvc: mocks.NewMockProfileService(),
		couponSvc:  mocks.NewMockCouponService(),
		feeSvc:     mocks.NewMockFeeService(),
		gateway:    mocks.NewMockPaymentGateway(),
		audit:      mocks.NewMockAuditLogger(),
	}
	f.svc = NewCheckoutService(
		f.cartRepo, f.ticketRepo, f.txRepo,
		f.authSvc, f.otpSvc, f.profileSvc,
		f.couponSvc, f.feeSvc, f.gateway, f.audit,
	)
	return f
}

// seedCart stores a cart directly so individual steps can be tested in
// isolation
func (f *checkoutFixture) seedCart(t *testing.T, cart *domain.CartSession) *domain.CartSession {
	t.Helper()
	if cart.ID == "" {
		cart.ID = "cart-1"
	}
	if cart.TicketID == 0 {
		cart.TicketID = 1
	}
	cart.CreatedAt = time.Now()
	cart.UpdatedAt = time.Now()
	if err := f.cartRepo.Create(context.Background(), cart); err != nil {
		t.Fatalf("seedCart: %v", err)
	}
	return cart
}

func TestCheckoutService_Start(t *testing.T) {
	t.Run("anonymous buyer lands in initial", func(t *testing.T) {
		f := newCheckoutFixture()

		cart, err := f.svc.Start(context.Background(), 1, 0, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cart.State != domain.CartStateInitial {
			t.Errorf("expected initial state, got %s", cart.State)
		}
		if cart.EnteredAuthenticated {
			t.Error("anonymous cart must not be marked entered-authenticated")
		}
		if cart.ID == "" {
			t.Error("expected a generated cart id")
		}
	})

	t.Run("authenticated buyer with incomplete profile skips to profile", func(t *testing.T) {
		f := newCheckoutFixture()
		f.profileSvc.IsCompleteFunc = func(ctx context.Context, customerID uint) (bool, error) {
			return false, nil
		}

		cart, err := f.svc.Start(context.Background(), 1, 7, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cart.State != domain.CartStateProfile {
			t.Errorf("expected profile state, got %s", cart.State)
		}
		if !cart.EnteredAuthenticated {
			t.Error("expected cart to be marked entered-authenticated")
		}
	})

	t.Run("authenticated buyer with complete profile stays in initial", func(t *testing.T) {
		f := newCheckoutFixture()
		f.profileSvc.IsCompleteFunc = func(ctx context.Context, customerID uint) (bool, error) {
			return true, nil
		}

		cart, err := f.svc.Start(context.Background(), 1, 7, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cart.State != domain.CartStateInitial {
			t.Errorf("expected initial state, got %s", cart.State)
		}
	})

	t.Run("state change is only audited when a session was detected", func(t *testing.T) {
		f := newCheckoutFixture()
		if _, err := f.svc.Start(context.Background(), 1, 0, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n := len(f.audit.EventsOfType(domain.CartStateChangedEvent)); n != 0 {
			t.Errorf("anonymous start must not audit a state change, got %d", n)
		}

		f = newCheckoutFixture()
		f.profileSvc.IsCompleteFunc = func(ctx context.Context, customerID uint) (bool, error) {
			return false, nil
		}
		if _, err := f.svc.Start(context.Background(), 1, 7, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n := len(f.audit.EventsOfType(domain.CartStateChangedEvent)); n != 1 {
			t.Errorf("expected one audited state change for the detected session, got %d", n)
		}
	})

	t.Run("unknown ticket is rejected", func(t *testing.T) {
		f := newCheckoutFixture()

		_, err := f.svc.Start(context.Background(), 999, 0, nil)
		if !errors.Is(err, domain.ErrTicketNotFound) {
			t.Errorf("expected ErrTicketNotFound, got %v", err)
		}
	})
}

func TestCheckoutService_Continue(t *testing.T) {
	t.Run("anonymous continue moves to email", func(t *testing.T) {
		f := newCheckoutFixture()
		cart := f.seedCart(t, &domain.CartSession{State: domain.CartStateInitial})

		updated, err := f.svc.Continue(context.Background(), cart.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.State != domain.CartStateEmail {
			t.Errorf("expected email state, got %s", updated.State)
		}
	})

	t.Run("authenticated continue with complete profile moves to summary", func(t *testing.T) {
		f := newCheckoutFixture()
		f.profileSvc.IsCompleteFunc = func(ctx context.Context, customerID uint) (bool, error) {
			return true, nil
		}
		cart := f.seedCart(t, &domain.CartSession{State: domain.CartStateInitial, CustomerID: 7})

		updated, err := f.svc.Continue(context.Background(), cart.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.State != domain.CartStateSummary {
			t.Errorf("expected summary state, got %s", updated.State)
		}
	})

	t.Run("unknown cart", func(t *testing.T) {
		f := newCheckoutFixture()

		_, err := f.svc.Continue(context.Background(), "missing")
		if !errors.Is(err, domain.ErrCartNotFound) {
			t.Errorf("expected ErrCartNotFound, got %v", err)
		}
	})
}

func TestCheckoutService_SubmitContact(t *testing.T) {
	t.Run("valid email advances to otp and stores the identifier", func(t *testing.T) {
		f := newCheckoutFixture()
		cart := f.seedCart(t, &domain.CartSession{State: domain.CartStateEmail})

		updated, err := f.svc.SubmitContact(context.Background(), cart.ID, "ana@example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.State != domain.CartStateOTP {
			t.Errorf("expected otp state, got %s", updated.State)
		}
		if updated.Identifier != "ana@example.com" {
			t.Errorf("expected identifier stored, got %q", updated.Identifier)
		}
		if len(f.authSvc.RequestCodeCalls) != 1 {
			t.Fatalf("expected one code request, got %d", len(f.authSvc.RequestCodeCalls))
		}
	})

	t.Run("invalid identifier never reaches the code sender", func(t *testing.T) {
		f := newCheckoutFixture()
		cart := f.seedCart(t, &domain.CartSession{State: domain.CartStateEmail})

		_, err := f.svc.SubmitContact(context.Background(), cart.ID, "not-an-email")
		if !errors.Is(err, domain.ErrIdentifierInvalid) {
			t.Errorf("expected ErrIdentifierInvalid, got %v", err)
		}
		if len(f.authSvc.RequestCodeCalls) != 0 {
			t.Errorf("expected no code requests, got %d", len(f.authSvc.RequestCodeCalls))
		}
	})

	t.Run("wrong state never reaches the code sender", func(t *testing.T) {
		for _, state := range []domain.CartState{domain.CartStateInitial, domain.CartStateSummary} {
			f := newCheckoutFixture()
			cart := f.seedCart(t, &domain.CartSession{State: state})

			_, err := f.svc.SubmitContact(context.Background(), cart.ID, "ana@example.com")
			if !errors.Is(err, domain.ErrInvalidCartTransition) {
				t.Errorf("state %s: expected ErrInvalidCartTransition, got %v", state, err)
			}
			if len(f.authSvc.RequestCodeCalls) != 0 {
				t.Errorf("state %s: expected no code requests, got %d",
					state, len(f.authSvc.RequestCodeCalls))
			}
		}
	})

	t.Run("send failure keeps the cart in email", func(t *testing.T) {
		f := newCheckoutFixture()
		cart := f.seedCart(t, &domain.CartSession{State: domain.CartStateEmail})
		f.authSvc.RequestCodeFunc = func(ctx context.Context, identifier string) error {
			return errors.New("delivery down")
		}

		_, err := f.svc.SubmitContact(context.Background(), cart.ID, "ana@example.com")
		if err == nil {
			t.Fatal("expected an error")
		}
		stored, _ := f.cartRepo.FindByID(context.Background(), cart.ID)
		if stored.State != domain.CartStateEmail {
			t.Errorf("cart should remain in email, got %s", stored.State)
		}
	})
}

func TestCheckoutService_SubmitCode(t *testing.T) {
	t.Run("valid code attaches identity and moves to profile", func(t *testing.T) {
		f := newCheckoutFixture()
		cart := f.seedCart(t, &domain.CartSession{State: domain.CartStateOTP, Identifier: "ana@example.com"})

		updated, result, err := f.svc.SubmitCode(context.Background(), cart.ID, "123456")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.State != domain.CartStateProfile {
			t.Errorf("expected profile state, got %s", updated.State)
		}
		if updated.CustomerID != 1 {
			t.Errorf("expected customer 1 attached, got %d", updated.CustomerID)
		}
		if result == nil || result.AccessToken == "" {
			t.Error("expected auth tokens in the result")
		}
	})

	t.Run("valid code with complete profile moves to summary", func(t *testing.T) {
		f := newCheckoutFixture()
		f.profileSvc.IsCompleteFunc = func(ctx context.Context, customerID uint) (bool, error) {
			return true, nil
		}
		cart := f.seedCart(t, &domain.CartSession{State: domain.CartStateOTP, Identifier: "ana@example.com"})

		updated, _, err := f.svc.SubmitCode(context.Background(), cart.ID, "123456")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.State != domain.CartStateSummary {
			t.Errorf("expected summary state, got %s", updated.State)
		}
	})

	t.Run("malformed code is rejected without a verify attempt", func(t *testing.T) {
		f := newCheckoutFixture()
		cart := f.seedCart(t, &domain.CartSession{State: domain.CartStateOTP, Identifier: "ana@example.com"})
		verifyCalled := false
		f.authSvc.VerifyCodeFunc = func(ctx context.Context, identifier, code string) (*domain.AuthResult, error) {
			verifyCalled = true
			return nil, domain.ErrOTPInvalid
		}

		_, _, err := f.svc.SubmitCode(context.Background(), cart.ID, "12345")
		if !errors.Is(err, domain.ErrOTPCodeMalformed) {
			t.Errorf("expected ErrOTPCodeMalformed, got %v", err)
		}
		if verifyCalled {
			t.Error("malformed code must not reach the verifier")
		}
	})

	t.Run("wrong code keeps the cart in otp", func(t *testing.T) {
		f := newCheckoutFixture()
		cart := f.seedCart(t, &domain.CartSession{State: domain.CartStateOTP, Identifier: "ana@example.com"})

		_, _, err := f.svc.SubmitCode(context.Background(), cart.ID, "654321")
		if !errors.Is(err, domain.ErrOTPInvalid) {
			t.Errorf("expected ErrOTPInvalid, got %v", err)
		}
		stored, _ := f.cartRepo.FindByID(context.Background(), cart.ID)
		if stored.State != domain.CartStateOTP {
			t.Errorf("cart should remain in otp, got %s", stored.State)
		}
	})

	t.Run("code submitted outside the otp state", func(t *testing.T) {
		f := newCheckoutFixture()
		cart := f.seedCart(t, &domain.CartSession{State: domain.CartStateEmail})

		_, _, err := f.svc.SubmitCode(context.Background(), cart.ID, "123456")
		if !errors.Is(err, domain.ErrInvalidCartTransition) {
			t.Errorf("expected ErrInvalidCartTransition, got %v", err)
		}
	})
}

func TestCheckoutService_Resend(t *testing.T) {
	t.Run("throttled resend is a no-op", func(t *testing.T) {
		f := newCheckoutFixture()
		cart := f.seedCart(t, &domain.CartSession{State: domain.CartStateOTP, Identifier: "ana@example.com"})
		f.otpSvc.CanResendFunc = func(ctx context.Context, identifier string) (bool, int64, error) {
			return false, 42, nil
		}

		_, err := f.svc.Resend(context.Background(), cart.ID)
		if !errors.Is(err, domain.ErrOTPResendThrottled) {
			t.Errorf("expected ErrOTPResendThrottled, got %v", err)
		}
		if len(f.authSvc.RequestCodeCalls) != 0 {
			t.Errorf("throttled resend must not send a code, got %d calls", len(f.authSvc.RequestCodeCalls))
		}
	})

	t.Run("resend after cooldown issues a fresh code", func(t *testing.T) {
		f := newCheckoutFixture()
		cart := f.seedCart(t, &domain.CartSession{State: domain.CartStateOTP, Identifier: "ana@example.com"})

		_, err := f.svc.Resend(context.Background(), cart.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(f.authSvc.RequestCodeCalls) != 1 {
			t.Fatalf("expected one code request, got %d", len(f.authSvc.RequestCodeCalls))
		}
	})

	t.Run("resend outside the otp state", func(t *testing.T) {
		f := newCheckoutFixture()
		cart := f.seedCart(t, &domain.CartSession{State: domain.CartStateEmail})

		_, err := f.svc.Resend(context.Background(), cart.ID)
		if !errors.Is(err, domain.ErrInvalidCartTransition) {
			t.Errorf("expected ErrInvalidCartTransition, got %v", err)
		}
	})
}

func TestCheckoutService_Back(t *testing.T) {
	tests := []struct {
		name            string
		cart            domain.CartSession
		profileComplete bool
		want            domain.CartState
	}{
		{
			name: "email back to initial",
			cart: domain.CartSession{State: domain.CartStateEmail},
			want: domain.CartStateInitial,
		},
		{
			name: "otp back to email",
			cart: domain.CartSession{State: domain.CartStateOTP, Identifier: "ana@example.com"},
			want: domain.CartStateEmail,
		},
		{
			name: "profile back to otp after otp entry",
			cart: domain.CartSession{State: domain.CartStateProfile, CustomerID: 1},
			want: domain.CartStateOTP,
		},
		{
			name: "profile back to initial for pre-authenticated entry",
			cart: domain.CartSession{State: domain.CartStateProfile, CustomerID: 1, EnteredAuthenticated: true},
			want: domain.CartStateInitial,
		},
		{
			name: "summary back to email after otp entry",
			cart: domain.CartSession{State: domain.CartStateSummary, CustomerID: 1},
			want: domain.CartStateEmail,
		},
		{
			name: "summary back to initial for pre-authenticated entry",
			cart: domain.CartSession{State: domain.CartStateSummary, CustomerID: 1, EnteredAuthenticated: true},
			want: domain.CartStateInitial,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCheckoutFixture()
			f.profileSvc.IsCompleteFunc = func(ctx context.Context, customerID uint) (bool, error) {
				return tt.profileComplete, nil
			}
			cart := tt.cart
			seeded := f.seedCart(t, &cart)

			updated, err := f.svc.Back(context.Background(), seeded.ID)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if updated.State != tt.want {
				t.Errorf("expected %s, got %s", tt.want, updated.State)
			}
		})
	}

	t.Run("back from initial is invalid", func(t *testing.T) {
		f := newCheckoutFixture()
		cart := f.seedCart(t, &domain.CartSession{State: domain.CartStateInitial})

		_, err := f.svc.Back(context.Background(), cart.ID)
		if !errors.Is(err, domain.ErrInvalidCartTransition) {
			t.Errorf("expected ErrInvalidCartTransition, got %v", err)
		}
	})
}

func TestCheckoutService_Coupons(t *testing.T) {
	t.Run("valid coupon is attached uppercased", func(t *testing.T) {
		f := newCheckoutFixture()
		cart := f.seedCart(t, &domain.CartSession{State: domain.CartStateSummary, CustomerID: 1})

		updated, err := f.svc.ApplyCoupon(context.Background(), cart.ID, "descuento10")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.Coupon == nil || updated.Coupon.Code != "DESCUENTO10" {
			t.Errorf("expected DESCUENTO10 attached, got %+v", updated.Coupon)
		}
	})

	t.Run("unknown coupon leaves the cart untouched", func(t *testing.T) {
		f := newCheckoutFixture()
		cart := f.seedCart(t, &domain.CartSession{State: domain.CartStateSummary, CustomerID: 1})

		_, err := f.svc.ApplyCoupon(context.Background(), cart.ID, "NOPE")
		if !errors.Is(err, domain.ErrCouponInvalid) {
			t.Errorf("expected ErrCouponInvalid, got %v", err)
		}
		stored, _ := f.cartRepo.FindByID(context.Background(), cart.ID)
		if stored.Coupon != nil {
			t.Errorf("expected no coupon, got %+v", stored.Coupon)
		}
	})

	t.Run("remove clears the active coupon", func(t *testing.T) {
		f := newCheckoutFixture()
		cart := f.seedCart(t, &domain.CartSession{
			State:      domain.CartStateSummary,
			CustomerID: 1,
			Coupon:     &domain.Coupon{Code: "DESCUENTO10", Discount: 10},
		})

		updated, err := f.svc.RemoveCoupon(context.Background(), cart.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.Coupon != nil {
			t.Errorf("expected coupon cleared, got %+v", updated.Coupon)
		}
	})
}

func TestCheckoutService_SubmitProfile(t *testing.T) {
	input := domain.ProfileInput{
		Name:           "Ana",
		LastName:       "García",
		DocumentTypeID: domain.DocumentTypeCedula,
		DocumentID:     "1234567",
		PhonePrefix:    "+57",
		Phone:          "3001234567",
		Birthdate:      "1995-04-12",
	}

	t.Run("saved profile moves the cart to summary", func(t *testing.T) {
		f := newCheckoutFixture()
		cart := f.seedCart(t, &domain.CartSession{State: domain.CartStateProfile, CustomerID: 1})

		updated, err := f.svc.SubmitProfile(context.Background(), cart.ID, input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.State != domain.CartStateSummary {
			t.Errorf("expected summary state, got %s", updated.State)
		}
		if len(f.profileSvc.SubmitCalls) != 1 || f.profileSvc.SubmitCalls[0] != 1 {
			t.Errorf("expected profile submitted for customer 1, got %v", f.profileSvc.SubmitCalls)
		}
	})

	t.Run("validation failure keeps the cart in profile", func(t *testing.T) {
		f := newCheckoutFixture()
		cart := f.seedCart(t, &domain.CartSession{State: domain.CartStateProfile, CustomerID: 1})
		f.profileSvc.SubmitFunc = func(ctx context.Context, customerID uint, in domain.ProfileInput) (*domain.ProfileRecord, error) {
			return nil, domain.NewFieldError("name", "name must have at least 2 characters")
		}

		_, err := f.svc.SubmitProfile(context.Background(), cart.ID, input)
		var fieldErr *domain.FieldError
		if !errors.As(err, &fieldErr) {
			t.Fatalf("expected a field error, got %v", err)
		}
		stored, _ := f.cartRepo.FindByID(context.Background(), cart.ID)
		if stored.State != domain.CartStateProfile {
			t.Errorf("cart should remain in profile, got %s", stored.State)
		}
	})

	t.Run("anonymous cart cannot submit a profile", func(t *testing.T) {
		f := newCheckoutFixture()
		cart := f.seedCart(t, &domain.CartSession{State: domain.CartStateProfile})

		_, err := f.svc.SubmitProfile(context.Background(), cart.ID, input)
		if !errors.Is(err, domain.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("profile submitted outside the profile state", func(t *testing.T) {
		f := newCheckoutFixture()
		cart := f.seedCart(t, &domain.CartSession{State: domain.CartStateSummary, CustomerID: 1})

		_, err := f.svc.SubmitProfile(context.Background(), cart.ID, input)
		if !errors.Is(err, domain.ErrInvalidCartTransition) {
			t.Errorf("expected ErrInvalidCartTransition, got %v", err)
		}
	})
}

func TestCheckoutService_Quote(t *testing.T) {
	t.Run("quote without coupon", func(t *testing.T) {
		f := newCheckoutFixture()
		cart := f.seedCart(t, &domain.CartSession{State: domain.CartStateSummary, CustomerID: 1})

		breakdown, err := f.svc.Quote(context.Background(), cart.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if breakdown.FinalTotal != 119040 {
			t.Errorf("expected total 119040, got %d", breakdown.FinalTotal)
		}
	})

	t.Run("quote with coupon", func(t *testing.T) {
		f := newCheckoutFixture()
		cart := f.seedCart(t, &domain.CartSession{
			State:      domain.CartStateSummary,
			CustomerID: 1,
			Coupon:     &domain.Coupon{Code: "DESCUENTO10", Discount: 10},
		})

		breakdown, err := f.svc.Quote(context.Background(), cart.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if breakdown.FinalTotal != 107136 {
			t.Errorf("expected total 107136, got %d", breakdown.FinalTotal)
		}
	})

	t.Run("fee lookup failure falls back to the default rate", func(t *testing.T) {
		f := newCheckoutFixture()
		f.feeSvc.RateFunc = func(ctx context.Context, ticketID uint) (float64, error) {
			return 0, errors.New("catalog down")
		}
		cart := f.seedCart(t, &domain.CartSession{State: domain.CartStateSummary, CustomerID: 1})

		breakdown, err := f.svc.Quote(context.Background(), cart.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if breakdown.FinalTotal != 119040 {
			t.Errorf("expected default-rate total 119040, got %d", breakdown.FinalTotal)
		}
	})
}

func TestCheckoutService_Confirm(t *testing.T) {
	readyCart := func() *domain.CartSession {
		return &domain.CartSession{
			State:         domain.CartStateSummary,
			CustomerID:    1,
			TermsAccepted: true,
		}
	}

	t.Run("successful confirm records the transaction before the handoff", func(t *testing.T) {
		f := newCheckoutFixture()
		cart := f.seedCart(t, readyCart())

		handoff, err := f.svc.Confirm(context.Background(), cart.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if handoff.CheckoutURL == "" {
			t.Error("expected a checkout url")
		}

		if len(f.txRepo.Created) != 1 {
			t.Fatalf("expected one transaction, got %d", len(f.txRepo.Created))
		}
		tx := f.txRepo.Created[0]
		if tx.Status != domain.TransactionPending {
			t.Errorf("expected pending status, got %s", tx.Status)
		}
		if tx.Total != 119040 {
			t.Errorf("expected total 119040, got %d", tx.Total)
		}
		if tx.Quantity != 1 {
			t.Errorf("expected quantity 1, got %d", tx.Quantity)
		}

		if len(f.gateway.OpenCheckoutCalls) != 1 {
			t.Fatalf("expected one gateway call, got %d", len(f.gateway.OpenCheckoutCalls))
		}
		if f.gateway.OpenCheckoutCalls[0].OrderID != tx.OrderID {
			t.Errorf("gateway order %s does not match transaction order %s",
				f.gateway.OpenCheckoutCalls[0].OrderID, tx.OrderID)
		}
		if f.gateway.OpenCheckoutCalls[0].Amount != tx.Total {
			t.Errorf("gateway amount %d does not match transaction total %d",
				f.gateway.OpenCheckoutCalls[0].Amount, tx.Total)
		}

		if _, err := f.cartRepo.FindByID(context.Background(), cart.ID); !errors.Is(err, domain.ErrCartNotFound) {
			t.Error("expected cart deleted after the handoff")
		}
	})

	t.Run("rejected transaction never opens the gateway", func(t *testing.T) {
		f := newCheckoutFixture()
		cart := f.seedCart(t, readyCart())
		f.txRepo.CreateFunc = func(ctx context.Context, tx *domain.Transaction) error {
			return errors.New("insert failed")
		}

		_, err := f.svc.Confirm(context.Background(), cart.ID)
		if !errors.Is(err, domain.ErrTransactionRejected) {
			t.Errorf("expected ErrTransactionRejected, got %v", err)
		}
		if len(f.gateway.OpenCheckoutCalls) != 0 {
			t.Fatalf("gateway must not open after a failed transaction, got %d calls",
				len(f.gateway.OpenCheckoutCalls))
		}
	})

	t.Run("gateway failure marks the recorded transaction failed", func(t *testing.T) {
		f := newCheckoutFixture()
		cart := f.seedCart(t, readyCart())
		f.gateway.OpenCheckoutFunc = func(ctx context.Context, req domain.PaymentRequest) (*domain.PaymentHandoff, error) {
			return nil, errors.New("gateway down")
		}

		_, err := f.svc.Confirm(context.Background(), cart.ID)
		if err == nil {
			t.Fatal("expected an error")
		}
		if len(f.txRepo.Created) != 1 {
			t.Fatalf("expected one transaction, got %d", len(f.txRepo.Created))
		}
		if got := f.txRepo.Created[0].Status; got != domain.TransactionFailed {
			t.Errorf("expected failed status, got %s", got)
		}
	})

	t.Run("unresolved fee rate blocks payment entirely", func(t *testing.T) {
		f := newCheckoutFixture()
		cart := f.seedCart(t, readyCart())
		f.feeSvc.RateFunc = func(ctx context.Context, ticketID uint) (float64, error) {
			return 0, errors.New("catalog down")
		}

		_, err := f.svc.Confirm(context.Background(), cart.ID)
		if !errors.Is(err, domain.ErrFeeRateUnavailable) {
			t.Errorf("expected ErrFeeRateUnavailable, got %v", err)
		}
		if len(f.txRepo.Created) != 0 {
			t.Error("no transaction must be recorded without a fee rate")
		}
		if len(f.gateway.OpenCheckoutCalls) != 0 {
			t.Error("gateway must not open without a fee rate")
		}
	})

	t.Run("confirm outside the summary state", func(t *testing.T) {
		f := newCheckoutFixture()
		cart := f.seedCart(t, &domain.CartSession{State: domain.CartStateProfile, CustomerID: 1, TermsAccepted: true})

		_, err := f.svc.Confirm(context.Background(), cart.ID)
		if !errors.Is(err, domain.ErrInvalidCartTransition) {
			t.Errorf("expected ErrInvalidCartTransition, got %v", err)
		}
	})

	t.Run("confirm without accepted terms", func(t *testing.T) {
		f := newCheckoutFixture()
		cart := readyCart()
		cart.TermsAccepted = false
		f.seedCart(t, cart)

		_, err := f.svc.Confirm(context.Background(), cart.ID)
		if !errors.Is(err, domain.ErrTermsNotAccepted) {
			t.Errorf("expected ErrTermsNotAccepted, got %v", err)
		}
		if len(f.gateway.OpenCheckoutCalls) != 0 {
			t.Error("gateway must not open without accepted terms")
		}
	})

	t.Run("confirm without an authenticated customer", func(t *testing.T) {
		f := newCheckoutFixture()
		cart := f.seedCart(t, &domain.CartSession{State: domain.CartStateSummary, TermsAccepted: true})

		_, err := f.svc.Confirm(context.Background(), cart.ID)
		if !errors.Is(err, domain.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}
