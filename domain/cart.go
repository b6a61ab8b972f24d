package domain

import "time"

// CartState is the current step of a checkout cart. Exactly one state is
// active at a time and transitions only happen through NextState.
type CartState string

const (
	CartStateInitial CartState = "initial"
	CartStateEmail   CartState = "email"
	CartStateOTP     CartState = "otp"
	CartStateProfile CartState = "profile"
	CartStateSummary CartState = "summary"
)

// CartEvent drives the cart through its transition table
type CartEvent string

const (
	// CartEventContinue is the buyer's initial continue action
	CartEventContinue CartEvent = "continue"
	// CartEventSessionDetected fires when an authenticated session is
	// observed on a cart still sitting in the initial state
	CartEventSessionDetected CartEvent = "session_detected"
	// CartEventCodeSent fires after the send-code collaborator succeeds
	CartEventCodeSent CartEvent = "code_sent"
	// CartEventVerified fires after OTP verification succeeds
	CartEventVerified CartEvent = "verified"
	// CartEventProfileSaved fires after the profile upsert succeeds
	CartEventProfileSaved CartEvent = "profile_saved"
	// CartEventBack is the buyer's back action
	CartEventBack CartEvent = "back"
)

// TransitionContext carries the external facts a transition may depend on
type TransitionContext struct {
	// Authenticated reports whether an authenticated identity is
	// currently attached to the cart.
	Authenticated bool
	// ProfileComplete reports whether the authenticated customer's
	// profile has all required fields.
	ProfileComplete bool
	// EnteredAuthenticated reports whether the cart was opened by an
	// already-authenticated customer. Back edges from profile and
	// summary depend on how the buyer got there.
	EnteredAuthenticated bool
}

// NextState applies the checkout transition table. It returns
// ErrInvalidCartTransition for any (state, event) pair outside the table;
// there is deliberately no direct path from initial to otp.
func NextState(state CartState, event CartEvent, tc TransitionContext) (CartState, error) {
	switch state {
	case CartStateInitial:
		switch event {
		case CartEventContinue:
			if !tc.Authenticated {
				return CartStateEmail, nil
			}
			if tc.ProfileComplete {
				return CartStateSummary, nil
			}
			return CartStateProfile, nil
		case CartEventSessionDetected:
			if tc.Authenticated && !tc.ProfileComplete {
				return CartStateProfile, nil
			}
			return CartStateInitial, nil
		}
	case CartStateEmail:
		switch event {
		case CartEventCodeSent:
			return CartStateOTP, nil
		case CartEventBack:
			return CartStateInitial, nil
		}
	case CartStateOTP:
		switch event {
		case CartEventVerified:
			if tc.ProfileComplete {
				return CartStateSummary, nil
			}
			return CartStateProfile, nil
		case CartEventBack:
			return CartStateEmail, nil
		}
	case CartStateProfile:
		switch event {
		case CartEventProfileSaved:
			return CartStateSummary, nil
		case CartEventBack:
			if tc.EnteredAuthenticated {
				return CartStateInitial, nil
			}
			return CartStateOTP, nil
		}
	case CartStateSummary:
		if event == CartEventBack {
			if tc.EnteredAuthenticated {
				return CartStateInitial, nil
			}
			return CartStateEmail, nil
		}
	}
	return state, ErrInvalidCartTransition
}

// CartSession is a persisted checkout cart. It lives in Redis for the
// duration of the flow and is deleted after the payment handoff.
type CartSession struct {
	ID                   string    `json:"id"`
	State                CartState `json:"state"`
	TicketID             uint      `json:"ticket_id"`
	Identifier           string    `json:"identifier,omitempty"`
	CustomerID           uint      `json:"customer_id,omitempty"`
	EnteredAuthenticated bool      `json:"entered_authenticated"`
	Coupon               *Coupon   `json:"coupon,omitempty"`
	SellerID             *uint     `json:"seller_id,omitempty"`
	TermsAccepted        bool      `json:"terms_accepted"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// Authenticated reports whether an identity is attached to the cart
func (s *CartSession) Authenticated() bool {
	return s.CustomerID != 0
}
