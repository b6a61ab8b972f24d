package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/you/checkoutsvc/domain"
	"github.com/you/checkoutsvc/internal/mocks"
)

func setupCheckoutRouter(svc domain.CheckoutService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewCheckoutHandlers(svc)

	r := gin.New()
	r.POST("/checkout", h.Start)
	r.GET("/checkout/:id/quote", h.Quote)
	r.POST("/checkout/:id/continue", h.Continue)
	r.POST("/checkout/:id/contact", h.SubmitContact)
	r.POST("/checkout/:id/code", h.SubmitCode)
	r.POST("/checkout/:id/resend", h.Resend)
	r.POST("/checkout/:id/back", h.Back)
	r.POST("/checkout/:id/coupon", h.ApplyCoupon)
	r.DELETE("/checkout/:id/coupon", h.RemoveCoupon)
	r.POST("/checkout/:id/profile", h.SubmitProfile)
	r.POST("/checkout/:id/terms", h.AcceptTerms)
	r.POST("/checkout/:id/confirm", h.Confirm)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestCheckoutHandlers_Start(t *testing.T) {
	svc := mocks.NewMockCheckoutService()
	r := setupCheckoutRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/checkout", gin.H{"ticket_id": 1})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	data := decodeBody(t, w)["data"].(map[string]any)
	if data["state"] != "initial" {
		t.Errorf("expected initial state, got %v", data["state"])
	}
	if len(svc.StartCalls) != 1 || svc.StartCalls[0] != 1 {
		t.Errorf("expected one start call for ticket 1, got %v", svc.StartCalls)
	}
}

func TestCheckoutHandlers_StartMissingTicket(t *testing.T) {
	svc := mocks.NewMockCheckoutService()
	r := setupCheckoutRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/checkout", gin.H{})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if len(svc.StartCalls) != 0 {
		t.Errorf("service should not be called on a malformed request")
	}
}

func TestCheckoutHandlers_StartUnknownTicket(t *testing.T) {
	svc := mocks.NewMockCheckoutService()
	svc.StartFunc = func(ctx context.Context, ticketID, customerID uint, sellerID *uint) (*domain.CartSession, error) {
		return nil, domain.ErrTicketNotFound
	}
	r := setupCheckoutRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/checkout", gin.H{"ticket_id": 99})

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestCheckoutHandlers_SubmitContact(t *testing.T) {
	svc := mocks.NewMockCheckoutService()
	r := setupCheckoutRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/checkout/cart-1/contact", gin.H{"identifier": "ana@example.com"})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := decodeBody(t, w)["data"].(map[string]any)
	if data["state"] != "otp" {
		t.Errorf("expected otp state, got %v", data["state"])
	}
}

func TestCheckoutHandlers_SubmitContactInvalidIdentifier(t *testing.T) {
	svc := mocks.NewMockCheckoutService()
	svc.SubmitContactFunc = func(ctx context.Context, cartID, identifier string) (*domain.CartSession, error) {
		return nil, domain.ErrIdentifierInvalid
	}
	r := setupCheckoutRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/checkout/cart-1/contact", gin.H{"identifier": "not-a-contact"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCheckoutHandlers_SubmitCode(t *testing.T) {
	svc := mocks.NewMockCheckoutService()
	r := setupCheckoutRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/checkout/cart-1/code", gin.H{"code": "123456"})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := decodeBody(t, w)["data"].(map[string]any)
	if data["access_token"] != "access-token" {
		t.Errorf("expected access token in response, got %v", data["access_token"])
	}
	cart := data["cart"].(map[string]any)
	if cart["state"] != "profile" {
		t.Errorf("expected profile state, got %v", cart["state"])
	}
}

func TestCheckoutHandlers_SubmitCodeWrongState(t *testing.T) {
	svc := mocks.NewMockCheckoutService()
	svc.SubmitCodeFunc = func(ctx context.Context, cartID, code string) (*domain.CartSession, *domain.AuthResult, error) {
		return nil, nil, domain.ErrInvalidCartTransition
	}
	r := setupCheckoutRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/checkout/cart-1/code", gin.H{"code": "123456"})

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestCheckoutHandlers_ResendThrottled(t *testing.T) {
	svc := mocks.NewMockCheckoutService()
	svc.ResendFunc = func(ctx context.Context, cartID string) (*domain.CartSession, error) {
		return nil, domain.ErrOTPResendThrottled
	}
	r := setupCheckoutRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/checkout/cart-1/resend", nil)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
}

func TestCheckoutHandlers_ApplyCouponInvalid(t *testing.T) {
	svc := mocks.NewMockCheckoutService()
	svc.ApplyCouponFunc = func(ctx context.Context, cartID, code string) (*domain.CartSession, error) {
		return nil, domain.ErrCouponInvalid
	}
	r := setupCheckoutRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/checkout/cart-1/coupon", gin.H{"code": "NOPE"})

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
}

func TestCheckoutHandlers_SubmitProfileFieldError(t *testing.T) {
	svc := mocks.NewMockCheckoutService()
	svc.SubmitProfileFunc = func(ctx context.Context, cartID string, input domain.ProfileInput) (*domain.CartSession, error) {
		return nil, domain.NewFieldError("phone", "phone must contain 7 to 15 digits")
	}
	r := setupCheckoutRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/checkout/cart-1/profile", gin.H{
		"name":             "Ana",
		"last_name":        "Gomez",
		"document_type_id": 1,
		"document_id":      "1234567",
		"phone_prefix":     "+57",
		"phone":            "30",
		"birthdate":        "1990-05-10",
	})

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["field"] != "phone" {
		t.Errorf("expected field phone in error, got %v", body["field"])
	}
}

func TestCheckoutHandlers_Quote(t *testing.T) {
	svc := mocks.NewMockCheckoutService()
	r := setupCheckoutRouter(svc)

	w := doJSON(t, r, http.MethodGet, "/checkout/cart-1/quote", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := decodeBody(t, w)["data"].(map[string]any)
	if data["final_total"] != float64(119040) {
		t.Errorf("expected final total 119040, got %v", data["final_total"])
	}
}

func TestCheckoutHandlers_QuoteCartNotFound(t *testing.T) {
	svc := mocks.NewMockCheckoutService()
	svc.QuoteFunc = func(ctx context.Context, cartID string) (*domain.PriceBreakdown, error) {
		return nil, domain.ErrCartNotFound
	}
	r := setupCheckoutRouter(svc)

	w := doJSON(t, r, http.MethodGet, "/checkout/missing/quote", nil)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestCheckoutHandlers_Confirm(t *testing.T) {
	svc := mocks.NewMockCheckoutService()
	r := setupCheckoutRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/checkout/cart-1/confirm", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := decodeBody(t, w)["data"].(map[string]any)
	if data["checkout_url"] != "https://checkout.example/pref-1" {
		t.Errorf("expected checkout url, got %v", data["checkout_url"])
	}
}

func TestCheckoutHandlers_ConfirmErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"rejected transaction", domain.ErrTransactionRejected, http.StatusBadGateway},
		{"fee unavailable", domain.ErrFeeRateUnavailable, http.StatusServiceUnavailable},
		{"terms not accepted", domain.ErrTermsNotAccepted, http.StatusUnprocessableEntity},
		{"not authenticated", domain.ErrNotAuthenticated, http.StatusUnauthorized},
		{"wrong state", domain.ErrInvalidCartTransition, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockCheckoutService()
			svc.ConfirmFunc = func(ctx context.Context, cartID string) (*domain.PaymentHandoff, error) {
				return nil, tt.err
			}
			r := setupCheckoutRouter(svc)

			w := doJSON(t, r, http.MethodPost, "/checkout/cart-1/confirm", nil)

			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestCheckoutHandlers_BackAndRemoveCoupon(t *testing.T) {
	svc := mocks.NewMockCheckoutService()
	r := setupCheckoutRouter(svc)

	if w := doJSON(t, r, http.MethodPost, "/checkout/cart-1/back", nil); w.Code != http.StatusOK {
		t.Errorf("back: expected 200, got %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodDelete, "/checkout/cart-1/coupon", nil); w.Code != http.StatusOK {
		t.Errorf("remove coupon: expected 200, got %d", w.Code)
	}
}
