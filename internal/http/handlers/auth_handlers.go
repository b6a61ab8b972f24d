package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/you/checkoutsvc/domain"
)

// AuthHandlers handles authentication HTTP requests using clean architecture
type AuthHandlers struct {
	authSvc     domain.AuthService
	tokenSvc    domain.TokenService
	sessionRepo domain.SessionRepository
	accessTTL   int64
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService, tokenSvc domain.TokenService, sessionRepo domain.SessionRepository, accessTTL int64) *AuthHandlers {
	return &AuthHandlers{
		authSvc:     authSvc,
		tokenSvc:    tokenSvc,
		sessionRepo: sessionRepo,
		accessTTL:   accessTTL,
	}
}

// RefreshRequest represents token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh exchanges a refresh token for a new access token. The backing
// session must still be alive in Redis.
func (h *AuthHandlers) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, err := h.tokenSvc.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	if _, err := h.sessionRepo.FindByID(c.Request.Context(), claims.SessionID); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
		return
	}

	accessToken, err := h.tokenSvc.GenerateAccessToken(claims.CustomerID, claims.Role, claims.SessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"access_token": accessToken,
			"token_type":   "Bearer",
			"expires_in":   h.accessTTL,
		},
	})
}

// Me returns the authenticated customer
func (h *AuthHandlers) Me(c *gin.Context) {
	customerIDStr, exists := c.Get("customer_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	customerID, err := strconv.ParseUint(customerIDStr.(string), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer identifier"})
		return
	}

	customer, err := h.authSvc.GetCustomer(c.Request.Context(), uint(customerID))
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lookup failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"id":        customer.ID,
			"email":     customer.Email,
			"phone":     customer.Phone,
			"role":      customer.Role,
			"is_active": customer.IsActive,
		},
	})
}

// Logout revokes the current session
func (h *AuthHandlers) Logout(c *gin.Context) {
	sessionID, exists := c.Get("session_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), sessionID.(string)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "Logged out"}})
}
