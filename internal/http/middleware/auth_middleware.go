package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/you/checkoutsvc/domain"
)

// AuthMiddleware creates authentication middleware
func AuthMiddleware(tokenSvc domain.TokenService, sessionRepo domain.SessionRepository) gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		claims, ok := authenticate(c, tokenSvc, sessionRepo)
		if !ok {
			return
		}
		attachIdentity(c, claims)
		c.Next()
	})
}

// OptionalAuthMiddleware attaches the customer identity when the request
// carries a valid token and continues anonymously otherwise. Invalid or
// expired tokens are treated as anonymous, not rejected.
func OptionalAuthMiddleware(tokenSvc domain.TokenService, sessionRepo domain.SessionRepository) gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		tokenParts := strings.SplitN(authHeader, " ", 2)
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.Next()
			return
		}

		claims, err := tokenSvc.ValidateAccessToken(tokenParts[1])
		if err != nil {
			c.Next()
			return
		}

		if claims.SessionID != "" {
			session, err := sessionRepo.FindByID(c.Request.Context(), claims.SessionID)
			if err != nil || session == nil || session.CustomerID != claims.CustomerID {
				c.Next()
				return
			}
		}

		attachIdentity(c, claims)
		c.Next()
	})
}

func authenticate(c *gin.Context, tokenSvc domain.TokenService, sessionRepo domain.SessionRepository) (*domain.TokenClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
		c.Abort()
		return nil, false
	}

	tokenParts := strings.SplitN(authHeader, " ", 2)
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
		c.Abort()
		return nil, false
	}

	claims, err := tokenSvc.ValidateAccessToken(tokenParts[1])
	if err != nil {
		switch err {
		case domain.ErrTokenExpired:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
		case domain.ErrTokenInvalid, domain.ErrTokenMalformed:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		default:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token validation failed"})
		}
		c.Abort()
		return nil, false
	}

	// Validate session exists in Redis (critical security check)
	if claims.SessionID != "" {
		session, err := sessionRepo.FindByID(c.Request.Context(), claims.SessionID)
		if err != nil || session == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session invalid or expired"})
			c.Abort()
			return nil, false
		}

		// Ensure session belongs to the same customer
		if session.CustomerID != claims.CustomerID {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session customer mismatch"})
			c.Abort()
			return nil, false
		}
	}

	return claims, true
}

func attachIdentity(c *gin.Context, claims *domain.TokenClaims) {
	// Convert uint to string for Casbin compatibility
	c.Set("customer_id", fmt.Sprintf("%d", claims.CustomerID))
	c.Set("customer_role", claims.Role)
	if claims.SessionID != "" {
		c.Set("session_id", claims.SessionID)
	}
}
