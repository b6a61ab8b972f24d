package httpx

import (
	"github.com/gin-gonic/gin"
	"github.com/you/checkoutsvc/internal/http/handlers"
	"github.com/you/checkoutsvc/internal/http/middleware"
)

func BuildRouter(ch *handlers.CheckoutHandlers, ah *handlers.AuthHandlers, adh *handlers.AdminHandlers, ph *handlers.PolicyHandlers, jwtmw *middleware.AuthMW, cb *middleware.CasbinMW) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	// a returning buyer may start a cart with or without a token
	checkout := r.Group("/checkout").Use(jwtmw.WithOptionalJWT())
	checkout.POST("", ch.Start)
	checkout.GET("/:id/quote", ch.Quote)
	checkout.POST("/:id/continue", ch.Continue)
	checkout.POST("/:id/contact", ch.SubmitContact)
	checkout.POST("/:id/code", ch.SubmitCode)
	checkout.POST("/:id/resend", ch.Resend)
	checkout.POST("/:id/back", ch.Back)
	checkout.POST("/:id/coupon", ch.ApplyCoupon)
	checkout.DELETE("/:id/coupon", ch.RemoveCoupon)
	checkout.POST("/:id/profile", ch.SubmitProfile)
	checkout.POST("/:id/terms", ch.AcceptTerms)
	checkout.POST("/:id/confirm", ch.Confirm)

	auth := r.Group("/auth")
	auth.POST("/refresh", ah.Refresh)

	v := r.Group("/").Use(jwtmw.WithJWT(), cb.Enforce())
	v.GET("/auth/me", ah.Me)
	v.POST("/auth/logout", ah.Logout)

	adm := r.Group("/admin").Use(jwtmw.WithJWT(), cb.Enforce())
	adm.GET("/transactions", adh.ListTransactions)
	adm.GET("/transactions/:order_id", adh.GetTransaction)
	adm.GET("/policies", ph.List)
	adm.POST("/policies", ph.Add)
	adm.DELETE("/policies", ph.Remove)

	return r
}
