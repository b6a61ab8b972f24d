package app

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/you/checkoutsvc/internal/config"
	httpx "github.com/you/checkoutsvc/internal/http"
	"github.com/you/checkoutsvc/internal/http/handlers"
	"github.com/you/checkoutsvc/internal/http/middleware"
)

func Run(cfg *config.Config) error {
	logger := newLogger(cfg.LogLevel)
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	c, err := NewContainer(cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	checkoutH := handlers.NewCheckoutHandlers(c.CheckoutSvc)
	authH := handlers.NewAuthHandlers(c.AuthSvc, c.TokenSvc, c.SessionRepo, int64(cfg.AccessTTL.Seconds()))
	adminH := handlers.NewAdminHandlers(c.TxRepo)
	polH := &handlers.PolicyHandlers{E: c.Casbin.E}

	jwtMW := middleware.NewAuthMW(c.TokenSvc, c.SessionRepo)
	casbinMW := middleware.NewCasbinMW(c.Casbin.E)

	r := httpx.BuildRouter(checkoutH, authH, adminH, polH, jwtMW, casbinMW)

	c.SeedPolicies()

	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Msg("listening")
	return http.ListenAndServe(addr, r)
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Str("service", "checkoutsvc").Logger()
}
