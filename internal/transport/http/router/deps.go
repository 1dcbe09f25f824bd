package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"panchayat-portal/internal/core/auth"
	"panchayat-portal/internal/core/config"
	"panchayat-portal/internal/core/server"
	"panchayat-portal/internal/feature/application"
	"panchayat-portal/internal/feature/user"
	"panchayat-portal/internal/transport/http/handler"
	mdw "panchayat-portal/internal/transport/http/middleware"
	resp "panchayat-portal/internal/transport/http/response"
)

// Deps is everything the engines need from main.
type Deps struct {
	Log      *zap.Logger
	Cfg      *config.Config
	Sessions *auth.Sessions
	Users    *user.Service
	Apps     *application.Service
	Ready    func(ctx context.Context) error
}

// newEngine builds the shared middleware chain; the session is decoded last.
func newEngine(name string, d Deps) *gin.Engine {
	lim := d.Cfg.Limits
	r := server.NewRouter(d.Log, server.Options{
		Name:         name,
		Mode:         d.Cfg.App.Env,
		AllowOrigins: d.Cfg.CORS.AllowOrigins,
	}, mdw.RequestID())

	r.Use(
		mdw.RateLimit(rate.Limit(lim.RPS), lim.Burst),
		mdw.ConcurrencyLimit(lim.MaxInFlight),
		mdw.MaxBodyBytes(lim.MaxBodyBytes),
		mdw.Timeout(d.Cfg.RequestTimeout()),
		mdw.Metrics(name),
		mdw.AccessLog(d.Log),
		mdw.Session(d.Sessions),
	)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, resp.Error(http.StatusNotFound, ""))
	})

	handler.Health{Ready: d.Ready, Log: d.Log}.Mount(r)
	return r
}

func loginLimiter(cfg *config.Config) gin.HandlerFunc {
	if cfg.Auth.LoginRPS <= 0 {
		return nil
	}
	return mdw.RateLimitPerIP(rate.Limit(cfg.Auth.LoginRPS), max(1, cfg.Auth.LoginBurst), 10*time.Minute)
}
