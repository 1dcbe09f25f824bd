package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"panchayat-portal/internal/core/auth"
	"panchayat-portal/internal/domain"
	"panchayat-portal/internal/feature/user"
	"panchayat-portal/internal/transport/http/ez"
)

// Auth serves login, logout and session introspection.
type Auth struct {
	Users    *user.Service
	Sessions *auth.Sessions
	Limit    gin.HandlerFunc // per-IP login throttle, optional
	Log      *zap.Logger
}

func (Auth) Priority() int { return 10 }

type sessionOut struct {
	User      domain.Identity `json:"user"`
	ExpiresAt *time.Time      `json:"expiresAt,omitempty"`
}

func (m Auth) MountAPI(api *gin.RouterGroup) {
	g := api.Group("/auth")
	e := ez.New(g, m.Log)

	lg := g
	if m.Limit != nil {
		lg = g.Group("", m.Limit)
	}
	ez.RegisterAction(ez.New(lg, m.Log), ez.Action[user.LoginInput, sessionOut]{
		Method:  http.MethodPost,
		Path:    "/login",
		Binder:  ez.BindJSON,
		Message: "Login successful",
		Handler: func(c *gin.Context, in *user.LoginInput) (sessionOut, error) {
			id, err := m.Users.Authenticate(c.Request.Context(), in.EmailOrMobile, in.Password)
			switch {
			case errors.Is(err, domain.ErrUserNotFound),
				errors.Is(err, domain.ErrAccountInactive),
				errors.Is(err, domain.ErrInvalidCredentials):
				m.Log.Info("login rejected",
					zap.String("rid", c.GetString(ez.RequestIDKey)),
					zap.String("ip", c.ClientIP()),
					zap.NamedError("cause", err))
				return sessionOut{}, ez.Unauthorized(ez.MsgBadLogin)
			case err != nil:
				return sessionOut{}, err
			}
			if err := m.Sessions.Issue(c.Writer, id); err != nil {
				return sessionOut{}, ez.Internal("issue session failed", err)
			}
			return sessionOut{User: id}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, struct{}]{
		Method:  http.MethodPost,
		Path:    "/logout",
		Binder:  ez.BindNone,
		Message: "Logged out",
		Handler: func(c *gin.Context, _ *struct{}) (struct{}, error) {
			m.Sessions.Clear(c.Writer)
			return struct{}{}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, sessionOut]{
		Method: http.MethodGet,
		Path:   "/session",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (sessionOut, error) {
			cl, _ := auth.ClaimsFrom(c)
			out := sessionOut{User: cl.Identity()}
			if cl.ExpiresAt != nil {
				exp := cl.ExpiresAt.Time
				out.ExpiresAt = &exp
			}
			return out, nil
		},
	})
}
