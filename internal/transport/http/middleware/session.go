package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"panchayat-portal/internal/core/auth"
	"panchayat-portal/internal/transport/http/ez"
	resp "panchayat-portal/internal/transport/http/response"
)

// Session decodes the session cookie when present. Requests without one pass through.
func Session(s *auth.Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := s.Current(c.Request); err == nil {
			auth.SetClaims(c, claims)
		}
		c.Next()
	}
}

// RequireSession rejects requests without a decoded session, or whose usertype is not in roles.
func RequireSession(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := auth.ClaimsFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(http.StatusUnauthorized, ez.MsgLoginRequired))
			return
		}
		if len(roles) > 0 && !slices.Contains(roles, claims.Usertype) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(http.StatusUnauthorized, ez.MsgAdminRequired))
			return
		}
		c.Next()
	}
}
