package router

import (
	"github.com/gin-gonic/gin"

	"panchayat-portal/internal/transport/http/handler"
)

// NewAPIEngine serves the citizen-facing API under /api/v1.
func NewAPIEngine(d Deps) *gin.Engine {
	r := newEngine("api", d)

	var reg Registry
	reg.Register(
		handler.Auth{Users: d.Users, Sessions: d.Sessions, Limit: loginLimiter(d.Cfg), Log: d.Log},
		handler.Users{Svc: d.Users, Log: d.Log},
		handler.Applications{Svc: d.Apps, Log: d.Log},
	)
	reg.MountAllAPI(r.Group("/api/v1"))
	return r
}
