package router

import (
	"github.com/gin-gonic/gin"

	"panchayat-portal/internal/domain"
	"panchayat-portal/internal/transport/http/handler"
	mdw "panchayat-portal/internal/transport/http/middleware"
)

// NewAdminEngine serves the back office under /admin/v1; every route needs an admin session.
func NewAdminEngine(d Deps) *gin.Engine {
	r := newEngine("admin", d)

	admin := r.Group("/admin/v1")
	admin.Use(mdw.RequireSession(domain.RoleAdmin))

	// login and logout stay outside the admin-only group
	auth := r.Group("/admin/v1")
	var pub Registry
	pub.Register(handler.Auth{Users: d.Users, Sessions: d.Sessions, Limit: loginLimiter(d.Cfg), Log: d.Log})
	pub.MountAllAPI(auth)

	var reg Registry
	reg.Register(
		handler.Users{Svc: d.Users, Log: d.Log},
		handler.Applications{Svc: d.Apps, Log: d.Log},
	)
	reg.MountAllAdmin(admin)
	return r
}
