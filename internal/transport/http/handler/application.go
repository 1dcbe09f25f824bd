package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"panchayat-portal/internal/domain"
	"panchayat-portal/internal/feature/application"
	"panchayat-portal/internal/transport/http/ez"
)

const msgApplicationNotFound = "Application not found"

// Applications serves the public listing and submission form, and the admin review routes.
type Applications struct {
	Svc *application.Service
	Log *zap.Logger
}

func (Applications) Priority() int { return 30 }

func (m Applications) MountAPI(api *gin.RouterGroup) {
	e := ez.New(api, m.Log)

	ez.RegisterAction(e, ez.Action[struct{}, []domain.Application]{
		Method: http.MethodGet,
		Path:   "/applications",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Application, error) {
			return m.Svc.Latest(c.Request.Context())
		},
	})

	ez.RegisterAction(e, ez.Action[application.CreateInput, *domain.Application]{
		Method:  http.MethodPost,
		Path:    "/applications",
		Binder:  ez.BindJSON,
		Status:  http.StatusCreated,
		Message: "Application submitted successfully",
		Handler: func(c *gin.Context, in *application.CreateInput) (*domain.Application, error) {
			var owner *domain.Identity
			if id := identity(c); id.ID != "" {
				owner = &id
			}
			return m.Svc.Create(c.Request.Context(), *in, owner)
		},
	})

	ez.RegisterAction(e, ez.Action[pageQ, pageOut[domain.Application]]{
		Method: http.MethodGet,
		Path:   "/applications/mine",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *pageQ) (pageOut[domain.Application], error) {
			items, total, err := m.Svc.Mine(c.Request.Context(), identity(c), domain.ApplicationFilter{
				Offset: in.Offset, Limit: in.Limit,
			})
			if err != nil {
				return pageOut[domain.Application]{}, err
			}
			return pageOut[domain.Application]{Total: total, Items: items}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.Application]{
		Method:   http.MethodGet,
		Path:     "/applications/:id",
		Binder:   ez.BindNone,
		Auth:     true,
		NotFound: msgApplicationNotFound,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Application, error) {
			return m.Svc.Get(c.Request.Context(), identity(c), c.Param("id"))
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, application.Catalog]{
		Method: http.MethodGet,
		Path:   "/catalog",
		Binder: ez.BindNone,
		Handler: func(*gin.Context, *struct{}) (application.Catalog, error) {
			return m.Svc.Catalog(), nil
		},
	})

	m.mountWrites(e)
}

func (m Applications) MountAdmin(admin *gin.RouterGroup) {
	e := ez.New(admin, m.Log)

	ez.RegisterAction(e, ez.Action[pageQ, pageOut[domain.Application]]{
		Method: http.MethodGet,
		Path:   "/applications",
		Binder: ez.BindQuery,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, in *pageQ) (pageOut[domain.Application], error) {
			f := domain.ApplicationFilter{Offset: in.Offset, Limit: in.Limit}
			if in.Status != "" {
				st, ok := domain.ParseStatus(in.Status)
				if !ok {
					return pageOut[domain.Application]{}, ez.BadRequest("unknown status " + in.Status)
				}
				f.Status = st
			}
			items, total, err := m.Svc.Page(c.Request.Context(), identity(c), f)
			if err != nil {
				return pageOut[domain.Application]{}, err
			}
			return pageOut[domain.Application]{Total: total, Items: items}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[application.StatusInput, *domain.Application]{
		Method:   http.MethodPost,
		Path:     "/applications/:id/status",
		Binder:   ez.BindJSON,
		Roles:    []string{domain.RoleAdmin},
		Message:  "Status updated",
		NotFound: msgApplicationNotFound,
		Handler: func(c *gin.Context, in *application.StatusInput) (*domain.Application, error) {
			return m.Svc.SetStatus(c.Request.Context(), identity(c), c.Param("id"), *in)
		},
	})

	m.mountWrites(e)
}

// mountWrites registers the admin-only update and delete routes on either server.
func (m Applications) mountWrites(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[application.Patch, *domain.Application]{
		Method:   http.MethodPut,
		Path:     "/applications/:id",
		Binder:   ez.BindJSON,
		Roles:    []string{domain.RoleAdmin},
		Message:  "Updated successfully",
		NotFound: msgApplicationNotFound,
		Handler: func(c *gin.Context, in *application.Patch) (*domain.Application, error) {
			return m.Svc.Update(c.Request.Context(), identity(c), c.Param("id"), *in)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.Application]{
		Method:   http.MethodDelete,
		Path:     "/applications/:id",
		Binder:   ez.BindNone,
		Roles:    []string{domain.RoleAdmin},
		Message:  "Deleted successfully",
		NotFound: msgApplicationNotFound,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Application, error) {
			return m.Svc.Delete(c.Request.Context(), identity(c), c.Param("id"))
		},
	})
}
