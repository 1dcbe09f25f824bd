package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"panchayat-portal/internal/domain"
	"panchayat-portal/internal/feature/user"
	"panchayat-portal/internal/transport/http/ez"
)

const msgUserNotFound = "User not found"

// Users serves registration and the caller's profile, plus the admin user list.
type Users struct {
	Svc *user.Service
	Log *zap.Logger
}

func (Users) Priority() int { return 20 }

func (m Users) MountAPI(api *gin.RouterGroup) {
	e := ez.New(api, m.Log)

	ez.RegisterAction(e, ez.Action[user.RegisterInput, *user.View]{
		Method:  http.MethodPost,
		Path:    "/users",
		Binder:  ez.BindJSON,
		Status:  http.StatusCreated,
		Message: "Registered successfully",
		Handler: func(c *gin.Context, in *user.RegisterInput) (*user.View, error) {
			v, err := m.Svc.Register(c.Request.Context(), *in)
			if errors.Is(err, domain.ErrDuplicate) {
				return nil, ez.Conflict("Email or user id already registered")
			}
			return v, err
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *user.View]{
		Method:   http.MethodGet,
		Path:     "/users/me",
		Binder:   ez.BindNone,
		Auth:     true,
		NotFound: msgUserNotFound,
		Handler: func(c *gin.Context, _ *struct{}) (*user.View, error) {
			return m.Svc.GetSelf(c.Request.Context(), identity(c))
		},
	})

	ez.RegisterAction(e, ez.Action[user.AddressInput, *user.View]{
		Method:   http.MethodPut,
		Path:     "/users/me",
		Binder:   ez.BindJSON,
		Auth:     true,
		Message:  "Address updated",
		NotFound: msgUserNotFound,
		Handler: func(c *gin.Context, in *user.AddressInput) (*user.View, error) {
			return m.Svc.UpdateAddress(c.Request.Context(), identity(c), *in)
		},
	})
}

type statusIn struct {
	Active *bool `json:"active"`
}

func (m Users) MountAdmin(admin *gin.RouterGroup) {
	e := ez.New(admin, m.Log)

	ez.RegisterAction(e, ez.Action[pageQ, pageOut[user.View]]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Roles:  []string{domain.RoleAdmin},
		Handler: func(c *gin.Context, in *pageQ) (pageOut[user.View], error) {
			items, total, err := m.Svc.Page(c.Request.Context(), identity(c), domain.UserFilter{
				Offset: in.Offset, Limit: in.Limit, Q: in.Q,
			})
			if err != nil {
				return pageOut[user.View]{}, err
			}
			return pageOut[user.View]{Total: total, Items: items}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[statusIn, *user.View]{
		Method:   http.MethodPost,
		Path:     "/users/:id/status",
		Binder:   ez.BindJSON,
		Roles:    []string{domain.RoleAdmin},
		Message:  "Account status updated",
		NotFound: msgUserNotFound,
		Handler: func(c *gin.Context, in *statusIn) (*user.View, error) {
			if in.Active == nil {
				return nil, ez.BadRequest("active is required")
			}
			return m.Svc.SetAccountStatus(c.Request.Context(), identity(c), c.Param("id"), *in.Active)
		},
	})
}
