package ez

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"panchayat-portal/internal/core/auth"
	"panchayat-portal/internal/domain"
)

func init() { gin.SetMode(gin.TestMode) }

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		code int
		msg  string
	}{
		{domain.Invalid("All fields are required"), 400, "All fields are required"},
		{fmt.Errorf("%w: Submitted to Approved", domain.ErrInvalidTransition), 400, "invalid status transition: Submitted to Approved"},
		{domain.ErrAccountInactive, 401, MsgBadLogin},
		{domain.ErrUserNotFound, 401, MsgBadLogin},
		{domain.ErrInvalidCredentials, 401, MsgBadLogin},
		{domain.ErrUnauthenticated, 401, MsgLoginRequired},
		{domain.ErrForbidden, 401, MsgAdminRequired},
		{fmt.Errorf("find: %w", domain.ErrNotFound), 404, "Application not found"},
		{domain.ErrDuplicate, 409, "record already exists"},
		{&http.MaxBytesError{Limit: 1}, 413, "request body too large"},
		{errors.New("pq: connection refused"), 500, "internal error"},
		{Conflict("Email already registered"), 409, "Email already registered"},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			ae := Classify(tt.err, "Application not found")
			assert.Equal(t, tt.code, ae.Code)
			assert.Equal(t, tt.msg, ae.Msg)
		})
	}
}

type nameIn struct {
	Name string `json:"name"`
}

func newEngine(claims *auth.Claims) (*gin.Engine, EZ) {
	r := gin.New()
	if claims != nil {
		r.Use(func(c *gin.Context) { auth.SetClaims(c, claims) })
	}
	return r, New(r.Group("/v1"), zap.NewNop())
}

func TestRegisterAction_SuccessShapes(t *testing.T) {
	r, e := newEngine(nil)
	RegisterAction(e, Action[nameIn, map[string]string]{
		Method:  http.MethodPost,
		Path:    "/echo",
		Binder:  BindJSON,
		Status:  http.StatusCreated,
		Message: "created",
		Handler: func(_ *gin.Context, in *nameIn) (map[string]string, error) {
			return map[string]string{"name": in.Name}, nil
		},
	})
	RegisterAction(e, Action[struct{}, struct{}]{
		Method:  http.MethodPost,
		Path:    "/noop",
		Binder:  BindNone,
		Message: "done",
		Handler: func(*gin.Context, *struct{}) (struct{}, error) { return struct{}{}, nil },
	})

	rec, env := do(t, r, http.MethodPost, "/v1/echo", `{"name":"ravi"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "created", env.Message)
	assert.JSONEq(t, `{"name":"ravi"}`, string(env.Data))

	rec, env = do(t, r, http.MethodPost, "/v1/noop", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "done", env.Message)
	assert.Empty(t, env.Data)

	rec, env = do(t, r, http.MethodPost, "/v1/echo", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, MsgInvalidBody, env.Message)
}

func TestRegisterAction_EmptyBodyReachesHandler(t *testing.T) {
	r, e := newEngine(nil)
	RegisterAction(e, Action[nameIn, struct{}]{
		Method: http.MethodPost,
		Path:   "/need-name",
		Binder: BindJSON,
		Handler: func(_ *gin.Context, in *nameIn) (struct{}, error) {
			if in.Name == "" {
				return struct{}{}, domain.Invalid("All fields are required")
			}
			return struct{}{}, nil
		},
	})

	rec, env := do(t, r, http.MethodPost, "/v1/need-name", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "All fields are required", env.Message)
}

func TestRegisterAction_SessionAndRoles(t *testing.T) {
	adminOnly := func(e EZ) {
		RegisterAction(e, Action[struct{}, string]{
			Method:  http.MethodDelete,
			Path:    "/things/:id",
			Roles:   []string{domain.RoleAdmin},
			Handler: func(c *gin.Context, _ *struct{}) (string, error) { return c.Param("id"), nil },
		})
	}

	r, e := newEngine(nil)
	adminOnly(e)
	rec, env := do(t, r, http.MethodDelete, "/v1/things/1", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, MsgLoginRequired, env.Message)

	r, e = newEngine(&auth.Claims{UID: "u1", Usertype: domain.RoleCitizen})
	adminOnly(e)
	rec, env = do(t, r, http.MethodDelete, "/v1/things/1", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, MsgAdminRequired, env.Message)

	r, e = newEngine(&auth.Claims{UID: "a1", Usertype: domain.RoleAdmin})
	adminOnly(e)
	rec, env = do(t, r, http.MethodDelete, "/v1/things/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"1"`, string(env.Data))
}

func TestRegisterAction_InternalErrorsAreGeneric(t *testing.T) {
	r, e := newEngine(nil)
	RegisterAction(e, Action[struct{}, struct{}]{
		Method: http.MethodGet,
		Path:   "/boom",
		Handler: func(*gin.Context, *struct{}) (struct{}, error) {
			return struct{}{}, errors.New("dial tcp 10.0.0.5:5432: connection refused")
		},
	})

	rec, env := do(t, r, http.MethodGet, "/v1/boom", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", env.Message)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}
