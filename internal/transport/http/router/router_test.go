package router_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"panchayat-portal/internal/app"
	"panchayat-portal/internal/core/config"
	"panchayat-portal/internal/transport/http/router"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.App.Env = "test"
	cfg.DB.Driver = "sqlite"
	cfg.DB.DSN = fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	cfg.DB.MaxOpenConns = 1
	cfg.DB.AutoMigrate = true
	cfg.DB.LogLevel = "silent"
	cfg.Redis.Addr = ""
	cfg.JWT.Secret = "router-test-secret-0123456789"
	cfg.Auth.LoginRPS = 1000
	cfg.Auth.LoginBurst = 1000
	cfg.Seed = config.AdminSeed{
		Username: "admin", UserID: "admin01", Email: "admin@example.com",
		MobileNo: "9000000000", Password: "admin-pass",
	}
	return cfg
}

type fixture struct {
	t     *testing.T
	app   *app.App
	api   *gin.Engine
	admin *gin.Engine
}

func newFixture(t *testing.T, tweak ...func(*config.Config)) *fixture {
	t.Helper()
	cfg := testConfig(t)
	for _, f := range tweak {
		f(cfg)
	}
	a, err := app.Build(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	require.NoError(t, a.SeedAdmin(context.Background()))
	return &fixture{t: t, app: a, api: router.NewAPIEngine(a.Deps), admin: router.NewAdminEngine(a.Deps)}
}

// client carries the session cookie between requests.
type client struct {
	f      *fixture
	h      http.Handler
	cookie *http.Cookie
}

func (f *fixture) client(h http.Handler) *client { return &client{f: f, h: h} }

func (c *client) do(method, path string, body any) (int, envelope) {
	c.f.t.Helper()
	var rdr *strings.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.f.t, err)
		rdr = strings.NewReader(string(b))
	} else {
		rdr = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			c.cookie = nil
		} else {
			c.cookie = ck
		}
	}
	var env envelope
	require.NoError(c.f.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func register(c *client, userID, email, mobile string) {
	code, env := c.do(http.MethodPost, "/api/v1/users", map[string]string{
		"username": "user " + userID, "usertype": "citizen", "userId": userID,
		"email": email, "mobileNo": mobile, "password": "s3cret!", "address": "Agartala",
	})
	require.Equal(c.f.t, http.StatusCreated, code, env.Message)
}

func login(c *client, who, password string) (int, envelope) {
	return c.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"emailOrMobile": who, "password": password})
}

var form = map[string]string{
	"service": "Income Certificate", "name": "Ravi", "mobileNo": "9876543210",
	"address": "Agartala", "documentType": "Aadhaar Card",
}

type appView struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Status  string  `json:"status"`
	OwnerID *string `json:"ownerId"`
}

func TestCitizenFlow(t *testing.T) {
	f := newFixture(t)
	c := f.client(f.api)

	register(c, "alice01", "alice@example.com", "9000000001")
	code, env := login(c, "alice@example.com", "s3cret!")
	require.Equal(t, http.StatusOK, code, env.Message)
	require.NotNil(t, c.cookie)
	assert.True(t, c.cookie.HttpOnly)

	code, env = c.do(http.MethodGet, "/api/v1/auth/session", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"userId":"alice01"`)

	code, env = c.do(http.MethodPost, "/api/v1/applications", form)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Application submitted successfully", env.Message)
	created := decode[appView](t, env.Data)
	assert.Equal(t, "Submitted", created.Status)
	require.NotNil(t, created.OwnerID)

	code, env = c.do(http.MethodGet, "/api/v1/applications", nil)
	require.Equal(t, http.StatusOK, code)
	list := decode[[]appView](t, env.Data)
	require.NotEmpty(t, list)
	assert.Equal(t, created.ID, list[0].ID)

	code, env = c.do(http.MethodGet, "/api/v1/applications/mine", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), created.ID)

	code, env = c.do(http.MethodGet, "/api/v1/applications/"+created.ID, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Ravi", decode[appView](t, env.Data).Name)

	code, _ = c.do(http.MethodPut, "/api/v1/users/me", map[string]string{"address": "Udaipur"})
	require.Equal(t, http.StatusOK, code)
	code, env = c.do(http.MethodGet, "/api/v1/users/me", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"address":"Udaipur"`)
	assert.NotContains(t, string(env.Data), "password")

	code, _ = c.do(http.MethodPost, "/api/v1/auth/logout", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Nil(t, c.cookie)
	code, env = c.do(http.MethodGet, "/api/v1/users/me", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, env.Success)
}

func TestAnonymousSubmissionAndValidation(t *testing.T) {
	f := newFixture(t)
	c := f.client(f.api)

	code, env := c.do(http.MethodPost, "/api/v1/applications", form)
	require.Equal(t, http.StatusCreated, code)
	anon := decode[appView](t, env.Data)
	assert.Nil(t, anon.OwnerID)

	code, _ = c.do(http.MethodGet, "/api/v1/applications/"+anon.ID, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	register(c, "bob01", "bob@example.com", "9000000009")
	code, _ = login(c, "bob@example.com", "s3cret!")
	require.Equal(t, http.StatusOK, code)
	code, env = c.do(http.MethodGet, "/api/v1/applications/"+anon.ID, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Application not found", env.Message)
	code, _ = c.do(http.MethodPost, "/api/v1/auth/logout", nil)
	require.Equal(t, http.StatusOK, code)

	code, env = c.do(http.MethodPost, "/api/v1/applications", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "All fields are required", env.Message)

	bad := map[string]string{}
	for k, v := range form {
		bad[k] = v
	}
	bad["mobileNo"] = "12345"
	code, env = c.do(http.MethodPost, "/api/v1/applications", bad)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid mobile number", env.Message)

	bad["mobileNo"] = "9876543210 "
	code, env = c.do(http.MethodPost, "/api/v1/applications", bad)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid mobile number", env.Message)

	code, env = c.do(http.MethodGet, "/api/v1/applications", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]appView](t, env.Data), 1)

	code, _ = c.do(http.MethodGet, "/api/v1/applications/mine", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestLoginFailuresLookAlike(t *testing.T) {
	f := newFixture(t, func(cfg *config.Config) { cfg.Auth.ActivateOnRegister = false })
	c := f.client(f.api)

	register(c, "alice01", "alice@example.com", "9000000001")

	_, inactive := login(c, "alice@example.com", "s3cret!")
	_, unknown := login(c, "nobody@example.com", "s3cret!")
	code, wrong := login(c, "admin@example.com", "wrong-password")

	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "invalid email/mobile or password", wrong.Message)
	assert.Equal(t, wrong, inactive)
	assert.Equal(t, wrong, unknown)
	assert.Nil(t, c.cookie)

	code, env := login(c, "", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotEmpty(t, env.Message)
}

func TestRegisterConflictsAndRoles(t *testing.T) {
	f := newFixture(t)
	c := f.client(f.api)

	register(c, "alice01", "alice@example.com", "9000000001")

	code, env := c.do(http.MethodPost, "/api/v1/users", map[string]string{
		"username": "other", "usertype": "citizen", "userId": "other01",
		"email": "alice@example.com", "mobileNo": "9000000002", "password": "s3cret!",
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.False(t, env.Success)

	code, _ = c.do(http.MethodPost, "/api/v1/users", map[string]string{
		"username": "mallory", "usertype": "admin", "userId": "mallory1",
		"email": "m@example.com", "mobileNo": "9000000003", "password": "s3cret!",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = c.do(http.MethodPost, "/api/v1/users", map[string]string{
		"username": "bob", "usertype": "citizen", "userId": "bob01",
		"email": "bob@example.com", "mobileNo": "9000000004", "password": strings.Repeat("é", 40),
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Message, "72 bytes")
}

func TestApplicationWritesNeedAdmin(t *testing.T) {
	f := newFixture(t)
	citizen := f.client(f.api)
	admin := f.client(f.api)

	register(citizen, "alice01", "alice@example.com", "9000000001")
	code, _ := login(citizen, "alice@example.com", "s3cret!")
	require.Equal(t, http.StatusOK, code)
	code, _ = login(admin, "admin@example.com", "admin-pass")
	require.Equal(t, http.StatusOK, code)

	_, env := citizen.do(http.MethodPost, "/api/v1/applications", form)
	id := decode[appView](t, env.Data).ID
	path := "/api/v1/applications/" + id

	anon := f.client(f.api)
	code, _ = anon.do(http.MethodPut, path, map[string]string{"name": "Hacked"})
	assert.Equal(t, http.StatusUnauthorized, code)
	code, env = citizen.do(http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "admin session required", env.Message)

	code, env = admin.do(http.MethodPut, path, map[string]string{"name": "Ravi Kumar"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Updated successfully", env.Message)
	assert.Equal(t, "Ravi Kumar", decode[appView](t, env.Data).Name)

	code, env = admin.do(http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Deleted successfully", env.Message)
	assert.Equal(t, id, decode[appView](t, env.Data).ID)

	code, env = admin.do(http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Application not found", env.Message)

	code, env = admin.do(http.MethodPut, path, map[string]string{"name": "x"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Application not found", env.Message)
}

func TestAdminServer(t *testing.T) {
	f := newFixture(t)
	citizen := f.client(f.api)
	register(citizen, "alice01", "alice@example.com", "9000000001")
	_, env := citizen.do(http.MethodPost, "/api/v1/applications", form)
	appID := decode[appView](t, env.Data).ID

	admin := f.client(f.admin)
	code, _ := admin.do(http.MethodGet, "/admin/v1/users", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env = admin.do(http.MethodPost, "/admin/v1/auth/login", map[string]string{
		"emailOrMobile": "admin@example.com", "password": "admin-pass",
	})
	require.Equal(t, http.StatusOK, code, env.Message)

	code, env = admin.do(http.MethodGet, "/admin/v1/users?q=alice", nil)
	require.Equal(t, http.StatusOK, code)
	page := decode[struct {
		Total int64 `json:"total"`
		Items []struct {
			ID     string `json:"id"`
			UserID string `json:"userId"`
		} `json:"items"`
	}](t, env.Data)
	require.EqualValues(t, 1, page.Total)
	aliceID := page.Items[0].ID

	code, _ = admin.do(http.MethodPost, "/admin/v1/users/"+aliceID+"/status", map[string]bool{"active": false})
	require.Equal(t, http.StatusOK, code)
	code, _ = login(citizen, "alice@example.com", "s3cret!")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = admin.do(http.MethodPost, "/admin/v1/applications/"+appID+"/status", map[string]string{"status": "Approved"})
	assert.Equal(t, http.StatusBadRequest, code)
	code, env = admin.do(http.MethodPost, "/admin/v1/applications/"+appID+"/status", map[string]string{"status": "UnderReview"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "UnderReview", decode[appView](t, env.Data).Status)

	code, env = admin.do(http.MethodGet, "/admin/v1/applications?status=UnderReview", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), appID)

	// a citizen session is not enough for the admin server
	c2 := f.client(f.admin)
	register(f.client(f.api), "bob01", "bob@example.com", "9000000005")
	code, _ = c2.do(http.MethodPost, "/admin/v1/auth/login", map[string]string{"emailOrMobile": "bob@example.com", "password": "s3cret!"})
	require.Equal(t, http.StatusOK, code)
	code, env = c2.do(http.MethodGet, "/admin/v1/applications", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "admin session required", env.Message)
}

func TestLoginThrottle(t *testing.T) {
	f := newFixture(t, func(cfg *config.Config) {
		cfg.Auth.LoginRPS = 0.001
		cfg.Auth.LoginBurst = 2
	})
	c := f.client(f.api)

	login(c, "nobody@example.com", "x")
	login(c, "nobody@example.com", "x")
	code, env := login(c, "nobody@example.com", "x")
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.False(t, env.Success)
}

func TestHealthReadyAndCatalog(t *testing.T) {
	f := newFixture(t)
	c := f.client(f.api)

	code, env := c.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	code, _ = c.do(http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = c.do(http.MethodGet, "/api/v1/catalog", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "Income Certificate")

	code, env = c.do(http.MethodGet, "/api/v1/nope", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Success)
}
