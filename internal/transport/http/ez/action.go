package ez

import (
	"errors"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"panchayat-portal/internal/core/auth"
	resp "panchayat-portal/internal/transport/http/response"
)

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

// EZ registers actions on a route group and logs their server-side failures.
type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ { return EZ{g: g, log: l} }

type Binder string

const (
	BindJSON  Binder = "json"  // request body
	BindQuery Binder = "query" // ?a=b
	BindNone  Binder = "none"  // handler reads c.Param itself
)

// Action describes one endpoint: I is the bound input, O the response data.
type Action[I any, O any] struct {
	Method   string
	Path     string
	Binder   Binder
	Auth     bool     // require a decoded session
	Roles    []string // allowed usertypes, implies Auth
	Status   int      // success status, default 200
	Message  string   // success message
	NotFound string   // message for domain.ErrNotFound
	Handler  func(c *gin.Context, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		// 1) session / role
		if a.Auth || len(a.Roles) > 0 {
			cl, ok := auth.ClaimsFrom(c)
			if !ok {
				e.fail(c, Unauthorized(MsgLoginRequired), a.NotFound)
				return
			}
			if len(a.Roles) > 0 && !slices.Contains(a.Roles, cl.Usertype) {
				e.fail(c, Unauthorized(MsgAdminRequired), a.NotFound)
				return
			}
		}

		// 2) bind
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
			if errors.Is(bindErr, io.EOF) {
				// empty body; let the handler validate the zero value
				bindErr = nil
			}
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			var mbe *http.MaxBytesError
			if errors.As(bindErr, &mbe) {
				e.fail(c, bindErr, a.NotFound)
				return
			}
			e.fail(c, &AErr{Code: http.StatusBadRequest, Msg: MsgInvalidBody, Err: bindErr}, a.NotFound)
			return
		}

		// 3) run
		out, err := a.Handler(c, &in)
		if err != nil {
			e.fail(c, err, a.NotFound)
			return
		}
		var data any = out
		if _, empty := data.(struct{}); empty {
			data = nil
		}
		c.JSON(status, resp.OK(a.Message, data))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}

func (e EZ) fail(c *gin.Context, err error, notFound string) {
	ae := Classify(err, notFound)
	fields := []zap.Field{
		zap.String("rid", c.GetString(RequestIDKey)),
		zap.String("path", c.FullPath()),
		zap.Int("status", ae.Code),
		zap.Error(err),
	}
	switch {
	case ae.Code >= http.StatusInternalServerError:
		e.log.Error("request failed", fields...)
	case ae.Err != nil:
		e.log.Debug("request rejected", fields...)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(ae.Code, resp.Error(ae.Code, ae.Msg))
}
