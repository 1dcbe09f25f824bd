package ez

import (
	"context"
	"errors"
	"net/http"

	"panchayat-portal/internal/domain"
)

const (
	MsgLoginRequired = "login required"
	MsgAdminRequired = "admin session required"
	MsgBadLogin      = "invalid email/mobile or password"
	MsgInvalidBody   = "invalid request body"
)

// AErr is an error with the HTTP status and message shown to the client.
// Err is the cause and is only logged.
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &AErr{Code: http.StatusBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: http.StatusUnauthorized, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: http.StatusNotFound, Msg: msg} }
func Conflict(msg string) error     { return &AErr{Code: http.StatusConflict, Msg: msg} }
func TooMany(msg string) error      { return &AErr{Code: http.StatusTooManyRequests, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: http.StatusInternalServerError, Msg: msg, Err: err}
}

// Classify maps err onto the status and message returned to the client.
// notFound overrides the message for domain.ErrNotFound.
func Classify(err error, notFound string) *AErr {
	var ae *AErr
	if errors.As(err, &ae) {
		return ae
	}
	var ve *domain.ValidationError
	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &ve):
		return &AErr{Code: http.StatusBadRequest, Msg: ve.Msg, Err: err}
	case errors.Is(err, domain.ErrValidation):
		return &AErr{Code: http.StatusBadRequest, Msg: err.Error(), Err: err}
	case errors.Is(err, domain.ErrInvalidTransition):
		return &AErr{Code: http.StatusBadRequest, Msg: err.Error(), Err: err}
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrAccountInactive),
		errors.Is(err, domain.ErrInvalidCredentials):
		return &AErr{Code: http.StatusUnauthorized, Msg: MsgBadLogin, Err: err}
	case errors.Is(err, domain.ErrUnauthenticated):
		return &AErr{Code: http.StatusUnauthorized, Msg: MsgLoginRequired, Err: err}
	case errors.Is(err, domain.ErrForbidden):
		return &AErr{Code: http.StatusUnauthorized, Msg: MsgAdminRequired, Err: err}
	case errors.Is(err, domain.ErrNotFound):
		if notFound == "" {
			notFound = http.StatusText(http.StatusNotFound)
		}
		return &AErr{Code: http.StatusNotFound, Msg: notFound, Err: err}
	case errors.Is(err, domain.ErrDuplicate):
		return &AErr{Code: http.StatusConflict, Msg: "record already exists", Err: err}
	case errors.As(err, &mbe):
		return &AErr{Code: http.StatusRequestEntityTooLarge, Msg: "request body too large", Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &AErr{Code: http.StatusGatewayTimeout, Msg: "request timed out", Err: err}
	}
	return &AErr{Code: http.StatusInternalServerError, Msg: "internal error", Err: err}
}
