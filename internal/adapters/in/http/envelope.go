// Package http exposes the application over a REST API. Every response is
// wrapped in a common envelope, and core errors are translated to stable
// error codes and HTTP statuses here and nowhere else.
package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"logistics/internal/pkg/errs"
)

// ResponseStatus describes the outcome of a request.
type ResponseStatus struct {
	Success     bool   `json:"success"`
	Code        int    `json:"code"`
	Message     string `json:"message"`
	ErrorCode   string `json:"errorCode,omitempty"`
	Description string `json:"description,omitempty"`
}

// ResponseMetadata carries request tracing information.
type ResponseMetadata struct {
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
	RequestID string    `json:"requestId"`
}

// Envelope is the shape of every response body.
type Envelope struct {
	Status   ResponseStatus   `json:"status"`
	Data     any              `json:"data,omitempty"`
	Metadata ResponseMetadata `json:"metadata"`
}

// Stable machine-readable error codes. Clients switch on these, so they
// never change even if messages do.
const (
	codeInternal               = "ERR1000"
	codeValidation             = "ERR1001"
	codeNotFound               = "ERR1002"
	codeTokenInvalid           = "ERR2001"
	codeAccessDenied           = "ERR2002"
	codeConcurrentModification = "ERR3001"
	codeInvalidTransition      = "ERR3002"
	codeInvalidState           = "ERR3003"
)

func respond(ctx echo.Context, code int, message string, data any) error {
	return ctx.JSON(code, Envelope{
		Status: ResponseStatus{
			Success: true,
			Code:    code,
			Message: message,
		},
		Data:     data,
		Metadata: metadataFor(ctx),
	})
}

// fail translates a core error into the envelope. Unrecognized errors are
// reported as internal without leaking their message to the client.
func fail(ctx echo.Context, err error) error {
	httpStatus, errorCode := classify(err)

	status := ResponseStatus{
		Success:     false,
		Code:        httpStatus,
		Message:     http.StatusText(httpStatus),
		ErrorCode:   errorCode,
		Description: err.Error(),
	}
	if errorCode == codeInternal {
		status.Description = "internal server error"
		ctx.Logger().Error(err)
	}

	return ctx.JSON(httpStatus, Envelope{
		Status:   status,
		Metadata: metadataFor(ctx),
	})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, errs.ErrTokenInvalid):
		return http.StatusUnauthorized, codeTokenInvalid
	case errors.Is(err, errs.ErrAccessDenied):
		return http.StatusForbidden, codeAccessDenied
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, errs.ErrConcurrentModification):
		return http.StatusConflict, codeConcurrentModification
	case errors.Is(err, errs.ErrInvalidTransition):
		return http.StatusConflict, codeInvalidTransition
	case errors.Is(err, errs.ErrInvalidState):
		return http.StatusConflict, codeInvalidState
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest, codeValidation
	default:
		return http.StatusInternalServerError, codeInternal
	}
}

func metadataFor(ctx echo.Context) ResponseMetadata {
	return ResponseMetadata{
		Timestamp: time.Now().UTC(),
		Path:      ctx.Request().URL.Path,
		RequestID: ctx.Response().Header().Get(echo.HeaderXRequestID),
	}
}
