package fperr

import (
	"net/http"

	"github.com/rs/xid"
)

const (
	ErrorCodeBadRequest         = "error_bad_request"
	ErrorCodeConflict           = "error_conflict"
	ErrorCodeInternal           = "error_internal"
	ErrorCodeInvalidData        = "error_invalid_data"
	ErrorCodeNotFound           = "error_not_found"
	ErrorCodeServiceUnavailable = "error_service_unavailable"
	ErrorCodeTimeout            = "error_timeout"
	ErrorCodeUnauthorized       = "error_unauthorized"
)

func reference() string {
	return "fperr_" + xid.New().String()
}

func BadRequestWithMessage(msg string) ErrorModel {
	return ErrorModel{
		Instance: reference(),
		Type:     ErrorCodeBadRequest,
		Title:    "Bad Request",
		Status:   http.StatusBadRequest,
		Detail:   msg,
	}
}

func BadRequestWithTypeAndMessage(errorType string, msg string) ErrorModel {
	return ErrorModel{
		Instance: reference(),
		Type:     errorType,
		Title:    "Bad Request",
		Status:   http.StatusBadRequest,
		Detail:   msg,
	}
}

func NotFoundWithMessage(msg string) ErrorModel {
	return ErrorModel{
		Instance: reference(),
		Type:     ErrorCodeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   msg,
	}
}

func InternalWithMessage(msg string) ErrorModel {
	return ErrorModel{
		Instance: reference(),
		Type:     ErrorCodeInternal,
		Title:    "Internal Error",
		Status:   http.StatusInternalServerError,
		Detail:   msg,
	}
}

func ConflictWithMessage(msg string) ErrorModel {
	return ErrorModel{
		Instance: reference(),
		Type:     ErrorCodeConflict,
		Title:    "Conflict",
		Status:   http.StatusConflict,
		Detail:   msg,
	}
}

func UnauthorizedWithMessage(msg string) ErrorModel {
	return ErrorModel{
		Instance: reference(),
		Type:     ErrorCodeUnauthorized,
		Title:    "Unauthorized",
		Status:   http.StatusUnauthorized,
		Detail:   msg,
	}
}

func TimeoutWithMessage(msg string) ErrorModel {
	return ErrorModel{
		Instance:  reference(),
		Type:      ErrorCodeTimeout,
		Title:     "Timeout",
		Status:    http.StatusRequestTimeout,
		Detail:    msg,
		Retryable: true,
	}
}

// ServiceUnavailableWithMessage covers transport failures where no response
// was received from the server at all.
func ServiceUnavailableWithMessage(msg string) ErrorModel {
	return ErrorModel{
		Instance:  reference(),
		Type:      ErrorCodeServiceUnavailable,
		Title:     "Service Unavailable",
		Status:    http.StatusServiceUnavailable,
		Detail:    msg,
		Retryable: true,
	}
}

func IsConflict(err error) bool {
	e, ok := err.(ErrorModel)
	return ok && e.Status == http.StatusConflict
}

func IsNotFound(err error) bool {
	e, ok := err.(ErrorModel)
	return ok && e.Status == http.StatusNotFound
}

// FromError normalizes any error into an ErrorModel. ErrorModel values pass
// through unchanged so typed errors keep their status and instance.
func FromError(err error) ErrorModel {
	if err == nil {
		return InternalWithMessage("nil error")
	}
	if e, ok := err.(ErrorModel); ok {
		return e
	}
	if e, ok := err.(*ErrorModel); ok && e != nil {
		return *e
	}
	return InternalWithMessage(err.Error())
}
