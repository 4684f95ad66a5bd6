package services

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a ServiceError for the transport layer.
type ErrorCode string

const (
	ErrorInvalid      ErrorCode = "invalid"
	ErrorForbidden    ErrorCode = "forbidden"
	ErrorNotFound     ErrorCode = "not_found"
	ErrorUnauthorized ErrorCode = "unauthorized"
	ErrorUnavailable  ErrorCode = "unavailable"
)

// ServiceError is an error whose Message is safe to show to the caller.
type ServiceError struct {
	Code    ErrorCode
	Message string
}

func (e *ServiceError) Error() string { return string(e.Code) + ": " + e.Message }

// Is matches any ServiceError with the same code, so callers can test
// errors.Is(err, &ServiceError{Code: ErrorNotFound}).
func (e *ServiceError) Is(target error) bool {
	t, ok := target.(*ServiceError)
	return ok && t.Code == e.Code && (t.Message == "" || t.Message == e.Message)
}

func newServiceError(code ErrorCode, format string, args ...any) error {
	return &ServiceError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Invalidf(format string, args ...any) error { return newServiceError(ErrorInvalid, format, args...) }
func Forbiddenf(format string, args ...any) error {
	return newServiceError(ErrorForbidden, format, args...)
}
func NotFoundf(format string, args ...any) error { return newServiceError(ErrorNotFound, format, args...) }
func Unauthorizedf(format string, args ...any) error {
	return newServiceError(ErrorUnauthorized, format, args...)
}

// ErrStoreUnavailable is returned when a service was built without a store.
var ErrStoreUnavailable error = &ServiceError{Code: ErrorUnavailable, Message: "storage unavailable"}

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// CodeOf returns the code of the ServiceError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	if se, ok := AsServiceError(err); ok {
		return se.Code
	}
	return ""
}
