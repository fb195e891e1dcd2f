package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorKind tags a DomainError with its taxonomy class. Callers branch on the
// tag, never on message text or driver-specific error codes.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindNotFound     ErrorKind = "not_found"
	KindConflict     ErrorKind = "conflict"
	KindForbidden    ErrorKind = "forbidden"
	KindUnauthorized ErrorKind = "unauthorized"
	KindExternal     ErrorKind = "external"
)

// DomainError is the engine-wide error type.
type DomainError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *DomainError) Unwrap() error { return e.Err }

func newDomainError(kind ErrorKind, format string, args ...any) *DomainError {
	return &DomainError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...any) *DomainError {
	return newDomainError(KindValidation, format, args...)
}

func NotFoundf(format string, args ...any) *DomainError {
	return newDomainError(KindNotFound, format, args...)
}

func Conflictf(format string, args ...any) *DomainError {
	return newDomainError(KindConflict, format, args...)
}

func Forbiddenf(format string, args ...any) *DomainError {
	return newDomainError(KindForbidden, format, args...)
}

func Unauthorizedf(format string, args ...any) *DomainError {
	return newDomainError(KindUnauthorized, format, args...)
}

// Externalf wraps a collaborator failure. Non-critical collaborators swallow
// these after logging; critical ones surface them to the caller.
func Externalf(err error, format string, args ...any) *DomainError {
	return &DomainError{Kind: KindExternal, Message: fmt.Sprintf(format, args...), Err: err}
}

// AsDomainError unwraps err into a *DomainError if it carries one.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind ErrorKind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic", zap.Any("error", err))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	Logger := GetLogger()
	Logger.Warn(message, zap.String("details", details))
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}

// RespondWithError writes err as a JSON response, mapping DomainError kinds to
// HTTP statuses and hiding internals behind a 500 for everything else.
func RespondWithError(c *gin.Context, err error) {
	if de, ok := AsDomainError(err); ok && de.Kind != KindExternal {
		c.JSON(StatusFor(de.Kind), ErrorResponse{Message: de.Message})
		return
	}
	Logger := GetLogger()
	Logger.Error("request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal Server Error"})
}
