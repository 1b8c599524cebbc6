package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/watermate/internal/domain/solar"
	"github.com/yanqian/watermate/internal/domain/watering"
	apperrors "github.com/yanqian/watermate/pkg/errors"
)

// HTTPError captures the metadata required to serialize an error response consistently.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

var statusByCode = map[string]int{
	watering.CodeInvalidInput:        http.StatusBadRequest,
	watering.CodeInvalidProfile:      http.StatusBadRequest,
	solar.CodeInvalidInterval:        http.StatusBadRequest,
	solar.CodeInvalidOffset:          http.StatusBadRequest,
	solar.CodeUnsupportedOrientation: http.StatusBadRequest,
	watering.CodeProfileNotFound:     http.StatusNotFound,
	solar.CodeEphemerisUnavailable:   http.StatusBadGateway,
	solar.CodeParse:                  http.StatusBadGateway,
	watering.CodeCatalogUnavailable:  http.StatusServiceUnavailable,
	solar.CodeOrdering:               http.StatusInternalServerError,
}

// fromDomainError keeps the domain code on the wire and picks the status.
func fromDomainError(err error) *HTTPError {
	code := apperrors.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		return NewHTTPError(http.StatusInternalServerError, "internal_error", "something went wrong", err)
	}
	return NewHTTPError(status, code, errMessage(err), err)
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}
