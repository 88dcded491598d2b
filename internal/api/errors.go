package api

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/walloflove/wol-server/internal/errors"
	"github.com/walloflove/wol-server/internal/store"
)

// genericServerError is the only message a 5xx response ever carries.
const genericServerError = "internal server error"

// APIError is a custom error type that implements huma.StatusError.
// Every error response has the shape {"error": ..., "code": ...}.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Message string `json:"error" doc:"Human-readable error message"`
	Code    string `json:"code" doc:"Machine-readable error code"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RegisterErrorHandler configures huma to use domain errors.
// Call this after creating the huma.API but before registering routes.
func RegisterErrorHandler() {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		for _, err := range errs {
			var domainErr *domainerrors.Error
			if errors.As(err, &domainErr) {
				return newAPIError(domainErr.HTTPStatus(), string(domainErr.Code), domainErr.Message)
			}

			var storeErr *store.Error
			if errors.As(err, &storeErr) && storeErr.Kind == store.KindNotFound {
				return newAPIError(http.StatusNotFound, string(domainerrors.CodeNotFound), storeErr.Message)
			}
		}

		return newAPIError(status, statusToCode(status), message)
	}
}

// newAPIError hides the message of any server-side failure.
func newAPIError(status int, code, message string) *APIError {
	if status >= http.StatusInternalServerError {
		message = genericServerError
	}
	return &APIError{status: status, Code: code, Message: message}
}

// statusToCode maps HTTP status codes to our domain error codes.
func statusToCode(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return string(domainerrors.CodeValidation)
	case http.StatusNotFound:
		return string(domainerrors.CodeNotFound)
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	default:
		return string(domainerrors.CodeInternal)
	}
}
