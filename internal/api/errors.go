package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/booklyapp/bookly-server/internal/errors"
	"github.com/booklyapp/bookly-server/internal/store"
)

// internalMessage is the only message a 5xx response ever carries.
const internalMessage = "internal server error"

// APIError is a custom error type that implements huma.StatusError.
// It maps domain errors to HTTP responses with consistent structure.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
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

// FieldError describes one request validation failure reported by huma.
type FieldError struct {
	Location string `json:"location,omitempty" doc:"Where the error occurred, e.g. body.mood"`
	Message  string `json:"message" doc:"What is wrong"`
	Value    any    `json:"value,omitempty" doc:"The offending value"`
}

// RegisterErrorHandler configures huma to use domain errors.
// Call this after creating the huma.API but before registering routes.
func RegisterErrorHandler() {
	huma.NewError = newAPIError
}

func newAPIError(status int, message string, errs ...error) huma.StatusError {
	// Missing or unparseable bodies are reported like any other invalid input.
	if status == http.StatusBadRequest {
		status = http.StatusUnprocessableEntity
	}

	var fields []FieldError
	for _, err := range errs {
		if err == nil {
			continue
		}

		var domainErr *domainerrors.Error
		if domainerrors.As(err, &domainErr) {
			return fromDomainError(domainErr)
		}

		if domainerrors.Is(err, store.ErrBookNotFound) {
			return &APIError{
				status:  http.StatusNotFound,
				Code:    string(domainerrors.CodeNotFound),
				Message: err.Error(),
			}
		}

		var detail *huma.ErrorDetail
		if domainerrors.As(err, &detail) {
			fields = append(fields, FieldError{
				Location: detail.Location,
				Message:  detail.Message,
				Value:    detail.Value,
			})
		}
	}

	if status >= http.StatusInternalServerError {
		return &APIError{
			status:  status,
			Code:    statusToCode(status),
			Message: internalMessage,
		}
	}

	e := &APIError{
		status:  status,
		Code:    statusToCode(status),
		Message: message,
	}
	if len(fields) > 0 {
		e.Details = fields
	}
	return e
}

// fromDomainError converts a domain error. Internal errors lose their
// message and details so causes never reach the client.
func fromDomainError(err *domainerrors.Error) *APIError {
	status := err.HTTPStatus()
	if status >= http.StatusInternalServerError && err.Code != domainerrors.CodeUnavailable {
		return &APIError{
			status:  status,
			Code:    string(domainerrors.CodeInternal),
			Message: internalMessage,
		}
	}
	return &APIError{
		status:  status,
		Code:    string(err.Code),
		Message: err.Message,
		Details: err.Details,
	}
}

// toHTTPError converts a service error into the response huma writes.
// Handlers return its result instead of the raw error so the domain code
// survives.
func (s *Server) toHTTPError(err error) error {
	apiErr := newAPIError(http.StatusInternalServerError, internalMessage, err)
	if apiErr.GetStatus() >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	return apiErr
}

// statusToCode maps HTTP status codes to our domain error codes.
func statusToCode(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusMethodNotAllowed,
		http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		return string(domainerrors.CodeValidation)
	case http.StatusNotFound:
		return string(domainerrors.CodeNotFound)
	case http.StatusConflict:
		return string(domainerrors.CodeAlreadyExists)
	case http.StatusTooManyRequests:
		return string(domainerrors.CodeRateLimited)
	case http.StatusServiceUnavailable:
		return string(domainerrors.CodeUnavailable)
	default:
		return string(domainerrors.CodeInternal)
	}
}
