package helpers

import (
	"encoding/json"
	"errors"
	"net/http"

	"minibadge/internal/domain"
)

// Error codes for API error responses. Use these with WriteJSONError.
const (
	ErrCodeBadRequest    = "bad_request"
	ErrCodeUnauthorized  = "unauthorized"
	ErrCodeForbidden     = "forbidden"
	ErrCodeNotFound      = "not_found"
	ErrCodeConflict      = "conflict"
	ErrCodeUnprocessable = "unprocessable"
	ErrCodeUnavailable   = "unavailable"
	ErrCodeInternalError = "internal_error"
)

// APIError is the error object in the standardized API response envelope.
// swagger:model APIError
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIResponse is the standardized envelope for all API responses.
// On success: Data is set, Error is nil. On error: Data is nil, Error is set.
// A partially applied award batch sets both.
// swagger:model APIResponse
type APIResponse struct {
	Data  any       `json:"data"`
	Error *APIError `json:"error"`
}

// WriteJSON writes statusCode and the envelope with both data and apiErr as given.
func WriteJSON(w http.ResponseWriter, statusCode int, data any, apiErr *APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{Data: data, Error: apiErr})
}

// WriteJSONSuccess encodes an APIResponse with the given data and error set to nil.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	WriteJSON(w, statusCode, data, nil)
}

// WriteJSONError encodes an APIResponse with data nil and the given error code and message.
func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	WriteJSON(w, statusCode, nil, &APIError{Code: code, Message: message})
}

// ErrorStatus maps a service error to an HTTP status and error code.
func ErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, ErrCodeBadRequest
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, ErrCodeForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, domain.ErrDuplicateBadge),
		errors.Is(err, domain.ErrDuplicateAward),
		errors.Is(err, domain.ErrDuplicateSlug):
		return http.StatusConflict, ErrCodeConflict
	case errors.Is(err, domain.ErrMissingImage):
		return http.StatusUnprocessableEntity, ErrCodeUnprocessable
	case errors.Is(err, domain.ErrStorageUnavailable),
		errors.Is(err, domain.ErrDuplicateSlugExhausted):
		return http.StatusServiceUnavailable, ErrCodeUnavailable
	default:
		return http.StatusInternalServerError, ErrCodeInternalError
	}
}

// NewAPIError builds the envelope error for err.
func NewAPIError(err error) *APIError {
	_, code := ErrorStatus(err)
	return &APIError{Code: code, Message: err.Error()}
}

// WriteServiceError writes the mapped status and error for err.
func WriteServiceError(w http.ResponseWriter, err error) {
	status, code := ErrorStatus(err)
	WriteJSONError(w, status, code, err.Error())
}
