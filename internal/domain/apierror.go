package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrMissingConfig is returned when the Admina credentials are not configured.
// It is raised before any network call is attempted.
var ErrMissingConfig = errors.New("admina configuration missing")

// NonHTTPErrorID marks an APIError that did not come from an HTTP response
// (network failure, request encoding, unreadable response body).
const NonHTTPErrorID = "non_http_error"

// ErrorKind classifies an APIError by the upstream HTTP status.
type ErrorKind string

const (
	KindInvalidRequest      ErrorKind = "invalid_request"
	KindAuthentication      ErrorKind = "authentication"
	KindPermission          ErrorKind = "permission"
	KindNotFound            ErrorKind = "not_found"
	KindRequestTimeout      ErrorKind = "request_timeout"
	KindFeatureNotAvailable ErrorKind = "feature_not_available"
	KindValidation          ErrorKind = "validation"
	KindSystem              ErrorKind = "system"
	KindTimeout             ErrorKind = "timeout"
	KindGeneric             ErrorKind = "generic"
)

type kindDefaults struct {
	kind    ErrorKind
	message string
	errorID string
}

// statusKinds is the fixed status -> kind table. Any other status is KindGeneric.
var statusKinds = map[int]kindDefaults{
	http.StatusBadRequest:          {KindInvalidRequest, "Validation Exception", "validation_exception"},
	http.StatusUnauthorized:        {KindAuthentication, "Unauthorized", "unauthorized"},
	http.StatusForbidden:           {KindPermission, "Forbidden", "forbidden"},
	http.StatusNotFound:            {KindNotFound, "Not found", "not_found"},
	http.StatusRequestTimeout:      {KindRequestTimeout, "Request timeout", "request_timeout"},
	http.StatusTeapot:              {KindFeatureNotAvailable, "Feature not available", "feature_not_available"},
	http.StatusUnprocessableEntity: {KindValidation, "Invalid query", "invalid_query"},
	http.StatusInternalServerError: {KindSystem, "Internal Server Error", "internal_server_error"},
	http.StatusGatewayTimeout:      {KindTimeout, "Timeout error", "timeout_error"},
}

const genericErrorID = "admina_api_error"

// APIError is the normalized error returned for every failed Admina API call.
type APIError struct {
	Kind         ErrorKind
	HTTPStatus   int
	Message      string
	ErrorID      string
	ErrorDetails any

	cause error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("admina API error: status %d: %s", e.HTTPStatus, e.Message)
}

// Unwrap returns the transport failure behind a non-HTTP error, if any.
func (e *APIError) Unwrap() error {
	return e.cause
}

// IsNotFound reports whether the upstream resource does not exist.
func (e *APIError) IsNotFound() bool {
	return e.Kind == KindNotFound
}

// IsUnauthorized reports whether the credentials were rejected.
func (e *APIError) IsUnauthorized() bool {
	return e.Kind == KindAuthentication || e.Kind == KindPermission
}

// NewAPIError maps an upstream status and decoded response payload to an APIError.
// The payload's errorId, when present, overrides both the default message and errorId.
func NewAPIError(status int, payload any) *APIError {
	var errorID string
	var details any
	if m, ok := payload.(map[string]any); ok {
		if id, ok := m["errorId"].(string); ok {
			errorID = id
		}
		details = m["errorDetails"]
	}

	d, known := statusKinds[status]
	if !known {
		d = kindDefaults{kind: KindGeneric, message: genericErrorID, errorID: genericErrorID}
	}

	e := &APIError{
		Kind:         d.kind,
		HTTPStatus:   status,
		Message:      d.message,
		ErrorID:      d.errorID,
		ErrorDetails: details,
	}
	if errorID != "" {
		e.Message = errorID
		e.ErrorID = errorID
	}
	return e
}

// NewTransportError wraps a failure that never produced an HTTP response.
func NewTransportError(err error) *APIError {
	return &APIError{
		Kind:       KindGeneric,
		HTTPStatus: http.StatusInternalServerError,
		Message:    err.Error(),
		ErrorID:    NonHTTPErrorID,
		cause:      err,
	}
}

// AsAPIError unwraps err into an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// FormatAPIError renders an APIError for human-facing surfaces.
func FormatAPIError(e *APIError) string {
	message := "Admina API error: " + e.Message
	if e.ErrorDetails != nil {
		details, err := json.MarshalIndent(e.ErrorDetails, "", "  ")
		if err != nil {
			details = []byte(fmt.Sprintf("%v", e.ErrorDetails))
		}
		message += "\nDetails: " + string(details)
	}
	return message
}
