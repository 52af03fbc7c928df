// Package errors provides standardized error handling for the HTTP API.
package errors

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeSignatureMissing ErrorCode = "WEBHOOK_SIGNATURE_MISSING"
	ErrCodeSignatureInvalid ErrorCode = "WEBHOOK_SIGNATURE_INVALID"
	ErrCodeSignatureExpired ErrorCode = "WEBHOOK_SIGNATURE_EXPIRED"
	ErrCodePayloadInvalid   ErrorCode = "WEBHOOK_PAYLOAD_INVALID"

	ErrCodeUnknownContentType ErrorCode = "UNKNOWN_CONTENT_TYPE"
	ErrCodeDocumentNotFound   ErrorCode = "DOCUMENT_NOT_FOUND"

	ErrCodeStoreConnectionFailed   ErrorCode = "STORE_CONNECTION_FAILED"
	ErrCodeStoreQueryFailed        ErrorCode = "STORE_QUERY_FAILED"
	ErrCodeNotificationWriteFailed ErrorCode = "NOTIFICATION_WRITE_FAILED"

	ErrCodeSearchUpstreamFailed ErrorCode = "SEARCH_UPSTREAM_FAILED"

	ErrCodeRequestValidationFailed ErrorCode = "REQUEST_VALIDATION_FAILED"

	ErrCodeOTPInvalid        ErrorCode = "OTP_INVALID"
	ErrCodeOTPExpired        ErrorCode = "OTP_EXPIRED"
	ErrCodeOTPDeliveryFailed ErrorCode = "OTP_DELIVERY_FAILED"

	ErrCodeUserNotFound ErrorCode = "USER_NOT_FOUND"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewSignatureMissingError creates a non-retryable auth error.
func NewSignatureMissingError() *StandardError {
	return &StandardError{
		Code:      ErrCodeSignatureMissing,
		Message:   "Webhook signature header is missing",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSignatureInvalidError creates a non-retryable auth error.
func NewSignatureInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSignatureInvalid,
		Message:   "Webhook signature verification failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSignatureExpiredError creates a non-retryable auth error for stale timestamps.
func NewSignatureExpiredError(driftSeconds int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeSignatureExpired,
		Message:   "Webhook signature timestamp outside tolerance",
		Details:   fmt.Sprintf("drift: %ds", driftSeconds),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPayloadInvalidError creates a non-retryable payload error.
func NewPayloadInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodePayloadInvalid,
		Message:   "Webhook payload could not be parsed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownContentTypeError creates a non-retryable dispatch error.
func NewUnknownContentTypeError(docType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownContentType,
		Message:   "No notification builder registered for content type",
		Details:   fmt.Sprintf("type: %s", docType),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDocumentNotFoundError creates a non-retryable lookup error.
func NewDocumentNotFoundError(documentID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDocumentNotFound,
		Message:   "Document not found in content store",
		Details:   fmt.Sprintf("documentId: %s", documentID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreConnectionFailedError creates a retryable store connection error.
func NewStoreConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreConnectionFailed,
		Message:   "Content store connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreQueryFailedError creates a retryable store query error.
func NewStoreQueryFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreQueryFailed,
		Message:   "Content store query error",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationWriteFailedError creates a retryable write error.
func NewNotificationWriteFailedError(recipient string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationWriteFailed,
		Message:   "Notification document write failed",
		Details:   fmt.Sprintf("recipient: %s, error: %s", recipient, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchUpstreamFailedError creates a retryable upstream error.
func NewSearchUpstreamFailedError(collection string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchUpstreamFailed,
		Message:   "Content API request failed during search",
		Details:   fmt.Sprintf("collection: %s, error: %s", collection, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRequestValidationFailedError creates a non-retryable request error.
func NewRequestValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRequestValidationFailed,
		Message:   "Request body validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewOTPInvalidError creates a non-retryable verification error.
func NewOTPInvalidError() *StandardError {
	return &StandardError{
		Code:      ErrCodeOTPInvalid,
		Message:   "Verification code is incorrect",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewOTPExpiredError creates a non-retryable verification error.
func NewOTPExpiredError() *StandardError {
	return &StandardError{
		Code:      ErrCodeOTPExpired,
		Message:   "Verification code has expired or was never issued",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewOTPDeliveryFailedError creates a retryable mail delivery error.
func NewOTPDeliveryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeOTPDeliveryFailed,
		Message:   "Verification code delivery failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUserNotFoundError creates a non-retryable lookup error.
func NewUserNotFoundError(email string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUserNotFound,
		Message:   "No user document for the given email",
		Details:   fmt.Sprintf("email: %s", email),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. HTTP Status Mapping
// ==========================

// HTTPStatusMapping maps internal error codes to HTTP response codes.
var HTTPStatusMapping = map[ErrorCode]int{
	ErrCodeSignatureMissing:        http.StatusUnauthorized,
	ErrCodeSignatureInvalid:        http.StatusUnauthorized,
	ErrCodeSignatureExpired:        http.StatusUnauthorized,
	ErrCodePayloadInvalid:          http.StatusBadRequest,
	ErrCodeRequestValidationFailed: http.StatusBadRequest,
	ErrCodeUnknownContentType:      http.StatusUnprocessableEntity,
	ErrCodeDocumentNotFound:        http.StatusNotFound,
	ErrCodeUserNotFound:            http.StatusNotFound,
	ErrCodeOTPInvalid:              http.StatusUnauthorized,
	ErrCodeOTPExpired:              http.StatusUnauthorized,
	ErrCodeStoreConnectionFailed:   http.StatusInternalServerError,
	ErrCodeStoreQueryFailed:        http.StatusInternalServerError,
	ErrCodeNotificationWriteFailed: http.StatusInternalServerError,
	ErrCodeSearchUpstreamFailed:    http.StatusInternalServerError,
	ErrCodeOTPDeliveryFailed:       http.StatusInternalServerError,
}

// HTTPStatus returns the HTTP status for an error code, defaulting to 500.
func HTTPStatus(code ErrorCode) int {
	if status, ok := HTTPStatusMapping[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ==========================
// 4. Utility Functions
// ==========================

// IsClientError reports whether the error maps to a 4xx response.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatus(code)
	return status >= 400 && status < 500
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "SIGNATURE") || strings.Contains(codeStr, "OTP"):
		return "AUTH"
	case strings.Contains(codeStr, "STORE") || strings.Contains(codeStr, "NOTIFICATION"):
		return "STORE"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "PAYLOAD") || strings.Contains(codeStr, "CONTENT_TYPE"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
