// Package errors provides the standardized error type used across the dispatcher.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodePayloadParseFailed ErrorCode = "PAYLOAD_PARSE_FAILED"

	ErrCodeTemplateRenderFailed ErrorCode = "TEMPLATE_RENDER_FAILED"

	ErrCodeNotificationSendFailed       ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeNotificationValidationFailed ErrorCode = "NOTIFICATION_VALIDATION_FAILED"
	ErrCodeProviderNotConfigured        ErrorCode = "PROVIDER_NOT_CONFIGURED"

	ErrCodeRoutingConfigInvalid ErrorCode = "ROUTING_CONFIG_INVALID"

	ErrCodeDedupCheckFailed ErrorCode = "DEDUP_CHECK_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// ==========================
// 2. Error Constructors
// ==========================

// NewPayloadParseFailedError is returned when the webhook body is not JSON.
func NewPayloadParseFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodePayloadParseFailed,
		Message:   "Webhook payload is not valid JSON",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTemplateRenderFailedError wraps a dossier template execution failure.
func NewTemplateRenderFailedError(category string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTemplateRenderFailed,
		Message:   "Failed to render dossier template",
		Details:   fmt.Sprintf("category %s: %v", category, err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewNotificationSendFailedError wraps a transport failure from a sender.
func NewNotificationSendFailedError(provider string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Failed to send notification",
		Details:   fmt.Sprintf("provider %s: %v", provider, err),
		Retryable: true,
		Metadata:  map[string]interface{}{"provider": provider},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewNotificationValidationFailedError is returned when an outbound message
// does not satisfy the message schema.
func NewNotificationValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationValidationFailed,
		Message:   "Outbound notification failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderNotConfiguredError is returned for an unknown or incomplete provider.
func NewProviderNotConfiguredError(provider, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderNotConfigured,
		Message:   "Notification provider is not configured",
		Details:   fmt.Sprintf("provider %s: %s", provider, details),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRoutingConfigInvalidError reports a bad routing table at startup.
func NewRoutingConfigInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRoutingConfigInvalid,
		Message:   "Routing configuration is invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDedupCheckFailedError wraps a Redis failure in the duplicate guard.
func NewDedupCheckFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDedupCheckFailed,
		Message:   "Duplicate delivery check failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// IsRetryableErrorCode reports whether the code describes a transient failure.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeNotificationSendFailed, ErrCodeDedupCheckFailed:
		return true
	default:
		return false
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "PAYLOAD"):
		return "INPUT"
	case strings.Contains(codeStr, "TEMPLATE"):
		return "TEMPLATE"
	case strings.Contains(codeStr, "NOTIFICATION") || strings.Contains(codeStr, "PROVIDER"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "ROUTING"):
		return "CONFIG"
	case strings.Contains(codeStr, "DEDUP"):
		return "STORAGE"
	default:
		return "OTHER"
	}
}
