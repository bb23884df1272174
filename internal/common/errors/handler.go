// internal/common/errors/handler.go
package errors

import (
	stderrors "errors"
	"time"
)

// ErrorHandler normalizes and logs errors that reach a request boundary.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle logs err with its standardized code and returns the normalized form.
// The caller decides what the client sees.
func (h *ErrorHandler) Handle(msg string, err error, fields map[string]interface{}) *StandardError {
	stdErr := Normalize(err)

	out := map[string]interface{}{
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	for k, v := range fields {
		out[k] = v
	}
	h.logger.Error(msg, out)

	return stdErr
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}
