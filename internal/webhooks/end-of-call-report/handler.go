package endofcallreport

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"lead-dispatcher/internal/common/errors"
	"lead-dispatcher/internal/common/logger"
	"lead-dispatcher/internal/common/metrics"
	"lead-dispatcher/internal/common/middleware"
	"lead-dispatcher/internal/models"
)

// Executor is the pipeline the handler drives.
type Executor interface {
	Execute(ctx context.Context, event *models.CallEvent) (*Output, error)
}

type Handler struct {
	service    Executor
	config     *Config
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

func NewHandler(service Executor, config *Config, log logger.Logger) *Handler {
	return &Handler{
		service:    service,
		config:     config,
		logger:     log,
		errHandler: errors.NewErrorHandler(log),
	}
}

// ServeHTTP answers every well-formed JSON body with 200. Dispatch
// failures are logged here and never change the response.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields := map[string]interface{}{"requestId": middleware.GetRequestID(r.Context())}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.config.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			metrics.WebhookEventsTotal.WithLabelValues("rejected", "body_too_large").Inc()
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "request body too large"})
			return
		}
		h.errHandler.Handle("failed to read webhook body", err, fields)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read request body"})
		return
	}

	event, err := models.ParseCallEvent(body)
	if err != nil {
		stdErr := errors.NewPayloadParseFailedError(err.Error())
		h.logger.Warn("rejected webhook payload", map[string]interface{}{
			"requestId": fields["requestId"],
			"errorCode": string(stdErr.Code),
			"bytes":     len(body),
		})
		metrics.WebhookEventsTotal.WithLabelValues("rejected", "malformed_json").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": stdErr.Message})
		return
	}

	out, err := h.service.Execute(r.Context(), event)
	if err != nil {
		h.errHandler.Handle("lead pipeline failed", err, fields)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	if out.DispatchErr != nil {
		fields["callId"] = event.Call.ID
		fields["error"] = out.DispatchErr.Error()
		h.errHandler.Handle("dossier dispatch failed", out.DispatchErr, fields)
	}

	writeJSON(w, http.StatusOK, out.Outcome)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
