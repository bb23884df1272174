package endofcallreport

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"lead-dispatcher/internal/common/logger"
	"lead-dispatcher/internal/common/metrics"
	"lead-dispatcher/internal/common/observability"
	"lead-dispatcher/internal/dedup"
	"lead-dispatcher/internal/leads"
	"lead-dispatcher/internal/models"
	"lead-dispatcher/internal/routing"
)

const (
	outcomeIgnored    = "ignored"
	outcomeSkipped    = "skipped"
	outcomeDispatched = "dispatched"
	outcomeFailed     = "dispatch_failed"
)

type Service struct {
	config   *Config
	logger   logger.Logger
	routing  *routing.Table
	notifier Notifier
	guard    *dedup.Guard
	obs      *observability.Observability
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	obs := deps.Observability
	if obs == nil {
		obs = &observability.Observability{}
	}
	return &Service{
		config:   config,
		logger:   deps.Logger.WithFields(map[string]interface{}{"component": "end-of-call-report"}),
		routing:  deps.Routing,
		notifier: deps.Notifier,
		guard:    deps.Guard,
		obs:      obs,
	}
}

// Execute runs the lead pipeline for one event. Expected skips are part of
// the Output; an error means the dossier could not be built at all.
func (s *Service) Execute(ctx context.Context, event *models.CallEvent) (*Output, error) {
	ctx, span := s.obs.StartSpan(ctx, "lead.pipeline",
		attribute.String("event.type", event.Type),
		attribute.String("call.id", event.Call.ID),
		attribute.String("assistant.id", event.Call.AssistantID),
	)
	defer span.End()

	if !leads.IsCallCompleted(event) {
		s.record(ctx, outcomeIgnored, "", "")
		return &Output{Outcome: models.Success()}, nil
	}

	fields := map[string]interface{}{
		"callId":      event.Call.ID,
		"assistantId": event.Call.AssistantID,
	}

	raw := leads.LocateResult(event)
	if res := leads.CheckSchema(raw); !res.Valid {
		metrics.SchemaViolationsTotal.Inc()
		s.logger.Warn("structured output does not match dossier schema", merge(fields, map[string]interface{}{
			"violations": res.GetErrorMessages(),
		}))
	}

	lead := leads.DecodeLead(raw)
	phone := leads.ResolvePhone(lead.PhoneNumber, leads.Sanitize(event.Call.Customer.Number))

	if reason, ok := leads.Validate(lead, phone); !ok {
		s.logger.Info("lead skipped", merge(fields, map[string]interface{}{"reason": string(reason)}))
		s.record(ctx, outcomeSkipped, reason, "")
		return &Output{Outcome: models.Skipped(reason)}, nil
	}

	first, err := s.guard.FirstDelivery(ctx, event.Call.ID)
	if err != nil {
		s.logger.Warn("duplicate check failed, continuing", merge(fields, map[string]interface{}{"error": err}))
	}
	if !first {
		s.logger.Info("duplicate report ignored", fields)
		s.record(ctx, outcomeSkipped, models.ReasonDuplicateReport, "")
		return &Output{Outcome: models.Skipped(models.ReasonDuplicateReport)}, nil
	}

	category := leads.Classify(lead.ServiceCategory)
	span.SetAttributes(attribute.String("lead.category", string(category)))

	subject, body, err := leads.Render(lead, phone, leads.Sanitize(event.Analysis.Summary), category)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		_ = s.guard.Forget(ctx, event.Call.ID)
		return nil, err
	}

	dossier := &models.Dossier{
		Category:   category,
		Subject:    subject,
		Body:       body,
		Recipients: s.routing.Recipients(event.Call.AssistantID),
	}

	start := time.Now()
	dispatchErr := s.notifier.Dispatch(ctx, models.Message{
		From:     s.config.FromEmail,
		To:       dossier.Recipients,
		Subject:  dossier.Subject,
		Text:     dossier.Body,
		Category: category,
	})

	outcome := outcomeDispatched
	if dispatchErr != nil {
		outcome = outcomeFailed
		span.RecordError(dispatchErr)
		span.SetStatus(codes.Error, "dispatch failed")
		if err := s.guard.Forget(ctx, event.Call.ID); err != nil {
			s.logger.Warn("failed to clear duplicate marker", merge(fields, map[string]interface{}{"error": err}))
		}
	}
	s.obs.RecordDispatchDuration(ctx, time.Since(start), outcome)
	s.record(ctx, outcome, "", category)
	metrics.LeadsClassifiedTotal.WithLabelValues(string(category)).Inc()

	s.logger.Info("lead dispatched", merge(fields, map[string]interface{}{
		"category":   string(category),
		"recipients": len(dossier.Recipients),
		"provider":   s.notifier.Provider(),
		"failed":     dispatchErr != nil,
	}))

	return &Output{
		Outcome:     models.Success(),
		Category:    category,
		Dossier:     dossier,
		DispatchErr: dispatchErr,
	}, nil
}

func (s *Service) record(ctx context.Context, outcome string, reason models.Reason, category models.Category) {
	metrics.WebhookEventsTotal.WithLabelValues(outcome, string(reason)).Inc()
	s.obs.RecordLeadProcessed(ctx, outcome, string(reason), string(category))
}

func merge(base, extra map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
