package notify

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"lead-dispatcher/internal/common/errors"
	"lead-dispatcher/internal/common/logger"
	"lead-dispatcher/internal/common/metrics"
	"lead-dispatcher/internal/common/validation"
	"lead-dispatcher/internal/models"
)

// Sender delivers one message through one transport.
type Sender interface {
	Name() string
	Send(ctx context.Context, msg models.Message) error
}

const messageSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["from", "to", "subject", "text"],
	"properties": {
		"from":    {"type": "string", "format": "email"},
		"to":      {"type": "array", "minItems": 1, "items": {"type": "string", "format": "email"}},
		"subject": {"type": "string", "minLength": 1},
		"text":    {"type": "string"}
	}
}`

var messageValidator = validation.MustCompile(messageSchema)

// Dispatcher sends a message through the primary sender and every fan-out
// sender. It never retries.
type Dispatcher struct {
	primary Sender
	fanout  []Sender
	timeout time.Duration
	logger  logger.Logger
}

func NewDispatcher(primary Sender, timeout time.Duration, log logger.Logger, fanout ...Sender) *Dispatcher {
	return &Dispatcher{
		primary: primary,
		fanout:  fanout,
		timeout: timeout,
		logger:  log.WithFields(map[string]interface{}{"component": "dispatcher"}),
	}
}

// Provider returns the name of the primary sender.
func (d *Dispatcher) Provider() string {
	return d.primary.Name()
}

// Dispatch validates msg and attempts a single send on each sender. All
// failures are combined; one sender failing does not stop the others.
func (d *Dispatcher) Dispatch(ctx context.Context, msg models.Message) error {
	if res := messageValidator.Validate(msg); !res.Valid {
		return errors.NewNotificationValidationFailedError(strings.Join(res.GetErrorMessages(), "; "))
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	notificationID := uuid.New().String()

	var err error
	for _, s := range append([]Sender{d.primary}, d.fanout...) {
		err = multierr.Append(err, d.send(ctx, s, notificationID, msg))
	}
	return err
}

func (d *Dispatcher) send(ctx context.Context, s Sender, notificationID string, msg models.Message) error {
	start := time.Now()
	err := s.Send(ctx, msg)
	elapsed := time.Since(start)

	metrics.DispatchDuration.WithLabelValues(s.Name()).Observe(elapsed.Seconds())

	if err != nil {
		metrics.DispatchFailuresTotal.WithLabelValues(s.Name()).Inc()
		return errors.NewNotificationSendFailedError(s.Name(), err)
	}

	d.logger.Info("notification sent", map[string]interface{}{
		"notificationId": notificationID,
		"provider":       s.Name(),
		"recipients":     len(msg.To),
		"durationMs":     elapsed.Milliseconds(),
	})
	return nil
}
