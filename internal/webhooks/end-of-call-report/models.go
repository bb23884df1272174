package endofcallreport

import (
	"context"

	"lead-dispatcher/internal/common/logger"
	"lead-dispatcher/internal/common/observability"
	"lead-dispatcher/internal/dedup"
	"lead-dispatcher/internal/models"
	"lead-dispatcher/internal/routing"
)

// Notifier sends a rendered dossier.
type Notifier interface {
	Dispatch(ctx context.Context, msg models.Message) error
	Provider() string
}

type ServiceDependencies struct {
	Logger        logger.Logger
	Routing       *routing.Table
	Notifier      Notifier
	Guard         *dedup.Guard
	Observability *observability.Observability
}

// Output is the result of one pipeline run. Outcome is what the caller
// sees; the rest is for logging and the render command.
type Output struct {
	Outcome  models.Outcome  `json:"outcome"`
	Category models.Category `json:"category,omitempty"`
	Dossier  *models.Dossier `json:"dossier,omitempty"`

	// DispatchErr is set when dispatch was attempted and failed.
	DispatchErr error `json:"-"`
}

// Dispatched reports whether a dossier was handed to the notifier.
func (o *Output) Dispatched() bool {
	return o.Dossier != nil
}
