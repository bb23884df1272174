package routing

import (
	"fmt"
	"strings"

	"lead-dispatcher/internal/common/config"
	"lead-dispatcher/internal/common/errors"
	"lead-dispatcher/internal/common/validation"
)

// Table resolves an assistant to its recipients. It is built once at
// startup and never mutated, so concurrent reads need no locking.
type Table struct {
	admin    string
	fallback string
	owners   map[string]string
}

// NewTable builds a Table from configuration. Assistant IDs are matched
// exactly, including case.
func NewTable(cfg config.RoutingConfig) (*Table, error) {
	admin := strings.TrimSpace(cfg.AdminAddress)
	if !validation.ValidateEmail(admin) {
		return nil, errors.NewRoutingConfigInvalidError(fmt.Sprintf("admin address %q is not valid", cfg.AdminAddress))
	}

	fallback := strings.TrimSpace(cfg.FallbackAddress)
	if fallback != "" && !validation.ValidateEmail(fallback) {
		return nil, errors.NewRoutingConfigInvalidError(fmt.Sprintf("fallback address %q is not valid", cfg.FallbackAddress))
	}

	owners := make(map[string]string, len(cfg.Entries))
	for _, e := range cfg.Entries {
		id := strings.TrimSpace(e.AssistantID)
		addr := strings.TrimSpace(e.Address)
		if id == "" || !validation.ValidateEmail(addr) {
			return nil, errors.NewRoutingConfigInvalidError(fmt.Sprintf("entry %q -> %q is not valid", e.AssistantID, e.Address))
		}
		if _, dup := owners[id]; dup {
			return nil, errors.NewRoutingConfigInvalidError(fmt.Sprintf("duplicate assistant %q", id))
		}
		owners[id] = addr
	}

	return &Table{admin: admin, fallback: fallback, owners: owners}, nil
}

func (t *Table) Admin() string {
	return t.admin
}

// Lookup returns the owner address routed for an assistant.
func (t *Table) Lookup(assistantID string) (string, bool) {
	addr, ok := t.owners[assistantID]
	return addr, ok
}

// Recipients returns the admin address followed by the routed owner, or
// the fallback address when the assistant is unknown and a fallback is
// configured. Duplicates are dropped, order is kept.
func (t *Table) Recipients(assistantID string) []string {
	recipients := []string{t.admin}

	owner, ok := t.Lookup(assistantID)
	if !ok {
		owner = t.fallback
	}
	if owner != "" && !strings.EqualFold(owner, t.admin) {
		recipients = append(recipients, owner)
	}
	return recipients
}

// Len returns the number of routed assistants.
func (t *Table) Len() int {
	return len(t.owners)
}
