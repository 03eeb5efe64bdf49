// Package service is the application layer: it orchestrates the store, the
// workflow checker and the dependency validator. Every status change and
// every dependency edge goes through here; the store below never enforces
// business rules and the CLI above never touches the store directly.
package service

import (
	"context"
	"errors"

	"github.com/joshuacasinadaptica/NexusPM/internal/config"
	"github.com/joshuacasinadaptica/NexusPM/internal/store"
	"github.com/joshuacasinadaptica/NexusPM/internal/workflow"
)

// Services bundles the per-entity services over one store snapshot.
type Services struct {
	Projects *ProjectService
	Tasks    *TaskService
	Tickets  *TicketService
}

// New wires the services. The workflow set and flags are read-only for the
// lifetime of the services.
func New(st *store.Store, workflows *workflow.Set, flags config.Flags) *Services {
	return &Services{
		Projects: &ProjectService{store: st},
		Tasks:    &TaskService{store: st, workflows: workflows},
		Tickets:  &TicketService{store: st, workflows: workflows, enabled: flags.Tickets.Enabled},
	}
}

var (
	// ErrTicketsDisabled is returned by every TicketService method when
	// the tickets feature flag is off.
	ErrTicketsDisabled = errors.New("tickets are disabled (flags: tickets.enabled)")

	// ErrNotADependency is returned when removing an edge that isn't there.
	ErrNotADependency = errors.New("not a dependency")
)

// resolveProject maps a user-facing project key to its row.
func resolveProject(ctx context.Context, st *store.Store, key string) (string, error) {
	p, err := st.GetProjectByKey(ctx, key)
	if err != nil {
		return "", err
	}

	return p.ID, nil
}
