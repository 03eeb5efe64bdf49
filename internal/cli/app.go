package cli

import (
	"context"
	"fmt"

	"github.com/joshuacasinadaptica/NexusPM/internal/config"
	"github.com/joshuacasinadaptica/NexusPM/internal/portal"
	"github.com/joshuacasinadaptica/NexusPM/internal/service"
	"github.com/joshuacasinadaptica/NexusPM/internal/store"
	"github.com/joshuacasinadaptica/NexusPM/internal/workflow"
)

// app holds lazily initialized shared state for one invocation. Commands
// that never touch the store (init, print-config) must not force a database
// to exist, so everything heavier than the config is opened on first use.
type app struct {
	cfg config.Config

	st        *store.Store
	workflows *workflow.Set
	flags     *config.Flags
	services  *service.Services
}

func newApp(cfg config.Config) *app {
	return &app{cfg: cfg}
}

// close releases the store if it was opened.
func (a *app) close() {
	if a.st != nil {
		_ = a.st.Close()
	}
}

func (a *app) store(ctx context.Context) (*store.Store, error) {
	if a.st != nil {
		return a.st, nil
	}

	st, err := store.Open(ctx, a.cfg.DataDirAbs)
	if err != nil {
		return nil, err
	}

	a.st = st

	return st, nil
}

func (a *app) workflowSet() (*workflow.Set, error) {
	if a.workflows != nil {
		return a.workflows, nil
	}

	path := a.cfg.WorkflowsPath()
	if path == "" {
		a.workflows = workflow.Defaults()

		return a.workflows, nil
	}

	set, err := workflow.Load(path)
	if err != nil {
		return nil, err
	}

	a.workflows = set

	return set, nil
}

func (a *app) featureFlags() (config.Flags, error) {
	if a.flags != nil {
		return *a.flags, nil
	}

	flags, err := config.LoadFlags(a.cfg.FlagsPath())
	if err != nil {
		return config.Flags{}, err
	}

	a.flags = &flags

	return flags, nil
}

// svc wires the service layer on first use.
func (a *app) svc(ctx context.Context) (*service.Services, error) {
	if a.services != nil {
		return a.services, nil
	}

	st, err := a.store(ctx)
	if err != nil {
		return nil, err
	}

	workflows, err := a.workflowSet()
	if err != nil {
		return nil, err
	}

	flags, err := a.featureFlags()
	if err != nil {
		return nil, err
	}

	a.services = service.New(st, workflows, flags)

	return a.services, nil
}

// portal wires the read-only portal.
func (a *app) portal(ctx context.Context) (*portal.Portal, error) {
	st, err := a.store(ctx)
	if err != nil {
		return nil, err
	}

	workflows, err := a.workflowSet()
	if err != nil {
		return nil, err
	}

	flags, err := a.featureFlags()
	if err != nil {
		return nil, err
	}

	return portal.New(st, workflows, flags.Portal), nil
}

// requireArgs fails with a usage-style error when fewer than want positional
// args are present.
func requireArgs(args []string, want int, usage string) error {
	if len(args) < want {
		return fmt.Errorf("%w: usage: nexuspm %s", errMissingArgs, usage)
	}

	return nil
}
