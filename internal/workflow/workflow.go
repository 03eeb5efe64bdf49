// Package workflow implements the configurable status workflow shared by
// tasks and tickets: an ordered status set plus a transition adjacency,
// checked before any status mutation.
package workflow

import (
	"errors"
	"fmt"
	"slices"
)

// Sentinel errors for errors.Is checks.
var (
	ErrUnknownStatus     = errors.New("unknown status")
	ErrIllegalTransition = errors.New("illegal transition")

	errNoStatuses        = errors.New("workflow has no statuses")
	errDuplicateStatus   = errors.New("duplicate status")
	errInitialNotDefined = errors.New("initial status not in status set")
	errTransitionUnknown = errors.New("transition references unknown status")
)

// UnknownStatusError reports a status value outside the configured set.
type UnknownStatusError struct {
	Kind   string
	Status string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown %s status: %q", e.Kind, e.Status)
}

func (e *UnknownStatusError) Unwrap() error { return ErrUnknownStatus }

// TransitionError reports a proposed status not reachable from the current one.
type TransitionError struct {
	Kind string
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal %s transition: %s -> %s", e.Kind, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrIllegalTransition }

// Workflow is a validated, read-only status workflow for one entity kind.
type Workflow struct {
	kind     string
	statuses []string
	initial  string
	adjacent map[string]map[string]struct{}
}

// New builds a workflow from an ordered status list, a transition adjacency
// (status -> allowed next statuses) and the initial status for new entities.
// Every status referenced by transitions must be a member of statuses.
func New(kind string, statuses []string, transitions map[string][]string, initial string) (*Workflow, error) {
	if len(statuses) == 0 {
		return nil, fmt.Errorf("%s workflow: %w", kind, errNoStatuses)
	}

	member := make(map[string]struct{}, len(statuses))

	for _, s := range statuses {
		if _, ok := member[s]; ok {
			return nil, fmt.Errorf("%s workflow: %w: %q", kind, errDuplicateStatus, s)
		}

		member[s] = struct{}{}
	}

	if _, ok := member[initial]; !ok {
		return nil, fmt.Errorf("%s workflow: %w: %q", kind, errInitialNotDefined, initial)
	}

	adjacent := make(map[string]map[string]struct{}, len(transitions))

	for from, targets := range transitions {
		if _, ok := member[from]; !ok {
			return nil, fmt.Errorf("%s workflow: %w: %q", kind, errTransitionUnknown, from)
		}

		set := make(map[string]struct{}, len(targets))

		for _, to := range targets {
			if _, ok := member[to]; !ok {
				return nil, fmt.Errorf("%s workflow: %w: %q -> %q", kind, errTransitionUnknown, from, to)
			}

			set[to] = struct{}{}
		}

		adjacent[from] = set
	}

	return &Workflow{
		kind:     kind,
		statuses: slices.Clone(statuses),
		initial:  initial,
		adjacent: adjacent,
	}, nil
}

// Kind returns the entity kind this workflow belongs to.
func (w *Workflow) Kind() string { return w.kind }

// Statuses returns the configured statuses in declaration order.
func (w *Workflow) Statuses() []string { return slices.Clone(w.statuses) }

// Initial returns the status assigned to newly created entities.
func (w *Workflow) Initial() string { return w.initial }

// Has reports whether status is a member of the configured status set.
func (w *Workflow) Has(status string) bool {
	return slices.Contains(w.statuses, status)
}

// IsFinal reports whether status has no outgoing transitions. Readiness
// queries treat dependencies in a final status as satisfied.
func (w *Workflow) IsFinal(status string) bool {
	return w.Has(status) && len(w.adjacent[status]) == 0
}

// Next returns the statuses reachable from current, in declaration order.
func (w *Workflow) Next(current string) []string {
	targets := w.adjacent[current]

	out := make([]string, 0, len(targets))

	for _, s := range w.statuses {
		if _, ok := targets[s]; ok {
			out = append(out, s)
		}
	}

	return out
}

// CanTransition reports whether proposed is reachable from current. A no-op
// transition (proposed == current) is always legal so idempotent re-saves
// never fail. Unknown statuses are never legal.
func (w *Workflow) CanTransition(current, proposed string) bool {
	if !w.Has(current) || !w.Has(proposed) {
		return false
	}

	if current == proposed {
		return true
	}

	_, ok := w.adjacent[current][proposed]

	return ok
}

// Transition validates a status change and returns the accepted new status.
// The caller applies it; the workflow mutates nothing.
func (w *Workflow) Transition(current, proposed string) (string, error) {
	if !w.Has(current) {
		return "", &UnknownStatusError{Kind: w.kind, Status: current}
	}

	if !w.Has(proposed) {
		return "", &UnknownStatusError{Kind: w.kind, Status: proposed}
	}

	if !w.CanTransition(current, proposed) {
		return "", &TransitionError{Kind: w.kind, From: current, To: proposed}
	}

	return proposed, nil
}
