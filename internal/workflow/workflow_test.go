package workflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuacasinadaptica/NexusPM/internal/workflow"
)

func taskWorkflow(t *testing.T) *workflow.Workflow {
	t.Helper()

	wf, err := workflow.New(
		"task",
		[]string{"backlog", "todo", "in_progress", "review", "done"},
		map[string][]string{
			"backlog":     {"todo"},
			"todo":        {"in_progress"},
			"in_progress": {"review", "todo"},
			"review":      {"done", "in_progress"},
		},
		"backlog",
	)
	require.NoError(t, err)

	return wf
}

func TestNewRejectsBadDefinitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		statuses    []string
		transitions map[string][]string
		initial     string
	}{
		{
			name:     "no statuses",
			statuses: nil,
			initial:  "open",
		},
		{
			name:     "duplicate status",
			statuses: []string{"open", "closed", "open"},
			initial:  "open",
		},
		{
			name:     "initial outside set",
			statuses: []string{"open", "closed"},
			initial:  "triaged",
		},
		{
			name:        "transition source outside set",
			statuses:    []string{"open", "closed"},
			transitions: map[string][]string{"triaged": {"closed"}},
			initial:     "open",
		},
		{
			name:        "transition target outside set",
			statuses:    []string{"open", "closed"},
			transitions: map[string][]string{"open": {"resolved"}},
			initial:     "open",
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := workflow.New("ticket", tt.statuses, tt.transitions, tt.initial)
			assert.Error(t, err)
		})
	}
}

func TestTransitionTable(t *testing.T) {
	t.Parallel()

	wf := taskWorkflow(t)

	tests := []struct {
		name    string
		from    string
		to      string
		wantErr error
	}{
		{name: "declared edge", from: "todo", to: "in_progress"},
		{name: "forward into review", from: "in_progress", to: "review"},
		{name: "backward out of review", from: "review", to: "in_progress"},
		{name: "finish", from: "review", to: "done"},
		{name: "self transition on declared edge", from: "todo", to: "todo"},
		{name: "self transition without declared edge", from: "done", to: "done"},
		{name: "skipping a status", from: "todo", to: "review", wantErr: workflow.ErrIllegalTransition},
		{name: "reopening done", from: "done", to: "todo", wantErr: workflow.ErrIllegalTransition},
		{name: "reverse of one-way edge", from: "todo", to: "backlog", wantErr: workflow.ErrIllegalTransition},
		{name: "unknown current", from: "limbo", to: "todo", wantErr: workflow.ErrUnknownStatus},
		{name: "unknown proposed", from: "todo", to: "limbo", wantErr: workflow.ErrUnknownStatus},
		{name: "unknown self transition", from: "limbo", to: "limbo", wantErr: workflow.ErrUnknownStatus},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := wf.Transition(tt.from, tt.to)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.to, got)
		})
	}
}

func TestCanTransitionMatchesTransition(t *testing.T) {
	t.Parallel()

	wf := taskWorkflow(t)

	for _, from := range append(wf.Statuses(), "limbo") {
		for _, to := range append(wf.Statuses(), "limbo") {
			_, err := wf.Transition(from, to)

			assert.Equal(t, err == nil, wf.CanTransition(from, to),
				"CanTransition(%q, %q) disagrees with Transition", from, to)
		}
	}
}

func TestNextReturnsDeclarationOrder(t *testing.T) {
	t.Parallel()

	wf := taskWorkflow(t)

	// in_progress declares review before todo, but statuses declare todo
	// before review; Next follows status order.
	assert.Equal(t, []string{"todo", "review"}, wf.Next("in_progress"))
	assert.Empty(t, wf.Next("done"))
	assert.Empty(t, wf.Next("limbo"))
}

func TestIsFinal(t *testing.T) {
	t.Parallel()

	wf := taskWorkflow(t)

	assert.True(t, wf.IsFinal("done"))
	assert.False(t, wf.IsFinal("review"))
	assert.False(t, wf.IsFinal("limbo"), "unknown status is never final")
}

func TestAccessors(t *testing.T) {
	t.Parallel()

	wf := taskWorkflow(t)

	assert.Equal(t, "task", wf.Kind())
	assert.Equal(t, "backlog", wf.Initial())
	assert.True(t, wf.Has("review"))
	assert.False(t, wf.Has("limbo"))

	statuses := wf.Statuses()
	statuses[0] = "mutated"
	assert.Equal(t, "backlog", wf.Statuses()[0], "Statuses must return a copy")
}

func TestTransitionErrorDetails(t *testing.T) {
	t.Parallel()

	wf := taskWorkflow(t)

	_, err := wf.Transition("todo", "review")

	var transitionErr *workflow.TransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, "task", transitionErr.Kind)
	assert.Equal(t, "todo", transitionErr.From)
	assert.Equal(t, "review", transitionErr.To)

	_, err = wf.Transition("limbo", "todo")

	var unknownErr *workflow.UnknownStatusError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "limbo", unknownErr.Status)
}
