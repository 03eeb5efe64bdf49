package workflow_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuacasinadaptica/NexusPM/internal/workflow"
)

func TestDefaultsTaskWorkflow(t *testing.T) {
	t.Parallel()

	set := workflow.Defaults()

	wf, err := set.ForKind(workflow.KindTask)
	require.NoError(t, err)

	assert.Equal(t, "backlog", wf.Initial())
	assert.Equal(t, []string{"backlog", "todo", "in_progress", "review", "done"}, wf.Statuses())
	assert.True(t, wf.IsFinal("done"))
	assert.True(t, wf.CanTransition("in_progress", "todo"), "work can move back to todo")
	assert.False(t, wf.CanTransition("backlog", "done"), "no shortcut to done")
}

func TestDefaultsTicketWorkflow(t *testing.T) {
	t.Parallel()

	set := workflow.Defaults()

	wf, err := set.ForKind(workflow.KindTicket)
	require.NoError(t, err)

	assert.Equal(t, "open", wf.Initial())
	assert.True(t, wf.IsFinal("closed"))
	assert.True(t, wf.CanTransition("open", "closed"), "tickets can be closed without triage")
	assert.True(t, wf.CanTransition("resolved", "in_progress"), "resolved tickets can reopen")
	assert.False(t, wf.CanTransition("closed", "open"))
}

func TestForKindUnknown(t *testing.T) {
	t.Parallel()

	set := workflow.Defaults()

	_, err := set.ForKind("epic")
	assert.Error(t, err)
}

func TestKindsStableOrder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"task", "ticket"}, workflow.Defaults().Kinds())
}

func TestParseJSONCWithComments(t *testing.T) {
	t.Parallel()

	data := []byte(`{
		// minimal two-state flow
		"task": {
			"statuses": ["open", "done"],
			"transitions": {
				"open": ["done"], // trailing comma below is fine too
			},
			"initial": "open",
		},
	}`)

	set, err := workflow.Parse(data, "test.json")
	require.NoError(t, err)

	wf, err := set.ForKind(workflow.KindTask)
	require.NoError(t, err)

	assert.Equal(t, "open", wf.Initial())
	assert.True(t, wf.CanTransition("open", "done"))
	assert.False(t, wf.CanTransition("done", "open"))
}

func TestParseRejectsMalformedFiles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: `statuses = ["open"]`},
		{name: "empty object", data: `{}`},
		{name: "missing statuses", data: `{"task": {"transitions": {}, "initial": "open"}}`},
		{name: "missing initial", data: `{"task": {"statuses": ["open"], "transitions": {}}}`},
		{name: "empty statuses", data: `{"task": {"statuses": [], "transitions": {}, "initial": "open"}}`},
		{name: "unknown field", data: `{"task": {"statuses": ["open"], "transitions": {}, "initial": "open", "final": "open"}}`},
		{name: "non-string status", data: `{"task": {"statuses": [1], "transitions": {}, "initial": "open"}}`},
		{
			name: "initial outside statuses",
			data: `{"task": {"statuses": ["open"], "transitions": {}, "initial": "done"}}`,
		},
		{
			name: "transition to unknown status",
			data: `{"task": {"statuses": ["open"], "transitions": {"open": ["done"]}, "initial": "open"}}`,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := workflow.Parse([]byte(tt.data), "test.json")
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "workflows.json")

	content := `{
		"task": {
			"statuses": ["queued", "running", "finished"],
			"transitions": {
				"queued": ["running"],
				"running": ["finished"]
			},
			"initial": "queued"
		},
		"ticket": {
			"statuses": ["open", "closed"],
			"transitions": {"open": ["closed"]},
			"initial": "open"
		}
	}`

	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	set, err := workflow.Load(path)
	require.NoError(t, err)

	wf, err := set.ForKind(workflow.KindTask)
	require.NoError(t, err)

	assert.Equal(t, "queued", wf.Initial())
	assert.True(t, wf.IsFinal("finished"))
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := workflow.Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
