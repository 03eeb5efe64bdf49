package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuacasinadaptica/NexusPM/internal/config"
	"github.com/joshuacasinadaptica/NexusPM/internal/dependency"
	"github.com/joshuacasinadaptica/NexusPM/internal/project"
	"github.com/joshuacasinadaptica/NexusPM/internal/service"
	"github.com/joshuacasinadaptica/NexusPM/internal/store"
	"github.com/joshuacasinadaptica/NexusPM/internal/task"
	"github.com/joshuacasinadaptica/NexusPM/internal/workflow"
)

func newServices(t *testing.T, flags config.Flags) (*service.Services, context.Context) {
	t.Helper()

	ctx := context.Background()

	st, err := store.Open(ctx, filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)

	t.Cleanup(func() { _ = st.Close() })

	return service.New(st, workflow.Defaults(), flags), ctx
}

func defaultServices(t *testing.T) (*service.Services, context.Context) {
	t.Helper()

	return newServices(t, config.DefaultFlags())
}

func seedProject(t *testing.T, svc *service.Services, ctx context.Context, key string) {
	t.Helper()

	_, err := svc.Projects.CreateProject(ctx, key, "Project "+key, "")
	require.NoError(t, err)
}

func createTask(t *testing.T, svc *service.Services, ctx context.Context, projectKey, title string, priority int) task.Task {
	t.Helper()

	created, err := svc.Tasks.Create(ctx, service.CreateTaskInput{
		ProjectKey: projectKey,
		Title:      title,
		Priority:   priority,
	})
	require.NoError(t, err)

	return created
}

func TestCreateProjectValidatesKey(t *testing.T) {
	t.Parallel()

	svc, ctx := defaultServices(t)

	_, err := svc.Projects.CreateProject(ctx, "Bad Key", "Name", "")
	assert.Error(t, err)

	_, err = svc.Projects.CreateProject(ctx, "web", "", "")
	assert.ErrorIs(t, err, project.ErrNameEmpty)
}

func TestCreateTaskStartsInInitialStatus(t *testing.T) {
	t.Parallel()

	svc, ctx := defaultServices(t)
	seedProject(t, svc, ctx, "web")

	created := createTask(t, svc, ctx, "web", "Design the homepage", 0)

	assert.Equal(t, "backlog", created.Status)
	assert.Equal(t, task.DefaultPriority, created.Priority, "zero priority falls back to the default")
	assert.NotEmpty(t, created.ID)

	got, err := svc.Tasks.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Design the homepage", got.Title)
}

func TestCreateTaskUnknownProject(t *testing.T) {
	t.Parallel()

	svc, ctx := defaultServices(t)

	_, err := svc.Tasks.Create(ctx, service.CreateTaskInput{ProjectKey: "ghost", Title: "X"})
	assert.ErrorIs(t, err, store.ErrProjectNotFound)
}

func TestMoveFollowsWorkflow(t *testing.T) {
	t.Parallel()

	svc, ctx := defaultServices(t)
	seedProject(t, svc, ctx, "web")
	created := createTask(t, svc, ctx, "web", "Task", 2)

	// backlog -> todo -> in_progress is legal step by step.
	accepted, err := svc.Tasks.Move(ctx, created.ID, "todo")
	require.NoError(t, err)
	assert.Equal(t, "todo", accepted)

	// todo -> review skips in_progress.
	_, err = svc.Tasks.Move(ctx, created.ID, "review")
	assert.ErrorIs(t, err, workflow.ErrIllegalTransition)

	_, err = svc.Tasks.Move(ctx, created.ID, "in_progress")
	require.NoError(t, err)

	accepted, err = svc.Tasks.Move(ctx, created.ID, "review")
	require.NoError(t, err)
	assert.Equal(t, "review", accepted)

	// Self transition is a legal no-op.
	accepted, err = svc.Tasks.Move(ctx, created.ID, "review")
	require.NoError(t, err)
	assert.Equal(t, "review", accepted)

	_, err = svc.Tasks.Move(ctx, created.ID, "limbo")
	assert.ErrorIs(t, err, workflow.ErrUnknownStatus)
}

func TestSetDependenciesValidates(t *testing.T) {
	t.Parallel()

	svc, ctx := defaultServices(t)
	seedProject(t, svc, ctx, "web")

	a := createTask(t, svc, ctx, "web", "A", 2)
	b := createTask(t, svc, ctx, "web", "B", 2)
	c := createTask(t, svc, ctx, "web", "C", 2)

	// a -> b -> c is fine.
	deps, err := svc.Tasks.SetDependencies(ctx, a.ID, []string{b.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID}, deps)

	_, err = svc.Tasks.SetDependencies(ctx, b.ID, []string{c.ID})
	require.NoError(t, err)

	// c -> a closes the loop.
	_, err = svc.Tasks.SetDependencies(ctx, c.ID, []string{a.ID})
	assert.ErrorIs(t, err, dependency.ErrCircularDependency)

	// Unknown and self edges are rejected.
	_, err = svc.Tasks.SetDependencies(ctx, a.ID, []string{"ghost"})
	assert.ErrorIs(t, err, dependency.ErrUnknownDependency)

	_, err = svc.Tasks.SetDependencies(ctx, a.ID, []string{a.ID})
	assert.ErrorIs(t, err, dependency.ErrSelfDependency)
}

func TestDependenciesAreProjectScoped(t *testing.T) {
	t.Parallel()

	svc, ctx := defaultServices(t)
	seedProject(t, svc, ctx, "web")
	seedProject(t, svc, ctx, "api")

	webTask := createTask(t, svc, ctx, "web", "Web task", 2)
	apiTask := createTask(t, svc, ctx, "api", "API task", 2)

	// A task in another project is outside the snapshot and therefore unknown.
	_, err := svc.Tasks.SetDependencies(ctx, webTask.ID, []string{apiTask.ID})
	assert.ErrorIs(t, err, dependency.ErrUnknownDependency)
}

func TestAddAndRemoveDependency(t *testing.T) {
	t.Parallel()

	svc, ctx := defaultServices(t)
	seedProject(t, svc, ctx, "web")

	a := createTask(t, svc, ctx, "web", "A", 2)
	b := createTask(t, svc, ctx, "web", "B", 2)
	c := createTask(t, svc, ctx, "web", "C", 2)

	deps, err := svc.Tasks.AddDependency(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID}, deps)

	deps, err = svc.Tasks.AddDependency(ctx, a.ID, c.ID)
	require.NoError(t, err)
	assert.Len(t, deps, 2)

	// Adding an existing edge again stays deduplicated.
	deps, err = svc.Tasks.AddDependency(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Len(t, deps, 2)

	deps, err = svc.Tasks.RemoveDependency(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.NotContains(t, deps, b.ID)

	_, err = svc.Tasks.RemoveDependency(ctx, a.ID, b.ID)
	assert.ErrorIs(t, err, service.ErrNotADependency)
}

func TestReady(t *testing.T) {
	t.Parallel()

	svc, ctx := defaultServices(t)
	seedProject(t, svc, ctx, "web")

	blocker := createTask(t, svc, ctx, "web", "Blocker", 3)
	blocked := createTask(t, svc, ctx, "web", "Blocked", 1)
	free := createTask(t, svc, ctx, "web", "Free", 2)

	_, err := svc.Tasks.SetDependencies(ctx, blocked.ID, []string{blocker.ID})
	require.NoError(t, err)

	ready, warnings, err := svc.Tasks.Ready(ctx, "web")
	require.NoError(t, err)
	assert.Empty(t, warnings)

	ids := readyIDs(ready)
	assert.Contains(t, ids, blocker.ID)
	assert.Contains(t, ids, free.ID)
	assert.NotContains(t, ids, blocked.ID, "blocked task waits for its dependency")

	// Finish the blocker; the blocked task becomes ready and the blocker
	// drops out.
	for _, status := range []string{"todo", "in_progress", "review", "done"} {
		_, err = svc.Tasks.Move(ctx, blocker.ID, status)
		require.NoError(t, err)
	}

	ready, warnings, err = svc.Tasks.Ready(ctx, "web")
	require.NoError(t, err)
	assert.Empty(t, warnings)

	ids = readyIDs(ready)
	assert.Contains(t, ids, blocked.ID)
	assert.NotContains(t, ids, blocker.ID, "finished tasks are not ready work")

	// P1 sorts before P2.
	assert.Equal(t, blocked.ID, ready[0].Task.ID)
}

func readyIDs(ready []service.ReadyTask) []string {
	ids := make([]string, len(ready))
	for i, r := range ready {
		ids[i] = r.Task.ID
	}

	return ids
}

func TestTicketLifecycle(t *testing.T) {
	t.Parallel()

	svc, ctx := defaultServices(t)
	seedProject(t, svc, ctx, "web")

	created, err := svc.Tickets.Create(ctx, service.CreateTicketInput{
		ProjectKey: "web",
		Title:      "Login broken",
		Requester:  "customer",
	})
	require.NoError(t, err)
	assert.Equal(t, "open", created.Status)

	// open -> resolved skips the flow.
	_, err = svc.Tickets.Move(ctx, created.ID, "resolved")
	assert.ErrorIs(t, err, workflow.ErrIllegalTransition)

	// open -> closed is the triage shortcut.
	accepted, err := svc.Tickets.Move(ctx, created.ID, "closed")
	require.NoError(t, err)
	assert.Equal(t, "closed", accepted)

	tickets, err := svc.Tickets.List(ctx, "web", store.TicketQuery{Status: "closed"})
	require.NoError(t, err)
	assert.Len(t, tickets, 1)
}

func TestTicketsDisabledFlag(t *testing.T) {
	t.Parallel()

	flags := config.DefaultFlags()
	flags.Tickets.Enabled = false

	svc, ctx := newServices(t, flags)
	seedProject(t, svc, ctx, "web")

	_, err := svc.Tickets.Create(ctx, service.CreateTicketInput{ProjectKey: "web", Title: "X"})
	assert.ErrorIs(t, err, service.ErrTicketsDisabled)

	_, err = svc.Tickets.List(ctx, "", store.TicketQuery{})
	assert.ErrorIs(t, err, service.ErrTicketsDisabled)

	_, err = svc.Tickets.Move(ctx, "any", "closed")
	assert.ErrorIs(t, err, service.ErrTicketsDisabled)
}

func TestTeamsFlow(t *testing.T) {
	t.Parallel()

	svc, ctx := defaultServices(t)
	seedProject(t, svc, ctx, "web")

	team, err := svc.Projects.CreateTeam(ctx, "platform")
	require.NoError(t, err)
	assert.NotEmpty(t, team.ID)

	_, err = svc.Projects.AddMember(ctx, "platform", "Ren", "lead")
	require.NoError(t, err)

	_, err = svc.Projects.AddMember(ctx, "ghost-team", "Kai", "")
	assert.ErrorIs(t, err, store.ErrTeamNotFound)

	require.NoError(t, svc.Projects.AssignTeam(ctx, "platform", "web"))

	teams, err := svc.Projects.ListTeams(ctx)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, 1, teams[0].Members)
	assert.Equal(t, 1, teams[0].Projects)
}
