package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/joshuacasinadaptica/NexusPM/internal/dependency"
	"github.com/joshuacasinadaptica/NexusPM/internal/ident"
	"github.com/joshuacasinadaptica/NexusPM/internal/store"
	"github.com/joshuacasinadaptica/NexusPM/internal/task"
	"github.com/joshuacasinadaptica/NexusPM/internal/workflow"
)

// TaskService owns every task mutation. Status changes consult the task
// workflow; dependency edges consult the validator over a project-scoped
// snapshot, so cross-project edges come back as unknown dependencies.
type TaskService struct {
	store     *store.Store
	workflows *workflow.Set
}

// CreateTaskInput holds the caller-supplied task fields.
type CreateTaskInput struct {
	ProjectKey string
	Title      string
	Priority   int
	Assignee   string
	StartsOn   string
	DueOn      string
}

// Create inserts a new task. The initial status comes from the task
// workflow; callers cannot choose it.
func (s *TaskService) Create(ctx context.Context, in CreateTaskInput) (task.Task, error) {
	wf, err := s.workflows.ForKind(workflow.KindTask)
	if err != nil {
		return task.Task{}, err
	}

	projectID, err := resolveProject(ctx, s.store, in.ProjectKey)
	if err != nil {
		return task.Task{}, err
	}

	priority := in.Priority
	if priority == 0 {
		priority = task.DefaultPriority
	}

	t := task.Task{
		ProjectID: projectID,
		Title:     in.Title,
		Status:    wf.Initial(),
		Priority:  priority,
		Assignee:  in.Assignee,
		StartsOn:  in.StartsOn,
		DueOn:     in.DueOn,
		Created:   time.Now().UTC(),
	}

	if err := t.Validate(); err != nil {
		return task.Task{}, err
	}

	t.ID, err = ident.Unique(func(id string) bool { return s.store.TaskExists(ctx, id) })
	if err != nil {
		return task.Task{}, err
	}

	if err := s.store.CreateTask(ctx, t); err != nil {
		return task.Task{}, err
	}

	return t, nil
}

// Get loads a task with its dependencies.
func (s *TaskService) Get(ctx context.Context, id string) (task.Task, error) {
	return s.store.GetTask(ctx, id)
}

// List returns tasks matching the query. ProjectKey, when set, is resolved
// to the project filter.
func (s *TaskService) List(ctx context.Context, projectKey string, opts store.TaskQuery) ([]task.Task, error) {
	if projectKey != "" {
		projectID, err := resolveProject(ctx, s.store, projectKey)
		if err != nil {
			return nil, err
		}

		opts.ProjectID = projectID
	}

	return s.store.ListTasks(ctx, opts)
}

// Move validates a status change against the task workflow and persists it.
// Returns the accepted status.
func (s *TaskService) Move(ctx context.Context, id, proposed string) (string, error) {
	wf, err := s.workflows.ForKind(workflow.KindTask)
	if err != nil {
		return "", err
	}

	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return "", err
	}

	accepted, err := wf.Transition(t.Status, proposed)
	if err != nil {
		return "", err
	}

	if accepted == t.Status {
		return accepted, nil // idempotent no-op, nothing to persist
	}

	if err := s.store.UpdateTaskStatus(ctx, id, accepted); err != nil {
		return "", err
	}

	return accepted, nil
}

// SetDependencies replaces the task's dependency set after validating it
// against the project's task graph.
func (s *TaskService) SetDependencies(ctx context.Context, id string, deps []string) ([]string, error) {
	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.projectSnapshot(ctx, t.ProjectID)
	if err != nil {
		return nil, err
	}

	validated, err := dependency.Validate(id, snapshot, deps)
	if err != nil {
		return nil, err
	}

	if err := s.store.ReplaceTaskDeps(ctx, id, validated); err != nil {
		return nil, err
	}

	return validated, nil
}

// AddDependency appends dependencies to the task's existing set.
func (s *TaskService) AddDependency(ctx context.Context, id string, deps ...string) ([]string, error) {
	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.SetDependencies(ctx, id, append(slices.Clone(t.DependsOn), deps...))
}

// RemoveDependency drops one dependency from the task's set. Removing an
// edge can never introduce a cycle, but the result is validated anyway so a
// graph already broken by hand shows up here rather than later.
func (s *TaskService) RemoveDependency(ctx context.Context, id, dep string) ([]string, error) {
	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	if !slices.Contains(t.DependsOn, dep) {
		return nil, fmt.Errorf("%w: %s does not depend on %s", ErrNotADependency, id, dep)
	}

	remaining := make([]string, 0, len(t.DependsOn)-1)

	for _, d := range t.DependsOn {
		if d != dep {
			remaining = append(remaining, d)
		}
	}

	return s.SetDependencies(ctx, id, remaining)
}

// ReadyTask is a task that can be started now.
type ReadyTask struct {
	Task task.Task
}

// Ready lists tasks in the project that are not in a final status and whose
// dependencies are all final. A dependency id that no longer resolves is
// treated as satisfied, with a warning, so one deleted task cannot wedge a
// whole project. Results are sorted by priority (P1 first), then ID.
func (s *TaskService) Ready(ctx context.Context, projectKey string) ([]ReadyTask, []string, error) {
	wf, err := s.workflows.ForKind(workflow.KindTask)
	if err != nil {
		return nil, nil, err
	}

	tasks, err := s.List(ctx, projectKey, store.TaskQuery{})
	if err != nil {
		return nil, nil, err
	}

	statusByID := make(map[string]string, len(tasks))
	for _, t := range tasks {
		statusByID[t.ID] = t.Status
	}

	var (
		ready    []ReadyTask
		warnings []string
	)

	for _, t := range tasks {
		if wf.IsFinal(t.Status) {
			continue
		}

		blocked := false

		for _, dep := range t.DependsOn {
			status, exists := statusByID[dep]
			if !exists {
				warnings = append(warnings, fmt.Sprintf(
					"%s depends on missing task %s (treating as satisfied)", t.ID, dep))

				continue
			}

			if !wf.IsFinal(status) {
				blocked = true

				break
			}
		}

		if !blocked {
			ready = append(ready, ReadyTask{Task: t})
		}
	}

	slices.SortFunc(ready, func(a, b ReadyTask) int {
		if a.Task.Priority != b.Task.Priority {
			return a.Task.Priority - b.Task.Priority
		}

		return compareID(a.Task.ID, b.Task.ID)
	})

	return ready, warnings, nil
}

// projectSnapshot loads the minimal task view the validator needs, scoped to
// one project.
func (s *TaskService) projectSnapshot(ctx context.Context, projectID string) ([]dependency.Task, error) {
	tasks, err := s.store.ListTasks(ctx, store.TaskQuery{ProjectID: projectID})
	if err != nil {
		return nil, err
	}

	snapshot := make([]dependency.Task, len(tasks))
	for i, t := range tasks {
		snapshot[i] = dependency.Task{ID: t.ID, DependsOn: t.DependsOn}
	}

	return snapshot, nil
}

func compareID(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
