// Package portal builds the read-only client views: per-project overviews
// and a sanitized task list. It only reads from the store and is gated by
// the portal feature flag.
package portal

import (
	"context"
	"errors"

	"github.com/joshuacasinadaptica/NexusPM/internal/config"
	"github.com/joshuacasinadaptica/NexusPM/internal/store"
	"github.com/joshuacasinadaptica/NexusPM/internal/workflow"
)

// ErrDisabled is returned when the portal feature flag is off.
var ErrDisabled = errors.New("portal is disabled (flags: portal.enabled)")

// Overview is the client-facing summary of one project.
type Overview struct {
	ProjectKey  string
	ProjectName string
	TaskCounts  map[string]int // status -> count
	TotalTasks  int
	DoneTasks   int
	OpenTickets int
}

// CompletionPct returns the share of tasks in a final status, 0-100.
func (o Overview) CompletionPct() int {
	if o.TotalTasks == 0 {
		return 0
	}

	return o.DoneTasks * 100 / o.TotalTasks
}

// TaskView is a task stripped to client-visible fields. Assignee stays empty
// unless the portal.show_assignees flag is set.
type TaskView struct {
	ID       string
	Title    string
	Status   string
	Priority int
	Assignee string
	DueOn    string
}

// Portal answers read-only client queries.
type Portal struct {
	store     *store.Store
	workflows *workflow.Set
	flags     config.PortalFlags
}

// New builds a portal. Construction never fails; every method returns
// ErrDisabled when the flag is off.
func New(st *store.Store, workflows *workflow.Set, flags config.PortalFlags) *Portal {
	return &Portal{store: st, workflows: workflows, flags: flags}
}

// ProjectOverview summarizes one project by key.
func (p *Portal) ProjectOverview(ctx context.Context, projectKey string) (Overview, error) {
	if !p.flags.Enabled {
		return Overview{}, ErrDisabled
	}

	proj, err := p.store.GetProjectByKey(ctx, projectKey)
	if err != nil {
		return Overview{}, err
	}

	taskCounts, err := p.store.TaskStatusCounts(ctx, proj.ID)
	if err != nil {
		return Overview{}, err
	}

	wf, err := p.workflows.ForKind(workflow.KindTask)
	if err != nil {
		return Overview{}, err
	}

	overview := Overview{
		ProjectKey:  proj.Key,
		ProjectName: proj.Name,
		TaskCounts:  taskCounts,
	}

	for status, count := range taskCounts {
		overview.TotalTasks += count

		if wf.IsFinal(status) {
			overview.DoneTasks += count
		}
	}

	ticketCounts, err := p.store.TicketStatusCounts(ctx, proj.ID)
	if err != nil {
		return Overview{}, err
	}

	ticketWf, err := p.workflows.ForKind(workflow.KindTicket)
	if err != nil {
		return Overview{}, err
	}

	for status, count := range ticketCounts {
		if !ticketWf.IsFinal(status) {
			overview.OpenTickets += count
		}
	}

	return overview, nil
}

// ProjectTasks lists a project's tasks in client-visible form, ordered by ID.
func (p *Portal) ProjectTasks(ctx context.Context, projectKey string) ([]TaskView, error) {
	if !p.flags.Enabled {
		return nil, ErrDisabled
	}

	proj, err := p.store.GetProjectByKey(ctx, projectKey)
	if err != nil {
		return nil, err
	}

	tasks, err := p.store.ListTasks(ctx, store.TaskQuery{ProjectID: proj.ID})
	if err != nil {
		return nil, err
	}

	views := make([]TaskView, len(tasks))

	for i, t := range tasks {
		views[i] = TaskView{
			ID:       t.ID,
			Title:    t.Title,
			Status:   t.Status,
			Priority: t.Priority,
			DueOn:    t.DueOn,
		}

		if p.flags.ShowAssignees {
			views[i].Assignee = t.Assignee
		}
	}

	return views, nil
}
