package cli

import (
	"context"
	"strconv"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/joshuacasinadaptica/NexusPM/internal/service"
	"github.com/joshuacasinadaptica/NexusPM/internal/store"
	"github.com/joshuacasinadaptica/NexusPM/internal/task"
)

func taskAddCmd(application *app) *Command {
	flags := flag.NewFlagSet("add", flag.ContinueOnError)
	projectKey := flags.StringP("project", "p", "", "project key (required)")
	priority := flags.Int("priority", task.DefaultPriority, "priority 1-4 (1 = highest)")
	assignee := flags.StringP("assignee", "a", "", "assignee name")
	startsOn := flags.String("starts", "", "start date (YYYY-MM-DD)")
	dueOn := flags.String("due", "", "due date (YYYY-MM-DD)")

	return &Command{
		Flags: flags,
		Group: "task",
		Usage: "add -p <project> <title>",
		Short: "Create a task",
		Long:  "Create a task in a project. New tasks start in the workflow's initial status.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := requireArgs(args, 1, "task add -p <project> <title>"); err != nil {
				return err
			}

			services, err := application.svc(ctx)
			if err != nil {
				return err
			}

			t, err := services.Tasks.Create(ctx, service.CreateTaskInput{
				ProjectKey: *projectKey,
				Title:      strings.Join(args, " "),
				Priority:   *priority,
				Assignee:   *assignee,
				StartsOn:   *startsOn,
				DueOn:      *dueOn,
			})
			if err != nil {
				return err
			}

			o.Println("Created task", t.ID, "["+t.Status+"]")

			return nil
		},
	}
}

func taskLsCmd(application *app) *Command {
	flags := flag.NewFlagSet("ls", flag.ContinueOnError)
	projectKey := flags.StringP("project", "p", "", "filter by project key")
	status := flags.StringP("status", "s", "", "filter by status")
	assignee := flags.StringP("assignee", "a", "", "filter by assignee")
	priority := flags.Int("priority", 0, "filter by priority (0 = any)")
	limit := flags.Int("limit", 0, "max tasks to show (0 = all)")
	offset := flags.Int("offset", 0, "skip first N tasks")

	return &Command{
		Flags: flags,
		Group: "task",
		Usage: "ls [flags]",
		Short: "List tasks",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			services, err := application.svc(ctx)
			if err != nil {
				return err
			}

			tasks, err := services.Tasks.List(ctx, *projectKey, store.TaskQuery{
				Status:   *status,
				Assignee: *assignee,
				Priority: *priority,
				Limit:    *limit,
				Offset:   *offset,
			})
			if err != nil {
				return err
			}

			for _, t := range tasks {
				o.Println(formatTaskLine(t))
			}

			return nil
		},
	}
}

func taskShowCmd(application *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("show", flag.ContinueOnError),
		Group: "task",
		Usage: "show <id>",
		Short: "Show a task",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := requireArgs(args, 1, "task show <id>"); err != nil {
				return err
			}

			services, err := application.svc(ctx)
			if err != nil {
				return err
			}

			t, err := services.Tasks.Get(ctx, args[0])
			if err != nil {
				return err
			}

			o.Println("id:      ", t.ID)
			o.Println("title:   ", t.Title)
			o.Println("status:  ", t.Status)
			o.Println("priority:", "P"+strconv.Itoa(t.Priority))

			if t.Assignee != "" {
				o.Println("assignee:", t.Assignee)
			}

			if t.StartsOn != "" {
				o.Println("starts:  ", t.StartsOn)
			}

			if t.DueOn != "" {
				o.Println("due:     ", t.DueOn)
			}

			if len(t.DependsOn) > 0 {
				o.Println("depends: ", strings.Join(t.DependsOn, ", "))
			}

			return nil
		},
	}
}

func taskMoveCmd(application *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("move", flag.ContinueOnError),
		Group: "task",
		Usage: "move <id> <status>",
		Short: "Change a task's status",
		Long:  "Change a task's status. The move must be legal in the task workflow.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := requireArgs(args, 2, "task move <id> <status>"); err != nil {
				return err
			}

			services, err := application.svc(ctx)
			if err != nil {
				return err
			}

			accepted, err := services.Tasks.Move(ctx, args[0], args[1])
			if err != nil {
				return err
			}

			o.Println("Moved", args[0], "to", accepted)

			return nil
		},
	}
}

func taskDepCmd(application *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("dep", flag.ContinueOnError),
		Group: "task",
		Usage: "dep <id> <dep-id>...",
		Short: "Add task dependencies",
		Long: "Add dependencies to a task. Every dependency must exist in the same project\n" +
			"and the resulting graph must stay acyclic.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := requireArgs(args, 2, "task dep <id> <dep-id>..."); err != nil {
				return err
			}

			services, err := application.svc(ctx)
			if err != nil {
				return err
			}

			deps, err := services.Tasks.AddDependency(ctx, args[0], args[1:]...)
			if err != nil {
				return err
			}

			o.Println("Task", args[0], "now depends on:", strings.Join(deps, ", "))

			return nil
		},
	}
}

func taskUndepCmd(application *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("undep", flag.ContinueOnError),
		Group: "task",
		Usage: "undep <id> <dep-id>",
		Short: "Remove a task dependency",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := requireArgs(args, 2, "task undep <id> <dep-id>"); err != nil {
				return err
			}

			services, err := application.svc(ctx)
			if err != nil {
				return err
			}

			deps, err := services.Tasks.RemoveDependency(ctx, args[0], args[1])
			if err != nil {
				return err
			}

			if len(deps) == 0 {
				o.Println("Task", args[0], "has no dependencies left")

				return nil
			}

			o.Println("Task", args[0], "now depends on:", strings.Join(deps, ", "))

			return nil
		},
	}
}

func taskReadyCmd(application *app) *Command {
	flags := flag.NewFlagSet("ready", flag.ContinueOnError)
	projectKey := flags.StringP("project", "p", "", "filter by project key")

	return &Command{
		Flags: flags,
		Group: "task",
		Usage: "ready [-p <project>]",
		Short: "List actionable tasks",
		Long: "List tasks that can be worked on now: not in a final status, with every\n" +
			"dependency in a final status. Sorted by priority (P1 first), then by ID.",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			services, err := application.svc(ctx)
			if err != nil {
				return err
			}

			ready, warnings, err := services.Tasks.Ready(ctx, *projectKey)
			if err != nil {
				return err
			}

			for _, w := range warnings {
				o.Warn(w)
			}

			for _, r := range ready {
				o.Println(formatTaskLine(r.Task))
			}

			return nil
		},
	}
}

func formatTaskLine(t task.Task) string {
	var builder strings.Builder

	builder.WriteString(t.ID)
	builder.WriteString("  [P")
	builder.WriteString(strconv.Itoa(t.Priority))
	builder.WriteString("][")
	builder.WriteString(t.Status)
	builder.WriteString("] - ")
	builder.WriteString(t.Title)

	return builder.String()
}
