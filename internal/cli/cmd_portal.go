package cli

import (
	"context"
	"sort"
	"strconv"

	flag "github.com/spf13/pflag"
)

func portalCmd(application *app) *Command {
	flags := flag.NewFlagSet("portal", flag.ContinueOnError)
	withTasks := flags.Bool("tasks", false, "also list the project's tasks")

	return &Command{
		Flags: flags,
		Usage: "portal <project-key> [--tasks]",
		Short: "Client-facing project overview (read-only)",
		Long: "Print the read-only client view of a project: task counts by status,\n" +
			"completion percentage and open ticket count. Never mutates anything.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := requireArgs(args, 1, "portal <project-key>"); err != nil {
				return err
			}

			return execPortal(ctx, o, application, args[0], *withTasks)
		},
	}
}

func execPortal(ctx context.Context, o *IO, application *app, projectKey string, withTasks bool) error {
	p, err := application.portal(ctx)
	if err != nil {
		return err
	}

	overview, err := p.ProjectOverview(ctx, projectKey)
	if err != nil {
		return err
	}

	o.Println(overview.ProjectName, "("+overview.ProjectKey+")")
	o.Printf("  %d task(s), %d%% complete, %d open ticket(s)\n",
		overview.TotalTasks, overview.CompletionPct(), overview.OpenTickets)

	statuses := make([]string, 0, len(overview.TaskCounts))
	for status := range overview.TaskCounts {
		statuses = append(statuses, status)
	}

	sort.Strings(statuses)

	for _, status := range statuses {
		o.Printf("  %-12s %d\n", status, overview.TaskCounts[status])
	}

	if !withTasks {
		return nil
	}

	views, err := p.ProjectTasks(ctx, projectKey)
	if err != nil {
		return err
	}

	o.Println("")

	for _, v := range views {
		line := v.ID + "  [P" + strconv.Itoa(v.Priority) + "][" + v.Status + "] - " + v.Title

		if v.DueOn != "" {
			line += " (due " + v.DueOn + ")"
		}

		if v.Assignee != "" {
			line += " @" + v.Assignee
		}

		o.Println(line)
	}

	return nil
}
