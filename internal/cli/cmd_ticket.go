package cli

import (
	"context"
	"strconv"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/joshuacasinadaptica/NexusPM/internal/service"
	"github.com/joshuacasinadaptica/NexusPM/internal/store"
	"github.com/joshuacasinadaptica/NexusPM/internal/ticket"
)

func ticketAddCmd(application *app) *Command {
	flags := flag.NewFlagSet("add", flag.ContinueOnError)
	projectKey := flags.StringP("project", "p", "", "project key (required)")
	priority := flags.Int("priority", ticket.DefaultPriority, "priority 1-4 (1 = highest)")
	requester := flags.StringP("requester", "r", "", "who reported it")

	return &Command{
		Flags: flags,
		Group: "ticket",
		Usage: "add -p <project> <title>",
		Short: "Create a ticket",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := requireArgs(args, 1, "ticket add -p <project> <title>"); err != nil {
				return err
			}

			services, err := application.svc(ctx)
			if err != nil {
				return err
			}

			t, err := services.Tickets.Create(ctx, service.CreateTicketInput{
				ProjectKey: *projectKey,
				Title:      strings.Join(args, " "),
				Priority:   *priority,
				Requester:  *requester,
			})
			if err != nil {
				return err
			}

			o.Println("Created ticket", t.ID, "["+t.Status+"]")

			return nil
		},
	}
}

func ticketLsCmd(application *app) *Command {
	flags := flag.NewFlagSet("ls", flag.ContinueOnError)
	projectKey := flags.StringP("project", "p", "", "filter by project key")
	status := flags.StringP("status", "s", "", "filter by status")
	limit := flags.Int("limit", 0, "max tickets to show (0 = all)")

	return &Command{
		Flags: flags,
		Group: "ticket",
		Usage: "ls [flags]",
		Short: "List tickets",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			services, err := application.svc(ctx)
			if err != nil {
				return err
			}

			tickets, err := services.Tickets.List(ctx, *projectKey, store.TicketQuery{
				Status: *status,
				Limit:  *limit,
			})
			if err != nil {
				return err
			}

			for _, t := range tickets {
				o.Println(formatTicketLine(t))
			}

			return nil
		},
	}
}

func ticketMoveCmd(application *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("move", flag.ContinueOnError),
		Group: "ticket",
		Usage: "move <id> <status>",
		Short: "Change a ticket's status",
		Long:  "Change a ticket's status. The move must be legal in the ticket workflow.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := requireArgs(args, 2, "ticket move <id> <status>"); err != nil {
				return err
			}

			services, err := application.svc(ctx)
			if err != nil {
				return err
			}

			accepted, err := services.Tickets.Move(ctx, args[0], args[1])
			if err != nil {
				return err
			}

			o.Println("Moved", args[0], "to", accepted)

			return nil
		},
	}
}

func formatTicketLine(t ticket.Ticket) string {
	var builder strings.Builder

	builder.WriteString(t.ID)
	builder.WriteString("  [P")
	builder.WriteString(strconv.Itoa(t.Priority))
	builder.WriteString("][")
	builder.WriteString(t.Status)
	builder.WriteString("] - ")
	builder.WriteString(t.Title)

	if t.Requester != "" {
		builder.WriteString(" (from ")
		builder.WriteString(t.Requester)
		builder.WriteString(")")
	}

	return builder.String()
}
