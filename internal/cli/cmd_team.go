package cli

import (
	"context"

	flag "github.com/spf13/pflag"
)

func teamAddCmd(application *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("add", flag.ContinueOnError),
		Group: "team",
		Usage: "add <name>",
		Short: "Create a team",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := requireArgs(args, 1, "team add <name>"); err != nil {
				return err
			}

			services, err := application.svc(ctx)
			if err != nil {
				return err
			}

			t, err := services.Projects.CreateTeam(ctx, args[0])
			if err != nil {
				return err
			}

			o.Println("Created team", t.Name, "("+t.ID+")")

			return nil
		},
	}
}

func teamLsCmd(application *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("ls", flag.ContinueOnError),
		Group: "team",
		Usage: "ls",
		Short: "List teams with member and project counts",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			services, err := application.svc(ctx)
			if err != nil {
				return err
			}

			teams, err := services.Projects.ListTeams(ctx)
			if err != nil {
				return err
			}

			for _, t := range teams {
				o.Printf("%-20s %d member(s), %d project(s)\n", t.Team.Name, t.Members, t.Projects)
			}

			return nil
		},
	}
}

func teamJoinCmd(application *app) *Command {
	flags := flag.NewFlagSet("join", flag.ContinueOnError)
	role := flags.StringP("role", "r", "", "member role")

	return &Command{
		Flags: flags,
		Group: "team",
		Usage: "join <team> <member-name>",
		Short: "Add a member to a team",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := requireArgs(args, 2, "team join <team> <member-name>"); err != nil {
				return err
			}

			services, err := application.svc(ctx)
			if err != nil {
				return err
			}

			m, err := services.Projects.AddMember(ctx, args[0], args[1], *role)
			if err != nil {
				return err
			}

			o.Println("Added", m.Name, "to", args[0])

			return nil
		},
	}
}

func teamAssignCmd(application *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("assign", flag.ContinueOnError),
		Group: "team",
		Usage: "assign <team> <project-key>",
		Short: "Assign a team to a project",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := requireArgs(args, 2, "team assign <team> <project-key>"); err != nil {
				return err
			}

			services, err := application.svc(ctx)
			if err != nil {
				return err
			}

			if err := services.Projects.AssignTeam(ctx, args[0], args[1]); err != nil {
				return err
			}

			o.Println("Assigned", args[0], "to", args[1])

			return nil
		},
	}
}
