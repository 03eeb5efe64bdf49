package cli

import (
	"context"

	flag "github.com/spf13/pflag"
)

func projectAddCmd(application *app) *Command {
	flags := flag.NewFlagSet("add", flag.ContinueOnError)
	desc := flags.StringP("description", "d", "", "project description")

	return &Command{
		Flags: flags,
		Group: "project",
		Usage: "add <key> <name>",
		Short: "Create a project",
		Long:  "Create a project. The key is a short slug used to reference the project everywhere.",
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if err := requireArgs(args, 2, "project add <key> <name>"); err != nil {
				return err
			}

			services, err := application.svc(ctx)
			if err != nil {
				return err
			}

			p, err := services.Projects.CreateProject(ctx, args[0], args[1], *desc)
			if err != nil {
				return err
			}

			o.Println("Created project", p.Key, "("+p.ID+")")

			return nil
		},
	}
}

func projectLsCmd(application *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("ls", flag.ContinueOnError),
		Group: "project",
		Usage: "ls",
		Short: "List projects",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			services, err := application.svc(ctx)
			if err != nil {
				return err
			}

			projects, err := services.Projects.ListProjects(ctx)
			if err != nil {
				return err
			}

			for _, p := range projects {
				o.Printf("%-16s %s\n", p.Key, p.Name)
			}

			return nil
		},
	}
}
