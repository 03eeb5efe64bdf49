package cli

import (
	"context"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/joshuacasinadaptica/NexusPM/internal/config"
)

func printConfigCmd(application *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("print-config", flag.ContinueOnError),
		Usage: "print-config",
		Short: "Show resolved configuration",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			return execPrintConfig(o, application.cfg)
		},
	}
}

func execPrintConfig(o *IO, cfg config.Config) error {
	formatted, err := config.Format(cfg)
	if err != nil {
		return err
	}

	o.Println(formatted)

	o.Println("")
	o.Println("# Sources:")

	if cfg.Sources.Global != "" {
		o.Println("#   global:", cfg.Sources.Global)
	}

	if cfg.Sources.Project != "" {
		o.Println("#   project:", cfg.Sources.Project)
	}

	if cfg.Sources.Global == "" && cfg.Sources.Project == "" {
		o.Println("#   (using defaults only)")
	}

	return nil
}

func workflowsCmd(application *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("workflows", flag.ContinueOnError),
		Usage: "workflows",
		Short: "Show configured status workflows",
		Long:  "Print each entity kind's statuses and the legal transitions between them.",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			return execWorkflows(o, application)
		},
	}
}

func execWorkflows(o *IO, application *app) error {
	set, err := application.workflowSet()
	if err != nil {
		return err
	}

	for _, kind := range set.Kinds() {
		wf, err := set.ForKind(kind)
		if err != nil {
			return err
		}

		o.Println(kind + ":")
		o.Println("  statuses:", strings.Join(wf.Statuses(), ", "))
		o.Println("  initial: ", wf.Initial())

		for _, status := range wf.Statuses() {
			next := wf.Next(status)
			if len(next) == 0 {
				o.Printf("  %s -> (final)\n", status)

				continue
			}

			o.Printf("  %s -> %s\n", status, strings.Join(next, ", "))
		}

		o.Println("")
	}

	return nil
}
