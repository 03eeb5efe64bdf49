package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	flag "github.com/spf13/pflag"

	"github.com/joshuacasinadaptica/NexusPM/internal/config"
)

var errAlreadyInitialized = errors.New("already initialized")

// configSeed is the project config written by init. JSONC so users can keep
// the comments.
const configSeed = `{
	// Directory holding the nexuspm database.
	"data_dir": ".nexuspm",

	// Uncomment to customize status workflows:
	// "workflows_file": "workflows.jsonc",

	// Uncomment to toggle features:
	// "flags_file": "flags.toml",
}
`

// workflowsSeed mirrors the built-in defaults so users can start editing
// from a working file.
const workflowsSeed = `{
	"task": {
		"statuses": ["backlog", "todo", "in_progress", "review", "done"],
		"initial": "backlog",
		"transitions": {
			"backlog": ["todo"],
			"todo": ["in_progress"],
			"in_progress": ["review", "todo"],
			"review": ["done", "in_progress"]
		}
	},
	"ticket": {
		"statuses": ["open", "triaged", "in_progress", "resolved", "closed"],
		"initial": "open",
		"transitions": {
			"open": ["triaged", "closed"],
			"triaged": ["in_progress", "closed"],
			"in_progress": ["resolved"],
			"resolved": ["closed", "in_progress"]
		}
	}
}
`

func initCmd(application *app) *Command {
	flags := flag.NewFlagSet("init", flag.ContinueOnError)
	withWorkflows := flags.Bool("workflows", false, "also write an editable workflows.jsonc")

	return &Command{
		Flags: flags,
		Usage: "init [--workflows]",
		Short: "Initialize nexuspm in the current directory",
		Long:  "Write a project config file and create the database.",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			return execInit(ctx, o, application, *withWorkflows)
		},
	}
}

func execInit(ctx context.Context, o *IO, application *app, withWorkflows bool) error {
	cfgPath := filepath.Join(application.cfg.EffectiveCwd, config.FileName)

	_, statErr := os.Stat(cfgPath)
	if statErr == nil {
		return fmt.Errorf("%w: %s exists", errAlreadyInitialized, config.FileName)
	}

	seed := configSeed
	if withWorkflows {
		seed = strings.Replace(seed,
			`// "workflows_file": "workflows.jsonc",`,
			`"workflows_file": "workflows.jsonc",`, 1)

		wfPath := filepath.Join(application.cfg.EffectiveCwd, "workflows.jsonc")

		err := atomic.WriteFile(wfPath, strings.NewReader(workflowsSeed))
		if err != nil {
			return fmt.Errorf("writing workflows file: %w", err)
		}

		o.Println("Wrote", "workflows.jsonc")
	}

	err := atomic.WriteFile(cfgPath, strings.NewReader(seed))
	if err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	// Create the database up front so the first real command doesn't pay
	// for schema creation.
	_, err = application.store(ctx)
	if err != nil {
		return err
	}

	o.Println("Wrote", config.FileName)
	o.Println("Initialized", application.cfg.DataDirAbs)

	return nil
}
