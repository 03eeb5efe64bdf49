// Package cli implements the command-line interface for nexuspm.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joshuacasinadaptica/NexusPM/internal/config"
)

const helpFlag = "--help"

var (
	errUnknownCommand = errors.New("unknown command")
	errFlagNeedsArg   = errors.New("flag requires an argument")
	errUnknownFlag    = errors.New("unknown flag")
	errMissingArgs    = errors.New("missing arguments")
)

// Run is the main entry point. Returns exit code. sig, when non-nil, cancels
// the invocation's context (Ctrl-C during a long query).
func Run(stdin io.Reader, out, errOut io.Writer, args []string, env map[string]string, sig <-chan os.Signal) int {
	o := NewIO(out, errOut)

	flags, err := parseGlobalFlags(args[1:])
	if err != nil {
		o.ErrPrintln("error:", err)

		return 1
	}

	workDir := flags.workDir
	if workDir == "" {
		workDir, err = os.Getwd()
		if err != nil {
			o.ErrPrintln("error: cannot get working directory:", err)

			return 1
		}
	}

	cfg, err := config.Load(config.LoadInput{
		WorkDir:        workDir,
		ConfigPath:     flags.configPath,
		DataDirFlag:    flags.dataDir,
		HasDataDirFlag: flags.hasDataDirOverride,
		Env:            env,
	})
	if err != nil {
		o.ErrPrintln("error:", err)

		return 1
	}

	if len(flags.remaining) == 0 {
		printUsage(o, commandList(nil))

		return 0
	}

	name := flags.remaining[0]
	if name == "-h" || name == helpFlag {
		printUsage(o, commandList(nil))

		return 0
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sig != nil {
		go func() {
			<-sig
			cancel()
		}()
	}

	application := newApp(cfg)
	defer application.close()

	commands := commandList(application)

	cmd, rest, err := resolve(commands, flags.remaining)
	if err != nil {
		o.ErrPrintln("error:", err)
		printUsage(o, commands)

		return 1
	}

	if cmd.Name() == "shell" {
		// The shell dispatches back into the command set itself.
		return runShell(ctx, stdin, o, application, commands)
	}

	return cmd.Run(ctx, o, rest)
}

// resolve finds the command for an invocation: either a grouped command
// ("task add ...") or a top-level one ("portal ...").
func resolve(commands []*Command, args []string) (*Command, []string, error) {
	name := args[0]

	var groupHasMembers bool

	if len(args) > 1 {
		for _, c := range commands {
			if c.Group == name && c.Name() == args[1] {
				return c, args[2:], nil
			}
		}
	}

	for _, c := range commands {
		if c.Group == "" && c.Name() == name {
			return c, args[1:], nil
		}

		if c.Group == name {
			groupHasMembers = true
		}
	}

	if groupHasMembers {
		if len(args) > 1 {
			return nil, nil, fmt.Errorf("%w: %s %s", errUnknownCommand, name, args[1])
		}

		return nil, nil, fmt.Errorf("%w: %s needs a subcommand", errUnknownCommand, name)
	}

	return nil, nil, fmt.Errorf("%w: %s", errUnknownCommand, name)
}

type globalFlags struct {
	workDir            string
	configPath         string
	dataDir            string
	hasDataDirOverride bool
	remaining          []string
}

func parseGlobalFlags(args []string) (globalFlags, error) {
	var flags globalFlags

	idx := 0
	for idx < len(args) {
		consumed, err := parseFlag(args, idx, &flags)
		if err != nil {
			return globalFlags{}, err
		}

		if consumed == 0 {
			// Not a flag, this is the command
			flags.remaining = args[idx:]

			break
		}

		idx += consumed
	}

	return flags, nil
}

// parseFlag tries to parse a flag at args[idx]. Returns number of args consumed (0 if not a flag).
func parseFlag(args []string, idx int, flags *globalFlags) (int, error) {
	arg := args[idx]

	switch arg {
	case "-C", "--cwd":
		if idx+1 >= len(args) {
			return 0, fmt.Errorf("%w: %s", errFlagNeedsArg, arg)
		}

		flags.workDir = args[idx+1]

		return 2, nil
	case "-c", "--config":
		if idx+1 >= len(args) {
			return 0, fmt.Errorf("%w: %s", errFlagNeedsArg, arg)
		}

		flags.configPath = args[idx+1]

		return 2, nil
	case "--data-dir":
		if idx+1 >= len(args) {
			return 0, fmt.Errorf("%w: %s", errFlagNeedsArg, arg)
		}

		flags.dataDir = args[idx+1]
		flags.hasDataDirOverride = true

		return 2, nil
	case "-h", helpFlag:
		flags.remaining = []string{helpFlag}

		return len(args) - idx, nil
	}

	if after, ok := strings.CutPrefix(arg, "--cwd="); ok {
		flags.workDir = after

		return 1, nil
	}

	if after, ok := strings.CutPrefix(arg, "--config="); ok {
		flags.configPath = after

		return 1, nil
	}

	if after, ok := strings.CutPrefix(arg, "--data-dir="); ok {
		flags.dataDir = after
		flags.hasDataDirOverride = true

		return 1, nil
	}

	if strings.HasPrefix(arg, "-") && arg != "-" {
		return 0, fmt.Errorf("%w: %s", errUnknownFlag, arg)
	}

	// Not a flag
	return 0, nil
}

// commandList builds the full command set. application may be nil when only
// help output is needed.
func commandList(application *app) []*Command {
	return []*Command{
		initCmd(application),
		printConfigCmd(application),
		workflowsCmd(application),
		projectAddCmd(application),
		projectLsCmd(application),
		teamAddCmd(application),
		teamLsCmd(application),
		teamJoinCmd(application),
		teamAssignCmd(application),
		taskAddCmd(application),
		taskLsCmd(application),
		taskShowCmd(application),
		taskMoveCmd(application),
		taskDepCmd(application),
		taskUndepCmd(application),
		taskReadyCmd(application),
		ticketAddCmd(application),
		ticketLsCmd(application),
		ticketMoveCmd(application),
		portalCmd(application),
		shellCmd(),
	}
}

func printUsage(o *IO, commands []*Command) {
	o.Println(`nexuspm - project management with dependency-aware tasks

Usage: nexuspm [options] <command> [args]

Options:
  -C, --cwd <dir>      Run as if started in <dir>
  -c, --config <file>  Use specified config file
      --data-dir <dir> Override the data directory

Commands:`)

	for _, c := range commands {
		o.Println(c.HelpLine())
	}
}
