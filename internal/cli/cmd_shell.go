package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"
)

// shellCmd exists for help output; Run intercepts "shell" and calls
// runShell directly because the shell needs stdin and the command set.
func shellCmd() *Command {
	return &Command{
		Flags: flag.NewFlagSet("shell", flag.ContinueOnError),
		Usage: "shell",
		Short: "Interactive shell",
		Long:  "Run commands interactively with history and completion. Type 'exit' to leave.",
		Exec: func(_ context.Context, _ *IO, _ []string) error {
			return nil
		},
	}
}

// historyFile returns the path to the shell history file.
func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".nexuspm_history")
}

// runShell reads command lines and dispatches them against the same command
// set as the one-shot CLI. Interactive input goes through liner; piped input
// (tests, scripts) is read line by line.
func runShell(ctx context.Context, stdin io.Reader, o *IO, application *app, commands []*Command) int {
	if stdin != nil && stdin != os.Stdin {
		return runShellPiped(ctx, stdin, o, commands)
	}

	line := liner.NewLiner()
	defer func() { _ = line.Close() }()

	line.SetCtrlCAborts(true)
	line.SetCompleter(shellCompleter(commands))

	if f, err := os.Open(historyFile()); err == nil {
		_, _ = line.ReadHistory(f)
		_ = f.Close()
	}

	o.Println("nexuspm shell - type 'help' for commands, 'exit' to leave")

	exitCode := 0

	for {
		input, err := line.Prompt("nexuspm> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				break
			}

			o.ErrPrintln("error:", err)
			exitCode = 1

			break
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		line.AppendHistory(input)

		if input == "exit" || input == "quit" {
			break
		}

		exitCode = dispatchShellLine(ctx, o, commands, input)
	}

	if f, err := os.Create(historyFile()); err == nil {
		_, _ = line.WriteHistory(f)
		_ = f.Close()
	}

	return exitCode
}

func runShellPiped(ctx context.Context, stdin io.Reader, o *IO, commands []*Command) int {
	scanner := bufio.NewScanner(stdin)
	exitCode := 0

	for scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if input == "exit" || input == "quit" {
			break
		}

		exitCode = dispatchShellLine(ctx, o, commands, input)
	}

	return exitCode
}

// dispatchShellLine runs one shell input line. Errors are reported but never
// end the shell; the last command's exit code is the shell's.
func dispatchShellLine(ctx context.Context, o *IO, commands []*Command, input string) int {
	args := strings.Fields(input)

	if args[0] == "help" {
		printUsage(o, commands)

		return 0
	}

	if args[0] == "shell" {
		o.ErrPrintln("error: already in a shell")

		return 1
	}

	cmd, rest, err := resolve(commands, args)
	if err != nil {
		o.ErrPrintln("error:", err)

		return 1
	}

	// Fresh IO per line so warnings don't accumulate across commands.
	lineIO := NewIO(o.out, o.errOut)

	return cmd.Run(ctx, lineIO, rest)
}

// shellCompleter completes command and group names.
func shellCompleter(commands []*Command) liner.Completer {
	var names []string

	seen := make(map[string]struct{})

	for _, c := range commands {
		name := c.qualified()

		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}

			names = append(names, name)
		}

		if c.Group != "" {
			if _, ok := seen[c.Group]; !ok {
				seen[c.Group] = struct{}{}

				names = append(names, c.Group)
			}
		}
	}

	return func(line string) []string {
		var out []string

		for _, name := range names {
			if strings.HasPrefix(name, line) {
				out = append(out, name)
			}
		}

		return out
	}
}
