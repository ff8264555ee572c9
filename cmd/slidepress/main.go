package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// commands lists the subcommands recognized by runMain.
var commands = map[string]bool{
	"build":      true,
	"stages":     true,
	"init":       true,
	"doctor":     true,
	"completion": true,
	"version":    true,
	"help":       true,
}

func main() {
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches args[1] and returns the process exit code.
// An HTML file as first argument is shorthand for "build".
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	if !isCommand(cmd) {
		if !looksLikeHTML(cmd) {
			fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
			printUsage(env.Stderr)
			return ExitUsage
		}
		cmd, rest = "build", args[1:]
	}

	ctx, stop := notifyContext(env.ctx())
	defer stop()

	var err error
	switch cmd {
	case "build":
		var flags *buildFlags
		flags, rest, err = parseBuildFlags(rest, env.Stderr)
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		if err != nil {
			return ExitUsage
		}
		setMaxProcs(flags.common.verbose, env.Stderr)
		err = runBuild(ctx, rest, flags, env)
	case "stages":
		err = runStages(ctx, rest, env)
	case "init":
		err = runInit(rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "completion":
		err = runCompletion(rest, env)
	case "version":
		fmt.Fprintf(env.Stdout, "go-slidepress %s\n", Version)
	case "help":
		runHelp(rest, env)
	}

	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// isCommand reports whether s names a subcommand. Case sensitive.
func isCommand(s string) bool {
	return commands[s]
}

func looksLikeHTML(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasSuffix(lower, ".html") || strings.HasSuffix(lower, ".htm")
}

// setMaxProcs configures GOMAXPROCS from the container CPU quota.
// The error is ignored: maxprocs.Set only fails if GOMAXPROCS is invalid,
// in which case the runtime default applies.
func setMaxProcs(verbose bool, w io.Writer) {
	if verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(w, format+"\n", args...)
		}))
		return
	}
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
}

// newLogger returns a text logger on w for verbose runs, a discarding one
// otherwise.
func newLogger(verbose bool, w io.Writer) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
