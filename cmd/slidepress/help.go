package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: slidepress <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  build       Build self-contained decks from rendered HTML")
	fmt.Fprintln(w, "  stages      Document the pipeline stages of a configuration")
	fmt.Fprintln(w, "  init        Write a default config file")
	fmt.Fprintln(w, "  doctor      Check browser and environment")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'slidepress help <command>' for details on a specific command.")
}

// printBuildUsage prints usage for the build command.
func printBuildUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: slidepress build <deck.html>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Build self-contained decks. Each deck is written to the output directory")
	fmt.Fprintln(w, "(one subdirectory per deck when several are given), which is recreated:")
	fmt.Fprintln(w, "index.html, and optionally index.pdf, jpgs/page-N.jpg and links.json.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --out <dir>           Output directory (default: dist)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel decks (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Build timeout per deck (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exports:")
	fmt.Fprintln(w, "      --pdf                 Write index.pdf")
	fmt.Fprintln(w, "      --jpgs                Write one JPEG per slide")
	fmt.Fprintln(w, "      --links               Write link positions per slide")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Pipeline:")
	fmt.Fprintln(w, "  -l, --locale <s>          Document language (e.g., en, de-CH)")
	fmt.Fprintln(w, "  -m, --mode <s>            Justify mode: script, bake, off")
	fmt.Fprintln(w, "      --css <path>          Extra CSS file")
	fmt.Fprintln(w, "      --no-hyphenation      Disable hyphenation")
	fmt.Fprintln(w, "      --no-images           Keep image references")
	fmt.Fprintln(w, "      --no-fonts            Keep font references")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Browser:")
	fmt.Fprintln(w, "      --browser <path>      Chrome binary")
	fmt.Fprintln(w, "      --assets <dir>        Custom scripts and hyphenation patterns")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show stage timings and browser events")
}

// printStagesUsage prints usage for the stages command.
func printStagesUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: slidepress stages [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document the pipeline a build would run, as Markdown or HTML.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --html                Render the documentation to HTML")
	fmt.Fprintln(w, "  -o, --out <path>          Output file (default: stdout)")
}

// printInitUsage prints usage for the init command.
func printInitUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: slidepress init [path] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Write the default configuration (default path: slidepress.yaml).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -f, --force               Overwrite an existing file")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "build":
		printBuildUsage(env.Stdout)
	case "stages":
		printStagesUsage(env.Stdout)
	case "init":
		printInitUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: slidepress doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check that Chrome and the environment are ready for exports.")
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: slidepress version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: slidepress help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
