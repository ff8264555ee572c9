package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// exportFlags selects the browser outputs.
type exportFlags struct {
	pdf   bool
	jpgs  bool
	links bool
}

// stageFlags switches pipeline stages and their main settings.
type stageFlags struct {
	locale        string
	mode          string
	css           string
	noHyphenation bool
	noImages      bool
	noFonts       bool
}

// browserFlags configures the browser and custom assets.
type browserFlags struct {
	bin       string
	assetPath string
}

// buildFlags holds all flags for the build command.
type buildFlags struct {
	common  commonFlags
	output  string
	workers int
	timeout string
	export  exportFlags
	stages  stageFlags
	browser browserFlags

	// changed records flags set on the command line, so that an explicit
	// false overrides a config true.
	changed map[string]bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show stage timings and browser events")
}

// addExportFlags adds export flags to a FlagSet.
func addExportFlags(fs *flag.FlagSet, f *exportFlags) {
	fs.BoolVar(&f.pdf, "pdf", false, "write index.pdf")
	fs.BoolVar(&f.jpgs, "jpgs", false, "write jpgs/page-N.jpg")
	fs.BoolVar(&f.links, "links", false, "write links.json")
}

// addStageFlags adds pipeline flags to a FlagSet.
func addStageFlags(fs *flag.FlagSet, f *stageFlags) {
	fs.StringVarP(&f.locale, "locale", "l", "", "document language, e.g. de-CH")
	fs.StringVarP(&f.mode, "mode", "m", "", "justify mode: script, bake, off")
	fs.StringVar(&f.css, "css", "", "extra CSS file")
	fs.BoolVar(&f.noHyphenation, "no-hyphenation", false, "disable hyphenation")
	fs.BoolVar(&f.noImages, "no-images", false, "keep image references")
	fs.BoolVar(&f.noFonts, "no-fonts", false, "keep font references")
}

// addBrowserFlags adds browser and asset flags to a FlagSet.
func addBrowserFlags(fs *flag.FlagSet, f *browserFlags) {
	fs.StringVar(&f.bin, "browser", "", "Chrome binary (overrides ROD_BROWSER_BIN)")
	fs.StringVar(&f.assetPath, "assets", "", "custom asset directory")
}

// newBuildFlagSet registers every build flag on a new FlagSet.
// Shared by parseBuildFlags and shell completion.
func newBuildFlagSet(f *buildFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)

	// I/O flags
	fs.StringVarP(&f.output, "out", "o", "", "output directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel decks (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "build timeout per deck (e.g., 30s, 2m)")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addExportFlags(fs, &f.export)
	addStageFlags(fs, &f.stages)
	addBrowserFlags(fs, &f.browser)

	return fs
}

// parseBuildFlags parses build command flags and returns positional args.
// Parse errors and usage go to stderr.
func parseBuildFlags(args []string, stderr io.Writer) (*buildFlags, []string, error) {
	f := &buildFlags{changed: make(map[string]bool)}
	fs := newBuildFlagSet(f)
	fs.SetOutput(stderr)
	fs.Usage = func() { printBuildUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	fs.Visit(func(fl *flag.Flag) { f.changed[fl.Name] = true })

	return f, fs.Args(), nil
}
