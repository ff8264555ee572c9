package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	slidepress "github.com/alnah/go-slidepress"
	"github.com/alnah/go-slidepress/internal/config"
	"github.com/alnah/go-slidepress/internal/fileutil"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrReadDeck           = errors.New("failed to read deck")
	ErrReadCSS            = errors.New("failed to read CSS file")
	ErrWriteOutput        = errors.New("failed to write output")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidTimeout     = errors.New("invalid timeout")

	// errUsage marks invalid command-line arguments.
	errUsage = errors.New("invalid arguments")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// maxWorkers bounds --workers; each worker owns a browser.
const maxWorkers = 32

// defaultConfigName is picked up from the working directory when no
// config is given.
const defaultConfigName = "slidepress.yaml"

// DeckToBuild is a single deck to process.
type DeckToBuild struct {
	InputPath string
	OutputDir string
}

// buildParams groups the settings shared by every deck of a batch.
type buildParams struct {
	cfg        *config.Config
	css        string
	stylesheet string
}

// runBuild loads the configuration, builds every deck in args and prints
// the results.
func runBuild(ctx context.Context, args []string, flags *buildFlags, env *Environment) error {
	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	workers := flags.workers
	if !flags.changed["workers"] && envCfg.Workers > 0 {
		workers = envCfg.Workers
	}
	if err := validateWorkers(workers); err != nil {
		return err
	}

	cfg, err := loadBuildConfig(flags.common.config, envCfg.ConfigPath)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	timeout, err := resolveTimeout(flags.timeout, envCfg.Timeout)
	if err != nil {
		return err
	}

	decks, err := planDecks(args, cfg.Output.Dir)
	if err != nil {
		return err
	}

	params, err := loadParams(cfg)
	if err != nil {
		return err
	}

	bin := flags.browser.bin
	if bin == "" {
		bin = envCfg.BrowserBin
	}
	opts := []slidepress.Option{
		slidepress.WithLogger(newLogger(flags.common.verbose, env.Stderr)),
		slidepress.WithAssetPath(cfg.Assets.BasePath),
		slidepress.WithBrowserBin(bin),
	}
	if timeout > 0 {
		opts = append(opts, slidepress.WithTimeout(timeout))
	}

	size := min(slidepress.ResolvePoolSize(workers), len(decks))
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Pool size: %d\n", size)
	}
	pool := env.NewPool(size, opts...)
	defer pool.Close()

	results := buildBatch(ctx, pool, decks, params, env)

	failed := printResults(results, flags.common.quiet, flags.common.verbose, cfg, env)
	switch {
	case failed == 0:
		return nil
	case len(results) == 1:
		return withHint(results[0].Err, buildHint(results[0].Err, cfg))
	default:
		return fmt.Errorf("%d build(s) failed", failed)
	}
}

// loadBuildConfig returns the config named by the flag, the environment,
// or slidepress.yaml in the working directory, in that order. Without any
// of them the defaults apply.
func loadBuildConfig(flagName, envName string) (*config.Config, error) {
	name := flagName
	if name == "" {
		name = envName
	}
	if name == "" {
		if !fileutil.FileExists(defaultConfigName) {
			return config.DefaultConfig(), nil
		}
		name = defaultConfigName
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		err = fmt.Errorf("loading config: %w", err)
		if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
			return nil, withHint(err, buildHintConfig(name))
		}
		return nil, err
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *buildFlags, cfg *config.Config) {
	if flags.output != "" {
		cfg.Output.Dir = flags.output
	}
	if flags.changed["pdf"] {
		cfg.Output.PDF = flags.export.pdf
	}
	if flags.changed["jpgs"] {
		cfg.Output.JPGs = flags.export.jpgs
	}
	if flags.changed["links"] {
		cfg.Output.Links = flags.export.links
	}

	if flags.stages.locale != "" {
		cfg.Language.Locale = flags.stages.locale
	}
	if flags.stages.mode != "" {
		cfg.Justify.Mode = strings.ToLower(flags.stages.mode)
	}
	if flags.stages.css != "" {
		cfg.CSS.File = flags.stages.css
	}
	if flags.stages.noHyphenation {
		cfg.Hyphenation.Enabled = false
	}
	if flags.stages.noImages {
		cfg.Images.Inline = false
	}
	if flags.stages.noFonts {
		cfg.Fonts.Inline = false
	}

	if flags.browser.assetPath != "" {
		cfg.Assets.BasePath = flags.browser.assetPath
	}
}

// resolveTimeout returns the per-deck timeout: flag, then environment.
// Zero means the library default.
func resolveTimeout(flagValue string, envValue time.Duration) (time.Duration, error) {
	if flagValue == "" {
		return envValue, nil
	}
	d, err := time.ParseDuration(flagValue)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimeout, flagValue, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %q (must be positive)", ErrInvalidTimeout, flagValue)
	}
	return d, nil
}

// validateWorkers checks the worker count. 0 means auto.
func validateWorkers(n int) error {
	if n < 0 || n > maxWorkers {
		return fmt.Errorf("%w: %d (must be 0-%d)", ErrInvalidWorkerCount, n, maxWorkers)
	}
	return nil
}

// planDecks maps every input file to its output directory. A single deck
// is written to outputDir itself, several decks to one subdirectory each,
// named after the file.
func planDecks(args []string, outputDir string) ([]DeckToBuild, error) {
	if len(args) == 0 {
		return nil, ErrNoInput
	}

	decks := make([]DeckToBuild, 0, len(args))
	seen := make(map[string]string, len(args))
	for _, in := range args {
		if !looksLikeHTML(in) {
			return nil, fmt.Errorf("%w: %s is not an .html file", ErrReadDeck, in)
		}
		out := outputDir
		if len(args) > 1 {
			name := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
			if prev, dup := seen[name]; dup {
				return nil, fmt.Errorf("%w: %s and %s would share %s", ErrWriteOutput, prev, in, name)
			}
			seen[name] = in
			out = filepath.Join(outputDir, name)
		}
		decks = append(decks, DeckToBuild{InputPath: in, OutputDir: out})
	}
	return decks, nil
}

// loadParams reads the files referenced by the configuration.
func loadParams(cfg *config.Config) (*buildParams, error) {
	p := &buildParams{cfg: cfg}
	if cfg.CSS.File != "" {
		data, err := os.ReadFile(cfg.CSS.File) // #nosec G304 -- user-provided path
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadCSS, err)
		}
		p.css = string(data)
	}
	if cfg.Fonts.Inline && cfg.Fonts.Stylesheet != "" {
		data, err := os.ReadFile(cfg.Fonts.Stylesheet) // #nosec G304 -- user-provided path
		if err != nil {
			return nil, fmt.Errorf("%w: fonts stylesheet: %v", ErrReadCSS, err)
		}
		p.stylesheet = string(data)
	}
	return p, nil
}

// buildInput maps the configuration onto a library Input.
func buildInput(p *buildParams, html, sourceDir string) slidepress.Input {
	cfg := p.cfg
	in := slidepress.Input{
		HTML:      html,
		SourceDir: sourceDir,
		CSS:       p.css,
		Locale:    cfg.Language.Locale,
		Export: slidepress.Export{
			PDF:   cfg.Output.PDF,
			JPEGs: cfg.Output.JPGs,
			Links: cfg.Output.Links,
		},
		Render: &slidepress.RenderSettings{
			Width:             cfg.Render.Width,
			Height:            cfg.Render.Height,
			DeviceScaleFactor: cfg.Render.DeviceScaleFactor,
			JPEGQuality:       cfg.Render.JPEGQuality,
			CropPercent:       cfg.Render.CropPercent,
		},
	}

	if cfg.Hyphenation.Enabled {
		hs := cfg.HyphenSettings()
		in.Hyphenation = &slidepress.Hyphenation{
			Fallback:       hs.Fallback,
			Tags:           hs.Tags,
			MinWordLength:  hs.MinWordLength,
			MinCharsBefore: hs.MinCharsBefore,
			MinCharsAfter:  hs.MinCharsAfter,
		}
	}

	if cfg.Justify.Mode != config.ModeOff {
		js := cfg.JustifySettings()
		in.Justify = &slidepress.Justify{
			Mode:          cfg.Justify.Mode,
			MinRem:        js.MinRem,
			MaxRem:        js.MaxRem,
			StepRem:       js.StepRem,
			LineTolerance: js.LineTolerance,
			RestorePage:   js.RestorePage,
		}
	}

	if cfg.Images.Inline {
		is := cfg.ImageSettings(sourceDir)
		in.Images = &slidepress.Images{ScaleTo: is.ScaleTo, Quality: is.Quality, Remote: is.Remote}
	}

	if cfg.Fonts.Inline {
		in.Fonts = &slidepress.Fonts{Stylesheet: p.stylesheet, Dir: cfg.FontDir()}
	}

	return in
}
