package slidepress

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-slidepress/internal/assets"
	"github.com/alnah/go-slidepress/internal/hyphen"
	"github.com/alnah/go-slidepress/internal/justify"
	"github.com/alnah/go-slidepress/internal/pipeline"
)

// defaultLocale is used when Input.Locale is empty.
const defaultLocale = "en"

// Converter builds self-contained decks.
// Create with NewConverter(), use Convert() for builds, and Close() when done.
// A Converter owns one browser, launched on first use; Convert calls may
// run concurrently.
type Converter struct {
	cfg      converterConfig
	assets   assets.AssetLoader
	dicts    hyphen.Dictionaries
	renderer renderer
}

// NewConverter creates a Converter.
// Use options to customize behavior (e.g., WithTimeout, WithAssetPath, WithLogger).
// Returns ErrInvalidAssetPath if the asset path is not a readable directory.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{cfg: converterConfig{timeout: defaultTimeout}}

	for _, opt := range opts {
		opt(c)
	}
	if c.cfg.logger == nil {
		c.cfg.logger = slog.New(slog.DiscardHandler)
	}

	if c.assets == nil {
		if c.cfg.assetPath != "" {
			resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
			}
			c.assets = resolver
		} else {
			c.assets = assets.NewEmbeddedLoader()
		}
	}
	if c.dicts == nil {
		c.dicts = hyphen.NewPatternDictionaries(c.assets)
	}

	// Create renderer if not injected (e.g., by tests)
	if c.renderer == nil {
		c.renderer = newRodRenderer(c.cfg.timeout, c.cfg.browserBin, c.cfg.logger)
	}

	return c, nil
}

// Convert runs the pipeline on input.HTML, then the requested browser
// exports. The context is used for cancellation; the converter timeout
// bounds the whole build.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := c.validateInput(input); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()

	rs := DefaultRenderSettings()
	if input.Render != nil {
		rs = input.Render
	}

	// The browser launch overlaps the string stages.
	if input.Export.any() || input.Justify.bake() {
		c.preWarm()
	}

	b, err := c.build(input, *rs)
	if err != nil {
		return nil, err
	}
	out, timings, err := b.pipeline.Run(ctx, input.HTML)
	if err != nil {
		return nil, err
	}

	res := &Result{
		HTML:    []byte(out),
		Timings: toTimings(timings),
		Pages:   countPages(out),
	}
	if b.hyphenation != nil {
		res.Language = b.hyphenation.Language
	}
	if b.bake != nil {
		c.cfg.logger.Info("justified", "pages", len(b.bake.Report.Pages), "restored", b.bake.Report.Restored)
	}

	if !input.Export.any() {
		return res, nil
	}

	r, err := c.renderer.Render(ctx, out, renderOptions{
		Export:        input.Export,
		Settings:      *rs,
		Pages:         res.Pages,
		WaitJustified: input.Justify != nil && b.bake == nil,
		BaseDir:       input.SourceDir,
	})
	if err != nil {
		return nil, fmt.Errorf("exporting: %w", err)
	}
	res.PDF, res.JPEGs, res.Links = r.PDF, r.JPEGs, r.Links
	return res, nil
}

// Stages returns the Markdown documentation of the pipeline input would run.
func (c *Converter) Stages(input Input) (string, error) {
	if err := c.validateSettings(input); err != nil {
		return "", err
	}
	rs := DefaultRenderSettings()
	if input.Render != nil {
		rs = input.Render
	}
	b, err := c.build(input, *rs)
	if err != nil {
		return "", err
	}
	return pipeline.Docs(b.pipeline), nil
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}

// preWarm launches the browser in the background. Failures are left for
// the first real use to report.
func (c *Converter) preWarm() {
	go func() {
		if err := c.renderer.Warm(context.Background()); err != nil {
			c.cfg.logger.Debug("browser pre-warm failed", "error", err)
		}
	}()
}

// built is a pipeline plus the stages whose results outlive Run.
type built struct {
	pipeline    *pipeline.Pipeline
	hyphenation *pipeline.Hyphenation
	bake        *pipeline.Bake
}

// build assembles the stages selected by input, in pipeline order.
func (c *Converter) build(input Input, rs RenderSettings) (*built, error) {
	locale := strings.TrimSpace(input.Locale)
	if locale == "" {
		locale = defaultLocale
	}

	var (
		b      built
		stages []pipeline.Stage
	)

	if input.SourceDir != "" {
		stages = append(stages, &pipeline.PathRewrite{SourceDir: input.SourceDir})
	}
	if input.CSS != "" {
		stages = append(stages, &pipeline.CSSInjection{CSS: input.CSS})
	}
	stages = append(stages, &pipeline.Language{Locale: locale})

	if input.Hyphenation != nil {
		b.hyphenation = &pipeline.Hyphenation{
			Stage:  &hyphen.Stage{Dicts: c.dicts, Settings: input.Hyphenation.settings(locale)},
			Logger: c.cfg.logger,
		}
		stages = append(stages, b.hyphenation)
	}

	if input.Justify != nil {
		if input.Justify.bake() {
			b.bake = &pipeline.Bake{
				Baker:    &browserBaker{renderer: c.renderer, settings: rs, baseDir: input.SourceDir},
				Settings: input.Justify.settings(),
			}
			stages = append(stages, b.bake)
		} else {
			script, err := c.assets.LoadScript(assets.DefaultScriptName)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrScriptNotFound, err)
			}
			stages = append(stages, &pipeline.ScriptInjection{Script: script, Settings: input.Justify.settings()})
		}
	}

	stages = append(stages, pipeline.LinkTargets{})

	if input.Images != nil {
		stages = append(stages, &pipeline.ImageInlining{
			Settings: input.Images.settings(input.SourceDir),
			Logger:   c.cfg.logger,
		})
	}
	if input.Fonts != nil {
		stages = append(stages, &pipeline.FontInlining{Stylesheet: input.Fonts.Stylesheet, FontDir: input.Fonts.Dir})
	}

	p, err := pipeline.New(c.cfg.logger, stages...)
	if err != nil {
		return nil, err
	}
	b.pipeline = p
	return &b, nil
}

// validateInput checks that required fields are present and valid.
//
// This is a TRUST BOUNDARY for direct library users who build Input manually.
// CLI users have their settings validated earlier by Config.Validate() at config load time.
func (c *Converter) validateInput(input Input) error {
	if strings.TrimSpace(input.HTML) == "" {
		return ErrEmptyHTML
	}
	return c.validateSettings(input)
}

func (c *Converter) validateSettings(input Input) error {
	if err := input.Hyphenation.Validate(); err != nil {
		return err
	}
	if err := input.Justify.Validate(); err != nil {
		return err
	}
	if err := input.Images.Validate(); err != nil {
		return err
	}
	return input.Render.Validate()
}

// browserBaker adapts the renderer to pipeline.Baker. The page measures
// doc with its relative urls resolved against baseDir.
type browserBaker struct {
	renderer renderer
	settings RenderSettings
	baseDir  string
}

func (b *browserBaker) Bake(ctx context.Context, doc string, s justify.Settings) (string, justify.Report, error) {
	return b.renderer.Bake(ctx, doc, bakeOptions{Settings: b.settings, Justify: s, BaseDir: b.baseDir})
}

// toTimings converts pipeline timings to the public type.
func toTimings(ts []pipeline.Timing) []Timing {
	out := make([]Timing, len(ts))
	for i, t := range ts {
		out[i] = Timing{Stage: t.Stage, Duration: t.Duration}
	}
	return out
}

// countPages returns the number of consecutive pages of doc, starting at 1.
func countPages(doc string) int {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return 0
	}
	return justify.CountPages(root)
}
