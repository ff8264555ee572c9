package slidepress

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alnah/go-slidepress/internal/hyphen"
	"github.com/alnah/go-slidepress/internal/justify"
	"github.com/alnah/go-slidepress/internal/pipeline"
)

// Justify modes.
const (
	ModeScript = "script" // ship the client-side justifier with the deck
	ModeBake   = "bake"   // justify at build time, ship fixed styles
)

// Render defaults: a 16:9 deck, exported at 2x.
const (
	DefaultSlideWidth        = 1280
	DefaultSlideHeight       = 720
	DefaultDeviceScaleFactor = 2
	DefaultJPEGQuality       = 70
	DefaultCropPercent       = 0.15
)

// Input contains build parameters. Nil sections skip their stage.
type Input struct {
	HTML      string // rendered deck (required)
	SourceDir string // directory of the deck, resolves relative references
	CSS       string // injected after the deck's own styles
	Locale    string // document language, default "en"

	Hyphenation *Hyphenation
	Justify     *Justify
	Images      *Images
	Fonts       *Fonts

	Export Export
	Render *RenderSettings // nil = defaults
}

// Hyphenation configures soft hyphen insertion.
type Hyphenation struct {
	Fallback       string   // last locale tried, default "en"
	Tags           []string // elements whose text is hyphenated
	MinWordLength  int
	MinCharsBefore int
	MinCharsAfter  int
}

// DefaultHyphenation returns English fallback and the default limits.
func DefaultHyphenation() *Hyphenation {
	s := hyphen.DefaultSettings()
	return &Hyphenation{
		Fallback:       s.Fallback,
		Tags:           s.Tags,
		MinWordLength:  s.MinWordLength,
		MinCharsBefore: s.MinCharsBefore,
		MinCharsAfter:  s.MinCharsAfter,
	}
}

// Validate checks that hyphenation settings are valid.
// Returns nil if h is nil.
func (h *Hyphenation) Validate() error {
	if h == nil {
		return nil
	}
	if err := h.settings("").Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidHyphenation, err)
	}
	return nil
}

func (h *Hyphenation) settings(locale string) hyphen.Settings {
	return hyphen.Settings{
		Locale:         locale,
		Fallback:       h.Fallback,
		Tags:           h.Tags,
		MinWordLength:  h.MinWordLength,
		MinCharsBefore: h.MinCharsBefore,
		MinCharsAfter:  h.MinCharsAfter,
	}
}

// Justify configures letter-spacing justification.
type Justify struct {
	Mode          string  // ModeScript or ModeBake
	MinRem        float64 // lower bound of the letter-spacing search
	MaxRem        float64 // upper bound
	StepRem       float64 // quantization step
	LineTolerance float64 // px; 0 compares line offsets exactly
	RestorePage   int     // page shown after a bake walk, default 1
}

// DefaultJustify returns script mode with the default search interval.
func DefaultJustify() *Justify {
	s := justify.DefaultSettings()
	return &Justify{
		Mode:    ModeScript,
		MinRem:  s.MinRem,
		MaxRem:  s.MaxRem,
		StepRem: s.StepRem,
	}
}

// Validate checks the mode and the search interval.
// Returns nil if j is nil.
func (j *Justify) Validate() error {
	if j == nil {
		return nil
	}
	switch strings.ToLower(j.Mode) {
	case ModeScript, ModeBake:
	default:
		return fmt.Errorf("%w: %q (must be script or bake)", ErrInvalidMode, j.Mode)
	}
	if err := j.settings().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJustify, err)
	}
	return nil
}

func (j *Justify) bake() bool {
	return j != nil && strings.EqualFold(j.Mode, ModeBake)
}

func (j *Justify) settings() justify.Settings {
	return justify.Settings{
		MinRem:        j.MinRem,
		MaxRem:        j.MaxRem,
		StepRem:       j.StepRem,
		LineTolerance: j.LineTolerance,
		RestorePage:   j.RestorePage,
	}
}

// Images configures image inlining.
type Images struct {
	ScaleTo int  // px; wider raster images are downscaled, 0 disables
	Quality int  // JPEG quality of downscaled images
	Remote  bool // fetch http(s) images
}

// DefaultImages returns 1500 px downscaling at quality 65, local files only.
func DefaultImages() *Images {
	return &Images{ScaleTo: pipeline.DefaultScaleTo, Quality: pipeline.DefaultQuality}
}

// Validate checks that image settings are valid.
// Returns nil if i is nil.
func (i *Images) Validate() error {
	if i == nil {
		return nil
	}
	if err := i.settings("").Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImages, err)
	}
	return nil
}

func (i *Images) settings(baseDir string) pipeline.ImageSettings {
	return pipeline.ImageSettings{
		ScaleTo: i.ScaleTo,
		Quality: i.Quality,
		BaseDir: baseDir,
		Remote:  i.Remote,
	}
}

// Fonts configures font inlining.
type Fonts struct {
	Stylesheet string // CSS replacing the Google Fonts @import; empty keeps it
	Dir        string // base of relative font urls
}

// Export selects the browser outputs of a build.
type Export struct {
	PDF   bool
	JPEGs bool
	Links bool
}

func (e Export) any() bool {
	return e.PDF || e.JPEGs || e.Links
}

// RenderSettings configures browser exports.
type RenderSettings struct {
	Width             int     // slide width, CSS px
	Height            int     // slide height, CSS px
	DeviceScaleFactor float64 // screenshot pixel density
	JPEGQuality       int
	CropPercent       float64 // trimmed from each screenshot edge
}

// DefaultRenderSettings returns a 1280x720 deck exported at 2x, quality 70.
func DefaultRenderSettings() *RenderSettings {
	return &RenderSettings{
		Width:             DefaultSlideWidth,
		Height:            DefaultSlideHeight,
		DeviceScaleFactor: DefaultDeviceScaleFactor,
		JPEGQuality:       DefaultJPEGQuality,
		CropPercent:       DefaultCropPercent,
	}
}

// Validate checks that render settings are valid.
// Returns nil if r is nil (nil means use defaults).
func (r *RenderSettings) Validate() error {
	if r == nil {
		return nil
	}
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidRender, r.Width, r.Height)
	}
	if r.DeviceScaleFactor <= 0 || r.DeviceScaleFactor > 4 {
		return fmt.Errorf("%w: device scale factor %.2f (must be in (0, 4])", ErrInvalidRender, r.DeviceScaleFactor)
	}
	if r.JPEGQuality < 1 || r.JPEGQuality > 100 {
		return fmt.Errorf("%w: JPEG quality %d (must be between 1 and 100)", ErrInvalidRender, r.JPEGQuality)
	}
	if r.CropPercent < 0 || r.CropPercent >= 10 {
		return fmt.Errorf("%w: crop %.2f%% (must be in [0, 10))", ErrInvalidRender, r.CropPercent)
	}
	return nil
}

// LinkBox is the position of a link on its page, in CSS pixels relative to
// the slide's top-left corner.
type LinkBox struct {
	Href   string  `json:"href"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Timing is the duration of one pipeline stage.
type Timing struct {
	Stage    string
	Duration time.Duration
}

// Result contains the build outputs.
type Result struct {
	HTML     []byte
	PDF      []byte            // nil unless Export.PDF
	JPEGs    [][]byte          // one per page, page 1 first
	Links    map[int][]LinkBox // keyed by page number
	Timings  []Timing          // per pipeline stage, in order
	Language string            // locale of the hyphenation dictionary used
	Pages    int               // pages found in the deck
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout    time.Duration
	logger     *slog.Logger
	assetPath  string
	browserBin string
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 2 * time.Minute

// WithTimeout sets the build timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("slidepress: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithLogger sets the logger receiving stage timings and browser events.
// Nil discards.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		c.cfg.logger = l
	}
}

// WithAssetPath sets a directory of custom assets: scripts/justify.js and
// patterns/hyph-{locale}.pat.txt. Missing files fall back to the built-in ones.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// WithBrowserBin sets the Chrome binary. Takes precedence over ROD_BROWSER_BIN.
func WithBrowserBin(path string) Option {
	return func(c *Converter) {
		c.cfg.browserBin = path
	}
}
