package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-slidepress/internal/fileutil"
	"github.com/alnah/go-slidepress/internal/hyphen"
	"github.com/alnah/go-slidepress/internal/justify"
	"github.com/alnah/go-slidepress/internal/pipeline"
	"github.com/alnah/go-slidepress/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxLocaleLength = 35   // BCP 47 tags in practice
	MaxPathLength   = 4096 // PATH_MAX on Linux
	MaxTags         = 32   // hyphenation allow-list entries
)

// Justifier modes.
const (
	ModeScript = "script" // inject the client-side justifier
	ModeBake   = "bake"   // justify at build time in a headless browser
	ModeOff    = "off"
)

// Render defaults, matching a 16:9 slide deck.
const (
	DefaultSlideWidth        = 1280
	DefaultSlideHeight       = 720
	DefaultDeviceScaleFactor = 2
	DefaultJPEGQuality       = 70
	DefaultCropPercent       = 0.15
	DefaultOutputDir         = "dist"
)

// Config holds all configuration for a build.
type Config struct {
	Language    LanguageConfig    `yaml:"language"`
	Output      OutputConfig      `yaml:"output"`
	CSS         CSSConfig         `yaml:"css"`
	Hyphenation HyphenationConfig `yaml:"hyphenation"`
	Justify     JustifyConfig     `yaml:"justify"`
	Images      ImagesConfig      `yaml:"images"`
	Fonts       FontsConfig       `yaml:"fonts"`
	Render      RenderConfig      `yaml:"render"`
	Assets      AssetsConfig      `yaml:"assets"`
}

// LanguageConfig sets the document language.
type LanguageConfig struct {
	Locale string `yaml:"locale"` // e.g. "en", "de-CH"
}

// OutputConfig selects the produced files.
type OutputConfig struct {
	Dir   string `yaml:"dir"`   // recreated on every build
	PDF   bool   `yaml:"pdf"`   // index.pdf
	JPGs  bool   `yaml:"jpgs"`  // jpgs/page-N.jpg
	Links bool   `yaml:"links"` // links.json
}

// CSSConfig adds CSS to the deck.
type CSSConfig struct {
	File string `yaml:"file"` // injected after the deck's own styles
}

// HyphenationConfig configures soft hyphen insertion.
type HyphenationConfig struct {
	Enabled        bool     `yaml:"enabled"`
	Fallback       string   `yaml:"fallback"`
	Tags           []string `yaml:"tags"`
	MinWordLength  int      `yaml:"minWordLength"`
	MinCharsBefore int      `yaml:"minCharsBefore"`
	MinCharsAfter  int      `yaml:"minCharsAfter"`
}

// JustifyConfig configures letter-spacing justification.
type JustifyConfig struct {
	Mode          string  `yaml:"mode"` // script, bake or off
	MinRem        float64 `yaml:"minRem"`
	MaxRem        float64 `yaml:"maxRem"`
	StepRem       float64 `yaml:"stepRem"`
	LineTolerance float64 `yaml:"lineTolerance"` // px; 0 compares line offsets exactly
	RestorePage   int     `yaml:"restorePage"`
}

// ImagesConfig configures image inlining.
type ImagesConfig struct {
	Inline  bool `yaml:"inline"`
	ScaleTo int  `yaml:"scaleTo"` // px; 0 disables downscaling
	Quality int  `yaml:"quality"` // JPEG quality of downscaled images
	Remote  bool `yaml:"remote"`  // fetch http(s) images
}

// FontsConfig configures font inlining.
type FontsConfig struct {
	Inline     bool   `yaml:"inline"`
	Stylesheet string `yaml:"stylesheet"` // replaces the Google Fonts @import
	Dir        string `yaml:"dir"`        // base of relative font urls; default: stylesheet directory
}

// RenderConfig configures browser exports.
type RenderConfig struct {
	Width             int     `yaml:"width"`  // slide width in CSS px
	Height            int     `yaml:"height"` // slide height in CSS px
	DeviceScaleFactor float64 `yaml:"deviceScaleFactor"`
	JPEGQuality       int     `yaml:"jpegQuality"`
	CropPercent       float64 `yaml:"cropPercent"` // trimmed from each screenshot edge
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	hs := hyphen.DefaultSettings()
	js := justify.DefaultSettings()
	return &Config{
		Language: LanguageConfig{Locale: hyphen.DefaultFallback},
		Output:   OutputConfig{Dir: DefaultOutputDir, PDF: true},
		Hyphenation: HyphenationConfig{
			Enabled:        true,
			Fallback:       hs.Fallback,
			Tags:           hs.Tags,
			MinWordLength:  hs.MinWordLength,
			MinCharsBefore: hs.MinCharsBefore,
			MinCharsAfter:  hs.MinCharsAfter,
		},
		Justify: JustifyConfig{
			Mode:    ModeScript,
			MinRem:  js.MinRem,
			MaxRem:  js.MaxRem,
			StepRem: js.StepRem,
		},
		Images: ImagesConfig{
			Inline:  true,
			ScaleTo: pipeline.DefaultScaleTo,
			Quality: pipeline.DefaultQuality,
		},
		Fonts: FontsConfig{Inline: true},
		Render: RenderConfig{
			Width:             DefaultSlideWidth,
			Height:            DefaultSlideHeight,
			DeviceScaleFactor: DefaultDeviceScaleFactor,
			JPEGQuality:       DefaultJPEGQuality,
			CropPercent:       DefaultCropPercent,
		},
	}
}

// Validate checks every section. Called automatically by LoadConfig, but
// available for consumers who construct Config manually.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Language.Locale) == "" {
		return fmt.Errorf("%w: language.locale is required", ErrInvalidValue)
	}
	if err := validateFieldLength("language.locale", c.Language.Locale, MaxLocaleLength); err != nil {
		return err
	}

	for field, path := range map[string]string{
		"output.dir":       c.Output.Dir,
		"css.file":         c.CSS.File,
		"fonts.stylesheet": c.Fonts.Stylesheet,
		"fonts.dir":        c.Fonts.Dir,
		"assets.basePath":  c.Assets.BasePath,
	} {
		if err := validateFieldLength(field, path, MaxPathLength); err != nil {
			return err
		}
	}
	if strings.TrimSpace(c.Output.Dir) == "" {
		return fmt.Errorf("%w: output.dir is required", ErrInvalidValue)
	}

	if c.Hyphenation.Enabled {
		if len(c.Hyphenation.Tags) > MaxTags {
			return fmt.Errorf("%w: hyphenation.tags (%d entries, max %d)", ErrFieldTooLong, len(c.Hyphenation.Tags), MaxTags)
		}
		if err := c.HyphenSettings().Validate(); err != nil {
			return fmt.Errorf("hyphenation: %w", err)
		}
	}

	switch c.Justify.Mode {
	case ModeScript, ModeBake:
		if err := c.JustifySettings().Validate(); err != nil {
			return fmt.Errorf("justify: %w", err)
		}
		if c.Justify.RestorePage < 0 {
			return fmt.Errorf("%w: justify.restorePage must not be negative, got %d", ErrInvalidValue, c.Justify.RestorePage)
		}
	case ModeOff:
	default:
		return fmt.Errorf("%w: justify.mode %q (must be script, bake, or off)", ErrInvalidValue, c.Justify.Mode)
	}

	if c.Images.Inline {
		if err := c.ImageSettings("").Validate(); err != nil {
			return fmt.Errorf("images: %w", err)
		}
	}

	return c.Render.validate()
}

func (r RenderConfig) validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: render size must be positive, got %dx%d", ErrInvalidValue, r.Width, r.Height)
	}
	if r.DeviceScaleFactor <= 0 || r.DeviceScaleFactor > 4 {
		return fmt.Errorf("%w: render.deviceScaleFactor must be in (0, 4], got %.2f", ErrInvalidValue, r.DeviceScaleFactor)
	}
	if r.JPEGQuality < 1 || r.JPEGQuality > 100 {
		return fmt.Errorf("%w: render.jpegQuality must be between 1 and 100, got %d", ErrInvalidValue, r.JPEGQuality)
	}
	if r.CropPercent < 0 || r.CropPercent >= 10 {
		return fmt.Errorf("%w: render.cropPercent must be in [0, 10), got %.2f", ErrInvalidValue, r.CropPercent)
	}
	return nil
}

// HyphenSettings returns the hyphenation stage settings.
func (c *Config) HyphenSettings() hyphen.Settings {
	return hyphen.Settings{
		Locale:         c.Language.Locale,
		Fallback:       c.Hyphenation.Fallback,
		Tags:           append([]string(nil), c.Hyphenation.Tags...),
		MinWordLength:  c.Hyphenation.MinWordLength,
		MinCharsBefore: c.Hyphenation.MinCharsBefore,
		MinCharsAfter:  c.Hyphenation.MinCharsAfter,
	}
}

// JustifySettings returns the justification engine settings.
func (c *Config) JustifySettings() justify.Settings {
	return justify.Settings{
		MinRem:        c.Justify.MinRem,
		MaxRem:        c.Justify.MaxRem,
		StepRem:       c.Justify.StepRem,
		LineTolerance: c.Justify.LineTolerance,
		RestorePage:   c.Justify.RestorePage,
	}
}

// ImageSettings returns the image inlining settings; baseDir resolves
// relative references.
func (c *Config) ImageSettings(baseDir string) pipeline.ImageSettings {
	return pipeline.ImageSettings{
		ScaleTo: c.Images.ScaleTo,
		Quality: c.Images.Quality,
		BaseDir: baseDir,
		Remote:  c.Images.Remote,
	}
}

// FontDir returns fonts.dir, defaulting to the stylesheet directory.
func (c *Config) FontDir() string {
	if c.Fonts.Dir != "" || c.Fonts.Stylesheet == "" {
		return c.Fonts.Dir
	}
	return filepath.Dir(c.Fonts.Stylesheet)
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields missing from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	cfg := DefaultConfig()
	if err := yamlutil.ReadFile(configPath, cfg); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	cfg.resolvePaths(filepath.Dir(configPath))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolvePaths makes file references relative to the config file.
func (c *Config) resolvePaths(dir string) {
	for _, p := range []*string{&c.CSS.File, &c.Fonts.Stylesheet, &c.Fonts.Dir, &c.Assets.BasePath} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yamlutil.Marshal(c)
}

// SearchPaths returns the files tried for a config name, in order:
// name.yaml and name.yml in the current directory, then in
// ~/.config/go-slidepress/.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "go-slidepress", name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file of SearchPaths.
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
