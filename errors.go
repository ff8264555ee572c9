package slidepress

import (
	"errors"

	"github.com/alnah/go-slidepress/internal/hyphen"
	"github.com/alnah/go-slidepress/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrEmptyHTML      = errors.New("deck HTML cannot be empty")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrScreenshot     = errors.New("page screenshot failed")
	ErrLinkPositions  = errors.New("reading link positions failed")
	ErrLayout         = errors.New("browser layout failed")

	// Settings validation errors.
	ErrInvalidMode        = errors.New("invalid justify mode")
	ErrInvalidJustify     = errors.New("invalid justify settings")
	ErrInvalidHyphenation = errors.New("invalid hyphenation settings")
	ErrInvalidImages      = errors.New("invalid image settings")
	ErrInvalidRender      = errors.New("invalid render settings")

	// Asset loading errors.
	ErrScriptNotFound   = errors.New("justify script not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)

// Errors raised by pipeline stages, re-exported for errors.Is.
var (
	// ErrNoDictionary is returned when no locale of the hyphenation chain,
	// fallback included, has patterns.
	ErrNoDictionary = hyphen.ErrNoDictionary

	// ErrScriptSyntax is returned when the justify script does not compile.
	ErrScriptSyntax = pipeline.ErrScriptSyntax

	// ErrFontLoad is returned when a font of the fonts stylesheet cannot be read.
	ErrFontLoad = pipeline.ErrFontLoad

	// ErrStageOrder is returned when hyphenation would run after justification.
	ErrStageOrder = pipeline.ErrStageOrder
)
