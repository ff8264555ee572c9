package main

import (
	"errors"
	"os"

	slidepress "github.com/alnah/go-slidepress"
	"github.com/alnah/go-slidepress/internal/config"
)

// Exit codes for the slidepress CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful build
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, slidepress.ErrBrowserConnect) ||
		errors.Is(err, slidepress.ErrPageCreate) ||
		errors.Is(err, slidepress.ErrPageLoad) ||
		errors.Is(err, slidepress.ErrPDFGeneration) ||
		errors.Is(err, slidepress.ErrScreenshot) ||
		errors.Is(err, slidepress.ErrLinkPositions) ||
		errors.Is(err, slidepress.ErrLayout) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadDeck) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, slidepress.ErrFontLoad) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, slidepress.ErrEmptyHTML) ||
		errors.Is(err, slidepress.ErrInvalidMode) ||
		errors.Is(err, slidepress.ErrInvalidJustify) ||
		errors.Is(err, slidepress.ErrInvalidHyphenation) ||
		errors.Is(err, slidepress.ErrInvalidImages) ||
		errors.Is(err, slidepress.ErrInvalidRender) ||
		errors.Is(err, slidepress.ErrInvalidAssetPath) ||
		errors.Is(err, slidepress.ErrScriptSyntax) ||
		errors.Is(err, slidepress.ErrNoDictionary) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrConfigExists) ||
		errors.Is(err, errUsage) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}
