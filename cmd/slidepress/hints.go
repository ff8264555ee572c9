package main

import (
	"context"
	"errors"

	slidepress "github.com/alnah/go-slidepress"
	"github.com/alnah/go-slidepress/internal/config"
	"github.com/alnah/go-slidepress/internal/hints"
	"github.com/alnah/go-slidepress/internal/hyphen"
)

// hintError carries an actionable hint alongside err.
type hintError struct {
	err  error
	hint string
}

func (e *hintError) Error() string { return e.err.Error() }
func (e *hintError) Unwrap() error { return e.err }

// withHint attaches hint to err. Returns err unchanged when hint is empty.
func withHint(err error, hint string) error {
	if err == nil || hint == "" {
		return err
	}
	return &hintError{err: err, hint: hint}
}

// hintFor returns the hint attached to err, or a generic one for errors
// that need no configuration to explain.
func hintFor(err error) string {
	var he *hintError
	if errors.As(err, &he) {
		return he.hint
	}
	switch {
	case errors.Is(err, slidepress.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout(false)
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}

// buildHint returns the hint for a failed build under cfg.
func buildHint(err error, cfg *config.Config) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout(cfg.Justify.Mode == config.ModeBake)
	case errors.Is(err, slidepress.ErrNoDictionary):
		return hints.ForNoDictionary(hyphen.Chain(cfg.Language.Locale, cfg.Hyphenation.Fallback))
	case errors.Is(err, slidepress.ErrFontLoad):
		return hints.ForFontLoad()
	case errors.Is(err, slidepress.ErrScriptSyntax):
		return hints.ForScriptSyntax(cfg.Assets.BasePath != "")
	}
	return hintFor(err)
}

// buildHintConfig returns the hint for a config name that was not found.
func buildHintConfig(name string) string {
	return hints.ForConfigNotFound(config.SearchPaths(name))
}
