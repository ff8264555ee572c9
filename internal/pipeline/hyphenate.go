package pipeline

import (
	"context"
	"log/slog"

	"github.com/alnah/go-slidepress/internal/hyphen"
)

// Hyphenation runs the hyphenation stage and remembers the effective locale.
type Hyphenation struct {
	Stage  *hyphen.Stage
	Logger *slog.Logger

	// Language is the locale of the dictionary used by the last Apply.
	Language string
}

func (h *Hyphenation) Name() string { return "hyphenate" }
func (h *Hyphenation) Step() Step   { return StepHyphenate }

// Apply inserts soft hyphens. A missing dictionary for the whole locale
// chain is fatal.
func (h *Hyphenation) Apply(ctx context.Context, doc string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	res, err := h.Stage.Hyphenate(doc)
	if err != nil {
		return "", err
	}
	h.Language = res.Language
	if h.Logger != nil {
		h.Logger.Info("hyphenation done",
			"requested", h.Stage.Settings.Locale,
			"language", res.Language)
	}
	return res.HTML, nil
}
