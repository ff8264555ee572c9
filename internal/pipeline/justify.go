package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dop251/goja"

	"github.com/alnah/go-slidepress/internal/justify"
)

// ErrScriptSyntax is returned when the composed justifier script does not parse.
var ErrScriptSyntax = errors.New("justifier script syntax error")

// scriptConfig is the settings object read by the client-side justifier.
type scriptConfig struct {
	MinRem        float64 `json:"minRem"`
	MaxRem        float64 `json:"maxRem"`
	StepRem       float64 `json:"stepRem"`
	LineTolerance float64 `json:"lineTolerance"`
}

// ScriptInjection injects the client-side justifier so that the document
// justifies itself when opened.
type ScriptInjection struct {
	Script   string
	Settings justify.Settings
}

func (s *ScriptInjection) Name() string { return "justify-script" }
func (s *ScriptInjection) Step() Step   { return StepJustify }

// Apply composes the settings and the script, checks the result parses,
// and inserts it before the end of the body.
func (s *ScriptInjection) Apply(ctx context.Context, doc string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	src, err := ComposeScript(s.Script, s.Settings)
	if err != nil {
		return "", err
	}
	return insertBeforeBodyEnd(doc, "<script>"+sanitizeScript(src)+"</script>"), nil
}

// ComposeScript prefixes script with its settings object and compiles the
// result without running it.
func ComposeScript(script string, settings justify.Settings) (string, error) {
	if err := settings.Validate(); err != nil {
		return "", err
	}
	cfg, err := json.Marshal(scriptConfig{
		MinRem:        settings.MinRem,
		MaxRem:        settings.MaxRem,
		StepRem:       settings.StepRem,
		LineTolerance: settings.LineTolerance,
	})
	if err != nil {
		return "", fmt.Errorf("encoding justifier settings: %w", err)
	}

	src := "window.slidepressJustify = " + string(cfg) + ";\n" + script
	if _, err := goja.Compile("justify.js", src, true); err != nil {
		return "", fmt.Errorf("%w: %v", ErrScriptSyntax, err)
	}
	return src, nil
}

// Baker runs the justifier against a live rendering of doc and returns the
// adjusted markup.
type Baker interface {
	Bake(ctx context.Context, doc string, settings justify.Settings) (string, justify.Report, error)
}

// Bake justifies the document ahead of time, so the output carries fixed
// letter-spacing styles and no script.
type Bake struct {
	Baker    Baker
	Settings justify.Settings

	// Report is the walk report of the last Apply.
	Report justify.Report
}

func (b *Bake) Name() string { return "justify-bake" }
func (b *Bake) Step() Step   { return StepJustify }

// Apply walks every page through the Baker.
func (b *Bake) Apply(ctx context.Context, doc string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := b.Settings.Validate(); err != nil {
		return "", err
	}
	out, rep, err := b.Baker.Bake(ctx, doc, b.Settings)
	if err != nil {
		return "", err
	}
	b.Report = rep
	return out, nil
}
