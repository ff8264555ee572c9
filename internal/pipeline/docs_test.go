package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-slidepress/internal/hyphen"
	"github.com/alnah/go-slidepress/internal/justify"
)

func docsPipeline(t *testing.T) *Pipeline {
	t.Helper()
	settings := hyphen.DefaultSettings()
	settings.Locale = "sv-SE"
	p, err := New(nil,
		&PathRewrite{SourceDir: "/decks/intro"},
		&CSSInjection{},
		&Language{Locale: "sv-SE"},
		&Hyphenation{Stage: &hyphen.Stage{Settings: settings}},
		&ScriptInjection{Script: "console.log('justify');", Settings: justify.DefaultSettings()},
		LinkTargets{},
		&ImageInlining{Settings: DefaultImageSettings()},
		&FontInlining{FontDir: "/decks/fonts"},
	)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	return p
}

func TestDocs(t *testing.T) {
	t.Parallel()

	md := Docs(docsPipeline(t))

	for _, want := range []string{
		"# Pipeline stages",
		"| 1 | [paths](#paths) | prepare |",
		"| 5 | [justify-script](#justify-script) | justify |",
		"## hyphenate",
		"- Locale chain: sv-se → sv → en",
		"`p`, `li`, `td`, `th`",
		"- Interval: -0.02rem to 0.02rem, step 0.001rem",
		"```js\nconsole.log('justify');\n```",
		"- Downscale wider than: 1500 px (JPEG quality 65, PNG when transparent)",
		"No extra CSS configured.",
		"`/decks/fonts`",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Docs() missing %q", want)
		}
	}

	// Sections follow pipeline order.
	if strings.Index(md, "## hyphenate") > strings.Index(md, "## justify-script") {
		t.Error("hyphenate documented after the justifier")
	}
}

func TestGoldmarkConverter_ToHTML(t *testing.T) {
	t.Parallel()

	conv := NewGoldmarkConverter()
	got, err := conv.ToHTML(context.Background(), "Stages & steps", Docs(docsPipeline(t)))
	if err != nil {
		t.Fatalf("ToHTML() unexpected error: %v", err)
	}

	for _, want := range []string{
		"<title>Stages &amp; steps</title>",
		`<h2 id="hyphenate">hyphenate</h2>`,
		"<table>",
		"<pre",
		"justify",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("ToHTML() missing %q", want)
		}
	}
}

func TestGoldmarkConverter_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewGoldmarkConverter().ToHTML(ctx, "x", "# x"); !errors.Is(err, context.Canceled) {
		t.Errorf("ToHTML() error = %v, want %v", err, context.Canceled)
	}
}
