package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-slidepress/internal/assets"
	"github.com/alnah/go-slidepress/internal/justify"
)

func TestSanitizeCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"no escape needed", "body { color: red; }", "body { color: red; }"},
		{"escapes style close", "</style>", `<\/style>`},
		{"multiple occurrences", "</a></b>", `<\/a><\/b>`},
		{"nested sequences", "</</style>", `<\/<\/style>`},
		{"case variation", "</STYLE>", `<\/STYLE>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := sanitizeCSS(tt.input); got != tt.expected {
				t.Errorf("sanitizeCSS(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestInjectCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		html     string
		css      string
		expected string
	}{
		{
			name:     "empty CSS returns HTML unchanged",
			html:     "<html><head></head><body>Hello</body></html>",
			css:      "",
			expected: "<html><head></head><body>Hello</body></html>",
		},
		{
			name:     "injects before </head>",
			html:     "<html><head></head><body>Hello</body></html>",
			css:      "body { color: red; }",
			expected: "<html><head><style>body { color: red; }</style></head><body>Hello</body></html>",
		},
		{
			name:     "injects before </HEAD> mixed case",
			html:     "<html><HEAD></HEAD><body>Hello</body></html>",
			css:      "body { color: red; }",
			expected: "<html><HEAD><style>body { color: red; }</style></HEAD><body>Hello</body></html>",
		},
		{
			name:     "injects after <body> with attributes",
			html:     `<html><body class="bespoke">Hello</body></html>`,
			css:      "section { padding: 0; }",
			expected: `<html><body class="bespoke"><style>section { padding: 0; }</style>Hello</body></html>`,
		},
		{
			name:     "prepends to bare fragment",
			html:     "<section>Hello</section>",
			css:      "p { color: blue; }",
			expected: "<style>p { color: blue; }</style><section>Hello</section>",
		},
		{
			name:     "sanitizes CSS with closing tags",
			html:     "<html><head></head><body>Hello</body></html>",
			css:      "</style><script>alert('xss')</script>",
			expected: `<html><head><style><\/style><script>alert('xss')<\/script></style></head><body>Hello</body></html>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := (&CSSInjection{CSS: tt.css}).Apply(context.Background(), tt.html)
			if err != nil {
				t.Fatalf("Apply() unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Apply() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestCSSInjection_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&CSSInjection{CSS: "body{}"}).Apply(ctx, "<html></html>")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Apply() error = %v, want %v", err, context.Canceled)
	}
}

func TestInsertBeforeBodyEnd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{"before closing body", "<body><p>x</p></body></html>", "<body><p>x</p>[S]</body></html>"},
		{"last closing body wins", "<body><pre></body></pre></body>", "<body><pre></body></pre>[S]</body>"},
		{"mixed case", "<BODY>x</BODY>", "<BODY>x[S]</BODY>"},
		{"appends without body", "<section>x</section>", "<section>x</section>[S]"},
	}

	for _, tt := range tests {
		if got := insertBeforeBodyEnd(tt.html, "[S]"); got != tt.want {
			t.Errorf("%s: insertBeforeBodyEnd(%q) = %q, want %q", tt.name, tt.html, got, tt.want)
		}
	}
}

func TestScriptInjection(t *testing.T) {
	t.Parallel()

	script, err := assets.LoadScript(assets.DefaultScriptName)
	if err != nil {
		t.Fatalf("LoadScript() unexpected error: %v", err)
	}
	settings := justify.DefaultSettings()
	settings.LineTolerance = 0.5

	s := &ScriptInjection{Script: script, Settings: settings}
	got, err := s.Apply(context.Background(), "<html><head></head><body><section id=\"1\"></section></body></html>")
	if err != nil {
		t.Fatalf("Apply() unexpected error: %v", err)
	}

	for _, want := range []string{
		`window.slidepressJustify = {"minRem":-0.02,"maxRem":0.02,"stepRem":0.001,"lineTolerance":0.5};`,
		"data-justified",
		"</script></body></html>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Apply() output missing %q", want)
		}
	}
	if strings.Index(got, "<section") > strings.Index(got, "<script>") {
		t.Error("script inserted before the deck content")
	}
}

func TestComposeScript_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		script   string
		settings justify.Settings
		wantErr  error
	}{
		{
			name:     "syntax error",
			script:   "(function () { var = ; })();",
			settings: justify.DefaultSettings(),
			wantErr:  ErrScriptSyntax,
		},
		{
			name:     "invalid interval",
			script:   "void 0;",
			settings: justify.Settings{MinRem: 0.1, MaxRem: -0.1, StepRem: 0.01},
			wantErr:  justify.ErrInvalidInterval,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := ComposeScript(tt.script, tt.settings); !errors.Is(err, tt.wantErr) {
				t.Errorf("ComposeScript() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSetLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		html   string
		locale string
		want   string
	}{
		{
			name:   "adds lang",
			html:   "<html><body></body></html>",
			locale: "sv",
			want:   `<html lang="sv"><body></body></html>`,
		},
		{
			name:   "replaces lang and keeps other attributes",
			html:   `<html lang="en" data-theme="dark" xml:lang="en">`,
			locale: "de-CH",
			want:   `<html lang="de-CH" data-theme="dark" xml:lang="en">`,
		},
		{
			name:   "unquoted lang",
			html:   `<HTML lang=en>`,
			locale: "fr",
			want:   `<HTML lang="fr">`,
		},
		{
			name:   "escapes locale",
			html:   `<html>`,
			locale: `x"y`,
			want:   `<html lang="x&#34;y">`,
		},
		{
			name:   "fragment unchanged",
			html:   `<section><p>htmlish</p></section>`,
			locale: "en",
			want:   `<section><p>htmlish</p></section>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := SetLanguage(tt.html, tt.locale); got != tt.want {
				t.Errorf("SetLanguage(%q, %q) = %q, want %q", tt.html, tt.locale, got, tt.want)
			}
		})
	}
}

func TestLanguage_EmptyLocale(t *testing.T) {
	t.Parallel()

	if _, err := (&Language{Locale: " "}).Apply(context.Background(), "<html>"); !errors.Is(err, ErrEmptyLocale) {
		t.Errorf("Apply() error = %v, want %v", err, ErrEmptyLocale)
	}
}
