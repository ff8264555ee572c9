package pipeline

import (
	"fmt"
	"strings"

	"github.com/alnah/go-slidepress/internal/hyphen"
	"github.com/alnah/go-slidepress/internal/justify"
)

// Describer is implemented by stages that document themselves.
// Describe returns Markdown.
type Describer interface {
	Describe() string
}

// Docs renders the stage list of p as a Markdown document.
func Docs(p *Pipeline) string {
	var b strings.Builder
	b.WriteString("# Pipeline stages\n\n")
	b.WriteString("| # | Stage | Step |\n|---|---|---|\n")
	for i, s := range p.stages {
		fmt.Fprintf(&b, "| %d | [%s](#%s) | %s |\n", i+1, s.Name(), s.Name(), s.Step())
	}
	for _, s := range p.stages {
		fmt.Fprintf(&b, "\n---\n\n## %s\n\n**Step:** %s\n\n", s.Name(), s.Step())
		if d, ok := s.(Describer); ok {
			b.WriteString(strings.TrimSpace(d.Describe()))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (p *PathRewrite) Describe() string {
	return "Rewrites relative `img[src]` and inline-style `url(...)` references " +
		"to absolute `file://` URLs under `" + orNone(p.SourceDir) + "`. " +
		"References escaping the directory are left unchanged."
}

func (s *CSSInjection) Describe() string {
	if s.CSS == "" {
		return "No extra CSS configured."
	}
	return "Injects the configured CSS as a `<style>` block before `</head>`.\n\n```css\n" + s.CSS + "\n```"
}

func (l *Language) Describe() string {
	return "Sets `<html lang=\"" + l.Locale + "\">`, keeping the other attributes of the tag."
}

func (h *Hyphenation) Describe() string {
	st := h.Stage.Settings
	chain := strings.Join(hyphen.Chain(st.Locale, st.Fallback), " → ")
	return fmt.Sprintf("Inserts soft hyphens in `%s` elements.\n\n"+
		"- Locale chain: %s\n"+
		"- Minimum word length: %d\n"+
		"- Minimum characters before a break: %d\n"+
		"- Minimum characters after a break: %d",
		strings.Join(st.Tags, "`, `"), chain, st.MinWordLength, st.MinCharsBefore, st.MinCharsAfter)
}

func (s *ScriptInjection) Describe() string {
	return justifyDescription(s.Settings) +
		"\n\nThe client-side justifier runs when the document is opened:\n\n```js\n" +
		strings.TrimSpace(s.Script) + "\n```"
}

func (b *Bake) Describe() string {
	return justifyDescription(b.Settings) +
		"\n\nRuns in a headless browser at build time; the output carries fixed " +
		"`letter-spacing` styles and no script."
}

func (LinkTargets) Describe() string {
	return "Adds `target=\"_blank\"` and `rel=\"noopener noreferrer\"` to every `http` or `https` link."
}

func (i *ImageInlining) Describe() string {
	scale := "disabled"
	if i.Settings.ScaleTo > 0 {
		scale = fmt.Sprintf("%d px (JPEG quality %d, PNG when transparent)", i.Settings.ScaleTo, i.Settings.Quality)
	}
	remote := "no"
	if i.Settings.Remote {
		remote = "yes"
	}
	return fmt.Sprintf("Embeds `img[src]` and inline-style images as data URIs.\n\n"+
		"- Downscale wider than: %s\n"+
		"- Fetch remote images: %s\n"+
		"- Relative base: %s", scale, remote, orNone(i.Settings.BaseDir))
}

func (f *FontInlining) Describe() string {
	sheet := "kept"
	if f.Stylesheet != "" {
		sheet = "replaced by the local fonts stylesheet"
	}
	return "Embeds local `@font-face` sources as data URIs (font directory: " + orNone(f.FontDir) +
		").\n\nGoogle Fonts `@import`: " + sheet + "."
}

func justifyDescription(s justify.Settings) string {
	return fmt.Sprintf("Adjusts letter-spacing line by line so justified spaces return to their natural width.\n\n"+
		"- Interval: %s to %s, step %s\n"+
		"- Line tolerance: %gpx",
		justify.FormatRem(s.MinRem), justify.FormatRem(s.MaxRem), justify.FormatRem(s.StepRem), s.LineTolerance)
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return "`" + s + "`"
}
