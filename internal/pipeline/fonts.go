package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/alnah/go-slidepress/internal/fileutil"
)

// ErrFontLoad is returned when a local font file referenced by a
// @font-face rule cannot be read.
var ErrFontLoad = errors.New("failed to load font")

var (
	googleFontsImport = regexp.MustCompile(`(?i)@import\s+url\(\s*['"]?https://fonts\.googleapis\.com[^)]*\)\s*;`)
	fontFaceRule      = regexp.MustCompile(`(?is)@font-face\s*\{[^}]*\}`)
)

// FontInlining embeds web fonts.
//
// The Google Fonts @import is replaced by Stylesheet, a local equivalent.
// Every relative or file:// url(...) inside a @font-face rule is then
// replaced by a data URI. Relative urls resolve against FontDir.
type FontInlining struct {
	Stylesheet string
	FontDir    string
}

func (f *FontInlining) Name() string { return "fonts" }
func (f *FontInlining) Step() Step   { return StepFonts }

// Apply inlines the fonts.
func (f *FontInlining) Apply(ctx context.Context, doc string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.Stylesheet != "" {
		sheet := "\n" + sanitizeCSS(f.Stylesheet) + "\n"
		doc = googleFontsImport.ReplaceAllLiteralString(doc, sheet)
	}

	var firstErr error
	doc = fontFaceRule.ReplaceAllStringFunc(doc, func(rule string) string {
		if firstErr != nil {
			return rule
		}
		out, err := f.inlineRule(rule)
		if err != nil {
			firstErr = err
			return rule
		}
		return out
	})
	if firstErr != nil {
		return "", firstErr
	}
	return doc, nil
}

func (f *FontInlining) inlineRule(rule string) (string, error) {
	var firstErr error
	out := styleURL.ReplaceAllStringFunc(rule, func(m string) string {
		if firstErr != nil {
			return m
		}
		ref := styleURL.FindStringSubmatch(m)[2]
		path, ok := f.resolve(ref)
		if !ok {
			return m
		}
		data, err := os.ReadFile(path) // #nosec G304 -- stylesheet-referenced font
		if err != nil {
			firstErr = fmt.Errorf("%w: %v", ErrFontLoad, err)
			return m
		}
		return "url(" + fileutil.DataURI(fileutil.MIMEType(path), data) + ")"
	})
	return out, firstErr
}

// resolve maps a font reference to a local path. Remote and data urls
// give false.
func (f *FontInlining) resolve(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "", strings.HasPrefix(ref, "data:"), fileutil.IsURL(ref), strings.HasPrefix(ref, "//"):
		return "", false
	case strings.HasPrefix(ref, "file://"):
		return fileURLToPath(ref)
	case filepath.IsAbs(ref):
		return ref, true
	}
	// Drop a query or fragment (font.woff?v=2#iefix).
	if i := strings.IndexAny(ref, "?#"); i != -1 {
		ref = ref[:i]
	}
	return filepath.Join(f.FontDir, filepath.FromSlash(ref)), true
}
