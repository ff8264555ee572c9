package pipeline

import (
	"context"
	"errors"
	"html"
	"regexp"
	"strings"
)

// ErrEmptyLocale is returned when the language stage has no locale.
var ErrEmptyLocale = errors.New("empty locale")

var (
	htmlStartTag = regexp.MustCompile(`(?i)<html\b[^>]*>`)
	langAttr     = regexp.MustCompile(`(?i)\s+lang\s*=\s*(?:"[^"]*"|'[^']*'|[^\s>]+)`)
)

// Language sets the lang attribute of every <html> start tag.
// Other attributes of the tag are kept.
type Language struct {
	Locale string
}

func (l *Language) Name() string { return "language" }
func (l *Language) Step() Step   { return StepLanguage }

// Apply rewrites the html start tags. Documents without one are unchanged.
func (l *Language) Apply(ctx context.Context, doc string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	locale := strings.TrimSpace(l.Locale)
	if locale == "" {
		return "", ErrEmptyLocale
	}
	return SetLanguage(doc, locale), nil
}

// SetLanguage replaces any lang attribute of the <html> start tags with locale.
func SetLanguage(doc, locale string) string {
	attr := ` lang="` + html.EscapeString(locale) + `"`
	return htmlStartTag.ReplaceAllStringFunc(doc, func(tag string) string {
		tag = langAttr.ReplaceAllString(tag, "")
		// "<html" is five bytes; the attribute goes right after it.
		return tag[:5] + attr + tag[5:]
	})
}
