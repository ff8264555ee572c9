package hyphen

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Default settings.
const (
	DefaultFallback       = "en"
	DefaultMinWordLength  = 5
	DefaultMinCharsBefore = 3
	DefaultMinCharsAfter  = 3
)

// DefaultTags are the elements hyphenated when no allow-list is configured.
var DefaultTags = []string{"p", "li", "td", "th"}

// Settings configures the hyphenation stage.
type Settings struct {
	Locale         string   // requested locale, e.g. "de-CH"
	Fallback       string   // last locale of the chain
	Tags           []string // elements whose text is hyphenated
	MinWordLength  int      // shorter words are never hyphenated
	MinCharsBefore int      // letters kept before a break
	MinCharsAfter  int      // letters kept after a break
}

// DefaultSettings returns English settings with the default limits.
func DefaultSettings() Settings {
	return Settings{
		Locale:         DefaultFallback,
		Fallback:       DefaultFallback,
		Tags:           append([]string(nil), DefaultTags...),
		MinWordLength:  DefaultMinWordLength,
		MinCharsBefore: DefaultMinCharsBefore,
		MinCharsAfter:  DefaultMinCharsAfter,
	}
}

var tagName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*$`)

// Validate checks limits and tag names.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.Fallback) == "" {
		return fmt.Errorf("%w: empty fallback locale", ErrInvalidSettings)
	}
	if s.MinWordLength < 1 || s.MinCharsBefore < 1 || s.MinCharsAfter < 1 {
		return fmt.Errorf("%w: minimums must be at least 1 (word %d, before %d, after %d)",
			ErrInvalidSettings, s.MinWordLength, s.MinCharsBefore, s.MinCharsAfter)
	}
	for _, t := range s.Tags {
		if !tagName.MatchString(t) {
			return fmt.Errorf("%w: tag %q", ErrInvalidSettings, t)
		}
	}
	return nil
}

// Result is the output of the stage.
type Result struct {
	HTML     string
	Language string // locale of the dictionary actually used
}

// Stage hyphenates documents.
type Stage struct {
	Dicts    Dictionaries
	Settings Settings
}

// Hyphenate inserts soft hyphens into the text of every allow-listed
// element span. Markup inside tags and character references is untouched.
// Returns ErrNoDictionary when no locale of the chain resolves.
func (s *Stage) Hyphenate(markup string) (Result, error) {
	if err := s.Settings.Validate(); err != nil {
		return Result{}, err
	}

	h, lang, err := Resolve(s.Dicts, Chain(s.Settings.Locale, s.Settings.Fallback))
	if err != nil {
		return Result{}, err
	}

	for _, tag := range s.Settings.Tags {
		markup = spanPattern(tag).ReplaceAllStringFunc(markup, func(span string) string {
			span = hyphenateSpan(span, h, s.Settings.MinWordLength)
			return FilterBreaks(span, s.Settings.MinCharsBefore, s.Settings.MinCharsAfter)
		})
	}

	return Result{HTML: markup, Language: lang}, nil
}

// Resolve returns the first hyphenator of chain and its locale.
// Lookup errors other than ErrNotFound abort the chain.
func Resolve(d Dictionaries, chain []string) (Hyphenator, string, error) {
	for _, locale := range chain {
		h, err := d.Lookup(locale)
		if err == nil {
			return h, locale, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, "", fmt.Errorf("loading %q: %w", locale, err)
		}
	}
	return nil, "", fmt.Errorf("%w: %s", ErrNoDictionary, strings.Join(chain, ", "))
}

// spanPattern matches one element span, non-greedy, across lines.
func spanPattern(tag string) *regexp.Regexp {
	t := regexp.QuoteMeta(tag)
	return regexp.MustCompile(`(?is)<` + t + `\b[^>]*>.*?</` + t + `\s*>`)
}

var entity = regexp.MustCompile(`^&(?:#[0-9]+|#[xX][0-9a-fA-F]+|[A-Za-z][A-Za-z0-9]*);`)

// hyphenateSpan hyphenates the text runs of span, skipping tags and entities.
func hyphenateSpan(span string, h Hyphenator, minLen int) string {
	var b strings.Builder
	b.Grow(len(span) + len(span)/8)

	for i := 0; i < len(span); {
		switch span[i] {
		case '<':
			j := strings.IndexByte(span[i:], '>')
			if j < 0 {
				b.WriteString(span[i:])
				return b.String()
			}
			b.WriteString(span[i : i+j+1])
			i += j + 1
		case '&':
			if m := entity.FindStringIndex(span[i:]); m != nil {
				b.WriteString(span[i : i+m[1]])
				i += m[1]
			} else {
				b.WriteByte('&')
				i++
			}
		default:
			j := strings.IndexAny(span[i:], "<&")
			if j < 0 {
				j = len(span) - i
			}
			hyphenateText(&b, span[i:i+j], h, minLen)
			i += j
		}
	}
	return b.String()
}

// hyphenateText writes text with soft hyphens inside its words.
func hyphenateText(b *strings.Builder, text string, h Hyphenator, minLen int) {
	start := -1
	flush := func(end int) {
		if start >= 0 {
			writeWord(b, text[start:end], h, minLen)
			start = -1
		}
	}
	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
		b.WriteRune(r)
	}
	flush(len(text))
}

func writeWord(b *strings.Builder, word string, h Hyphenator, minLen int) {
	// Words already carrying soft hyphens were hyphenated by an outer span.
	if strings.ContainsRune(word, SoftHyphen) || utf8.RuneCountInString(word) < minLen {
		b.WriteString(word)
		return
	}
	breaks := h.Breaks(word)
	next := 0
	for i, r := range []rune(word) {
		if next < len(breaks) && breaks[next] == i {
			b.WriteRune(SoftHyphen)
			next++
		}
		b.WriteRune(r)
	}
}

func isWordRune(r rune) bool {
	return r == SoftHyphen || unicode.IsLetter(r) || unicode.Is(unicode.Mn, r)
}

// FilterBreaks removes every soft hyphen of s that does not have at least
// before letters immediately before it and after letters immediately after
// it. Hyphens count as letters; other soft hyphens are ignored when
// counting.
func FilterBreaks(s string, before, after int) string {
	if !strings.ContainsRune(s, SoftHyphen) {
		return s
	}
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))
	for i, r := range runes {
		if r == SoftHyphen && !keepBreak(runes, i, before, after) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func keepBreak(runes []rune, at, before, after int) bool {
	n := 0
	for i := at - 1; i >= 0 && n < before; i-- {
		if runes[i] == SoftHyphen {
			continue
		}
		if !isBreakLetter(runes[i]) {
			return false
		}
		n++
	}
	if n < before {
		return false
	}

	n = 0
	for i := at + 1; i < len(runes) && n < after; i++ {
		if runes[i] == SoftHyphen {
			continue
		}
		if !isBreakLetter(runes[i]) {
			return false
		}
		n++
	}
	return n == after
}

func isBreakLetter(r rune) bool {
	return r == '-' || unicode.IsLetter(r)
}
