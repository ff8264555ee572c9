package hyphen

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/speedata/hyphenation"

	"github.com/alnah/go-slidepress/internal/assets"
)

// PatternSource supplies raw Liang pattern files per locale.
// assets.AssetLoader satisfies it.
type PatternSource interface {
	LoadPatterns(locale string) ([]byte, error)
}

// PatternDictionaries builds hyphenators from pattern files and caches them.
// Safe for concurrent use.
type PatternDictionaries struct {
	source PatternSource

	mu    sync.Mutex
	cache map[string]Hyphenator
}

// NewPatternDictionaries creates dictionaries backed by source.
func NewPatternDictionaries(source PatternSource) *PatternDictionaries {
	return &PatternDictionaries{
		source: source,
		cache:  make(map[string]Hyphenator),
	}
}

// Lookup parses and caches the patterns of locale.
func (d *PatternDictionaries) Lookup(locale string) (Hyphenator, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if h, ok := d.cache[locale]; ok {
		return h, nil
	}

	data, err := d.source.LoadPatterns(locale)
	if err != nil {
		if errors.Is(err, assets.ErrPatternsNotFound) || errors.Is(err, assets.ErrInvalidAssetName) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, locale)
		}
		return nil, err
	}

	lang, err := hyphenation.New(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing patterns for %q: %w", locale, err)
	}

	h := &patternHyphenator{lang: lang}
	d.cache[locale] = h
	return h, nil
}

// patternHyphenator adapts a speedata pattern set to Hyphenator.
type patternHyphenator struct {
	lang *hyphenation.Lang
}

func (p *patternHyphenator) Breaks(word string) []int {
	lower := strings.ToLower(word)
	n := utf8.RuneCountInString(word)
	// Lowercasing may change the rune count (e.g. U+0130); offsets would
	// no longer line up with the original word.
	if utf8.RuneCountInString(lower) != n {
		return nil
	}

	var out []int
	for _, b := range p.lang.Hyphenate(lower) {
		if b > 0 && b < n {
			out = append(out, b)
		}
	}
	return out
}

// Compile-time interface checks.
var (
	_ Dictionaries  = (*PatternDictionaries)(nil)
	_ PatternSource = (assets.AssetLoader)(nil)
)
