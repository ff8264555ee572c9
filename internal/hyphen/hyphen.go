// Package hyphen inserts soft hyphens into allow-listed elements of an HTML
// document.
//
// Break points come from Liang pattern dictionaries resolved along a locale
// chain (full locale, base subtag, fallback). Breaks leaving too few letters
// on either side are filtered out so the browser never splits a word next to
// punctuation or into a stub.
package hyphen

import (
	"errors"
	"strings"

	"golang.org/x/text/language"
)

// SoftHyphen is the invisible break marker inserted into text.
const SoftHyphen = '\u00AD'

// Sentinel errors.
var (
	// ErrNotFound indicates a dictionary has no data for a locale.
	ErrNotFound = errors.New("no hyphenation dictionary")

	// ErrNoDictionary indicates the whole locale chain, fallback included,
	// failed to resolve. It is a configuration defect.
	ErrNoDictionary = errors.New("no hyphenation dictionary for any locale in chain")

	// ErrInvalidSettings indicates unusable hyphenation settings.
	ErrInvalidSettings = errors.New("invalid hyphenation settings")
)

// Hyphenator finds the break points of a single word.
type Hyphenator interface {
	// Breaks returns the rune offsets at which word may be split,
	// in increasing order. Offset i means a break before the i-th rune.
	Breaks(word string) []int
}

// Dictionaries resolves a Hyphenator per locale.
type Dictionaries interface {
	// Lookup returns ErrNotFound when the locale has no data.
	Lookup(locale string) (Hyphenator, error)
}

// Chain returns the locales tried for a requested locale, in order:
// the full locale (canonicalized when it is a valid BCP 47 tag), its base
// subtag, then fallback. Entries are lowercase and unique.
func Chain(locale, fallback string) []string {
	locale = strings.TrimSpace(locale)
	var chain []string
	add := func(l string) {
		l = strings.ToLower(strings.ReplaceAll(l, "_", "-"))
		if l == "" {
			return
		}
		for _, c := range chain {
			if c == l {
				return
			}
		}
		chain = append(chain, l)
	}

	full := locale
	if tag, err := language.Parse(locale); err == nil {
		full = tag.String()
	}
	add(full)
	if i := strings.IndexAny(full, "-_"); i > 0 {
		add(full[:i])
	}
	add(fallback)
	return chain
}
