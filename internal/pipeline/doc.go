// Package pipeline turns a rendered slide deck into a self-contained document.
//
// A Pipeline runs string-to-string stages in a fixed order:
//   - Prepare: relative path rewriting and extra CSS
//   - Language: the html lang attribute
//   - Hyphenate: soft hyphens in allow-listed elements
//   - Justify: client-side script injection or a baked walk
//   - Links: external links open in a new browsing context
//   - Images: images inlined as data URIs, optionally downscaled
//   - Fonts: web fonts inlined as data URIs
//
// Hyphenation must run before justification: the justifier measures words,
// and words that gain soft hyphens afterwards would invalidate those widths.
// New rejects any stage list that breaks the order.
//
// Browser rendering (PDF, screenshots, link boxes) lives in the root
// slidepress package; the Bake stage reaches it through the Baker interface.
package pipeline
