// Package slidepress turns a rendered slide deck into a self-contained
// deliverable: one HTML file with its images and fonts inlined, text
// hyphenated and justified, plus optional PDF, per-slide JPEG and link
// position exports made with headless Chrome.
//
// # Quick Start
//
// Create a converter, build a deck, and close when done:
//
//	conv, err := slidepress.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, slidepress.Input{
//	    HTML:        deckHTML,
//	    SourceDir:   "/path/to/deck",
//	    Locale:      "de-CH",
//	    Hyphenation: slidepress.DefaultHyphenation(),
//	    Justify:     slidepress.DefaultJustify(),
//	    Images:      slidepress.DefaultImages(),
//	    Export:      slidepress.Export{PDF: true},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("index.html", result.HTML, 0644)
//	os.WriteFile("index.pdf", result.PDF, 0644)
//
// The input is HTML already produced by a Markdown slide renderer such as
// Marp: every slide is a <section> whose id holds its page number.
//
// # Pipeline
//
// Stages run in a fixed order; nil Input sections skip theirs:
//
//  1. Relative paths become file:// URLs (SourceDir) and extra CSS is injected
//  2. The <html lang> attribute is set
//  3. Soft hyphens are inserted using Liang patterns for the locale chain
//     (full locale, base subtag, fallback)
//  4. Letter-spacing justification: ModeScript ships a client-side justifier,
//     ModeBake runs it in Chrome at build time and ships fixed styles
//  5. External links open in a new tab
//  6. Images are inlined as data URIs, wide ones downscaled
//  7. Fonts are inlined into @font-face rules
//
// Hyphenation always precedes justification, since soft hyphens change
// the measured line widths.
//
// # Parallel Processing
//
// For batch builds, use ConverterPool to manage multiple browser instances:
//
//	pool := slidepress.NewConverterPool(slidepress.ResolvePoolSize(0))
//	defer pool.Close()
//
//	conv, err := pool.Acquire()
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(conv)
//	result, err := conv.Convert(ctx, input)
//
// # Custom Assets
//
// WithAssetPath adds hyphenation patterns or replaces the justify script:
//
//	assets/
//	├── scripts/
//	│   └── justify.js
//	└── patterns/
//	    └── hyph-de.pat.txt
//
// # Browser Requirements
//
// Exports and bake mode require Chrome/Chromium. The go-rod library
// downloads a managed Chromium on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN or WithBrowserBin to specify a
// custom Chrome binary.
package slidepress
