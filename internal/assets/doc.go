// Package assets provides the client-side justification script and the
// hyphenation pattern files.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (defaults)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// EmbeddedLoader provides the built-in justify script and an English pattern
// set embedded at compile time.
//
// FilesystemLoader allows users to provide additional languages or a
// patched script from a directory, with path traversal protection and
// symlink resolution.
//
// AssetResolver is the primary loader used by the converter. It tries the
// custom FilesystemLoader first, falling back to EmbeddedLoader if the asset
// is not found. This enables adding pattern files for new locales while
// keeping the defaults.
//
// # Directory Structure
//
// Assets are organized by type:
//
//	{basePath}/
//	├── scripts/
//	│   └── {name}.js               # client-side scripts (e.g., justify.js)
//	└── patterns/
//	    └── hyph-{locale}.pat.txt   # Liang patterns (e.g., hyph-de.pat.txt)
//
// Pattern files use the plain hyph-utf8 format: one TeX pattern per line.
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
