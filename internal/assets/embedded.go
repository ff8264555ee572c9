package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
)

//go:embed scripts/* patterns/*
var embedded embed.FS

// EmbeddedLoader loads assets from an embedded filesystem.
// Implements AssetLoader interface.
type EmbeddedLoader struct {
	fsys fs.FS
}

// NewEmbeddedLoader creates an EmbeddedLoader over the compiled-in assets.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{fsys: embedded}
}

// LoadScript loads a script from embedded assets by name.
// The name should not include the .js extension.
func (e *EmbeddedLoader) LoadScript(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := fs.ReadFile(e.fsys, path.Join("scripts", scriptFile(name)))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrScriptNotFound, name)
	}

	return string(content), nil
}

// LoadPatterns loads hyphenation patterns from embedded assets by locale.
func (e *EmbeddedLoader) LoadPatterns(locale string) ([]byte, error) {
	if err := ValidateAssetName(locale); err != nil {
		return nil, err
	}

	content, err := fs.ReadFile(e.fsys, path.Join("patterns", patternFile(locale)))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrPatternsNotFound, locale)
	}

	return content, nil
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
