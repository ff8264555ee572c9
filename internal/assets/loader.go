package assets

// AssetLoader defines the contract for loading scripts and hyphenation patterns.
type AssetLoader interface {
	// LoadScript loads a JavaScript file by name (without .js extension).
	// Returns ErrScriptNotFound if the script doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadScript(name string) (string, error)

	// LoadPatterns loads the Liang patterns of a lowercase locale such as
	// "en" or "de-ch".
	// Returns ErrPatternsNotFound if the locale has no pattern file.
	// Returns ErrInvalidAssetName if the locale contains invalid characters.
	LoadPatterns(locale string) ([]byte, error)
}
