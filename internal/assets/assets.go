package assets

// DefaultScriptName is the name of the built-in justification script.
const DefaultScriptName = "justify"

// DefaultLocale is the locale of the built-in hyphenation patterns.
const DefaultLocale = "en"

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadScript loads a JavaScript file by name using the default embedded loader.
// The name should not include the .js extension or path components.
// Returns ErrScriptNotFound if the script does not exist.
// Returns ErrInvalidAssetName if the name contains path separators or traversal.
func LoadScript(name string) (string, error) {
	return defaultLoader.LoadScript(name)
}

// LoadPatterns loads the hyphenation patterns of a locale using the default
// embedded loader.
// Returns ErrPatternsNotFound if no pattern file exists for the locale.
// Returns ErrInvalidAssetName if the locale contains path separators or dots.
func LoadPatterns(locale string) ([]byte, error) {
	return defaultLoader.LoadPatterns(locale)
}

func scriptFile(name string) string {
	return name + ".js"
}

func patternFile(locale string) string {
	return "hyph-" + locale + ".pat.txt"
}
