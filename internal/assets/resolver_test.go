package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestNewAssetResolver(t *testing.T) {
	t.Parallel()

	t.Run("empty path uses embedded only", func(t *testing.T) {
		t.Parallel()

		resolver, err := NewAssetResolver("")
		if err != nil {
			t.Fatalf("NewAssetResolver(\"\") error = %v", err)
		}
		if resolver == nil {
			t.Fatal("NewAssetResolver() returned nil")
		}
		if resolver.HasCustomLoader() {
			t.Error("expected no custom loader for empty path")
		}
	})

	t.Run("valid custom path", func(t *testing.T) {
		t.Parallel()

		resolver, err := NewAssetResolver(t.TempDir())
		if err != nil {
			t.Fatalf("NewAssetResolver() error = %v", err)
		}
		if !resolver.HasCustomLoader() {
			t.Error("expected custom loader for valid path")
		}
	})

	t.Run("invalid custom path returns error", func(t *testing.T) {
		t.Parallel()

		_, err := NewAssetResolver("/nonexistent/path/abc123xyz")
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewAssetResolver() error = %v, want ErrInvalidBasePath", err)
		}
	})
}

func TestAssetResolver_LoadScript(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	customJS := "/* custom justify */"
	writeAsset(t, tmpDir, "scripts", "justify.js", customJS)
	writeAsset(t, tmpDir, "scripts", "extra.js", "/* extra */")

	resolver, err := NewAssetResolver(tmpDir)
	if err != nil {
		t.Fatalf("NewAssetResolver() error = %v", err)
	}

	t.Run("custom overrides embedded", func(t *testing.T) {
		t.Parallel()

		got, err := resolver.LoadScript("justify")
		if err != nil {
			t.Fatalf("LoadScript() error = %v", err)
		}
		if got != customJS {
			t.Errorf("LoadScript() = %q, want custom override %q", got, customJS)
		}
	})

	t.Run("loads custom only script", func(t *testing.T) {
		t.Parallel()

		got, err := resolver.LoadScript("extra")
		if err != nil {
			t.Fatalf("LoadScript() error = %v", err)
		}
		if got != "/* extra */" {
			t.Errorf("LoadScript() = %q, want %q", got, "/* extra */")
		}
	})

	t.Run("returns error when neither has script", func(t *testing.T) {
		t.Parallel()

		_, err := resolver.LoadScript("nonexistent-xyz")
		if !errors.Is(err, ErrScriptNotFound) {
			t.Errorf("LoadScript() error = %v, want ErrScriptNotFound", err)
		}
	})
}

func TestAssetResolver_LoadPatterns(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeAsset(t, tmpDir, "patterns", "hyph-de.pat.txt", "1ba\n")

	resolver, err := NewAssetResolver(tmpDir)
	if err != nil {
		t.Fatalf("NewAssetResolver() error = %v", err)
	}

	t.Run("loads custom locale", func(t *testing.T) {
		t.Parallel()

		got, err := resolver.LoadPatterns("de")
		if err != nil {
			t.Fatalf("LoadPatterns() error = %v", err)
		}
		if string(got) != "1ba\n" {
			t.Errorf("LoadPatterns() = %q, want %q", got, "1ba\n")
		}
	})

	t.Run("falls back to embedded when custom not found", func(t *testing.T) {
		t.Parallel()

		got, err := resolver.LoadPatterns("en")
		if err != nil {
			t.Fatalf("LoadPatterns() error = %v", err)
		}
		if !strings.Contains(string(got), ".under5") {
			t.Error("LoadPatterns() did not return embedded patterns")
		}
	})

	t.Run("returns error when neither has locale", func(t *testing.T) {
		t.Parallel()

		_, err := resolver.LoadPatterns("xx")
		if !errors.Is(err, ErrPatternsNotFound) {
			t.Errorf("LoadPatterns() error = %v, want ErrPatternsNotFound", err)
		}
	})
}

func TestAssetResolver_ValidationErrorsNotFallenBack(t *testing.T) {
	t.Parallel()

	resolver, err := NewAssetResolver(t.TempDir())
	if err != nil {
		t.Fatalf("NewAssetResolver() error = %v", err)
	}

	if _, err := resolver.LoadScript("../secret"); !errors.Is(err, ErrInvalidAssetName) {
		t.Errorf("LoadScript() error = %v, want ErrInvalidAssetName (no fallback)", err)
	}
	if _, err := resolver.LoadPatterns("../en"); !errors.Is(err, ErrInvalidAssetName) {
		t.Errorf("LoadPatterns() error = %v, want ErrInvalidAssetName (no fallback)", err)
	}
}

func TestAssetResolver_ImplementsAssetLoader(t *testing.T) {
	t.Parallel()

	var _ AssetLoader = (*AssetResolver)(nil)
}

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"ErrScriptNotFound", ErrScriptNotFound, true},
		{"ErrPatternsNotFound", ErrPatternsNotFound, true},
		{"unwrapped text only", errors.New("wrap: " + ErrScriptNotFound.Error()), false},
		{"ErrInvalidAssetName", ErrInvalidAssetName, false},
		{"ErrAssetRead", ErrAssetRead, false},
		{"generic error", errors.New("some error"), false},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := isNotFoundError(tt.err)
			if got != tt.want {
				t.Errorf("isNotFoundError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
