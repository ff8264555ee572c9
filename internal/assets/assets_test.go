package assets

import (
	"errors"
	"testing"
)

func TestLoadScript(t *testing.T) {
	tests := []struct {
		name       string
		scriptName string
		wantErr    error
	}{
		{
			name:       "valid script returns content",
			scriptName: "justify",
			wantErr:    nil,
		},
		{
			name:       "nonexistent script returns ErrScriptNotFound",
			scriptName: "nonexistent",
			wantErr:    ErrScriptNotFound,
		},
		{
			name:       "empty name returns ErrInvalidAssetName",
			scriptName: "",
			wantErr:    ErrInvalidAssetName,
		},
		{
			name:       "absolute path returns ErrInvalidAssetName",
			scriptName: "/etc/passwd",
			wantErr:    ErrInvalidAssetName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, err := LoadScript(tt.scriptName)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadScript(%q) error = %v, want %v", tt.scriptName, err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("LoadScript(%q) unexpected error: %v", tt.scriptName, err)
			}

			if content == "" {
				t.Errorf("LoadScript(%q) returned empty content", tt.scriptName)
			}
		})
	}
}

func TestLoadPatterns(t *testing.T) {
	tests := []struct {
		name    string
		locale  string
		wantErr error
	}{
		{
			name:   "default locale returns content",
			locale: DefaultLocale,
		},
		{
			name:    "base subtag without data returns ErrPatternsNotFound",
			locale:  "de",
			wantErr: ErrPatternsNotFound,
		},
		{
			name:    "dotted locale returns ErrInvalidAssetName",
			locale:  "en.US",
			wantErr: ErrInvalidAssetName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, err := LoadPatterns(tt.locale)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadPatterns(%q) error = %v, want %v", tt.locale, err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("LoadPatterns(%q) unexpected error: %v", tt.locale, err)
			}
			if len(content) == 0 {
				t.Errorf("LoadPatterns(%q) returned empty content", tt.locale)
			}
		})
	}
}
