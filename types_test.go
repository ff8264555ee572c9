package slidepress

import (
	"errors"
	"math"
	"testing"
)

func TestDefaults_Validate(t *testing.T) {
	t.Parallel()

	validators := map[string]interface{ Validate() error }{
		"hyphenation": DefaultHyphenation(),
		"justify":     DefaultJustify(),
		"images":      DefaultImages(),
		"render":      DefaultRenderSettings(),
	}
	for name, v := range validators {
		if err := v.Validate(); err != nil {
			t.Errorf("default %s: Validate() unexpected error: %v", name, err)
		}
	}
}

func TestNilSections_Validate(t *testing.T) {
	t.Parallel()

	var (
		h *Hyphenation
		j *Justify
		i *Images
		r *RenderSettings
	)
	for _, err := range []error{h.Validate(), j.Validate(), i.Validate(), r.Validate()} {
		if err != nil {
			t.Errorf("nil Validate() = %v, want nil", err)
		}
	}
	if j.bake() {
		t.Error("nil Justify reports bake mode")
	}
}

func TestJustify_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Justify)
		wantErr error
	}{
		{"bake mode", func(j *Justify) { j.Mode = ModeBake }, nil},
		{"mode is case insensitive", func(j *Justify) { j.Mode = "BAKE" }, nil},
		{"empty mode", func(j *Justify) { j.Mode = "" }, ErrInvalidMode},
		{"unknown mode", func(j *Justify) { j.Mode = "off" }, ErrInvalidMode},
		{"inverted interval", func(j *Justify) { j.MinRem, j.MaxRem = 0.1, -0.1 }, ErrInvalidJustify},
		{"zero step", func(j *Justify) { j.StepRem = 0 }, ErrInvalidJustify},
		{"NaN bound", func(j *Justify) { j.MaxRem = math.NaN() }, ErrInvalidJustify},
		{"negative tolerance", func(j *Justify) { j.LineTolerance = -1 }, ErrInvalidJustify},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			j := DefaultJustify()
			tt.modify(j)
			err := j.Validate()
			if tt.wantErr == nil && err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestHyphenation_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Hyphenation)
		wantErr bool
	}{
		{"no tags", func(h *Hyphenation) { h.Tags = nil }, false},
		{"empty fallback", func(h *Hyphenation) { h.Fallback = " " }, true},
		{"zero word length", func(h *Hyphenation) { h.MinWordLength = 0 }, true},
		{"zero chars before", func(h *Hyphenation) { h.MinCharsBefore = 0 }, true},
		{"bad tag", func(h *Hyphenation) { h.Tags = []string{"p>"} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := DefaultHyphenation()
			tt.modify(h)
			err := h.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidHyphenation) {
				t.Errorf("Validate() error = %v, want %v", err, ErrInvalidHyphenation)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestImages_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		images  Images
		wantErr bool
	}{
		{"scaling disabled", Images{ScaleTo: 0, Quality: 80}, false},
		{"negative width", Images{ScaleTo: -1, Quality: 80}, true},
		{"quality zero", Images{ScaleTo: 100, Quality: 0}, true},
		{"quality above 100", Images{ScaleTo: 100, Quality: 101}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.images.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidImages) {
				t.Errorf("Validate() error = %v, want %v", err, ErrInvalidImages)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestRenderSettings_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*RenderSettings)
		wantErr bool
	}{
		{"zero width", func(r *RenderSettings) { r.Width = 0 }, true},
		{"negative height", func(r *RenderSettings) { r.Height = -720 }, true},
		{"zero scale", func(r *RenderSettings) { r.DeviceScaleFactor = 0 }, true},
		{"scale 4", func(r *RenderSettings) { r.DeviceScaleFactor = 4 }, false},
		{"scale above 4", func(r *RenderSettings) { r.DeviceScaleFactor = 4.5 }, true},
		{"quality 100", func(r *RenderSettings) { r.JPEGQuality = 100 }, false},
		{"quality 0", func(r *RenderSettings) { r.JPEGQuality = 0 }, true},
		{"no crop", func(r *RenderSettings) { r.CropPercent = 0 }, false},
		{"negative crop", func(r *RenderSettings) { r.CropPercent = -1 }, true},
		{"crop 10", func(r *RenderSettings) { r.CropPercent = 10 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := DefaultRenderSettings()
			tt.modify(r)
			err := r.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidRender) {
				t.Errorf("Validate() error = %v, want %v", err, ErrInvalidRender)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestExport_Any(t *testing.T) {
	t.Parallel()

	if (Export{}).any() {
		t.Error("empty Export reports outputs")
	}
	for _, e := range []Export{{PDF: true}, {JPEGs: true}, {Links: true}} {
		if !e.any() {
			t.Errorf("%+v.any() = false, want true", e)
		}
	}
}
