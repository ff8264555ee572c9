package justify

import (
	"errors"
	"math"
	"testing"
)

func TestSettings_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		settings Settings
		wantErr  error
	}{
		{
			name:     "defaults",
			settings: DefaultSettings(),
		},
		{
			name:     "single point interval",
			settings: Settings{MinRem: 0, MaxRem: 0, StepRem: 0.001},
		},
		{
			name:     "with tolerance",
			settings: Settings{MinRem: -0.01, MaxRem: 0.01, StepRem: 0.001, LineTolerance: 0.5},
		},
		{
			name:     "inverted interval",
			settings: Settings{MinRem: 0.02, MaxRem: -0.02, StepRem: 0.001},
			wantErr:  ErrInvalidInterval,
		},
		{
			name:     "infinite bound",
			settings: Settings{MinRem: math.Inf(-1), MaxRem: 0.02, StepRem: 0.001},
			wantErr:  ErrInvalidInterval,
		},
		{
			name:     "NaN bound",
			settings: Settings{MinRem: math.NaN(), MaxRem: 0.02, StepRem: 0.001},
			wantErr:  ErrInvalidInterval,
		},
		{
			name:     "zero step",
			settings: Settings{MinRem: -0.02, MaxRem: 0.02},
			wantErr:  ErrInvalidStep,
		},
		{
			name:     "negative step",
			settings: Settings{MinRem: -0.02, MaxRem: 0.02, StepRem: -0.001},
			wantErr:  ErrInvalidStep,
		},
		{
			name:     "too many candidates",
			settings: Settings{MinRem: -1, MaxRem: 1, StepRem: 0.0001},
			wantErr:  ErrInvalidStep,
		},
		{
			name:     "negative tolerance",
			settings: Settings{MinRem: -0.02, MaxRem: 0.02, StepRem: 0.001, LineTolerance: -1},
			wantErr:  ErrInvalidTolerance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.settings.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSettings_Grid(t *testing.T) {
	t.Parallel()

	grid := DefaultSettings().Grid()
	if len(grid) != 41 {
		t.Fatalf("len(Grid()) = %d, want 41", len(grid))
	}
	if grid[0] != DefaultMinRem {
		t.Errorf("Grid()[0] = %v, want %v", grid[0], DefaultMinRem)
	}
	if grid[len(grid)-1] != DefaultMaxRem {
		t.Errorf("Grid()[last] = %v, want %v", grid[len(grid)-1], DefaultMaxRem)
	}
	if grid[20] != 0 {
		t.Errorf("Grid()[20] = %v, want exact 0", grid[20])
	}
	if grid[27] != 0.007 {
		t.Errorf("Grid()[27] = %v, want 0.007", grid[27])
	}
	for i := 1; i < len(grid); i++ {
		if d := grid[i] - grid[i-1]; math.Abs(d-DefaultStepRem) > 1e-12 {
			t.Errorf("step between %d and %d = %v, want %v", i-1, i, d, DefaultStepRem)
		}
	}
}

func TestSettings_GridSinglePoint(t *testing.T) {
	t.Parallel()

	grid := Settings{MinRem: 0.01, MaxRem: 0.01, StepRem: 0.001}.Grid()
	if len(grid) != 1 || grid[0] != 0.01 {
		t.Errorf("Grid() = %v, want [0.01]", grid)
	}
}

func TestSettings_GridUnevenStep(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Settings
		want []float64
	}{
		{
			name: "step overshooting max stays in bounds",
			in:   Settings{MinRem: -0.02, MaxRem: 0.02, StepRem: 0.015},
			want: []float64{-0.02, -0.005, 0, 0.01},
		},
		{
			name: "step skipping zero still offers zero",
			in:   Settings{MinRem: -0.02, MaxRem: 0.02, StepRem: 0.003},
			want: []float64{-0.02, -0.017, -0.014, -0.011, -0.008, -0.005, -0.002, 0, 0.001, 0.004, 0.007, 0.01, 0.013, 0.016, 0.019},
		},
		{
			name: "positive interval has no zero",
			in:   Settings{MinRem: 0.01, MaxRem: 0.02, StepRem: 0.004},
			want: []float64{0.01, 0.014, 0.018},
		},
		{
			name: "zero at max boundary",
			in:   Settings{MinRem: -0.01, MaxRem: 0, StepRem: 0.004},
			want: []float64{-0.01, -0.006, -0.002, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.in.Grid()
			if len(got) != len(tt.want) {
				t.Fatalf("Grid() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-12 {
					t.Errorf("Grid()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
				if got[i] < tt.in.MinRem || got[i] > tt.in.MaxRem {
					t.Errorf("Grid()[%d] = %v outside [%v, %v]", i, got[i], tt.in.MinRem, tt.in.MaxRem)
				}
			}
		})
	}
}

func TestSettings_RestorePage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   int
		want int
	}{
		{0, 1},
		{-3, 1},
		{1, 1},
		{4, 4},
	}
	for _, tt := range tests {
		if got := (Settings{RestorePage: tt.in}).restorePage(); got != tt.want {
			t.Errorf("restorePage() with RestorePage=%d = %d, want %d", tt.in, got, tt.want)
		}
	}
}
