package justify

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// Sentinel errors for settings validation.
var (
	ErrInvalidInterval  = errors.New("invalid letter-spacing interval")
	ErrInvalidStep      = errors.New("invalid letter-spacing step")
	ErrInvalidTolerance = errors.New("invalid line tolerance")
)

// Default search interval, in rem.
const (
	DefaultMinRem  = -0.02
	DefaultMaxRem  = 0.02
	DefaultStepRem = 0.001
)

// maxCandidates caps the grid so a tiny step cannot turn the exhaustive
// search into thousands of reflows per group.
const maxCandidates = 1000

// gridPrecision rounds candidates so accumulated float error never shows
// up in the serialized letter-spacing values.
const gridPrecision = 1e9

// gridEpsilon absorbs float error in the step count, so a step dividing
// the interval exactly still reaches MaxRem.
const gridEpsilon = 1e-9

// Settings configures the justification engine.
type Settings struct {
	MinRem  float64 // lower bound of the search interval
	MaxRem  float64 // upper bound of the search interval
	StepRem float64 // quantization step

	// LineTolerance is the largest vertical offset difference, in pixels,
	// still considered the same visual line. Zero compares offsets exactly.
	LineTolerance float64

	// RestorePage is displayed when the walk ends. Zero means page 1.
	RestorePage int
}

// DefaultSettings returns the default search interval with exact line matching.
func DefaultSettings() Settings {
	return Settings{
		MinRem:  DefaultMinRem,
		MaxRem:  DefaultMaxRem,
		StepRem: DefaultStepRem,
	}
}

// Validate checks that the interval is finite and the grid stays small.
func (s Settings) Validate() error {
	if math.IsNaN(s.MinRem) || math.IsNaN(s.MaxRem) || math.IsInf(s.MinRem, 0) || math.IsInf(s.MaxRem, 0) {
		return fmt.Errorf("%w: bounds must be finite", ErrInvalidInterval)
	}
	if s.MinRem > s.MaxRem {
		return fmt.Errorf("%w: min %g > max %g", ErrInvalidInterval, s.MinRem, s.MaxRem)
	}
	if !(s.StepRem > 0) || math.IsInf(s.StepRem, 0) {
		return fmt.Errorf("%w: %g (must be positive)", ErrInvalidStep, s.StepRem)
	}
	if n := (s.MaxRem - s.MinRem) / s.StepRem; n > maxCandidates {
		return fmt.Errorf("%w: %g yields %.0f candidates (max %d)", ErrInvalidStep, s.StepRem, n, maxCandidates)
	}
	if s.LineTolerance < 0 || math.IsNaN(s.LineTolerance) {
		return fmt.Errorf("%w: %g", ErrInvalidTolerance, s.LineTolerance)
	}
	return nil
}

// Grid returns the candidate spacing values, ascending, from MinRem up to
// the last step that does not pass MaxRem. When the interval contains zero,
// an exact 0 is always a candidate, even if the step does not land on it.
func (s Settings) Grid() []float64 {
	n := int(math.Floor((s.MaxRem-s.MinRem)/s.StepRem + gridEpsilon))
	grid := make([]float64, 0, n+2)
	hasZero := false
	for i := 0; i <= n; i++ {
		v := s.MinRem + float64(i)*s.StepRem
		v = math.Min(math.Round(v*gridPrecision)/gridPrecision, s.MaxRem)
		if v == 0 {
			hasZero = true
		}
		grid = append(grid, v)
	}
	if !hasZero && s.MinRem <= 0 && s.MaxRem >= 0 {
		i, _ := slices.BinarySearch(grid, 0)
		grid = slices.Insert(grid, i, 0)
	}
	return grid
}

// restorePage returns the page displayed after the walk.
func (s Settings) restorePage() int {
	if s.RestorePage < 1 {
		return 1
	}
	return s.RestorePage
}
