package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Sentinel errors for pipeline construction.
var (
	ErrStageOrder = errors.New("stage out of order")
	ErrNilStage   = errors.New("nil stage")
)

// Step is the position of a stage in the pipeline.
type Step int

// Steps, in execution order.
const (
	StepPrepare Step = iota
	StepLanguage
	StepHyphenate
	StepJustify
	StepLinks
	StepImages
	StepFonts
)

var stepNames = [...]string{
	StepPrepare:   "prepare",
	StepLanguage:  "language",
	StepHyphenate: "hyphenate",
	StepJustify:   "justify",
	StepLinks:     "links",
	StepImages:    "images",
	StepFonts:     "fonts",
}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

// Stage transforms a whole document.
type Stage interface {
	Name() string
	Step() Step
	Apply(ctx context.Context, doc string) (string, error)
}

// Timing records how long one stage took.
type Timing struct {
	Stage    string
	Step     Step
	Duration time.Duration
}

// Pipeline is an ordered list of stages.
type Pipeline struct {
	stages []Stage
	logger *slog.Logger
}

// New validates the order of stages and returns a Pipeline.
// Several stages may share a step; a stage may never precede one with a
// lower step. A nil logger discards.
func New(logger *slog.Logger, stages ...Stage) (*Pipeline, error) {
	for i, s := range stages {
		if s == nil {
			return nil, fmt.Errorf("%w at position %d", ErrNilStage, i)
		}
		if i > 0 && s.Step() < stages[i-1].Step() {
			return nil, fmt.Errorf("%w: %s (%s) after %s (%s)",
				ErrStageOrder, s.Name(), s.Step(), stages[i-1].Name(), stages[i-1].Step())
		}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{stages: stages, logger: logger}, nil
}

// Stages returns the stages in execution order.
func (p *Pipeline) Stages() []Stage {
	out := make([]Stage, len(p.stages))
	copy(out, p.stages)
	return out
}

// Run applies every stage to doc and reports how long each one took.
// The context is checked before each stage.
func (p *Pipeline) Run(ctx context.Context, doc string) (string, []Timing, error) {
	timings := make([]Timing, 0, len(p.stages))
	for _, s := range p.stages {
		if err := ctx.Err(); err != nil {
			return "", timings, err
		}

		start := time.Now()
		out, err := s.Apply(ctx, doc)
		elapsed := time.Since(start)
		if err != nil {
			return "", timings, fmt.Errorf("stage %s: %w", s.Name(), err)
		}
		doc = out

		timings = append(timings, Timing{Stage: s.Name(), Step: s.Step(), Duration: elapsed})
		p.logger.Info("stage done",
			"stage", s.Name(),
			"step", s.Step().String(),
			"duration_ms", elapsed.Milliseconds())
	}
	return doc, timings, nil
}
