package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	slidepress "github.com/alnah/go-slidepress"
	"github.com/alnah/go-slidepress/internal/config"
)

// Output file names inside a deck's output directory.
const (
	htmlName  = "index.html"
	pdfName   = "index.pdf"
	jpgDir    = "jpgs"
	linksName = "links.json"
)

// BuildResult holds the outcome of a single deck build.
type BuildResult struct {
	InputPath string
	OutputDir string
	Err       error
	Duration  time.Duration
	Pages     int
	Language  string
	Timings   []slidepress.Timing
}

// buildBatch processes decks concurrently using the converter pool.
func buildBatch(ctx context.Context, pool Pool, decks []DeckToBuild, params *buildParams, env *Environment) []BuildResult {
	if len(decks) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(decks))

	results := make([]BuildResult, len(decks))
	var wg sync.WaitGroup
	jobs := make(chan int, len(decks))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conv, err := pool.Acquire()
			if err != nil {
				// Converter creation failed, mark remaining jobs as failed
				for idx := range jobs {
					results[idx] = BuildResult{InputPath: decks[idx].InputPath, Err: err}
				}
				return
			}
			defer pool.Release(conv)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = BuildResult{InputPath: decks[idx].InputPath, Err: ctx.Err()}
					continue
				}
				results[idx] = buildDeck(ctx, conv, decks[idx], params, env)
			}
		}()
	}

	for i := range decks {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// buildDeck converts one deck and writes its outputs.
func buildDeck(ctx context.Context, conv DeckConverter, d DeckToBuild, params *buildParams, env *Environment) (result BuildResult) {
	start := env.now()
	result = BuildResult{InputPath: d.InputPath, OutputDir: d.OutputDir}
	defer func() { result.Duration = env.now().Sub(start) }()

	content, err := os.ReadFile(d.InputPath) // #nosec G304 -- user-provided path
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrReadDeck, err)
		return result
	}

	sourceDir, err := filepath.Abs(filepath.Dir(d.InputPath))
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrReadDeck, err)
		return result
	}

	res, err := conv.Convert(ctx, buildInput(params, string(content), sourceDir))
	if err != nil {
		result.Err = err
		return result
	}

	if err := writeOutputs(d.OutputDir, res); err != nil {
		result.Err = err
		return result
	}

	result.Pages = res.Pages
	result.Language = res.Language
	result.Timings = res.Timings
	return result
}

// writeOutputs recreates dir and writes every output present in res.
func writeOutputs(dir string, res *slidepress.Result) error {
	if err := resetDir(dir); err != nil {
		return err
	}

	if err := writeFile(filepath.Join(dir, htmlName), res.HTML); err != nil {
		return err
	}
	if res.PDF != nil {
		if err := writeFile(filepath.Join(dir, pdfName), res.PDF); err != nil {
			return err
		}
	}
	if len(res.JPEGs) > 0 {
		jpgs := filepath.Join(dir, jpgDir)
		if err := os.MkdirAll(jpgs, dirPermissions); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		for i, jpg := range res.JPEGs {
			name := "page-" + strconv.Itoa(i+1) + ".jpg"
			if err := writeFile(filepath.Join(jpgs, name), jpg); err != nil {
				return err
			}
		}
	}
	if res.Links != nil {
		data, err := json.MarshalIndent(res.Links, "", "  ")
		if err != nil {
			return fmt.Errorf("%w: encoding links: %v", ErrWriteOutput, err)
		}
		if err := writeFile(filepath.Join(dir, linksName), data); err != nil {
			return err
		}
	}
	return nil
}

// resetDir removes dir and creates it empty. Refuses the working directory
// and filesystem roots.
func resetDir(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	cwd, _ := os.Getwd()
	if abs == cwd || abs == filepath.Dir(abs) {
		return fmt.Errorf("%w: refusing to clear %s", ErrWriteOutput, abs)
	}
	if err := os.RemoveAll(abs); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	if err := os.MkdirAll(abs, dirPermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// ResultSummary holds the count of succeeded and failed builds.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed builds.
func countResults(results []BuildResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs build results and returns the number of failures.
// A single failed deck is left for the caller to report.
func printResults(results []BuildResult, quiet, verbose bool, cfg *config.Config, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			if len(results) > 1 {
				fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.InputPath, r.Err, buildHint(r.Err, cfg))
			}
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%d pages, %s, %v)\n",
				r.InputPath, r.OutputDir, r.Pages, languageOf(r), r.Duration.Round(time.Millisecond))
			printTimings(env, r.Timings)
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", filepath.Join(r.OutputDir, htmlName))
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}

func languageOf(r BuildResult) string {
	if r.Language == "" {
		return "no hyphenation"
	}
	return "hyphenation " + r.Language
}

// printTimings prints the stages of a build, slowest marked.
func printTimings(env *Environment, timings []slidepress.Timing) {
	if len(timings) == 0 {
		return
	}
	slowest := 0
	for i, t := range timings {
		if t.Duration > timings[slowest].Duration {
			slowest = i
		}
	}

	for i, t := range timings {
		mark := ""
		if i == slowest {
			mark = " *"
		}
		fmt.Fprintf(env.Stdout, "  %-16s %8v%s\n", t.Stage, t.Duration.Round(time.Microsecond), mark)
	}
}
