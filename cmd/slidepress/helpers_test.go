package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	slidepress "github.com/alnah/go-slidepress"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake converter and pool
// ---------------------------------------------------------------------------

// fakeConverter returns a canned result and records the inputs it saw.
type fakeConverter struct {
	mu     sync.Mutex
	inputs []slidepress.Input
	result *slidepress.Result
	err    error
}

func (f *fakeConverter) Convert(_ context.Context, in slidepress.Input) (*slidepress.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &slidepress.Result{
		HTML:    []byte("<html><body>built</body></html>"),
		Pages:   2,
		Timings: []slidepress.Timing{{Stage: "language", Duration: time.Millisecond}},
	}, nil
}

func (f *fakeConverter) seen() []slidepress.Input {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]slidepress.Input(nil), f.inputs...)
}

// fakePool hands out a single shared fakeConverter.
type fakePool struct {
	conv       *fakeConverter
	size       int
	acquireErr error
	sizeSeen   int
	acquired   atomic.Int32
	released   atomic.Int32
	closed     atomic.Bool
}

func (p *fakePool) Acquire() (DeckConverter, error) {
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	p.acquired.Add(1)
	return p.conv, nil
}

func (p *fakePool) Release(DeckConverter) { p.released.Add(1) }

func (p *fakePool) Size() int {
	if p.size < 1 {
		return 1
	}
	return p.size
}

func (p *fakePool) Close() error {
	p.closed.Store(true)
	return nil
}

// testEnv returns an environment writing to buffers, whose NewPool hands
// out pool after recording the requested size.
func testEnv(pool *fakePool) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:     time.Now,
		Stdout:  &stdout,
		Stderr:  &stderr,
		Context: context.Background,
		NewPool: func(size int, _ ...slidepress.Option) Pool {
			pool.sizeSeen = size
			if pool.size == 0 {
				pool.size = size
			}
			return pool
		},
	}
	return env, &stdout, &stderr
}

// writeDeck writes a minimal deck to dir and returns its path.
func writeDeck(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	deck := `<html><body><section id="1"><p>One</p></section></body></html>`
	if err := os.WriteFile(path, []byte(deck), 0o644); err != nil {
		t.Fatalf("writing deck: %v", err)
	}
	return path
}
