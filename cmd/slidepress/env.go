package main

import (
	"context"
	"io"
	"os"
	"time"

	slidepress "github.com/alnah/go-slidepress"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now     func() time.Time
	Stdout  io.Writer
	Stderr  io.Writer
	Context func() context.Context

	// NewPool creates the converter pool of a build.
	NewPool func(size int, opts ...slidepress.Option) Pool
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Context: context.Background,
		NewPool: newConverterPool,
	}
}

func (e *Environment) ctx() context.Context {
	if e.Context == nil {
		return context.Background()
	}
	return e.Context()
}

func (e *Environment) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}
