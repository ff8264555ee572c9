package main

import (
	"context"
	"fmt"

	slidepress "github.com/alnah/go-slidepress"
)

// DeckConverter builds one deck.
type DeckConverter interface {
	Convert(ctx context.Context, input slidepress.Input) (*slidepress.Result, error)
}

// Compile-time interface implementation check.
var _ DeckConverter = (*slidepress.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire() (DeckConverter, error)
	Release(DeckConverter)
	Size() int
	Close() error
}

// poolAdapter adapts *slidepress.ConverterPool to Pool.
type poolAdapter struct {
	pool *slidepress.ConverterPool
}

// Compile-time check that poolAdapter implements Pool.
var _ Pool = (*poolAdapter)(nil)

func newConverterPool(size int, opts ...slidepress.Option) Pool {
	return &poolAdapter{pool: slidepress.NewConverterPool(size, opts...)}
}

func (a *poolAdapter) Acquire() (DeckConverter, error) {
	c, err := a.pool.Acquire()
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Release panics when c did not come from Acquire.
func (a *poolAdapter) Release(c DeckConverter) {
	conv, ok := c.(*slidepress.Converter)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", c))
	}
	a.pool.Release(conv)
}

func (a *poolAdapter) Size() int    { return a.pool.Size() }
func (a *poolAdapter) Close() error { return a.pool.Close() }
