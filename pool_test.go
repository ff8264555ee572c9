package slidepress

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// Compile-time interface check.
var _ interface {
	Acquire() (*Converter, error)
	Release(*Converter)
	Size() int
	Close() error
} = (*ConverterPool)(nil)

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	gomaxprocs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{
			name:    "explicit takes priority",
			workers: 4,
			want:    4,
		},
		{
			name:    "explicit=1 for sequential",
			workers: 1,
			want:    1,
		},
		{
			name:    "zero uses auto calculation",
			workers: 0,
			want:    min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ResolvePoolSize(tt.workers)
			if got != tt.want {
				t.Errorf("ResolvePoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}

func TestResolvePoolSize_Bounds(t *testing.T) {
	t.Parallel()

	t.Run("minimum is 1", func(t *testing.T) {
		t.Parallel()

		got := ResolvePoolSize(0)
		if got < MinPoolSize {
			t.Errorf("ResolvePoolSize(0) = %d, should be at least %d", got, MinPoolSize)
		}
	})

	t.Run("maximum is 8", func(t *testing.T) {
		t.Parallel()

		got := ResolvePoolSize(0)
		if got > MaxPoolSize {
			t.Errorf("ResolvePoolSize(0) = %d, should be at most %d", got, MaxPoolSize)
		}
	})

	t.Run("explicit can exceed max", func(t *testing.T) {
		t.Parallel()

		got := ResolvePoolSize(16)
		if got != 16 {
			t.Errorf("ResolvePoolSize(16) = %d, want 16", got)
		}
	})
}

// newTestPool returns a pool whose converters use fake renderers.
// created counts converter constructions.
func newTestPool(n int) (*ConverterPool, *atomic.Int32) {
	var created atomic.Int32
	pool := NewConverterPool(n)
	pool.newConverter = func(opts ...Option) (*Converter, error) {
		created.Add(1)
		return NewConverter(append(opts, withRenderer(&fakeRenderer{}))...)
	}
	return pool, &created
}

func mustAcquire(t *testing.T, pool *ConverterPool) *Converter {
	t.Helper()
	c, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() unexpected error: %v", err)
	}
	return c
}

func TestConverterPool_AcquireRelease(t *testing.T) {
	t.Parallel()

	pool, _ := newTestPool(2)
	defer pool.Close()

	c1 := mustAcquire(t, pool)
	c2 := mustAcquire(t, pool)
	if c1 == c2 {
		t.Error("expected different converter instances")
	}

	pool.Release(c1)
	if c3 := mustAcquire(t, pool); c3 != c1 {
		t.Error("expected to get back released converter")
	}
	pool.Release(c1)
	pool.Release(c2)
}

func TestConverterPool_Size(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		size int
		want int
	}{
		{"size 1", 1, 1},
		{"size 4", 4, 4},
		{"size 0 becomes 1", 0, 1},
		{"negative becomes 1", -1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pool := NewConverterPool(tt.size)
			defer pool.Close()

			if got := pool.Size(); got != tt.want {
				t.Errorf("Size() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestConverterPool_LazyCreation(t *testing.T) {
	t.Parallel()

	pool, created := newTestPool(3)
	defer pool.Close()

	if n := created.Load(); n != 0 {
		t.Fatalf("created = %d before any Acquire, want 0", n)
	}

	c := mustAcquire(t, pool)
	pool.Release(c)
	c = mustAcquire(t, pool)
	pool.Release(c)

	if n := created.Load(); n != 1 {
		t.Errorf("created = %d, want 1 (released converter reused)", n)
	}
}

func TestConverterPool_CreateError(t *testing.T) {
	t.Parallel()

	pool := NewConverterPool(1)
	defer pool.Close()

	fail := errors.New("no browser")
	pool.newConverter = func(...Option) (*Converter, error) { return nil, fail }
	if _, err := pool.Acquire(); !errors.Is(err, fail) {
		t.Fatalf("Acquire() error = %v, want %v", err, fail)
	}

	// The failed slot is given back.
	pool.newConverter = func(opts ...Option) (*Converter, error) {
		return NewConverter(append(opts, withRenderer(&fakeRenderer{}))...)
	}
	if _, err := pool.Acquire(); err != nil {
		t.Errorf("Acquire() after failure unexpected error: %v", err)
	}
}

func TestConverterPool_Close(t *testing.T) {
	t.Parallel()

	fakes := []*fakeRenderer{}
	var mu sync.Mutex
	pool := NewConverterPool(2)
	pool.newConverter = func(opts ...Option) (*Converter, error) {
		f := &fakeRenderer{}
		mu.Lock()
		fakes = append(fakes, f)
		mu.Unlock()
		return NewConverter(append(opts, withRenderer(f))...)
	}

	c1 := mustAcquire(t, pool)
	_ = mustAcquire(t, pool)
	pool.Release(c1)

	if err := pool.Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}
	for i, f := range fakes {
		if !f.closed {
			t.Errorf("converter %d not closed", i)
		}
	}

	// Second close and release after close are no-ops.
	if err := pool.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	pool.Release(c1)

	if _, err := pool.Acquire(); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Acquire() after Close error = %v, want %v", err, ErrPoolClosed)
	}
}

// TestConverterPool_AcquireAfterCloseWithIdle checks that converters
// released before Close are not handed out afterwards.
func TestConverterPool_AcquireAfterCloseWithIdle(t *testing.T) {
	t.Parallel()

	pool, _ := newTestPool(3)
	c1 := mustAcquire(t, pool)
	c2 := mustAcquire(t, pool)
	pool.Release(c1)
	pool.Release(c2)

	if err := pool.Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}
	for i := 0; i < 3; i++ {
		c, err := pool.Acquire()
		if !errors.Is(err, ErrPoolClosed) {
			t.Fatalf("Acquire() #%d after Close = (%v, %v), want %v", i, c, err, ErrPoolClosed)
		}
	}
}

// TestConverterPool_HighContention runs many goroutines through a small
// pool; it must finish without deadlock or extra converters.
func TestConverterPool_HighContention(t *testing.T) {
	t.Parallel()

	pool, created := newTestPool(2)
	defer pool.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				c, err := pool.Acquire()
				if err != nil {
					t.Errorf("Acquire() unexpected error: %v", err)
					return
				}
				time.Sleep(time.Duration(j%3) * time.Millisecond)
				pool.Release(c)
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(30 * time.Second)
	defer timer.Stop()

	select {
	case <-done:
	case <-timer.C:
		t.Fatal("high contention test timed out - possible deadlock")
	}
	if n := created.Load(); n > 2 {
		t.Errorf("created = %d converters, want at most 2", n)
	}
}

func TestResolvePoolSize_NegativeWorkers(t *testing.T) {
	t.Parallel()

	// Negative workers should be treated as 0 (auto-calculate)
	got := ResolvePoolSize(-5)

	if got < MinPoolSize || got > MaxPoolSize {
		t.Errorf("ResolvePoolSize(-5) = %d, should be between %d and %d", got, MinPoolSize, MaxPoolSize)
	}
}

func TestResolvePoolSize_LargeExplicitValue(t *testing.T) {
	t.Parallel()

	// Explicit value above MaxPoolSize should be allowed
	got := ResolvePoolSize(100)

	if got != 100 {
		t.Errorf("ResolvePoolSize(100) = %d, want 100", got)
	}
}
