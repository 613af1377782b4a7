package reportgen

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"
)

// Compile-time interface check.
var _ interface {
	Acquire(context.Context) (*Converter, error)
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
		{
			name:    "negative uses auto calculation",
			workers: -3,
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

func newTestPool(t *testing.T, n int) *ConverterPool {
	t.Helper()
	pool, err := NewConverterPool(n,
		WithSearcher(&mockSearcher{}),
		WithRetriever(&mockRetriever{}),
		withPDFRenderer(&mockPDFRenderer{}))
	if err != nil {
		t.Fatalf("NewConverterPool() error = %v", err)
	}
	t.Cleanup(func() { _ = pool.Close() })
	return pool
}

func TestNewConverterPool_InvalidOptions(t *testing.T) {
	t.Parallel()

	if _, err := NewConverterPool(2, WithPrompt("no verb")); !errors.Is(err, ErrInvalidPrompt) {
		t.Errorf("NewConverterPool() error = %v, want ErrInvalidPrompt", err)
	}
}

func TestConverterPool_SizeAtLeastOne(t *testing.T) {
	t.Parallel()

	if got := newTestPool(t, 0).Size(); got != 1 {
		t.Errorf("Size() = %d, want 1", got)
	}
}

func TestConverterPool_AcquireRelease(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, 2)
	ctx := context.Background()

	a, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	b, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if a == b {
		t.Error("two acquires returned the same converter")
	}

	pool.Release(a)
	c, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if c != a {
		t.Error("released converter was not reused")
	}
	pool.Release(b)
	pool.Release(c)
}

func TestConverterPool_AcquireBlocksUntilRelease(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, 1)
	ctx := context.Background()

	held, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	got := make(chan *Converter, 1)
	go func() {
		conv, err := pool.Acquire(ctx)
		if err != nil {
			t.Errorf("Acquire() error = %v", err)
		}
		got <- conv
	}()

	select {
	case <-got:
		t.Fatal("Acquire returned while the only converter was held")
	case <-time.After(50 * time.Millisecond):
	}

	pool.Release(held)
	select {
	case conv := <-got:
		if conv != held {
			t.Error("waiting Acquire got a different converter")
		}
		pool.Release(conv)
	case <-time.After(2 * time.Second):
		t.Fatal("Acquire did not return after Release")
	}
}

func TestConverterPool_AcquireHonorsContext(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, 1)
	held, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	defer pool.Release(held)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := pool.Acquire(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Acquire() error = %v, want DeadlineExceeded", err)
	}
}

func TestConverterPool_Close(t *testing.T) {
	t.Parallel()

	pool, err := NewConverterPool(2, withPDFRenderer(&mockPDFRenderer{}))
	if err != nil {
		t.Fatalf("NewConverterPool() error = %v", err)
	}
	conv, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	if err := pool.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := pool.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	pool.Release(conv) // must not panic after Close
	if _, err := pool.Acquire(context.Background()); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Acquire() after Close error = %v, want ErrPoolClosed", err)
	}
	if _, err := conv.Generate(context.Background(), Input{Title: "x"}); !errors.Is(err, ErrConverterClosed) {
		t.Errorf("Generate() on pooled converter after Close error = %v, want ErrConverterClosed", err)
	}
}

func TestConverterPool_AcquireAfterClose(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		size    int
		acquire int // converters taken and released before Close
	}{
		{name: "idle probe buffered", size: 2, acquire: 0},
		{name: "released converter buffered", size: 1, acquire: 1},
		{name: "all converters created", size: 2, acquire: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pool, err := NewConverterPool(tt.size, withPDFRenderer(&mockPDFRenderer{}))
			if err != nil {
				t.Fatalf("NewConverterPool() error = %v", err)
			}
			ctx := context.Background()
			var held []*Converter
			for i := 0; i < tt.acquire; i++ {
				conv, err := pool.Acquire(ctx)
				if err != nil {
					t.Fatalf("Acquire() error = %v", err)
				}
				held = append(held, conv)
			}
			for _, conv := range held {
				pool.Release(conv)
			}

			if err := pool.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}
			for i := 0; i < tt.size+1; i++ {
				conv, err := pool.Acquire(ctx)
				if !errors.Is(err, ErrPoolClosed) || conv != nil {
					t.Fatalf("Acquire() #%d after Close = %v, %v, want nil, ErrPoolClosed", i+1, conv, err)
				}
			}
		})
	}
}

func TestConverterPool_ConcurrentGenerate(t *testing.T) {
	t.Parallel()

	pool, err := NewConverterPool(3,
		WithGenerator(&mockGenerator{output: "## Intro\nBody text"}),
		WithSearcher(&mockSearcher{}),
		WithRetriever(&mockRetriever{}),
		withPDFRenderer(&mockPDFRenderer{}))
	if err != nil {
		t.Fatalf("NewConverterPool() error = %v", err)
	}
	defer pool.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conv, err := pool.Acquire(context.Background())
			if err != nil {
				t.Errorf("Acquire() error = %v", err)
				return
			}
			defer pool.Release(conv)

			result, err := conv.Generate(context.Background(), Input{Title: "Concurrent", Format: FormatHTML})
			if err != nil {
				t.Errorf("Generate() error = %v", err)
				return
			}
			if result.Stats.Headings != 1 {
				t.Errorf("Headings = %d, want 1", result.Stats.Headings)
			}
		}()
	}
	wg.Wait()
}
