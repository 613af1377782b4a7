package reportgen

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// ErrPoolClosed is returned by Acquire after Close.
var ErrPoolClosed = errors.New("converter pool is closed")

// ConverterPool manages a bounded set of Converters for concurrent requests.
// Each converter owns its own browser, so PDF requests run in parallel.
// Converters are created lazily on first acquire to avoid startup delay.
type ConverterPool struct {
	size       int
	opts       []Option
	converters []*Converter
	sem        chan *Converter
	mu         sync.Mutex
	created    int
	closed     bool
}

// NewConverterPool creates a pool with capacity for n converters, each built
// with opts. Options are validated once up front, so a bad configuration fails
// here instead of on the first request.
func NewConverterPool(n int, opts ...Option) (*ConverterPool, error) {
	if n < 1 {
		n = 1
	}

	probe, err := NewConverter(opts...)
	if err != nil {
		return nil, err
	}

	p := &ConverterPool{
		size:       n,
		opts:       opts,
		converters: make([]*Converter, 0, n),
		sem:        make(chan *Converter, n),
		created:    1,
	}
	p.converters = append(p.converters, probe)
	p.sem <- probe
	return p, nil
}

// Acquire gets a converter from the pool, creating one if needed.
// Blocks until a converter is free or ctx is done. After Close it returns
// ErrPoolClosed, even while idle converters are still buffered.
func (p *ConverterPool) Acquire(ctx context.Context) (*Converter, error) {
	if p.isClosed() {
		return nil, ErrPoolClosed
	}

	// Try to get an existing converter (non-blocking)
	select {
	case conv, ok := <-p.sem:
		return p.received(conv, ok)
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		// Create new converter outside the lock
		conv, err := NewConverter(p.opts...)
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}

		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			_ = conv.Close()
			return nil, ErrPoolClosed
		}
		p.converters = append(p.converters, conv)
		p.mu.Unlock()
		return conv, nil
	}
	p.mu.Unlock()

	// All converters created, wait for one to be released
	select {
	case conv, ok := <-p.sem:
		return p.received(conv, ok)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// received validates a converter taken from the channel. Close leaves idle
// converters buffered in the closed channel; they are already shut down.
func (p *ConverterPool) received(conv *Converter, ok bool) (*Converter, error) {
	if !ok || p.isClosed() {
		return nil, ErrPoolClosed
	}
	return conv, nil
}

func (p *ConverterPool) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Release returns a converter to the pool.
// The send happens under the lock so it never races with Close; the channel
// has room for every converter, so it never blocks.
func (p *ConverterPool) Release(conv *Converter) {
	if conv == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed {
		p.sem <- conv
	}
}

// Close releases all browser resources.
// Returns an aggregated error if multiple converters fail to close.
func (p *ConverterPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	converters := p.converters
	p.mu.Unlock()

	var errs []error
	for _, conv := range converters {
		if err := conv.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *ConverterPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers
	n := runtime.GOMAXPROCS(0) / cpuDivisor
	return max(MinPoolSize, min(n, MaxPoolSize))
}
