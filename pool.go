package markvis

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"go.uber.org/zap"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one browser is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// errPoolClosed is returned by Rasterize after Close.
var errPoolClosed = errors.New("rasterizer pool closed")

// RasterizerPool shares up to Size rasterizers between concurrent exports.
// Each rasterizer owns its own browser and serves one export at a time.
// Rasterizers are created lazily on first use. RasterizerPool itself
// implements Rasterizer, so it can be handed to NewExporter directly.
type RasterizerPool struct {
	size    int
	newFn   func() Rasterizer
	members []Rasterizer
	idle    chan Rasterizer
	mu      sync.Mutex
	created int
	closed  bool
}

// NewRasterizerPool creates a pool of browser rasterizers.
func NewRasterizerPool(n int, opts ...Option) *RasterizerPool {
	s := newSettings(opts)
	return newRasterizerPool(n, func() Rasterizer {
		return NewBrowserRasterizer(s.timeout, s.logger.With(zap.String("component", "rasterizer")))
	})
}

func newRasterizerPool(n int, newFn func() Rasterizer) *RasterizerPool {
	if n < 1 {
		n = 1
	}
	return &RasterizerPool{
		size:    n,
		newFn:   newFn,
		members: make([]Rasterizer, 0, n),
		idle:    make(chan Rasterizer, n),
	}
}

// acquire gets a rasterizer from the pool, creating one if capacity
// allows, and blocks until one is released or ctx ends.
func (p *RasterizerPool) acquire(ctx context.Context) (Rasterizer, error) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return nil, errPoolClosed
	}

	// Try to get an idle rasterizer (non-blocking)
	select {
	case r, ok := <-p.idle:
		if !ok {
			return nil, errPoolClosed
		}
		return r, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, errPoolClosed
	}
	if p.created < p.size {
		p.created++
		r := p.newFn()
		p.members = append(p.members, r)
		p.mu.Unlock()
		return r, nil
	}
	p.mu.Unlock()

	// All rasterizers created, wait for one to be released
	select {
	case r, ok := <-p.idle:
		if !ok {
			return nil, errPoolClosed
		}
		return r, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// release returns a rasterizer to the pool.
func (p *RasterizerPool) release(r Rasterizer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.idle <- r
}

// Rasterize runs the export on a pooled rasterizer.
func (p *RasterizerPool) Rasterize(ctx context.Context, surface string, layout PageLayout) ([]byte, error) {
	r, err := p.acquire(ctx)
	if err != nil {
		if errors.Is(err, errPoolClosed) {
			return nil, errors.Join(ErrRasterizerUnavailable, err)
		}
		return nil, err
	}
	defer p.release(r)

	return r.Rasterize(ctx, surface, layout)
}

// Close releases all browser resources.
// Returns an aggregated error if multiple rasterizers fail to close.
func (p *RasterizerPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.idle)
	members := p.members
	p.mu.Unlock()

	var errs []error
	for _, r := range members {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *RasterizerPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the optimal pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}

// Compile-time interface check.
var _ Rasterizer = (*RasterizerPool)(nil)
