package markvis

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

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
			name:    "explicit can exceed max",
			workers: 20,
			want:    20,
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

// countingFactory builds mock rasterizers and remembers them.
type countingFactory struct {
	mu      sync.Mutex
	created []*mockRasterizer
	output  []byte
	fn      func(ctx context.Context) error
}

func (f *countingFactory) new() Rasterizer {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := &mockRasterizer{output: f.output, rasterizeFn: f.fn}
	f.created = append(f.created, m)
	return m
}

func (f *countingFactory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

func TestRasterizerPool_LazyCreation(t *testing.T) {
	t.Parallel()

	f := &countingFactory{output: []byte("jpeg")}
	pool := newRasterizerPool(3, f.new)
	defer pool.Close()

	if f.count() != 0 {
		t.Fatalf("created %d rasterizers before use, want 0", f.count())
	}

	for i := 0; i < 5; i++ {
		if _, err := pool.Rasterize(context.Background(), "<p>x</p>", DefaultPageLayout()); err != nil {
			t.Fatalf("Rasterize() error = %v", err)
		}
	}

	// Sequential use reuses the first rasterizer.
	if f.count() != 1 {
		t.Errorf("created %d rasterizers for sequential use, want 1", f.count())
	}
}

func TestRasterizerPool_Size(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n    int
		want int
	}{
		{4, 4},
		{1, 1},
		{0, 1},
		{-1, 1},
	}

	for _, tt := range tests {
		pool := newRasterizerPool(tt.n, (&countingFactory{}).new)
		if got := pool.Size(); got != tt.want {
			t.Errorf("Size() for n=%d = %d, want %d", tt.n, got, tt.want)
		}
		_ = pool.Close()
	}
}

func TestRasterizerPool_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	const size = 2
	var inFlight, peak atomic.Int32

	f := &countingFactory{
		output: []byte("jpeg"),
		fn: func(ctx context.Context) error {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			inFlight.Add(-1)
			return nil
		},
	}
	pool := newRasterizerPool(size, f.new)
	defer pool.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := pool.Rasterize(context.Background(), "<p>x</p>", DefaultPageLayout()); err != nil {
				t.Errorf("Rasterize() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if f.count() > size {
		t.Errorf("created %d rasterizers, want at most %d", f.count(), size)
	}
	if peak.Load() > size {
		t.Errorf("peak concurrency %d, want at most %d", peak.Load(), size)
	}
}

func TestRasterizerPool_AcquireHonoursContext(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{})
	f := &countingFactory{
		output: []byte("jpeg"),
		fn: func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		},
	}
	pool := newRasterizerPool(1, f.new)
	defer pool.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = pool.Rasterize(context.Background(), "<p>busy</p>", DefaultPageLayout())
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := pool.Rasterize(ctx, "<p>waiting</p>", DefaultPageLayout()); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Rasterize() error = %v, want deadline exceeded", err)
	}

	close(release)
	<-done
}

func TestRasterizerPool_Close(t *testing.T) {
	t.Parallel()

	closeErr := errors.New("close failed")
	f := &countingFactory{output: []byte("jpeg")}
	pool := newRasterizerPool(2, f.new)

	if _, err := pool.Rasterize(context.Background(), "<p>x</p>", DefaultPageLayout()); err != nil {
		t.Fatalf("Rasterize() error = %v", err)
	}
	f.created[0].closeErr = closeErr

	if err := pool.Close(); !errors.Is(err, closeErr) {
		t.Errorf("Close() error = %v, want %v", err, closeErr)
	}
	if f.created[0].closed != 1 {
		t.Errorf("rasterizer closed %d times, want 1", f.created[0].closed)
	}

	// Double close is a no-op.
	if err := pool.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	_, err := pool.Rasterize(context.Background(), "<p>x</p>", DefaultPageLayout())
	if !errors.Is(err, ErrRasterizerUnavailable) {
		t.Errorf("Rasterize() after Close error = %v, want ErrRasterizerUnavailable", err)
	}
}

func TestRasterizerPool_WithExporter(t *testing.T) {
	t.Parallel()

	f := &countingFactory{output: testRaster(t, 200, 300)}
	exp := NewExporter(WithRasterizer(newRasterizerPool(2, f.new)))
	defer exp.Close()

	if _, err := exp.ExportPDF(context.Background(), "<p>x</p>", "pooled"); err != nil {
		t.Fatalf("ExportPDF() error = %v", err)
	}
	if f.count() != 1 {
		t.Errorf("created %d rasterizers, want 1", f.count())
	}
}
