package markvis

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"sync"
	"testing"
)

// mockRasterizer returns a fixed raster and records its calls.
type mockRasterizer struct {
	mu          sync.Mutex
	calls       int
	surface     string
	layout      PageLayout
	output      []byte
	err         error
	closed      int
	closeErr    error
	rasterizeFn func(ctx context.Context) error
}

func (m *mockRasterizer) Rasterize(ctx context.Context, surface string, layout PageLayout) ([]byte, error) {
	m.mu.Lock()
	m.calls++
	m.surface = surface
	m.layout = layout
	fn := m.rasterizeFn
	m.mu.Unlock()

	if fn != nil {
		if err := fn(ctx); err != nil {
			return nil, err
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.output, nil
}

func (m *mockRasterizer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed++
	return m.closeErr
}

func (m *mockRasterizer) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockGenerator returns a fixed answer and records the prompt.
type mockGenerator struct {
	mu        sync.Mutex
	calls     int
	model     string
	system    string
	prompt    string
	output    string
	err       error
	generated chan struct{}
	release   chan struct{}
}

func (m *mockGenerator) Generate(ctx context.Context, model, systemInstruction, prompt string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.model = model
	m.system = systemInstruction
	m.prompt = prompt
	m.mu.Unlock()

	if m.generated != nil {
		m.generated <- struct{}{}
	}
	if m.release != nil {
		select {
		case <-m.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if m.err != nil {
		return "", m.err
	}
	return m.output, nil
}

// testRaster encodes a white JPEG of the given pixel size.
func testRaster(t testing.TB, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encoding test raster: %v", err)
	}
	return buf.Bytes()
}
