package markvis

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/alnah/go-markvis/internal/fileutil"
	"github.com/alnah/go-markvis/internal/process"
)

// Rasterizer captures an HTML surface as a single full-page JPEG image.
// Implementations must be safe to Close more than once.
type Rasterizer interface {
	Rasterize(ctx context.Context, surface string, layout PageLayout) ([]byte, error)
	Close() error
}

// pageCapturer abstracts capturing a local HTML file to enable testing
// without a browser.
type pageCapturer interface {
	CaptureFile(ctx context.Context, filePath string, layout PageLayout) ([]byte, error)
	Close() error
}

// Compile-time interface checks
var (
	_ Rasterizer   = (*BrowserRasterizer)(nil)
	_ pageCapturer = (*rodCapturer)(nil)
)

// rodCapturer implements pageCapturer using go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodCapturer struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
	logger   *zap.Logger
}

func newRodCapturer(timeout time.Duration, logger *zap.Logger) *rodCapturer {
	return &rodCapturer{timeout: timeout, logger: logger}
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodCapturer) ensureBrowser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.logger.Debug("browser launched", zap.Int("pid", l.PID()))
	r.browser = browser
	r.launcher = l
	return browser, nil
}

// Close releases browser resources, including Chrome's child processes.
func (r *rodCapturer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		pid := r.launcher.PID()
		r.launcher.Kill()
		process.KillProcessGroup(pid)
		r.launcher = nil
	}
	return err
}

// CaptureFile opens a local HTML file in headless Chrome and takes a
// full-page JPEG screenshot at the layout's scale.
func (r *rodCapturer) CaptureFile(ctx context.Context, filePath string, layout PageLayout) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser, err := r.ensureBrowser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	// Wait for page to load with timeout from context or default
	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}
	page = page.Context(ctx).Timeout(timeout)

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             layout.ViewportWidth(),
		Height:            layout.ViewportHeight(),
		DeviceScaleFactor: layout.Scale,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: setting viewport: %v", ErrPDFGeneration, err)
	}

	if err := page.Navigate("file://" + filePath); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	quality := layout.JPEGQuality
	shot, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: &quality,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: screenshot: %v", ErrPDFGeneration, err)
	}
	return shot, nil
}

// BrowserRasterizer rasterizes surfaces in headless Chrome via go-rod.
type BrowserRasterizer struct {
	capturer pageCapturer
}

// NewBrowserRasterizer creates a rasterizer backed by a lazily launched
// browser. timeout bounds page loading when ctx has no deadline.
func NewBrowserRasterizer(timeout time.Duration, logger *zap.Logger) *BrowserRasterizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BrowserRasterizer{capturer: newRodCapturer(timeout, logger)}
}

// Rasterize writes the surface to a temporary file and captures it.
func (b *BrowserRasterizer) Rasterize(ctx context.Context, surface string, layout PageLayout) ([]byte, error) {
	tmpPath, cleanup, err := fileutil.WriteTempFile(surface, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return b.capturer.CaptureFile(ctx, tmpPath, layout)
}

// Close releases browser resources.
func (b *BrowserRasterizer) Close() error {
	if b.capturer != nil {
		return b.capturer.Close()
	}
	return nil
}
