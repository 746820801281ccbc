package pages

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/devicelab-dev/storefront-e2e/pkg/logger"
)

// Session is a running browser with one page.
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	Page    playwright.Page
	Timeout time.Duration
}

// Launch starts chromium and opens a page. timeout becomes the default for
// every playwright action.
func Launch(headless bool, timeout time.Duration) (*Session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	s, err := NewSession(browser, timeout)
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, err
	}
	s.pw = pw
	logger.Info("chromium launched (headless=%v)", headless)
	return s, nil
}

// NewSession opens a fresh context and page in an already running browser.
func NewSession(browser playwright.Browser, timeout time.Duration) (*Session, error) {
	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		AcceptDownloads: playwright.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("new browser context: %w", err)
	}
	bctx.SetDefaultTimeout(float64(timeout.Milliseconds()))

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, fmt.Errorf("new page: %w", err)
	}
	return &Session{browser: browser, context: bctx, Page: page, Timeout: timeout}, nil
}

// Screenshot saves a full-page screenshot to path.
func (s *Session) Screenshot(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create screenshot dir: %w", err)
	}
	_, err := s.Page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("screenshot: %w", err)
	}
	return nil
}

// Close closes the context, and the browser and driver when Launch started
// them.
func (s *Session) Close() error {
	var firstErr error
	if s.context != nil {
		if err := s.context.Close(); err != nil {
			firstErr = err
		}
	}
	if s.pw != nil {
		if err := s.browser.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := s.pw.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
