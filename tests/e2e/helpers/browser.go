//go:build e2e

package helpers

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/backoffice-qa/backoffice-e2e/internal/bdd"
	"github.com/backoffice-qa/backoffice-e2e/internal/config"
	"github.com/backoffice-qa/backoffice-e2e/internal/snapshot"
	"github.com/backoffice-qa/backoffice-e2e/internal/ui"
)

// BrowserHelper provides browser setup and teardown for tests
type BrowserHelper struct {
	Playwright *playwright.Playwright
	Browser    playwright.Browser
	Context    playwright.BrowserContext
	Page       playwright.Page
	Config     *config.Config
	Log        *zap.Logger
	Steps      *bdd.Reporter

	console *ui.ConsoleErrors
	t       *testing.T
}

// NewBrowserHelper creates a new browser helper instance
func NewBrowserHelper(t *testing.T) *BrowserHelper {
	t.Helper()
	cfg, err := config.Get()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	log := zaptest.NewLogger(t)
	return &BrowserHelper{
		Config: cfg,
		Log:    log,
		Steps:  bdd.New(t, cfg.Path(cfg.Results.Dir), log),
		t:      t,
	}
}

// Setup initializes the browser and creates a new page
func (b *BrowserHelper) Setup() error {
	if os.Getenv("PLAYWRIGHT_PREINSTALLED") != "1" {
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
			return fmt.Errorf("could not install playwright browsers: %w", err)
		}
	}
	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("could not start playwright: %w", err)
	}
	b.Playwright = pw

	bc := b.Config.Browser
	launch := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(bc.Headless),
		SlowMo:   playwright.Float(float64(bc.SlowMo.Milliseconds())),
	}
	ctxOpts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: bc.Width, Height: bc.Height},
	}
	if bc.Maximized {
		// the window size decides the viewport
		launch.Args = []string{"--start-maximized"}
		ctxOpts.Viewport = nil
		ctxOpts.NoViewport = playwright.Bool(true)
	}

	browser, err := pw.Chromium.Launch(launch)
	if err != nil {
		return fmt.Errorf("could not launch browser: %w", err)
	}
	b.Browser = browser

	context, err := browser.NewContext(ctxOpts)
	if err != nil {
		return fmt.Errorf("could not create context: %w", err)
	}
	b.Context = context

	page, err := context.NewPage()
	if err != nil {
		return fmt.Errorf("could not create page: %w", err)
	}
	b.Page = page
	page.SetDefaultTimeout(float64(bc.Timeout.Milliseconds()))

	return nil
}

// MustSetup runs Setup and registers TearDown with t.Cleanup.
func (b *BrowserHelper) MustSetup() *BrowserHelper {
	b.t.Helper()
	if err := b.Setup(); err != nil {
		b.TearDown()
		b.t.Fatalf("failed to set up browser: %v", err)
	}
	b.t.Cleanup(b.TearDown)
	return b
}

// Session binds the page to the configured back office and starts
// capturing console errors.
func (b *BrowserHelper) Session() *ui.Session {
	s := ui.NewSession(b.Page, b.Config.BaseURL,
		ui.WithLogger(b.Log),
		ui.WithReporter(b.Steps),
		ui.WithSnapshots(snapshot.FromConfig(b.Config, b.Log)),
	)
	if b.console == nil {
		b.console = s.CaptureConsoleErrors(b.Config.Browser.AttachConsoleErrors)
	}
	return s
}

// TearDown closes the browser and cleans up resources
func (b *BrowserHelper) TearDown() {
	if b.console != nil {
		b.console.Report()
	}
	if b.t.Failed() && b.Config.Browser.Screenshots && b.Page != nil {
		path := filepath.Join(b.Config.Path(b.Config.Results.Dir), "screenshots",
			fmt.Sprintf("%s_%d.png", filepath.Base(b.t.Name()), time.Now().Unix()))
		if _, err := b.Page.Screenshot(playwright.PageScreenshotOptions{Path: playwright.String(path)}); err != nil {
			b.Log.Warn("failed to take failure screenshot", zap.Error(err))
		} else {
			b.t.Logf("failure screenshot: %s", path)
		}
	}

	if b.Page != nil {
		b.Page.Close()
	}
	if b.Context != nil {
		b.Context.Close()
	}
	if b.Browser != nil {
		b.Browser.Close()
	}
	if b.Playwright != nil {
		b.Playwright.Stop()
	}
	b.Page, b.Context, b.Browser, b.Playwright = nil, nil, nil, nil
}
