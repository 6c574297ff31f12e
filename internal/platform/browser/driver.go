package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/apridachin/girya-storekeeper/internal/competitors"
	"github.com/playwright-community/playwright-go"
)

// Options configures the Chromium launch.
type Options struct {
	Headless bool
	// ExecutablePath selects a system Chromium instead of the bundled one.
	ExecutablePath string
}

// Driver launches playwright-managed Chromium instances.
type Driver struct {
	opts   Options
	logger *slog.Logger
}

// NewDriver creates a Driver.
func NewDriver(logger *slog.Logger, opts Options) *Driver {
	return &Driver{opts: opts, logger: logger.With("component", "browser")}
}

// Install downloads the playwright driver and Chromium.
func Install() error {
	return playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}})
}

// Launch starts playwright, Chromium and a fresh browser context.
func (d *Driver) Launch(ctx context.Context) (competitors.Browser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{Headless: playwright.Bool(d.opts.Headless)}
	if d.opts.ExecutablePath != "" {
		launchOpts.ExecutablePath = playwright.String(d.opts.ExecutablePath)
	}

	browser, err := pw.Chromium.Launch(launchOpts)
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	bctx, err := browser.NewContext()
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create browser context: %w", classify(err))
	}

	d.logger.InfoContext(ctx, "browser launched", "headless", d.opts.Headless)
	return &session{pw: pw, browser: browser, bctx: bctx}, nil
}

// session owns one playwright process, browser and context.
type session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	bctx    playwright.BrowserContext
}

func (s *session) NewPage(ctx context.Context) (competitors.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.bctx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", classify(err))
	}
	return &page{p: p}, nil
}

func (s *session) Close() error {
	return errors.Join(s.bctx.Close(), s.browser.Close(), s.pw.Stop())
}

type page struct {
	p playwright.Page
}

func (p *page) Goto(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := p.p.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   timeoutMillis(ctx, 0),
	}); err != nil {
		return fmt.Errorf("failed to navigate: %w", classify(err))
	}
	return nil
}

func (p *page) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := p.p.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		Timeout: timeoutMillis(ctx, timeout),
	})
	if err != nil {
		return fmt.Errorf("selector %s did not appear: %w", selector, classify(err))
	}
	return nil
}

func (p *page) InnerHTML(ctx context.Context, selector string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	html, err := p.p.Locator(selector).First().InnerHTML()
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", selector, classify(err))
	}
	return html, nil
}

func (p *page) Close() error {
	if err := p.p.Close(); err != nil {
		return classify(err)
	}
	return nil
}

// timeoutMillis returns the smaller of timeout and the time left on ctx,
// in the milliseconds playwright expects. Nil leaves playwright's default.
func timeoutMillis(ctx context.Context, timeout time.Duration) *float64 {
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); timeout <= 0 || left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return nil
	}
	return playwright.Float(float64(timeout.Milliseconds()))
}

// closedMarkers are fragments of driver errors raised after the browser
// process or its connection went away.
var closedMarkers = []string{
	"target closed",
	"connection closed",
	"has been closed",
	"browser has disconnected",
}

// classify tags errors caused by a dead browser with competitors.ErrTransportClosed.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTargetClosed) {
		return fmt.Errorf("%w: %v", competitors.ErrTransportClosed, err)
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range closedMarkers {
		if strings.Contains(msg, marker) {
			return fmt.Errorf("%w: %v", competitors.ErrTransportClosed, err)
		}
	}
	return err
}
