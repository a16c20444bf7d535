package livefetch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"
)

// formSelectors are tried in order to locate the search box on the upstream's
// landing page; the markup varies release-to-release.
var formSelectors = []string{
	`input[name="AranacakMetin"]`,
	`input[type="search"]`,
	`input[name="q"]`,
}

// FormFetcher drives a scripted browser session: open the landing page, fill
// the search form, submit, and read the rendered text. The heavy strategy,
// needed when the site renders content client-side; tried first because its
// output is the most complete.
type FormFetcher struct {
	baseURL   string
	remoteURL string // external Chrome websocket; empty = launch local
	headless  bool
	logger    *slog.Logger
}

// NewFormFetcher creates the browser-automation strategy.
func NewFormFetcher(baseURL, remoteURL string, headless bool, logger *slog.Logger) *FormFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &FormFetcher{
		baseURL:   strings.TrimRight(baseURL, "/"),
		remoteURL: remoteURL,
		headless:  headless,
		logger:    logger,
	}
}

// Name implements Fetcher.
func (f *FormFetcher) Name() string { return "browser_form" }

// Fetch implements Fetcher. The browser session is scoped to the attempt:
// every exit path, including cancellation, closes the page and the browser
// and reaps any locally launched Chrome process.
func (f *FormFetcher) Fetch(ctx context.Context, query string) (*Result, error) {
	browser, cleanup, err := f.connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	defer cleanup()

	page, err := stealth.Page(browser)
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	defer func() { _ = page.Close() }()
	page = page.Context(ctx)

	if err := page.Navigate(f.baseURL + "/"); err != nil {
		return nil, fmt.Errorf("navigate: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait load: %w", err)
	}

	box, err := f.findSearchBox(page)
	if err != nil {
		return nil, err
	}

	if err := box.Input(query); err != nil {
		return nil, fmt.Errorf("fill search box: %w", err)
	}
	if err := box.Type(input.Enter); err != nil {
		return nil, fmt.Errorf("submit form: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait results: %w", err)
	}

	res, err := page.Eval(`() => document.body.innerText`)
	if err != nil {
		return nil, fmt.Errorf("read page text: %w", err)
	}

	info, err := page.Info()
	if err != nil {
		return nil, fmt.Errorf("page info: %w", err)
	}

	text := res.Value.Str()
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		if line := strings.TrimSpace(raw); line != "" {
			lines = append(lines, line)
		}
	}

	return &Result{
		Lines:     lines,
		RawText:   strings.Join(lines, "\n"),
		SourceURL: info.URL,
	}, nil
}

// connect attaches to a remote Chrome or launches a local one. The returned
// cleanup releases the browser and, for local launches, the Chrome process.
func (f *FormFetcher) connect(ctx context.Context) (*rod.Browser, func(), error) {
	if f.remoteURL != "" {
		browser := rod.New().ControlURL(f.remoteURL).Context(ctx)
		if err := browser.Connect(); err != nil {
			return nil, nil, err
		}
		return browser, func() { _ = browser.Close() }, nil
	}

	l := launcher.New().Headless(f.headless)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, nil, err
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, nil, err
	}

	return browser, func() {
		_ = browser.Close()
		l.Cleanup()
	}, nil
}

func (f *FormFetcher) findSearchBox(page *rod.Page) (*rod.Element, error) {
	for _, selector := range formSelectors {
		has, el, err := page.Has(selector)
		if err != nil {
			continue
		}
		if has {
			return el, nil
		}
	}
	return nil, fmt.Errorf("no search box found on %s", f.baseURL)
}

var _ Fetcher = (*FormFetcher)(nil)
