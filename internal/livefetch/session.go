package livefetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/kodhane/mevra/internal/model"
	"github.com/kodhane/mevra/internal/util"
	"github.com/kodhane/mevra/internal/worker"
)

// SessionFetcher performs a plain GET with a warm session: it visits the site
// root first to acquire cookies, then requests the target. The lightest
// fallback for sites that refuse cookieless requests but need no scripting.
type SessionFetcher struct {
	baseURL string
	httpCfg model.HTTPConfig
	limiter *worker.Limiter
	robots  *util.RobotsChecker // nil disables the politeness check
}

// NewSessionFetcher creates the warm-session strategy.
func NewSessionFetcher(baseURL string, httpCfg model.HTTPConfig, limiter *worker.Limiter, robots *util.RobotsChecker) *SessionFetcher {
	return &SessionFetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: httpCfg,
		limiter: limiter,
		robots:  robots,
	}
}

// Name implements Fetcher.
func (f *SessionFetcher) Name() string { return "warm_session" }

// Fetch implements Fetcher. The cookie jar and client live only for this
// attempt; idle connections are released on every exit path.
func (f *SessionFetcher) Fetch(ctx context.Context, query string) (*Result, error) {
	params := url.Values{}
	params.Set("q", query)
	target := f.baseURL + "/search?" + params.Encode()

	if f.robots != nil {
		allowed, delay := f.robots.Allowed(ctx, target)
		if !allowed {
			return nil, fmt.Errorf("robots.txt disallows %s", target)
		}
		if f.limiter != nil && delay > 0 {
			if err := f.limiter.WaitWithDelay(ctx, target, delay); err != nil {
				return nil, fmt.Errorf("crawl delay: %w", err)
			}
		}
	}
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, target); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	client := newScopedClient(f.httpCfg)
	client.Jar = jar
	defer client.CloseIdleConnections()

	// Warm the session: the root sets the cookies the content pages expect.
	if err := f.warm(ctx, client); err != nil {
		return nil, fmt.Errorf("warm session: %w", err)
	}

	body, finalURL, err := fetchURL(ctx, client, target, f.httpCfg)
	if err != nil {
		return nil, err
	}

	lines := HTMLToLines(body)
	return &Result{
		Lines:     lines,
		RawText:   strings.Join(lines, "\n"),
		SourceURL: finalURL,
	}, nil
}

func (f *SessionFetcher) warm(ctx context.Context, client *http.Client) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/", nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", f.httpCfg.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	// Body content is irrelevant; only the Set-Cookie exchange matters.
	resp.Body.Close()
	return nil
}

var _ Fetcher = (*SessionFetcher)(nil)
