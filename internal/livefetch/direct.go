package livefetch

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/kodhane/mevra/internal/model"
	"github.com/kodhane/mevra/internal/util"
	"github.com/kodhane/mevra/internal/worker"
)

// DirectURLFetcher builds a parameterized URL from the upstream's known
// query-string conventions and fetches it with a plain GET. Lighter than
// browser automation; works whenever the site serves content without
// client-side rendering.
type DirectURLFetcher struct {
	baseURL    string
	searchPath string
	httpCfg    model.HTTPConfig
	limiter    *worker.Limiter
}

// NewDirectURLFetcher creates the direct-URL strategy. searchPath is the
// upstream's search endpoint path; empty means the default "/arama".
func NewDirectURLFetcher(baseURL, searchPath string, httpCfg model.HTTPConfig, limiter *worker.Limiter) *DirectURLFetcher {
	if searchPath == "" {
		searchPath = "/arama"
	}
	return &DirectURLFetcher{
		baseURL:    strings.TrimRight(baseURL, "/"),
		searchPath: "/" + strings.Trim(searchPath, "/"),
		httpCfg:    httpCfg,
		limiter:    limiter,
	}
}

// Name implements Fetcher.
func (f *DirectURLFetcher) Name() string { return "direct_url" }

// Fetch implements Fetcher. The HTTP client is scoped to the attempt and its
// idle connections are released on every exit path.
func (f *DirectURLFetcher) Fetch(ctx context.Context, query string) (*Result, error) {
	params := url.Values{}
	params.Set("AranacakMetin", query)
	params.Set("AranacakYer", "Baslik")
	target := f.baseURL + f.searchPath + "?" + params.Encode()

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, target); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	client := newScopedClient(f.httpCfg)
	defer client.CloseIdleConnections()

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

// newScopedClient builds an HTTP client for a single strategy attempt.
func newScopedClient(cfg model.HTTPConfig) *http.Client {
	transport := &http.Transport{
		Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
	}
	if cfg.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return fmt.Errorf("stopped after 5 redirects")
			}
			return nil
		},
	}
}

// fetchURL performs one GET with the standard headers and size cap, returning
// the body and the post-redirect URL.
func fetchURL(ctx context.Context, client *http.Client, target string, cfg model.HTTPConfig) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "tr-TR,tr;q=0.9,en;q=0.5")

	resp, err := client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "", fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
	if err != nil {
		return "", "", fmt.Errorf("read body: %w", err)
	}

	return string(body), resp.Request.URL.String(), nil
}

var _ Fetcher = (*DirectURLFetcher)(nil)
