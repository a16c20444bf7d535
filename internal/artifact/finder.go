// Package artifact locates downloadable renditions of catalog items through a
// cascade of heuristics: the item's own URL, identifier-pattern construction,
// a structural scan of the landing page, a generic link sweep, and external
// open-content indexes. The cascade short-circuits once a verified
// high-confidence candidate is found.
package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/kodhane/mevra/internal/model"
	"github.com/kodhane/mevra/internal/util"
	"github.com/kodhane/mevra/internal/worker"
)

// Strategy names recorded on candidates.
const (
	StrategyDirect     = "direct_url"
	StrategyIdentifier = "identifier_pattern"
	StrategySection    = "section_scan"
	StrategySweep      = "link_sweep"
	StrategyIndex      = "index_lookup"
)

const maxCandidates = 3

// artifactExtensions mark hrefs that already point at a downloadable file.
var artifactExtensions = []string{".pdf", ".doc", ".docx", ".epub"}

// artifactLinkHints match link text or href fragments that advertise a
// downloadable rendition.
var artifactLinkHints = []string{
	"pdf", "indir", "download", "tam metin", "full text", "fulltext",
}

// sectionPriorities lists landing-page region names scanned before the
// generic sweep, most promising first.
var sectionPriorities = []string{
	"download", "downloads", "fulltext", "full-text", "pdf", "ekler", "dosyalar", "attachments",
}

// identifierTemplates maps identifier prefixes to URL templates. Checked in
// order; first match wins.
var identifierTemplates = []struct {
	prefix     string
	template   string
	confidence model.Confidence
}{
	{"arXiv:", "https://arxiv.org/pdf/%s.pdf", model.ConfidenceHigh},
	{"10.48550/", "https://arxiv.org/pdf/%s.pdf", model.ConfidenceHigh},
	{"10.", "https://doi.org/%s", model.ConfidenceMedium},
}

// statuteTemplate builds the upstream's canonical PDF location for a statute
// number ("tertip 5" layout used for current legislation).
const statuteTemplate = "https://www.mevzuat.gov.tr/MevzuatMetin/1.5.%s.pdf"

// Finder runs the discovery cascade.
type Finder struct {
	httpCfg   model.HTTPConfig
	limiter   *worker.Limiter
	prober    *Prober
	indexURLs []string
	logger    *slog.Logger
}

// NewFinder creates a finder. indexURLs are open-content index endpoints
// queried by title as the last resort; empty disables that stage.
func NewFinder(httpCfg model.HTTPConfig, limiter *worker.Limiter, prober *Prober, indexURLs []string, logger *slog.Logger) *Finder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Finder{
		httpCfg:   httpCfg,
		limiter:   limiter,
		prober:    prober,
		indexURLs: indexURLs,
		logger:    logger,
	}
}

// landing memoizes the parsed landing page so the section scan and the link
// sweep share one fetch.
type landing struct {
	doc     *html.Node
	base    *url.URL
	fetched bool
}

// FindArtifacts locates up to three downloadable renditions for the item,
// highest confidence first. No candidates is an empty list, not an error.
func (f *Finder) FindArtifacts(ctx context.Context, item model.CatalogItem) []model.ArtifactCandidate {
	var candidates []model.ArtifactCandidate
	lp := &landing{}

	stages := []func(context.Context, model.CatalogItem) []model.ArtifactCandidate{
		f.fromOwnURL,
		f.fromIdentifier,
		func(ctx context.Context, item model.CatalogItem) []model.ArtifactCandidate {
			return f.fromPageSections(ctx, item, lp)
		},
		func(ctx context.Context, item model.CatalogItem) []model.ArtifactCandidate {
			return f.fromLinkSweep(ctx, item, lp)
		},
		f.fromIndexes,
	}

	for _, stage := range stages {
		if ctx.Err() != nil {
			break
		}
		found := stage(ctx, item)
		candidates = merge(candidates, found)

		if high := firstHigh(candidates); high != nil && f.verify(ctx, high) {
			break
		}
		if len(candidates) >= maxCandidates {
			break
		}
	}

	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}
	if f.prober != nil {
		f.prober.VerifyAll(ctx, candidates)
	}
	rank(candidates)

	return candidates
}

func (f *Finder) verify(ctx context.Context, c *model.ArtifactCandidate) bool {
	if f.prober == nil {
		return true // no prober configured; trust the heuristic
	}
	c.Verified = f.prober.Verify(ctx, c.URL)
	return c.Verified
}

// fromOwnURL accepts the item's URL when it already points at an artifact.
func (f *Finder) fromOwnURL(ctx context.Context, item model.CatalogItem) []model.ArtifactCandidate {
	if item.OriginURL == "" || !looksLikeArtifactHref(item.OriginURL) {
		return nil
	}
	return []model.ArtifactCandidate{{
		URL:        item.OriginURL,
		Strategy:   StrategyDirect,
		Confidence: model.ConfidenceHigh,
	}}
}

// fromIdentifier constructs URLs from known identifier-prefix templates.
func (f *Finder) fromIdentifier(ctx context.Context, item model.CatalogItem) []model.ArtifactCandidate {
	number := strings.TrimSpace(item.Number)
	if number == "" {
		return nil
	}

	if item.Kind == model.KindStatute && isDigits(number) {
		return []model.ArtifactCandidate{{
			URL:        fmt.Sprintf(statuteTemplate, number),
			Strategy:   StrategyIdentifier,
			Confidence: model.ConfidenceHigh,
		}}
	}

	for _, t := range identifierTemplates {
		if strings.HasPrefix(number, t.prefix) {
			id := strings.TrimPrefix(number, "arXiv:")
			return []model.ArtifactCandidate{{
				URL:        fmt.Sprintf(t.template, id),
				Strategy:   StrategyIdentifier,
				Confidence: t.confidence,
			}}
		}
	}
	return nil
}

// fromPageSections fetches the landing page and scans prioritized named
// regions for artifact links.
func (f *Finder) fromPageSections(ctx context.Context, item model.CatalogItem, lp *landing) []model.ArtifactCandidate {
	doc, base := f.landingPage(ctx, item, lp)
	if doc == nil {
		return nil
	}

	var out []model.ArtifactCandidate
	for _, name := range sectionPriorities {
		region := findRegion(doc, name)
		if region == nil {
			continue
		}
		for _, href := range collectArtifactLinks(region, base) {
			out = append(out, model.ArtifactCandidate{
				URL:        href,
				Strategy:   StrategySection,
				Confidence: model.ConfidenceHigh,
			})
		}
		if len(out) > 0 {
			break
		}
	}
	return out
}

// fromLinkSweep scans every link on the landing page for artifact patterns.
func (f *Finder) fromLinkSweep(ctx context.Context, item model.CatalogItem, lp *landing) []model.ArtifactCandidate {
	doc, base := f.landingPage(ctx, item, lp)
	if doc == nil {
		return nil
	}

	var out []model.ArtifactCandidate
	for _, href := range collectArtifactLinks(doc, base) {
		out = append(out, model.ArtifactCandidate{
			URL:        href,
			Strategy:   StrategySweep,
			Confidence: model.ConfidenceMedium,
		})
		if len(out) >= maxCandidates {
			break
		}
	}
	return out
}

// fromIndexes queries the configured open-content indexes by title.
func (f *Finder) fromIndexes(ctx context.Context, item model.CatalogItem) []model.ArtifactCandidate {
	if item.Title == "" {
		return nil
	}

	client := &http.Client{Timeout: f.httpCfg.Timeout}
	defer client.CloseIdleConnections()

	var out []model.ArtifactCandidate
	for _, endpoint := range f.indexURLs {
		target := endpoint + url.QueryEscape(item.Title)
		if f.limiter != nil {
			if err := f.limiter.Wait(ctx, target); err != nil {
				return out
			}
		}

		links, err := queryIndex(ctx, client, target, f.httpCfg.UserAgent)
		if err != nil {
			f.logger.Debug("artifact: index lookup failed", "endpoint", endpoint, "error", err)
			continue
		}
		for _, link := range links {
			out = append(out, model.ArtifactCandidate{
				URL:        link,
				Strategy:   StrategyIndex,
				Confidence: model.ConfidenceMedium,
			})
		}
		if len(out) > 0 {
			break
		}
	}
	return out
}

// landingPage returns the memoized landing page, fetching it on first use.
func (f *Finder) landingPage(ctx context.Context, item model.CatalogItem, lp *landing) (*html.Node, *url.URL) {
	if lp.fetched {
		return lp.doc, lp.base
	}
	lp.fetched = true
	lp.doc, lp.base = f.fetchLanding(ctx, item)
	return lp.doc, lp.base
}

// fetchLanding retrieves and parses the item's landing page.
func (f *Finder) fetchLanding(ctx context.Context, item model.CatalogItem) (*html.Node, *url.URL) {
	if item.OriginURL == "" {
		return nil, nil
	}
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, item.OriginURL); err != nil {
			return nil, nil
		}
	}

	client := &http.Client{Timeout: f.httpCfg.Timeout}
	defer client.CloseIdleConnections()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, item.OriginURL, nil)
	if err != nil {
		return nil, nil
	}
	req.Header.Set("User-Agent", f.httpCfg.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		f.logger.Debug("artifact: landing fetch failed", "url", item.OriginURL, "error", err)
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil
	}

	maxBytes := f.httpCfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
	if err != nil {
		return nil, nil
	}

	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return nil, nil
	}

	base, _ := url.Parse(resp.Request.URL.String())
	return doc, base
}

// queryIndex expects a JSON body carrying candidate URLs; it accepts the
// loose {"results": [{"url": ...}]} shape the open indexes share.
func queryIndex(ctx context.Context, client *http.Client, target, userAgent string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var payload struct {
		Results []struct {
			URL string `json:"url"`
		} `json:"results"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1_000_000)).Decode(&payload); err != nil {
		return nil, err
	}

	var links []string
	for _, r := range payload.Results {
		if r.URL != "" && looksLikeArtifactHref(r.URL) {
			links = append(links, r.URL)
		}
	}
	return links, nil
}

// --- helpers ---

func looksLikeArtifactHref(href string) bool {
	lower := util.LowerTurkish(href)
	for _, ext := range artifactExtensions {
		if strings.Contains(lower, ext) {
			return true
		}
	}
	return strings.Contains(lower, "/download")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// findRegion locates an element whose id or class contains the region name.
func findRegion(doc *html.Node, name string) *html.Node {
	var found *html.Node
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			for _, attr := range n.Attr {
				if attr.Key == "id" || attr.Key == "class" {
					if strings.Contains(strings.ToLower(attr.Val), name) {
						found = n
						return true
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(doc)
	return found
}

// collectArtifactLinks gathers hrefs under n whose href or anchor text look
// like a downloadable rendition, resolved against base.
func collectArtifactLinks(n *html.Node, base *url.URL) []string {
	var links []string
	seen := make(map[string]bool)

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == "a" {
			href := attrValue(node, "href")
			text := util.LowerTurkish(nodeText(node))
			if href != "" && (looksLikeArtifactHref(href) || hintMatch(text)) {
				if resolved := resolveHref(base, href); resolved != "" && !seen[resolved] {
					seen[resolved] = true
					links = append(links, resolved)
				}
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return links
}

func hintMatch(text string) bool {
	for _, hint := range artifactLinkHints {
		if strings.Contains(text, hint) {
			return true
		}
	}
	return false
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			buf.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(buf.String())
}

func resolveHref(base *url.URL, href string) string {
	if strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
		return ""
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base != nil {
		parsed = base.ResolveReference(parsed)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	return parsed.String()
}

// merge appends new candidates, dropping URL duplicates.
func merge(existing, found []model.ArtifactCandidate) []model.ArtifactCandidate {
	seen := make(map[string]bool, len(existing))
	for _, c := range existing {
		seen[c.URL] = true
	}
	for _, c := range found {
		if !seen[c.URL] {
			seen[c.URL] = true
			existing = append(existing, c)
		}
	}
	return existing
}

func firstHigh(candidates []model.ArtifactCandidate) *model.ArtifactCandidate {
	for i := range candidates {
		if candidates[i].Confidence == model.ConfidenceHigh {
			return &candidates[i]
		}
	}
	return nil
}

// rank orders candidates verified-first, then by confidence descending. The
// sort is stable by construction: a simple two-pass partition.
func rank(candidates []model.ArtifactCandidate) {
	ordered := make([]model.ArtifactCandidate, 0, len(candidates))
	for _, verified := range []bool{true, false} {
		for _, conf := range []model.Confidence{model.ConfidenceHigh, model.ConfidenceMedium} {
			for _, c := range candidates {
				if c.Verified == verified && c.Confidence == conf {
					ordered = append(ordered, c)
				}
			}
		}
	}
	copy(candidates, ordered)
}
