// Package search implements the hybrid coordinator: one query fans out to the
// local document store and, in parallel, to the live fetch chain; results are
// merged, deduplicated and paginated into a single stable catalog page. The
// live branch is best-effort by contract: its failures shrink the result set
// and never fail the search.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/kodhane/mevra/internal/artifact"
	"github.com/kodhane/mevra/internal/cache"
	"github.com/kodhane/mevra/internal/extract"
	"github.com/kodhane/mevra/internal/fallback"
	"github.com/kodhane/mevra/internal/livefetch"
	"github.com/kodhane/mevra/internal/model"
	"github.com/kodhane/mevra/internal/store"
	"github.com/kodhane/mevra/internal/util"
)

// LiveFetcher is the capability the coordinator needs from the live branch.
// nil disables live fetching entirely.
type LiveFetcher interface {
	FetchLive(ctx context.Context, query string) (*livefetch.Result, []model.StrategyAttempt, error)
}

// Summarizer optionally fills PreviewText on live items. Failures are logged
// and ignored; the preview is cosmetic.
type Summarizer interface {
	Summarize(ctx context.Context, title, text string) (string, error)
}

// Options wires the coordinator's collaborators. Store is required; every
// other field may be nil to disable the corresponding capability.
type Options struct {
	Store      store.LocalStore
	Live       LiveFetcher
	Cache      cache.Cache
	Fallback   *fallback.Catalog
	Finder     *artifact.Finder
	Summarizer Summarizer
	Config     *model.Config
	Logger     *slog.Logger
}

// Coordinator merges local and live search into one catalog surface.
type Coordinator struct {
	store      store.LocalStore
	live       LiveFetcher
	cache      cache.Cache
	fallback   *fallback.Catalog
	finder     *artifact.Finder
	summarizer Summarizer
	extractor  *extract.Extractor
	classifier *extract.Classifier
	cfg        *model.Config
	logger     *slog.Logger
}

// NewCoordinator creates the coordinator.
func NewCoordinator(opts Options) *Coordinator {
	cfg := opts.Config
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	fb := opts.Fallback
	if fb == nil {
		fb = fallback.NewCatalog()
	}
	return &Coordinator{
		store:      opts.Store,
		live:       opts.Live,
		cache:      opts.Cache,
		fallback:   fb,
		finder:     opts.Finder,
		summarizer: opts.Summarizer,
		extractor:  extract.NewExtractor(),
		classifier: extract.NewClassifier(cfg.Quality),
		cfg:        cfg,
		logger:     logger,
	}
}

// Search runs one hybrid query. Identical inputs produce identical pages for
// the lifetime of the cache entry.
func (c *Coordinator) Search(ctx context.Context, query string, filters model.Filters, page, perPage int) (*model.SearchPage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty query: %w", model.ErrInvalidQuery)
	}
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 10
	}
	if max := c.cfg.Search.MaxResultsPerPage; perPage > max {
		perPage = max
	}

	normalized := util.NormalizeTitle(query)
	cacheKey := cache.SearchKey(normalized, filters, page, perPage)
	if cached, ok := c.cachedPage(cacheKey); ok {
		return cached, nil
	}

	var (
		wg         sync.WaitGroup
		localItems []model.CatalogItem
		localErr   error
		liveItems  []model.CatalogItem
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		localItems, localErr = c.searchLocal(ctx, normalized, filters)
	}()

	if c.live != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			liveItems = c.searchLive(ctx, query, filters)
		}()
	}
	wg.Wait()

	if localErr != nil {
		if len(liveItems) == 0 {
			return nil, fmt.Errorf("local search: %w", localErr)
		}
		c.logger.Warn("search: local store failed, serving live results only", "error", localErr)
	}

	merged := mergeResults(localItems, liveItems)
	orderResults(merged)

	// Deep pagination is capped instead of scanning the whole corpus.
	maxItems := perPage * (page + c.cfg.Search.ResultBufferPages)
	if len(merged) > maxItems {
		merged = merged[:maxItems]
	}

	result := paginate(merged, page, perPage)
	c.storePage(cacheKey, result)
	return result, nil
}

// GetDetail resolves one catalog item by id, with full sections. Local ids hit
// the store; "live_<number>" ids re-fetch from the upstream source with the
// curated catalog as the safety net.
func (c *Coordinator) GetDetail(ctx context.Context, id string) (*model.CatalogItem, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("empty id: %w", model.ErrInvalidQuery)
	}

	cacheKey := cache.DetailKey(id)
	if c.cache != nil {
		if data, ok := c.cache.Get(cacheKey); ok {
			var item model.CatalogItem
			if err := json.Unmarshal(data, &item); err == nil {
				return &item, nil
			}
		}
	}

	var item *model.CatalogItem
	var err error
	if number, isLive := strings.CutPrefix(id, "live_"); isLive {
		item, err = c.liveDetail(ctx, number)
	} else {
		item, err = c.store.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("local lookup: %w", err)
		}
		if item == nil {
			err = fmt.Errorf("id %s: %w", id, model.ErrItemNotFound)
		}
	}
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if data, merr := json.Marshal(item); merr == nil {
			_ = c.cache.Set(cacheKey, data, c.cfg.Cache.TTL)
		}
	}
	return item, nil
}

// FindArtifacts locates downloadable renditions for a catalog item.
func (c *Coordinator) FindArtifacts(ctx context.Context, id string) ([]model.ArtifactCandidate, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("empty id: %w", model.ErrInvalidQuery)
	}
	if c.finder == nil {
		return []model.ArtifactCandidate{}, nil
	}

	cacheKey := cache.ArtifactKey(id)
	if c.cache != nil {
		if data, ok := c.cache.Get(cacheKey); ok {
			var candidates []model.ArtifactCandidate
			if err := json.Unmarshal(data, &candidates); err == nil {
				return candidates, nil
			}
		}
	}

	item, err := c.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}

	// A heuristic miss is an empty list, not an error; the miss is cached too
	// so repeated viewer requests do not re-run the cascade.
	candidates := c.finder.FindArtifacts(ctx, *item)
	if candidates == nil {
		candidates = []model.ArtifactCandidate{}
	}

	if c.cache != nil {
		if data, merr := json.Marshal(candidates); merr == nil {
			_ = c.cache.Set(cacheKey, data, c.cfg.Cache.TTL)
		}
	}
	return candidates, nil
}

// --- branches ---

func (c *Coordinator) searchLocal(ctx context.Context, normalized string, filters model.Filters) ([]model.CatalogItem, error) {
	words := util.SplitWords(normalized)
	items, err := c.store.FindByText(ctx, words, filters)
	if err != nil {
		return nil, err
	}

	// An all-digits query is most likely an official number.
	if len(words) == 1 && isDigits(words[0]) {
		byNumber, nerr := c.store.FindByNumber(ctx, words[0])
		if nerr == nil && byNumber != nil && filters.Matches(*byNumber) {
			items = prependUnique(items, *byNumber)
		}
	}
	return items, nil
}

// searchLive runs the strategy chain under its own deadline. Any failure here
// degrades to an empty contribution; the error never leaves this method.
func (c *Coordinator) searchLive(ctx context.Context, query string, filters model.Filters) []model.CatalogItem {
	liveCtx, cancel := context.WithTimeout(ctx, c.cfg.Live.Timeout)
	defer cancel()

	result, attempts, err := c.live.FetchLive(liveCtx, query)
	if err != nil {
		c.logger.Warn("search: live branch unavailable",
			"query", query, "attempts", len(attempts), "error", err)
		return nil
	}

	item := c.buildLiveItem(ctx, query, result)
	if !filters.Matches(item) {
		return nil
	}
	return []model.CatalogItem{item}
}

func (c *Coordinator) liveDetail(ctx context.Context, number string) (*model.CatalogItem, error) {
	if c.live != nil {
		liveCtx, cancel := context.WithTimeout(ctx, c.cfg.Live.Timeout)
		defer cancel()

		result, _, err := c.live.FetchLive(liveCtx, number)
		if err == nil {
			item := c.buildLiveItem(ctx, number, result)
			return &item, nil
		}
		c.logger.Warn("detail: live fetch failed, trying curated catalog",
			"number", number, "error", err)
	}

	if item, ok := c.fallback.Lookup(number); ok {
		return &item, nil
	}
	return nil, fmt.Errorf("live item %s: %w", number, model.ErrItemNotFound)
}

// buildLiveItem turns raw fetched content into a catalog item: structure
// extraction, the completeness gate, and fallback substitution when the gate
// rejects.
func (c *Coordinator) buildLiveItem(ctx context.Context, query string, result *livefetch.Result) model.CatalogItem {
	extraction := c.extractor.Extract(result.Lines)
	accepted, reasons := c.classifier.Classify(extraction, result.RawText)

	number := detectNumber(result.Lines, query)
	title := detectTitle(result.Lines, query)

	if !accepted {
		c.logger.Info("search: live content rejected by quality gate",
			"query", query, "reasons", reasons, "strategy", result.Strategy)
		if curated, ok := c.fallback.Lookup(number); ok {
			return curated
		}
		placeholder := fallback.Placeholder(number, title, result.SourceURL)
		if number == "" {
			placeholder.ID = "live_" + slug(query)
		}
		return placeholder
	}

	item := model.CatalogItem{
		ID:          "live_" + number,
		Title:       title,
		Number:      number,
		Kind:        kindForNumber(number),
		OriginURL:   result.SourceURL,
		Origin:      model.OriginLive,
		Sections:    extraction.Sections,
		PreviewText: firstParagraph(extraction.Sections),
	}
	if number == "" {
		item.ID = "live_" + slug(query)
	}

	if c.summarizer != nil {
		if summary, err := c.summarizer.Summarize(ctx, title, result.RawText); err == nil && summary != "" {
			item.PreviewText = summary
		} else if err != nil {
			c.logger.Debug("search: preview summarizer failed", "error", err)
		}
	}
	return item
}

// --- merging and pagination ---

// mergeResults appends live items after local ones, dropping a live item only
// when a local item carries both the same normalized title and the same
// number. A title collision alone is not enough: distinct statutes share
// short titles, and distinct numbers are never the same document.
func mergeResults(local, live []model.CatalogItem) []model.CatalogItem {
	merged := make([]model.CatalogItem, 0, len(local)+len(live))
	merged = append(merged, local...)

	for _, candidate := range live {
		duplicate := false
		candidateTitle := util.NormalizeTitle(candidate.Title)
		for _, existing := range local {
			if util.NormalizeTitle(existing.Title) == candidateTitle && existing.Number == candidate.Number {
				duplicate = true
				break
			}
		}
		if !duplicate {
			merged = append(merged, candidate)
		}
	}
	return merged
}

// orderResults sorts deterministically: local before live, longer titles
// before shorter ones (fuller official names rank above abbreviations), then
// lexicographic.
func orderResults(items []model.CatalogItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Origin != items[j].Origin {
			return items[i].Origin == model.OriginLocal
		}
		li, lj := utf8.RuneCountInString(items[i].Title), utf8.RuneCountInString(items[j].Title)
		if li != lj {
			return li > lj
		}
		return items[i].Title < items[j].Title
	})
}

func paginate(items []model.CatalogItem, page, perPage int) *model.SearchPage {
	start := (page - 1) * perPage
	end := start + perPage
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	pageItems := make([]model.CatalogItem, end-start)
	copy(pageItems, items[start:end])

	return &model.SearchPage{
		Items:       pageItems,
		Page:        page,
		PerPage:     perPage,
		TotalCount:  len(items),
		HasNext:     len(items) > page*perPage,
		HasPrevious: page > 1,
	}
}

// --- cache helpers ---

func (c *Coordinator) cachedPage(key string) (*model.SearchPage, bool) {
	if c.cache == nil {
		return nil, false
	}
	data, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	var page model.SearchPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, false
	}
	return &page, true
}

func (c *Coordinator) storePage(key string, page *model.SearchPage) {
	if c.cache == nil {
		return
	}
	data, err := json.Marshal(page)
	if err != nil {
		return
	}
	if err := c.cache.Set(key, data, c.cfg.Cache.TTL); err != nil {
		c.logger.Debug("search: cache write failed", "error", err)
	}
}

// --- live content helpers ---

var statuteNumberRe = regexp.MustCompile(`(?i)kanun\s+numarası\s*:?\s*(\d+)`)

// detectNumber pulls the official number out of the fetched text; an
// all-digits query is taken as the number when the text carries none.
func detectNumber(lines []string, query string) string {
	for _, line := range lines {
		if m := statuteNumberRe.FindStringSubmatch(line); m != nil {
			return m[1]
		}
	}
	if q := strings.TrimSpace(query); isDigits(q) {
		return q
	}
	return ""
}

// detectTitle picks the first plausible document title line.
func detectTitle(lines []string, query string) string {
	for _, line := range lines {
		line = strings.TrimSpace(line)
		n := utf8.RuneCountInString(line)
		if n < 5 || n > 120 {
			continue
		}
		lower := util.LowerTurkish(line)
		if strings.Contains(lower, "arama") || strings.Contains(lower, "ana sayfa") {
			continue
		}
		return line
	}
	return query
}

func kindForNumber(number string) model.Kind {
	if strings.HasPrefix(number, "10.") || strings.HasPrefix(number, "arXiv:") {
		return model.KindArticle
	}
	return model.KindStatute
}

const previewRuneLimit = 280

func firstParagraph(sections []model.Section) string {
	for _, s := range sections {
		for _, p := range s.Paragraphs {
			if runes := []rune(p); len(runes) > previewRuneLimit {
				return string(runes[:previewRuneLimit]) + "…"
			}
			return p
		}
	}
	return ""
}

func slug(query string) string {
	return strings.ReplaceAll(util.NormalizeTitle(query), " ", "-")
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func prependUnique(items []model.CatalogItem, item model.CatalogItem) []model.CatalogItem {
	for _, existing := range items {
		if existing.ID == item.ID {
			return items
		}
	}
	return append([]model.CatalogItem{item}, items...)
}
