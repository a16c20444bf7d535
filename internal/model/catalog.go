package model

// Origin indicates where a catalog item came from.
type Origin string

const (
	OriginLocal Origin = "local" // pre-ingested local store
	OriginLive  Origin = "live"  // fetched from an external source at request time
)

// Kind classifies a catalog item.
type Kind string

const (
	KindStatute Kind = "statute"
	KindArticle Kind = "article" // academic article
)

// SectionKind classifies one structural unit of a legal text.
type SectionKind string

const (
	SectionPart    SectionKind = "part"
	SectionChapter SectionKind = "chapter"
	SectionHeading SectionKind = "heading" // numbered sub-heading between articles
	SectionArticle SectionKind = "article"
)

// Section is one structural unit of a legal text. Order strictly increases
// within a CatalogItem; it is assigned at extraction time.
type Section struct {
	Kind       SectionKind `json:"kind"`
	Title      string      `json:"title"`
	Paragraphs []string    `json:"paragraphs"`
	Order      int         `json:"order"`
}

// CatalogItem is a retrievable unit: a statute or an academic article.
// Items are constructed transiently per request and never persisted here.
type CatalogItem struct {
	ID          string    `json:"id"` // local numeric key or synthesized "live_<number>"
	Title       string    `json:"title"`
	Number      string    `json:"number,omitempty"` // official designation (statute number, DOI)
	Kind        Kind      `json:"kind"`
	OriginURL   string    `json:"origin_url,omitempty"`
	Origin      Origin    `json:"origin"`
	Sections    []Section `json:"sections,omitempty"`
	PreviewText string    `json:"preview_text,omitempty"`
}

// Filters narrows a search to one item kind. The zero value matches all kinds.
type Filters struct {
	Kind Kind `json:"kind,omitempty"`
}

// Matches reports whether an item passes the filter.
func (f Filters) Matches(item CatalogItem) bool {
	return f.Kind == "" || f.Kind == item.Kind
}

// SearchPage is one page of merged search results.
type SearchPage struct {
	Items       []CatalogItem `json:"items"`
	Page        int           `json:"page"`
	PerPage     int           `json:"per_page"`
	TotalCount  int           `json:"total_count"` // best-effort; capped, may be an estimate
	HasNext     bool          `json:"has_next"`
	HasPrevious bool          `json:"has_previous"`
}

// ExtractionResult is the output of the text structure extractor. Accepted is
// set by the completeness classifier, not by the extractor itself.
type ExtractionResult struct {
	Sections     []Section `json:"sections"`
	ArticleCount int       `json:"article_count"`
	ChapterCount int       `json:"chapter_count"`
	TotalChars   int       `json:"total_chars"`
	Accepted     bool      `json:"accepted"`
}

// Confidence ranks artifact candidates.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
)

// ArtifactCandidate is a located downloadable rendition of a catalog item.
type ArtifactCandidate struct {
	URL        string     `json:"url"`
	Strategy   string     `json:"strategy"` // which heuristic produced it
	Confidence Confidence `json:"confidence"`
	Verified   bool       `json:"verified"` // whether a live existence check succeeded
}

// StrategyAttempt records one live-fetch strategy attempt for diagnostics.
type StrategyAttempt struct {
	Name      string `json:"name"`
	Outcome   string `json:"outcome"` // "ok", "timeout", "error", "rejected"
	LatencyMs int64  `json:"latency_ms"`
}

// Attempt outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeTimeout  = "timeout"
	OutcomeError    = "error"
	OutcomeRejected = "rejected" // fetched, but failed the content sanity check
)
