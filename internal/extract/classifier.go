package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kodhane/mevra/internal/model"
)

// Reason codes returned by the classifier. Stable strings: they end up in
// logs and metrics, not in user-facing output.
const (
	ReasonDisclaimer       = "disclaimer_phrase"
	ReasonTruncation       = "truncation_marker"
	ReasonBoilerplate      = "boilerplate_density"
	ReasonBelowCharFloor   = "below_char_floor"
	ReasonImplausibleCount = "implausible_article_count"
)

// disclaimerPhrases mark pages that serve abridged or summary renditions of a
// statute instead of the full text. Any single hit rejects the content.
var disclaimerPhrases = []string{
	"yalnızca",
	"özet niteliğinde",
	"özetidir",
	"seçilmiş maddeler",
	"bazı maddeleri",
	"özet metin",
}

// truncationMarkers indicate the page cut the document short.
var truncationMarkers = []string{
	"devamını oku",
	"devamı için",
	"tamamını görüntüle",
	"tam metin için",
	"tamamını okumak için",
}

// Classifier decides whether extracted content is trustworthy or must fall
// back to curated static content. Thresholds are hand-tuned per source and
// therefore configuration, not constants.
type Classifier struct {
	minChars       int
	minArticles    int
	maxBoilerplate int
}

// NewClassifier creates a classifier from the quality gate thresholds.
func NewClassifier(cfg model.QualityConfig) *Classifier {
	return &Classifier{
		minChars:       cfg.MinAcceptedChars,
		minArticles:    cfg.MinArticleCount,
		maxBoilerplate: cfg.MaxBoilerplatePhrases,
	}
}

// Classify returns accept=false with all applicable reason codes when the
// extracted content cannot be trusted as the full document. Pure function.
func (c *Classifier) Classify(result model.ExtractionResult, rawText string) (bool, []string) {
	var reasons []string
	lower := toLowerTurkish(rawText)

	for _, phrase := range disclaimerPhrases {
		if strings.Contains(lower, phrase) {
			reasons = append(reasons, ReasonDisclaimer)
			break
		}
	}

	for _, marker := range truncationMarkers {
		if strings.Contains(lower, marker) {
			reasons = append(reasons, ReasonTruncation)
			break
		}
	}

	distinct := 0
	for _, phrase := range boilerplatePhrases {
		if strings.Contains(lower, phrase) {
			distinct++
		}
	}
	if distinct >= c.maxBoilerplate {
		reasons = append(reasons, ReasonBoilerplate)
	}

	chars := utf8.RuneCountInString(rawText)
	if chars == 0 {
		chars = result.TotalChars
	}
	if chars < c.minChars {
		reasons = append(reasons, ReasonBelowCharFloor)
	}

	// A statute that declares articles but yields almost none was abridged or
	// mis-parsed; zero articles is left to the char floor to catch.
	if result.ArticleCount > 0 && result.ArticleCount < c.minArticles {
		reasons = append(reasons, ReasonImplausibleCount)
	}

	return len(reasons) == 0, reasons
}

// toLowerTurkish lowercases with Turkish casing rules so "İŞ KANUNU" and
// "iş kanunu" compare equal (İ→i, I→ı).
func toLowerTurkish(s string) string {
	return strings.ToLowerSpecial(unicode.TurkishCase, s)
}
