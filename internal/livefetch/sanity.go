package livefetch

import (
	"strings"
	"unicode/utf8"

	"github.com/kodhane/mevra/internal/util"
)

// noResultMarkers are the upstream's explicit "nothing found" phrases.
var noResultMarkers = []string{
	"sonuç bulunamadı",
	"kayıt bulunamadı",
	"aradığınız kriterlere uygun",
	"no results found",
}

// searchShellMarkers fingerprint the generic search UI the site redirects to
// when it cannot serve a document page. A short page dominated by these is a
// shell, not content.
var searchShellMarkers = []string{
	"gelişmiş arama",
	"arama sonuçları",
	"aranacak metin",
	"arama kriterleri",
}

const minDocumentChars = 200

// looksLikeDocument is the cheap sanity check applied to a strategy's output:
// non-empty body, no explicit no-results marker, and not the generic
// search-UI shell served in place of content.
func looksLikeDocument(rawText string) bool {
	text := strings.TrimSpace(rawText)
	if utf8.RuneCountInString(text) < minDocumentChars {
		return false
	}

	lower := util.LowerTurkish(text)
	for _, marker := range noResultMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}

	shellHits := 0
	for _, marker := range searchShellMarkers {
		if strings.Contains(lower, marker) {
			shellHits++
		}
	}
	// A real document may keep one chrome phrase; two or more on a short page
	// means we were handed the search UI itself.
	if shellHits >= 2 && utf8.RuneCountInString(text) < 2000 {
		return false
	}

	return true
}
