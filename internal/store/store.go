// Package store provides read access to the already-ingested document
// database. The pipeline only needs three lookups: weighted text search,
// lookup by official number and lookup by local id; ingestion belongs to the
// surrounding application.
package store

import (
	"context"
	"sort"
	"strings"

	"github.com/kodhane/mevra/internal/model"
	"github.com/kodhane/mevra/internal/util"
)

// LocalStore abstracts the local document database.
type LocalStore interface {
	// FindByText returns items matching the given normalized words, best first.
	FindByText(ctx context.Context, words []string, filters model.Filters) ([]model.CatalogItem, error)

	// FindByNumber returns the item with the given official number, or nil.
	FindByNumber(ctx context.Context, number string) (*model.CatalogItem, error)

	// FindByID returns the item with the given local id, or nil.
	FindByID(ctx context.Context, id string) (*model.CatalogItem, error)

	Close() error
}

// Match weights: a title hit counts well above a body hit, and matching every
// query word beats matching some of them.
const (
	titleHitWeight  = 5
	bodyHitWeight   = 1
	allWordsBonus   = 10
	numberHitWeight = 8
)

// scoreItem computes the weighted text-match score of an item against
// normalized query words. Zero means no match.
func scoreItem(item model.CatalogItem, words []string) int {
	title := util.NormalizeTitle(item.Title)
	body := util.LowerTurkish(item.PreviewText)
	for _, s := range item.Sections {
		body += " " + util.LowerTurkish(s.Title)
	}

	score := 0
	matched := 0
	for _, w := range words {
		hit := false
		if strings.Contains(title, w) {
			score += titleHitWeight
			hit = true
		}
		if strings.Contains(body, w) {
			score += bodyHitWeight
			hit = true
		}
		if item.Number != "" && item.Number == w {
			score += numberHitWeight
			hit = true
		}
		if hit {
			matched++
		}
	}
	if matched == 0 {
		return 0
	}
	if matched == len(words) {
		score += allWordsBonus
	}
	return score
}

// rankItems sorts matched items by score descending, breaking ties by title
// for deterministic output.
func rankItems(items []model.CatalogItem, scores map[string]int) {
	sort.SliceStable(items, func(i, j int) bool {
		si, sj := scores[items[i].ID], scores[items[j].ID]
		if si != sj {
			return si > sj
		}
		return items[i].Title < items[j].Title
	})
}
