package fallback

import (
	"strings"
	"testing"

	"github.com/kodhane/mevra/internal/model"
)

func TestCatalog_LookupKnownNumber(t *testing.T) {
	c := NewCatalog()

	item, ok := c.Lookup("4857")
	if !ok {
		t.Fatal("Expected curated entry for 4857")
	}
	if item.Title != "İş Kanunu" {
		t.Errorf("Expected İş Kanunu, got %s", item.Title)
	}
	if len(item.Sections) == 0 {
		t.Error("Curated entries must have non-empty sections")
	}
}

func TestCatalog_LookupUnknownNumber(t *testing.T) {
	c := NewCatalog()

	if _, ok := c.Lookup("99999"); ok {
		t.Error("Expected no entry for unknown number")
	}
}

func TestCatalog_EntriesWellFormed(t *testing.T) {
	c := NewCatalog()

	for _, number := range c.Numbers() {
		item, _ := c.Lookup(number)

		if item.Number != number {
			t.Errorf("Entry keyed %s carries number %s", number, item.Number)
		}

		articles := 0
		for i, s := range item.Sections {
			if i > 0 && s.Order <= item.Sections[i-1].Order {
				t.Errorf("%s: section order not strictly increasing", number)
			}
			if s.Kind == model.SectionArticle {
				articles++
				if len(s.Paragraphs) == 0 {
					t.Errorf("%s: article %q has no paragraphs", number, s.Title)
				}
			}
		}
		if articles < 3 {
			t.Errorf("%s: curated entry has only %d articles", number, articles)
		}
	}
}

func TestPlaceholder(t *testing.T) {
	item := Placeholder("7777", "Bilinmeyen Kanun", "https://example.gov.tr/7777")

	if item.ID != "live_7777" {
		t.Errorf("Expected synthesized live id, got %s", item.ID)
	}
	if len(item.Sections) == 0 {
		t.Fatal("Placeholder must carry a pointer section")
	}
	if !strings.Contains(item.Sections[0].Paragraphs[0], "https://example.gov.tr/7777") {
		t.Error("Placeholder must point at the original source URL")
	}
}
