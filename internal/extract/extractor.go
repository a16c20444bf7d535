// Package extract turns raw long-form legal text into an ordered tree of
// parts, chapters and articles, and gates the result behind a completeness
// classifier. Both transforms are pure: no I/O, deterministic output.
package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kodhane/mevra/internal/model"
)

var (
	// Turkish ordinal words as they appear in statute part/chapter markers.
	ordinalWords = map[string]bool{
		"BİRİNCİ": true, "İKİNCİ": true, "ÜÇÜNCÜ": true, "DÖRDÜNCÜ": true,
		"BEŞİNCİ": true, "ALTINCI": true, "YEDİNCİ": true, "SEKİZİNCİ": true,
		"DOKUZUNCU": true, "ONUNCU": true, "ONBİRİNCİ": true, "ONİKİNCİ": true,
		"ONÜÇÜNCÜ": true, "ONDÖRDÜNCÜ": true, "ONBEŞİNCİ": true,
		"YİRMİNCİ": true, "OTUZUNCU": true,
	}

	articleRe    = regexp.MustCompile(`^(GEÇİCİ MADDE|EK MADDE|MADDE|Geçici Madde|Ek Madde|Madde)\s+(\d+)`)
	subHeadingRe = regexp.MustCompile(`^(\d+)[\.\)]\s+\D`)
	parenParaRe  = regexp.MustCompile(`^\(\d+\)`)
	letterItemRe = regexp.MustCompile(`^[a-zçğıöşü]\)\s`)
	numListRe    = regexp.MustCompile(`^\d+[\.\)]\s`)
	bareNumberRe = regexp.MustCompile(`^\d+$`)
)

// boilerplatePhrases is the stoplist of site-chrome text that must never be
// mistaken for document content. Shared with the classifier, which uses the
// same list to measure navigational density.
var boilerplatePhrases = []string{
	"ana sayfa",
	"mevzuat bilgi sistemi",
	"gelişmiş arama",
	"arama sonuçları",
	"giriş yap",
	"yazdır",
	"pdf indir",
	"sayfayı paylaş",
	"çerez politikası",
	"tüm hakları saklıdır",
	"kullanım koşulları",
}

const (
	minParagraphLen = 10
	maxParagraphLen = 4000
	maxHeadingLen   = 80
)

// Extractor scans raw text lines and builds the section tree. Classification
// rules form an ordered table so each rule is independently testable and the
// order is explicit.
type Extractor struct {
	rules []rule
}

// rule pairs a line predicate with the action applied on match. Rules are
// checked in table order; the first match wins.
type rule struct {
	name   string
	match  func(line string) bool
	action func(st *scanState, line string)
}

// scanState carries the extractor's working state across lines: the ordered
// output, the currently open section and the pending sub-heading slot.
type scanState struct {
	sections []model.Section
	pending  string // sub-heading waiting for its article marker on the next line
	order    int
}

func (st *scanState) open(kind model.SectionKind, title string) {
	st.order++
	st.sections = append(st.sections, model.Section{
		Kind:  kind,
		Title: title,
		Order: st.order,
	})
}

func (st *scanState) current() *model.Section {
	if len(st.sections) == 0 {
		return nil
	}
	return &st.sections[len(st.sections)-1]
}

func (st *scanState) appendParagraph(text string) {
	if cur := st.current(); cur != nil {
		cur.Paragraphs = append(cur.Paragraphs, text)
	}
}

// NewExtractor creates an extractor with the built-in rule table.
func NewExtractor() *Extractor {
	e := &Extractor{}
	e.rules = []rule{
		{
			name:   "boilerplate",
			match:  isBoilerplate,
			action: func(st *scanState, line string) {}, // discard
		},
		{
			name:  "chapter_part",
			match: func(line string) bool { return chapterPartKind(line) != "" },
			action: func(st *scanState, line string) {
				st.pending = ""
				st.open(chapterPartKind(line), line)
			},
		},
		{
			name: "sub_heading",
			match: func(line string) bool {
				return len(line) <= maxHeadingLen && subHeadingRe.MatchString(line) &&
					!articleRe.MatchString(line)
			},
			action: func(st *scanState, line string) {
				st.open(model.SectionHeading, line)
				st.pending = stripHeadingMarker(line)
			},
		},
		{
			name:  "article",
			match: articleRe.MatchString,
			action: func(st *scanState, line string) {
				title, trailing := splitArticleLine(line)
				if st.pending != "" {
					// The sub-heading on the previous line names this article;
					// merge it and drop the placeholder heading section. The
					// marker line carrying body text still takes the heading as
					// its caption; only a caption of its own wins over it.
					if cur := st.current(); cur != nil && cur.Kind == model.SectionHeading && len(cur.Paragraphs) == 0 {
						st.sections = st.sections[:len(st.sections)-1]
						st.order--
					}
					if !strings.ContainsAny(title, "–-") {
						title = title + " - " + st.pending
					}
					st.pending = ""
				}
				st.open(model.SectionArticle, title)
				if trailing != "" {
					st.appendParagraph(trailing)
				}
			},
		},
		{
			name: "marked_paragraph",
			match: func(line string) bool {
				return parenParaRe.MatchString(line) ||
					letterItemRe.MatchString(line) ||
					numListRe.MatchString(line)
			},
			action: func(st *scanState, line string) {
				// Structural prefix ("(1)", "a)", "1.") is preserved.
				st.appendParagraph(line)
			},
		},
		{
			name: "plain_paragraph",
			match: func(line string) bool {
				n := utf8.RuneCountInString(line)
				return n >= minParagraphLen && n <= maxParagraphLen && !bareNumberRe.MatchString(line)
			},
			action: func(st *scanState, line string) {
				if st.current() != nil {
					st.appendParagraph(line)
				}
			},
		},
	}
	return e
}

// Extract scans lines sequentially and returns the section tree plus the
// counters the completeness classifier needs. Accepted is left false; gating
// is the classifier's concern, not the extractor's.
func (e *Extractor) Extract(rawLines []string) model.ExtractionResult {
	st := &scanState{}
	totalChars := 0

	for _, raw := range rawLines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		totalChars += utf8.RuneCountInString(line) + 1

		for _, r := range e.rules {
			if r.match(line) {
				r.action(st, line)
				break
			}
		}
	}

	result := model.ExtractionResult{
		Sections:   st.sections,
		TotalChars: totalChars,
	}
	for _, s := range st.sections {
		switch s.Kind {
		case model.SectionArticle:
			result.ArticleCount++
		case model.SectionChapter, model.SectionPart:
			result.ChapterCount++
		}
	}
	return result
}

// chapterPartKind reports whether the line is an "ordinal-word + KISIM/BÖLÜM"
// marker and which section kind it opens. Returns "" for non-markers.
func chapterPartKind(line string) model.SectionKind {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return ""
	}
	if !ordinalWords[fields[0]] {
		return ""
	}
	switch fields[1] {
	case "KISIM":
		return model.SectionPart
	case "BÖLÜM":
		return model.SectionChapter
	}
	return ""
}

func isBoilerplate(line string) bool {
	lower := toLowerTurkish(line)
	for _, phrase := range boilerplatePhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// splitArticleLine separates an article marker line into its title and any
// trailing body text after the dash ("MADDE 1 – Bu Kanunun amacı..." carries
// the first paragraph on the marker line in most renderings).
func splitArticleLine(line string) (title, trailing string) {
	loc := articleRe.FindStringIndex(line)
	rest := strings.TrimSpace(line[loc[1]:])
	marker := line[:loc[1]]

	rest = strings.TrimLeft(rest, "-–— ")
	if rest == "" {
		return marker, ""
	}

	// Short remainders are the article's own caption; long ones are body text.
	if utf8.RuneCountInString(rest) <= maxHeadingLen {
		return marker + " - " + rest, ""
	}
	return marker, rest
}

func stripHeadingMarker(line string) string {
	if m := subHeadingRe.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(strings.TrimPrefix(line, m[1])[1:])
	}
	return line
}
