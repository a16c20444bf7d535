package extract

import (
	"reflect"
	"strings"
	"testing"

	"github.com/kodhane/mevra/internal/model"
)

func TestExtract_SingleArticle(t *testing.T) {
	e := NewExtractor()

	result := e.Extract([]string{"MADDE 1 - Amaç", "Bu Kanunun amacı işverenler ile işçilerin çalışma şartlarını düzenlemektir."})

	if len(result.Sections) != 1 {
		t.Fatalf("Expected 1 section, got %d", len(result.Sections))
	}

	section := result.Sections[0]
	if section.Kind != model.SectionArticle {
		t.Errorf("Expected article section, got %s", section.Kind)
	}
	if section.Title != "MADDE 1 - Amaç" {
		t.Errorf("Expected title 'MADDE 1 - Amaç', got %q", section.Title)
	}
	if len(section.Paragraphs) != 1 {
		t.Errorf("Expected 1 paragraph, got %d", len(section.Paragraphs))
	}
	if result.ArticleCount != 1 {
		t.Errorf("Expected articleCount 1, got %d", result.ArticleCount)
	}
}

func TestExtract_ChapterAndPartMarkers(t *testing.T) {
	e := NewExtractor()

	result := e.Extract([]string{
		"BİRİNCİ KISIM",
		"Genel Hükümler hakkında açıklamalar burada yer alır.",
		"BİRİNCİ BÖLÜM",
		"MADDE 1 - Amaç",
		"Bu Kanunun amacı çalışma hayatını düzenlemektir.",
	})

	if len(result.Sections) != 3 {
		t.Fatalf("Expected 3 sections, got %d", len(result.Sections))
	}
	if result.Sections[0].Kind != model.SectionPart {
		t.Errorf("Expected part, got %s", result.Sections[0].Kind)
	}
	if result.Sections[1].Kind != model.SectionChapter {
		t.Errorf("Expected chapter, got %s", result.Sections[1].Kind)
	}
	if result.ChapterCount != 2 {
		t.Errorf("Expected chapterCount 2 (part+chapter), got %d", result.ChapterCount)
	}
}

func TestExtract_PendingHeadingMergesIntoArticle(t *testing.T) {
	e := NewExtractor()

	result := e.Extract([]string{
		"1. Amaç ve kapsam",
		"MADDE 1",
		"Bu Kanunun amacı iş sözleşmesine dayanarak çalışan işçilerin haklarını korumaktır.",
	})

	if len(result.Sections) != 1 {
		t.Fatalf("Expected heading merged into 1 article section, got %d sections", len(result.Sections))
	}

	section := result.Sections[0]
	if section.Kind != model.SectionArticle {
		t.Fatalf("Expected article, got %s", section.Kind)
	}
	if !strings.Contains(section.Title, "Amaç ve kapsam") {
		t.Errorf("Expected pending heading merged into title, got %q", section.Title)
	}
	if !strings.Contains(section.Title, "MADDE 1") {
		t.Errorf("Expected article marker kept in title, got %q", section.Title)
	}
}

func TestExtract_PendingHeadingMergesWhenArticleCarriesBody(t *testing.T) {
	e := NewExtractor()

	body := "Bu Kanunun uygulanmasında işveren, işçi çalıştıran gerçek veya tüzel kişiyi " +
		"yahut tüzel kişiliği olmayan kurum ve kuruluşları ifade eder ve bu tanım Kanunun tamamında geçerlidir."
	result := e.Extract([]string{
		"2. Tanımlar",
		"MADDE 2 – " + body,
	})

	if len(result.Sections) != 1 {
		t.Fatalf("Expected heading merged into 1 article section, got %d sections", len(result.Sections))
	}

	section := result.Sections[0]
	if section.Title != "MADDE 2 - Tanımlar" {
		t.Errorf("Expected heading merged into title, got %q", section.Title)
	}
	if len(section.Paragraphs) != 1 || section.Paragraphs[0] != body {
		t.Errorf("Expected marker-line body kept as first paragraph, got %+v", section.Paragraphs)
	}
}

func TestExtract_PendingHeadingNotDuplicatedOverCaption(t *testing.T) {
	e := NewExtractor()

	result := e.Extract([]string{
		"3. İşyerini bildirme",
		"MADDE 3 - İşyerini bildirme",
		"İşyerini kuran işveren bir ay içinde bölge müdürlüğüne bildirmek zorundadır.",
	})

	if len(result.Sections) != 1 {
		t.Fatalf("Expected 1 article section, got %d sections", len(result.Sections))
	}
	if result.Sections[0].Title != "MADDE 3 - İşyerini bildirme" {
		t.Errorf("Expected the article's own caption kept, got %q", result.Sections[0].Title)
	}
}

func TestExtract_BoilerplateDiscarded(t *testing.T) {
	e := NewExtractor()

	result := e.Extract([]string{
		"Ana Sayfa",
		"Gelişmiş Arama",
		"MADDE 1 - Tanımlar",
		"Bu Kanunda geçen deyimlerin anlamları aşağıda gösterilmiştir.",
	})

	if len(result.Sections) != 1 {
		t.Fatalf("Expected boilerplate discarded, got %d sections", len(result.Sections))
	}
	for _, p := range result.Sections[0].Paragraphs {
		if strings.Contains(p, "Ana Sayfa") {
			t.Errorf("Boilerplate leaked into paragraphs: %q", p)
		}
	}
}

func TestExtract_MarkedParagraphsKeepPrefix(t *testing.T) {
	e := NewExtractor()

	result := e.Extract([]string{
		"MADDE 2 - Tanımlar",
		"(1) Bu Kanunun uygulanmasında işçi deyimi esas alınır.",
		"a) işveren vekili sayılan kişiler de bu kapsamdadır.",
	})

	paragraphs := result.Sections[0].Paragraphs
	if len(paragraphs) != 2 {
		t.Fatalf("Expected 2 paragraphs, got %d", len(paragraphs))
	}
	if !strings.HasPrefix(paragraphs[0], "(1)") {
		t.Errorf("Expected structural prefix preserved, got %q", paragraphs[0])
	}
	if !strings.HasPrefix(paragraphs[1], "a)") {
		t.Errorf("Expected letter prefix preserved, got %q", paragraphs[1])
	}
}

func TestExtract_StrayNumbersAndLongLinesDropped(t *testing.T) {
	e := NewExtractor()

	result := e.Extract([]string{
		"MADDE 3 - Bildirim",
		"42",
		strings.Repeat("ç", 5000),
		"İşveren bu maddedeki yükümlülüklerini bir ay içinde yerine getirmek zorundadır.",
	})

	paragraphs := result.Sections[0].Paragraphs
	if len(paragraphs) != 1 {
		t.Fatalf("Expected stray number and oversized line dropped, got %d paragraphs", len(paragraphs))
	}
}

func TestExtract_OrderStrictlyIncreases(t *testing.T) {
	e := NewExtractor()

	result := e.Extract([]string{
		"BİRİNCİ BÖLÜM",
		"MADDE 1 - Amaç",
		"Bu Kanunun amacı çalışma şartlarını düzenlemektir.",
		"MADDE 2 - Kapsam",
		"Bu Kanun bütün işyerlerine uygulanır hükmü burada açıklanır.",
		"İKİNCİ BÖLÜM",
		"MADDE 3 - Tanımlar",
		"Bu Kanunda geçen deyimler aşağıda açıklanmıştır.",
	})

	for i := 1; i < len(result.Sections); i++ {
		if result.Sections[i].Order <= result.Sections[i-1].Order {
			t.Errorf("Section order not strictly increasing at index %d: %d then %d",
				i, result.Sections[i-1].Order, result.Sections[i].Order)
		}
	}
}

func TestExtract_Deterministic(t *testing.T) {
	e := NewExtractor()

	lines := []string{
		"BİRİNCİ KISIM",
		"MADDE 1 - Amaç",
		"Bu Kanunun amacı işçi ve işveren ilişkilerini düzenlemektir.",
		"(1) Birinci fıkra hükümleri saklıdır.",
		"GEÇİCİ MADDE 1",
		"Bu Kanunun yürürlüğünden önce yapılan sözleşmeler geçerliliğini korur.",
	}

	first := e.Extract(lines)
	second := e.Extract(lines)

	if !reflect.DeepEqual(first, second) {
		t.Error("Expected identical results for identical input")
	}
}

func TestExtract_GecuiciAndEkMadde(t *testing.T) {
	e := NewExtractor()

	result := e.Extract([]string{
		"GEÇİCİ MADDE 1",
		"Mevcut sözleşmeler bu Kanuna uyarlanıncaya kadar geçerlidir.",
		"EK MADDE 2",
		"Bu madde kapsamındaki ödemeler ayrıca düzenlenir hükmü geçerlidir.",
	})

	if result.ArticleCount != 2 {
		t.Fatalf("Expected 2 articles, got %d", result.ArticleCount)
	}
}

func TestExtract_EmptyInput(t *testing.T) {
	e := NewExtractor()

	result := e.Extract(nil)

	if len(result.Sections) != 0 || result.TotalChars != 0 {
		t.Errorf("Expected empty result, got %+v", result)
	}
}

func TestChapterPartKind(t *testing.T) {
	tests := []struct {
		line string
		want model.SectionKind
	}{
		{"BİRİNCİ KISIM", model.SectionPart},
		{"İKİNCİ BÖLÜM", model.SectionChapter},
		{"ONUNCU BÖLÜM", model.SectionChapter},
		{"BİRİNCİ MADDE", ""},
		{"KISIM", ""},
		{"Genel Hükümler", ""},
		{"BİRİNCİ KISIM Genel Hükümler", ""},
	}

	for _, tt := range tests {
		if got := chapterPartKind(tt.line); got != tt.want {
			t.Errorf("chapterPartKind(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}
