package livefetch

import (
	"strings"
	"testing"
)

func TestHTMLToLines(t *testing.T) {
	htmlDoc := `<html><head><title>İş Kanunu</title>
<script>var tracking = true;</script>
<style>body { margin: 0; }</style>
</head><body>
<h1>İŞ KANUNU</h1>
<p>MADDE 1 - Bu Kanunun amacı işverenler ile işçilerin çalışma şartlarını düzenlemektir.</p>
<p>MADDE 2 - Bu Kanun, 4 üncü Maddedeki istisnalar dışında kalan bütün işyerlerine uygulanır.</p>
<a href="/MevzuatMetin/1.5.4857.pdf">Kanun metni (PDF)</a>
</body></html>`

	lines := HTMLToLines(htmlDoc)
	if len(lines) == 0 {
		t.Fatal("expected lines")
	}

	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "İŞ KANUNU") {
		t.Error("heading missing from output")
	}
	if !strings.Contains(joined, "MADDE 1 - Bu Kanunun amacı") {
		t.Error("article text missing from output")
	}
	if strings.Contains(joined, "tracking") {
		t.Error("script content leaked into output")
	}
	if strings.Contains(joined, "margin") {
		t.Error("style content leaked into output")
	}
	if strings.Contains(joined, "](") {
		t.Error("markdown link syntax not stripped")
	}
	if !strings.Contains(joined, "Kanun metni (PDF)") {
		t.Error("link text missing from output")
	}
}

func TestHTMLToLinesNoEmptyLines(t *testing.T) {
	lines := HTMLToLines("<p>bir</p>\n\n\n<p>iki</p>")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			t.Errorf("line %d is blank", i)
		}
	}
}

func TestCleanMarkdownLine(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"[Kanun metni](https://example.com/k.pdf)", "Kanun metni"},
		{"## BİRİNCİ BÖLÜM", "BİRİNCİ BÖLÜM"},
		{"**MADDE 1** - Amaç", "MADDE 1 - Amaç"},
		{`1\. Amaç ve kapsam`, "1. Amaç ve kapsam"},
		{"   \t  ", ""},
		{"düz metin", "düz metin"},
	}

	for _, tt := range tests {
		if got := cleanMarkdownLine(tt.in); got != tt.want {
			t.Errorf("cleanMarkdownLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWalkTextSkipsHiddenSubtrees(t *testing.T) {
	text := walkText(`<body><noscript>enable js</noscript><p>görünür metin</p></body>`)
	if strings.Contains(text, "enable js") {
		t.Error("noscript content leaked")
	}
	if !strings.Contains(text, "görünür metin") {
		t.Error("visible text missing")
	}
}
