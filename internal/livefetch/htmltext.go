package livefetch

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"golang.org/x/net/html"
)

var (
	mdLinkRe   = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	mdMarkupRe = regexp.MustCompile("[*_`#>]+")
)

// newMarkdownConverter builds the shared HTML→markdown converter.
func newMarkdownConverter() *converter.Converter {
	return converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
	)
}

// HTMLToLines converts fetched HTML into trimmed text lines ready for the
// structure extractor. Conversion goes through markdown so block structure
// survives, then markdown syntax is stripped; a plain node walker is the
// fallback for HTML the converter chokes on.
func HTMLToLines(htmlContent string) []string {
	conv := newMarkdownConverter()

	md, err := conv.ConvertString(htmlContent)
	if err != nil {
		md = walkText(htmlContent)
	}

	var lines []string
	for _, raw := range strings.Split(md, "\n") {
		line := cleanMarkdownLine(raw)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func cleanMarkdownLine(line string) string {
	line = mdLinkRe.ReplaceAllString(line, "$1")
	line = mdMarkupRe.ReplaceAllString(line, "")
	line = strings.ReplaceAll(line, `\.`, ".")
	line = strings.ReplaceAll(line, `\-`, "-")
	return strings.TrimSpace(line)
}

// walkText extracts visible text per line, skipping script/style subtrees.
func walkText(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return htmlContent
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				buf.WriteString(text)
				buf.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return buf.String()
}
