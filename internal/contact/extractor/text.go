package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PageText flattens an HTML document into the text the matchers run over.
// Script, style and noscript content is dropped. Anchor hrefs are appended
// so mailto:, tel: and profile links are visible too. Bodies that do not look
// like HTML are returned unchanged.
func PageText(body string) string {
	if !looksLikeHTML(body) {
		return body
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return body
	}

	doc.Find("script, style, noscript, template").Remove()
	doc.Find(blockElements).AfterHtml("\n")

	var b strings.Builder
	doc.Find("body").Each(func(_ int, s *goquery.Selection) {
		b.WriteString(s.Text())
	})
	if b.Len() == 0 {
		b.WriteString(doc.Text())
	}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
			return
		}
		b.WriteByte('\n')
		b.WriteString(unwrapScheme(href))
	})

	return normalizeWhitespace(b.String())
}

// elements whose text must not run into the next element's text
const blockElements = "address, article, aside, br, dd, div, dt, footer, h1, h2, h3, h4, h5, h6, header, li, nav, p, section, td, th, tr"

// unwrapScheme strips mailto: and tel: so the link reads like page text.
func unwrapScheme(href string) string {
	lower := strings.ToLower(href)
	switch {
	case strings.HasPrefix(lower, "mailto:"):
		addr := href[len("mailto:"):]
		if i := strings.IndexByte(addr, '?'); i >= 0 {
			addr = addr[:i]
		}
		return addr
	case strings.HasPrefix(lower, "tel:"):
		return href[len("tel:"):]
	default:
		return href
	}
}

func looksLikeHTML(body string) bool {
	head := body
	if len(head) > 1024 {
		head = head[:1024]
	}
	head = strings.ToLower(head)
	return strings.Contains(head, "<html") ||
		strings.Contains(head, "<!doctype html") ||
		strings.Contains(head, "<body") ||
		strings.Contains(head, "<div") ||
		strings.Contains(head, "<p")
}

// normalizeWhitespace collapses runs of spaces and tabs but keeps line
// breaks, which the address patterns use as a boundary.
func normalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
