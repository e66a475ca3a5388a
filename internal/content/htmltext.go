package content

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const textBlocks = "p, h1, h2, h3, h4, h5, h6, li, blockquote, pre"

// HTMLToText extracts one line per text block from pasted editor HTML.
// Markup without block elements falls back to the body text.
func HTMLToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	doc.Find("script, style, noscript, iframe, form").Remove()

	var lines []string
	doc.Find(textBlocks).Each(func(_ int, s *goquery.Selection) {
		// Nested blocks are visited on their own.
		if s.Find(textBlocks).Length() > 0 {
			return
		}
		if text := strings.TrimSpace(s.Text()); text != "" {
			lines = append(lines, text)
		}
	})

	if len(lines) == 0 {
		return strings.TrimSpace(doc.Find("body").Text()), nil
	}

	return strings.Join(lines, "\n"), nil
}
