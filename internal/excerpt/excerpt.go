// Package excerpt turns stored post HTML into short plain-text
// summaries for list views and feeds.
package excerpt

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

const DefaultLength = 200

// FromHTML strips markup from an HTML fragment and truncates the text
// to at most maxLen runes, cutting on a word boundary with a trailing
// ellipsis. Script and style contents are discarded, not flattened
// into the text.
func FromHTML(html string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultLength
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return truncate(collapseWhitespace(html), maxLen)
	}
	doc.Find("script, style").Remove()

	text := collapseWhitespace(doc.Text())
	return truncate(text, maxLen)
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}

	cut := maxLen
	for cut > 0 && !unicode.IsSpace(runes[cut]) {
		cut--
	}
	if cut == 0 {
		cut = maxLen
	}
	return strings.TrimRight(string(runes[:cut]), " ") + "…"
}
