package excerpt

import (
	"strings"
	"testing"
)

func TestFromHTML(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		maxLen   int
		expected string
	}{
		{
			"strips tags",
			"<p>Hello <strong>world</strong></p>",
			200,
			"Hello world",
		},
		{
			"drops script contents",
			"<p>Visible</p><script>var hidden = 1;</script>",
			200,
			"Visible",
		},
		{
			"collapses whitespace",
			"<p>one</p>\n\n<p>two\t three</p>",
			200,
			"one two three",
		},
		{
			"plain text passes through",
			"no markup here",
			200,
			"no markup here",
		},
		{
			"empty input",
			"",
			200,
			"",
		},
	}

	for _, tt := range tests {
		if got := FromHTML(tt.html, tt.maxLen); got != tt.expected {
			t.Errorf("%s: FromHTML = %q, want %q", tt.name, got, tt.expected)
		}
	}
}

func TestFromHTMLTruncates(t *testing.T) {
	html := "<p>" + strings.Repeat("word ", 100) + "</p>"
	got := FromHTML(html, 50)

	if len([]rune(got)) > 51 { // 50 plus the ellipsis
		t.Errorf("excerpt too long: %d runes", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("truncated excerpt should end with ellipsis, got %q", got)
	}
	if strings.HasSuffix(strings.TrimSuffix(got, "…"), "wor") {
		t.Errorf("truncation should cut on a word boundary, got %q", got)
	}
}
