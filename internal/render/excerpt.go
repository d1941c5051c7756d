package render

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const ellipsis = "…"

// PlainText extracts whitespace-collapsed text from rendered HTML. Content of
// pre, script, style and iframe elements is skipped.
func PlainText(rendered string) string {
	z := html.NewTokenizer(strings.NewReader(rendered))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.StartTagToken:
			if skipped(z) {
				skip++
			}
		case html.EndTagToken:
			if skipped(z) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
				b.WriteByte(' ')
			}
		}
	}
}

func skipped(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	switch atom.Lookup(name) {
	case atom.Pre, atom.Script, atom.Style, atom.Iframe:
		return true
	}
	return false
}

// Truncate shortens text to at most limit runes, cutting on a word boundary
// and appending an ellipsis.
func Truncate(text string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:limit])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:.-") + ellipsis
}
