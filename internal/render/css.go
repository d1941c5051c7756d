package render

import (
	"bytes"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

// HighlightCSS returns the stylesheet for the class-based highlighting output
// of the named chroma style. Unknown names fall back to chroma's default.
func HighlightCSS(style string) ([]byte, error) {
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	var buf bytes.Buffer
	if err := formatter.WriteCSS(&buf, styles.Get(style)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
