// Package render compiles normalized article bodies into styled HTML.
package render

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"strings"
	"time"
	"unicode"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"git.home.luguber.info/inful/insightsite/internal/foundation/errors"
	"git.home.luguber.info/inful/insightsite/internal/logfields"
	"git.home.luguber.info/inful/insightsite/internal/metrics"
)

const (
	DefaultHighlightStyle = "github"
	DefaultExcerptRunes   = 200
	DefaultWordsPerMinute = 220
)

// Options configures a Renderer.
type Options struct {
	HighlightStyle string
	ExcerptRunes   int
	WordsPerMinute int
	Recorder       metrics.Recorder
	Logger         *slog.Logger
}

// Output is the result of rendering one article body.
type Output struct {
	HTML           string `json:"html"`
	Excerpt        string `json:"excerpt"`
	ReadingMinutes int    `json:"readingMinutes"`
}

// Renderer wraps a configured goldmark instance. It is safe for concurrent use.
type Renderer struct {
	md       goldmark.Markdown
	opts     Options
	recorder metrics.Recorder
	logger   *slog.Logger
}

// New builds a Renderer.
func New(opts Options) *Renderer {
	if opts.HighlightStyle == "" {
		opts.HighlightStyle = DefaultHighlightStyle
	}
	if opts.ExcerptRunes <= 0 {
		opts.ExcerptRunes = DefaultExcerptRunes
	}
	if opts.WordsPerMinute <= 0 {
		opts.WordsPerMinute = DefaultWordsPerMinute
	}
	rec := opts.Recorder
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(opts.HighlightStyle),
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
				highlighting.WithWrapperRenderer(codeBlockWrapper),
			),
			videoEmbed{},
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(util.Prioritized(&classTransformer{}, 100)),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
			gmhtml.WithUnsafe(),
		),
	)

	return &Renderer{md: md, opts: opts, recorder: rec, logger: logger}
}

// Render converts a normalized body to HTML and derives its excerpt and
// reading time.
func (r *Renderer) Render(ctx context.Context, body string) (Output, error) {
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}
	start := time.Now()
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(body), &buf); err != nil {
		return Output{}, errors.RenderError("markdown conversion failed").WithCause(err).Build()
	}
	d := time.Since(start)
	r.recorder.ObserveRenderDuration(d)
	r.logger.Debug("Rendered article body", logfields.DurationMS(float64(d.Microseconds())/1000))

	html := buf.String()
	text := PlainText(html)
	return Output{
		HTML:           html,
		Excerpt:        Truncate(text, r.opts.ExcerptRunes),
		ReadingMinutes: ReadingMinutes(text, r.opts.WordsPerMinute),
	}, nil
}

// HighlightStyle returns the chroma style used for code blocks.
func (r *Renderer) HighlightStyle() string { return r.opts.HighlightStyle }

func codeBlockWrapper(w util.BufWriter, c highlighting.CodeBlockContext, entering bool) {
	if entering {
		_, _ = w.WriteString(`<div class="` + ClassCodeBlock + `"`)
		if lang, ok := c.Language(); ok && len(lang) > 0 {
			_, _ = w.WriteString(` data-lang="`)
			_, _ = w.Write(util.EscapeHTML(lang))
			_ = w.WriteByte('"')
		}
		_ = w.WriteByte('>')
		if !c.Highlighted() {
			_, _ = w.WriteString("<pre><code>")
		}
		return
	}
	if !c.Highlighted() {
		_, _ = w.WriteString("</code></pre>")
	}
	_, _ = w.WriteString("</div>\n")
}

// ReadingMinutes estimates reading time, never less than one minute.
func ReadingMinutes(text string, wpm int) int {
	if wpm <= 0 {
		wpm = DefaultWordsPerMinute
	}
	words := len(strings.FieldsFunc(text, unicode.IsSpace))
	minutes := int(math.Ceil(float64(words) / float64(wpm)))
	if minutes < 1 {
		return 1
	}
	return minutes
}
