package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"git.home.luguber.info/inful/insightsite/internal/article"
	"git.home.luguber.info/inful/insightsite/internal/foundation/errors"
	"git.home.luguber.info/inful/insightsite/internal/metrics"
	"git.home.luguber.info/inful/insightsite/internal/render"
	"git.home.luguber.info/inful/insightsite/internal/server/responses"
)

// ShowCmd implements the 'show' command.
type ShowCmd struct {
	Slug   string `arg:"" help:"Slug of the insight"`
	HTML   bool   `name:"html" help:"Print the rendered HTML instead of the normalized Markdown"`
	Format string `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
}

func (s *ShowCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.Settings()
	if err != nil {
		return err
	}
	logger := g.logger()
	cat, err := buildCatalog(cfg, logger, metrics.NoopRecorder{})
	if err != nil {
		return err
	}

	ctx := context.Background()
	doc, ok, err := cat.GetBySlug(ctx, s.Slug)
	if err != nil {
		return err
	}
	if !ok {
		return errors.NotFoundError("insight not found").WithContext("slug", s.Slug).Build()
	}

	if s.Format == "text" && !s.HTML {
		return writeDocument(g.out(), doc, doc.Content)
	}

	out, err := newRenderer(cfg, logger, metrics.NoopRecorder{}).Render(ctx, doc.Content)
	if err != nil {
		return err
	}
	if s.Format == "json" {
		return writeJSON(g.out(), responses.InsightDetail{
			InsightSummary: responses.NewInsightSummary(doc),
			Content:        doc.Content,
			HTML:           out.HTML,
			Excerpt:        out.Excerpt,
			ReadingMinutes: out.ReadingMinutes,
			Fingerprint:    article.Fingerprint(doc),
		})
	}
	return writeDocument(g.out(), doc, out.HTML)
}

func writeDocument(w io.Writer, doc article.Document, body string) error {
	p := &printer{w: w}
	p.printf("%s\n", doc.Title)
	p.printf("%s\n", strings.Repeat("=", len([]rune(doc.Title))))
	date := doc.Date
	if doc.Undated {
		date += " (undated)"
	}
	p.printf("Slug:     %s\n", doc.Slug)
	p.printf("Author:   %s\n", doc.Author)
	p.printf("Date:     %s\n", date)
	p.printf("Category: %s\n", doc.Category)
	if len(doc.Tags) > 0 {
		p.printf("Tags:     %s\n", strings.Join(doc.Tags, ", "))
	}
	if cover, ok := render.Cover(doc); ok {
		p.printf("Cover:    %s (%s)\n", cover.URL, cover.Kind)
	}
	p.printf("Source:   %s\n\n", doc.Source)
	p.printf("%s\n", strings.TrimRight(body, "\n"))
	return p.err
}

// printer remembers the first write error so output code stays linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
