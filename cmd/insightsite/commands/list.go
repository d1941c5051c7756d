package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"git.home.luguber.info/inful/insightsite/internal/article"
	"git.home.luguber.info/inful/insightsite/internal/metrics"
	"git.home.luguber.info/inful/insightsite/internal/server/responses"
)

// ListCmd implements the 'list' command.
type ListCmd struct {
	View   string `help:"Listing view (default, career, future)" default:"default"`
	Tag    string `short:"t" help:"Only insights carrying this tag"`
	Format string `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
}

func (l *ListCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.Settings()
	if err != nil {
		return err
	}
	logger := g.logger()
	cat, err := buildCatalog(cfg, logger, metrics.NoopRecorder{})
	if err != nil {
		return err
	}

	view := article.ParseView(l.View)
	docs, err := cat.ListByView(context.Background(), view)
	if err != nil {
		return err
	}
	if l.Tag != "" {
		docs = withTag(docs, l.Tag)
	}

	if l.Format == "json" {
		return writeJSON(g.out(), responses.InsightListResponse{
			View:     string(view),
			Tag:      l.Tag,
			Count:    len(docs),
			Insights: responses.NewInsightSummaries(docs),
		})
	}
	return writeTable(g.out(), docs)
}

func withTag(docs []article.Document, tag string) []article.Document {
	var kept []article.Document
	for _, doc := range docs {
		for _, t := range doc.Tags {
			if article.SameTag(t, tag) {
				kept = append(kept, doc)
				break
			}
		}
	}
	return kept
}

func writeTable(w io.Writer, docs []article.Document) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "DATE\tSLUG\tCATEGORY\tTAGS\tSOURCE")
	for _, doc := range docs {
		date := doc.Date
		if doc.Undated {
			date = "undated"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", date, doc.Slug, doc.Category, strings.Join(doc.Tags, ", "), doc.Source)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d %s\n", len(docs), pluralize(len(docs), "insight"))
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func pluralize(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
