// Package responses defines API response types used by the site's HTTP handlers.
package responses

import (
	"time"

	"git.home.luguber.info/inful/insightsite/internal/article"
	"git.home.luguber.info/inful/insightsite/internal/catalog"
	"git.home.luguber.info/inful/insightsite/internal/probe"
	"git.home.luguber.info/inful/insightsite/internal/render"
)

// HealthResponse represents the health check API response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    float64   `json:"uptime"`
}

// CoverResponse is the preview media of an insight.
type CoverResponse struct {
	Kind string `json:"kind"`
	URL  string `json:"url"`
}

// InsightSummary is an insight without its body.
type InsightSummary struct {
	Slug        string         `json:"slug"`
	Title       string         `json:"title"`
	Author      string         `json:"author"`
	Description string         `json:"description"`
	Date        string         `json:"date"`
	Undated     bool           `json:"undated,omitempty"`
	Tags        []string       `json:"tags"`
	Category    string         `json:"category"`
	Cover       *CoverResponse `json:"cover,omitempty"`
	Source      string         `json:"source"`
}

// InsightDetail is an insight with its normalized and rendered body.
type InsightDetail struct {
	InsightSummary
	Content        string `json:"content"`
	HTML           string `json:"html"`
	Excerpt        string `json:"excerpt"`
	ReadingMinutes int    `json:"readingMinutes"`
	Fingerprint    string `json:"fingerprint"`
}

// InsightListResponse is a filtered listing.
type InsightListResponse struct {
	View     string           `json:"view,omitempty"`
	Tag      string           `json:"tag,omitempty"`
	Count    int              `json:"count"`
	Insights []InsightSummary `json:"insights"`
}

// TagsResponse lists tags with their document counts.
type TagsResponse struct {
	Count int                `json:"count"`
	Tags  []catalog.TagCount `json:"tags"`
}

// StatusResponse reports the content probe.
type StatusResponse struct {
	Status    string        `json:"status"`
	Resolvers []string      `json:"resolvers"`
	Probe     *probe.Status `json:"probe,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// SubmissionResponse acknowledges a form submission.
type SubmissionResponse struct {
	Status string `json:"status"`
}

// NewInsightSummary projects a document onto its summary.
func NewInsightSummary(doc article.Document) InsightSummary {
	s := InsightSummary{
		Slug:        doc.Slug,
		Title:       doc.Title,
		Author:      doc.Author,
		Description: doc.Description,
		Date:        doc.Date,
		Undated:     doc.Undated,
		Tags:        doc.Tags,
		Category:    doc.Category,
		Source:      doc.Source,
	}
	if s.Tags == nil {
		s.Tags = []string{}
	}
	if cover, ok := render.Cover(doc); ok {
		s.Cover = &CoverResponse{Kind: cover.Kind.String(), URL: cover.URL}
	}
	return s
}

// NewInsightSummaries projects a list of documents.
func NewInsightSummaries(docs []article.Document) []InsightSummary {
	out := make([]InsightSummary, 0, len(docs))
	for _, d := range docs {
		out = append(out, NewInsightSummary(d))
	}
	return out
}
