package article

import (
	"time"

	"git.home.luguber.info/inful/insightsite/internal/foundation/normalization"
)

// Document is a normalized content record.
type Document struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	PublishedAt time.Time `json:"publishedAt"`
	Undated     bool      `json:"undated"`
	Tags        []string  `json:"tags"`
	Category    string    `json:"category"`
	CoverImage  string    `json:"coverImage,omitempty"`
	CoverVideo  string    `json:"coverVideo,omitempty"`
	Content     string    `json:"content"`
	Source      string    `json:"source"`
}

// Diagnostic records a field that was defaulted or coerced during normalization.
type Diagnostic struct {
	Slug    string `json:"slug"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (d Diagnostic) String() string {
	return d.Slug + ": " + d.Field + ": " + d.Message
}

// Defaults is the default-value table applied for missing fields.
type Defaults struct {
	Title       string
	Author      string
	Description string
	Category    string
}

// View selects an alternate listing of the catalog.
type View string

const (
	ViewDefault View = "default"
	ViewCareer  View = "career"
	ViewFuture  View = "future"
)

var viewNormalizer = normalization.NewNormalizer(map[string]View{
	"default": ViewDefault,
	"all":     ViewDefault,
	"career":  ViewCareer,
	"future":  ViewFuture,
}, ViewDefault)

// ParseView maps a view name onto a View; unknown names yield ViewDefault.
func ParseView(raw string) View {
	return viewNormalizer.Normalize(raw)
}

// Matches reports whether doc belongs to the view.
func (v View) Matches(doc Document) bool {
	switch v {
	case ViewCareer:
		return IsCareer(doc)
	case ViewFuture:
		return IsFutureInsight(doc)
	default:
		return true
	}
}

// StandardDefaults mirrors the configuration defaults for content.defaults.
var StandardDefaults = Defaults{
	Title:       "Untitled",
	Author:      "Editorial Team",
	Description: "No description available.",
	Category:    "Insights",
}
