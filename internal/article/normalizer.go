package article

import (
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"git.home.luguber.info/inful/insightsite/internal/foundation/errors"
	"git.home.luguber.info/inful/insightsite/internal/frontmatter"
	"git.home.luguber.info/inful/insightsite/internal/logfields"
)

// Front matter keys recognized by the normalizer.
const (
	KeyTitle       = "title"
	KeyDate        = "date"
	KeyAuthor      = "author"
	KeyDescription = "description"
	KeyCategory    = "category"
	KeyTags        = "tags"
	KeyCoverImage  = "coverImage"
	KeyCoverVideo  = "coverVideo"
	KeyImageURL    = "imageUrl"
	KeyVideoURL    = "videoUrl"
)

// Normalizer maps parsed front matter onto Document. It never fails.
type Normalizer struct {
	defaults Defaults
	now      func() time.Time
	logger   *slog.Logger
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer)

// WithClock overrides the clock used for missing dates.
func WithClock(now func() time.Time) NormalizerOption {
	return func(n *Normalizer) { n.now = now }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) NormalizerOption {
	return func(n *Normalizer) { n.logger = logger }
}

// NewNormalizer creates a normalizer with the given default-value table.
func NewNormalizer(defaults Defaults, opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{
		defaults: defaults,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Parse splits text into front matter and body and normalizes it.
// The only error is a front matter block without a closing delimiter.
func (n *Normalizer) Parse(slug string, text []byte) (Document, []Diagnostic, error) {
	fm, body, had, err := frontmatter.Split(text)
	if err != nil {
		return Document{}, nil, errors.ContentError("failed to split front matter").
			WithCause(err).
			WithContext("slug", slug).
			Build()
	}

	fields := map[string]any{}
	var diags []Diagnostic
	if had {
		var lenient bool
		fields, lenient = frontmatter.Parse(fm)
		if lenient {
			diags = append(diags, n.diagnose(slug, "frontmatter", "invalid YAML, parsed line by line"))
		}
	}

	doc, more := n.Normalize(slug, fields, string(body))
	return doc, append(diags, more...), nil
}

// Normalize produces a Document with every field populated. Fields that are
// absent, null or blank (including an empty tag list) take their default and
// yield a Diagnostic.
func (n *Normalizer) Normalize(slug string, fields map[string]any, body string) (Document, []Diagnostic) {
	var diags []Diagnostic
	str := func(key, def string) string {
		if v, ok := stringField(fields, key); ok {
			return v
		}
		diags = append(diags, n.diagnose(slug, key, fmt.Sprintf("missing, defaulted to %q", def)))
		return def
	}

	doc := Document{
		Slug:        slug,
		Title:       str(KeyTitle, n.defaults.Title),
		Author:      str(KeyAuthor, n.defaults.Author),
		Description: str(KeyDescription, n.defaults.Description),
		Content:     PreprocessBody(body),
	}

	rawCategory, hasCategory := stringField(fields, KeyCategory)
	doc.Category = str(KeyCategory, n.defaults.Category)

	tagValue := blankToNil(fields[KeyTags])
	if !hasCategory {
		rawCategory = ""
	}
	doc.Tags = CoerceTags(tagValue, rawCategory)
	if tagValue == nil {
		diags = append(diags, n.diagnose(slug, KeyTags, fmt.Sprintf("missing, defaulted to %v", doc.Tags)))
	}

	dateValue := blankToNil(fields[KeyDate])
	doc.Date, doc.PublishedAt, doc.Undated = n.date(dateValue)
	switch {
	case dateValue == nil:
		diags = append(diags, n.diagnose(slug, KeyDate, "missing, defaulted to current time"))
	case doc.Undated:
		diags = append(diags, n.diagnose(slug, KeyDate, fmt.Sprintf("unparseable date %q", doc.Date)))
	}

	doc.CoverImage, _ = firstStringField(fields, KeyCoverImage, KeyImageURL)
	doc.CoverVideo, _ = firstStringField(fields, KeyCoverVideo, KeyVideoURL)

	return doc, diags
}

func (n *Normalizer) date(value any) (string, time.Time, bool) {
	if value == nil {
		return n.now().UTC().Format(time.RFC3339), time.Time{}, true
	}
	t, ok := ParseDate(value)
	if !ok {
		return strings.TrimSpace(fmt.Sprint(value)), time.Time{}, true
	}
	if s, isString := value.(string); isString {
		return strings.TrimSpace(s), t, false
	}
	return formatDate(t), t, false
}

func (n *Normalizer) diagnose(slug, field, msg string) Diagnostic {
	n.logger.Debug("Front matter normalized", logfields.Slug(slug), logfields.Field(field), slog.String("detail", msg))
	return Diagnostic{Slug: slug, Field: field, Message: msg}
}

// blankToNil maps blank strings and empty lists to nil.
func blankToNil(v any) any {
	switch tv := v.(type) {
	case string:
		if strings.TrimSpace(tv) == "" {
			return nil
		}
	case []any:
		if len(tv) == 0 {
			return nil
		}
	case []string:
		if len(tv) == 0 {
			return nil
		}
	}
	return v
}

// stringField returns the trimmed string form of a present, non-null, non-empty field.
func stringField(fields map[string]any, key string) (string, bool) {
	v, ok := fields[key]
	if !ok || v == nil {
		return "", false
	}
	var s string
	switch tv := v.(type) {
	case string:
		s = tv
	case time.Time:
		s = formatDate(tv)
	default:
		s = fmt.Sprint(tv)
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

func firstStringField(fields map[string]any, keys ...string) (string, bool) {
	for _, key := range keys {
		if s, ok := stringField(fields, key); ok {
			return s, true
		}
	}
	return "", false
}

// SlugFromPath derives a slug from a file name or repository path: the base
// name without its extension.
func SlugFromPath(p string) string {
	base := path.Base(strings.ReplaceAll(p, "\\", "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}
