package catalog

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/insightsite/internal/article"
	"git.home.luguber.info/inful/insightsite/internal/foundation/errors"
)

func fallbackDoc(slug, title, date, description, category string, tags []string, body string) article.Document {
	published, _ := time.Parse("2006-01-02", date)
	return article.Document{
		Slug:        slug,
		Title:       title,
		Author:      article.StandardDefaults.Author,
		Description: description,
		Date:        date,
		PublishedAt: published,
		Tags:        tags,
		Category:    category,
		Content:     body,
		Source:      TierFallback,
	}
}

// DefaultFallback returns the built-in list served when no resolver yields content.
func DefaultFallback() []article.Document {
	return []article.Document{
		fallbackDoc("welcome", "Welcome to Our Insights", "2024-01-15",
			"Perspectives on legal careers, craft and the future of the profession.",
			"Insights", []string{"Insights"},
			"Our articles are temporarily unavailable. Please check back shortly.\n\nIn the meantime, explore the rest of the site or get in touch through the collaborate page."),
		fallbackDoc("career-foundations", "Career Foundations for New Lawyers", "2023-11-02",
			"The habits that compound over a legal career.",
			"career", []string{"Career Growth"},
			"## Start with the basics\n\nReliability, clear writing and curiosity matter more than any single credential."),
		fallbackDoc("future-of-legal-work", "The Future of Legal Work", "2023-09-20",
			"How technology is reshaping the way legal services are delivered.",
			"future", []string{"Legal Tech"},
			"Automation changes which tasks lawyers do, not whether clients need judgment."),
	}
}

// fallbackEntry is one document in a fallback file: front matter fields plus
// slug and content.
type fallbackEntry map[string]any

// LoadFallbackFile reads a YAML list of documents and normalizes each entry.
// Entries without a slug are rejected.
func LoadFallbackFile(path string, normalizer *article.Normalizer) ([]article.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.FileSystemError("failed to read fallback file").
			WithCause(err).
			WithContext("path", path).
			Build()
	}

	var entries []fallbackEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, errors.ConfigError("failed to parse fallback file").
			WithCause(err).
			WithContext("path", path).
			Build()
	}

	if normalizer == nil {
		normalizer = article.NewNormalizer(article.StandardDefaults)
	}

	docs := make([]article.Document, 0, len(entries))
	for i, entry := range entries {
		slug, _ := entry["slug"].(string)
		if slug == "" {
			return nil, errors.ValidationError(fmt.Sprintf("fallback entry %d has no slug", i)).
				WithContext("path", path).
				Build()
		}
		body, _ := entry["content"].(string)
		fields := make(map[string]any, len(entry))
		for k, v := range entry {
			if k != "slug" && k != "content" {
				fields[k] = v
			}
		}
		doc, _ := normalizer.Normalize(slug, fields, body)
		doc.Source = TierFallback
		docs = append(docs, doc)
	}
	return docs, nil
}
