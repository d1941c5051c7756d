package catalog

import (
	"context"
	"sort"

	"git.home.luguber.info/inful/insightsite/internal/article"
)

// ListAll returns every document of the serving tier, newest first.
func (c *Catalog) ListAll(ctx context.Context) ([]article.Document, error) {
	docs, _, err := c.Resolve(ctx)
	return docs, err
}

// GetBySlug returns the document with the given slug. found is false when no
// document matches.
func (c *Catalog) GetBySlug(ctx context.Context, slug string) (article.Document, bool, error) {
	docs, err := c.ListAll(ctx)
	if err != nil {
		return article.Document{}, false, err
	}
	for _, d := range docs {
		if d.Slug == slug {
			return d, true, nil
		}
	}
	return article.Document{}, false, nil
}

// ListByTag returns documents carrying tag, compared case- and accent-insensitively.
func (c *Catalog) ListByTag(ctx context.Context, tag string) ([]article.Document, error) {
	docs, err := c.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByTag(docs, tag), nil
}

// ListByView returns the documents belonging to view.
func (c *Catalog) ListByView(ctx context.Context, view article.View) ([]article.Document, error) {
	docs, err := c.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByView(docs, view), nil
}

// FilterByTag keeps the documents carrying tag. The input is not modified.
func FilterByTag(docs []article.Document, tag string) []article.Document {
	key := article.Fold(tag)
	return filter(docs, func(d article.Document) bool {
		for _, t := range d.Tags {
			if article.Fold(t) == key {
				return true
			}
		}
		return false
	})
}

// FilterByView keeps the documents belonging to view; the default view keeps all.
func FilterByView(docs []article.Document, view article.View) []article.Document {
	if view == article.ViewDefault {
		return docs
	}
	return filter(docs, view.Matches)
}

// TagCount is one entry of the tag index.
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Tags returns the distinct tags of the serving tier with document counts.
func (c *Catalog) Tags(ctx context.Context) ([]TagCount, error) {
	docs, err := c.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return CountTags(docs), nil
}

// CountTags indexes the tags of docs, most used first. Tags that fold to the
// same key are merged under the first spelling seen.
func CountTags(docs []article.Document) []TagCount {
	index := map[string]int{}
	var tags []TagCount
	for _, d := range docs {
		seen := map[string]bool{}
		for _, t := range d.Tags {
			key := article.Fold(t)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			if i, ok := index[key]; ok {
				tags[i].Count++
				continue
			}
			index[key] = len(tags)
			tags = append(tags, TagCount{Name: t, Count: 1})
		}
	}

	sort.SliceStable(tags, func(i, j int) bool {
		if tags[i].Count != tags[j].Count {
			return tags[i].Count > tags[j].Count
		}
		return article.Fold(tags[i].Name) < article.Fold(tags[j].Name)
	})
	return tags
}

func filter(docs []article.Document, keep func(article.Document) bool) []article.Document {
	out := make([]article.Document, 0, len(docs))
	for _, d := range docs {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}
