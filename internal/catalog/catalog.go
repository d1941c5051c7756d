// Package catalog resolves documents through an ordered waterfall of content
// resolvers and answers the site's queries over the result.
package catalog

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"git.home.luguber.info/inful/insightsite/internal/article"
	"git.home.luguber.info/inful/insightsite/internal/logfields"
	"git.home.luguber.info/inful/insightsite/internal/metrics"
	"git.home.luguber.info/inful/insightsite/internal/source"
)

// TierFallback names the static fallback list in resolution reports.
const TierFallback = "fallback"

// Options carries the catalog's collaborators.
type Options struct {
	// Fallback is served when every resolver is exhausted.
	Fallback   []article.Document
	Normalizer *article.Normalizer
	Recorder   metrics.Recorder
	Logger     *slog.Logger
}

// Catalog is safe for concurrent use; every query resolves from scratch.
type Catalog struct {
	resolvers  []source.Resolver
	fallback   []article.Document
	normalizer *article.Normalizer
	recorder   metrics.Recorder
	logger     *slog.Logger
}

// New creates a catalog over resolvers, evaluated in the given order.
func New(resolvers []source.Resolver, opts Options) *Catalog {
	c := &Catalog{
		resolvers:  append([]source.Resolver(nil), resolvers...),
		fallback:   append([]article.Document(nil), opts.Fallback...),
		normalizer: opts.Normalizer,
		recorder:   opts.Recorder,
		logger:     opts.Logger,
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.normalizer == nil {
		c.normalizer = article.NewNormalizer(article.StandardDefaults, article.WithLogger(c.logger))
	}
	if c.recorder == nil {
		c.recorder = metrics.NoopRecorder{}
	}
	return c
}

// Resolvers returns the names of the configured tiers in order.
func (c *Catalog) Resolvers() []string {
	names := make([]string, 0, len(c.resolvers))
	for _, r := range c.resolvers {
		names = append(names, r.Name())
	}
	return names
}

// TierOutcome reports how one resolver fared during a resolution.
type TierOutcome struct {
	Name      string        `json:"name"`
	Documents int           `json:"documents"`
	Dropped   int           `json:"dropped"`
	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`
}

// DroppedDocument is a raw document that could not be parsed.
type DroppedDocument struct {
	Tier  string `json:"tier"`
	Slug  string `json:"slug"`
	Path  string `json:"path"`
	Error string `json:"error"`
}

// Resolution describes one pass through the waterfall.
type Resolution struct {
	Tier        string               `json:"tier"`
	Outcomes    []TierOutcome        `json:"outcomes"`
	Dropped     []DroppedDocument    `json:"dropped,omitempty"`
	Collisions  []string             `json:"collisions,omitempty"`
	Diagnostics []article.Diagnostic `json:"diagnostics,omitempty"`
	Duration    time.Duration        `json:"duration"`
}

// Resolve runs the waterfall: the first resolver yielding at least one parsed
// document wins. Resolver errors count as zero documents. When every resolver
// is exhausted the fallback list is served. The only error returned is the
// context's.
func (c *Catalog) Resolve(ctx context.Context) ([]article.Document, Resolution, error) {
	start := time.Now()
	var res Resolution

	for _, r := range c.resolvers {
		if err := ctx.Err(); err != nil {
			return nil, res, err
		}

		docs, outcome, err := c.resolveTier(ctx, r, &res)
		res.Outcomes = append(res.Outcomes, outcome)
		if err != nil {
			return nil, res, err
		}
		if len(docs) == 0 {
			continue
		}

		sortDocuments(docs)
		res.Tier = r.Name()
		res.Duration = time.Since(start)
		c.recorder.IncTierServed(res.Tier)
		c.logger.Debug("Catalog resolved", logfields.Tier(res.Tier), logfields.Count(len(docs)))
		return docs, res, nil
	}

	docs := c.Fallback()
	res.Tier = TierFallback
	res.Duration = time.Since(start)
	c.recorder.IncTierServed(TierFallback)
	c.logger.Warn("All content resolvers exhausted, serving fallback list", logfields.Count(len(docs)))
	return docs, res, nil
}

func (c *Catalog) resolveTier(ctx context.Context, r source.Resolver, res *Resolution) ([]article.Document, TierOutcome, error) {
	name := r.Name()
	outcome := TierOutcome{Name: name}
	start := time.Now()

	raws, err := r.Resolve(ctx)
	outcome.Duration = time.Since(start)
	if err != nil {
		if ctx.Err() != nil {
			c.recorder.ObserveResolverDuration(name, outcome.Duration, metrics.ResultCanceled)
			return nil, outcome, ctx.Err()
		}
		outcome.Error = err.Error()
		c.recorder.ObserveResolverDuration(name, outcome.Duration, metrics.ResultError)
		c.logger.Warn("Content resolver failed", logfields.Source(name), logfields.Error(err))
		return nil, outcome, nil
	}

	docs := make([]article.Document, 0, len(raws))
	index := make(map[string]int, len(raws))
	for _, raw := range raws {
		doc, diags, err := c.normalizer.Parse(raw.Slug, raw.Text)
		if err != nil {
			outcome.Dropped++
			res.Dropped = append(res.Dropped, DroppedDocument{Tier: name, Slug: raw.Slug, Path: raw.Path, Error: err.Error()})
			c.logger.Warn("Dropping unparseable document", logfields.Source(name), logfields.Slug(raw.Slug), logfields.Path(raw.Path), logfields.Error(err))
			continue
		}
		doc.Source = name
		res.Diagnostics = append(res.Diagnostics, diags...)

		if i, dup := index[doc.Slug]; dup {
			res.Collisions = append(res.Collisions, doc.Slug)
			c.logger.Warn("Duplicate slug, later document replaces earlier one", logfields.Source(name), logfields.Slug(doc.Slug), logfields.Path(raw.Path))
			docs[i] = doc
			continue
		}
		index[doc.Slug] = len(docs)
		docs = append(docs, doc)
	}

	outcome.Documents = len(docs)
	c.recorder.AddDroppedDocuments(name, outcome.Dropped)
	result := metrics.ResultSuccess
	if len(docs) == 0 {
		result = metrics.ResultEmpty
	}
	c.recorder.ObserveResolverDuration(name, outcome.Duration, result)
	return docs, outcome, nil
}

// Fallback returns a sorted copy of the fallback list.
func (c *Catalog) Fallback() []article.Document {
	docs := make([]article.Document, len(c.fallback))
	for i, d := range c.fallback {
		d.Tags = append([]string(nil), d.Tags...)
		if d.Source == "" {
			d.Source = TierFallback
		}
		docs[i] = d
	}
	sortDocuments(docs)
	return docs
}

// sortDocuments orders by PublishedAt descending with undated documents last.
// Equal keys keep resolution order.
func sortDocuments(docs []article.Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		a, b := docs[i], docs[j]
		aDated := !a.Undated && !a.PublishedAt.IsZero()
		bDated := !b.Undated && !b.PublishedAt.IsZero()
		if aDated != bDated {
			return aDated
		}
		return a.PublishedAt.After(b.PublishedAt)
	})
}
