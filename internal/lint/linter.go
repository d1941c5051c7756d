// Package lint checks content documents the way the catalog would load them
// and reports what would be dropped, defaulted or shadowed.
package lint

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/insightsite/internal/article"
	"git.home.luguber.info/inful/insightsite/internal/logfields"
	"git.home.luguber.info/inful/insightsite/internal/source"
)

// Linter runs resolvers through the normalizer and collects issues.
type Linter struct {
	normalizer *article.Normalizer
	logger     *slog.Logger
}

// New creates a Linter. A nil normalizer uses the standard defaults.
func New(normalizer *article.Normalizer, logger *slog.Logger) *Linter {
	if logger == nil {
		logger = slog.Default()
	}
	if normalizer == nil {
		normalizer = article.NewNormalizer(article.StandardDefaults, article.WithLogger(logger))
	}
	return &Linter{normalizer: normalizer, logger: logger}
}

// Lint checks every document of every resolver. Unlike the catalog it does
// not stop at the first non-empty tier. The only error returned is the
// context's.
func (l *Linter) Lint(ctx context.Context, resolvers ...source.Resolver) (*Result, error) {
	result := &Result{}
	for _, r := range resolvers {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		name := r.Name()
		result.Sources = append(result.Sources, name)

		raws, err := r.Resolve(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			result.Issues = append(result.Issues, Issue{
				Source:   name,
				Severity: SeverityError,
				Rule:     RuleResolverFailed,
				Message:  err.Error(),
			})
			continue
		}

		result.DocumentsTotal += len(raws)
		result.Issues = append(result.Issues, l.lintTier(name, raws)...)
		l.logger.Debug("Linted content source", logfields.Source(name), logfields.Count(len(raws)))
	}
	return result, nil
}

func (l *Linter) lintTier(name string, raws []source.RawDocument) []Issue {
	var issues []Issue
	seen := make(map[string]string, len(raws))

	for _, raw := range raws {
		doc, diags, err := l.normalizer.Parse(raw.Slug, raw.Text)
		if err != nil {
			issues = append(issues, Issue{
				Source:   name,
				FilePath: raw.Path,
				Slug:     raw.Slug,
				Severity: SeverityError,
				Rule:     RuleUnparseable,
				Message:  err.Error(),
				Fix:      "close the front matter block with a line containing only ---",
			})
			continue
		}

		for _, d := range diags {
			issues = append(issues, diagnosticIssue(name, raw.Path, d))
		}
		issues = append(issues, coverIssues(name, raw.Path, doc)...)

		if prev, dup := seen[doc.Slug]; dup {
			issues = append(issues, Issue{
				Source:   name,
				FilePath: raw.Path,
				Slug:     doc.Slug,
				Severity: SeverityError,
				Rule:     RuleSlugCollision,
				Message:  fmt.Sprintf("slug %q already used by %s; this document replaces it", doc.Slug, prev),
				Fix:      "rename one of the files",
			})
			continue
		}
		seen[doc.Slug] = raw.Path
	}
	return issues
}

func diagnosticIssue(name, path string, d article.Diagnostic) Issue {
	issue := Issue{Source: name, FilePath: path, Slug: d.Slug, Message: d.Field + ": " + d.Message}
	switch {
	case d.Field == "frontmatter":
		issue.Severity = SeverityWarning
		issue.Rule = RuleLenientFrontMatter
		issue.Fix = "quote values containing ':' or '#'"
	case d.Field == article.KeyDate && strings.HasPrefix(d.Message, "missing"):
		issue.Severity = SeverityWarning
		issue.Rule = RuleDateMissing
		issue.Fix = "add a date: YYYY-MM-DD line"
	case d.Field == article.KeyDate:
		issue.Severity = SeverityWarning
		issue.Rule = RuleDateUnparseable
		issue.Fix = "use YYYY-MM-DD or RFC 3339"
	case d.Field == article.KeyTitle:
		issue.Severity = SeverityWarning
		issue.Rule = RuleFieldDefaulted
		issue.Fix = "add a title"
	default:
		issue.Severity = SeverityInfo
		issue.Rule = RuleFieldDefaulted
	}
	return issue
}

func coverIssues(name, path string, doc article.Document) []Issue {
	var issues []Issue
	covers := [][2]string{{article.KeyCoverImage, doc.CoverImage}, {article.KeyCoverVideo, doc.CoverVideo}}
	for _, c := range covers {
		field, value := c[0], c[1]
		if value == "" || article.ClassifyMedia(value) != article.MediaNone {
			continue
		}
		issues = append(issues, Issue{
			Source:   name,
			FilePath: path,
			Slug:     doc.Slug,
			Severity: SeverityWarning,
			Rule:     RuleCoverUnclassified,
			Message:  fmt.Sprintf("%s: %q is neither an image nor a video; no preview is shown", field, value),
		})
	}
	return issues
}
