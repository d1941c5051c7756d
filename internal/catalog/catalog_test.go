package catalog

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/insightsite/internal/article"
	"git.home.luguber.info/inful/insightsite/internal/source"
)

type stubResolver struct {
	name  string
	docs  []source.RawDocument
	err   error
	calls int
}

func (s *stubResolver) Name() string { return s.name }

func (s *stubResolver) Resolve(context.Context) ([]source.RawDocument, error) {
	s.calls++
	return s.docs, s.err
}

func raw(slug, frontmatter, body string) source.RawDocument {
	return source.RawDocument{Slug: slug, Path: slug + ".md", Text: []byte("---\n" + frontmatter + "\n---\n" + body)}
}

func slugsOf(docs []article.Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Slug)
	}
	return out
}

func TestResolve_FirstNonEmptyTierWins(t *testing.T) {
	bundled := &stubResolver{name: "bundled"}
	fs := &stubResolver{name: "filesystem", docs: []source.RawDocument{raw("a", "title: A\ndate: 2024-01-01", "x")}}
	remote := &stubResolver{name: "remote", docs: []source.RawDocument{raw("r", "title: R", "x")}}

	c := New([]source.Resolver{bundled, fs, remote}, Options{Fallback: DefaultFallback()})
	docs, res, err := c.Resolve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, slugsOf(docs))
	assert.Equal(t, "filesystem", docs[0].Source)
	assert.Equal(t, "filesystem", res.Tier)
	require.Len(t, res.Outcomes, 2)
	assert.Equal(t, 0, res.Outcomes[0].Documents)
	assert.Equal(t, 0, remote.calls, "remote must not be consulted after a non-empty tier")
}

func TestResolve_AllExhaustedServesFallback(t *testing.T) {
	bundled := &stubResolver{name: "bundled"}
	fs := &stubResolver{name: "filesystem"}
	remote := &stubResolver{name: "remote", err: stderrors.New("listing failed: 502")}

	c := New([]source.Resolver{bundled, fs, remote}, Options{Fallback: DefaultFallback()})
	docs, err := c.ListAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"welcome", "career-foundations", "future-of-legal-work"}, slugsOf(docs))

	_, res, err := c.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, TierFallback, res.Tier)
	assert.Equal(t, "listing failed: 502", res.Outcomes[2].Error)
}

func TestResolve_TierWithOnlyBrokenDocumentsFallsThrough(t *testing.T) {
	broken := &stubResolver{name: "bundled", docs: []source.RawDocument{{Slug: "bad", Text: []byte("---\ntitle: x\nno close")}}}
	fs := &stubResolver{name: "filesystem", docs: []source.RawDocument{raw("ok", "title: OK", "")}}

	c := New([]source.Resolver{broken, fs}, Options{})
	docs, res, err := c.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, slugsOf(docs))
	require.Len(t, res.Dropped, 1)
	assert.Equal(t, "bad", res.Dropped[0].Slug)
	assert.Equal(t, 1, res.Outcomes[0].Dropped)
}

func TestResolve_SortsNewestFirstUndatedLast(t *testing.T) {
	r := &stubResolver{name: "bundled", docs: []source.RawDocument{
		raw("old", "date: 2023-05-01", ""),
		raw("undated", "title: No date", ""),
		raw("new", "date: 2025-02-01", ""),
		raw("mid", "date: 2024-07-04", ""),
		raw("garbled", "date: someday", ""),
	}}

	docs, err := New([]source.Resolver{r}, Options{}).ListAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "mid", "old", "undated", "garbled"}, slugsOf(docs))
}

func TestResolve_SlugCollisionLastWinsInPlace(t *testing.T) {
	r := &stubResolver{name: "bundled", docs: []source.RawDocument{
		raw("dup", "title: First\ndate: 2024-01-01", ""),
		raw("other", "title: Other\ndate: 2023-01-01", ""),
		raw("dup", "title: Second\ndate: 2024-01-01", ""),
	}}

	docs, res, err := New([]source.Resolver{r}, Options{}).Resolve(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "Second", docs[0].Title)
	assert.Equal(t, []string{"dup"}, res.Collisions)
}

func TestResolve_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New([]source.Resolver{&stubResolver{name: "bundled"}}, Options{}).ListAll(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestQueries(t *testing.T) {
	r := &stubResolver{name: "bundled", docs: []source.RawDocument{
		raw("ethics", "title: Drafting clauses\ncategory: AI Law\ntags: [AI Ethics]\ndate: 2025-01-01", ""),
		raw("contracts", "title: Drafting clauses\ncategory: Contract Law\ndate: 2024-01-01", ""),
		raw("partner", "title: Making partner\ncategory: career\ntags: [Éthique, Career Growth]\ndate: 2023-01-01", ""),
	}}
	c := New([]source.Resolver{r}, Options{})
	ctx := context.Background()

	doc, found, err := c.GetBySlug(ctx, "partner")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Making partner", doc.Title)

	_, found, err = c.GetBySlug(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	byTag, err := c.ListByTag(ctx, "ethique")
	require.NoError(t, err)
	assert.Equal(t, []string{"partner"}, slugsOf(byTag))

	byTag, err = c.ListByTag(ctx, "contract law")
	require.NoError(t, err)
	assert.Equal(t, []string{"contracts"}, slugsOf(byTag))

	future, err := c.ListByView(ctx, article.ViewFuture)
	require.NoError(t, err)
	assert.Equal(t, []string{"ethics"}, slugsOf(future))

	career, err := c.ListByView(ctx, article.ParseView("career"))
	require.NoError(t, err)
	assert.Equal(t, []string{"partner"}, slugsOf(career))

	all, err := c.ListByView(ctx, article.ParseView("unknown"))
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestTags(t *testing.T) {
	r := &stubResolver{name: "bundled", docs: []source.RawDocument{
		raw("a", "tags: [Ethics, AI, ethics]\ndate: 2025-01-01", ""),
		raw("b", "tags: [Éthics, Careers]\ndate: 2024-01-01", ""),
		raw("c", "tags: AI\ndate: 2023-01-01", ""),
	}}

	tags, err := New([]source.Resolver{r}, Options{}).Tags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []TagCount{{Name: "AI", Count: 2}, {Name: "Ethics", Count: 2}, {Name: "Careers", Count: 1}}, tags)
}

func TestSliceFilters_ShareOneResolution(t *testing.T) {
	r := &stubResolver{name: "bundled", docs: []source.RawDocument{
		raw("ethics", "category: AI Law\ntags: [AI Ethics, Mentoring]\ndate: 2025-01-01", ""),
		raw("partner", "category: career\ntags: [Éthique, Mentoring]\ndate: 2023-01-01", ""),
	}}
	all, err := New([]source.Resolver{r}, Options{}).ListAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"ethics"}, slugsOf(FilterByView(all, article.ViewFuture)))
	assert.Equal(t, []string{"ethics", "partner"}, slugsOf(FilterByView(all, article.ViewDefault)))
	assert.Equal(t, []string{"partner"}, slugsOf(FilterByTag(FilterByView(all, article.ViewCareer), "mentoring")))
	assert.Equal(t, []string{"ethics", "partner"}, slugsOf(FilterByTag(all, "MENTORING")))
	assert.Equal(t, []TagCount{{Name: "Mentoring", Count: 2}, {Name: "AI Ethics", Count: 1}, {Name: "Éthique", Count: 1}}, CountTags(all))
	assert.Equal(t, 1, r.calls)
}

func TestFallback_ReturnsCopy(t *testing.T) {
	c := New(nil, Options{Fallback: DefaultFallback()})
	docs := c.Fallback()
	docs[0].Tags[0] = "mutated"
	assert.NotEqual(t, "mutated", c.Fallback()[0].Tags[0])
	assert.Equal(t, TierFallback, docs[0].Source)
}

func TestLoadFallbackFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fallback.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- slug: offline
  title: We'll be right back
  date: 2024-02-02
  category: career
  content: |
    Content is temporarily unavailable.
- slug: second
`), 0o644))

	docs, err := LoadFallbackFile(path, nil)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "offline", docs[0].Slug)
	assert.Equal(t, "We'll be right back", docs[0].Title)
	assert.Equal(t, []string{"career"}, docs[0].Tags)
	assert.Equal(t, "Content is temporarily unavailable.\n", docs[0].Content)
	assert.Equal(t, "Untitled", docs[1].Title)
	assert.Equal(t, TierFallback, docs[1].Source)
}

func TestLoadFallbackFile_Errors(t *testing.T) {
	_, err := LoadFallbackFile(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "noslug.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- title: x\n"), 0o644))
	_, err = LoadFallbackFile(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no slug")
}
