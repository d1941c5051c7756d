package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/insightsite/internal/config"
	"git.home.luguber.info/inful/insightsite/internal/forge"
	"git.home.luguber.info/inful/insightsite/internal/foundation/errors"
	"git.home.luguber.info/inful/insightsite/internal/retry"
)

func slugs(docs []RawDocument) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Slug)
	}
	return out
}

func TestHasExtension(t *testing.T) {
	assert.True(t, HasExtension("a.md", DefaultExtensions))
	assert.True(t, HasExtension("a.MDX", DefaultExtensions))
	assert.False(t, HasExtension("a.txt", DefaultExtensions))
	assert.False(t, HasExtension("README", DefaultExtensions))
}

func TestBundled_ScansOnceAndConcatenatesGroups(t *testing.T) {
	fsys := fstest.MapFS{
		"articles/b.md":                 {Data: []byte("b")},
		"articles/a.mdx":                {Data: []byte("a")},
		"articles/notes.txt":            {Data: []byte("skip")},
		"articles/nested/deep.md":       {Data: []byte("skip")},
		"future-insights/ai-and-law.md": {Data: []byte("f")},
	}

	b := NewBundled(fsys, Options{Dirs: []string{"articles", "future-insights", "missing"}})
	assert.Equal(t, NameBundled, b.Name())
	assert.Equal(t, 3, b.Len())

	docs, err := b.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "ai-and-law"}, slugs(docs))
	assert.Equal(t, "articles/a.mdx", docs[0].Path)

	// callers cannot mutate the scanned set
	docs[0].Text[0] = 'X'
	again, _ := b.Resolve(context.Background())
	assert.Equal(t, "a", string(again[0].Text))

	// scanned at construction: later changes to the FS are not visible
	fsys["articles/c.md"] = &fstest.MapFile{Data: []byte("c")}
	again, _ = b.Resolve(context.Background())
	assert.Len(t, again, 3)
}

func TestFilesystem_Resolve(t *testing.T) {
	root := t.TempDir()
	articles := filepath.Join(root, "articles")
	future := filepath.Join(root, "future")
	require.NoError(t, os.MkdirAll(filepath.Join(articles, "sub"), 0o755))
	require.NoError(t, os.MkdirAll(future, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(articles, "one.md"), []byte("1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(articles, "two.mdx"), []byte("2"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(articles, "skip.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(articles, "sub", "deep.md"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(future, "three.md"), []byte("3"), 0o644))

	f := NewFilesystem(Options{Dirs: []string{articles, filepath.Join(root, "absent"), future}})
	docs, err := f.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, slugs(docs))
	assert.Equal(t, "1", string(docs[0].Text))
	assert.Equal(t, NameFilesystem, f.Name())
}

func TestFilesystem_AllMissingIsEmptyNotError(t *testing.T) {
	f := NewFilesystem(Options{Dirs: []string{filepath.Join(t.TempDir(), "nope")}})
	docs, err := f.Resolve(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
}

// fakeContents is an in-memory forge.ContentsClient.
type fakeContents struct {
	listings  map[string][]forge.ContentEntry
	files     map[string]string
	listErr   error
	listCalls int
	fetched   []string
}

func (f *fakeContents) ListContents(_ context.Context, _, _, dir, _ string) ([]forge.ContentEntry, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listings[dir], nil
}

func (f *fakeContents) GetFile(_ context.Context, _, _, p, _ string) ([]byte, error) {
	f.fetched = append(f.fetched, p)
	if text, ok := f.files[p]; ok {
		return []byte(text), nil
	}
	return nil, errors.NotFoundError("missing").Build()
}

func TestRemote_FetchesSequentiallySkippingFailures(t *testing.T) {
	client := &fakeContents{
		listings: map[string][]forge.ContentEntry{
			"content/articles": {
				{Name: "z.md", Path: "content/articles/z.md", Type: "file"},
				{Name: "gone.md", Path: "content/articles/gone.md", Type: "file"},
				{Name: "img.png", Path: "content/articles/img.png", Type: "file"},
				{Name: "drafts", Path: "content/articles/drafts", Type: "dir"},
				{Name: "a.md", Path: "content/articles/a.md", Type: "file"},
			},
			"content/future": {
				{Name: "f.mdx", Type: "file"},
			},
		},
		files: map[string]string{
			"content/articles/z.md": "z",
			"content/articles/a.md": "a",
			"content/future/f.mdx":  "f",
		},
	}

	r := NewRemote(client, RemoteOptions{Owner: "acme", Repo: "site", Branch: "main", Paths: []string{"content/articles", "content/future"}})
	docs, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a", "f"}, slugs(docs))
	assert.Equal(t, []string{"content/articles/z.md", "content/articles/gone.md", "content/articles/a.md", "content/future/f.mdx"}, client.fetched)
	assert.Equal(t, NameRemote, r.Name())
}

func TestRemote_ListingFailureRetriedThenFails(t *testing.T) {
	client := &fakeContents{listErr: errors.RemoteError("forge API error: 502").Build()}
	policy := retry.NewPolicy(config.RetryBackoffFixed, time.Millisecond, time.Millisecond, 2)

	r := NewRemote(client, RemoteOptions{Paths: []string{"content"}, Policy: policy})
	docs, err := r.Resolve(context.Background())
	require.Error(t, err)
	assert.Nil(t, docs)
	assert.ErrorIs(t, err, ErrListingFailed)
	assert.Equal(t, 3, client.listCalls)
}

func TestRemote_PermanentListingFailureNotRetried(t *testing.T) {
	client := &fakeContents{listErr: errors.AuthError("bad token").Build()}
	policy := retry.NewPolicy(config.RetryBackoffFixed, time.Millisecond, time.Millisecond, 2)

	r := NewRemote(client, RemoteOptions{Paths: []string{"content"}, Policy: policy})
	_, err := r.Resolve(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, client.listCalls)
}
