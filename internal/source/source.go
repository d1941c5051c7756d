// Package source provides the content resolvers: bundled (compiled into the
// binary), filesystem and remote (repository contents API). Each resolver
// returns raw, unparsed documents; parsing happens in the catalog.
package source

import (
	"context"
	"log/slog"
	"path"
	"strings"

	"git.home.luguber.info/inful/insightsite/internal/foundation/errors"
)

// Resolver names, also used as the Source of the documents they produce.
const (
	NameBundled    = "bundled"
	NameFilesystem = "filesystem"
	NameRemote     = "remote"
)

// DefaultExtensions are the recognized content file extensions.
var DefaultExtensions = []string{".md", ".mdx"}

// ErrListingFailed signals that a remote directory listing could not be fetched.
var ErrListingFailed = errors.RemoteError("remote listing failed").Build()

// RawDocument is one unparsed content file.
type RawDocument struct {
	Slug string
	Path string
	Text []byte
}

// Resolver produces raw documents from one content source.
type Resolver interface {
	Name() string
	Resolve(ctx context.Context) ([]RawDocument, error)
}

// Options configures the local resolvers.
type Options struct {
	// Dirs are scanned in order; their documents are concatenated.
	Dirs []string
	// Extensions recognized as content; DefaultExtensions when empty.
	Extensions []string
	Logger     *slog.Logger
}

func (o Options) extensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions
	}
	return o.Extensions
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// HasExtension reports whether name ends in one of exts (case-insensitive).
func HasExtension(name string, exts []string) bool {
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		return false
	}
	for _, e := range exts {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

func cloneDocs(docs []RawDocument) []RawDocument {
	out := make([]RawDocument, len(docs))
	for i, d := range docs {
		out[i] = RawDocument{Slug: d.Slug, Path: d.Path, Text: append([]byte(nil), d.Text...)}
	}
	return out
}
