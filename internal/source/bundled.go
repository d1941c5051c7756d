package source

import (
	"context"
	"io/fs"
	"path"

	"git.home.luguber.info/inful/insightsite/internal/article"
	"git.home.luguber.info/inful/insightsite/internal/logfields"
)

// Bundled serves content compiled into the binary. The directories are
// scanned once at construction; Resolve never fails.
type Bundled struct {
	docs []RawDocument
}

// NewBundled scans dirs of fsys (non-recursive). Scan failures are logged and
// leave that directory empty.
func NewBundled(fsys fs.FS, opts Options) *Bundled {
	log := opts.logger()
	exts := opts.extensions()

	var docs []RawDocument
	for _, dir := range opts.Dirs {
		entries, err := fs.ReadDir(fsys, dir)
		if err != nil {
			log.Warn("Bundled content directory unavailable", logfields.Directory(dir), logfields.Error(err))
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !HasExtension(entry.Name(), exts) {
				continue
			}
			p := path.Join(dir, entry.Name())
			data, err := fs.ReadFile(fsys, p)
			if err != nil {
				log.Warn("Skipping unreadable bundled file", logfields.Path(p), logfields.Error(err))
				continue
			}
			docs = append(docs, RawDocument{Slug: article.SlugFromPath(entry.Name()), Path: p, Text: data})
		}
	}

	log.Debug("Bundled content scanned", logfields.Count(len(docs)))
	return &Bundled{docs: docs}
}

func (b *Bundled) Name() string { return NameBundled }

// Resolve returns a copy of the scanned documents.
func (b *Bundled) Resolve(ctx context.Context) ([]RawDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return cloneDocs(b.docs), nil
}

// Len reports the number of bundled documents.
func (b *Bundled) Len() int { return len(b.docs) }
