package source

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/insightsite/internal/article"
	"git.home.luguber.info/inful/insightsite/internal/logfields"
)

// Filesystem scans directories on disk at resolve time.
type Filesystem struct {
	opts Options
}

// NewFilesystem creates a filesystem resolver over opts.Dirs.
func NewFilesystem(opts Options) *Filesystem {
	return &Filesystem{opts: opts}
}

func (f *Filesystem) Name() string { return NameFilesystem }

// Dirs returns the configured directories.
func (f *Filesystem) Dirs() []string { return append([]string(nil), f.opts.Dirs...) }

// Resolve reads every recognized file in each directory (non-recursive).
// Absent directories are logged and skipped; unreadable files are skipped.
func (f *Filesystem) Resolve(ctx context.Context) ([]RawDocument, error) {
	log := f.opts.logger()
	exts := f.opts.extensions()

	var docs []RawDocument
	for _, dir := range f.opts.Dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.Warn("Content directory does not exist", logfields.Directory(dir))
			} else {
				log.Warn("Content directory unreadable", logfields.Directory(dir), logfields.Error(err))
			}
			continue
		}

		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if entry.IsDir() || !HasExtension(entry.Name(), exts) {
				continue
			}
			p := filepath.Join(dir, entry.Name())
			data, err := os.ReadFile(p)
			if err != nil {
				log.Warn("Skipping unreadable content file", logfields.Path(p), logfields.Error(err))
				continue
			}
			docs = append(docs, RawDocument{Slug: article.SlugFromPath(entry.Name()), Path: p, Text: data})
		}
	}
	return docs, nil
}
