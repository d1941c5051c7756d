package source

import (
	"context"
	"log/slog"
	"path"

	"git.home.luguber.info/inful/insightsite/internal/article"
	"git.home.luguber.info/inful/insightsite/internal/forge"
	"git.home.luguber.info/inful/insightsite/internal/foundation/errors"
	"git.home.luguber.info/inful/insightsite/internal/logfields"
	"git.home.luguber.info/inful/insightsite/internal/retry"
)

// RemoteOptions configures the contents API resolver.
type RemoteOptions struct {
	Owner      string
	Repo       string
	Branch     string
	Paths      []string
	Extensions []string
	Policy     retry.Policy
	Logger     *slog.Logger
}

// Remote reads content through a repository contents API.
type Remote struct {
	client forge.ContentsClient
	opts   RemoteOptions
}

// NewRemote creates a remote resolver.
func NewRemote(client forge.ContentsClient, opts RemoteOptions) *Remote {
	if len(opts.Extensions) == 0 {
		opts.Extensions = DefaultExtensions
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Remote{client: client, opts: opts}
}

func (r *Remote) Name() string { return NameRemote }

// Resolve lists each configured path, then fetches the recognized files one at
// a time in listing order. A failed listing fails the resolver (after retries);
// a failed file fetch is logged and the file skipped.
func (r *Remote) Resolve(ctx context.Context) ([]RawDocument, error) {
	log := r.opts.Logger

	var docs []RawDocument
	for _, dir := range r.opts.Paths {
		var entries []forge.ContentEntry
		err := r.opts.Policy.Do(ctx, func(ctx context.Context) error {
			var err error
			entries, err = r.client.ListContents(ctx, r.opts.Owner, r.opts.Repo, dir, r.opts.Branch)
			return err
		}, func(attempt int, err error) {
			log.Warn("Retrying remote listing", logfields.Path(dir), logfields.Attempt(attempt), logfields.Error(err))
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, errors.WrapError(err, errors.CategoryRemote, ErrListingFailed.Message()).
				WithContext("path", dir).
				WithContext("repo", r.opts.Owner+"/"+r.opts.Repo).
				Build()
		}

		for _, entry := range entries {
			if !entry.IsFile() || !HasExtension(entry.Name, r.opts.Extensions) {
				continue
			}
			filePath := entry.Path
			if filePath == "" {
				filePath = path.Join(dir, entry.Name)
			}

			data, err := r.client.GetFile(ctx, r.opts.Owner, r.opts.Repo, filePath, r.opts.Branch)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				log.Warn("Skipping remote file", logfields.Path(filePath), logfields.Error(err))
				continue
			}
			docs = append(docs, RawDocument{Slug: article.SlugFromPath(entry.Name), Path: filePath, Text: data})
		}
	}
	return docs, nil
}
