package commands

import (
	"log/slog"

	"git.home.luguber.info/inful/insightsite/content"
	"git.home.luguber.info/inful/insightsite/internal/article"
	"git.home.luguber.info/inful/insightsite/internal/catalog"
	"git.home.luguber.info/inful/insightsite/internal/config"
	"git.home.luguber.info/inful/insightsite/internal/forge"
	"git.home.luguber.info/inful/insightsite/internal/metrics"
	"git.home.luguber.info/inful/insightsite/internal/render"
	"git.home.luguber.info/inful/insightsite/internal/retry"
	"git.home.luguber.info/inful/insightsite/internal/source"
)

func newNormalizer(cfg *config.Config, logger *slog.Logger) *article.Normalizer {
	d := cfg.Content.Defaults
	return article.NewNormalizer(article.Defaults{
		Title:       d.Title,
		Author:      d.Author,
		Description: d.Description,
		Category:    d.Category,
	}, article.WithLogger(logger))
}

// localResolvers returns the bundled and filesystem tiers, in waterfall order.
func localResolvers(cfg *config.Config, logger *slog.Logger) []source.Resolver {
	var resolvers []source.Resolver
	if !cfg.Content.DisableBundled {
		resolvers = append(resolvers, source.NewBundled(content.FS, source.Options{
			Dirs:       content.Dirs,
			Extensions: cfg.Content.Extensions,
			Logger:     logger,
		}))
	}
	resolvers = append(resolvers, source.NewFilesystem(source.Options{
		Dirs:       cfg.Content.Directories,
		Extensions: cfg.Content.Extensions,
		Logger:     logger,
	}))
	return resolvers
}

// remoteResolver returns nil unless the remote tier is enabled.
func remoteResolver(cfg *config.Config, logger *slog.Logger) source.Resolver {
	rc := cfg.Remote
	if !rc.Enabled {
		return nil
	}
	client := forge.NewGitHubClient(forge.GitHubOptions{
		APIURL:  rc.APIURL,
		Token:   rc.Token,
		Timeout: rc.Timeout,
	})
	return source.NewRemote(client, source.RemoteOptions{
		Owner:      rc.Owner,
		Repo:       rc.Repo,
		Branch:     rc.Branch,
		Paths:      rc.Paths,
		Extensions: cfg.Content.Extensions,
		Policy:     retry.FromConfig(rc.Retry),
		Logger:     logger,
	})
}

func resolvers(cfg *config.Config, logger *slog.Logger) []source.Resolver {
	all := localResolvers(cfg, logger)
	if remote := remoteResolver(cfg, logger); remote != nil {
		all = append(all, remote)
	}
	return all
}

func buildCatalog(cfg *config.Config, logger *slog.Logger, recorder metrics.Recorder) (*catalog.Catalog, error) {
	normalizer := newNormalizer(cfg, logger)

	fallback := catalog.DefaultFallback()
	if cfg.Content.FallbackFile != "" {
		loaded, err := catalog.LoadFallbackFile(cfg.Content.FallbackFile, normalizer)
		if err != nil {
			return nil, err
		}
		fallback = loaded
	}

	return catalog.New(resolvers(cfg, logger), catalog.Options{
		Fallback:   fallback,
		Normalizer: normalizer,
		Recorder:   recorder,
		Logger:     logger,
	}), nil
}

func newRenderer(cfg *config.Config, logger *slog.Logger, recorder metrics.Recorder) *render.Renderer {
	return render.New(render.Options{
		HighlightStyle: cfg.Render.HighlightStyle,
		ExcerptRunes:   cfg.Render.ExcerptRunes,
		WordsPerMinute: cfg.Render.WordsPerMinute,
		Recorder:       recorder,
		Logger:         logger,
	})
}
