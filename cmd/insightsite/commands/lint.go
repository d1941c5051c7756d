package commands

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/insightsite/internal/config"
	"git.home.luguber.info/inful/insightsite/internal/foundation/errors"
	"git.home.luguber.info/inful/insightsite/internal/lint"
	"git.home.luguber.info/inful/insightsite/internal/logfields"
	"git.home.luguber.info/inful/insightsite/internal/source"
)

// ErrLintFailed is returned when content has issues that drop documents.
var ErrLintFailed = errors.ContentError("content has lint errors").Build()

// LintCmd implements the 'lint' command.
type LintCmd struct {
	Format string `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
	Quiet  bool   `short:"q" help:"Quiet mode: only show errors, suppress warnings"`
	Remote bool   `help:"Also lint the remote source when it is enabled"`
	Watch  bool   `short:"w" help:"Re-run when files in the content directories change"`
}

func (l *LintCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.Settings()
	if err != nil {
		return err
	}
	if !l.Watch {
		return l.lintOnce(context.Background(), cfg, g.logger(), g.out())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return l.watch(ctx, cfg, g.logger(), g.out())
}

func (l *LintCmd) resolvers(cfg *config.Config, logger *slog.Logger) []source.Resolver {
	all := localResolvers(cfg, logger)
	if l.Remote {
		if remote := remoteResolver(cfg, logger); remote != nil {
			all = append(all, remote)
		}
	}
	return all
}

func (l *LintCmd) lintOnce(ctx context.Context, cfg *config.Config, logger *slog.Logger, w io.Writer) error {
	linter := lint.New(newNormalizer(cfg, logger), logger)
	result, err := linter.Lint(ctx, l.resolvers(cfg, logger)...)
	if err != nil {
		return fmt.Errorf("linting failed: %w", err)
	}

	shown := result
	if l.Quiet {
		shown = result.Filter(lint.SeverityError)
	}
	if err := lint.NewFormatter(l.Format).Format(w, shown); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if result.HasErrors() {
		return ErrLintFailed
	}
	return nil
}

// watch lints once, then again after every burst of content changes, until ctx ends.
// Runs are serialized by the watcher.
func (l *LintCmd) watch(ctx context.Context, cfg *config.Config, logger *slog.Logger, w io.Writer) error {
	rerun := func(ctx context.Context) {
		if err := l.lintOnce(ctx, cfg, logger, w); err != nil && !stderrors.Is(err, ErrLintFailed) {
			logger.Error("Lint run failed", logfields.Error(err))
		}
	}

	rerun(ctx)

	watcher, err := lint.NewWatcher(cfg.Content.Directories, cfg.Content.Extensions, lint.DefaultDebounce, rerun)
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Stop() }()
	if err := watcher.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	return nil
}
