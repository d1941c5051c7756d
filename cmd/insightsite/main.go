package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/automaxprocs/maxprocs"

	"git.home.luguber.info/inful/insightsite/cmd/insightsite/commands"
	"git.home.luguber.info/inful/insightsite/internal/foundation/errors"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("insightsite"),
		kong.Description("Serve legal-career insights from bundled, local and remote Markdown content."),
		kong.UsageOnError(),
	)

	// maxprocs.Set only fails on an invalid GOMAXPROCS value; runtime defaults apply then.
	logger := slog.Default()
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		logger.Debug(fmt.Sprintf(format, args...))
	}))

	err := parser.Run(&commands.Global{Logger: logger}, cli)
	if err == nil {
		return
	}
	adapter := errors.NewCLIErrorAdapter(cli.Verbose, logger)
	if cli.Verbose {
		adapter.Log(err)
	}
	fmt.Fprintln(os.Stderr, adapter.FormatError(err))
	os.Exit(adapter.ExitCodeFor(err))
}
