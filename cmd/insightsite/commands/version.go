package commands

import (
	"runtime"

	"git.home.luguber.info/inful/insightsite/internal/version"
)

// VersionCmd implements the 'version' command.
type VersionCmd struct{}

func (v *VersionCmd) Run(g *Global) error {
	p := &printer{w: g.out()}
	p.printf("insightsite %s\n", version.Version)
	p.printf("  commit: %s\n", version.GitCommit)
	p.printf("  built:  %s\n", version.BuildTime)
	p.printf("  go:     %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return p.err
}
