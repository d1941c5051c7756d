package commands

import (
	"git.home.luguber.info/inful/insightsite/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	p := &printer{w: g.out()}
	p.printf("Initializing insightsite configuration\n")
	p.printf("Writing configuration to %s\n", root.Config)
	if err := config.Init(root.Config, i.Force); err != nil {
		p.printf("Initialization failed\n")
		return err
	}
	p.printf("initialized successfully\n")
	return p.err
}
