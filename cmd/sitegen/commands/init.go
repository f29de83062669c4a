package commands

import (
	"github.com/go-git/go-billy/v5/osfs"

	"git.home.luguber.info/inful/sitegen/internal/scaffold"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `short:"f" help:"Override an existing website"`
	Layout string `help:"Layout to install (default or bootstrap)" enum:"default,bootstrap" default:"default"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	g.Console.Info("Initializing new website")
	messages, err := scaffold.Init(osfs.New(root.Root), scaffold.Kind(i.Layout), i.Force)
	g.Console.DoneAll(messages)
	return err
}
