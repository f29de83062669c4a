package commands

import (
	"git.home.luguber.info/inful/sitegen/internal/deploy"
)

// DeployCmd implements the 'deploy' command.
type DeployCmd struct{}

func (d *DeployCmd) Run(g *Global, root *CLI) error {
	g.Console.Info("Deploy website")
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	messages, err := deploy.New(cfg, root.Root, deploy.WithLogger(g.Logger)).Deploy(g.context())
	g.Console.DoneAll(messages)
	return err
}
