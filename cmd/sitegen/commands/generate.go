package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-git/go-billy/v5/osfs"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/preview"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Serve   bool   `help:"Generate for the built-in server (base_url is forced to the local preview address)"`
	Workers int    `help:"Number of pages rendered concurrently" default:"1"`
	Report  string `help:"Write the build report as JSON to this file" type:"path"`
}

func (c *GenerateCmd) Run(g *Global, root *CLI) error {
	g.Console.Info("Generate website")
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if c.Serve {
		g.Console.Info("You should re-generate before deploy")
	}
	cfg, err = cfg.WithOverrides(c.overrides())
	if err != nil {
		return err
	}

	res, err := runGenerator(g.context(), root.Root, cfg, c.Workers, metrics.NoopRecorder{}, g.Logger)
	if res != nil {
		g.Console.DoneAll(res.Messages)
		if c.Report != "" {
			if perr := res.Report.Persist(c.Report); perr != nil {
				g.Logger.Warn("Failed to write build report", logfields.Path(c.Report), logfields.Error(perr))
			}
		}
	}
	return err
}

func (c *GenerateCmd) overrides() config.Overrides {
	if !c.Serve {
		return nil
	}
	return config.Overrides{}.Set(config.SectionSite, config.KeyBaseURL, previewURL("localhost", preview.DefaultPort))
}

func previewURL(host string, port int) string {
	return fmt.Sprintf("http://%s:%d", host, port)
}

func runGenerator(ctx context.Context, root string, cfg config.Config, workers int, rec metrics.Recorder, logger *slog.Logger) (*site.Result, error) {
	gen := site.NewGenerator(cfg, osfs.New(root),
		site.WithWorkers(workers),
		site.WithRecorder(rec),
		site.WithLogger(logger),
	)
	return gen.Generate(ctx)
}
