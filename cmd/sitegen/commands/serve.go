package commands

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/preview"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Host         string        `help:"Interface to listen on" default:"localhost"`
	Port         int           `help:"Port to listen on" default:"8000"`
	Watch        bool          `short:"w" help:"Regenerate the site when _site-src changes"`
	RebuildEvery time.Duration `name:"rebuild-every" help:"Regenerate the site periodically (0 disables)" default:"0s"`
	Workers      int           `help:"Number of pages rendered concurrently" default:"1"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	addr := net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
	baseURL := previewURL(s.Host, s.Port)

	reg := prometheus.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)

	opts := preview.Options{
		Root:         root.Root,
		Addr:         addr,
		Watch:        s.Watch,
		Debounce:     preview.DefaultDebounce,
		RebuildEvery: s.RebuildEvery,
		Registry:     reg,
	}
	if s.Watch || s.RebuildEvery > 0 {
		opts.Build = func(ctx context.Context) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			cfg, err = cfg.WithOverrides(config.Overrides{}.Set(config.SectionSite, config.KeyBaseURL, baseURL))
			if err != nil {
				return err
			}
			res, err := runGenerator(ctx, root.Root, cfg, s.Workers, rec, g.Logger)
			if err != nil {
				g.Console.Error(fmt.Sprintf("Regeneration failed: %v", err))
				return err
			}
			g.Logger.Info("Site regenerated", logfields.Count(len(res.Messages)))
			g.Console.Done("Site regenerated")
			return nil
		}
	}

	g.Console.Info(fmt.Sprintf("Start server %s", baseURL))
	g.Console.Info("Press Ctrl+C to stop")
	return preview.Run(g.context(), opts)
}
