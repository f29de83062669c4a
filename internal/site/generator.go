// Package site turns a `_site-src` tree into rendered HTML pages.
//
// A run is a fixed sequence of stages (discover, aggregate, render, write,
// assets, marker). Aggregation completes before any page renders, and assets
// are mirrored only after every page is written.
package site

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/layout"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/markdown"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

// Generator renders one site. fsys is rooted at the site root.
type Generator struct {
	cfg       config.Config
	fsys      billy.Filesystem
	converter markdown.Converter
	renderer  layout.Renderer
	recorder  metrics.Recorder
	logger    *slog.Logger
	workers   int
}

// Option configures a Generator.
type Option func(*Generator)

// WithConverter replaces the goldmark converter.
func WithConverter(c markdown.Converter) Option {
	return func(g *Generator) { g.converter = c }
}

// WithRenderer replaces the text/template renderer built from the layouts directory.
func WithRenderer(r layout.Renderer) Option {
	return func(g *Generator) { g.renderer = r }
}

// WithRecorder injects a metrics recorder. nil restores the no-op recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(g *Generator) {
		if r == nil {
			r = metrics.NoopRecorder{}
		}
		g.recorder = r
	}
}

// WithLogger sets the base logger; every run adds its run ID.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithWorkers sets how many pages render concurrently. Values below 1 mean 1.
func WithWorkers(n int) Option {
	return func(g *Generator) {
		if n < 1 {
			n = 1
		}
		g.workers = n
	}
}

// NewGenerator creates a generator for the site rooted at fsys.
func NewGenerator(cfg config.Config, fsys billy.Filesystem, opts ...Option) *Generator {
	g := &Generator{
		cfg:       cfg,
		fsys:      fsys,
		converter: markdown.NewGoldmark(),
		recorder:  metrics.NoopRecorder{},
		logger:    slog.Default(),
		workers:   1,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Result is the outcome of a run: caller-facing status messages in emission
// order plus the build report.
type Result struct {
	Messages []string
	Report   *BuildReport
}

// Generate runs every stage. On failure the returned Result still carries
// the messages emitted so far and the report; the error wraps a
// *errors.SiteError naming the failed operation.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	report := newBuildReport()
	bs := newBuildState(g, report)
	bs.log = g.logger.With(logfields.RunID(report.RunID))
	bs.log.Info("Starting site generation", logfields.Path(g.fsys.Root()))

	stages := NewPipeline().
		Add(StageDiscover, stageDiscover).
		Add(StageAggregate, stageAggregate).
		Add(StageRender, stageRender).
		Add(StageWrite, stageWrite).
		Add(StageAssets, stageAssets).
		Add(StageMarker, stageMarker).
		Build()

	err := runStages(ctx, bs, stages)

	report.finish()
	report.deriveOutcome()
	g.recorder.ObserveBuildDuration(report.End.Sub(report.Start))
	g.recorder.IncBuildOutcome(string(report.Outcome))

	res := &Result{Messages: bs.messages, Report: report}
	if err != nil {
		return res, err
	}
	bs.log.Info("Site generation completed",
		slog.Int("pages", report.RenderedPages),
		slog.Int("skipped", report.SkippedPages),
		slog.String("outcome", string(report.Outcome)))
	return res, nil
}

func (g *Generator) pagesDir() string   { return filepath.Join(config.SourceDirName, config.ContentDirName, config.PagesDirName) }
func (g *Generator) layoutsDir() string { return filepath.Join(config.SourceDirName, config.LayoutsDirName) }
func (g *Generator) assetsDir() string  { return filepath.Join(config.SourceDirName, config.AssetsDirName) }

// language returns the site language tag, English when unset or invalid.
func (g *Generator) language() language.Tag {
	tag, err := language.Parse(g.cfg.Language())
	if err != nil {
		return language.English
	}
	return tag
}

// layoutRenderer returns the injected renderer or parses the layouts directory.
func (g *Generator) layoutRenderer() (layout.Renderer, error) {
	if g.renderer != nil {
		return g.renderer, nil
	}
	return layout.NewTemplateRenderer(g.fsys, g.layoutsDir(), layout.WithLanguage(g.language()))
}
