package site

import (
	"context"
	"log/slog"
	"maps"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// stageRender renders every page through its layout. Pages may render on
// several workers; each result lands in the slot matching the page order.
func stageRender(ctx context.Context, bs *BuildState) error {
	g := bs.Generator
	pages := bs.Pages.All()
	bs.Rendered = make([]string, len(pages))
	if len(pages) == 0 {
		return nil
	}

	r, err := g.layoutRenderer()
	if err != nil {
		return newFatalStageError(StageRender, err)
	}

	shared := g.sharedVars(bs.Menus)
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for i, p := range pages {
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			out, err := r.Render(p.Layout, pageVars(shared, p))
			if err != nil {
				return err
			}
			bs.Rendered[i] = out
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		if ctx.Err() != nil {
			return newCanceledStageError(StageRender, ctx.Err())
		}
		return newFatalStageError(StageRender, err)
	}

	bs.log.Debug("Pages rendered", logfields.Count(len(pages)), slog.Int("workers", g.workers))
	return nil
}

// sharedVars are the template variables identical for every page.
// Layouts only read them, so one copy serves all workers.
func (g *Generator) sharedVars(menus Menus) map[string]any {
	all := make(map[string]any, len(menus))
	for name, entries := range menus {
		all[name] = templateEntries(entries)
	}
	return map[string]any{
		"site":   g.cfg.Section(config.SectionSite),
		"author": g.cfg.Section(config.SectionAuthor),
		"source": g.cfg.Section(config.SectionDeploy),
		"nav":    templateEntries(menus[DefaultMenu]),
		"menus":  all,
	}
}

func pageVars(shared map[string]any, p *Page) map[string]any {
	vars := make(map[string]any, len(shared)+4)
	maps.Copy(vars, shared)
	vars["title"] = p.Title
	vars["path"] = p.Path
	vars["content"] = p.Content
	vars["params"] = p.Params
	return vars
}
