package site

import (
	"context"

	"git.home.luguber.info/inful/sitegen/internal/content"
	derrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// stageDiscover drains the content sequence so aggregation sees the full tree.
func stageDiscover(ctx context.Context, bs *BuildState) error {
	g := bs.Generator
	root := g.pagesDir()
	for u, err := range content.Discover(g.fsys, root) {
		if err != nil {
			return newFatalStageError(StageDiscover, derrors.ContentReadError(root, err))
		}
		if ctx.Err() != nil {
			return newCanceledStageError(StageDiscover, ctx.Err())
		}
		bs.Units = append(bs.Units, u)
	}
	bs.Report.Files = len(bs.Units)
	bs.log.Info("Content discovered", logfields.Path(root), logfields.Count(len(bs.Units)))
	return nil
}
