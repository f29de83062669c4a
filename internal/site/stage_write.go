package site

import (
	"context"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// stageWrite commits rendered pages in page order.
func stageWrite(ctx context.Context, bs *BuildState) error {
	g := bs.Generator
	w := NewWriter(g.fsys)

	written := 0
	for i, p := range bs.Pages.All() {
		if ctx.Err() != nil {
			g.recorder.AddPagesWritten(written)
			return newCanceledStageError(StageWrite, ctx.Err())
		}
		out := p.OutputPath()
		replaced, err := w.WritePage(p, bs.Rendered[i])
		if replaced {
			bs.emit("Delete %s", out)
		}
		if err != nil {
			g.recorder.AddPagesWritten(written)
			return newFatalStageError(StageWrite, err)
		}
		bs.emit("Write %s", out)
		bs.log.Debug("Page written", logfields.Path(out), logfields.Layout(p.Layout))

		written++
		bs.Report.RenderedPages++
		bs.Report.Pages = append(bs.Report.Pages, PageReport{
			Path:        p.Path,
			Output:      out,
			Layout:      p.Layout,
			Source:      p.Source,
			Fingerprint: p.Fingerprint,
		})
	}
	g.recorder.AddPagesWritten(written)
	return nil
}

// stageAssets drops a stray layouts directory and mirrors the asset tree.
func stageAssets(_ context.Context, bs *BuildState) error {
	g := bs.Generator
	w := NewWriter(g.fsys)

	removed, err := w.RemoveLayouts()
	if err != nil {
		return newFatalStageError(StageAssets, err)
	}
	if removed {
		bs.log.Info("Removed layouts directory from site root")
	}

	copied, err := w.CopyAssets(g.assetsDir())
	if err != nil {
		return newFatalStageError(StageAssets, err)
	}
	if !copied {
		bs.log.Info("No assets directory, skipping copy", logfields.Path(g.assetsDir()))
	}
	bs.emit("Copy assets directory (and sub)")
	return nil
}

// stageMarker writes the README marker.
func stageMarker(_ context.Context, bs *BuildState) error {
	if err := NewWriter(bs.Generator.fsys).WriteMarker(); err != nil {
		return newFatalStageError(StageMarker, err)
	}
	bs.emit("README file created")
	return nil
}
