package site

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/sitegen/internal/content"
	derrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/frontmatter"
	"git.home.luguber.info/inful/sitegen/internal/layout"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/markdown"
)

// stageAggregate builds the page mapping and menus from every discovered unit.
//
// Read and front matter failures abort the run. A unit whose Markdown cannot
// be converted is skipped and reported as a warning.
func stageAggregate(ctx context.Context, bs *BuildState) error {
	g := bs.Generator
	aliases := map[string]string{markdown.AliasBaseURL: g.cfg.BaseURL()}
	lang := g.language()

	skipped := 0
	for i := range bs.Units {
		if ctx.Err() != nil {
			return newCanceledStageError(StageAggregate, ctx.Err())
		}
		u := &bs.Units[i]
		rel := u.RelPath()

		if err := u.Load(g.fsys); err != nil {
			return newFatalStageError(StageAggregate, derrors.ContentReadError(rel, err))
		}
		fm, body, err := frontmatter.Parse(u.Raw)
		if err != nil {
			return newFatalStageError(StageAggregate, derrors.FrontMatterError(rel, err))
		}

		html, err := g.converter.ToHTML(body, aliases)
		if err != nil {
			se := derrors.MarkdownParseError(rel, err)
			bs.Report.AddIssue(IssueMarkdownSkipped, StageAggregate, SeverityWarning, se.Error(), se)
			bs.Report.SkippedPages++
			g.recorder.IncPagesSkipped()
			bs.log.Warn("Skipping page", logfields.Path(rel), logfields.Error(err))
			bs.emit("Skip %s", rel)
			skipped++
			continue
		}

		page := &Page{
			Layout:      g.resolveLayout(fm),
			Title:       resolveTitle(fm, *u, lang),
			Path:        u.SitePath,
			Content:     string(html),
			OutputName:  u.BaseName() + layout.Ext,
			Params:      map[string]string{},
			Source:      u.SourcePath,
			Fingerprint: frontmatter.Fingerprint(fm, body),
		}
		if fm != nil {
			page.Params = fm.Params
			if fm.Menu != "" {
				bs.Menus.Add(fm.Menu, MenuEntry{Title: page.Title, Path: page.Path})
			}
		}

		if bs.Pages.Set(u.SitePath, page) {
			msg := fmt.Sprintf("%s replaces an earlier page at site path %q", rel, u.SitePath)
			se := derrors.New(derrors.CategoryContent, derrors.SeverityWarning, msg).WithContext("path", rel)
			bs.Report.AddIssue(IssueSitePathCollision, StageAggregate, SeverityWarning, msg, se)
			bs.log.Warn("Site path collision, later file wins", logfields.Path(rel), logfields.SitePath(u.SitePath))
		}

		// Raw content is not needed past this point.
		u.Raw = nil
	}

	bs.log.Info("Pages aggregated", logfields.Count(bs.Pages.Len()), slog.Int("menus", len(bs.Menus)))
	if skipped > 0 {
		return newWarnStageError(StageAggregate, fmt.Errorf("%d page(s) skipped", skipped))
	}
	return nil
}

// resolveLayout picks `<layout>.html` when the layouts directory has it.
func (g *Generator) resolveLayout(fm *frontmatter.FrontMatter) string {
	if fm == nil || fm.Layout == "" {
		return layout.DefaultLayout
	}
	name := fm.Layout + layout.Ext
	fi, err := g.fsys.Stat(filepath.Join(g.layoutsDir(), name))
	if err != nil || fi.IsDir() {
		return layout.DefaultLayout
	}
	return name
}

// resolveTitle prefers the front matter title, else the base filename with
// its first letter upper-cased.
func resolveTitle(fm *frontmatter.FrontMatter, u content.Unit, lang language.Tag) string {
	if fm != nil && fm.Title != "" {
		return fm.Title
	}
	return upperFirst(u.BaseName(), lang)
}

func upperFirst(s string, lang language.Tag) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return cases.Upper(lang).String(string(r)) + s[size:]
}
