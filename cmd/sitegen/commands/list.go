package commands

import (
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/content"
	derrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

// ListCmd groups the 'list' subcommands.
type ListCmd struct {
	Pages ListPagesCmd `cmd:"" help:"List page sources"`
}

// ListPagesCmd prints every file below content/pages, children first.
type ListPagesCmd struct{}

func (l *ListPagesCmd) Run(g *Global, root *CLI) error {
	g.Console.Info("List pages")
	fsys := osfs.New(root.Root)
	dir := filepath.Join(config.SourceDirName, config.ContentDirName, config.PagesDirName)
	if fi, err := fsys.Stat(dir); err != nil || !fi.IsDir() {
		return derrors.New(derrors.CategoryValidation, derrors.SeverityFatal, "Invalid content/pages directory").
			WithContext("path", dir)
	}

	files, err := content.List(fsys, dir)
	if err != nil {
		return derrors.ContentReadError(dir, err)
	}
	for _, f := range files {
		g.Console.Plain("- " + f)
	}
	return nil
}
