// Package scaffold creates the `_site-src` tree of a new site.
package scaffold

import (
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"git.home.luguber.info/inful/sitegen/internal/config"
	derrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/frontmatter"
	"git.home.luguber.info/inful/sitegen/internal/layout"
)

//go:embed templates/config.ini
var configTemplate []byte

//go:embed templates/default.html
var defaultLayout []byte

//go:embed templates/bootstrap.html
var bootstrapLayout []byte

// Kind selects the default layout flavour.
type Kind string

const (
	KindDefault   Kind = "default"
	KindBootstrap Kind = "bootstrap"
)

// ErrAlreadyInitialized is returned when a config file exists and force is off.
var ErrAlreadyInitialized = errors.New("the website is already initialized")

// ErrUnknownKind is returned for an unsupported layout kind.
var ErrUnknownKind = errors.New("unknown layout kind")

// AssetSubdirs are created below the assets directory.
var AssetSubdirs = []string{"css", "img", "js"}

var sampleBody = []byte(`Welcome!
========

sitegen is a small static website generator.
It converts content written with Markdown, merges it with layouts and writes static HTML files.

Go back [home][base_url].
`)

// Init scaffolds a site in fsys, which is rooted at the site root. It returns
// status messages in order. With force, an existing source directory is
// removed first.
func Init(fsys billy.Filesystem, kind Kind, force bool) ([]string, error) {
	var layoutBody []byte
	switch kind {
	case KindDefault, "":
		layoutBody = defaultLayout
	case KindBootstrap:
		layoutBody = bootstrapLayout
	default:
		return nil, derrors.ValidationFailed("layout", fmt.Sprintf("%s %q", ErrUnknownKind, kind))
	}

	src := config.SourceDirName
	if _, err := fsys.Stat(filepath.Join(src, config.ConfigFileName)); err == nil {
		if !force {
			return nil, derrors.Wrap(ErrAlreadyInitialized, derrors.CategoryValidation, derrors.SeverityFatal, "cannot initialize site")
		}
		if err := util.RemoveAll(fsys, src); err != nil {
			return nil, derrors.FilesystemError("remove", src, err)
		}
	}

	var messages []string
	mkdir := func(dir string) error {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return derrors.FilesystemError("create", dir, err)
		}
		return nil
	}
	write := func(name string, data []byte) error {
		if err := util.WriteFile(fsys, name, data, 0o644); err != nil {
			return derrors.FilesystemError("write", name, err)
		}
		return nil
	}

	if err := mkdir(src); err != nil {
		return messages, err
	}
	messages = append(messages, src+" directory created")

	if err := write(filepath.Join(src, config.ConfigFileName), configTemplate); err != nil {
		return messages, err
	}
	messages = append(messages, "Config file created")

	layouts := filepath.Join(src, config.LayoutsDirName)
	if err := mkdir(layouts); err != nil {
		return messages, err
	}
	messages = append(messages, "Layouts directory created")
	if err := write(filepath.Join(layouts, layout.DefaultLayout), layoutBody); err != nil {
		return messages, err
	}
	messages = append(messages, "Default layout file created")

	assets := filepath.Join(src, config.AssetsDirName)
	for _, sub := range AssetSubdirs {
		if err := mkdir(filepath.Join(assets, sub)); err != nil {
			return messages, err
		}
	}
	messages = append(messages, "Assets directory created", "Assets files not needed")

	content := filepath.Join(src, config.ContentDirName)
	pages := filepath.Join(content, config.PagesDirName)
	for _, dir := range []string{pages, filepath.Join(content, config.PostsDirName)} {
		if err := mkdir(dir); err != nil {
			return messages, err
		}
	}
	messages = append(messages, "Content directory created")

	index := frontmatter.Join(&frontmatter.FrontMatter{
		Title:  "Home",
		Layout: "default",
		Menu:   "nav",
	}, sampleBody)
	if err := write(filepath.Join(pages, "index.md"), index); err != nil {
		return messages, err
	}
	messages = append(messages, "Default content file created")
	return messages, nil
}
