// Package layout renders pages through the site's text/template layouts.
package layout

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"golang.org/x/text/language"

	derrors "git.home.luguber.info/inful/sitegen/internal/errors"
)

// DefaultLayout is used when a page names no layout or a missing one.
const DefaultLayout = "default.html"

// Ext is the layout file extension.
const Ext = ".html"

// Renderer renders a named layout with page variables.
type Renderer interface {
	Render(layout string, vars map[string]any) (string, error)
}

// TemplateRenderer is a Renderer over one text/template set holding every
// layout file, so layouts can include each other by file name.
//
// Output is not escaped: page content is already HTML.
type TemplateRenderer struct {
	set *layoutSet
}

// Option configures a TemplateRenderer.
type Option func(*options)

type options struct {
	lang language.Tag
}

// WithLanguage sets the language used by the title helper.
func WithLanguage(tag language.Tag) Option {
	return func(o *options) { o.lang = tag }
}

// NewTemplateRenderer parses every *.html file in dir.
func NewTemplateRenderer(fsys billy.Filesystem, dir string, opts ...Option) (*TemplateRenderer, error) {
	o := options{lang: language.English}
	for _, opt := range opts {
		opt(&o)
	}

	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, derrors.LayoutRenderError(dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), Ext) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	set := newLayoutSet(o.lang)
	for _, name := range names {
		body, err := util.ReadFile(fsys, filepath.Join(dir, name))
		if err != nil {
			return nil, derrors.LayoutRenderError(name, err)
		}
		if err := set.add(name, string(body)); err != nil {
			return nil, derrors.LayoutRenderError(name, fmt.Errorf("parse layout: %w", err))
		}
	}
	return &TemplateRenderer{set: set}, nil
}

// Layouts lists the parsed layout names.
func (r *TemplateRenderer) Layouts() []string {
	return r.set.names()
}

// Render implements Renderer.
func (r *TemplateRenderer) Render(layout string, vars map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := r.set.execute(&buf, layout, vars); err != nil {
		return "", derrors.LayoutRenderError(layout, err)
	}
	return buf.String(), nil
}
