package layout

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/template"

	"golang.org/x/text/language"
)

// layoutSet wraps the shared text/template set.
type layoutSet struct {
	root *template.Template
}

func newLayoutSet(lang language.Tag) *layoutSet {
	return &layoutSet{
		root: template.New("").Funcs(funcMap(lang)).Option("missingkey=error"),
	}
}

func (s *layoutSet) add(name, body string) error {
	_, err := s.root.New(name).Parse(body)
	return err
}

func (s *layoutSet) names() []string {
	var out []string
	for _, tpl := range s.root.Templates() {
		if strings.HasSuffix(tpl.Name(), Ext) {
			out = append(out, tpl.Name())
		}
	}
	sort.Strings(out)
	return out
}

func (s *layoutSet) execute(w io.Writer, name string, data any) error {
	tpl := s.root.Lookup(name)
	if tpl == nil {
		return fmt.Errorf("layout %q not found", name)
	}
	if err := tpl.Execute(w, data); err != nil {
		return fmt.Errorf("render layout: %w", err)
	}
	return nil
}
