// Package config holds the site configuration: an immutable
// section -> key -> value mapping loaded from `_site-src/config.ini`.
package config

import (
	"fmt"
	"maps"
	"slices"

	"dario.cat/mergo"
)

// Site layout names, relative to the site root.
const (
	SourceDirName  = "_site-src"
	ConfigFileName = "config.ini"
	LayoutsDirName = "layouts"
	AssetsDirName  = "assets"
	ContentDirName = "content"
	PagesDirName   = "pages"
	PostsDirName   = "posts"
	MarkerFileName = "README.md"
)

// Well-known sections and keys.
const (
	SectionSite   = "site"
	SectionAuthor = "author"
	SectionDeploy = "deploy"

	KeyName       = "name"
	KeyBaseURL    = "base_url"
	KeyLanguage   = "language"
	KeyRepository = "repository"
	KeyBranch     = "branch"
)

const (
	DefaultBaseURL  = "http://localhost:8000"
	DefaultLanguage = "en"
	DefaultBranch   = "gh-pages"
)

// Config is a read-only hierarchical mapping. The zero value is empty and
// usable. Accessors return copies.
type Config struct {
	sections map[string]map[string]string
}

// New builds a Config from a deep copy of sections.
func New(sections map[string]map[string]string) Config {
	return Config{sections: cloneSections(sections)}
}

// Section returns a copy of the named section. A missing section yields an
// empty, non-nil map.
func (c Config) Section(name string) map[string]string {
	out := map[string]string{}
	maps.Copy(out, c.sections[name])
	return out
}

// Get returns the value at section/key or "" when absent.
func (c Config) Get(section, key string) string {
	v, _ := c.Lookup(section, key)
	return v
}

// Lookup reports whether section/key is present.
func (c Config) Lookup(section, key string) (string, bool) {
	sec, ok := c.sections[section]
	if !ok {
		return "", false
	}
	v, ok := sec[key]
	return v, ok
}

// Sections lists section names in lexical order.
func (c Config) Sections() []string {
	return slices.Sorted(maps.Keys(c.sections))
}

// Map returns a deep copy of the whole mapping.
func (c Config) Map() map[string]map[string]string {
	return cloneSections(c.sections)
}

func (c Config) BaseURL() string  { return c.Get(SectionSite, KeyBaseURL) }
func (c Config) Language() string { return c.Get(SectionSite, KeyLanguage) }

// withDefaults fills site.base_url and site.language when missing or empty.
func (c Config) withDefaults() (Config, error) {
	dst := cloneSections(c.sections)
	defaults := map[string]map[string]string{
		SectionSite: {
			KeyBaseURL:  DefaultBaseURL,
			KeyLanguage: DefaultLanguage,
		},
	}
	if err := mergo.Merge(&dst, defaults); err != nil {
		return Config{}, fmt.Errorf("apply config defaults: %w", err)
	}
	return Config{sections: dst}, nil
}

func cloneSections(in map[string]map[string]string) map[string]map[string]string {
	out := make(map[string]map[string]string, len(in))
	for name, sec := range in {
		cp := make(map[string]string, len(sec))
		maps.Copy(cp, sec)
		out[name] = cp
	}
	return out
}
