package site

// DefaultMenu is the menu every layout receives as `nav`.
const DefaultMenu = "nav"

// Page is the render-ready model of one content unit.
type Page struct {
	Layout      string            // layout file name, e.g. default.html
	Title       string            // resolved title
	Path        string            // site path, "" for the root
	Content     string            // converted HTML body
	OutputName  string            // <base>.html
	Params      map[string]string // front matter keys other than title/layout/menu
	Source      string            // source path, for diagnostics
	Fingerprint string            // content fingerprint
}

// OutputPath is Path/OutputName relative to the site root.
func (p *Page) OutputPath() string {
	if p.Path == "" {
		return p.OutputName
	}
	return p.Path + "/" + p.OutputName
}

// Pages is an insertion-ordered mapping of site path to page.
type Pages struct {
	keys  []string
	items map[string]*Page
}

// NewPages returns an empty mapping.
func NewPages() *Pages {
	return &Pages{items: map[string]*Page{}}
}

// Set stores p under key. Replacing an existing key keeps its original
// position and reports replaced=true.
func (ps *Pages) Set(key string, p *Page) (replaced bool) {
	if _, ok := ps.items[key]; ok {
		ps.items[key] = p
		return true
	}
	ps.keys = append(ps.keys, key)
	ps.items[key] = p
	return false
}

// Get returns the page under key.
func (ps *Pages) Get(key string) (*Page, bool) {
	p, ok := ps.items[key]
	return p, ok
}

// Len is the number of pages.
func (ps *Pages) Len() int { return len(ps.keys) }

// Keys returns keys in insertion order.
func (ps *Pages) Keys() []string {
	out := make([]string, len(ps.keys))
	copy(out, ps.keys)
	return out
}

// All returns pages in insertion order.
func (ps *Pages) All() []*Page {
	out := make([]*Page, 0, len(ps.keys))
	for _, k := range ps.keys {
		out = append(out, ps.items[k])
	}
	return out
}

// MenuEntry is one navigation link.
type MenuEntry struct {
	Title string
	Path  string
}

// Menus holds named menus in declaration order. Entries are never
// de-duplicated.
type Menus map[string][]MenuEntry

// NewMenus returns menus with an empty default menu.
func NewMenus() Menus {
	return Menus{DefaultMenu: []MenuEntry{}}
}

// Add appends e to the named menu.
func (m Menus) Add(name string, e MenuEntry) {
	m[name] = append(m[name], e)
}

// templateEntries exposes entries to layouts as {title, path} maps.
func templateEntries(entries []MenuEntry) []map[string]string {
	out := make([]map[string]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, map[string]string{"title": e.Title, "path": e.Path})
	}
	return out
}
