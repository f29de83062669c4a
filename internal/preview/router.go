package preview

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// DirectoryIndex is served for extensionless request paths.
const DirectoryIndex = "index.html"

// NotFoundBody is the response body for missing files.
const NotFoundBody = "404, page not found"

// Router serves the generated site from fsys. A path without an extension
// maps to `<path>/index.html`; anything that does not resolve to a regular
// file is a 404.
type Router struct {
	fsys billy.Filesystem
}

// NewRouter returns a router rooted at the site root.
func NewRouter(fsys billy.Filesystem) *Router { return &Router{fsys: fsys} }

// Resolve maps a request path to a file path relative to the site root.
func Resolve(urlPath string) string {
	p := path.Clean("/" + urlPath)
	if path.Ext(p) == "" {
		p = strings.TrimRight(p, "/") + "/" + DirectoryIndex
	}
	return strings.TrimPrefix(p, "/")
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	name := Resolve(r.URL.Path)
	fi, err := rt.fsys.Stat(name)
	if err != nil || fi.IsDir() {
		rt.notFound(w, r)
		return
	}
	data, err := util.ReadFile(rt.fsys, name)
	if err != nil {
		slog.Warn("Preview read failed", logfields.Path(name), logfields.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	slog.Debug("Preview request", logfields.Method(r.Method), logfields.URL(r.URL.Path), logfields.Status(http.StatusOK))
	http.ServeContent(w, r, fi.Name(), fi.ModTime(), bytes.NewReader(data))
}

func (rt *Router) notFound(w http.ResponseWriter, r *http.Request) {
	slog.Debug("Preview request", logfields.Method(r.Method), logfields.URL(r.URL.Path), logfields.Status(http.StatusNotFound))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if r.Method != http.MethodHead {
		_, _ = io.WriteString(w, NotFoundBody)
	}
}
