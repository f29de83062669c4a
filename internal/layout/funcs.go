package layout

import (
	"strconv"
	"strings"
	"text/template"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// funcMap holds the helpers available to every layout.
func funcMap(lang language.Tag) template.FuncMap {
	return template.FuncMap{
		// cases.Caser is not safe for concurrent use.
		"title": func(s string) string { return cases.Title(lang).String(s) },
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
		"now":   func() time.Time { return time.Now().UTC() },
		"year":  func() string { return strconv.Itoa(time.Now().UTC().Year()) },
		"url":   URL,
	}
}

// URL joins a base URL and a site path: URL("http://x", "") is "http://x",
// URL("http://x/", "about") is "http://x/about".
func URL(base, path string) string {
	path = strings.Trim(path, "/")
	if path == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + path
}
