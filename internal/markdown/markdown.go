// Package markdown converts page bodies to HTML.
package markdown

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// AliasBaseURL is the reference label bound to the site base URL.
const AliasBaseURL = "base_url"

// Converter turns a Markdown body into an HTML fragment.
//
// aliases are predefined reference-link definitions (label to destination),
// so `[home][base_url]` resolves without the document declaring the label.
type Converter interface {
	ToHTML(body []byte, aliases map[string]string) ([]byte, error)
}

// Goldmark is the default Converter.
type Goldmark struct {
	md goldmark.Markdown
}

// NewGoldmark returns a converter with GFM tables, strikethrough, task lists
// and autolinks, generated heading IDs, raw HTML passthrough and code block
// attributes written on the <pre> element.
func NewGoldmark() *Goldmark {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
			renderer.WithNodeRenderers(util.Prioritized(&preAttrRenderer{}, 200)),
		),
	)
	return &Goldmark{md: md}
}

// ToHTML implements Converter.
//
// Aliases are registered before parsing; a document definition with the same
// label does not replace them.
func (g *Goldmark) ToHTML(body []byte, aliases map[string]string) ([]byte, error) {
	ctx := parser.NewContext()

	labels := make([]string, 0, len(aliases))
	for label := range aliases {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		ctx.AddReference(parser.NewReference([]byte(label), []byte(aliases[label]), nil))
	}

	var buf bytes.Buffer
	if err := g.md.Convert(body, &buf, parser.WithContext(ctx)); err != nil {
		return nil, fmt.Errorf("markdown convert: %w", err)
	}
	return buf.Bytes(), nil
}
