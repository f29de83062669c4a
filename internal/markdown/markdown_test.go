package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToHTML_HeadingGetsID(t *testing.T) {
	out, err := NewGoldmark().ToHTML([]byte("# Hello World\n"), nil)
	require.NoError(t, err)
	require.Equal(t, "<h1 id=\"hello-world\">Hello World</h1>\n", string(out))
}

func TestToHTML_BaseURLAliasResolves(t *testing.T) {
	aliases := map[string]string{AliasBaseURL: "http://example.com"}

	out, err := NewGoldmark().ToHTML([]byte("Go [home][base_url].\n"), aliases)
	require.NoError(t, err)
	require.Contains(t, string(out), `<a href="http://example.com">home</a>`)
}

func TestToHTML_AliasWinsOverDocumentDefinition(t *testing.T) {
	aliases := map[string]string{AliasBaseURL: "http://example.com"}
	src := "[home][base_url]\n\n[base_url]: http://elsewhere.test\n"

	out, err := NewGoldmark().ToHTML([]byte(src), aliases)
	require.NoError(t, err)
	require.Contains(t, string(out), `href="http://example.com"`)
	require.NotContains(t, string(out), "elsewhere")
}

func TestToHTML_UnknownReferenceStaysText(t *testing.T) {
	out, err := NewGoldmark().ToHTML([]byte("[home][base_url]\n"), nil)
	require.NoError(t, err)
	require.NotContains(t, string(out), "<a ")
}

func TestToHTML_FencedCodeAttributesOnPre(t *testing.T) {
	src := "```go\nif a < b {}\n```\n"

	out, err := NewGoldmark().ToHTML([]byte(src), nil)
	require.NoError(t, err)
	require.Equal(t, "<pre class=\"language-go\"><code>if a &lt; b {}\n</code></pre>\n", string(out))
}

func TestToHTML_FencedCodeWithoutLanguage(t *testing.T) {
	out, err := NewGoldmark().ToHTML([]byte("```\nplain\n```\n"), nil)
	require.NoError(t, err)
	require.Equal(t, "<pre><code>plain\n</code></pre>\n", string(out))
}

func TestToHTML_RawHTMLPassesThrough(t *testing.T) {
	out, err := NewGoldmark().ToHTML([]byte("<div class=\"note\">hi</div>\n"), nil)
	require.NoError(t, err)
	require.Contains(t, string(out), `<div class="note">hi</div>`)
}

func TestToHTML_GFMTable(t *testing.T) {
	src := "| a | b |\n|---|---|\n| 1 | 2 |\n"

	out, err := NewGoldmark().ToHTML([]byte(src), nil)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(out), "<table>"), string(out))
	require.Contains(t, string(out), "<td>1</td>")
}

func TestToHTML_EmptyBody(t *testing.T) {
	out, err := NewGoldmark().ToHTML(nil, nil)
	require.NoError(t, err)
	require.Empty(t, out)
}
